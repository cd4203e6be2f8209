package artifacts

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// AnonymousColumn is the name given to a blank first header cell, the shape
// pandas writes for an index exported without a label.
const AnonymousColumn = "Unnamed: 0"

var missingTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"NA":   {},
	"N/A":  {},
	"<NA>": {},
	"null": {},
	"NULL": {},
	"None": {},
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// Table is an immutable, column-addressable CSV snapshot. Every accessor
// returns a fresh slice, so callers may sort or modify what they get.
type Table struct {
	name    Name
	columns []string
	index   map[string]int
	rows    int
	// frame is only populated when rows > 0; gota rejects header-only input.
	frame dataframe.DataFrame
}

// ReadCSV parses a header-first CSV stream into a Table for dataset name.
func ReadCSV(name Name, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: missing header row", name)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return NewTable(name, header, records[1:])
}

// NewTable builds a Table from a header and data rows. Blank header cells
// become "Unnamed: <i>" and repeated names get ".1", ".2" suffixes. Short
// rows are padded with empty cells; rows longer than the header are an error.
func NewTable(name Name, header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("parse %s: empty header", name)
	}

	columns := normalizeHeader(header)
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	t := &Table{name: name, columns: columns, index: index, rows: len(rows)}
	if len(rows) == 0 {
		return t, nil
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, columns)
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("parse %s: row %d has %d fields, header has %d", name, i, len(row), len(columns))
		}
		padded := make([]string, len(columns))
		copy(padded, row)
		records = append(records, padded)
	}

	t.frame = dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if t.frame.Err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, t.frame.Err)
	}
	return t, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		base := h
		if n, dup := seen[base]; dup {
			seen[base] = n + 1
			h = fmt.Sprintf("%s.%d", base, n+1)
		}
		if _, ok := seen[h]; !ok {
			seen[h] = 0
		}
		columns[i] = h
	}
	return columns
}

// Name returns the dataset the table was loaded for.
func (t *Table) Name() Name { return t.name }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// HasColumn reports whether column exists.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Require returns a *SchemaError for the first column that does not exist.
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return missingColumn(t.name, c)
		}
	}
	return nil
}

// Missing lists the given columns that do not exist.
func (t *Table) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Strings returns the raw cell text of column.
func (t *Table) Strings(column string) ([]string, error) {
	if err := t.Require(column); err != nil {
		return nil, err
	}
	if t.rows == 0 {
		return []string{}, nil
	}
	return t.frame.Col(column).Records(), nil
}

// Floats returns column parsed as float64. Empty and NA-like cells become
// NaN; any other unparsable cell is a *SchemaError.
func (t *Table) Floats(column string) ([]float64, error) {
	raw, err := t.Strings(column)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if _, missing := missingTokens[s]; missing {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &SchemaError{Dataset: t.name, Column: column, Row: i, Value: s, Reason: "not a number"}
		}
		out[i] = v
	}
	return out, nil
}

// Times returns column parsed as dates.
func (t *Table) Times(column string) ([]time.Time, error) {
	raw, err := t.Strings(column)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(raw))
	for i, s := range raw {
		v, ok := parseDate(strings.TrimSpace(s))
		if !ok {
			return nil, &SchemaError{Dataset: t.name, Column: column, Row: i, Value: s, Reason: "not a date"}
		}
		out[i] = v
	}
	return out, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}

// Records returns the data rows, header excluded.
func (t *Table) Records() [][]string {
	out := make([][]string, t.rows)
	if t.rows == 0 {
		return out
	}
	cols := make([][]string, len(t.columns))
	for j, c := range t.columns {
		cols[j] = t.frame.Col(c).Records()
	}
	for i := range out {
		row := make([]string, len(t.columns))
		for j := range cols {
			row[j] = cols[j][i]
		}
		out[i] = row
	}
	return out
}
