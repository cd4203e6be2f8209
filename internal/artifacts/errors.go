package artifacts

import "fmt"

// SchemaError reports a table that lacks a column a consumer needs, or a
// cell that cannot be read as the column's type.
type SchemaError struct {
	Dataset Name
	Column  string
	Row     int // 0-based data row, -1 when the whole column is missing
	Value   string
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: column %q: %s", e.Dataset, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s: column %q row %d: %s (%q)", e.Dataset, e.Column, e.Row, e.Reason, e.Value)
}

func missingColumn(dataset Name, column string) *SchemaError {
	return &SchemaError{Dataset: dataset, Column: column, Row: -1, Reason: "missing required column"}
}
