package exporter

import (
	"math"
	"strconv"

	"trexxdash/pkg/contracts/domain"
)

// formatFloat renders v with as many decimals as it needs; missing values
// become empty cells.
func formatFloat(v domain.Float) string {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cellValue is the workbook value for v: a number, or nil for an empty cell.
func cellValue(v domain.Float) any {
	if !v.Valid() {
		return nil
	}
	return float64(v)
}

func missingFiles(missing []domain.MissingArtifact) []string {
	files := make([]string, len(missing))
	for i, m := range missing {
		files[i] = m.File
	}
	return files
}
