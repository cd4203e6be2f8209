package panels

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatCurrency renders v as Brazilian reais with two decimals and comma
// thousands separators: 1234.5 becomes "R$ 1,234.50".
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return "R$ " + humanize.FormatFloat("#,###.##", v)
}

// FormatPercent renders a fraction with one decimal: 0.753 becomes "75.3%".
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

// FormatFans renders a fan count the way the summary card shows it.
func FormatFans(n int) string {
	return fmt.Sprintf("%d fãs", n)
}

// formatNumber renders v without trailing zeros; cluster ids read as
// "1" whether the file says 1 or 1.0.
func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
