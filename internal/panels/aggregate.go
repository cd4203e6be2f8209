package panels

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// sumFinite adds the finite values selected by keep (nil keeps all).
func sumFinite(values []float64, keep []bool) float64 {
	selected := make([]float64, 0, len(values))
	for i, v := range values {
		if (keep == nil || keep[i]) && finite(v) {
			selected = append(selected, v)
		}
	}
	if len(selected) == 0 {
		return 0
	}
	return floats.Sum(selected)
}

// argmaxFinite returns the index of the largest finite value among the rows
// selected by keep, the first one on ties, or -1 when there is none.
func argmaxFinite(values []float64, keep []bool) int {
	selected := make([]float64, 0, len(values))
	index := make([]int, 0, len(values))
	for i, v := range values {
		if (keep == nil || keep[i]) && finite(v) {
			selected = append(selected, v)
			index = append(index, i)
		}
	}
	if len(selected) == 0 {
		return -1
	}
	return index[floats.MaxIdx(selected)]
}

// descendingOrder returns the row indices selected by keep, stably sorted by
// value descending with NaN last.
func descendingOrder(values []float64, keep []bool) []int {
	order := make([]int, 0, len(values))
	for i := range values {
		if keep == nil || keep[i] {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := values[order[a]], values[order[b]]
		if math.IsNaN(vb) {
			return !math.IsNaN(va)
		}
		if math.IsNaN(va) {
			return false
		}
		return va > vb
	})
	return order
}
