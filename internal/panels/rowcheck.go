package panels

import (
	"errors"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"

	"trexxdash/internal/artifacts"
	"trexxdash/pkg/contracts/domain"
)

// Rule names reported in RowIssue.Rule
const (
	RuleProbabilityRange = "probability_range"
	RuleForecastBand     = "forecast_band"
	RuleNonNegative      = "non_negative"
)

// Actions reported in RowIssue.Action
const (
	ActionKept    = "kept"
	ActionDropped = "dropped"
	ActionClamped = "clamped"
)

var validate = validator.New()

type probabilityRow struct {
	Probability float64 `validate:"gte=0,lte=1"`
}

type bandRow struct {
	Lower    float64
	Forecast float64 `validate:"gtefield=Lower"`
	Upper    float64 `validate:"gtefield=Forecast"`
}

type importanceRow struct {
	Importance float64 `validate:"gte=0"`
}

// checked is the outcome of applying a policy to one or more columns.
// keep is false for rows the policy rejected.
type checked struct {
	keep   []bool
	issues []domain.RowIssue
}

func newChecked(n int) *checked {
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}
	return &checked{keep: keep}
}

func actionFor(policy RowPolicy) string {
	switch policy {
	case RowPolicyReject:
		return ActionDropped
	case RowPolicyClamp:
		return ActionClamped
	default:
		return ActionKept
	}
}

func violates(row any) bool {
	err := validate.Struct(row)
	var verrs validator.ValidationErrors
	return err != nil && errors.As(err, &verrs) && len(verrs) > 0
}

func cell(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// checkProbabilities applies policy to probability values. It returns the
// values to use (a copy, clamped under RowPolicyClamp). Missing values are
// not malformed and pass through untouched.
func checkProbabilities(dataset artifacts.Name, column string, values []float64, policy RowPolicy) ([]float64, *checked) {
	out := append([]float64(nil), values...)
	res := newChecked(len(values))
	action := actionFor(policy)

	for i, v := range values {
		if !finite(v) || !violates(probabilityRow{Probability: v}) {
			continue
		}
		res.issues = append(res.issues, domain.RowIssue{
			Dataset: string(dataset), Row: i, Field: column,
			Rule: RuleProbabilityRange, Value: cell(v), Action: action,
		})
		switch policy {
		case RowPolicyReject:
			res.keep[i] = false
		case RowPolicyClamp:
			out[i] = math.Min(1, math.Max(0, v))
		}
	}
	return out, res
}

// checkBand enforces Lower <= Forecast <= Upper. Under RowPolicyClamp
// inverted bounds are swapped and the forecast is moved inside them.
func checkBand(dataset artifacts.Name, lower, forecast, upper []float64, policy RowPolicy) (lo, fc, up []float64, res *checked) {
	lo = append([]float64(nil), lower...)
	fc = append([]float64(nil), forecast...)
	up = append([]float64(nil), upper...)
	res = newChecked(len(forecast))
	action := actionFor(policy)

	for i := range forecast {
		if !finite(lower[i]) || !finite(forecast[i]) || !finite(upper[i]) {
			continue
		}
		if !violates(bandRow{Lower: lower[i], Forecast: forecast[i], Upper: upper[i]}) {
			continue
		}
		res.issues = append(res.issues, domain.RowIssue{
			Dataset: string(dataset), Row: i, Field: "Revenue_Forecast",
			Rule: RuleForecastBand, Value: cell(forecast[i]), Action: action,
		})
		switch policy {
		case RowPolicyReject:
			res.keep[i] = false
		case RowPolicyClamp:
			if lo[i] > up[i] {
				lo[i], up[i] = up[i], lo[i]
			}
			fc[i] = math.Min(up[i], math.Max(lo[i], fc[i]))
		}
	}
	return lo, fc, up, res
}

// checkNonNegative applies policy to values that must not be negative.
func checkNonNegative(dataset artifacts.Name, column string, values []float64, policy RowPolicy) ([]float64, *checked) {
	out := append([]float64(nil), values...)
	res := newChecked(len(values))
	action := actionFor(policy)

	for i, v := range values {
		if !finite(v) || !violates(importanceRow{Importance: v}) {
			continue
		}
		res.issues = append(res.issues, domain.RowIssue{
			Dataset: string(dataset), Row: i, Field: column,
			Rule: RuleNonNegative, Value: cell(v), Action: action,
		})
		switch policy {
		case RowPolicyReject:
			res.keep[i] = false
		case RowPolicyClamp:
			out[i] = 0
		}
	}
	return out, res
}
