package panels

import (
	"fmt"
	"strings"
)

// RowPolicy selects what builders do with rows that break a value rule.
type RowPolicy string

const (
	// RowPolicyPass keeps offending rows unchanged and reports them.
	RowPolicyPass RowPolicy = "pass"
	// RowPolicyReject drops offending rows before aggregation.
	RowPolicyReject RowPolicy = "reject"
	// RowPolicyClamp moves offending values to the nearest valid value.
	RowPolicyClamp RowPolicy = "clamp"
)

// ParseRowPolicy accepts pass, reject or clamp in any case.
func ParseRowPolicy(s string) (RowPolicy, error) {
	switch p := RowPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case RowPolicyPass, RowPolicyReject, RowPolicyClamp:
		return p, nil
	case "":
		return RowPolicyPass, nil
	default:
		return "", fmt.Errorf("unknown row policy %q", s)
	}
}

// Options tunes the builders. Zero fields take the defaults.
type Options struct {
	HighProbabilityThreshold float64
	TopFeatures              int
	RowPolicy                RowPolicy
}

const (
	defaultHighProbabilityThreshold = 0.75
	defaultTopFeatures              = 15
	// scatterSizeMax is the marker diameter of the biggest spender.
	scatterSizeMax = 20.0
)

// DefaultOptions returns the dashboard's stock settings.
func DefaultOptions() Options {
	return Options{
		HighProbabilityThreshold: defaultHighProbabilityThreshold,
		TopFeatures:              defaultTopFeatures,
		RowPolicy:                RowPolicyPass,
	}
}

func (o Options) withDefaults() Options {
	if o.HighProbabilityThreshold == 0 {
		o.HighProbabilityThreshold = defaultHighProbabilityThreshold
	}
	if o.TopFeatures <= 0 {
		o.TopFeatures = defaultTopFeatures
	}
	if o.RowPolicy == "" {
		o.RowPolicy = RowPolicyPass
	}
	return o
}
