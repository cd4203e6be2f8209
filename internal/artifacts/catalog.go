package artifacts

import (
	"errors"
	"fmt"
)

// Name is the logical identifier of a dataset, independent of its file name.
type Name string

// Logical dataset names
const (
	ClusterAnalysis   Name = "cluster_analysis"
	FanProbabilities  Name = "fan_probabilities"
	ModelComparison   Name = "model_comparison"
	TeamForecasts     Name = "team_forecasts"
	RevenueForecast   Name = "revenue_forecast"
	XGBoostImportance Name = "xgboost_importance"
	LSTMHistory       Name = "lstm_history"
)

// ErrUnknownDataset is returned for a name outside the catalog.
var ErrUnknownDataset = errors.New("unknown dataset")

var fileNames = map[Name]string{
	ClusterAnalysis:   "cluster_analysis.csv",
	FanProbabilities:  "fan_purchase_probabilities.csv",
	ModelComparison:   "model_comparison.csv",
	TeamForecasts:     "team_revenue_forecasts.csv",
	RevenueForecast:   "revenue_forecast_30d.csv",
	XGBoostImportance: "xgboost_feature_importance.csv",
	LSTMHistory:       "lstm_training_history.csv",
}

// expectedColumns lists the columns each dataset is produced with. Loading
// only warns about gaps; panels enforce what they actually read.
var expectedColumns = map[Name][]string{
	ClusterAnalysis:   {"Cluster", "Revenue_Share", "Total_Spent_mean"},
	FanProbabilities:  {"fan_id", "Total_Spent", "Purchase_Probability", "Cluster", "Favorite_Team"},
	ModelComparison:   {"Model", "RMSE", "MAE"},
	TeamForecasts:     {"Expected_Revenue", "Avg_Purchase_Probability", "Fan_Count", "Historical_Avg"},
	RevenueForecast:   {"Date", "Revenue_Forecast", "Upper_Bound", "Lower_Bound"},
	XGBoostImportance: {"feature", "importance"},
	LSTMHistory:       nil,
}

// Names returns every catalogued dataset in a stable order.
func Names() []Name {
	return []Name{
		ClusterAnalysis,
		FanProbabilities,
		ModelComparison,
		TeamForecasts,
		RevenueForecast,
		XGBoostImportance,
		LSTMHistory,
	}
}

// ParseName validates s against the catalog.
func ParseName(s string) (Name, error) {
	n := Name(s)
	if _, ok := fileNames[n]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
	}
	return n, nil
}

// FileName returns the file backing n, or "" for unknown names.
func (n Name) FileName() string {
	return fileNames[n]
}

// ExpectedColumns returns a copy of the columns n is produced with.
func (n Name) ExpectedColumns() []string {
	return append([]string(nil), expectedColumns[n]...)
}

func (n Name) String() string {
	return string(n)
}
