package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

// ArtifactFixtures is a small but complete artifacts directory, keyed by
// file name.
var ArtifactFixtures = map[string]string{
	"cluster_analysis.csv": "Cluster,Revenue_Share,Total_Spent_mean\n" +
		"0,55.0,12.5\n" +
		"1,30.0,310.0\n" +
		"2,15.0,95.5\n",
	"fan_purchase_probabilities.csv": "fan_id,Total_Spent,Purchase_Probability,Cluster,Favorite_Team\n" +
		"1001,820.0,0.91,1,Flamengo\n" +
		"1002,150.0,0.40,2,Palmeiras\n" +
		"1003,0.0,0.05,0,Santos\n" +
		"1004,410.0,0.78,1,Corinthians\n",
	"model_comparison.csv": "Model,RMSE,MAE\n" +
		"Prophet,1520.4,1210.8\n" +
		"LSTM,1340.2,1050.1\n",
	"team_revenue_forecasts.csv": ",Expected_Revenue,Avg_Purchase_Probability,Fan_Count,Historical_Avg\n" +
		"Flamengo,152340.5,0.72,1200,140000\n" +
		"Palmeiras,98000,0.655,850,91000.25\n" +
		"Corinthians,87000.75,0.61,790,88000\n",
	"revenue_forecast_30d.csv": "Date,Revenue_Forecast,Upper_Bound,Lower_Bound\n" +
		"2024-07-01,1000,1200,800\n" +
		"2024-07-02,1100,1300,900\n" +
		"2024-07-06,1500,1800,1300\n",
	"xgboost_feature_importance.csv": "feature,importance\n" +
		"days_since_last_purchase,0.31\n" +
		"total_spent,0.27\n" +
		"matches_attended,0.18\n",
	"lstm_training_history.csv": "epoch,loss,val_loss\n" +
		"1,0.52,0.61\n" +
		"2,0.41,0.50\n",
}

// ArtifactFS returns the fixtures as an in-memory filesystem, leaving out
// the named files.
func ArtifactFS(without ...string) fstest.MapFS {
	skip := make(map[string]bool, len(without))
	for _, f := range without {
		skip[f] = true
	}
	fsys := fstest.MapFS{}
	for name, content := range ArtifactFixtures {
		if !skip[name] {
			fsys[name] = &fstest.MapFile{Data: []byte(content)}
		}
	}
	return fsys
}

// WriteArtifacts writes the fixtures to a temporary directory and returns
// its path.
func WriteArtifacts(t *testing.T, without ...string) string {
	t.Helper()
	dir := t.TempDir()
	for name, f := range ArtifactFS(without...) {
		if err := os.WriteFile(filepath.Join(dir, name), f.Data, 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	return dir
}
