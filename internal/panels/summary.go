package panels

import (
	"trexxdash/internal/artifacts"
	"trexxdash/pkg/contracts/domain"
)

// Columns read by the builders.
const (
	colTeam                   = "Team"
	colExpectedRevenue        = "Expected_Revenue"
	colAvgPurchaseProbability = "Avg_Purchase_Probability"
	colFanCount               = "Fan_Count"
	colHistoricalAvg          = "Historical_Avg"

	colDate            = "Date"
	colRevenueForecast = "Revenue_Forecast"
	colUpperBound      = "Upper_Bound"
	colLowerBound      = "Lower_Bound"

	colFanID               = "fan_id"
	colTotalSpent          = "Total_Spent"
	colPurchaseProbability = "Purchase_Probability"
	colCluster             = "Cluster"
	colFavoriteTeam        = "Favorite_Team"

	colRevenueShare   = "Revenue_Share"
	colTotalSpentMean = "Total_Spent_mean"

	colModel = "Model"
	colRMSE  = "RMSE"
	colMAE   = "MAE"

	colFeature    = "feature"
	colImportance = "importance"
)

// teamColumn is the team identifier: Team when present, otherwise the first
// column, which the producer usually leaves unlabeled.
func teamColumn(t *artifacts.Table) string {
	if t.HasColumn(colTeam) {
		return colTeam
	}
	cols := t.Columns()
	if len(cols) == 0 {
		return artifacts.AnonymousColumn
	}
	return cols[0]
}

// BuildSummary computes the executive KPIs. All three tables are required;
// if any is nil no KPI is computed.
func BuildSummary(teams, forecast, fans *artifacts.Table, opts Options) (*domain.SummaryPanel, error) {
	if err := requireAll(domain.PanelSummary,
		input{artifacts.TeamForecasts, teams},
		input{artifacts.RevenueForecast, forecast},
		input{artifacts.FanProbabilities, fans},
	); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	revenue, err := forecast.Floats(colRevenueForecast)
	if err != nil {
		return nil, err
	}
	teamRevenue, err := teams.Floats(colExpectedRevenue)
	if err != nil {
		return nil, err
	}
	teamIDs, err := teams.Strings(teamColumn(teams))
	if err != nil {
		return nil, err
	}
	probs, err := fans.Floats(colPurchaseProbability)
	if err != nil {
		return nil, err
	}

	probs, checks := checkProbabilities(artifacts.FanProbabilities, colPurchaseProbability, probs, opts.RowPolicy)

	total := sumFinite(revenue, nil)
	panel := &domain.SummaryPanel{
		TotalForecast:            domain.Float(total),
		TotalForecastDisplay:     FormatCurrency(total),
		HighProbabilityThreshold: opts.HighProbabilityThreshold,
		Issues:                   checks.issues,
	}

	if i := argmaxFinite(teamRevenue, nil); i >= 0 {
		panel.TopTeam = &domain.TopTeam{
			Team:            teamIDs[i],
			ExpectedRevenue: domain.Float(teamRevenue[i]),
			Display:         FormatCurrency(teamRevenue[i]),
		}
	}

	for i, p := range probs {
		if checks.keep[i] && finite(p) && p > opts.HighProbabilityThreshold {
			panel.HighProbabilityFans++
		}
	}
	panel.HighProbabilityDisplay = FormatFans(panel.HighProbabilityFans)
	return panel, nil
}
