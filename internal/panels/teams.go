package panels

import (
	"trexxdash/internal/artifacts"
	"trexxdash/pkg/contracts/domain"
)

var currencyColumns = map[string]bool{
	colExpectedRevenue: true,
	colHistoricalAvg:   true,
}

var percentColumns = map[string]bool{
	colAvgPurchaseProbability: true,
}

// BuildTeams returns the per-team views sorted by expected revenue,
// highest first. Ties keep file order.
func BuildTeams(teams *artifacts.Table, opts Options) (*domain.TeamsPanel, error) {
	if err := requireAll(domain.PanelTeams, input{artifacts.TeamForecasts, teams}); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if err := teams.Require(colExpectedRevenue, colAvgPurchaseProbability, colFanCount, colHistoricalAvg); err != nil {
		return nil, err
	}

	idColumn := teamColumn(teams)
	ids, err := teams.Strings(idColumn)
	if err != nil {
		return nil, err
	}
	revenue, err := teams.Floats(colExpectedRevenue)
	if err != nil {
		return nil, err
	}
	probs, err := teams.Floats(colAvgPurchaseProbability)
	if err != nil {
		return nil, err
	}
	fanCount, err := teams.Floats(colFanCount)
	if err != nil {
		return nil, err
	}
	historical, err := teams.Floats(colHistoricalAvg)
	if err != nil {
		return nil, err
	}

	probs, checks := checkProbabilities(artifacts.TeamForecasts, colAvgPurchaseProbability, probs, opts.RowPolicy)
	order := descendingOrder(revenue, checks.keep)
	total := sumFinite(revenue, checks.keep)

	panel := &domain.TeamsPanel{
		Bars:   domain.TeamBarChart{Chart: teamBarChart, Bars: make([]domain.TeamBar, 0, len(order))},
		Shares: domain.TeamShareChart{Chart: teamShareChart, Shares: make([]domain.TeamShare, 0, len(order))},
		Issues: checks.issues,
	}
	for _, i := range order {
		panel.Bars.Bars = append(panel.Bars.Bars, domain.TeamBar{
			Team:                   ids[i],
			ExpectedRevenue:        domain.Float(revenue[i]),
			AvgPurchaseProbability: domain.Float(probs[i]),
		})
		share := 0.0
		if total != 0 {
			share = revenue[i] / total
		}
		panel.Shares.Shares = append(panel.Shares.Shares, domain.TeamShare{
			Team:            ids[i],
			ExpectedRevenue: domain.Float(revenue[i]),
			Share:           domain.Float(share),
			FanCount:        domain.Float(fanCount[i]),
			HistoricalAvg:   domain.Float(historical[i]),
		})
	}
	panel.Detail = teamDetail(teams, idColumn, order, map[string][]float64{
		colExpectedRevenue:        revenue,
		colHistoricalAvg:          historical,
		colAvgPurchaseProbability: probs,
	})
	return panel, nil
}

// teamDetail formats the table for display. The identifier column is
// always called Team; currency and probability columns are formatted and
// every other cell is copied as is. numeric holds the already parsed (and
// policy-checked) values of the formatted columns.
func teamDetail(teams *artifacts.Table, idColumn string, order []int, numeric map[string][]float64) domain.DetailTable {
	columns := teams.Columns()
	records := teams.Records()

	header := make([]string, len(columns))
	for j, c := range columns {
		header[j] = c
		if c == idColumn {
			header[j] = colTeam
		}
	}

	rows := make([][]string, 0, len(order))
	for _, i := range order {
		row := make([]string, len(columns))
		for j, c := range columns {
			switch {
			case currencyColumns[c]:
				row[j] = FormatCurrency(numeric[c][i])
			case percentColumns[c]:
				row[j] = FormatPercent(numeric[c][i])
			default:
				row[j] = records[i][j]
			}
		}
		rows = append(rows, row)
	}
	return domain.DetailTable{Columns: header, Rows: rows}
}
