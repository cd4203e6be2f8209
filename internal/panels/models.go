package panels

import (
	"fmt"

	"trexxdash/internal/artifacts"
	"trexxdash/pkg/contracts/domain"
)

// BuildModels returns the model comparison and feature importance charts.
// Either table may be nil; the panel then reports partial or unavailable
// status instead of an error. Schema errors still fail the panel.
func BuildModels(comparison, importance *artifacts.Table, opts Options) (*domain.ModelsPanel, error) {
	opts = opts.withDefaults()
	panel := &domain.ModelsPanel{}

	var missing []artifacts.Name
	if comparison == nil {
		missing = append(missing, artifacts.ModelComparison)
	} else {
		chart, err := modelComparison(comparison)
		if err != nil {
			return nil, err
		}
		panel.Comparison = chart
	}
	if importance == nil {
		missing = append(missing, artifacts.XGBoostImportance)
	} else {
		chart, issues, err := featureImportance(importance, opts)
		if err != nil {
			return nil, err
		}
		panel.Importance = chart
		panel.Issues = issues
	}

	switch len(missing) {
	case 0:
		panel.Status = domain.PanelStatusOK
	case 2:
		panel.Status = domain.PanelStatusUnavailable
	default:
		panel.Status = domain.PanelStatusPartial
	}
	if len(missing) > 0 {
		panel.Missing = missingArtifacts(missing)
	}
	return panel, nil
}

// modelComparison melts the RMSE and MAE columns into one point per
// (model, metric): every RMSE point first, then every MAE point.
func modelComparison(t *artifacts.Table) (*domain.ModelComparisonChart, error) {
	if err := t.Require(colModel, colRMSE, colMAE); err != nil {
		return nil, err
	}
	models, err := t.Strings(colModel)
	if err != nil {
		return nil, err
	}

	chart := &domain.ModelComparisonChart{
		Chart:  modelComparisonChart,
		Points: make([]domain.MetricPoint, 0, 2*len(models)),
	}
	for _, metric := range []string{colRMSE, colMAE} {
		values, err := t.Floats(metric)
		if err != nil {
			return nil, err
		}
		for i, m := range models {
			chart.Points = append(chart.Points, domain.MetricPoint{
				Model:  m,
				Metric: metric,
				Value:  domain.Float(values[i]),
			})
		}
	}
	return chart, nil
}

// featureImportance keeps the TopFeatures most important features, ties
// in file order, and lists them least important first.
func featureImportance(t *artifacts.Table, opts Options) (*domain.FeatureImportanceChart, []domain.RowIssue, error) {
	if err := t.Require(colFeature, colImportance); err != nil {
		return nil, nil, err
	}
	features, err := t.Strings(colFeature)
	if err != nil {
		return nil, nil, err
	}
	values, err := t.Floats(colImportance)
	if err != nil {
		return nil, nil, err
	}

	values, checks := checkNonNegative(artifacts.XGBoostImportance, colImportance, values, opts.RowPolicy)
	keep := checks.keep
	for i, v := range values {
		keep[i] = keep[i] && finite(v)
	}

	order := descendingOrder(values, keep)
	if len(order) > opts.TopFeatures {
		order = order[:opts.TopFeatures]
	}

	chart := &domain.FeatureImportanceChart{
		Chart:    featureImportanceChart,
		Features: make([]domain.FeatureImportance, len(order)),
	}
	chart.Chart.Title = fmt.Sprintf("Top %d Features Mais Importantes para Previsão de Receita", opts.TopFeatures)
	for rank, i := range order {
		chart.Features[len(order)-1-rank] = domain.FeatureImportance{
			Feature:    features[i],
			Importance: domain.Float(values[i]),
			Rank:       rank + 1,
		}
	}
	return chart, checks.issues, nil
}
