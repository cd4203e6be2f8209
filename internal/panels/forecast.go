package panels

import (
	"time"

	"trexxdash/internal/artifacts"
	"trexxdash/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

// BuildForecast returns the daily forecast band in input order and the
// Monday..Sunday revenue rollup.
func BuildForecast(forecast *artifacts.Table, opts Options) (*domain.ForecastPanel, error) {
	if err := requireAll(domain.PanelForecast, input{artifacts.RevenueForecast, forecast}); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if err := forecast.Require(colDate, colRevenueForecast, colUpperBound, colLowerBound); err != nil {
		return nil, err
	}

	dates, err := forecast.Times(colDate)
	if err != nil {
		return nil, err
	}
	revenue, err := forecast.Floats(colRevenueForecast)
	if err != nil {
		return nil, err
	}
	upper, err := forecast.Floats(colUpperBound)
	if err != nil {
		return nil, err
	}
	lower, err := forecast.Floats(colLowerBound)
	if err != nil {
		return nil, err
	}

	lower, revenue, upper, checks := checkBand(artifacts.RevenueForecast, lower, revenue, upper, opts.RowPolicy)

	panel := &domain.ForecastPanel{
		Chart:    forecastChart,
		Dates:    []string{},
		Forecast: []domain.Float{},
		Upper:    []domain.Float{},
		Lower:    []domain.Float{},
		Issues:   checks.issues,
	}
	for i := range dates {
		if !checks.keep[i] {
			continue
		}
		panel.Dates = append(panel.Dates, dates[i].Format(dateLayout))
		panel.Forecast = append(panel.Forecast, domain.Float(revenue[i]))
		panel.Upper = append(panel.Upper, domain.Float(upper[i]))
		panel.Lower = append(panel.Lower, domain.Float(lower[i]))
	}
	panel.Weekday = weekdayRollup(dates, revenue, checks.keep)
	return panel, nil
}

// weekdayRollup sums revenue per weekday. The result always has seven
// entries; weekdays without rows are 0.
func weekdayRollup(dates []time.Time, revenue []float64, keep []bool) domain.WeekdayRollup {
	var totals [7]float64
	for i, d := range dates {
		if keep != nil && !keep[i] {
			continue
		}
		if finite(revenue[i]) {
			totals[d.Weekday()] += revenue[i]
		}
	}

	days := make([]domain.WeekdayTotal, 0, len(weekdayOrder))
	for _, wd := range weekdayOrder {
		days = append(days, domain.WeekdayTotal{
			Weekday: wd.String(),
			Label:   weekdayLabels[wd],
			Revenue: domain.Float(totals[wd]),
		})
	}
	return domain.WeekdayRollup{Chart: weekdayChart, Days: days}
}
