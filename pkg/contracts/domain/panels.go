package domain

import "time"

// PanelStatus tells the rendering surface how much of a panel it can draw.
type PanelStatus string

const (
	PanelStatusOK          PanelStatus = "ok"
	PanelStatusPartial     PanelStatus = "partial"
	PanelStatusUnavailable PanelStatus = "unavailable"
	PanelStatusFailed      PanelStatus = "failed"
)

// Panel identifiers
const (
	PanelSummary  = "summary"
	PanelForecast = "forecast"
	PanelTeams    = "teams"
	PanelSegments = "segments"
	PanelModels   = "models"
)

// MissingArtifact names an input a panel could not get.
type MissingArtifact struct {
	Dataset string `json:"dataset"`
	File    string `json:"file"`
}

// RowIssue describes one row that broke a value rule and what was done
// about it.
type RowIssue struct {
	Dataset string `json:"dataset"`
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Value   string `json:"value"`
	Action  string `json:"action"` // kept, dropped or clamped
}

// ChartMeta carries the labels a chart is drawn with.
type ChartMeta struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
	Color  string `json:"color_label,omitempty"`
}

// SummaryPanel holds the executive KPIs.
type SummaryPanel struct {
	TotalForecast            Float      `json:"total_forecast"`
	TotalForecastDisplay     string     `json:"total_forecast_display"`
	TopTeam                  *TopTeam   `json:"top_team,omitempty"`
	HighProbabilityFans      int        `json:"high_probability_fans"`
	HighProbabilityThreshold float64    `json:"high_probability_threshold"`
	HighProbabilityDisplay   string     `json:"high_probability_display"`
	Issues                   []RowIssue `json:"issues,omitempty"`
}

// TopTeam is the team with the highest expected revenue.
type TopTeam struct {
	Team            string `json:"team"`
	ExpectedRevenue Float  `json:"expected_revenue"`
	Display         string `json:"display"`
}

// ForecastPanel holds the daily forecast band and its weekday rollup.
type ForecastPanel struct {
	Chart    ChartMeta     `json:"chart"`
	Dates    []string      `json:"dates"`
	Forecast []Float       `json:"forecast"`
	Upper    []Float       `json:"upper_bound"`
	Lower    []Float       `json:"lower_bound"`
	Weekday  WeekdayRollup `json:"weekday"`
	Issues   []RowIssue    `json:"issues,omitempty"`
}

// WeekdayRollup always holds seven entries, Monday first.
type WeekdayRollup struct {
	Chart ChartMeta      `json:"chart"`
	Days  []WeekdayTotal `json:"days"`
}

// WeekdayTotal is the forecast revenue summed over one weekday.
type WeekdayTotal struct {
	Weekday string `json:"weekday"`
	Label   string `json:"label"`
	Revenue Float  `json:"revenue"`
}

// TeamsPanel holds the per-team revenue views, sorted by expected revenue.
type TeamsPanel struct {
	Bars   TeamBarChart   `json:"bars"`
	Shares TeamShareChart `json:"shares"`
	Detail DetailTable    `json:"detail"`
	Issues []RowIssue     `json:"issues,omitempty"`
}

type TeamBarChart struct {
	Chart ChartMeta `json:"chart"`
	Bars  []TeamBar `json:"bars"`
}

type TeamBar struct {
	Team                   string `json:"team"`
	ExpectedRevenue        Float  `json:"expected_revenue"`
	AvgPurchaseProbability Float  `json:"avg_purchase_probability"`
}

type TeamShareChart struct {
	Chart  ChartMeta   `json:"chart"`
	Shares []TeamShare `json:"shares"`
}

// TeamShare is one tile of the revenue proportion view. Share is a fraction
// of the summed expected revenue.
type TeamShare struct {
	Team            string `json:"team"`
	ExpectedRevenue Float  `json:"expected_revenue"`
	Share           Float  `json:"share"`
	FanCount        Float  `json:"fan_count"`
	HistoricalAvg   Float  `json:"historical_avg"`
}

// DetailTable is a preformatted grid.
type DetailTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// SegmentsPanel holds the cluster views. Cluster 0 never appears.
type SegmentsPanel struct {
	RevenueShare ClusterShareChart `json:"revenue_share"`
	AverageSpend ClusterSpendChart `json:"average_spend"`
	Fans         FanScatter        `json:"fans"`
	Issues       []RowIssue        `json:"issues,omitempty"`
}

type ClusterShareChart struct {
	Chart  ChartMeta      `json:"chart"`
	Slices []ClusterShare `json:"slices"`
}

// ClusterShare is one pie slice; Percent is relative to the shown slices.
type ClusterShare struct {
	Cluster      string `json:"cluster"`
	RevenueShare Float  `json:"revenue_share"`
	Percent      Float  `json:"percent"`
}

type ClusterSpendChart struct {
	Chart ChartMeta      `json:"chart"`
	Bars  []ClusterSpend `json:"bars"`
}

type ClusterSpend struct {
	Cluster        string `json:"cluster"`
	TotalSpentMean Float  `json:"total_spent_mean"`
}

// FanScatter plots spend against purchase probability. Fans of the
// inactive cluster 0 are not included.
type FanScatter struct {
	Chart   ChartMeta  `json:"chart"`
	SizeMax float64    `json:"size_max"`
	Points  []FanPoint `json:"points"`
}

// FanPoint is one fan in the spend/probability scatter. Size is the marker
// diameter, scaled so that marker area is proportional to spend.
type FanPoint struct {
	FanID               string `json:"fan_id"`
	FavoriteTeam        string `json:"favorite_team"`
	TotalSpent          Float  `json:"total_spent"`
	PurchaseProbability Float  `json:"purchase_probability"`
	Cluster             string `json:"cluster"`
	Size                Float  `json:"size"`
}

// ModelsPanel tolerates either input being missing.
type ModelsPanel struct {
	Status     PanelStatus             `json:"status"`
	Missing    []MissingArtifact       `json:"missing,omitempty"`
	Comparison *ModelComparisonChart   `json:"comparison,omitempty"`
	Importance *FeatureImportanceChart `json:"importance,omitempty"`
	Issues     []RowIssue              `json:"issues,omitempty"`
}

type ModelComparisonChart struct {
	Chart  ChartMeta     `json:"chart"`
	Points []MetricPoint `json:"points"`
}

// MetricPoint is one (model, metric) pair of the long-format comparison.
type MetricPoint struct {
	Model  string `json:"model"`
	Metric string `json:"metric"`
	Value  Float  `json:"value"`
}

// FeatureImportanceChart lists features in display order: ascending, so the
// most important one is drawn last, at the top.
type FeatureImportanceChart struct {
	Chart    ChartMeta           `json:"chart"`
	Features []FeatureImportance `json:"features"`
}

type FeatureImportance struct {
	Feature    string `json:"feature"`
	Importance Float  `json:"importance"`
	Rank       int    `json:"rank"`
}

// PanelResult wraps one panel of an Overview. Data is nil unless Status is
// ok or partial.
type PanelResult[T any] struct {
	Status  PanelStatus       `json:"status"`
	Data    *T                `json:"data,omitempty"`
	Missing []MissingArtifact `json:"missing,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Overview holds every panel; each degrades on its own.
type Overview struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Summary     PanelResult[SummaryPanel]  `json:"summary"`
	Forecast    PanelResult[ForecastPanel] `json:"forecast"`
	Teams       PanelResult[TeamsPanel]    `json:"teams"`
	Segments    PanelResult[SegmentsPanel] `json:"segments"`
	Models      PanelResult[ModelsPanel]   `json:"models"`
}
