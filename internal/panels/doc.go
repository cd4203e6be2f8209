// Package panels turns artifact tables into the view-models of the five
// dashboard panels: executive summary, revenue forecast, team revenue, fan
// segmentation and model performance.
//
// Builders are pure functions. A nil *artifacts.Table stands for an absent
// artifact; builders never modify their inputs and always allocate their
// outputs, so cached tables can be shared freely between goroutines.
//
// Rows that break a value rule (probability outside [0,1], a forecast
// outside its bounds, negative importance) are handled by the configured
// RowPolicy and reported in the panel's Issues.
package panels
