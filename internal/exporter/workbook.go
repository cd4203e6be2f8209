package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"trexxdash/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetSummary  = "Resumo"
	SheetForecast = "Previsao"
	SheetWeekday  = "Dia da Semana"
	SheetTeams    = "Times"
	SheetClusters = "Clusters"
	SheetFans     = "Fas"
	SheetModels   = "Modelos"
	SheetFeatures = "Features"
)

const unavailableNotice = "Dados não encontrados"

type sheetWriter struct {
	f      *excelize.File
	name   string
	row    int
	header int
}

func (s *sheetWriter) append(values ...any) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.name, cell, &values)
}

func (s *sheetWriter) headers(names ...string) error {
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}
	if err := s.append(values...); err != nil {
		return err
	}
	return s.f.SetRowStyle(s.name, s.row, s.row, s.header)
}

// notice writes the reason a view could not be filled.
func (s *sheetWriter) notice(status domain.PanelStatus, missing []domain.MissingArtifact, errMsg string) error {
	switch {
	case len(missing) > 0:
		return s.append(unavailableNotice, strings.Join(missingFiles(missing), ", "))
	case errMsg != "":
		return s.append(string(status), errMsg)
	default:
		return s.append(unavailableNotice)
	}
}

// WriteWorkbook renders ov as an XLSX workbook, one sheet per view. Panels
// that could not be built get a sheet naming the reason.
func WriteWorkbook(w io.Writer, ov *domain.Overview) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheet := func(name string) (*sheetWriter, error) {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		return &sheetWriter{f: f, name: name, header: header}, nil
	}

	steps := []struct {
		name  string
		write func(*sheetWriter) error
	}{
		{SheetSummary, func(s *sheetWriter) error { return writeSummary(s, ov) }},
		{SheetForecast, func(s *sheetWriter) error { return writeForecast(s, ov.Forecast) }},
		{SheetWeekday, func(s *sheetWriter) error { return writeWeekday(s, ov.Forecast) }},
		{SheetTeams, func(s *sheetWriter) error { return writeTeams(s, ov.Teams) }},
		{SheetClusters, func(s *sheetWriter) error { return writeClusters(s, ov.Segments) }},
		{SheetFans, func(s *sheetWriter) error { return writeFans(s, ov.Segments) }},
		{SheetModels, func(s *sheetWriter) error { return writeModels(s, ov.Models) }},
		{SheetFeatures, func(s *sheetWriter) error { return writeFeatures(s, ov.Models) }},
	}
	for _, step := range steps {
		s, err := sheet(step.name)
		if err != nil {
			return err
		}
		if err := step.write(s); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", step.name, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}
	return f.Write(w)
}

func writeSummary(s *sheetWriter, ov *domain.Overview) error {
	if err := s.append("Gerado em", ov.GeneratedAt.Format("2006-01-02 15:04:05 MST")); err != nil {
		return err
	}
	res := ov.Summary
	if res.Data == nil {
		return s.notice(res.Status, res.Missing, res.Error)
	}
	p := res.Data
	if err := s.headers("Indicador", "Valor", "Exibição"); err != nil {
		return err
	}
	if err := s.append("Receita Prevista (30d)", cellValue(p.TotalForecast), p.TotalForecastDisplay); err != nil {
		return err
	}
	if p.TopTeam != nil {
		if err := s.append("Time de Maior Potencial", p.TopTeam.Team, p.TopTeam.Display); err != nil {
			return err
		}
	}
	label := fmt.Sprintf("Fãs com Alta Prob. de Compra (>%.0f%%)", p.HighProbabilityThreshold*100)
	return s.append(label, p.HighProbabilityFans, p.HighProbabilityDisplay)
}

func writeForecast(s *sheetWriter, res domain.PanelResult[domain.ForecastPanel]) error {
	if res.Data == nil {
		return s.notice(res.Status, res.Missing, res.Error)
	}
	p := res.Data
	if err := s.headers("Date", "Revenue_Forecast", "Upper_Bound", "Lower_Bound"); err != nil {
		return err
	}
	for i, d := range p.Dates {
		if err := s.append(d, cellValue(p.Forecast[i]), cellValue(p.Upper[i]), cellValue(p.Lower[i])); err != nil {
			return err
		}
	}
	return nil
}

func writeWeekday(s *sheetWriter, res domain.PanelResult[domain.ForecastPanel]) error {
	if res.Data == nil {
		return s.notice(res.Status, res.Missing, res.Error)
	}
	if err := s.headers("Dia da Semana", "Receita Prevista (R$)"); err != nil {
		return err
	}
	for _, d := range res.Data.Weekday.Days {
		if err := s.append(d.Label, cellValue(d.Revenue)); err != nil {
			return err
		}
	}
	return nil
}

func writeTeams(s *sheetWriter, res domain.PanelResult[domain.TeamsPanel]) error {
	if res.Data == nil {
		return s.notice(res.Status, res.Missing, res.Error)
	}
	detail := res.Data.Detail
	if err := s.headers(detail.Columns...); err != nil {
		return err
	}
	for _, row := range detail.Rows {
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := s.append(values...); err != nil {
			return err
		}
	}
	return nil
}

func writeClusters(s *sheetWriter, res domain.PanelResult[domain.SegmentsPanel]) error {
	if res.Data == nil {
		return s.notice(res.Status, res.Missing, res.Error)
	}
	p := res.Data
	if err := s.headers("Cluster", "Revenue_Share", "Percentual", "Total_Spent_mean"); err != nil {
		return err
	}
	for i, slice := range p.RevenueShare.Slices {
		spend := domain.Float(0)
		if i < len(p.AverageSpend.Bars) {
			spend = p.AverageSpend.Bars[i].TotalSpentMean
		}
		if err := s.append(slice.Cluster, cellValue(slice.RevenueShare), cellValue(slice.Percent), cellValue(spend)); err != nil {
			return err
		}
	}
	return nil
}

func writeFans(s *sheetWriter, res domain.PanelResult[domain.SegmentsPanel]) error {
	if res.Data == nil {
		return s.notice(res.Status, res.Missing, res.Error)
	}
	if err := s.headers("fan_id", "Favorite_Team", "Total_Spent", "Purchase_Probability", "Cluster"); err != nil {
		return err
	}
	for _, pt := range res.Data.Fans.Points {
		if err := s.append(pt.FanID, pt.FavoriteTeam, cellValue(pt.TotalSpent), cellValue(pt.PurchaseProbability), pt.Cluster); err != nil {
			return err
		}
	}
	return nil
}

func writeModels(s *sheetWriter, res domain.PanelResult[domain.ModelsPanel]) error {
	if res.Data == nil || res.Data.Comparison == nil {
		return s.notice(res.Status, missingOf(res, "model_comparison"), res.Error)
	}
	if err := s.headers("Model", "Métrica", "Valor do Erro"); err != nil {
		return err
	}
	for _, pt := range res.Data.Comparison.Points {
		if err := s.append(pt.Model, pt.Metric, cellValue(pt.Value)); err != nil {
			return err
		}
	}
	return nil
}

func writeFeatures(s *sheetWriter, res domain.PanelResult[domain.ModelsPanel]) error {
	if res.Data == nil || res.Data.Importance == nil {
		return s.notice(res.Status, missingOf(res, "xgboost_importance"), res.Error)
	}
	if err := s.headers("Rank", "Feature", "Importância"); err != nil {
		return err
	}
	features := res.Data.Importance.Features
	// sheets list the most important feature first
	for i := len(features) - 1; i >= 0; i-- {
		ft := features[i]
		if err := s.append(ft.Rank, ft.Feature, cellValue(ft.Importance)); err != nil {
			return err
		}
	}
	return nil
}

// missingOf keeps the missing entry of one dataset of the models panel.
func missingOf(res domain.PanelResult[domain.ModelsPanel], dataset string) []domain.MissingArtifact {
	for _, m := range res.Missing {
		if m.Dataset == dataset {
			return []domain.MissingArtifact{m}
		}
	}
	return res.Missing
}

// WriteJSON writes ov as indented JSON.
func WriteJSON(w io.Writer, ov *domain.Overview) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ov)
}
