package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "trexxdash/internal/errors"
	"trexxdash/internal/exporter"
	"trexxdash/internal/infrastructure"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DashboardHandler serves the dashboard panels and their exports
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	now          func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       infrastructure.WithComponent(logger, "dashboard_handler"),
		errorHandler: errorHandler,
		now:          time.Now,
	}
}

// Routes returns the dashboard routes, mounted under /api/dashboard
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetOverview)
	r.Get("/summary", panelHandler(h, h.service.Summary))
	r.Get("/forecast", panelHandler(h, h.service.Forecast))
	r.Get("/teams", panelHandler(h, h.service.Teams))
	r.Get("/segments", panelHandler(h, h.service.Segments))
	r.Get("/models", panelHandler(h, h.service.Models))

	r.Get("/teams/detail.csv", h.GetTeamDetailCSV)
	r.Get("/export.xlsx", h.GetWorkbook)

	return r
}

// GetOverview handles GET /api/dashboard. It always answers 200; each panel
// carries its own status.
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Overview(r.Context()))
}

// panelHandler adapts one panel method to a handler
func panelHandler[T any](h *DashboardHandler, build func(context.Context) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		panel, err := build(r.Context())
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		render.JSON(w, r, panel)
	}
}

// GetTeamDetailCSV handles GET /api/dashboard/teams/detail.csv
func (h *DashboardHandler) GetTeamDetailCSV(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.Teams(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteTeamDetailCSV(&buf, teams.Detail); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ExportError("csv", err))
		return
	}

	h.attachment(w, contentTypeCSV, "team_detail", "csv")
	_, _ = w.Write(buf.Bytes())
}

// GetWorkbook handles GET /api/dashboard/export.xlsx. Unavailable panels are
// written as notice sheets, so the export succeeds whenever the workbook can
// be built.
func (h *DashboardHandler) GetWorkbook(w http.ResponseWriter, r *http.Request) {
	ov := h.service.Overview(r.Context())

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, ov); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ExportError("xlsx", err))
		return
	}

	h.logger.InfoContext(r.Context(), "workbook exported",
		slog.Int("bytes", buf.Len()))

	h.attachment(w, contentTypeXLSX, "trexx_dashboard", "xlsx")
	_, _ = w.Write(buf.Bytes())
}

func (h *DashboardHandler) attachment(w http.ResponseWriter, contentType, base, ext string) {
	name := fmt.Sprintf("%s_%s.%s", base, h.now().Format("20060102"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
}
