package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"trexxdash/internal/artifacts"
	apierrors "trexxdash/internal/errors"
	"trexxdash/internal/panels"
	"trexxdash/internal/services"
	"trexxdash/internal/shared/testutil"
	"trexxdash/pkg/contracts/domain"
)

func newTestRouter(t *testing.T, svc *MockDashboardService) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)

	dh := NewDashboardHandler(svc, logger, eh)
	dh.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Mount("/api/dashboard", dh.Routes())
	r.Mount("/api/artifacts", NewArtifactsHandler(svc, logger, eh).Routes())
	r.Delete("/api/session", NewSessionHandler(svc, eh).End)
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPanelEndpoints(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Summary").Return(&domain.SummaryPanel{TotalForecast: 3600, TotalForecastDisplay: "R$ 3,600.00"}, nil)
	r := newTestRouter(t, svc)

	rec := serve(r, http.MethodGet, "/api/dashboard/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_forecast_display":"R$ 3,600.00"`)
	svc.AssertExpectations(t)
}

func TestPanelErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		method   string
		err      error
		wantCode int
		wantType string
	}{
		{
			name:     "absent artifact",
			path:     "/api/dashboard/forecast",
			method:   "Forecast",
			err:      &panels.UnavailableError{Panel: domain.PanelForecast, Missing: []artifacts.Name{artifacts.RevenueForecast}},
			wantCode: http.StatusNotFound,
			wantType: apierrors.TypeDataNotFound,
		},
		{
			name:     "schema error",
			path:     "/api/dashboard/teams",
			method:   "Teams",
			err:      fmt.Errorf("teams panel: %w", &artifacts.SchemaError{Dataset: artifacts.TeamForecasts, Column: "Expected_Revenue", Row: -1, Reason: "missing column"}),
			wantCode: http.StatusUnprocessableEntity,
			wantType: apierrors.TypeDataSchema,
		},
		{
			name:     "unexpected",
			path:     "/api/dashboard/segments",
			method:   "Segments",
			err:      errors.New("disk on fire"),
			wantCode: http.StatusInternalServerError,
			wantType: apierrors.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDashboardService)
			svc.On(tt.method).Return(nil, tt.err)
			r := newTestRouter(t, svc)

			rec := serve(r, http.MethodGet, tt.path)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantType, decodeProblem(t, rec)["type"])
		})
	}
}

func TestMissingFilesAreNamedInProblem(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Summary").Return(nil, &panels.UnavailableError{
		Panel:   domain.PanelSummary,
		Missing: []artifacts.Name{artifacts.TeamForecasts, artifacts.FanProbabilities},
	})
	r := newTestRouter(t, svc)

	rec := serve(r, http.MethodGet, "/api/dashboard/summary")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), artifacts.TeamForecasts.FileName())
	assert.Contains(t, rec.Body.String(), artifacts.FanProbabilities.FileName())
}

func TestOverviewAlwaysAnswersOK(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Overview").Return(&domain.Overview{
		Summary: domain.PanelResult[domain.SummaryPanel]{Status: domain.PanelStatusUnavailable},
		Models:  domain.PanelResult[domain.ModelsPanel]{Status: domain.PanelStatusPartial, Data: &domain.ModelsPanel{}},
	})
	r := newTestRouter(t, svc)

	rec := serve(r, http.MethodGet, "/api/dashboard")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Summary struct{ Status string } `json:"summary"`
		Models  struct{ Status string } `json:"models"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Summary.Status)
	assert.Equal(t, "partial", body.Models.Status)
}

func TestTeamDetailCSV(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Teams").Return(&domain.TeamsPanel{Detail: domain.DetailTable{
		Columns: []string{"Team", "Expected_Revenue"},
		Rows:    [][]string{{"Flamengo", "R$ 1,500.00"}},
	}}, nil)
	r := newTestRouter(t, svc)

	rec := serve(r, http.MethodGet, "/api/dashboard/teams/detail.csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeCSV, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "team_detail_20240301.csv")
	assert.True(t, strings.HasSuffix(rec.Body.String(), "Flamengo,\"R$ 1,500.00\"\n"))
}

func TestWorkbookExport(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Overview").Return(&domain.Overview{
		Summary: domain.PanelResult[domain.SummaryPanel]{Status: domain.PanelStatusOK, Data: &domain.SummaryPanel{TotalForecast: 3600}},
	})
	r := newTestRouter(t, svc)

	rec := serve(r, http.MethodGet, "/api/dashboard/export.xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Resumo")
}

func TestArtifactsEndpoints(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Catalog").Return(domain.ArtifactCatalog{Available: 6, Total: 7})
	svc.On("Table", "team_forecasts").Return(&domain.TableData{Dataset: "team_forecasts", Columns: []string{"Team"}, Rows: [][]string{{"Flamengo"}}}, nil)
	svc.On("Table", "bogus").Return(nil, fmt.Errorf("%w: %q", artifacts.ErrUnknownDataset, "bogus"))
	svc.On("Table", "lstm_history").Return(nil, fmt.Errorf("%w: lstm_history.csv", services.ErrArtifactNotFound))
	r := newTestRouter(t, svc)

	rec := serve(r, http.MethodGet, "/api/artifacts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":6`)

	rec = serve(r, http.MethodGet, "/api/artifacts/team_forecasts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Flamengo"`)

	rec = serve(r, http.MethodGet, "/api/artifacts/bogus")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.TypeDatasetUnknown, decodeProblem(t, rec)["type"])

	rec = serve(r, http.MethodGet, "/api/artifacts/lstm_history")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeDataNotFound, problem["type"])
	assert.Equal(t, map[string]any{"dataset": "lstm_history"}, problem["context"])
}

func TestEndSession(t *testing.T) {
	t.Run("session scope", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("EndSession").Return(true, nil)
		r := newTestRouter(t, svc)

		rec := serve(r, http.MethodDelete, "/api/session")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"ended":true`)
	})

	t.Run("process scope", func(t *testing.T) {
		svc := new(MockDashboardService)
		svc.On("EndSession").Return(false, services.ErrSessionScopeDisabled)
		r := newTestRouter(t, svc)

		rec := serve(r, http.MethodDelete, "/api/session")

		assert.Equal(t, http.StatusConflict, rec.Code)
		problem := decodeProblem(t, rec)
		assert.Equal(t, apierrors.TypeSessionScope, problem["type"])
		assert.Equal(t, apierrors.CodeSessionScopeDisabled, problem["error_code"])
	})
}
