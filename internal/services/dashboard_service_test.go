package services

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"trexxdash/internal/artifacts"
	"trexxdash/internal/infrastructure"
	"trexxdash/internal/panels"
	"trexxdash/internal/shared/testutil"
	"trexxdash/pkg/contracts/domain"
)

type serviceFixture struct {
	svc     *DashboardService
	loader  *artifacts.Loader
	logs    *testutil.BufferedSlogHandler
	reader  *sdkmetric.ManualReader
	metrics *infrastructure.DashboardMetrics
}

func newServiceFixture(t *testing.T, fsys fs.FS, opts panels.Options) *serviceFixture {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := infrastructure.CreateDashboardMetrics(mp.Meter("test"))
	require.NoError(t, err)

	logger, logs := testutil.NewTestLogger(t)
	loader := artifacts.NewLoader(fsys, nil, artifacts.WithLogger(logger), artifacts.WithMetrics(metrics))
	svc := NewDashboardService(loader, opts, logger, metrics)
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }

	return &serviceFixture{svc: svc, loader: loader, logs: logs, reader: reader, metrics: metrics}
}

func (f *serviceFixture) sums(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	return sums
}

func TestOverviewAllPanelsAvailable(t *testing.T) {
	f := newServiceFixture(t, testutil.ArtifactFS(), panels.DefaultOptions())

	ov := f.svc.Overview(context.Background())

	assert.Equal(t, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), ov.GeneratedAt)
	assert.Equal(t, domain.PanelStatusOK, ov.Summary.Status)
	assert.Equal(t, domain.PanelStatusOK, ov.Forecast.Status)
	assert.Equal(t, domain.PanelStatusOK, ov.Teams.Status)
	assert.Equal(t, domain.PanelStatusOK, ov.Segments.Status)
	assert.Equal(t, domain.PanelStatusOK, ov.Models.Status)

	require.NotNil(t, ov.Summary.Data)
	assert.Equal(t, "Flamengo", ov.Summary.Data.TopTeam.Team)
	assert.Equal(t, domain.Float(3600), ov.Summary.Data.TotalForecast)
	assert.Equal(t, 2, ov.Summary.Data.HighProbabilityFans)

	sums := f.sums(t)
	assert.Equal(t, int64(5), sums["panel_builds_total"])
	// six datasets are used by panels; each is read once
	assert.Equal(t, int64(6), sums["artifact_loads_total"])
	testutil.AssertNoErrors(t, f.logs)
}

func TestOverviewDegradesPerPanel(t *testing.T) {
	fsys := testutil.ArtifactFS("fan_purchase_probabilities.csv", "xgboost_feature_importance.csv")
	f := newServiceFixture(t, fsys, panels.DefaultOptions())

	ov := f.svc.Overview(context.Background())

	assert.Equal(t, domain.PanelStatusUnavailable, ov.Summary.Status)
	assert.Nil(t, ov.Summary.Data)
	assert.Equal(t, []domain.MissingArtifact{{Dataset: "fan_probabilities", File: "fan_purchase_probabilities.csv"}}, ov.Summary.Missing)

	assert.Equal(t, domain.PanelStatusUnavailable, ov.Segments.Status)
	assert.Equal(t, domain.PanelStatusOK, ov.Forecast.Status)
	assert.Equal(t, domain.PanelStatusOK, ov.Teams.Status)

	assert.Equal(t, domain.PanelStatusPartial, ov.Models.Status)
	require.NotNil(t, ov.Models.Data)
	assert.NotNil(t, ov.Models.Data.Comparison)
	assert.Nil(t, ov.Models.Data.Importance)

	testutil.AssertLogContains(t, f.logs, slog.LevelInfo, "panel built without some artifacts")
}

func TestSchemaErrorFailsOnlyItsPanel(t *testing.T) {
	fsys := testutil.ArtifactFS()
	fsys["revenue_forecast_30d.csv"] = &fstest.MapFile{Data: []byte("Date,Upper_Bound,Lower_Bound\n2024-07-01,2,1\n")}
	f := newServiceFixture(t, fsys, panels.DefaultOptions())

	_, err := f.svc.Forecast(context.Background())
	var schema *artifacts.SchemaError
	require.ErrorAs(t, err, &schema)
	assert.Equal(t, "Revenue_Forecast", schema.Column)

	ov := f.svc.Overview(context.Background())
	assert.Equal(t, domain.PanelStatusFailed, ov.Forecast.Status)
	assert.Contains(t, ov.Forecast.Error, "Revenue_Forecast")
	assert.Equal(t, domain.PanelStatusFailed, ov.Summary.Status)
	assert.Equal(t, domain.PanelStatusOK, ov.Teams.Status)
	assert.Equal(t, domain.PanelStatusOK, ov.Models.Status)

	testutil.AssertLogContains(t, f.logs, slog.LevelError, "panel build failed")
}

func TestMalformedRowsAreLoggedAndCounted(t *testing.T) {
	fsys := testutil.ArtifactFS()
	fsys["fan_purchase_probabilities.csv"] = &fstest.MapFile{Data: []byte(
		"fan_id,Total_Spent,Purchase_Probability,Cluster,Favorite_Team\n" +
			"1,10,1.5,1,A\n" +
			"2,10,0.5,1,B\n")}
	f := newServiceFixture(t, fsys, panels.Options{RowPolicy: panels.RowPolicyReject})

	p, err := f.svc.Segments(context.Background())
	require.NoError(t, err)
	assert.Len(t, p.Fans.Points, 1)
	require.Len(t, p.Issues, 1)

	testutil.AssertLogContains(t, f.logs, slog.LevelWarn, "malformed row")
	testutil.AssertLogAttr(t, f.logs, "action", panels.ActionDropped)
	assert.Equal(t, int64(1), f.sums(t)["malformed_rows_total"])
}

func TestTable(t *testing.T) {
	f := newServiceFixture(t, testutil.ArtifactFS("lstm_training_history.csv"), panels.DefaultOptions())
	ctx := context.Background()

	data, err := f.svc.Table(ctx, "model_comparison")
	require.NoError(t, err)
	assert.Equal(t, "model_comparison", data.Dataset)
	assert.Equal(t, []string{"Model", "RMSE", "MAE"}, data.Columns)
	assert.Len(t, data.Rows, 2)

	_, err = f.svc.Table(ctx, "lstm_history")
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	_, err = f.svc.Table(ctx, "nope")
	assert.ErrorIs(t, err, artifacts.ErrUnknownDataset)
}

func TestCatalog(t *testing.T) {
	f := newServiceFixture(t, testutil.ArtifactFS("cluster_analysis.csv"), panels.DefaultOptions())

	catalog := f.svc.Catalog(context.Background())
	assert.Equal(t, 7, catalog.Total)
	assert.Equal(t, 6, catalog.Available)
	for _, a := range catalog.Artifacts {
		if a.Dataset == "cluster_analysis" {
			assert.False(t, a.Available)
			assert.Equal(t, "cluster_analysis.csv", a.File)
		}
	}
}

func TestEndSession(t *testing.T) {
	t.Run("process scope", func(t *testing.T) {
		f := newServiceFixture(t, testutil.ArtifactFS(), panels.DefaultOptions())
		_, err := f.svc.EndSession(context.Background())
		assert.True(t, errors.Is(err, ErrSessionScopeDisabled))
	})

	t.Run("session scope", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		fsys := testutil.ArtifactFS()
		sessions := artifacts.NewSessions(time.Hour, 10, func(c *artifacts.Cache) *artifacts.Loader {
			return artifacts.NewLoader(fsys, c, artifacts.WithLogger(logger))
		}, nil)
		defer sessions.Stop()

		svc := NewDashboardService(sessions, panels.DefaultOptions(), logger, nil)
		ctx := artifacts.WithSession(context.Background(), "abc")

		_, err := svc.Teams(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, sessions.Stats().Active)

		ended, err := svc.EndSession(ctx)
		require.NoError(t, err)
		assert.True(t, ended)
		assert.Equal(t, 0, sessions.Stats().Active)

		ended, err = svc.EndSession(ctx)
		require.NoError(t, err)
		assert.False(t, ended)
	})
}
