package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"

	"trexxdash/internal/infrastructure"
	"trexxdash/internal/shared/testutil"
)

func TestOTelMiddlewareRecordsRoutePattern(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := infrastructure.CreateDashboardMetrics(mp.Meter("test"))
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	mw, err := NewOTelMiddleware(&infrastructure.OTelProviders{
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: metrics,
		Logger:  logger,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(mw.Handler)
	r.Get("/api/artifacts/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/artifacts/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_requests_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			route, _ := sum.DataPoints[0].Attributes.Value("route")
			status, _ := sum.DataPoints[0].Attributes.Value("status_code")
			assert.Equal(t, "/api/artifacts/{name}", route.AsString())
			assert.Equal(t, int64(http.StatusNotFound), status.AsInt64())
			found = true
		}
	}
	assert.True(t, found)
}

func TestNewOTelMiddlewareRequiresMetrics(t *testing.T) {
	_, err := NewOTelMiddleware(&infrastructure.OTelProviders{})
	assert.Error(t, err)
}
