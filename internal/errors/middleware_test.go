package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trexxdash/internal/shared/testutil"
)

func TestErrorMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantCode  int
		wantLevel slog.Level
	}{
		{
			name:      "success",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
			wantCode:  http.StatusOK,
			wantLevel: slog.LevelInfo,
		},
		{
			name:      "client error",
			handler:   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			wantCode:  http.StatusNotFound,
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "panic",
			handler:   func(w http.ResponseWriter, r *http.Request) { panic("boom") },
			wantCode:  http.StatusInternalServerError,
			wantLevel: slog.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

			rec := httptest.NewRecorder()
			mw.Handler(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard?x=1", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			records := logs.GetRecordsByMessage("http request")
			if assert.Len(t, records, 1) {
				assert.Equal(t, tt.wantLevel, records[0].Level)
				assert.Equal(t, "x=1", records[0].Attrs["query"])
			}
		})
	}
}

func TestErrorMiddlewarePanicHidesValue(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	mw := NewErrorMiddleware(NewErrorHandler(logger, false), logger)
	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("secret path /var/data")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, CodeInternal, body["error_code"])
	assert.Equal(t, "An unexpected error occurred", body["detail"])
	assert.NotContains(t, body, "panic")
	assert.NotContains(t, rec.Body.String(), "secret path")
}
