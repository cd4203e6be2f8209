package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "trexxdash/internal/errors"
	"trexxdash/internal/infrastructure"
	"trexxdash/internal/services"
)

// ArtifactsHandler exposes the artifact catalog and raw datasets
type ArtifactsHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewArtifactsHandler creates a new artifacts handler
func NewArtifactsHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ArtifactsHandler {
	return &ArtifactsHandler{
		service:      service,
		logger:       infrastructure.WithComponent(logger, "artifacts_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the artifact routes, mounted under /api/artifacts
func (h *ArtifactsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{name}", h.Get)
	return r
}

// List handles GET /api/artifacts
func (h *ArtifactsHandler) List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Catalog(r.Context()))
}

// Get handles GET /api/artifacts/{name}
func (h *ArtifactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	table, err := h.service.Table(r.Context(), name)
	if errors.Is(err, services.ErrArtifactNotFound) {
		err = apierrors.NewArtifactError("artifact file not found", err).WithContext("dataset", name)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "dataset served",
		slog.String("dataset", name),
		slog.Int("rows", len(table.Rows)))
	render.JSON(w, r, table)
}
