package http

import (
	"net/http"

	"github.com/go-chi/render"

	"trexxdash/internal/artifacts"
	apierrors "trexxdash/internal/errors"
)

// SessionHandler ends browser sessions
type SessionHandler struct {
	service      DashboardServiceInterface
	errorHandler *apierrors.ErrorHandler
}

// SessionResponse reports the outcome of DELETE /api/session
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Ended     bool   `json:"ended"`
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service DashboardServiceInterface, errorHandler *apierrors.ErrorHandler) *SessionHandler {
	return &SessionHandler{service: service, errorHandler: errorHandler}
}

// End handles DELETE /api/session. Ended is false when the session had no
// cache yet or it already expired.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	ended, err := h.service.EndSession(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, SessionResponse{
		SessionID: artifacts.SessionFromContext(r.Context()),
		Ended:     ended,
	})
}
