package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes carried in the error_code extension
const (
	CodeSessionScopeDisabled = "SESSION_SCOPE_DISABLED"
	CodeExportFailed         = "EXPORT_FAILED"
	CodeInternal             = "INTERNAL_SERVER_ERROR"
)

// ErrSessionConflict answers a session end while every caller shares the
// process cache.
var ErrSessionConflict = New(http.StatusConflict, CodeSessionScopeDisabled,
	"Artifacts are cached per process; there is no session to end")

// ExportError creates an export failure error
func ExportError(format string, err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeExportFailed,
		fmt.Sprintf("Failed to generate %s export", format), err.Error())
}

// ErrPanic creates a panic recovery error. The recovered value is only
// exposed by the handler when stacks are enabled.
func ErrPanic(rec interface{}) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeInternal,
		"An unexpected error occurred", fmt.Sprintf("%v", rec))
}
