package services

import "errors"

// Dashboard service errors
var (
	// ErrArtifactNotFound is returned when a catalogued dataset has no file.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrSessionScopeDisabled is returned when sessions are ended while
	// every caller shares the process cache.
	ErrSessionScopeDisabled = errors.New("session cache scope is not enabled")

	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
