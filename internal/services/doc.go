// Package services sits between the HTTP handlers and the artifact and
// panel packages.
//
// DashboardService resolves the caller's loader from the request context,
// runs the pure panel builders over the loaded tables and records what
// happened: one span per panel, build counts and durations, and a warning
// per malformed row. Overview builds every panel concurrently with an
// errgroup; each panel result carries its own status so one missing or
// broken artifact never hides the others.
//
// HealthService answers liveness, readiness and version probes.
//
// Services return typed errors (panels.UnavailableError,
// artifacts.SchemaError, ErrArtifactNotFound) that the transport layer maps
// to problem responses.
package services
