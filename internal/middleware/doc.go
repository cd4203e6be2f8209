// Package middleware holds the HTTP middleware chain of the dashboard
// server: request IDs, browser sessions for the artifact cache, rate
// limiting, CORS, security headers and OpenTelemetry instrumentation.
package middleware
