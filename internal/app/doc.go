// Package app wires the dashboard server together: configuration, logging,
// OpenTelemetry, the artifact cache for the configured scope, the services
// and the chi router.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, config.yaml and TREXX_* variables
//  2. Initialize logging and observability
//  3. Build the artifact provider (one process cache or per-session caches)
//  4. Initialize services with their dependencies
//  5. Set up HTTP handlers and middleware
//  6. Configure and start the HTTP server
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM: active requests complete, session caches
// are dropped and final metrics are flushed. Initialization errors are
// returned to the caller; the package never calls os.Exit.
package app
