// Package shared holds helpers used by more than one package. Its testutil
// subpackage provides a slog handler that captures records for log
// assertions and CSV fixtures describing a complete artifacts directory.
package shared
