// Package artifacts resolves the dashboard's logical dataset names to CSV
// files under an artifacts directory, parses them into immutable tables and
// memoizes the result per cache scope.
//
// A missing file is not an error: Loader.Load reports it through its
// comma-ok result and every later call for the same name in the same cache
// observes the same absence. Concurrent first requests for a name share a
// single physical read.
//
// Column checks belong to the consumers. Table.Require returns a
// *SchemaError naming the first missing column, and the typed accessors
// (Floats, Ints, Times) return one when a cell cannot be converted.
package artifacts
