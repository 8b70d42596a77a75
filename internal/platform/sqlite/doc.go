// Package sqlite provides SQLite implementations of the storage interfaces
// defined in internal/store, backed by the pure-Go modernc.org/sqlite
// driver. It is the default backend for development, single-node
// deployments and tests.
package sqlite
