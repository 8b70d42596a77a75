package migrations

import "embed"

// FS contains embedded SQLite migrations for the reading and journal stores.
//
//go:embed *.sql
var FS embed.FS
