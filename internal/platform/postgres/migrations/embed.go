package migrations

import "embed"

// FS contains embedded PostgreSQL migrations for the reading and journal stores.
//
//go:embed *.sql
var FS embed.FS
