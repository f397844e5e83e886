// Package migrations holds the PostgreSQL schema as golang-migrate files.
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file.
//
//go:embed *.sql
var FS embed.FS
