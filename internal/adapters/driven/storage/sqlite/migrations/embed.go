// Package migrations embeds the SQL migration files for the SQLite
// document store.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
