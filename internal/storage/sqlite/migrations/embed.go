// Package migrations contains embedded SQL migrations for the SQLite store.
package migrations

import "embed"

//go:embed games/*.sql
var GamesFS embed.FS
