// Package migrations embeds the PostgreSQL schema migrations so the migrate
// command and the integration tests apply the same files.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files in golang-migrate naming.
//
//go:embed *.sql
var FS embed.FS
