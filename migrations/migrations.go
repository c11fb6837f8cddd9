// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// FS holds the numbered *.up.sql files, applied in name order.
//
//go:embed *.sql
var FS embed.FS
