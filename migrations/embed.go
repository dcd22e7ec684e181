// Package migrations embeds SQL migration files for the delivery journal schema.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
