// Package migrations embeds the sqlite schema so the binary can migrate
// without a migrations directory on disk.
package migrations

import "embed"

// FS holds the numbered *.sql files
//
//go:embed *.sql
var FS embed.FS
