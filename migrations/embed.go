// Package migrations ships the SQL schema migrations inside the binaries.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files of this directory
//
//go:embed *.sql
var FS embed.FS
