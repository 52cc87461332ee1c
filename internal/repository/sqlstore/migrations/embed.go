package migrations

import "embed"

// FS holds one directory of ordered .sql files per SQL dialect.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
