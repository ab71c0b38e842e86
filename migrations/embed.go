// Package migrations embeds the SQL schema migrations for both database
// backends. Files are named NNN_name.sql and applied in version order by
// the migration runner.
package migrations

import "embed"

//go:embed sqlite postgres
var FS embed.FS
