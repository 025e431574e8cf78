// Package migrations embeds the goose SQL migrations, one directory per
// database dialect.
package migrations

import "embed"

//go:embed postgres/*.sql mysql/*.sql
var Migrations embed.FS
