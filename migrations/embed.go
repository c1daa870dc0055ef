// Package migrations embeds the postgres schema applied by cmd/migrate.
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS
