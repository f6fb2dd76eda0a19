// Package db carries the SQL migrations so command entrypoints can embed them.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
