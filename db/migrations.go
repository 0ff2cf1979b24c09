// Package db embeds the SQL migrations so the API binary can create the schema on startup.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the goose files.
const MigrationsDir = "migrations"
