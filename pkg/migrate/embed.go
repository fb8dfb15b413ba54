package migrate

import "embed"

// Migrations holds the SQL files compiled into every binary.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// EmbeddedDir is the directory inside Migrations that goose reads from.
const EmbeddedDir = "migrations"
