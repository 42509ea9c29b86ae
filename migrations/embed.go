// Package migrations compiles the schema migration files into the
// binary, so a deployment needs nothing on disk beyond the executable.
// It is wired up by a blank import from the main package.
package migrations

import (
	"embed"

	"github.com/jmadland/hearthcloud-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
