package sqlite

import "embed"

//go:embed migrations/*.sql
var migrations embed.FS

// GetMigrationsFS returns the journal migrations under "migrations".
func GetMigrationsFS() embed.FS {
	return migrations
}
