package dialect

import (
	"embed"
	"fmt"
	"strconv"

	"sensor-dashboard/backend/internal/database/postgres"
	"sensor-dashboard/backend/internal/database/sqlite"
)

// Dialect selects the journal database. None disables the journal.
type Dialect string

const (
	None       Dialect = "none"
	SQLite     Dialect = "sqlite"
	PostgreSQL Dialect = "postgres"
)

func (d Dialect) Validate() error {
	switch d {
	case None, SQLite, PostgreSQL:
		return nil
	default:
		return fmt.Errorf("unsupported dialect: %s", d)
	}
}

func (d Dialect) String() string {
	return string(d)
}

// Driver is the database/sql driver name.
func (d Dialect) Driver() string {
	switch d {
	case SQLite:
		return "sqlite3"
	case PostgreSQL:
		return "pgx"
	default:
		return ""
	}
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == PostgreSQL {
		return "$" + strconv.Itoa(n)
	}

	return "?"
}

func (d Dialect) MigrationFS() embed.FS {
	switch d {
	case SQLite:
		return sqlite.GetMigrationsFS()
	case PostgreSQL:
		return postgres.GetMigrationsFS()
	default:
		return embed.FS{}
	}
}
