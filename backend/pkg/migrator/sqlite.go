package migrator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"

	"sensor-dashboard/backend/pkg/dialect"

	_ "github.com/amacneil/dbmate/v2/pkg/driver/sqlite"
	_ "github.com/mattn/go-sqlite3"
)

// newSQLiteMigrator creates a new SQLite migrator. The connection string is a file path.
func newSQLiteMigrator(l *slog.Logger, migrations fs.FS, connStr string) (*dbmateMigrator, error) {
	if connStr == "" {
		return nil, errors.New("connection string is required")
	}

	// dbmate opens its own connection, so an in-memory database would be
	// migrated and thrown away.
	if strings.Contains(connStr, "memory") {
		return nil, errors.New("in-memory databases are not supported")
	}

	u, err := url.Parse("sqlite:" + connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	return newDBMateMigrator(l, dialect.SQLite, migrations, u)
}
