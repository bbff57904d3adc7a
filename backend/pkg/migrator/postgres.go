package migrator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"

	"sensor-dashboard/backend/pkg/dialect"

	_ "github.com/amacneil/dbmate/v2/pkg/driver/postgres"
)

// newPostgresMigrator creates a new PostgreSQL migrator. The connection string should be a URL.
func newPostgresMigrator(l *slog.Logger, migrations fs.FS, connStr string) (*dbmateMigrator, error) {
	if connStr == "" {
		return nil, errors.New("connection string is required")
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, fmt.Errorf("unexpected scheme %q in connection string", u.Scheme)
	}

	return newDBMateMigrator(l, dialect.PostgreSQL, migrations, u)
}
