package migrator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"

	"sensor-dashboard/backend/pkg/dialect"
	"sensor-dashboard/backend/pkg/utils"

	"github.com/amacneil/dbmate/v2/pkg/dbmate"
)

const migrationsDir = "migrations"

// Migrator applies the journal schema.
type Migrator interface {
	Migrate() error
}

// New creates a migrator for the dialect's embedded migrations.
//
//nolint:ireturn // Returns Migrator interface
func New(l *slog.Logger, d dialect.Dialect, connString string) (Migrator, error) {
	switch d {
	case dialect.SQLite:
		return newSQLiteMigrator(l, d.MigrationFS(), connString)
	case dialect.PostgreSQL:
		return newPostgresMigrator(l, d.MigrationFS(), connString)
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", d)
	}
}

// dbmateMigrator is shared by both dialects; only URL handling differs.
type dbmateMigrator struct {
	db *dbmate.DB
	l  *slog.Logger
}

func newDBMateMigrator(l *slog.Logger, d dialect.Dialect, migrations fs.FS, u *url.URL) (*dbmateMigrator, error) {
	if migrations == nil {
		return nil, errors.New("migrations filesystem is required")
	}

	if _, err := fs.ReadDir(migrations, migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	db := dbmate.New(u)
	db.Strict = true
	db.FS = migrations
	db.MigrationsDir = []string{migrationsDir}
	db.AutoDumpSchema = false

	l = l.With(slog.String("component", "db-migrator"), slog.String("dialect", d.String()))
	db.Log = utils.NewSlogWriter(l)

	return &dbmateMigrator{db: db, l: l}, nil
}

// Migrate applies pending migrations. It is safe to call on an up-to-date database.
func (m *dbmateMigrator) Migrate() error {
	m.l.Info("Migrating database")

	if err := m.db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
