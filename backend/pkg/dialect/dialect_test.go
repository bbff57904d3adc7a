package dialect

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dialect     Dialect
		driver      string
		placeholder string
		migrations  bool
	}{
		{dialect: None, driver: "", placeholder: "?"},
		{dialect: SQLite, driver: "sqlite3", placeholder: "?", migrations: true},
		{dialect: PostgreSQL, driver: "pgx", placeholder: "$2", migrations: true},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			t.Parallel()

			require.NoError(t, tt.dialect.Validate())
			require.Equal(t, tt.driver, tt.dialect.Driver())
			require.Equal(t, tt.placeholder, tt.dialect.Placeholder(2))

			entries, err := fs.ReadDir(tt.dialect.MigrationFS(), "migrations")
			if !tt.migrations {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, entries)
		})
	}

	require.Error(t, Dialect("mysql").Validate())
}
