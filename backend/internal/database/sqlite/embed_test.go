package sqlite

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(GetMigrationsFS(), "migrations")
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("migrations directory is empty")
	}

	var prev string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			t.Errorf("Expected .sql file, got: %s", name)
		}

		if name < prev {
			t.Errorf("Migration files not in order: %s comes before %s", name, prev)
		}

		prev = name

		content, err := fs.ReadFile(GetMigrationsFS(), "migrations/"+name)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}

		if !strings.Contains(string(content), "-- migrate:up") || !strings.Contains(string(content), "-- migrate:down") {
			t.Errorf("Migration file %s is missing dbmate up/down markers", name)
		}
	}
}
