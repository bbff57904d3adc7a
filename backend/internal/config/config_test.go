package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"sensor-dashboard/backend/pkg/dialect"

	"github.com/stretchr/testify/require"
)

// Tests in this file use t.Setenv and therefore cannot run in parallel.

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(string(EnvDataDir), dir)

	c, err := New("test-client")
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	require.Equal(t, 8080, c.Port)
	require.Equal(t, DefaultCompactionWidth, c.CompactionWidth)
	require.Equal(t, DefaultHistoryCapacity, c.HistoryCapacity)
	require.Equal(t, 50*time.Millisecond, c.LockWaitWarn)
	require.Equal(t, time.Second, c.RefreshInterval)
	require.Equal(t, dialect.None, c.Dialect)
	require.Empty(t, c.Database)
	require.Equal(t, "test-client", c.MQTTClientID)
	require.Equal(t, "home/sensors", c.MQTTTopicPrefix)
	require.True(t, c.MQTTServerEnabled)
	require.Equal(t, slog.LevelInfo, c.LogLevel)
	require.Len(t, c.SimulateSensors, 3)
}

func TestNewOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(string(EnvDataDir), dir)
	t.Setenv(string(EnvCompactionWidth), "8")
	t.Setenv(string(EnvHistoryCapacity), "60")
	t.Setenv(string(EnvRefreshInterval), "250ms")
	t.Setenv(string(EnvJournalDialect), "SQLite")
	t.Setenv(string(EnvMQTTTopicPrefix), "/office/sensors/")
	t.Setenv(string(EnvLogLevel), "debug")
	t.Setenv(string(EnvSimulateSensors), "temp@lab, ,hum@lab")

	c, err := New("test-client")
	require.NoError(t, err)

	require.Equal(t, 8, c.CompactionWidth)
	require.Equal(t, 60, c.HistoryCapacity)
	require.Equal(t, 250*time.Millisecond, c.RefreshInterval)
	require.Equal(t, dialect.SQLite, c.Dialect)
	require.Equal(t, filepath.Join(dir, "journal.sqlite"), c.Database)
	require.Equal(t, "office/sensors", c.MQTTTopicPrefix)
	require.Equal(t, slog.LevelDebug, c.LogLevel)
	require.Equal(t, []string{"temp@lab", "hum@lab"}, c.SimulateSensors)
}

func TestNewPostgresConnString(t *testing.T) {
	t.Setenv(string(EnvDataDir), t.TempDir())
	t.Setenv(string(EnvJournalDialect), "postgres")
	t.Setenv(string(EnvDBHost), "db")
	t.Setenv(string(EnvDBUser), "hub")
	t.Setenv(string(EnvDBPass), "p@ss")

	c, err := New("test-client")
	require.NoError(t, err)
	require.Equal(t, "postgresql://hub:p%40ss@db:5432/sensors?sslmode=disable", c.Database)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   EnvKey
		value string
	}{
		{name: "zero width", key: EnvCompactionWidth, value: "0"},
		{name: "negative capacity", key: EnvHistoryCapacity, value: "-3"},
		{name: "unknown dialect", key: EnvJournalDialect, value: "mysql"},
		{name: "wildcard prefix", key: EnvMQTTTopicPrefix, value: "home/+"},
		{name: "empty prefix", key: EnvMQTTTopicPrefix, value: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(string(EnvDataDir), t.TempDir())
			t.Setenv(string(tt.key), tt.value)

			_, err := New("test-client")
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
