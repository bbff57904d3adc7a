//go:build integration

package journal

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/pkg/dialect"
	"sensor-dashboard/backend/pkg/utils"

	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresJournal(t *testing.T) {
	ctx := context.Background()

	container, err := postgrescontainer.Run(ctx,
		"postgres:18-alpine",
		postgrescontainer.WithDatabase("sensors"),
		postgrescontainer.WithUsername("sensors"),
		postgrescontainer.WithPassword("sensors"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	j, err := Open(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), dialect.PostgreSQL, connString)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, j.Close()) })

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := range 3 {
		require.NoError(t, j.Append(ctx, Entry{
			SensorID:    1,
			Type:        "SHT31",
			Location:    "kitchen",
			Temperature: 20 + float32(i),
			Humidity:    50,
			Battery:     utils.Ptr(uint32(80)),
			ReceivedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := j.Recent(ctx, aggregate.SensorKey{Type: "SHT31", Location: "kitchen"}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, float32(22), got[0].Temperature)
	require.Equal(t, base.Add(2*time.Second), got[0].ReceivedAt)
	require.Equal(t, uint32(80), *got[0].Battery)
}
