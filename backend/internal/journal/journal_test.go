package journal

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/pkg/dialect"

	"github.com/stretchr/testify/require"
)

func TestOpenNone(t *testing.T) {
	t.Parallel()

	j, err := Open(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), dialect.None, "")
	require.NoError(t, err)
	require.False(t, j.Enabled())
	require.NoError(t, j.Append(context.Background(), Entry{}))
	require.NoError(t, j.Ping(context.Background()))

	_, err = j.Recent(context.Background(), aggregate.SensorKey{}, 1)
	require.ErrorIs(t, err, ErrDisabled)
	require.NoError(t, j.Close())
}
