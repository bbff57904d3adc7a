package utils

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogWriter_Write(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		lines int
	}{
		{name: "single line", input: "applying migration\n", lines: 1},
		{name: "no newline", input: "applying migration", lines: 1},
		{name: "empty", input: "", lines: 0},
		{name: "only newlines", input: "\n\n", lines: 0},
		{name: "two lines", input: "one\n\ntwo\n", lines: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w := NewSlogWriter(slog.New(slog.NewTextHandler(&buf, nil)))

			n, err := w.Write([]byte(tt.input))
			require.NoError(t, err)
			require.Equal(t, len(tt.input), n)
			require.Equal(t, tt.lines, strings.Count(buf.String(), "level=INFO"))
		})
	}
}

func TestErrAttr(t *testing.T) {
	t.Parallel()

	err := errors.New("broker unreachable")
	attr := ErrAttr(err)
	require.Equal(t, "error", attr.Key)
	require.Equal(t, err, attr.Value.Any())

	require.Nil(t, ErrAttr(nil).Value.Any())
}

func TestSlogReplacer(t *testing.T) {
	t.Parallel()

	at := SlogReplacer(nil, slog.Time("at", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)))
	require.Equal(t, slog.KindString, at.Value.Kind())
	require.Equal(t, "2024-01-15 10:30:45", at.Value.String())

	wait := SlogReplacer(nil, slog.Duration("wait", 5*time.Second+250*time.Millisecond))
	require.Equal(t, "5.25s", wait.Value.String())

	n := SlogReplacer(nil, slog.Int("n", 42))
	require.Equal(t, slog.KindInt64, n.Value.Kind())
}

func TestLogOnError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	LogOnError(l, func() error { return nil }, "close failed")
	require.Empty(t, buf.String())

	LogOnError(l, func() error { return errors.New("disk full") }, "close failed")
	require.Contains(t, buf.String(), "close failed")
	require.Contains(t, buf.String(), "disk full")

	require.Panics(t, func() {
		LogOnError(l, func() error { panic("boom") }, "never logged")
	})
}
