package utils

import (
	"bytes"
	"log/slog"
	"time"
)

// LogWriter adapts a slog.Logger to an io.Writer, logging one record per line.
type LogWriter struct {
	logger *slog.Logger
}

func NewSlogWriter(logger *slog.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	for line := range bytes.Lines(p) {
		msg := string(bytes.TrimSpace(line))
		if msg == "" {
			continue
		}

		w.logger.Info(msg)
	}

	return len(p), nil
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

// SlogReplacer renders times and durations in a human readable form.
func SlogReplacer(_ []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindTime:
		return slog.String(a.Key, a.Value.Time().Format(time.DateTime))
	case slog.KindDuration:
		return slog.String(a.Key, a.Value.Duration().String())
	}

	return a
}

// LogOnError runs fn and logs msg if it fails. Useful in defers.
func LogOnError(l *slog.Logger, fn func() error, msg string) {
	if err := fn(); err != nil {
		l.Error(msg, ErrAttr(err))
	}
}
