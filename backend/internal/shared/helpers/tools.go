package helpers

import (
	"log/slog"

	"sensor-dashboard/backend/internal/config"
	"sensor-dashboard/backend/pkg/utils"
)

// GetLogger builds the process logger. Logs going to a file use the text
// handler so they stay readable next to the terminal dashboard.
func GetLogger(config *config.Config) *slog.Logger {
	logOptions := slog.HandlerOptions{
		Level:       config.LogLevel,
		ReplaceAttr: utils.SlogReplacer,
	}

	var logHandler slog.Handler = slog.NewJSONHandler(config.LogOutput, &logOptions)
	if config.LogToFile {
		logHandler = slog.NewTextHandler(config.LogOutput, &logOptions)
	}

	return slog.New(logHandler).With(slog.String("version", utils.GetVersionShort()))
}
