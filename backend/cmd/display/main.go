package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/internal/config"
	"sensor-dashboard/backend/internal/display"
	"sensor-dashboard/backend/internal/ingest"
	"sensor-dashboard/backend/internal/journal"
	"sensor-dashboard/backend/internal/selection"
	"sensor-dashboard/backend/internal/shared/helpers"
	"sensor-dashboard/backend/pkg/mqtt"
	"sensor-dashboard/backend/pkg/utils"
)

func main() {
	sigCtx, sigCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer sigCancel()

	// The terminal belongs to the dashboard, so logs go to a file.
	if os.Getenv(string(config.EnvLogToFile)) == "" {
		_ = os.Setenv(string(config.EnvLogToFile), "true")
	}

	config, err := config.New("sensor-display-" + utils.NewUUID()[:8])
	if err != nil {
		fatalIfErr(slog.Default(), fmt.Errorf("failed to create config: %w", err))
	}

	defer utils.LogOnError(slog.Default(), config.Close, "failed to close config")

	logger := helpers.GetLogger(config)

	engine, err := aggregate.New(logger, aggregate.Options{
		CompactionWidth: config.CompactionWidth,
		HistoryCapacity: config.HistoryCapacity,
		LockWaitWarn:    config.LockWaitWarn,
	})
	fatalIfErr(logger, err)

	sel := selection.New(engine)

	j, err := journal.Open(sigCtx, logger, config.Dialect, config.Database)
	fatalIfErr(logger, err)

	defer utils.LogOnError(logger, j.Close, "failed to close journal")

	mb, err := mqtt.NewMQTTBuilder(logger, mqtt.MQTTClientOptions{
		BrokerURL: config.MQTTBroker,
		ClientID:  config.MQTTClientID,
		Username:  config.MQTTUsername,
		Password:  config.MQTTPassword,
	})
	fatalIfErr(logger, err)

	ingest.NewHandler(logger, engine, sel, j, config.MQTTTopicPrefix).RegisterReadingsSubscribe(mb)

	go func() {
		if err := mb.Connect(sigCtx); err != nil {
			logger.Error("Failed to connect to MQTT broker", utils.ErrAttr(err))
		}
	}()

	defer mb.Disconnect()

	if err := display.Run(sigCtx, display.New(engine, sel, config.RefreshInterval)); err != nil {
		logger.Error("dashboard failed", utils.ErrAttr(err))
	}

	logger.Info("dashboard exited")
}

func fatalIfErr(l *slog.Logger, err error) {
	if err == nil {
		return
	}

	l.Error("error", utils.ErrAttr(err))
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
