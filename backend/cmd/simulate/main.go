package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sensor-dashboard/backend/internal/config"
	"sensor-dashboard/backend/internal/ingest"
	"sensor-dashboard/backend/internal/shared/helpers"
	"sensor-dashboard/backend/internal/simulator"
	"sensor-dashboard/backend/pkg/mqtt"
	"sensor-dashboard/backend/pkg/utils"
)

func main() {
	sigCtx, sigCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer sigCancel()

	config, err := config.New("sensor-simulator-" + utils.NewUUID()[:8])
	if err != nil {
		fatalIfErr(slog.Default(), fmt.Errorf("failed to create config: %w", err))
	}

	defer utils.LogOnError(slog.Default(), config.Close, "failed to close config")

	logger := helpers.GetLogger(config)

	sensors, err := simulator.ParseSensors(config.SimulateSensors)
	fatalIfErr(logger, err)

	mb, err := mqtt.NewMQTTBuilder(logger, mqtt.MQTTClientOptions{
		BrokerURL: config.MQTTBroker,
		ClientID:  config.MQTTClientID,
		Username:  config.MQTTUsername,
		Password:  config.MQTTPassword,
	})
	fatalIfErr(logger, err)

	ingest.RegisterReadingsPublish(mb, config.MQTTTopicPrefix)

	fatalIfErr(logger, mb.Connect(sigCtx))
	defer mb.Disconnect()

	logger.Info("simulating sensors",
		slog.Int("count", len(sensors)),
		slog.Duration("interval", config.SimulateInterval),
		slog.String("prefix", config.MQTTTopicPrefix))

	simulator.Run(sigCtx, logger, mb.Client(), sensors, config.SimulateInterval)

	logger.Info("simulator exited")
}

func fatalIfErr(l *slog.Logger, err error) {
	if err == nil {
		return
	}

	l.Error("error", utils.ErrAttr(err))
	os.Exit(1)
}
