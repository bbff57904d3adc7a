package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mqttbroker "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/internal/api"
	"sensor-dashboard/backend/internal/config"
	"sensor-dashboard/backend/internal/ingest"
	"sensor-dashboard/backend/internal/journal"
	"sensor-dashboard/backend/internal/selection"
	"sensor-dashboard/backend/internal/services"
	apicommon "sensor-dashboard/backend/internal/shared/api"
	"sensor-dashboard/backend/internal/shared/helpers"
	"sensor-dashboard/backend/pkg/mqtt"
	"sensor-dashboard/backend/pkg/router"
	"sensor-dashboard/backend/pkg/utils"
)

func main() {
	sigCtx, sigCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer sigCancel()

	config, err := config.New("sensor-hub")
	if err != nil {
		fatalIfErr(slog.Default(), fmt.Errorf("failed to create config: %w", err))
	}

	defer utils.LogOnError(slog.Default(), config.Close, "failed to close config")

	logger := helpers.GetLogger(config)
	logger.Info("starting sensor hub", slog.String("build", utils.GetBuildVersion()))

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

	// MQTT broker, started before the client connects to it
	var mqttBroker *mqttbroker.Server

	if config.MQTTServerEnabled {
		mqttAddr := fmt.Sprintf(":%d", config.MQTTServerPort)
		mqttBroker, err = getMQTTServer(logger, mqttAddr)
		fatalIfErr(logger, err)

		logger.Info("MQTT broker listening", slog.String("address", mqttAddr))
		fatalIfErr(logger, mqttBroker.Serve())
	}

	// Builders
	rb, err := router.NewRouteBuilder(logger, router.APIInfo{
		Title:       "Sensor Dashboard API",
		Version:     utils.GetVersionShort(),
		Description: "Read access to the aggregated sensor history",
	})
	fatalIfErr(logger, err)

	mb, err := mqtt.NewMQTTBuilder(logger, mqtt.MQTTClientOptions{
		BrokerURL: config.MQTTBroker,
		ClientID:  config.MQTTClientID,
		Username:  config.MQTTUsername,
		Password:  config.MQTTPassword,
	})
	fatalIfErr(logger, err)

	ingestHandler := ingest.NewHandler(logger, engine, sel, j, config.MQTTTopicPrefix)
	ingestHandler.RegisterReadingsSubscribe(mb)

	svc := services.NewServices(logger, engine, sel, j, mb)
	api.NewHandler(logger, svc).Register(rb, apicommon.NewMiddlewareHandler(logger))

	go func() {
		if err := mb.Connect(sigCtx); err != nil {
			logger.Error("Failed to connect to MQTT broker", utils.ErrAttr(err))
		}
	}()

	httpServer := apicommon.NewHTTPServer(logger, fmt.Sprintf(":%d", config.Port), rb.Router())
	fatalIfErr(logger, httpServer.StartOnBackground(sigCancel))

	// Wait for signal (either OS or some failure)
	<-sigCtx.Done()
	logger.Info("received signal, shutting down...")

	if err := httpServer.ShutdownWithDefaultTimeout(); err != nil {
		logger.Error("http server shutdown failed", utils.ErrAttr(err))
	}

	mb.Disconnect()

	if mqttBroker != nil {
		logger.Info("mqtt broker shutting down...")

		if err := mqttBroker.Close(); err != nil {
			logger.Error("mqtt broker shutdown failed", utils.ErrAttr(err))
		}
	}

	stats := engine.Stats()
	logger.Info("server exited gracefully",
		slog.Int("sensors", stats.Sensors),
		slog.Uint64("samples", stats.SamplesIngested),
		slog.Uint64("dropped", ingestHandler.Stats().Dropped),
		slog.Duration("maxLockWait", stats.MaxLockWait))
}

func getMQTTServer(l *slog.Logger, addr string) (*mqttbroker.Server, error) {
	server := mqttbroker.New(&mqttbroker.Options{
		Logger: l.With(slog.String("component", "mqtt-broker")),
	})

	if err := server.AddHook(new(auth.AllowHook), nil); err != nil {
		return nil, err
	}

	tcp := listeners.NewTCP(listeners.Config{ID: "tcp", Address: addr})
	if err := server.AddListener(tcp); err != nil {
		return nil, err
	}

	return server, nil
}

func fatalIfErr(l *slog.Logger, err error) {
	if err == nil {
		return
	}

	l.Error("error", utils.ErrAttr(err))
	os.Exit(1)
}
