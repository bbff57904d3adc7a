package services

import (
	"log/slog"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/internal/journal"
	"sensor-dashboard/backend/internal/selection"
)

// ConnectionChecker reports whether the MQTT client is connected.
type ConnectionChecker interface {
	IsConnected() bool
}

type Services struct {
	l       *slog.Logger
	Core    *CoreService
	Sensors *SensorService
}

func NewServices(l *slog.Logger, engine *aggregate.Engine, sel *selection.Selector, j journal.Journal, mqtt ConnectionChecker) *Services {
	if j == nil {
		j = journal.Nop{}
	}

	return &Services{
		l:       l.With(slog.String("module", "services")),
		Core:    NewCoreService(l, engine, j, mqtt),
		Sensors: NewSensorService(l, engine, sel, j),
	}
}
