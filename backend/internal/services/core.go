package services

import (
	"context"
	"log/slog"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/internal/journal"
	"sensor-dashboard/backend/pkg/utils"
)

type CoreService struct {
	l       *slog.Logger
	engine  *aggregate.Engine
	journal journal.Journal
	mqtt    ConnectionChecker
}

func NewCoreService(l *slog.Logger, engine *aggregate.Engine, j journal.Journal, mqtt ConnectionChecker) *CoreService {
	return &CoreService{
		l:       l.With(slog.String("service", "core")),
		engine:  engine,
		journal: j,
		mqtt:    mqtt,
	}
}

type HealthStatus struct {
	MQTT           bool
	JournalEnabled bool
	Journal        bool
	Engine         aggregate.Stats
}

// Healthy reports whether every enabled dependency is reachable.
func (h HealthStatus) Healthy() bool {
	return h.MQTT && (!h.JournalEnabled || h.Journal)
}

func (s *CoreService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		MQTT:           true,
		JournalEnabled: s.journal.Enabled(),
		Journal:        true,
		Engine:         s.engine.Stats(),
	}

	if status.JournalEnabled {
		if err := s.journal.Ping(ctx); err != nil {
			s.l.Error("journal unreachable", utils.ErrAttr(err))

			status.Journal = false
		}
	}

	if s.mqtt == nil || !s.mqtt.IsConnected() {
		s.l.Error("mqtt broker unreachable")

		status.MQTT = false
	}

	return status
}
