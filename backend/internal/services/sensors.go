package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/internal/journal"
	"sensor-dashboard/backend/internal/selection"
)

const (
	DefaultReadingsLimit = 50
	MaxReadingsLimit     = 1000
)

var (
	ErrSensorNotFound = errors.New("sensor not found")
	ErrNoSensors      = errors.New("no sensors registered")
	ErrInvalidLimit   = errors.New("invalid limit")
)

// SensorService serves engine snapshots and journal history.
type SensorService struct {
	l       *slog.Logger
	engine  *aggregate.Engine
	sel     *selection.Selector
	journal journal.Journal
}

func NewSensorService(l *slog.Logger, engine *aggregate.Engine, sel *selection.Selector, j journal.Journal) *SensorService {
	return &SensorService{
		l:       l.With(slog.String("service", "sensors")),
		engine:  engine,
		sel:     sel,
		journal: j,
	}
}

func (s *SensorService) List() []aggregate.SensorSummary {
	return s.engine.Sensors()
}

func (s *SensorService) Get(id aggregate.SensorID) (aggregate.ViewModel, error) {
	vm, ok := s.engine.Lookup(id)
	if !ok {
		return aggregate.ViewModel{}, fmt.Errorf("%w: %d", ErrSensorNotFound, id)
	}

	return vm, nil
}

// Readings returns the newest journaled readings of a sensor. A zero limit
// means DefaultReadingsLimit.
func (s *SensorService) Readings(ctx context.Context, id aggregate.SensorID, limit int) ([]journal.Entry, error) {
	switch {
	case limit == 0:
		limit = DefaultReadingsLimit
	case limit < 0 || limit > MaxReadingsLimit:
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, MaxReadingsLimit)
	}

	vm, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	entries, err := s.journal.Recent(ctx, aggregate.SensorKey{Type: vm.Type, Location: vm.Location}, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return entries, nil
}

// Selected returns the snapshot of the selected sensor.
func (s *SensorService) Selected() (aggregate.ViewModel, error) {
	id, ok := s.sel.Current()
	if !ok {
		return aggregate.ViewModel{}, ErrNoSensors
	}

	return s.engine.Snapshot(id), nil
}

// SelectNext advances the selection and returns the new selected sensor.
func (s *SensorService) SelectNext() (aggregate.ViewModel, error) {
	id, ok := s.sel.Next()
	if !ok {
		return aggregate.ViewModel{}, ErrNoSensors
	}

	s.l.Info("selection changed", slog.Uint64("sensorID", uint64(id)))

	return s.engine.Snapshot(id), nil
}
