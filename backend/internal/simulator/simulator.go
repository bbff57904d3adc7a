// Package simulator stands in for the wireless sensors: it publishes
// random-walk readings for a fixed set of type@location sensors.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"sensor-dashboard/backend/internal/ingest"
	"sensor-dashboard/backend/pkg/utils"
)

var ErrInvalidSensor = errors.New("invalid simulated sensor")

// Publisher sends one reading for a location.
type Publisher interface {
	Publish(operationID string, params map[string]string, payload any) error
}

// Sensor is the state of one simulated device.
type Sensor struct {
	Type        string
	Location    string
	Temperature float64
	Humidity    float64
	Battery     uint32
}

// ParseSensors parses "type@location" specs.
func ParseSensors(specs []string) ([]*Sensor, error) {
	sensors := make([]*Sensor, 0, len(specs))
	seen := map[string]struct{}{}

	for _, spec := range specs {
		typ, location, ok := strings.Cut(spec, "@")
		if !ok || typ == "" || location == "" || strings.ContainsAny(location, "/+#") {
			return nil, fmt.Errorf("%w: %q, want type@location", ErrInvalidSensor, spec)
		}

		if _, dup := seen[spec]; dup {
			return nil, fmt.Errorf("%w: duplicate %q", ErrInvalidSensor, spec)
		}

		seen[spec] = struct{}{}

		sensors = append(sensors, &Sensor{
			Type:        typ,
			Location:    location,
			Temperature: 18 + 6*rand.Float64(),
			Humidity:    40 + 20*rand.Float64(),
			Battery:     100,
		})
	}

	if len(sensors) == 0 {
		return nil, fmt.Errorf("%w: no sensors configured", ErrInvalidSensor)
	}

	return sensors, nil
}

// Step advances the random walk and returns the next reading.
func (s *Sensor) Step(r *rand.Rand) ingest.Reading {
	s.Temperature = clamp(s.Temperature+r.NormFloat64()*0.3, -20, 50)
	s.Humidity = clamp(s.Humidity+r.NormFloat64()*1.0, 0, 100)

	// Battery drains by one percent roughly every hundred readings.
	if s.Battery > 0 && r.IntN(100) == 0 {
		s.Battery--
	}

	return ingest.Reading{
		Sen:     s.Type,
		Temp:    float32(math.Round(s.Temperature*10) / 10),
		Hum:     float32(math.Round(s.Humidity)),
		Battery: utils.Ptr(s.Battery),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Run publishes one reading per sensor every interval until ctx is done.
func Run(ctx context.Context, l *slog.Logger, pub Publisher, sensors []*Sensor, interval time.Duration) {
	l = l.With(slog.String("component", "simulator"))
	r := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, s := range sensors {
			reading := s.Step(r)

			err := pub.Publish(ingest.PublishReadingOperation, map[string]string{"location": s.Location}, reading)
			if err != nil {
				l.Warn("Failed to publish reading", slog.String("sensor", s.Type+"@"+s.Location), utils.ErrAttr(err))
				continue
			}

			l.Debug("Published reading", slog.String("sensor", s.Type+"@"+s.Location), slog.Float64("temp", float64(reading.Temp)))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
