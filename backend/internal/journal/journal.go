// Package journal keeps an append-only record of raw readings in SQL.
// It is an audit trail and is never replayed into the aggregation engine.
package journal

import (
	"context"
	"errors"
	"time"

	"sensor-dashboard/backend/internal/aggregate"
)

var ErrDisabled = errors.New("journal disabled")

// Entry is one raw reading as received.
type Entry struct {
	SensorID    aggregate.SensorID `json:"sensorID"`
	Type        string             `json:"type"`
	Location    string             `json:"location"`
	Temperature float32            `json:"temperature"`
	Humidity    float32            `json:"humidity"`
	Battery     *uint32            `json:"battery,omitempty"`
	ReceivedAt  time.Time          `json:"receivedAt"`
}

type Journal interface {
	Append(ctx context.Context, e Entry) error
	// Recent returns up to limit entries for key, newest first.
	Recent(ctx context.Context, key aggregate.SensorKey, limit int) ([]Entry, error)
	Ping(ctx context.Context) error
	Close() error
	Enabled() bool
}

// Nop is the journal used when no database is configured.
type Nop struct{}

func (Nop) Append(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, aggregate.SensorKey, int) ([]Entry, error) {
	return nil, ErrDisabled
}

func (Nop) Ping(context.Context) error { return nil }
func (Nop) Close() error               { return nil }
func (Nop) Enabled() bool              { return false }
