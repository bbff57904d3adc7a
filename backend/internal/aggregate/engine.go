package aggregate

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultLockWaitWarn is the lock wait above which a warning is logged.
	DefaultLockWaitWarn = 50 * time.Millisecond
)

// ErrInvalidOptions is returned by New for non-positive bounds.
var ErrInvalidOptions = errors.New("invalid aggregation options")

// Options configures an Engine. Both bounds are fixed for the engine's lifetime.
type Options struct {
	// CompactionWidth is the number of raw samples averaged into one datapoint
	CompactionWidth int
	// HistoryCapacity is the maximum number of datapoints retained per sensor
	HistoryCapacity int
	// LockWaitWarn defaults to DefaultLockWaitWarn when zero
	LockWaitWarn time.Duration
}

// Engine owns every sensor record behind a single mutex. Ingest is the only
// mutating operation; readers take the same lock and receive deep copies.
type Engine struct {
	l            *slog.Logger
	lockWaitWarn time.Duration

	mu    sync.Mutex
	reg   registry
	stats Stats
}

// New creates an engine.
func New(l *slog.Logger, opts Options) (*Engine, error) {
	if opts.CompactionWidth <= 0 {
		return nil, fmt.Errorf("%w: compaction width must be positive, got %d", ErrInvalidOptions, opts.CompactionWidth)
	}

	if opts.HistoryCapacity <= 0 {
		return nil, fmt.Errorf("%w: history capacity must be positive, got %d", ErrInvalidOptions, opts.HistoryCapacity)
	}

	if opts.LockWaitWarn <= 0 {
		opts.LockWaitWarn = DefaultLockWaitWarn
	}

	l = l.With(slog.String("component", "aggregate"))
	l.Info("aggregation engine created",
		slog.Int("compactionWidth", opts.CompactionWidth),
		slog.Int("historyCapacity", opts.HistoryCapacity))

	return &Engine{
		l:            l,
		lockWaitWarn: opts.LockWaitWarn,
		reg:          newRegistry(opts.CompactionWidth, opts.HistoryCapacity),
	}, nil
}

// withLock runs fn under the engine lock. Slow acquisitions are logged after
// the lock is released; they are a sign that a critical section grew.
func (e *Engine) withLock(op string, fn func()) {
	start := time.Now()

	e.mu.Lock()

	wait := time.Since(start)

	func() {
		defer e.mu.Unlock()

		if wait > e.stats.MaxLockWait {
			e.stats.MaxLockWait = wait
		}

		fn()
	}()

	if wait > e.lockWaitWarn {
		e.l.Warn("aggregation lock wait over budget",
			slog.String("op", op),
			slog.Duration("wait", wait),
			slog.Duration("budget", e.lockWaitWarn))
	}
}

// Ingest records one sample for the sensor identified by key and returns its
// ID. A nil battery keeps the last reported level. Inputs are trusted: the
// message source must drop malformed readings before calling Ingest.
func (e *Engine) Ingest(key SensorKey, s Sample, battery *uint32) SensorID {
	var (
		id       SensorID
		created  bool
		res      ingestResult
		pending  int
		retained int
	)

	e.withLock("ingest", func() {
		var rec *record

		rec, created = e.reg.findOrCreate(key)
		res = rec.ingest(s, battery)

		e.stats.SamplesIngested++
		if res.compacted {
			e.stats.DatapointsCompacted++
		}

		if res.evicted {
			e.stats.DatapointsEvicted++
		}

		id, pending, retained = rec.id, rec.window.len(), rec.history.len()
	})

	if created {
		e.l.Info("registered sensor",
			slog.Uint64("sensorID", uint64(id)),
			slog.String("type", key.Type),
			slog.String("location", key.Location))
	}

	e.l.Debug("ingested sample",
		slog.Uint64("sensorID", uint64(id)),
		slog.Int("pending", pending),
		slog.Int("datapoints", retained),
		slog.Bool("compacted", res.compacted),
		slog.Bool("evicted", res.evicted))

	return id
}

// Snapshot returns a copy of the sensor's state. IDs only come from the
// engine, so an unknown ID is a programming error and panics.
func (e *Engine) Snapshot(id SensorID) ViewModel {
	vm, ok := e.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("aggregate: snapshot of unknown sensor %d", id))
	}

	return vm
}

// Lookup is Snapshot for IDs that come from outside the process, such as an
// HTTP path parameter.
func (e *Engine) Lookup(id SensorID) (ViewModel, bool) {
	var (
		vm ViewModel
		ok bool
	)

	e.withLock("snapshot", func() {
		var rec *record

		rec, ok = e.reg.get(id)
		if ok {
			vm = rec.view()
		}
	})

	return vm, ok
}

// ListIDs returns all sensor IDs in registration order.
func (e *Engine) ListIDs() []SensorID {
	var ids []SensorID

	e.withLock("list", func() {
		ids = e.reg.ids()
	})

	return ids
}

// Sensors returns the ID and key of every sensor in registration order.
func (e *Engine) Sensors() []SensorSummary {
	var out []SensorSummary

	e.withLock("sensors", func() {
		out = e.reg.summaries()
	})

	return out
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() Stats {
	var s Stats

	e.withLock("stats", func() {
		s = e.stats
		s.Sensors = e.reg.len()
	})

	return s
}
