// Package selection tracks which sensor the dashboard shows and tells the
// renderer when it should redraw.
package selection

import (
	"slices"
	"sync"

	"sensor-dashboard/backend/internal/aggregate"
)

// IDLister is the part of the engine the selector needs.
type IDLister interface {
	ListIDs() []aggregate.SensorID
}

// Selector holds the current selection. The first sensor ever observed
// becomes current; Next cycles through the engine's registration order.
type Selector struct {
	lister IDLister

	mu       sync.Mutex
	current  aggregate.SensorID
	selected bool

	updates chan aggregate.SensorID
}

func New(lister IDLister) *Selector {
	return &Selector{
		lister:  lister,
		updates: make(chan aggregate.SensorID, 1),
	}
}

// Current returns the selected sensor, if any.
func (s *Selector) Current() (aggregate.SensorID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current, s.selected
}

// Next advances to the following sensor with wrap-around and notifies.
// With nothing selected yet it picks the first registered sensor.
func (s *Selector) Next() (aggregate.SensorID, bool) {
	ids := s.lister.ListIDs()
	if len(ids) == 0 {
		return 0, false
	}

	s.mu.Lock()

	next := ids[0]
	if s.selected {
		if i := slices.Index(ids, s.current); i >= 0 {
			next = ids[(i+1)%len(ids)]
		}
	}

	s.current, s.selected = next, true
	s.mu.Unlock()

	s.notify(next)

	return next, true
}

// Observe is called after every ingestion. It reports whether id is the
// selected sensor, in which case a redraw notification is sent.
func (s *Selector) Observe(id aggregate.SensorID) bool {
	s.mu.Lock()

	if !s.selected {
		s.current, s.selected = id, true
	}

	isCurrent := s.current == id
	s.mu.Unlock()

	if isCurrent {
		s.notify(id)
	}

	return isCurrent
}

// Updates delivers redraw notifications. Pending notifications coalesce,
// so a slow reader only ever sees the latest selected ID.
func (s *Selector) Updates() <-chan aggregate.SensorID {
	return s.updates
}

func (s *Selector) notify(id aggregate.SensorID) {
	for {
		select {
		case s.updates <- id:
			return
		default:
		}

		// Drop the stale notification and retry.
		select {
		case <-s.updates:
		default:
		}
	}
}
