package aggregate

import "iter"

// historyEntry is one retained datapoint together with the raw extrema of the
// samples it was averaged from.
type historyEntry struct {
	point Datapoint
	span  Extrema
}

// datapointHistory is a fixed-capacity FIFO ring. Pushing into a full ring
// evicts the oldest entry.
type datapointHistory struct {
	ring []historyEntry
	head int // index of the oldest entry
	n    int
}

func newDatapointHistory(capacity int) datapointHistory {
	return datapointHistory{ring: make([]historyEntry, capacity)}
}

// push appends e at the tail and reports whether the head was evicted.
func (h *datapointHistory) push(e historyEntry) bool {
	if h.n < len(h.ring) {
		h.ring[(h.head+h.n)%len(h.ring)] = e
		h.n++

		return false
	}

	h.ring[h.head] = e
	h.head = (h.head + 1) % len(h.ring)

	return true
}

func (h *datapointHistory) len() int {
	return h.n
}

// entries iterates oldest to newest.
func (h *datapointHistory) entries() iter.Seq[historyEntry] {
	return func(yield func(historyEntry) bool) {
		for i := range h.n {
			if !yield(h.ring[(h.head+i)%len(h.ring)]) {
				return
			}
		}
	}
}

// points copies the retained datapoints, oldest first.
func (h *datapointHistory) points() []Datapoint {
	out := make([]Datapoint, 0, h.n)
	for e := range h.entries() {
		out = append(out, e.point)
	}

	return out
}
