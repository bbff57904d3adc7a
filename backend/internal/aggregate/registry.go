package aggregate

import "fmt"

// registry maps sensor keys to records in insertion order. Records are never
// removed, so the record with ID n lives at index n-1.
type registry struct {
	records  []*record
	width    int
	capacity int
}

func newRegistry(width, capacity int) registry {
	return registry{width: width, capacity: capacity}
}

// findOrCreate returns the record for key, creating it on first sight. The
// scan is linear; sensor counts are small.
func (r *registry) findOrCreate(key SensorKey) (*record, bool) {
	for _, rec := range r.records {
		if rec.key == key {
			return rec, false
		}
	}

	rec := newRecord(SensorID(len(r.records)+1), key, r.width, r.capacity)
	r.records = append(r.records, rec)

	return rec, true
}

func (r *registry) get(id SensorID) (*record, bool) {
	if id == 0 || int(id) > len(r.records) {
		return nil, false
	}

	rec := r.records[id-1]
	if rec.id != id {
		panic(fmt.Sprintf("aggregate: registry slot %d holds sensor %d", id, rec.id))
	}

	return rec, true
}

func (r *registry) ids() []SensorID {
	ids := make([]SensorID, len(r.records))
	for i, rec := range r.records {
		ids[i] = rec.id
	}

	return ids
}

func (r *registry) summaries() []SensorSummary {
	out := make([]SensorSummary, len(r.records))
	for i, rec := range r.records {
		out[i] = SensorSummary{ID: rec.id, SensorKey: rec.key}
	}

	return out
}

func (r *registry) len() int {
	return len(r.records)
}
