package aggregate

import "slices"

// record is the engine-owned state of one sensor. It is only touched while
// the engine lock is held.
type record struct {
	id  SensorID
	key SensorKey

	latest     Sample
	battery    uint32
	hasBattery bool

	window  sampleWindow
	history datapointHistory
	extrema Extrema
}

// ingestResult reports what a single ingestion did to a record.
type ingestResult struct {
	compacted bool
	evicted   bool
}

func newRecord(id SensorID, key SensorKey, width, capacity int) *record {
	return &record{
		id:      id,
		key:     key,
		window:  newSampleWindow(width),
		history: newDatapointHistory(capacity),
	}
}

// ingest applies one sample. A nil battery keeps the last reported level.
func (r *record) ingest(s Sample, battery *uint32) ingestResult {
	var res ingestResult

	r.latest = s
	if battery != nil {
		r.battery = *battery
		r.hasBattery = true
	}

	if r.window.append(s) {
		dp, span := r.window.compact()
		res.compacted = true
		res.evicted = r.history.push(historyEntry{point: dp, span: span})
	}

	r.recomputeExtrema()

	return res
}

// recomputeExtrema rescans the window and the history. Extrema therefore
// shrink once the entry that held them leaves the history.
func (r *record) recomputeExtrema() {
	var (
		ext    Extrema
		seeded bool
	)

	include := func(o Extrema) {
		if !seeded {
			ext, seeded = o, true
			return
		}

		ext = ext.merge(o)
	}

	for _, s := range r.window.samples() {
		include(pointExtrema(s.Temperature, s.Humidity))
	}

	for e := range r.history.entries() {
		include(e.span)
	}

	r.extrema = ext
}

// view deep-copies the record into a ViewModel.
func (r *record) view() ViewModel {
	vm := ViewModel{
		ID:          r.id,
		Type:        r.key.Type,
		Location:    r.key.Location,
		Temperature: r.latest.Temperature,
		Humidity:    r.latest.Humidity,
		UpdatedAt:   r.latest.Time,
		Extrema:     r.extrema,
		Datapoints:  r.history.points(),
		Pending:     slices.Clone(r.window.samples()),
	}

	if vm.Pending == nil {
		vm.Pending = []Sample{}
	}

	if r.hasBattery {
		battery := r.battery
		vm.Battery = &battery
	}

	return vm
}
