package aggregate

import "fmt"

// sampleWindow collects raw samples until there are exactly width of them.
// The backing array is allocated once and reused after every compaction.
type sampleWindow struct {
	buf []Sample
	n   int
}

func newSampleWindow(width int) sampleWindow {
	return sampleWindow{buf: make([]Sample, width)}
}

// append adds a sample and reports whether the window is now full.
func (w *sampleWindow) append(s Sample) bool {
	if w.n >= len(w.buf) {
		panic(fmt.Sprintf("aggregate: sample window overflow (%d/%d)", w.n, len(w.buf)))
	}

	w.buf[w.n] = s
	w.n++

	return w.n == len(w.buf)
}

func (w *sampleWindow) len() int {
	return w.n
}

// samples returns the buffered samples. The slice aliases the window.
func (w *sampleWindow) samples() []Sample {
	return w.buf[:w.n]
}

// compact averages the buffered samples into one datapoint, returns the raw
// extrema of the run and empties the window.
func (w *sampleWindow) compact() (Datapoint, Extrema) {
	if w.n != len(w.buf) {
		panic(fmt.Sprintf("aggregate: compacting partial window (%d/%d)", w.n, len(w.buf)))
	}

	var tempTotal, humTotal float64

	span := pointExtrema(w.buf[0].Temperature, w.buf[0].Humidity)
	for _, s := range w.buf {
		tempTotal += float64(s.Temperature)
		humTotal += float64(s.Humidity)
		span = span.merge(pointExtrema(s.Temperature, s.Humidity))
	}

	dp := Datapoint{
		Temperature: float32(tempTotal / float64(w.n)),
		Humidity:    float32(humTotal / float64(w.n)),
		Time:        w.buf[0].Time,
	}

	clear(w.buf)
	w.n = 0

	return dp, span
}
