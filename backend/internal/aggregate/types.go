// Package aggregate implements the in-memory aggregation engine that turns an
// unbounded stream of raw sensor samples into a bounded, averaged history per
// sensor and hands out consistent snapshots to readers.
package aggregate

import (
	"time"
)

// SensorID identifies a sensor record. IDs are assigned on first sight,
// start at 1 and are never reused.
type SensorID uint32

// SensorKey is the identity of a physical sensor.
type SensorKey struct {
	// Type is the sensor type name reported by the device (e.g. "SHT31")
	Type string `json:"type"`
	// Location is where the sensor is placed (e.g. "kitchen")
	Location string `json:"location"`
}

func (k SensorKey) String() string {
	return k.Type + "@" + k.Location
}

// Sample is one raw reading.
type Sample struct {
	Temperature float32   `json:"temperature"`
	Humidity    float32   `json:"humidity"`
	Time        time.Time `json:"time,omitzero"`
}

// Datapoint is the mean of one compaction run of raw samples.
type Datapoint struct {
	Temperature float32 `json:"temperature"`
	Humidity    float32 `json:"humidity"`
	// Time is the capture time of the first sample in the run, zero if unknown
	Time time.Time `json:"time,omitzero"`
}

// Extrema holds the min/max temperature and humidity across retained data.
type Extrema struct {
	MinTemperature float32 `json:"minTemperature"`
	MaxTemperature float32 `json:"maxTemperature"`
	MinHumidity    float32 `json:"minHumidity"`
	MaxHumidity    float32 `json:"maxHumidity"`
}

func pointExtrema(temperature, humidity float32) Extrema {
	return Extrema{
		MinTemperature: temperature,
		MaxTemperature: temperature,
		MinHumidity:    humidity,
		MaxHumidity:    humidity,
	}
}

func (e Extrema) merge(o Extrema) Extrema {
	return Extrema{
		MinTemperature: min(e.MinTemperature, o.MinTemperature),
		MaxTemperature: max(e.MaxTemperature, o.MaxTemperature),
		MinHumidity:    min(e.MinHumidity, o.MinHumidity),
		MaxHumidity:    max(e.MaxHumidity, o.MaxHumidity),
	}
}

// ViewModel is a read-only snapshot of one sensor. It never shares memory
// with the engine.
type ViewModel struct {
	ID       SensorID `json:"id"`
	Type     string   `json:"type"`
	Location string   `json:"location"`
	// Battery is the last reported battery level, nil if never reported
	Battery     *uint32   `json:"battery,omitempty"`
	Temperature float32   `json:"temperature"`
	Humidity    float32   `json:"humidity"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
	Extrema
	// Datapoints is the compacted history, oldest first
	Datapoints []Datapoint `json:"datapoints"`
	// Pending holds the raw samples not yet compacted, oldest first
	Pending []Sample `json:"pending"`
}

// SensorSummary pairs an ID with its key.
type SensorSummary struct {
	ID SensorID `json:"id"`
	SensorKey
}

// Stats are engine-wide counters.
type Stats struct {
	Sensors             int           `json:"sensors"`
	SamplesIngested     uint64        `json:"samplesIngested"`
	DatapointsCompacted uint64        `json:"datapointsCompacted"`
	DatapointsEvicted   uint64        `json:"datapointsEvicted"`
	MaxLockWait         time.Duration `json:"maxLockWait"`
}
