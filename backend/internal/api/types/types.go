package types

import (
	"sensor-dashboard/backend/internal/aggregate"
	"sensor-dashboard/backend/internal/journal"
	sharedtypes "sensor-dashboard/backend/internal/shared/types"
)

// HealthResponse is the response to a health check request.
type HealthResponse struct {
	// OK, or DEGRADED when an enabled dependency is unreachable
	Status sharedtypes.Status `json:"status"`
	// Status of the MQTT broker connection
	MQTT bool `json:"mqtt"`
	// Whether a journal database is configured
	JournalEnabled bool `json:"journalEnabled"`
	// Status of the journal database, true when disabled
	Journal bool `json:"journal"`
	// Aggregation engine counters
	Engine aggregate.Stats `json:"engine"`
}

// SensorListResponse lists every known sensor in registration order.
type SensorListResponse struct {
	Sensors []aggregate.SensorSummary `json:"sensors"`
}

// ReadingsResponse holds journaled raw readings, newest first.
type ReadingsResponse struct {
	SensorID aggregate.SensorID `json:"sensorID"`
	Readings []journal.Entry    `json:"readings"`
}
