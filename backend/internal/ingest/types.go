package ingest

// Reading is the JSON payload a sensor publishes on {prefix}/{location}.
type Reading struct {
	// Sen is the sensor type name (e.g. "SHT31")
	Sen string `json:"sen"`
	// Temp is the temperature in degrees Celsius
	Temp float32 `json:"temp"`
	// Hum is the relative humidity in percent
	Hum float32 `json:"hum"`
	// Battery is the battery level, omitted by mains-powered sensors
	Battery *uint32 `json:"battery,omitempty"`
}
