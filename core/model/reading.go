package model

import "time"

// SensorReading is one timestamped set of sensor values for a single
// equipment instance. Values are keyed by feature name; the equipment
// profile, not the map, defines feature ordering.
type SensorReading struct {
	Timestamp time.Time          `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
}

// NewReading builds a reading stamped with the current time.
func NewReading(values map[string]float64) SensorReading {
	return SensorReading{Timestamp: time.Now().UTC(), Values: values}
}
