// Package mqtt defines the transport-agnostic contracts between the
// inference engine and the MQTT edge.
package mqtt

// Ingestor consumes decoded sensor readings. The inference engine
// implements it.
type Ingestor interface {
	IngestReading(equipmentID string, sensorData map[string]float64)
}

// Publisher emits sensor readings toward the broker. The simulator uses
// it to feed remote engines.
type Publisher interface {
	PublishReading(equipmentID string, sensorData map[string]float64) error
}
