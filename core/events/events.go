// Package events defines the inference related events emitted on the event bus.
//
// Available event types:
//   - PredictionEvent: a completed prediction for one equipment instance
//   - AnomalyEvent: an anomaly flagged by the reconstruction model
//   - ModelLoadedEvent: a model became resident in memory
//   - ModelUnloadedEvent: a model was evicted from the resident slot
package events

import (
	"time"

	"petrasense/core/model"
)

// PredictionEvent is emitted after every prediction, successful or degraded.
type PredictionEvent struct {
	Result  model.PredictionResult
	Latency time.Duration
	Time    time.Time
}

// AnomalyEvent is emitted when the anomaly model flags a window.
type AnomalyEvent struct {
	EquipmentID   string
	EquipmentType string
	Score         float64
	Threshold     float64
	Time          time.Time
}

// ModelLoadedEvent is emitted when a model becomes resident.
// Source is "registry" or "local".
type ModelLoadedEvent struct {
	EquipmentType string
	Kind          string
	Source        string
	Time          time.Time
}

// ModelUnloadedEvent is emitted when the resident slot is reassigned
// under memory constrained operation.
type ModelUnloadedEvent struct {
	EquipmentType string
	Kind          string
	Time          time.Time
}
