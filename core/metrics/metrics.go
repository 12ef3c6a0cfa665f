package metrics

import "time"

// PredictionEvent represents one completed prediction to be recorded.
type PredictionEvent struct {
	EquipmentID   string
	EquipmentType string
	ModelSource   string
	RULHours      *float64
	AnomalyScore  *float64
	IsAnomaly     bool
	Latency       time.Duration
	Time          time.Time
}

// AnomalyEvent captures a window flagged by the reconstruction model.
type AnomalyEvent struct {
	EquipmentID   string
	EquipmentType string
	Score         float64
	Threshold     float64
	Time          time.Time
}

// ModelResidencyEvent is a snapshot of how many models are resident per kind.
type ModelResidencyEvent struct {
	Kind     string
	Resident int
	Time     time.Time
}

// BufferLevelEvent is a snapshot of one equipment buffer occupancy.
type BufferLevelEvent struct {
	EquipmentID string
	Level       int
	Capacity    int
	Time        time.Time
}

// MetricsSink records inference events for observability purposes.
type MetricsSink interface {
	RecordPrediction(ev PredictionEvent) error
	RecordAnomaly(ev AnomalyEvent) error
	RecordModelResidency(ev ModelResidencyEvent) error
	RecordBufferLevel(ev BufferLevelEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error         { return nil }
func (NopSink) RecordAnomaly(AnomalyEvent) error               { return nil }
func (NopSink) RecordModelResidency(ModelResidencyEvent) error { return nil }
func (NopSink) RecordBufferLevel(BufferLevelEvent) error       { return nil }
