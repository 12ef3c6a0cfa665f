// Package predlog persists prediction records so maintenance decisions
// can be audited after the fact.
package predlog

import (
	"context"
	"time"

	"petrasense/core/model"
)

// Record captures one prediction outcome.
type Record struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	EquipmentID        string    `json:"equipment_id"`
	EquipmentType      string    `json:"equipment_type"`
	RULHours           *float64  `json:"rul_hours"`
	FailureProbability *float64  `json:"failure_probability"`
	AnomalyScore       *float64  `json:"anomaly_score"`
	IsAnomaly          bool      `json:"is_anomaly"`
	Recommendation     string    `json:"recommendation"`
	ModelSource        string    `json:"model_source"`
	LatencyMS          float64   `json:"latency_ms"`
}

// FromResult converts an engine result into a persisted record.
func FromResult(res model.PredictionResult, latency time.Duration) Record {
	return Record{
		ID:                 res.ID,
		Timestamp:          res.Timestamp,
		EquipmentID:        res.EquipmentID,
		EquipmentType:      res.EquipmentType,
		RULHours:           res.RULHours,
		FailureProbability: res.FailureProbability,
		AnomalyScore:       res.AnomalyScore,
		IsAnomaly:          res.IsAnomaly,
		Recommendation:     res.Recommendation,
		ModelSource:        string(res.ModelSource),
		LatencyMS:          float64(latency.Microseconds()) / 1000,
	}
}

// Query defines filters for retrieving records.
type Query struct {
	Start         time.Time
	End           time.Time
	EquipmentID   string
	EquipmentType string
	AnomaliesOnly bool
}

// LogStore persists Records and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
