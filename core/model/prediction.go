package model

import (
	"math"
	"time"
)

// ModelSource tags which resolution path produced a prediction.
type ModelSource string

const (
	SourceNone     ModelSource = "none"
	SourceRegistry ModelSource = "registry"
	SourceLocal    ModelSource = "local"
)

// Direction tags for explanation drivers.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// Driver is one ranked contributor to a prediction.
type Driver struct {
	Feature         string  `json:"feature"`
	ContributionPct float64 `json:"contribution_pct"`
	// Direction is either "increase" or "decrease".
	Direction string `json:"direction"`
}

// Explanation carries feature attribution for a single prediction.
// Importance percentages sum to 100 across features.
type Explanation struct {
	FeatureImportance map[string]float64 `json:"feature_importance"`
	TopDrivers        []Driver           `json:"top_drivers"`
	Raw               []float64          `json:"-"`
}

// PredictionResult is the full output of one prediction call. Pointer
// fields are nil when the corresponding model was unavailable.
type PredictionResult struct {
	ID                 string       `json:"id"`
	EquipmentID        string       `json:"equipment_id"`
	EquipmentType      string       `json:"equipment_type"`
	Timestamp          time.Time    `json:"timestamp"`
	RULHours           *float64     `json:"rul_hours"`
	FailureProbability *float64     `json:"failure_probability"`
	AnomalyScore       *float64     `json:"anomaly_score"`
	IsAnomaly          bool         `json:"is_anomaly"`
	Explanation        *Explanation `json:"explanation,omitempty"`
	Narrative          string       `json:"narrative,omitempty"`
	Recommendation     string       `json:"recommendation"`
	Confidence         *float64     `json:"confidence"`
	ModelSource        ModelSource  `json:"model_source"`
}

// riskDecayHours is the characteristic constant of the failure risk
// curve: one week of remaining life halves-ish the mapped risk.
const riskDecayHours = 168.0

// FailureProbability maps RUL hours to a failure risk percentage on an
// exponential decay curve, capped at 99 and rounded to one decimal.
// Negative inputs are treated as zero remaining life.
func FailureProbability(rulHours float64) float64 {
	if rulHours < 0 {
		rulHours = 0
	}
	p := math.Min(99.0, 100.0*math.Exp(-rulHours/riskDecayHours))
	return Round1(p)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 { return math.Round(v*10) / 10 }
