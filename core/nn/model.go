package nn

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"petrasense/core/factory"
)

// Kind discriminates the two scoreable sequence model variants.
type Kind string

const (
	KindRUL     Kind = "rul"
	KindAnomaly Kind = "anomaly"
)

// ErrShapeMismatch is returned when checkpoint tensors do not agree
// with their declared dimensions or the feature list.
var ErrShapeMismatch = errors.New("checkpoint shape mismatch")

// Model is a trained sequence model scoring a sensor window. Windows
// are (timeSteps × features) matrices in profile feature order.
type Model interface {
	Kind() Kind
	EquipmentType() string
	Features() []string
	Stats() Stats
	// Score runs a forward pass. For RUL models the score is predicted
	// hours of remaining life; for anomaly models it is the mean squared
	// reconstruction error.
	Score(window *mat.Dense) (float64, error)
}

// RULModel exposes the attention distribution of the last forward pass,
// used by the confidence heuristic.
type RULModel interface {
	Model
	AttentionWeights() []float64
}

// AnomalyModel carries the decision threshold computed at training
// time so scoring needs no separate lookup.
type AnomalyModel interface {
	Model
	Threshold() float64
	// ReconStats returns the reconstruction-error mean and standard
	// deviation measured on normal data.
	ReconStats() (mean, std float64)
	// IsAnomaly reports whether the window's reconstruction error
	// exceeds the stored threshold, along with the error itself.
	IsAnomaly(window *mat.Dense) (bool, float64, error)
}

var loaders = factory.NewRegistry[Model]()

// RegisterLoader adds a checkpoint loader for a model kind.
func RegisterLoader(kind Kind, f factory.Factory[Model]) error {
	return loaders.Register(string(kind), f)
}

// FromCheckpoint materializes a model of the given kind from a raw
// JSON checkpoint artifact.
func FromCheckpoint(kind Kind, raw []byte) (Model, error) {
	var conf map[string]any
	if err := json.Unmarshal(raw, &conf); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	return loaders.Create(factory.ModuleConfig{Type: string(kind), Conf: conf})
}

func init() {
	if err := RegisterLoader(KindRUL, loadRUL); err != nil {
		panic(err)
	}
	if err := RegisterLoader(KindAnomaly, loadAnomaly); err != nil {
		panic(err)
	}
}
