package simulator

import (
	"fmt"
	"math"
	"math/rand"

	"petrasense/core/profile"
)

// Equipment generates sensor readings for one instance following a
// Brownian degradation model: each feature drifts from its nominal
// value toward the failure threshold, with gaussian measurement noise
// on top.
type Equipment struct {
	ID      string
	Profile profile.Profile

	wear map[string]float64
	rng  *rand.Rand
}

// NewEquipment builds an instance from its config.
func NewEquipment(cfg EquipmentConfig, rng *rand.Rand) (*Equipment, error) {
	p, ok := profile.Get(cfg.Type)
	if !ok {
		return nil, fmt.Errorf("unknown equipment type %q", cfg.Type)
	}
	e := &Equipment{ID: cfg.ID, Profile: p, wear: make(map[string]float64, len(p.Features)), rng: rng}
	for _, f := range p.Features {
		span := p.FailureThreshold[f] - p.Nominal[f]
		e.wear[f] = cfg.Wear * span
	}
	return e, nil
}

// Step advances the degradation walk one tick and returns the reading.
func (e *Equipment) Step() map[string]float64 {
	out := make(map[string]float64, len(e.Profile.Features))
	for _, f := range e.Profile.Features {
		span := e.Profile.FailureThreshold[f] - e.Profile.Nominal[f]
		drift := e.Profile.DriftRate[f] * math.Abs(span)
		vol := e.Profile.Volatility[f]

		e.wear[f] += drift + e.rng.NormFloat64()*vol*0.1
		// Wear never heals on its own.
		if sameSign := e.wear[f] * span; sameSign < 0 {
			e.wear[f] = 0
		}
		out[f] = e.Profile.Nominal[f] + e.wear[f] + e.rng.NormFloat64()*vol
	}
	return out
}

// Failed reports whether any feature's wear has crossed its failure
// threshold.
func (e *Equipment) Failed() bool {
	for _, f := range e.Profile.Features {
		span := e.Profile.FailureThreshold[f] - e.Profile.Nominal[f]
		if span == 0 {
			continue
		}
		if e.wear[f]/span >= 1 {
			return true
		}
	}
	return false
}

// Reset returns the instance to factory condition, used after a
// simulated replacement.
func (e *Equipment) Reset() {
	for f := range e.wear {
		e.wear[f] = 0
	}
}
