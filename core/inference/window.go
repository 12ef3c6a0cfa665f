package inference

import (
	"gonum.org/v1/gonum/mat"

	"petrasense/core/model"
	"petrasense/core/nn"
	"petrasense/core/profile"
)

// buildWindow turns the given readings into a (len(readings) x features)
// matrix in the profile's declared feature order. Features absent from a
// reading contribute 0.0.
func buildWindow(readings []model.SensorReading, p profile.Profile) *mat.Dense {
	if len(readings) == 0 {
		return nil
	}
	w := mat.NewDense(len(readings), len(p.Features), nil)
	for i, r := range readings {
		for j, f := range p.Features {
			w.Set(i, j, r.Values[f])
		}
	}
	return w
}

// normalizeWindow applies z-score normalization in place when stats for
// the feature count exist. Windows pass through untouched otherwise.
func normalizeWindow(w *mat.Dense, stats nn.Stats, featureCount int) {
	if w == nil || !stats.Valid(featureCount) {
		return
	}
	stats.Normalize(w)
}
