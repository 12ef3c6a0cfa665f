package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// epsStd is the cutoff below which a standard deviation is considered
// degenerate and replaced by 1.0 to keep z-scoring finite.
const epsStd = 1e-8

// Stats holds per-feature normalization statistics aligned with the
// equipment profile's feature order. Immutable after construction.
type Stats struct {
	Means []float64
	Stds  []float64
}

// NewStats builds Stats, replacing near-zero deviations with 1.0.
func NewStats(means, stds []float64) Stats {
	cs := make([]float64, len(stds))
	for i, s := range stds {
		if math.IsNaN(s) || math.Abs(s) < epsStd {
			cs[i] = 1.0
		} else {
			cs[i] = s
		}
	}
	return Stats{Means: means, Stds: cs}
}

// Valid reports whether the stats can normalize n features.
func (s Stats) Valid(n int) bool {
	return len(s.Means) == n && len(s.Stds) == n
}

// Normalize z-scores the window in place, one column per feature.
func (s Stats) Normalize(w *mat.Dense) {
	rows, cols := w.Dims()
	if !s.Valid(cols) {
		return
	}
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			w.Set(i, j, (w.At(i, j)-s.Means[j])/s.Stds[j])
		}
	}
}

// Denormalize inverts Normalize.
func (s Stats) Denormalize(w *mat.Dense) {
	rows, cols := w.Dims()
	if !s.Valid(cols) {
		return
	}
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			w.Set(i, j, w.At(i, j)*s.Stds[j]+s.Means[j])
		}
	}
}

// StatsFromSamples computes column-wise mean and standard deviation
// from a (samples × features) matrix.
func StatsFromSamples(samples *mat.Dense) Stats {
	rows, cols := samples.Dims()
	means := make([]float64, cols)
	stds := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, samples)
		means[j], stds[j] = stat.MeanStdDev(col, nil)
	}
	return NewStats(means, stds)
}
