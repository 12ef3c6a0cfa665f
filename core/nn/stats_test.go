package nn

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStatsRoundTrip(t *testing.T) {
	samples := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})
	stats := StatsFromSamples(samples)

	w := mat.NewDense(2, 2, []float64{1.5, 15, 3.5, 35})
	orig := mat.DenseCopyOf(w)
	stats.Normalize(w)
	stats.Denormalize(w)
	rows, cols := w.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.Abs(w.At(i, j)-orig.At(i, j)) > 1e-9 {
				t.Fatalf("round trip mismatch at (%d,%d): %v vs %v", i, j, w.At(i, j), orig.At(i, j))
			}
		}
	}
}

func TestStatsZeroStd(t *testing.T) {
	stats := NewStats([]float64{5}, []float64{0})
	if stats.Stds[0] != 1.0 {
		t.Fatalf("zero std not clamped: %v", stats.Stds[0])
	}
	w := mat.NewDense(1, 1, []float64{5})
	stats.Normalize(w)
	if v := w.At(0, 0); math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("normalization produced %v", v)
	}
}

func TestStatsDimensionGuard(t *testing.T) {
	stats := NewStats([]float64{1, 2}, []float64{1, 1})
	w := mat.NewDense(1, 3, []float64{1, 2, 3})
	stats.Normalize(w)
	if w.At(0, 0) != 1 {
		t.Fatal("window mutated despite dimension mismatch")
	}
}
