package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func relu(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// softmax normalizes in place with the usual max-shift for stability.
func softmax(v []float64) {
	if len(v) == 0 {
		return
	}
	max := floats.Max(v)
	for i := range v {
		v[i] = math.Exp(v[i] - max)
	}
	sum := floats.Sum(v)
	if sum == 0 {
		u := 1 / float64(len(v))
		for i := range v {
			v[i] = u
		}
		return
	}
	floats.Scale(1/sum, v)
}
