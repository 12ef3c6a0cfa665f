// Package explain attributes a model's prediction across input
// features and renders a human-readable narrative. The primary
// algorithm is gradient-based attribution against a background
// distribution; a permutation-importance fallback is always available.
package explain

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"petrasense/core/logger"
	"petrasense/core/model"
	"petrasense/core/nn"
)

const (
	// defaultPermutations is the number of shuffles per feature in the
	// fallback algorithm.
	defaultPermutations = 30
	// directionSpan is how many leading/trailing time steps decide a
	// driver's direction tag.
	directionSpan = 5
	topDrivers    = 5
	gradEps       = 1e-3
)

// Explainer computes feature attribution for one equipment type. It is
// bound to the profile's feature list at construction.
type Explainer struct {
	features     []string
	log          logger.Logger
	permutations int
}

// New builds an explainer for the given ordered feature list.
func New(features []string, log logger.Logger) *Explainer {
	return &Explainer{features: features, log: log, permutations: defaultPermutations}
}

// Attribute explains a single prediction. With background samples the
// gradient-based algorithm runs first; on any failure, or without
// background data, permutation importance is used.
func (e *Explainer) Attribute(m nn.Model, window *mat.Dense, background []*mat.Dense) (*model.Explanation, error) {
	if len(background) > 0 {
		expl, err := e.gradient(m, window, background)
		if err == nil {
			return expl, nil
		}
		e.log.Warnf("gradient attribution failed: %v, using permutation fallback", err)
	}
	return e.permutation(m, window)
}

// gradient approximates per-cell attribution as the finite-difference
// gradient times the deviation from the background baseline.
func (e *Explainer) gradient(m nn.Model, window *mat.Dense, background []*mat.Dense) (*model.Explanation, error) {
	steps, cols := window.Dims()
	if cols != len(e.features) {
		return nil, fmt.Errorf("window has %d features, explainer wants %d", cols, len(e.features))
	}
	baseline := mat.NewDense(steps, cols, nil)
	for _, b := range background {
		br, bc := b.Dims()
		if br != steps || bc != cols {
			return nil, fmt.Errorf("background sample is %dx%d, want %dx%d", br, bc, steps, cols)
		}
		baseline.Add(baseline, b)
	}
	baseline.Scale(1/float64(len(background)), baseline)

	base, err := m.Score(window)
	if err != nil {
		return nil, err
	}

	// attr[t][j] = d(score)/d(x[t][j]) * (x[t][j] - baseline[t][j])
	attr := mat.NewDense(steps, cols, nil)
	probe := mat.DenseCopyOf(window)
	for t := 0; t < steps; t++ {
		for j := 0; j < cols; j++ {
			v := window.At(t, j)
			probe.Set(t, j, v+gradEps)
			bumped, err := m.Score(probe)
			probe.Set(t, j, v)
			if err != nil {
				return nil, err
			}
			grad := (bumped - base) / gradEps
			attr.Set(t, j, grad*(v-baseline.At(t, j)))
		}
	}

	raw := make([]float64, cols)
	directions := make([]string, cols)
	span := directionSpan
	if span > steps {
		span = steps
	}
	for j := 0; j < cols; j++ {
		var absSum, recent float64
		for t := 0; t < steps; t++ {
			absSum += math.Abs(attr.At(t, j))
		}
		raw[j] = absSum / float64(steps)
		for t := steps - span; t < steps; t++ {
			recent += attr.At(t, j)
		}
		if recent > 0 {
			directions[j] = model.DirectionIncrease
		} else {
			directions[j] = model.DirectionDecrease
		}
	}
	return e.finalize(raw, directions), nil
}

// permutation measures how much shuffling each feature's values within
// the window moves the prediction.
func (e *Explainer) permutation(m nn.Model, window *mat.Dense) (*model.Explanation, error) {
	steps, cols := window.Dims()
	if cols != len(e.features) {
		return nil, fmt.Errorf("window has %d features, explainer wants %d", cols, len(e.features))
	}
	base, err := m.Score(window)
	if err != nil {
		return nil, err
	}

	raw := make([]float64, cols)
	col := make([]float64, steps)
	probe := mat.DenseCopyOf(window)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, window)
		var total float64
		for p := 0; p < e.permutations; p++ {
			rand.Shuffle(len(col), func(a, b int) { col[a], col[b] = col[b], col[a] })
			for t := 0; t < steps; t++ {
				probe.Set(t, j, col[t])
			}
			perturbed, err := m.Score(probe)
			if err != nil {
				return nil, err
			}
			total += math.Abs(base - perturbed)
		}
		raw[j] = total / float64(e.permutations)
		for t := 0; t < steps; t++ {
			probe.Set(t, j, window.At(t, j))
		}
	}

	directions := make([]string, cols)
	span := directionSpan
	if span > steps {
		span = steps
	}
	for j := 0; j < cols; j++ {
		var early, late float64
		for t := 0; t < span; t++ {
			early += window.At(t, j)
			late += window.At(steps-span+t, j)
		}
		if late > early {
			directions[j] = model.DirectionIncrease
		} else {
			directions[j] = model.DirectionDecrease
		}
	}
	return e.finalize(raw, directions), nil
}

// finalize normalizes raw importances to percentages summing to 100
// and extracts the ranked driver list.
func (e *Explainer) finalize(raw []float64, directions []string) *model.Explanation {
	total := 0.0
	for _, v := range raw {
		total += v
	}
	if total == 0 {
		total = 1.0
	}
	importance := make(map[string]float64, len(e.features))
	order := make([]int, len(e.features))
	for i, name := range e.features {
		importance[name] = raw[i] / total * 100
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return raw[order[a]] > raw[order[b]] })

	n := topDrivers
	if n > len(order) {
		n = len(order)
	}
	drivers := make([]model.Driver, 0, n)
	for _, idx := range order[:n] {
		drivers = append(drivers, model.Driver{
			Feature:         e.features[idx],
			ContributionPct: model.Round1(raw[idx] / total * 100),
			Direction:       directions[idx],
		})
	}
	return &model.Explanation{FeatureImportance: importance, TopDrivers: drivers, Raw: raw}
}
