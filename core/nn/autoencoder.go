package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"petrasense/core/factory"
)

// convAE is a 1-D convolutional autoencoder over the time axis.
// Reconstruction error against the input window is the anomaly score.
type convAE struct {
	equipmentType string
	features      []string
	stats         Stats
	threshold     float64
	reconMean     float64
	reconStd      float64
	layers        []ConvLayer // encoder followed by decoder
}

func loadAnomaly(conf map[string]any) (Model, error) {
	var ck AnomalyCheckpoint
	if err := factory.Decode(conf, &ck); err != nil {
		return nil, fmt.Errorf("decode anomaly checkpoint: %w", err)
	}
	return newConvAE(ck)
}

func newConvAE(ck AnomalyCheckpoint) (*convAE, error) {
	f := len(ck.Features)
	if f == 0 || len(ck.Encoder) == 0 || len(ck.Decoder) == 0 {
		return nil, fmt.Errorf("%w: empty autoencoder", ErrShapeMismatch)
	}
	layers := append(append([]ConvLayer{}, ck.Encoder...), ck.Decoder...)
	prev := f
	for _, l := range layers {
		if err := l.validate(); err != nil {
			return nil, err
		}
		if l.In != prev {
			return nil, fmt.Errorf("%w: layer expects %d channels, got %d", ErrShapeMismatch, l.In, prev)
		}
		prev = l.Out
	}
	if prev != f {
		return nil, fmt.Errorf("%w: reconstruction has %d channels, want %d", ErrShapeMismatch, prev, f)
	}
	return &convAE{
		equipmentType: ck.EquipmentType,
		features:      ck.Features,
		stats:         NewStats(ck.Means, ck.Stds),
		threshold:     ck.Threshold,
		reconMean:     ck.ReconMean,
		reconStd:      ck.ReconStd,
		layers:        layers,
	}, nil
}

func (m *convAE) Kind() Kind                      { return KindAnomaly }
func (m *convAE) EquipmentType() string           { return m.equipmentType }
func (m *convAE) Features() []string              { return m.features }
func (m *convAE) Stats() Stats                    { return m.stats }
func (m *convAE) Threshold() float64              { return m.threshold }
func (m *convAE) ReconStats() (mean, std float64) { return m.reconMean, m.reconStd }

// Score returns the mean squared reconstruction error of the window.
func (m *convAE) Score(window *mat.Dense) (float64, error) {
	steps, cols := window.Dims()
	if cols != len(m.features) {
		return 0, fmt.Errorf("%w: window has %d features, model wants %d", ErrShapeMismatch, cols, len(m.features))
	}
	cur := window
	for _, l := range m.layers {
		cur = convolve(cur, l)
	}
	var sum float64
	for t := 0; t < steps; t++ {
		for j := 0; j < cols; j++ {
			d := window.At(t, j) - cur.At(t, j)
			sum += d * d
		}
	}
	return sum / float64(steps*cols), nil
}

// IsAnomaly compares the reconstruction error to the stored threshold.
func (m *convAE) IsAnomaly(window *mat.Dense) (bool, float64, error) {
	score, err := m.Score(window)
	if err != nil {
		return false, 0, err
	}
	return score > m.threshold, score, nil
}

// convolve applies one same-padded 1-D convolution along the time axis
// of a (steps × channels) matrix.
func convolve(in *mat.Dense, l ConvLayer) *mat.Dense {
	steps, _ := in.Dims()
	pad := l.Kernel / 2
	out := mat.NewDense(steps, l.Out, nil)
	for t := 0; t < steps; t++ {
		for oc := 0; oc < l.Out; oc++ {
			acc := l.Bias[oc]
			for ic := 0; ic < l.In; ic++ {
				base := (oc*l.In + ic) * l.Kernel
				for k := 0; k < l.Kernel; k++ {
					src := t + k - pad
					if src < 0 || src >= steps {
						continue
					}
					acc += l.Weights[base+k] * in.At(src, ic)
				}
			}
			if l.Activation == "relu" {
				acc = relu(acc)
			}
			out.Set(t, oc, acc)
		}
	}
	return out
}
