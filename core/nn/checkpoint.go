package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense weight matrix flattened row-major.
type Tensor struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// Dense materializes the tensor, validating its dimensions.
func (t Tensor) Dense() (*mat.Dense, error) {
	if t.Rows <= 0 || t.Cols <= 0 || len(t.Data) != t.Rows*t.Cols {
		return nil, fmt.Errorf("%w: tensor %dx%d with %d values", ErrShapeMismatch, t.Rows, t.Cols, len(t.Data))
	}
	return mat.NewDense(t.Rows, t.Cols, t.Data), nil
}

// RULCheckpoint is the on-disk artifact for a RUL model: LSTM cell
// weights, additive attention, two-layer regression head and the
// paired normalization statistics.
type RULCheckpoint struct {
	EquipmentType string    `json:"equipment_type"`
	Features      []string  `json:"features"`
	Means         []float64 `json:"means"`
	Stds          []float64 `json:"stds"`
	Hidden        int       `json:"hidden"`
	// Gate order within the stacked weights is input, forget, cell,
	// output; each block is Hidden rows.
	InputWeights  Tensor    `json:"input_weights"`  // (4H × F)
	HiddenWeights Tensor    `json:"hidden_weights"` // (4H × H)
	Bias          []float64 `json:"bias"`           // 4H
	AttnWeights   Tensor    `json:"attn_weights"`   // (A × H)
	AttnBias      []float64 `json:"attn_bias"`      // A
	AttnVector    []float64 `json:"attn_vector"`    // A
	HeadWeights   Tensor    `json:"head_weights"`   // (D × H)
	HeadBias      []float64 `json:"head_bias"`      // D
	OutWeights    []float64 `json:"out_weights"`    // D
	OutBias       float64   `json:"out_bias"`
}

// ConvLayer is one 1-D convolution over the time axis with same
// padding. Weights are flattened as out × in × kernel.
type ConvLayer struct {
	In         int       `json:"in"`
	Out        int       `json:"out"`
	Kernel     int       `json:"kernel"`
	Weights    []float64 `json:"weights"`
	Bias       []float64 `json:"bias"`
	Activation string    `json:"activation"` // "relu" or "linear"
}

func (l ConvLayer) validate() error {
	if l.In <= 0 || l.Out <= 0 || l.Kernel <= 0 || l.Kernel%2 == 0 {
		return fmt.Errorf("%w: conv layer %dx%dx%d", ErrShapeMismatch, l.Out, l.In, l.Kernel)
	}
	if len(l.Weights) != l.Out*l.In*l.Kernel || len(l.Bias) != l.Out {
		return fmt.Errorf("%w: conv layer %dx%dx%d with %d weights, %d biases",
			ErrShapeMismatch, l.Out, l.In, l.Kernel, len(l.Weights), len(l.Bias))
	}
	return nil
}

// AnomalyCheckpoint is the on-disk artifact for an anomaly model:
// encoder/decoder convolutions plus the decision threshold and
// reconstruction-error statistics computed at training time.
type AnomalyCheckpoint struct {
	EquipmentType string      `json:"equipment_type"`
	Features      []string    `json:"features"`
	Means         []float64   `json:"means"`
	Stds          []float64   `json:"stds"`
	Threshold     float64     `json:"threshold"`
	ReconMean     float64     `json:"recon_mean"`
	ReconStd      float64     `json:"recon_std"`
	Encoder       []ConvLayer `json:"encoder"`
	Decoder       []ConvLayer `json:"decoder"`
}
