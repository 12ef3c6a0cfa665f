package registry

import (
	"encoding/json"
	"os"
	"testing"

	"petrasense/core/nn"
)

func seq(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func testRULCheckpoint(equipmentType string) nn.RULCheckpoint {
	return nn.RULCheckpoint{
		EquipmentType: equipmentType,
		Features:      []string{"vibration_x", "temperature"},
		Means:         []float64{2.5, 75},
		Stds:          []float64{0.3, 1.5},
		Hidden:        2,
		InputWeights:  nn.Tensor{Rows: 8, Cols: 2, Data: seq(16, 0.01, 0.01)},
		HiddenWeights: nn.Tensor{Rows: 8, Cols: 2, Data: seq(16, -0.05, 0.01)},
		Bias:          seq(8, 0, 0.01),
		AttnWeights:   nn.Tensor{Rows: 1, Cols: 2, Data: []float64{0.2, -0.1}},
		AttnBias:      []float64{0.05},
		AttnVector:    []float64{0.7},
		HeadWeights:   nn.Tensor{Rows: 2, Cols: 2, Data: []float64{0.4, 0.3, -0.2, 0.6}},
		HeadBias:      []float64{0.1, 0.1},
		OutWeights:    []float64{48, 24},
		OutBias:       50,
	}
}

func testAnomalyCheckpoint(equipmentType string, threshold float64) nn.AnomalyCheckpoint {
	return nn.AnomalyCheckpoint{
		EquipmentType: equipmentType,
		Features:      []string{"vibration_x", "temperature"},
		Means:         []float64{0, 0},
		Stds:          []float64{1, 1},
		Threshold:     threshold,
		ReconMean:     0.1,
		ReconStd:      0.05,
		Encoder: []nn.ConvLayer{
			{In: 2, Out: 3, Kernel: 3, Weights: make([]float64, 18), Bias: make([]float64, 3), Activation: "relu"},
		},
		Decoder: []nn.ConvLayer{
			{In: 3, Out: 2, Kernel: 3, Weights: make([]float64, 18), Bias: make([]float64, 2), Activation: "linear"},
		},
	}
}

func writeCheckpoint(t *testing.T, path string, ck any) {
	t.Helper()
	raw, err := json.Marshal(ck)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}
}
