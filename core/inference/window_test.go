package inference

import (
	"testing"

	"petrasense/core/model"
	"petrasense/core/nn"
	"petrasense/core/profile"
)

func TestBuildWindowOrderAndMissing(t *testing.T) {
	p, _ := profile.Get("PUMP")
	readings := []model.SensorReading{
		model.NewReading(map[string]float64{"vibration_x": 1, "temperature": 80}),
		model.NewReading(map[string]float64{"vibration_x": 2, "flow_rate": 120}),
	}

	w := buildWindow(readings, p)
	r, c := w.Dims()
	if r != 2 || c != len(p.Features) {
		t.Fatalf("dims %dx%d", r, c)
	}
	if w.At(0, 0) != 1 || w.At(0, 2) != 80 {
		t.Fatalf("row 0 misordered: %v", w.RawRowView(0))
	}
	// vibration_y was never reported.
	if w.At(0, 1) != 0 || w.At(1, 1) != 0 {
		t.Fatal("missing features must default to zero")
	}
	if w.At(1, 4) != 120 {
		t.Fatalf("row 1 misordered: %v", w.RawRowView(1))
	}
}

func TestBuildWindowEmpty(t *testing.T) {
	p, _ := profile.Get("PUMP")
	if w := buildWindow(nil, p); w != nil {
		t.Fatal("empty input must yield nil window")
	}
}

func TestNormalizeWindow(t *testing.T) {
	p, _ := profile.Get("VALVE")
	readings := []model.SensorReading{
		model.NewReading(map[string]float64{"position_error": 3, "response_time": 2, "leakage_rate": 1, "actuator_pressure": 7}),
	}
	w := buildWindow(readings, p)

	stats := nn.NewStats([]float64{1, 0, 1, 5}, []float64{2, 1, 1, 2})
	normalizeWindow(w, stats, len(p.Features))
	if w.At(0, 0) != 1 || w.At(0, 3) != 1 {
		t.Fatalf("z-score not applied: %v", w.RawRowView(0))
	}

	// Stats for the wrong dimensionality leave the window untouched.
	w2 := buildWindow(readings, p)
	normalizeWindow(w2, nn.NewStats([]float64{1}, []float64{2}), len(p.Features))
	if w2.At(0, 0) != 3 {
		t.Fatal("invalid stats must not modify the window")
	}
}
