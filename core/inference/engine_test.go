package inference

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"petrasense/core/logger"
	"petrasense/core/model"
	"petrasense/core/nn"
	"petrasense/core/profile"
	"petrasense/core/registry"
)

func seq(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// writeModels places valid RUL and AE checkpoints for one equipment
// type in the model directory, sized to the profile's feature list.
func writeModels(t *testing.T, dir, equipmentType string) {
	t.Helper()
	p, ok := profile.Get(equipmentType)
	if !ok {
		t.Fatalf("unknown profile %s", equipmentType)
	}
	f := len(p.Features)
	hidden := 2

	means := make([]float64, f)
	stds := make([]float64, f)
	for i, feat := range p.Features {
		means[i] = p.Nominal[feat]
		stds[i] = 1
	}

	rul := nn.RULCheckpoint{
		EquipmentType: equipmentType,
		Features:      p.Features,
		Means:         means,
		Stds:          stds,
		Hidden:        hidden,
		InputWeights:  nn.Tensor{Rows: 4 * hidden, Cols: f, Data: seq(4*hidden*f, 0.01, 0.001)},
		HiddenWeights: nn.Tensor{Rows: 4 * hidden, Cols: hidden, Data: seq(4*hidden*hidden, -0.02, 0.001)},
		Bias:          seq(4*hidden, 0, 0.01),
		AttnWeights:   nn.Tensor{Rows: 1, Cols: hidden, Data: []float64{0.2, -0.1}},
		AttnBias:      []float64{0.05},
		AttnVector:    []float64{0.7},
		HeadWeights:   nn.Tensor{Rows: 2, Cols: hidden, Data: []float64{0.4, 0.3, -0.2, 0.6}},
		HeadBias:      []float64{0.1, 0.1},
		OutWeights:    []float64{48, 24},
		OutBias:       50,
	}
	ae := nn.AnomalyCheckpoint{
		EquipmentType: equipmentType,
		Features:      p.Features,
		Means:         means,
		Stds:          stds,
		Threshold:     1e9, // never flags in these tests
		ReconMean:     0.1,
		ReconStd:      0.05,
		Encoder: []nn.ConvLayer{
			{In: f, Out: 3, Kernel: 3, Weights: make([]float64, 3*f*3), Bias: make([]float64, 3), Activation: "relu"},
		},
		Decoder: []nn.ConvLayer{
			{In: 3, Out: f, Kernel: 3, Weights: make([]float64, f*3*3), Bias: make([]float64, f), Activation: "linear"},
		},
	}

	for kind, ck := range map[nn.Kind]any{nn.KindRUL: rul, nn.KindAnomaly: ae} {
		raw, err := json.Marshal(ck)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(registry.LocalPath(dir, kind, equipmentType), raw, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestEngine(t *testing.T, dir string, constrained bool) *Engine {
	t.Helper()
	cfg := Config{WindowSize: 60, MemoryConstrained: constrained, ModelDir: dir, Workers: 2}
	adapter := registry.New(registry.Config{}, dir, logger.Nop{})
	e, err := New(cfg, adapter, logger.Nop{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func ingestNominal(e *Engine, equipmentID, equipmentType string, n int) {
	p, _ := profile.Get(equipmentType)
	for i := 0; i < n; i++ {
		vals := make(map[string]float64, len(p.Features))
		for _, f := range p.Features {
			vals[f] = p.Nominal[f]
		}
		e.IngestReading(equipmentID, vals)
	}
}

func TestPredictEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "PUMP")
	e := newTestEngine(t, dir, false)
	e.Initialize(context.Background())

	ingestNominal(e, "PUMP-101", "PUMP", 70)
	res, err := e.Predict(context.Background(), "PUMP-101", "PUMP")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if res.ID == "" || res.EquipmentID != "PUMP-101" {
		t.Fatalf("identity fields: %+v", res)
	}
	if res.RULHours == nil || *res.RULHours < 0 {
		t.Fatalf("rul hours: %v", res.RULHours)
	}
	if res.FailureProbability == nil || *res.FailureProbability < 0 || *res.FailureProbability > 99 {
		t.Fatalf("failure probability: %v", res.FailureProbability)
	}
	if res.AnomalyScore == nil || res.IsAnomaly {
		t.Fatalf("anomaly fields: score=%v flag=%v", res.AnomalyScore, res.IsAnomaly)
	}
	if res.Confidence == nil || *res.Confidence < 0 || *res.Confidence > 100 {
		t.Fatalf("confidence: %v", res.Confidence)
	}
	if res.ModelSource != model.SourceLocal {
		t.Fatalf("model source: %v", res.ModelSource)
	}
	if res.Recommendation == "" {
		t.Fatal("recommendation empty")
	}
	if res.Explanation == nil || len(res.Explanation.TopDrivers) == 0 || res.Narrative == "" {
		t.Fatalf("explanation missing: %+v", res.Explanation)
	}
}

func TestPredictWithoutModels(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), false)
	e.Initialize(context.Background())

	// Empty buffer: the synthetic backfill fills the window, the
	// missing models degrade every prediction field.
	res, err := e.Predict(context.Background(), "PUMP-9", "PUMP")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if res.RULHours != nil || res.AnomalyScore != nil || res.IsAnomaly {
		t.Fatalf("expected empty prediction fields: %+v", res)
	}
	if res.ModelSource != model.SourceNone {
		t.Fatalf("model source: %v", res.ModelSource)
	}
	if res.Recommendation == "" {
		t.Fatal("expected an unavailable-model recommendation")
	}
}

func TestMemoryConstrainedSingleResident(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "PUMP")
	writeModels(t, dir, "COMPRESSOR")
	e := newTestEngine(t, dir, true)
	e.Initialize(context.Background())

	st := e.Status()
	if len(st.RULModelsLoaded) != 0 {
		t.Fatalf("lazy init must not load models: %+v", st.RULModelsLoaded)
	}
	if len(st.RULModelsAvailable) != 2 || len(st.AEModelsAvailable) != 2 {
		t.Fatalf("availability probe: %+v", st)
	}

	if _, err := e.Predict(context.Background(), "PUMP-1", "PUMP"); err != nil {
		t.Fatalf("predict pump: %v", err)
	}
	st = e.Status()
	if len(st.RULModelsLoaded) != 1 || st.RULModelsLoaded[0] != "PUMP" {
		t.Fatalf("resident after pump: %+v", st.RULModelsLoaded)
	}

	if _, err := e.Predict(context.Background(), "COMP-1", "COMPRESSOR"); err != nil {
		t.Fatalf("predict compressor: %v", err)
	}
	st = e.Status()
	if len(st.RULModelsLoaded) != 1 || st.RULModelsLoaded[0] != "COMPRESSOR" {
		t.Fatalf("single resident violated: %+v", st.RULModelsLoaded)
	}
	if len(st.AEModelsLoaded) != 1 || st.AEModelsLoaded[0] != "COMPRESSOR" {
		t.Fatalf("anomaly slot not swapped: %+v", st.AEModelsLoaded)
	}
}

func TestPredictUnknownType(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), false)
	e.Initialize(context.Background())
	if _, err := e.Predict(context.Background(), "X-1", "TURBINE"); err == nil {
		t.Fatal("expected error for unknown equipment type")
	}
}

func TestPredictBatch(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "PUMP")
	e := newTestEngine(t, dir, true)
	e.Initialize(context.Background())

	items := []BatchItem{
		{EquipmentID: "PUMP-1", EquipmentType: "PUMP"},
		{EquipmentID: "PUMP-2", EquipmentType: "PUMP"},
		{EquipmentID: "X-1", EquipmentType: "TURBINE"},
	}
	results := e.PredictBatch(context.Background(), items)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].RULHours == nil || results[1].RULHours == nil {
		t.Fatalf("pump predictions incomplete: %+v", results[:2])
	}
	if results[2].Recommendation == "" || results[2].RULHours != nil {
		t.Fatalf("failed item must carry a failure recommendation: %+v", results[2])
	}
}

func TestInitializeIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "PUMP")
	e := newTestEngine(t, dir, false)
	e.Initialize(context.Background())
	first := e.Status()
	e.Initialize(context.Background())
	second := e.Status()
	if !second.Initialized || len(second.RULModelsLoaded) != len(first.RULModelsLoaded) {
		t.Fatalf("initialize not idempotent: %+v vs %+v", first, second)
	}
}

func TestBackfillDeterministic(t *testing.T) {
	e := newTestEngine(t, t.TempDir(), false)
	e.Initialize(context.Background())

	p, _ := profile.Get("PUMP")
	e.mu.Lock()
	bufA := e.bufferLocked("PUMP-A")
	e.backfillLocked(bufA, "PUMP-A", p)
	a := bufA.Snapshot()
	bufB := e.bufferLocked("PUMP-B")
	e.backfillLocked(bufB, "PUMP-A2", p)
	e.mu.Unlock()

	if len(a) != e.cfg.WindowSize+backfillExtra {
		t.Fatalf("backfill count: %d", len(a))
	}
	// Same ID seeds the same noise stream.
	e.mu.Lock()
	bufC := e.bufferLocked("PUMP-C")
	e.backfillLocked(bufC, "PUMP-A", p)
	c := bufC.Snapshot()
	e.mu.Unlock()
	for i := range a {
		for _, f := range p.Features {
			if a[i].Values[f] != c[i].Values[f] {
				t.Fatalf("backfill not deterministic at reading %d feature %s", i, f)
			}
		}
	}
}
