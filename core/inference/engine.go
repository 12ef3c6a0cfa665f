// Package inference hosts the predictive maintenance engine: sliding
// window buffers per equipment instance, eager or lazy model residency,
// and the fused RUL + anomaly + explanation prediction pipeline.
package inference

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"petrasense/core/buffer"
	"petrasense/core/events"
	"petrasense/core/explain"
	"petrasense/core/logger"
	"petrasense/core/metrics"
	"petrasense/core/model"
	"petrasense/core/nn"
	"petrasense/core/predlog"
	"petrasense/core/profile"
	"petrasense/core/registry"
	"petrasense/internal/eventbus"
)

// backfillExtra readings are injected beyond the window so a fresh
// instance has headroom before eviction starts.
const backfillExtra = 10

// fallbackConfidence is reported when attention weights are unusable.
const fallbackConfidence = 75.0

// Engine is the predictive maintenance inference engine. All state is
// guarded by mu; heavy numeric work runs on the shared worker pool.
type Engine struct {
	cfg     Config
	adapter *registry.Adapter
	pool    *Pool
	log     logger.Logger
	sink    metrics.MetricsSink
	bus     eventbus.EventBus
	store   predlog.LogStore

	mu         sync.Mutex
	buffers    map[string]*buffer.Ring
	rulModels  map[string]nn.RULModel
	aeModels   map[string]nn.AnomalyModel
	explainers map[string]*explain.Explainer
	normStats  map[string]nn.Stats
	sources    map[string]model.ModelSource
	availRUL   map[string]struct{}
	availAE    map[string]struct{}
	// lastLoadedType tracks the resident slot under memory constrained
	// operation.
	lastLoadedType string
	initialized    bool
}

// New builds an engine. The adapter is required; logger may be nil.
func New(cfg Config, adapter *registry.Adapter, log logger.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inference config: %w", err)
	}
	if adapter == nil {
		return nil, fmt.Errorf("inference: nil registry adapter")
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Engine{
		cfg:        cfg,
		adapter:    adapter,
		pool:       NewPool(cfg.Workers),
		log:        log,
		sink:       metrics.NopSink{},
		buffers:    make(map[string]*buffer.Ring),
		rulModels:  make(map[string]nn.RULModel),
		aeModels:   make(map[string]nn.AnomalyModel),
		explainers: make(map[string]*explain.Explainer),
		normStats:  make(map[string]nn.Stats),
		sources:    make(map[string]model.ModelSource),
		availRUL:   make(map[string]struct{}),
		availAE:    make(map[string]struct{}),
	}, nil
}

// SetMetricsSink configures the sink receiving prediction metrics.
func (e *Engine) SetMetricsSink(s metrics.MetricsSink) {
	if s == nil {
		s = metrics.NopSink{}
	}
	e.mu.Lock()
	e.sink = s
	e.mu.Unlock()
}

// SetEventBus configures the bus on which lifecycle and prediction
// events are published. The engine does not own the bus.
func (e *Engine) SetEventBus(b eventbus.EventBus) {
	e.mu.Lock()
	e.bus = b
	e.mu.Unlock()
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetLogStore configures the store used to persist prediction records.
func (e *Engine) SetLogStore(s predlog.LogStore) {
	e.mu.Lock()
	e.store = s
	e.mu.Unlock()
}

// Initialize prepares the engine. Under memory constrained operation it
// only probes which models exist; otherwise every resolvable model is
// loaded eagerly. Initialize is idempotent.
func (e *Engine) Initialize(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return
	}

	for _, t := range profile.Types() {
		if e.cfg.MemoryConstrained {
			if e.adapter.Exists(ctx, nn.KindRUL, t) {
				e.availRUL[t] = struct{}{}
			}
			if e.adapter.Exists(ctx, nn.KindAnomaly, t) {
				e.availAE[t] = struct{}{}
			}
			continue
		}
		p, _ := profile.Get(t)
		e.loadTypeLocked(ctx, t, p)
	}

	if e.cfg.MemoryConstrained {
		e.log.Infof("engine initialized (lazy): %d RUL models, %d anomaly detectors available",
			len(e.availRUL), len(e.availAE))
	} else {
		e.log.Infof("engine initialized: %d RUL models, %d anomaly detectors",
			len(e.rulModels), len(e.aeModels))
	}
	e.initialized = true
}

// loadTypeLocked resolves and installs both models for one equipment
// type. Callers hold mu.
func (e *Engine) loadTypeLocked(ctx context.Context, t string, p profile.Profile) {
	if res := e.adapter.Resolve(ctx, nn.KindRUL, t); res.Found() {
		if rm, ok := res.Model.(nn.RULModel); ok {
			e.rulModels[t] = rm
			e.explainers[t] = explain.New(p.Features, e.log)
			e.sources[t] = res.Source
			e.availRUL[t] = struct{}{}
			if st := rm.Stats(); st.Valid(len(p.Features)) {
				e.normStats[t] = st
			}
			e.publish(events.ModelLoadedEvent{
				EquipmentType: t, Kind: string(nn.KindRUL),
				Source: string(res.Source), Time: time.Now(),
			})
		}
	}
	if res := e.adapter.Resolve(ctx, nn.KindAnomaly, t); res.Found() {
		if am, ok := res.Model.(nn.AnomalyModel); ok {
			e.aeModels[t] = am
			e.availAE[t] = struct{}{}
			if _, ok := e.normStats[t]; !ok {
				if st := am.Stats(); st.Valid(len(p.Features)) {
					e.normStats[t] = st
				}
			}
			if e.sources[t] == "" || e.sources[t] == model.SourceNone {
				e.sources[t] = res.Source
			}
			e.publish(events.ModelLoadedEvent{
				EquipmentType: t, Kind: string(nn.KindAnomaly),
				Source: string(res.Source), Time: time.Now(),
			})
		}
	}
	e.recordResidencyLocked()
}

// lazyLoadLocked swaps the resident slot to the requested type. Under
// eager operation this is a no-op. Callers hold mu.
func (e *Engine) lazyLoadLocked(ctx context.Context, t string) {
	if !e.cfg.MemoryConstrained || e.lastLoadedType == t {
		return
	}

	if prev := e.lastLoadedType; prev != "" {
		if _, ok := e.rulModels[prev]; ok {
			delete(e.rulModels, prev)
			delete(e.explainers, prev)
			e.publish(events.ModelUnloadedEvent{EquipmentType: prev, Kind: string(nn.KindRUL), Time: time.Now()})
		}
		if _, ok := e.aeModels[prev]; ok {
			delete(e.aeModels, prev)
			e.publish(events.ModelUnloadedEvent{EquipmentType: prev, Kind: string(nn.KindAnomaly), Time: time.Now()})
		}
		delete(e.sources, prev)
		e.log.Debugf("unloaded resident models for %s", prev)
	}

	p, ok := profile.Get(t)
	if !ok {
		e.lastLoadedType = ""
		return
	}

	_, wantRUL := e.availRUL[t]
	_, wantAE := e.availAE[t]
	if wantRUL || wantAE {
		e.loadTypeLocked(ctx, t, p)
	}
	e.lastLoadedType = t
}

func (e *Engine) recordResidencyLocked() {
	now := time.Now()
	if err := e.sink.RecordModelResidency(metrics.ModelResidencyEvent{
		Kind: string(nn.KindRUL), Resident: len(e.rulModels), Time: now,
	}); err != nil {
		e.log.Warnf("residency metric: %v", err)
	}
	if err := e.sink.RecordModelResidency(metrics.ModelResidencyEvent{
		Kind: string(nn.KindAnomaly), Resident: len(e.aeModels), Time: now,
	}); err != nil {
		e.log.Warnf("residency metric: %v", err)
	}
}

func (e *Engine) publish(ev eventbus.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// IngestReading appends one sensor reading to the equipment's sliding
// window. Designed to be called from MQTT consumers or the API layer.
func (e *Engine) IngestReading(equipmentID string, sensorData map[string]float64) {
	e.mu.Lock()
	buf := e.bufferLocked(equipmentID)
	buf.Append(model.NewReading(sensorData))
	level, capacity := buf.Len(), buf.Cap()
	sink := e.sink
	e.mu.Unlock()

	if err := sink.RecordBufferLevel(metrics.BufferLevelEvent{
		EquipmentID: equipmentID, Level: level, Capacity: capacity, Time: time.Now(),
	}); err != nil {
		e.log.Warnf("buffer metric: %v", err)
	}
}

func (e *Engine) bufferLocked(equipmentID string) *buffer.Ring {
	buf, ok := e.buffers[equipmentID]
	if !ok {
		buf = buffer.NewRing(e.cfg.MaxBufferSize)
		e.buffers[equipmentID] = buf
	}
	return buf
}

// backfillLocked seeds the buffer with nominal-plus-noise readings so a
// fresh instance can be demonstrated without real sensors. The noise is
// deterministic per equipment ID.
func (e *Engine) backfillLocked(buf *buffer.Ring, equipmentID string, p profile.Profile) {
	h := fnv.New32a()
	h.Write([]byte(equipmentID))
	rng := rand.New(rand.NewSource(int64(h.Sum32())))

	n := e.cfg.WindowSize + backfillExtra
	for i := 0; i < n; i++ {
		vals := make(map[string]float64, len(p.Features))
		for _, f := range p.Features {
			vals[f] = p.Nominal[f] + rng.NormFloat64()*p.Volatility[f]*0.5
		}
		buf.Append(model.NewReading(vals))
	}
	e.log.Debugf("backfilled %d synthetic readings for %s", n, equipmentID)
}

// Predict produces the fused RUL + anomaly + explanation result for one
// equipment instance. Only an unknown equipment type or a cancelled
// context return an error; every other failure degrades to empty result
// fields.
func (e *Engine) Predict(ctx context.Context, equipmentID, equipmentType string) (model.PredictionResult, error) {
	start := time.Now()

	p, ok := profile.Get(equipmentType)
	if !ok {
		return model.PredictionResult{}, fmt.Errorf("unknown equipment type %q", equipmentType)
	}

	res := model.PredictionResult{
		ID:            uuid.NewString(),
		EquipmentID:   equipmentID,
		EquipmentType: equipmentType,
		Timestamp:     time.Now().UTC(),
		ModelSource:   model.SourceNone,
	}

	e.mu.Lock()
	buf := e.bufferLocked(equipmentID)
	if buf.Len() < e.cfg.WindowSize {
		e.backfillLocked(buf, equipmentID, p)
	}
	readings := buf.Last(e.cfg.WindowSize)
	e.mu.Unlock()

	if readings == nil {
		res.Recommendation = recommendInsufficientData
		return res, nil
	}

	e.mu.Lock()
	e.lazyLoadLocked(ctx, equipmentType)
	rul := e.rulModels[equipmentType]
	ae := e.aeModels[equipmentType]
	explainer := e.explainers[equipmentType]
	stats := e.normStats[equipmentType]
	src := e.sources[equipmentType]
	e.mu.Unlock()

	window := buildWindow(readings, p)
	normalizeWindow(window, stats, len(p.Features))

	if err := e.pool.Do(ctx, func() {
		e.predictSync(&res, window, rul, ae, explainer, src)
	}); err != nil {
		return res, err
	}

	res.Recommendation = recommend(e.cfg, equipmentType, res.RULHours, res.IsAnomaly)
	e.finishPrediction(ctx, res, ae, time.Since(start))
	return res, nil
}

// predictSync is the heavy part of Predict. It runs on a pool worker.
func (e *Engine) predictSync(res *model.PredictionResult, window *mat.Dense, rul nn.RULModel, ae nn.AnomalyModel, explainer *explain.Explainer, src model.ModelSource) {
	if rul != nil {
		y, err := rul.Score(window)
		if err != nil {
			e.log.Warnf("rul forward %s: %v", res.EquipmentID, err)
		} else {
			y = math.Max(0, y)
			rounded := model.Round1(y)
			res.RULHours = &rounded
			fp := model.FailureProbability(y)
			res.FailureProbability = &fp
			res.ModelSource = src
			conf := attentionConfidence(rul.AttentionWeights(), e.cfg.WindowSize)
			res.Confidence = &conf
		}
	}

	if ae != nil {
		flag, score, err := ae.IsAnomaly(window)
		if err != nil {
			e.log.Warnf("anomaly forward %s: %v", res.EquipmentID, err)
		} else {
			s := math.Round(score*10000) / 10000
			res.AnomalyScore = &s
			res.IsAnomaly = flag
			if res.ModelSource == model.SourceNone {
				res.ModelSource = src
			}
		}
	}

	if explainer != nil && rul != nil && res.RULHours != nil {
		expl, err := explainer.Attribute(rul, window, nil)
		if err != nil {
			e.log.Warnf("explanation %s: %v", res.EquipmentID, err)
		} else {
			res.Explanation = expl
			res.Narrative = explain.Narrative(expl, *res.RULHours, res.AnomalyScore, explain.Locale(e.cfg.Locale))
		}
	}
}

// finishPrediction emits events, metrics and the persistent record for
// one completed prediction.
func (e *Engine) finishPrediction(ctx context.Context, res model.PredictionResult, ae nn.AnomalyModel, latency time.Duration) {
	now := time.Now()

	e.publish(events.PredictionEvent{Result: res, Latency: latency, Time: now})

	if res.IsAnomaly && res.AnomalyScore != nil {
		threshold := 0.0
		if ae != nil {
			threshold = ae.Threshold()
		}
		e.publish(events.AnomalyEvent{
			EquipmentID:   res.EquipmentID,
			EquipmentType: res.EquipmentType,
			Score:         *res.AnomalyScore,
			Threshold:     threshold,
			Time:          now,
		})
	}

	e.mu.Lock()
	store := e.store
	e.mu.Unlock()
	if store != nil {
		if err := store.Append(ctx, predlog.FromResult(res, latency)); err != nil {
			e.log.Warnf("prediction log: %v", err)
		}
	}
}

// attentionConfidence maps the entropy of the attention distribution to
// a 0-100 confidence figure. Peaked attention reads as high confidence.
func attentionConfidence(attn []float64, windowSize int) float64 {
	if len(attn) == 0 || windowSize <= 1 {
		return fallbackConfidence
	}
	entropy := 0.0
	for _, a := range attn {
		entropy -= a * math.Log(a+1e-8)
	}
	c := (1 - entropy/math.Log(float64(windowSize))) * 100
	if math.IsNaN(c) {
		return fallbackConfidence
	}
	return model.Round1(math.Max(0, math.Min(100, c)))
}

// BatchItem identifies one equipment instance in a batch request.
type BatchItem struct {
	EquipmentID   string `json:"equipment_id"`
	EquipmentType string `json:"equipment_type"`
}

// PredictBatch predicts for several instances. Under memory constrained
// operation the batch runs sequentially so the single resident slot is
// never contended; otherwise items run concurrently. Per-item failures
// surface in the result's recommendation instead of aborting the batch.
func (e *Engine) PredictBatch(ctx context.Context, items []BatchItem) []model.PredictionResult {
	results := make([]model.PredictionResult, len(items))

	if e.cfg.MemoryConstrained {
		for i, it := range items {
			results[i] = e.predictItem(ctx, it)
		}
		return results
	}

	var wg sync.WaitGroup
	for i, it := range items {
		wg.Add(1)
		go func(i int, it BatchItem) {
			defer wg.Done()
			results[i] = e.predictItem(ctx, it)
		}(i, it)
	}
	wg.Wait()
	return results
}

func (e *Engine) predictItem(ctx context.Context, it BatchItem) model.PredictionResult {
	res, err := e.Predict(ctx, it.EquipmentID, it.EquipmentType)
	if err != nil {
		e.log.Warnf("batch predict %s: %v", it.EquipmentID, err)
		res.EquipmentID = it.EquipmentID
		res.EquipmentType = it.EquipmentType
		res.Recommendation = fmt.Sprintf("PREDICTION FAILED: %v", err)
	}
	return res
}

// Status describes the engine for health endpoints.
type Status struct {
	Initialized        bool           `json:"initialized"`
	MemoryConstrained  bool           `json:"memory_constrained"`
	RULModelsLoaded    []string       `json:"rul_models_loaded"`
	AEModelsLoaded     []string       `json:"ae_models_loaded"`
	RULModelsAvailable []string       `json:"rul_models_available"`
	AEModelsAvailable  []string       `json:"ae_models_available"`
	ActiveBuffers      map[string]int `json:"active_buffers"`
}

// Status reports engine health.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		Initialized:        e.initialized,
		MemoryConstrained:  e.cfg.MemoryConstrained,
		RULModelsLoaded:    sortedKeys(e.rulModels),
		AEModelsLoaded:     sortedKeys(e.aeModels),
		RULModelsAvailable: sortedKeys(e.availRUL),
		AEModelsAvailable:  sortedKeys(e.availAE),
		ActiveBuffers:      make(map[string]int, len(e.buffers)),
	}
	for id, buf := range e.buffers {
		st.ActiveBuffers[id] = buf.Len()
	}
	return st
}

// Close releases the worker pool and the prediction log store.
func (e *Engine) Close() error {
	e.pool.Close()
	e.mu.Lock()
	store := e.store
	e.store = nil
	e.mu.Unlock()
	if store != nil {
		return store.Close()
	}
	return nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
