package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "petrasense/core/metrics"
)

// PromSink records inference events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	anomalies   *prometheus.CounterVec
	resident    *prometheus.GaugeVec
	buffers     *prometheus.GaugeVec
}

// NewPromSink registers inference metrics on the default Prometheus
// registerer. The Prometheus server should be started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "predictions_total",
		Help: "Total number of predictions",
	}, []string{"equipment_type", "model_source", "is_anomaly"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_latency_seconds",
		Help:    "Time spent producing one prediction",
		Buckets: prometheus.DefBuckets,
	}, []string{"equipment_type"})
	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "anomalies_total",
		Help: "Total number of windows flagged as anomalous",
	}, []string{"equipment_type"})
	resident := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "resident_models",
		Help: "Number of models currently resident in memory",
	}, []string{"kind"})
	buffers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "buffer_readings",
		Help: "Sliding window buffer occupancy per equipment instance",
	}, []string{"equipment_id"})

	if err := reg.Register(predictions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			predictions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(anomalies); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			anomalies = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(resident); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			resident = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(buffers); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			buffers = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		predictions: predictions,
		latency:     latency,
		anomalies:   anomalies,
		resident:    resident,
		buffers:     buffers,
	}, nil
}

// RecordPrediction increments the prediction counter and observes latency.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.EquipmentType, ev.ModelSource, strconv.FormatBool(ev.IsAnomaly)).Inc()
	s.latency.WithLabelValues(ev.EquipmentType).Observe(ev.Latency.Seconds())
	return nil
}

// RecordAnomaly increments the anomaly counter.
func (s *PromSink) RecordAnomaly(ev coremetrics.AnomalyEvent) error {
	s.anomalies.WithLabelValues(ev.EquipmentType).Inc()
	return nil
}

// RecordModelResidency sets the per-kind residency gauge.
func (s *PromSink) RecordModelResidency(ev coremetrics.ModelResidencyEvent) error {
	s.resident.WithLabelValues(ev.Kind).Set(float64(ev.Resident))
	return nil
}

// RecordBufferLevel sets the per-instance buffer gauge.
func (s *PromSink) RecordBufferLevel(ev coremetrics.BufferLevelEvent) error {
	s.buffers.WithLabelValues(ev.EquipmentID).Set(float64(ev.Level))
	return nil
}
