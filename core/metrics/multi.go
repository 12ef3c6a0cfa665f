package metrics

import "errors"

// MultiSink fans events out to multiple sinks. Every sink is invoked even
// when an earlier one fails; errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordPrediction(ev PredictionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordAnomaly(ev AnomalyEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordAnomaly(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordModelResidency(ev ModelResidencyEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordModelResidency(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordBufferLevel(ev BufferLevelEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordBufferLevel(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
