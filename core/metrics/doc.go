package metrics

// Package metrics defines interfaces and implementations for collecting
// inference metrics. Sinks like PromSink and InfluxSink record events such
// as predictions or anomaly flags and can be combined with NewMultiSink.
// The factory helpers return a MultiSink automatically when multiple sinks
// are configured.
