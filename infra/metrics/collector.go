package metrics

import (
	"context"

	"petrasense/core/events"
	coremetrics "petrasense/core/metrics"
	"petrasense/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics
// for prediction and anomaly events. It stops when the context is
// canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.PredictionEvent:
					_ = sink.RecordPrediction(coremetrics.PredictionEvent{
						EquipmentID:   e.Result.EquipmentID,
						EquipmentType: e.Result.EquipmentType,
						ModelSource:   string(e.Result.ModelSource),
						RULHours:      e.Result.RULHours,
						AnomalyScore:  e.Result.AnomalyScore,
						IsAnomaly:     e.Result.IsAnomaly,
						Latency:       e.Latency,
						Time:          e.Time,
					})
				case events.AnomalyEvent:
					_ = sink.RecordAnomaly(coremetrics.AnomalyEvent{
						EquipmentID:   e.EquipmentID,
						EquipmentType: e.EquipmentType,
						Score:         e.Score,
						Threshold:     e.Threshold,
						Time:          e.Time,
					})
				}
			}
		}
	}()
}
