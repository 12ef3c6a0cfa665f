package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "petrasense/core/metrics"
	"petrasense/infra/logger"
)

// InfluxSink writes inference events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPrediction writes the prediction as a point.
func (s *InfluxSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("prediction").
		AddTag("equipment_id", ev.EquipmentID).
		AddTag("equipment_type", ev.EquipmentType).
		AddTag("model_source", ev.ModelSource).
		AddTag("is_anomaly", strconv.FormatBool(ev.IsAnomaly)).
		AddField("latency_ms", float64(ev.Latency.Microseconds())/1000).
		SetTime(ev.Time)
	if ev.RULHours != nil {
		p.AddField("rul_hours", *ev.RULHours)
	}
	if ev.AnomalyScore != nil {
		p.AddField("anomaly_score", *ev.AnomalyScore)
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAnomaly writes the anomaly flag as a point.
func (s *InfluxSink) RecordAnomaly(ev coremetrics.AnomalyEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("anomaly").
		AddTag("equipment_id", ev.EquipmentID).
		AddTag("equipment_type", ev.EquipmentType).
		AddField("score", ev.Score).
		AddField("threshold", ev.Threshold).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordModelResidency writes the residency snapshot.
func (s *InfluxSink) RecordModelResidency(ev coremetrics.ModelResidencyEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("model_residency").
		AddTag("kind", ev.Kind).
		AddField("resident", ev.Resident).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordBufferLevel writes the buffer occupancy snapshot.
func (s *InfluxSink) RecordBufferLevel(ev coremetrics.BufferLevelEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("buffer_level").
		AddTag("equipment_id", ev.EquipmentID).
		AddField("level", ev.Level).
		AddField("capacity", ev.Capacity).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
