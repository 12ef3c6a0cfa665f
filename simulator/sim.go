// Package simulator generates degrading sensor streams for a fleet of
// refinery equipment and feeds them into the inference side, either
// over MQTT or in-process through an event bus.
package simulator

import (
	"context"
	"math/rand"
	"time"

	"petrasense/core/logger"
	coremqtt "petrasense/core/mqtt"
	"petrasense/internal/eventbus"
)

// Reading is one simulated sensor sample.
type Reading struct {
	EquipmentID string             `json:"equipment_id"`
	SensorData  map[string]float64 `json:"sensor_data"`
}

// Feed delivers simulated readings to the inference side.
type Feed interface {
	Send(equipmentID string, sensorData map[string]float64) error
}

// PublisherFeed sends readings over MQTT.
type PublisherFeed struct {
	Pub coremqtt.Publisher
}

func (f PublisherFeed) Send(equipmentID string, sensorData map[string]float64) error {
	return f.Pub.PublishReading(equipmentID, sensorData)
}

// BusFeed delivers readings in-process over a typed event bus.
type BusFeed struct {
	Bus *eventbus.TypedBus[Reading]
}

func (f BusFeed) Send(equipmentID string, sensorData map[string]float64) error {
	f.Bus.Publish(Reading{EquipmentID: equipmentID, SensorData: sensorData})
	return nil
}

// StartBusIngest bridges a reading bus into an ingestor until ctx is
// done.
func StartBusIngest(ctx context.Context, bus *eventbus.TypedBus[Reading], ing coremqtt.Ingestor) {
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case r, ok := <-sub:
				if !ok {
					return
				}
				ing.IngestReading(r.EquipmentID, r.SensorData)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Simulator drives a fleet of degrading equipment instances.
type Simulator struct {
	cfg   Config
	fleet []*Equipment
	feed  Feed
	log   logger.Logger
}

// New builds a simulator from its config.
func New(cfg Config, feed Feed, log logger.Logger) (*Simulator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	fleet := make([]*Equipment, 0, len(cfg.Equipment))
	for _, ec := range cfg.Equipment {
		eq, err := NewEquipment(ec, rng)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, eq)
	}
	return &Simulator{cfg: cfg, fleet: fleet, feed: feed, log: log}, nil
}

// Run emits one reading per equipment every interval until ctx is done.
// Failed instances are replaced in place and keep emitting.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.cfg.IntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Simulator) tick() {
	for _, eq := range s.fleet {
		reading := eq.Step()
		if err := s.feed.Send(eq.ID, reading); err != nil {
			s.log.Errorf("send reading for %s: %v", eq.ID, err)
		}
		if eq.Failed() {
			s.log.Warnf("%s reached failure threshold, replacing unit", eq.ID)
			eq.Reset()
		}
	}
}
