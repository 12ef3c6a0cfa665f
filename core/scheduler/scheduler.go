// Package scheduler runs periodic prediction sweeps over a configured
// fleet so equipment health stays current without external triggers.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"petrasense/core/inference"
	"petrasense/core/logger"
)

// Config defines sweep parameters loaded from configuration.
type Config struct {
	Enabled         bool                  `json:"enabled"`
	IntervalMinutes int                   `json:"interval_minutes"`
	Fleet           []inference.BatchItem `json:"fleet"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.IntervalMinutes <= 0 {
		c.IntervalMinutes = 15
	}
}

// Validate checks sweep parameters.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Fleet) == 0 {
		return fmt.Errorf("sweep enabled without a fleet")
	}
	for _, it := range c.Fleet {
		if it.EquipmentID == "" || it.EquipmentType == "" {
			return fmt.Errorf("fleet entries need equipment_id and equipment_type")
		}
	}
	return nil
}

// Sweeper triggers batch predictions on a fixed interval.
type Sweeper struct {
	cfg Config
	eng *inference.Engine
	log logger.Logger
}

// New builds a sweeper. The engine must outlive it.
func New(cfg Config, eng *inference.Engine, log logger.Logger) (*Sweeper, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sweeper{cfg: cfg, eng: eng, log: log}, nil
}

// Run sweeps the fleet every interval until ctx is done. The first
// sweep fires immediately.
func (s *Sweeper) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.IntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()
	results := s.eng.PredictBatch(ctx, s.cfg.Fleet)

	var anomalies, critical int
	for _, r := range results {
		if r.IsAnomaly {
			anomalies++
		}
		if r.RULHours != nil && *r.RULHours < s.eng.Config().RULCritical {
			critical++
		}
	}
	s.log.Infof("fleet sweep: %d predictions, %d anomalies, %d critical in %s",
		len(results), anomalies, critical, time.Since(start).Round(time.Millisecond))
}
