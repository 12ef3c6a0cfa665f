package simulator

import (
	"fmt"

	"petrasense/core/profile"
)

// EquipmentConfig describes one simulated equipment instance.
type EquipmentConfig struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	// Wear is the initial degradation level, 0 for brand new.
	Wear float64 `json:"wear"`
}

// Config holds parameters for the fleet simulator.
type Config struct {
	Equipment  []EquipmentConfig `json:"equipment"`
	IntervalMS int               `json:"interval_ms"`
	Seed       int64             `json:"seed"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.IntervalMS == 0 {
		c.IntervalMS = 1000
	}
	if len(c.Equipment) == 0 {
		c.Equipment = []EquipmentConfig{
			{ID: "PUMP-101", Type: "PUMP"},
			{ID: "COMP-201", Type: "COMPRESSOR"},
			{ID: "VALVE-301", Type: "VALVE"},
		}
	}
}

// Validate checks that each equipment entry references a known type.
func (c Config) Validate() error {
	for _, e := range c.Equipment {
		if e.ID == "" {
			return fmt.Errorf("equipment entry without id")
		}
		if _, ok := profile.Get(e.Type); !ok {
			return fmt.Errorf("equipment %s: unknown type %q", e.ID, e.Type)
		}
	}
	return nil
}
