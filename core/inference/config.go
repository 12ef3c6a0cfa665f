package inference

import "fmt"

// Config holds the tunables of the inference engine.
type Config struct {
	// WindowSize is the number of readings a prediction consumes.
	WindowSize int `json:"window_size"`
	// MaxBufferSize caps the per-equipment ring buffer. Must exceed
	// WindowSize.
	MaxBufferSize int `json:"max_buffer_size"`
	// RUL thresholds, in hours, for the recommendation tiers.
	RULCritical float64 `json:"rul_critical"`
	RULWarning  float64 `json:"rul_warning"`
	RULCaution  float64 `json:"rul_caution"`
	// MemoryConstrained switches the engine from eager loading to the
	// single-resident-type lazy lifecycle.
	MemoryConstrained bool `json:"memory_constrained"`
	// ModelDir is where local checkpoint files live.
	ModelDir string `json:"model_dir"`
	// Workers sizes the shared inference worker pool.
	Workers int `json:"workers"`
	// Locale selects the narrative language, "es" or "en".
	Locale string `json:"locale"`
}

// SetDefaults fills zero fields with production defaults.
func (c *Config) SetDefaults() {
	if c.WindowSize == 0 {
		c.WindowSize = 50
	}
	if c.MaxBufferSize == 0 {
		c.MaxBufferSize = 200
	}
	if c.RULCritical == 0 {
		c.RULCritical = 24
	}
	if c.RULWarning == 0 {
		c.RULWarning = 72
	}
	if c.RULCaution == 0 {
		c.RULCaution = 168
	}
	if c.ModelDir == "" {
		c.ModelDir = "models"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Locale == "" {
		c.Locale = "es"
	}
}

// Validate checks internal consistency.
func (c Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.MaxBufferSize <= c.WindowSize {
		return fmt.Errorf("max_buffer_size %d must exceed window_size %d", c.MaxBufferSize, c.WindowSize)
	}
	if c.RULCritical <= 0 || c.RULWarning <= c.RULCritical || c.RULCaution <= c.RULWarning {
		return fmt.Errorf("rul thresholds must be positive and ascending: %v < %v < %v",
			c.RULCritical, c.RULWarning, c.RULCaution)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
