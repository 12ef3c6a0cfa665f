package inference

import "testing"

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.WindowSize != 50 || c.MaxBufferSize != 200 {
		t.Fatalf("window defaults: %+v", c)
	}
	if c.RULCritical != 24 || c.RULWarning != 72 || c.RULCaution != 168 {
		t.Fatalf("threshold defaults: %+v", c)
	}
	if c.Workers != 4 || c.Locale != "es" || c.ModelDir == "" {
		t.Fatalf("misc defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	base := Config{}
	base.SetDefaults()

	cases := map[string]func(*Config){
		"zero window":       func(c *Config) { c.WindowSize = 0 },
		"buffer too small":  func(c *Config) { c.MaxBufferSize = c.WindowSize },
		"thresholds not up": func(c *Config) { c.RULWarning = c.RULCritical },
		"no workers":        func(c *Config) { c.Workers = -1 },
	}
	for name, mutate := range cases {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
