package config

// APIConfig defines the HTTP surface of the service.
type APIConfig struct {
	// Addr is the listen address of the REST API.
	Addr string `json:"addr"`
	// AuthToken guards the prediction log endpoint when non-empty.
	AuthToken string `json:"auth_token"`
	// PrometheusEnabled exposes /metrics on PrometheusAddr.
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	// MQTTEnabled connects the reading ingestion to the broker.
	MQTTEnabled bool `json:"mqtt_enabled"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}
