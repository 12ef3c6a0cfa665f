// Package config loads the service configuration from YAML or JSON
// files with PS_ environment variable overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"petrasense/core/inference"
	"petrasense/core/metrics"
	"petrasense/core/registry"
	"petrasense/core/scheduler"
	"petrasense/infra/mqtt"
	"petrasense/simulator"
)

type Config struct {
	MQTT      mqtt.Config      `json:"mqtt"`
	Inference inference.Config `json:"inference"`
	Registry  registry.Config  `json:"registry"`
	Metrics   metrics.Config   `json:"metrics"`
	API       APIConfig        `json:"api"`
	Logging   LoggingConfig    `json:"logging"`
	Sentry    SentryConfig     `json:"sentry"`
	Sweep     scheduler.Config `json:"sweep"`
	Simulator simulator.Config `json:"simulator"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ps_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Inference.SetDefaults()
	cfg.Registry.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Sweep.SetDefaults()
	cfg.Simulator.SetDefaults()
	if err := cfg.Inference.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Sweep.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Simulator.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
