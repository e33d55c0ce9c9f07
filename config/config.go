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

	"github.com/quentinv/taxitrace/core/cluster"
	"github.com/quentinv/taxitrace/core/emissions"
	"github.com/quentinv/taxitrace/core/metrics"
	"github.com/quentinv/taxitrace/core/predict"
	"github.com/quentinv/taxitrace/core/segment"
	"github.com/quentinv/taxitrace/infra/mqtt"
)

// InputConfig locates the trace files.
type InputConfig struct {
	// Dir is the directory of per-vehicle trace files.
	Dir string `json:"dir"`
}

// StoreConfig selects the KPI persistence backend.
type StoreConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the sqlite database location.
	Path string `json:"path"`
}

// SetDefaults applies the in-memory store.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Path == "" {
		c.Path = "taxitrace.db"
	}
}

// Validate checks the backend name.
func (c StoreConfig) Validate() error {
	if c.Backend != "memory" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown store backend %s", c.Backend)
	}
	return nil
}

// ExportConfig controls result files written after a run.
type ExportConfig struct {
	// Dir receives the exported files; empty disables exports.
	Dir string `json:"dir"`
}

// APIConfig configures the results HTTP server.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies the default listen address.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Config is the root configuration of the analysis pipeline.
type Config struct {
	Input        InputConfig      `json:"input"`
	Segmentation segment.Config   `json:"segmentation"`
	Emissions    emissions.Config `json:"emissions"`
	Prediction   predict.Config   `json:"prediction"`
	Clustering   cluster.Config   `json:"clustering"`
	Metrics      metrics.Config   `json:"metrics"`
	Store        StoreConfig      `json:"store"`
	Export       ExportConfig     `json:"export"`
	API          APIConfig        `json:"api"`
	MQTT         mqtt.Config      `json:"mqtt"`
}

// Load reads the configuration file, applies TAXITRACE_ environment
// overrides, defaults and validation.
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
	if err := k.Load(env.Provider("TAXITRACE_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "taxitrace_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Segmentation.SetDefaults()
	c.Emissions.SetDefaults()
	c.Prediction.SetDefaults()
	c.Clustering.SetDefaults()
	c.Metrics.SetDefaults()
	c.Store.SetDefaults()
	c.API.SetDefaults()
	c.MQTT.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input.dir is required")
	}
	if err := c.Segmentation.Validate(); err != nil {
		return err
	}
	if err := c.Emissions.Validate(); err != nil {
		return err
	}
	if err := c.Prediction.Validate(); err != nil {
		return err
	}
	if err := c.Clustering.Validate(); err != nil {
		return err
	}
	return c.Store.Validate()
}
