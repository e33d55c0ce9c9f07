package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
input:
  dir: ./traces
segmentation:
  gap_minutes: 20
emissions:
  fleet_size: 500
  grams_co2_per_km: 180
prediction:
  lags: 4
store:
  backend: sqlite
  path: out.db
metrics:
  prometheus_enabled: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Input.Dir != "./traces" {
		t.Fatalf("input dir: %s", cfg.Input.Dir)
	}
	if cfg.Segmentation.GapMinutes != 20 || cfg.Segmentation.MaxTripMinutes != 50 {
		t.Fatalf("segmentation config wrong: %+v", cfg.Segmentation)
	}
	if cfg.Emissions.FleetSize != 500 || cfg.Emissions.HorizonMonths != 12 {
		t.Fatalf("emissions config wrong: %+v", cfg.Emissions)
	}
	if cfg.Prediction.Lags != 4 || cfg.Prediction.TrainFraction != 0.8 {
		t.Fatalf("prediction config wrong: %+v", cfg.Prediction)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "out.db" {
		t.Fatalf("store config wrong: %+v", cfg.Store)
	}
	if !cfg.Metrics.PrometheusEnabled || cfg.Metrics.PrometheusAddr != ":9090" {
		t.Fatalf("metrics config wrong: %+v", cfg.Metrics)
	}
	if cfg.API.Addr != ":8080" {
		t.Fatalf("api default missing: %+v", cfg.API)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TAXITRACE_STORE__BACKEND", "memory")
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Fatalf("env override not applied: %s", cfg.Store.Backend)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadRejectsMissingInputDir(t *testing.T) {
	if _, err := Load(writeConfig(t, "store:\n  backend: memory\n")); err == nil {
		t.Fatalf("expected error for missing input dir")
	}
}

func TestLoadRejectsBadStoreBackend(t *testing.T) {
	bad := "input:\n  dir: ./traces\nstore:\n  backend: mongo\n"
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
