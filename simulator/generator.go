// Package simulator produces synthetic vehicle traces in the input format of
// the pipeline and replays recorded traces to an MQTT broker.
package simulator

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// GeneratorConfig controls the synthetic fleet.
type GeneratorConfig struct {
	Vehicles        int     `json:"vehicles"`
	Days            int     `json:"days"`
	Seed            int64   `json:"seed"`
	CenterLat       float64 `json:"center_lat"`
	CenterLon       float64 `json:"center_lon"`
	IntervalSeconds int     `json:"interval_seconds"`
}

// SetDefaults applies a small San Francisco fleet.
func (c *GeneratorConfig) SetDefaults() {
	if c.Vehicles == 0 {
		c.Vehicles = 5
	}
	if c.Days == 0 {
		c.Days = 2
	}
	if c.CenterLat == 0 {
		c.CenterLat = 37.7749
	}
	if c.CenterLon == 0 {
		c.CenterLon = -122.4194
	}
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 60
	}
}

// Generate writes one trace file per vehicle into dir and returns the file
// names. Each vehicle alternates idle and occupied phases with an overnight
// break long enough to split sessions.
func Generate(dir string, cfg GeneratorConfig) ([]string, error) {
	cfg.SetDefaults()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create trace dir: %w", err)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	var files []string
	for v := 0; v < cfg.Vehicles; v++ {
		name := fmt.Sprintf("cab-%s.txt", uuid.NewString()[:8])
		if err := writeVehicle(filepath.Join(dir, name), cfg, rng); err != nil {
			return nil, fmt.Errorf("generate %s: %w", name, err)
		}
		files = append(files, name)
	}
	return files, nil
}

func writeVehicle(path string, cfg GeneratorConfig, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	lat := cfg.CenterLat + (rng.Float64()-0.5)*0.05
	lon := cfg.CenterLon + (rng.Float64()-0.5)*0.05
	ts := time.Date(2008, 6, 1, 6, 0, 0, 0, time.UTC)
	interval := time.Duration(cfg.IntervalSeconds) * time.Second

	for day := 0; day < cfg.Days; day++ {
		// A shift of alternating phases, then an overnight gap.
		shiftEnd := ts.Add(time.Duration(8+rng.Intn(4)) * time.Hour)
		occupied := false
		phaseEnd := ts
		for ts.Before(shiftEnd) {
			if !ts.Before(phaseEnd) {
				occupied = !occupied
				phaseLen := time.Duration(3+rng.Intn(12)) * time.Minute
				if !occupied {
					phaseLen = time.Duration(5+rng.Intn(25)) * time.Minute
				}
				phaseEnd = ts.Add(phaseLen)
			}
			lat += (rng.Float64() - 0.5) * 0.002
			lon += (rng.Float64() - 0.5) * 0.002
			occ := 0
			if occupied {
				occ = 1
			}
			if _, err := fmt.Fprintf(w, "%.5f %.5f %d %d\n", lat, lon, occ, ts.Unix()); err != nil {
				return err
			}
			ts = ts.Add(interval)
		}
		ts = shiftEnd.Add(time.Duration(10+rng.Intn(4)) * time.Hour)
	}
	return w.Flush()
}
