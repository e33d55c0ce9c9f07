// Package trace loads raw GPS trace files. The expected layout is one
// whitespace-delimited text file per vehicle, each row holding
// "latitude longitude occupancy unix_timestamp". The vehicle identifier is
// the file name without extension.
package trace

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quentinv/taxitrace/core/model"
)

// Fleet maps a vehicle ID to its time-ordered samples.
type Fleet map[string][]model.Sample

// LoadStats counts what the loader saw. Malformed rows are skipped, not
// fatal, so the caller can judge input quality.
type LoadStats struct {
	Files       int
	Rows        int
	RowsSkipped int
}

// DirStats aggregates loader counters for a directory and per vehicle.
type DirStats struct {
	LoadStats
	PerVehicle map[string]LoadStats
}

// LoadDir reads every regular file in dir as a vehicle trace. Samples are
// sorted by timestamp and duplicate timestamps are collapsed to the first
// occurrence.
func LoadDir(dir string) (Fleet, DirStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, DirStats{}, fmt.Errorf("read trace dir: %w", err)
	}
	fleet := Fleet{}
	stats := DirStats{PerVehicle: map[string]LoadStats{}}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id := vehicleID(e.Name())
		samples, fs, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, stats, fmt.Errorf("load %s: %w", e.Name(), err)
		}
		stats.Files++
		stats.Rows += fs.Rows
		stats.RowsSkipped += fs.RowsSkipped
		stats.PerVehicle[id] = fs
		if len(samples) > 0 {
			fleet[id] = samples
		}
	}
	if len(fleet) == 0 {
		return nil, stats, fmt.Errorf("no usable traces in %s", dir)
	}
	return fleet, stats, nil
}

// LoadFile parses a single trace file into sorted, deduplicated samples.
func LoadFile(path string) ([]model.Sample, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer f.Close()

	var samples []model.Sample
	stats := LoadStats{Files: 1}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		stats.Rows++
		s, ok := parseRow(line)
		if !ok {
			stats.RowsSkipped++
			continue
		}
		samples = append(samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, stats, err
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Before(samples[j]) })
	samples = dedupe(samples)
	return samples, stats, nil
}

func parseRow(line string) (model.Sample, bool) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return model.Sample{}, false
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || lat < -90 || lat > 90 {
		return model.Sample{}, false
	}
	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || lon < -180 || lon > 180 {
		return model.Sample{}, false
	}
	occ, err := strconv.Atoi(fields[2])
	if err != nil || (occ != 0 && occ != 1) {
		return model.Sample{}, false
	}
	ts, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil || ts <= 0 {
		return model.Sample{}, false
	}
	return model.Sample{Lat: lat, Lon: lon, Occupied: occ == 1, Time: time.Unix(ts, 0).UTC()}, true
}

// dedupe drops samples sharing a timestamp with their predecessor. The input
// must already be sorted.
func dedupe(samples []model.Sample) []model.Sample {
	if len(samples) < 2 {
		return samples
	}
	out := samples[:1]
	for _, s := range samples[1:] {
		if s.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func vehicleID(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
