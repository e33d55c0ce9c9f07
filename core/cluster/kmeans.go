// Package cluster groups pickup locations into spatial hotspots with a
// seeded k-means over raw coordinates.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/quentinv/taxitrace/core/model"
)

// Config parameterises the hotspot clustering.
type Config struct {
	// K is the number of hotspots to extract.
	K int `json:"k"`
	// MaxIterations caps the Lloyd iterations.
	MaxIterations int `json:"max_iterations"`
	// Seed drives the initial centroid choice.
	Seed int64 `json:"seed"`
}

// SetDefaults applies usable clustering defaults.
func (c *Config) SetDefaults() {
	if c.K == 0 {
		c.K = 5
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = 50
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.K < 1 {
		return fmt.Errorf("k must be positive")
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be positive")
	}
	return nil
}

// Hotspot is one cluster of pickups.
type Hotspot struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Pickups int     `json:"pickups"`
}

// Pickups extracts the pickup coordinates of the trips.
func Pickups(trips []model.Trip) [][2]float64 {
	points := make([][2]float64, len(trips))
	for i, t := range trips {
		points[i] = [2]float64{t.PickupLat, t.PickupLon}
	}
	return points
}

// KMeans clusters the points and returns the hotspots sorted by descending
// pickup count. Fewer distinct points than K yields fewer hotspots.
func KMeans(points [][2]float64, cfg Config) ([]Hotspot, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}
	k := cfg.K
	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	centroids := make([][2]float64, k)
	for i, p := range rng.Perm(len(points))[:k] {
		centroids[i] = points[p]
	}

	assign := make([]int, len(points))
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearest(centroids, p)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		// Recompute centroids; an emptied cluster is reseeded to a random
		// point so K survives degenerate initialisations.
		sums := make([][2]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assign[i]
			sums[c][0] += p[0]
			sums[c][1] += p[1]
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				centroids[c] = points[rng.Intn(len(points))]
				continue
			}
			centroids[c] = [2]float64{sums[c][0] / float64(counts[c]), sums[c][1] / float64(counts[c])}
		}
	}

	counts := make([]int, k)
	for _, c := range assign {
		counts[c]++
	}
	var hotspots []Hotspot
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		hotspots = append(hotspots, Hotspot{Lat: centroids[c][0], Lon: centroids[c][1], Pickups: counts[c]})
	}
	sort.Slice(hotspots, func(i, j int) bool { return hotspots[i].Pickups > hotspots[j].Pickups })
	return hotspots, nil
}

func nearest(centroids [][2]float64, p [2]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, ctr := range centroids {
		d := floats.Distance([]float64{p[0], p[1]}, []float64{ctr[0], ctr[1]}, 2)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
