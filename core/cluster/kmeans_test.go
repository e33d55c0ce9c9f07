package cluster

import (
	"math"
	"math/rand"
	"testing"
)

func twoBlobs(n int) [][2]float64 {
	rng := rand.New(rand.NewSource(5))
	var points [][2]float64
	for i := 0; i < n; i++ {
		lat, lon := 37.75, -122.39
		if i%2 == 0 {
			lat, lon = 37.79, -122.41
		}
		points = append(points, [2]float64{lat + rng.Float64()*0.002, lon + rng.Float64()*0.002})
	}
	return points
}

func TestKMeansTwoBlobs(t *testing.T) {
	hs, err := KMeans(twoBlobs(100), Config{K: 2, Seed: 9})
	if err != nil {
		t.Fatalf("kmeans: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("expected 2 hotspots got %d", len(hs))
	}
	total := 0
	for _, h := range hs {
		total += h.Pickups
	}
	if total != 100 {
		t.Fatalf("every point must be assigned, got %d", total)
	}
	// Each centroid should sit inside one of the blobs.
	for _, h := range hs {
		nearA := math.Abs(h.Lat-37.75) < 0.01 && math.Abs(h.Lon+122.39) < 0.01
		nearB := math.Abs(h.Lat-37.79) < 0.01 && math.Abs(h.Lon+122.41) < 0.01
		if !nearA && !nearB {
			t.Fatalf("centroid far from both blobs: %+v", h)
		}
	}
}

func TestKMeansSortedByCount(t *testing.T) {
	hs, err := KMeans(twoBlobs(99), Config{K: 2, Seed: 9})
	if err != nil {
		t.Fatalf("kmeans: %v", err)
	}
	for i := 1; i < len(hs); i++ {
		if hs[i].Pickups > hs[i-1].Pickups {
			t.Fatalf("hotspots not sorted by pickups: %+v", hs)
		}
	}
}

func TestKMeansFewerPointsThanK(t *testing.T) {
	points := [][2]float64{{37.75, -122.39}, {37.79, -122.41}}
	hs, err := KMeans(points, Config{K: 5, Seed: 1})
	if err != nil {
		t.Fatalf("kmeans: %v", err)
	}
	if len(hs) > 2 {
		t.Fatalf("cannot have more hotspots than points: %d", len(hs))
	}
}

func TestKMeansEmpty(t *testing.T) {
	hs, err := KMeans(nil, Config{K: 3})
	if err != nil || hs != nil {
		t.Fatalf("expected nil result for no points, got %v %v", hs, err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{K: -1, MaxIterations: 10}).Validate(); err == nil {
		t.Fatalf("expected error for negative k")
	}
}
