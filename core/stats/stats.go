// Package stats computes the descriptive aggregates of the fleet study:
// mileage split by occupancy, trip duration and distance distributions, and
// pickup activity by hour and weekday.
package stats

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/quentinv/taxitrace/core/segment"
)

// Distribution summarises a sample of values.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe computes a Distribution over values. Zero values in, zero
// Distribution out.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	d.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return d
}

// VehicleStats aggregates one vehicle's segmentation result.
type VehicleStats struct {
	VehicleID  string  `json:"vehicle_id"`
	Trips      int     `json:"trips"`
	Sessions   int     `json:"sessions"`
	OccupiedKm float64 `json:"occupied_km"`
	IdleKm     float64 `json:"idle_km"`
	TotalKm    float64 `json:"total_km"`
}

// FleetStats aggregates the whole fleet.
type FleetStats struct {
	Vehicles        int            `json:"vehicles"`
	Trips           int            `json:"trips"`
	OccupiedKm      float64        `json:"occupied_km"`
	IdleKm          float64        `json:"idle_km"`
	TotalKm         float64        `json:"total_km"`
	TripDurationMin Distribution   `json:"trip_duration_min"`
	TripDistanceKm  Distribution   `json:"trip_distance_km"`
	PickupsByHour   [24]int        `json:"pickups_by_hour"`
	PickupsByDay    [7]int         `json:"pickups_by_weekday"`
	PerVehicle      []VehicleStats `json:"per_vehicle"`
}

// Compute builds fleet statistics from per-vehicle segmentation results.
func Compute(results map[string]segment.Result) FleetStats {
	fs := FleetStats{Vehicles: len(results)}
	var durations, distances []float64
	for _, res := range results {
		vs := VehicleStats{
			VehicleID:  res.VehicleID,
			Trips:      len(res.Trips),
			Sessions:   res.Sessions,
			OccupiedKm: res.OccupiedKm(),
			IdleKm:     res.IdleKm(),
		}
		vs.TotalKm = vs.OccupiedKm + vs.IdleKm
		fs.PerVehicle = append(fs.PerVehicle, vs)

		fs.Trips += vs.Trips
		fs.OccupiedKm += vs.OccupiedKm
		fs.IdleKm += vs.IdleKm
		for _, trip := range res.Trips {
			durations = append(durations, trip.Duration().Minutes())
			distances = append(distances, trip.DistanceKm)
			fs.PickupsByHour[trip.Start.Hour()]++
			fs.PickupsByDay[int(trip.Start.Weekday())]++
		}
	}
	fs.TotalKm = fs.OccupiedKm + fs.IdleKm
	fs.TripDurationMin = Describe(durations)
	fs.TripDistanceKm = Describe(distances)
	sort.Slice(fs.PerVehicle, func(i, j int) bool {
		return fs.PerVehicle[i].VehicleID < fs.PerVehicle[j].VehicleID
	})
	return fs
}

// MeanDailyKm estimates the average distance a vehicle covers per active day,
// the basis for annualising fleet mileage in the emissions scenario.
func MeanDailyKm(results map[string]segment.Result) float64 {
	var km float64
	days := map[string]map[time.Time]bool{}
	for id, res := range results {
		km += res.OccupiedKm() + res.IdleKm()
		set := map[time.Time]bool{}
		for _, t := range res.Trips {
			set[day(t.Start)] = true
		}
		for _, s := range res.IdleSpans {
			set[day(s.Start)] = true
		}
		days[id] = set
	}
	var vehicleDays int
	for _, set := range days {
		vehicleDays += len(set)
	}
	if vehicleDays == 0 {
		return 0
	}
	return km / float64(vehicleDays)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
