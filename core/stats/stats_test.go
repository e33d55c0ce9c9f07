package stats

import (
	"math"
	"testing"
	"time"

	"github.com/quentinv/taxitrace/core/model"
	"github.com/quentinv/taxitrace/core/segment"
)

func TestDescribe(t *testing.T) {
	d := Describe([]float64{4, 2, 6, 8})
	if d.Mean != 5 {
		t.Fatalf("mean: expected 5 got %f", d.Mean)
	}
	if d.Min != 2 || d.Max != 8 {
		t.Fatalf("min/max wrong: %+v", d)
	}
	if d.StdDev <= 0 {
		t.Fatalf("stddev must be positive for spread values")
	}
}

func TestDescribeEmpty(t *testing.T) {
	if d := Describe(nil); d != (Distribution{}) {
		t.Fatalf("expected zero distribution got %+v", d)
	}
}

func TestCompute(t *testing.T) {
	start := time.Date(2008, 6, 10, 14, 0, 0, 0, time.UTC) // a Tuesday
	results := map[string]segment.Result{
		"a": {
			VehicleID: "a",
			Sessions:  1,
			Trips: []model.Trip{
				{VehicleID: "a", Start: start, End: start.Add(10 * time.Minute), DistanceKm: 3},
				{VehicleID: "a", Start: start.Add(time.Hour), End: start.Add(80 * time.Minute), DistanceKm: 5},
			},
			IdleSpans: []model.IdleSpan{
				{VehicleID: "a", Start: start.Add(10 * time.Minute), End: start.Add(time.Hour), DistanceKm: 2},
			},
		},
		"b": {VehicleID: "b", Sessions: 1},
	}
	fs := Compute(results)
	if fs.Vehicles != 2 || fs.Trips != 2 {
		t.Fatalf("unexpected counts: %+v", fs)
	}
	if math.Abs(fs.OccupiedKm-8) > 1e-9 || math.Abs(fs.IdleKm-2) > 1e-9 {
		t.Fatalf("mileage split wrong: occupied=%f idle=%f", fs.OccupiedKm, fs.IdleKm)
	}
	if math.Abs(fs.TotalKm-10) > 1e-9 {
		t.Fatalf("total mileage wrong: %f", fs.TotalKm)
	}
	if fs.PickupsByHour[14] != 1 || fs.PickupsByHour[15] != 1 {
		t.Fatalf("hour histogram wrong: %v", fs.PickupsByHour)
	}
	if fs.PickupsByDay[int(time.Tuesday)] != 2 {
		t.Fatalf("weekday histogram wrong: %v", fs.PickupsByDay)
	}
	if fs.PerVehicle[0].VehicleID != "a" || fs.PerVehicle[1].VehicleID != "b" {
		t.Fatalf("per-vehicle stats must be sorted by id")
	}
}

func TestMeanDailyKm(t *testing.T) {
	start := time.Date(2008, 6, 10, 14, 0, 0, 0, time.UTC)
	results := map[string]segment.Result{
		"a": {
			VehicleID: "a",
			Trips: []model.Trip{
				{Start: start, End: start.Add(10 * time.Minute), DistanceKm: 10},
				{Start: start.Add(24 * time.Hour), End: start.Add(25 * time.Hour), DistanceKm: 10},
			},
		},
	}
	got := MeanDailyKm(results)
	if math.Abs(got-10) > 1e-9 {
		t.Fatalf("expected 10 km/day got %f", got)
	}
	if MeanDailyKm(nil) != 0 {
		t.Fatalf("no data means zero")
	}
}
