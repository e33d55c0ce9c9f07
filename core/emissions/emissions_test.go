package emissions

import (
	"math"
	"testing"
)

func TestProjectDecayBelowBaseline(t *testing.T) {
	// The geometric-decay projection must undercut the baseline for any
	// positive fleet size, mileage and adoption rate.
	for _, fleet := range []int{1, 50, 500} {
		for _, km := range []float64{1000, 40000} {
			for _, adoption := range []float64{0.01, 0.05, 0.5, 1} {
				cfg := Config{
					FleetSize:          fleet,
					AnnualKmPerVehicle: km,
					GramsCO2PerKm:      200,
					MonthlyAdoption:    adoption,
					HorizonMonths:      12,
				}
				rep, err := Project(cfg)
				if err != nil {
					t.Fatalf("project: %v", err)
				}
				if rep.ProjectedTonnes >= rep.BaselineTonnes {
					t.Fatalf("fleet=%d km=%f a=%f: projected %f not below baseline %f",
						fleet, km, adoption, rep.ProjectedTonnes, rep.BaselineTonnes)
				}
				if rep.AvoidedTonnes <= 0 {
					t.Fatalf("avoided tonnes must be positive, got %f", rep.AvoidedTonnes)
				}
			}
		}
	}
}

func TestProjectKnownValues(t *testing.T) {
	cfg := Config{
		FleetSize:          10,
		AnnualKmPerVehicle: 12000, // 10000 km fleet mileage per month
		GramsCO2PerKm:      100,
		MonthlyAdoption:    0.5,
		HorizonMonths:      2,
	}
	rep, err := Project(cfg)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	// Month 0: 10 t, month 1: 5 t. Baseline: 20 t.
	if math.Abs(rep.BaselineTonnes-20) > 1e-9 {
		t.Fatalf("baseline: expected 20 got %f", rep.BaselineTonnes)
	}
	if math.Abs(rep.ProjectedTonnes-15) > 1e-9 {
		t.Fatalf("projected: expected 15 got %f", rep.ProjectedTonnes)
	}
	if math.Abs(rep.AvoidedTonnes-5) > 1e-9 {
		t.Fatalf("avoided: expected 5 got %f", rep.AvoidedTonnes)
	}
	if len(rep.MonthlyTonnes) != 2 || math.Abs(rep.MonthlyTonnes[1]-5) > 1e-9 {
		t.Fatalf("monthly series wrong: %v", rep.MonthlyTonnes)
	}
}

func TestProjectMonotoneMonthly(t *testing.T) {
	rep, err := Project(Config{FleetSize: 5, AnnualKmPerVehicle: 20000})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	for i := 1; i < len(rep.MonthlyTonnes); i++ {
		if rep.MonthlyTonnes[i] > rep.MonthlyTonnes[i-1] {
			t.Fatalf("monthly emissions must not increase: %v", rep.MonthlyTonnes)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []Config{
		{FleetSize: -1, AnnualKmPerVehicle: 1, GramsCO2PerKm: 1, MonthlyAdoption: 0.1, HorizonMonths: 12},
		{FleetSize: 1, AnnualKmPerVehicle: 1, GramsCO2PerKm: 1, MonthlyAdoption: 1.5, HorizonMonths: 12},
		{FleetSize: 1, AnnualKmPerVehicle: 1, GramsCO2PerKm: 1, MonthlyAdoption: 0.1, HorizonMonths: -1},
	}
	for i, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
