// Package emissions models the CO2 impact of electrifying a combustion taxi
// fleet. A fixed fraction of the remaining combustion vehicles converts each
// month, so combustion mileage decays geometrically over the horizon.
package emissions

import "fmt"

// Config parameterises the electrification scenario.
type Config struct {
	// FleetSize is the number of combustion vehicles at month zero.
	FleetSize int `json:"fleet_size"`
	// AnnualKmPerVehicle is the mileage a vehicle covers per year. Zero lets
	// the pipeline derive it from the observed traces.
	AnnualKmPerVehicle float64 `json:"annual_km_per_vehicle"`
	// GramsCO2PerKm is the tailpipe emission factor of a combustion taxi.
	GramsCO2PerKm float64 `json:"grams_co2_per_km"`
	// MonthlyAdoption is the fraction of remaining combustion mileage that
	// converts to electric each month, in (0,1].
	MonthlyAdoption float64 `json:"monthly_adoption"`
	// HorizonMonths is the projection length.
	HorizonMonths int `json:"horizon_months"`
}

// SetDefaults applies the standard scenario constants.
func (c *Config) SetDefaults() {
	if c.GramsCO2PerKm == 0 {
		c.GramsCO2PerKm = 200
	}
	if c.MonthlyAdoption == 0 {
		c.MonthlyAdoption = 0.05
	}
	if c.HorizonMonths == 0 {
		c.HorizonMonths = 12
	}
}

// Validate rejects scenarios the model cannot express.
func (c Config) Validate() error {
	if c.FleetSize < 0 {
		return fmt.Errorf("fleet_size must be non-negative")
	}
	if c.AnnualKmPerVehicle < 0 {
		return fmt.Errorf("annual_km_per_vehicle must be non-negative")
	}
	if c.GramsCO2PerKm < 0 {
		return fmt.Errorf("grams_co2_per_km must be non-negative")
	}
	if c.MonthlyAdoption < 0 || c.MonthlyAdoption > 1 {
		return fmt.Errorf("monthly_adoption must be in [0,1]")
	}
	if c.HorizonMonths < 1 {
		return fmt.Errorf("horizon_months must be positive")
	}
	return nil
}

// Report holds the projection results, in tonnes of CO2 over the horizon.
type Report struct {
	Config          Config    `json:"config"`
	BaselineTonnes  float64   `json:"baseline_tonnes"`
	ProjectedTonnes float64   `json:"projected_tonnes"`
	AvoidedTonnes   float64   `json:"avoided_tonnes"`
	MonthlyTonnes   []float64 `json:"monthly_tonnes"`
}

// Project runs the scenario. The baseline keeps the whole fleet on
// combustion; the projection decays combustion mileage by the adoption rate
// every month. For any positive fleet size, mileage and adoption rate the
// projected total is strictly below the baseline.
func Project(cfg Config) (Report, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	monthlyKm := float64(cfg.FleetSize) * cfg.AnnualKmPerVehicle / 12
	monthlyBaseline := monthlyKm * cfg.GramsCO2PerKm / 1e6 // grams to tonnes

	rep := Report{Config: cfg, MonthlyTonnes: make([]float64, cfg.HorizonMonths)}
	combustionShare := 1.0
	for m := 0; m < cfg.HorizonMonths; m++ {
		rep.MonthlyTonnes[m] = monthlyBaseline * combustionShare
		rep.BaselineTonnes += monthlyBaseline
		rep.ProjectedTonnes += rep.MonthlyTonnes[m]
		combustionShare *= 1 - cfg.MonthlyAdoption
	}
	rep.AvoidedTonnes = rep.BaselineTonnes - rep.ProjectedTonnes
	return rep, nil
}
