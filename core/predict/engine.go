// Package predict trains a next-pickup location model over the ride history
// of the fleet. Two bagged regression-tree ensembles (one per coordinate) fit
// lagged pickup positions plus calendar features, evaluated on a
// chronological holdout.
package predict

import (
	"fmt"

	"github.com/quentinv/taxitrace/core/model"
)

// Config parameterises feature construction and ensemble training.
type Config struct {
	// Lags is the number of previous pickups fed as features.
	Lags int `json:"lags"`
	// Trees is the ensemble size.
	Trees int `json:"trees"`
	// MaxDepth bounds individual tree depth.
	MaxDepth int `json:"max_depth"`
	// MinLeaf is the minimum rows per leaf.
	MinLeaf int `json:"min_leaf"`
	// TrainFraction is the chronological share of rows used for training.
	TrainFraction float64 `json:"train_fraction"`
	// Seed drives bootstrap resampling.
	Seed int64 `json:"seed"`
}

// SetDefaults applies the standard model settings.
func (c *Config) SetDefaults() {
	if c.Lags == 0 {
		c.Lags = 3
	}
	if c.Trees == 0 {
		c.Trees = 50
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = 8
	}
	if c.MinLeaf == 0 {
		c.MinLeaf = 2
	}
	if c.TrainFraction == 0 {
		c.TrainFraction = 0.8
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Lags < 0 {
		return fmt.Errorf("lags must be non-negative")
	}
	if c.TrainFraction < 0 || c.TrainFraction > 1 {
		return fmt.Errorf("train_fraction must be in [0,1]")
	}
	return nil
}

// Result reports the evaluation of a trained model.
type Result struct {
	Rows          int     `json:"rows"`
	TrainRows     int     `json:"train_rows"`
	TestRows      int     `json:"test_rows"`
	MSELat        float64 `json:"mse_lat"`
	MSELon        float64 `json:"mse_lon"`
	MeanDistErrKm float64 `json:"mean_dist_err_km"`
}

// Model is a trained next-pickup predictor.
type Model struct {
	cfg    Config
	latFor *Forest
	lonFor *Forest
}

// ErrTooFewPickups is returned when the ride history cannot fill a single
// feature row.
var ErrTooFewPickups = fmt.Errorf("not enough pickups to build features")

// Train fits the model on time-ordered trips and evaluates it on the holdout.
func Train(trips []model.Trip, cfg Config) (*Model, Result, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, Result{}, err
	}

	ds := BuildDataset(trips, cfg.Lags)
	if ds.Rows() == 0 {
		return nil, Result{}, ErrTooFewPickups
	}
	train, test := ds.Split(cfg.TrainFraction)
	if train.Rows() == 0 {
		return nil, Result{}, ErrTooFewPickups
	}

	params := ForestParams{Trees: cfg.Trees, MaxDepth: cfg.MaxDepth, MinLeaf: cfg.MinLeaf, Seed: cfg.Seed}
	m := &Model{
		cfg:    cfg,
		latFor: FitForest(train.X, train.Lat, params),
		lonFor: FitForest(train.X, train.Lon, params),
	}

	res := Result{Rows: ds.Rows(), TrainRows: train.Rows(), TestRows: test.Rows()}
	if test.Rows() > 0 {
		var sseLat, sseLon, dist float64
		for i, row := range test.X {
			lat, lon := m.latFor.Predict(row), m.lonFor.Predict(row)
			dLat, dLon := lat-test.Lat[i], lon-test.Lon[i]
			sseLat += dLat * dLat
			sseLon += dLon * dLon
			dist += model.Haversine(lat, lon, test.Lat[i], test.Lon[i])
		}
		n := float64(test.Rows())
		res.MSELat = sseLat / n
		res.MSELon = sseLon / n
		res.MeanDistErrKm = dist / n
	}
	return m, res, nil
}

// PredictNext forecasts the next pickup location from the most recent trips.
// The input must contain at least Lags+1 time-ordered trips.
func (m *Model) PredictNext(recent []model.Trip) (lat, lon float64, err error) {
	if len(recent) < m.cfg.Lags+1 {
		return 0, 0, ErrTooFewPickups
	}
	// Build a single row against a synthetic "next" pickup at the end of the
	// history: lagged coordinates come from the tail trips, calendar features
	// from the last dropoff.
	last := recent[len(recent)-1]
	row := make([]float64, 0, 2*m.cfg.Lags+3)
	for l := 0; l < m.cfg.Lags; l++ {
		prev := recent[len(recent)-1-l]
		row = append(row, prev.PickupLat, prev.PickupLon)
	}
	row = append(row,
		float64(last.End.Hour()),
		float64(last.End.Weekday()),
		last.Duration().Minutes(),
	)
	return m.latFor.Predict(row), m.lonFor.Predict(row), nil
}
