package predict

import (
	"github.com/quentinv/taxitrace/core/model"
)

// Dataset is a feature matrix with one target pair per row: the latitude and
// longitude of the pickup the features describe.
type Dataset struct {
	X   [][]float64
	Lat []float64
	Lon []float64
}

// Rows returns the number of examples.
func (d Dataset) Rows() int { return len(d.X) }

// BuildDataset derives one example per pickup from time-ordered trips: the
// previous `lags` pickup coordinates, the hour and weekday of the pickup, and
// the duration of the preceding trip in minutes. The first `lags` pickups
// have incomplete history and produce no row.
func BuildDataset(trips []model.Trip, lags int) Dataset {
	var ds Dataset
	if lags < 1 {
		lags = 1
	}
	for i := lags; i < len(trips); i++ {
		row := make([]float64, 0, 2*lags+3)
		for l := 1; l <= lags; l++ {
			prev := trips[i-l]
			row = append(row, prev.PickupLat, prev.PickupLon)
		}
		row = append(row,
			float64(trips[i].Start.Hour()),
			float64(trips[i].Start.Weekday()),
			trips[i-1].Duration().Minutes(),
		)
		ds.X = append(ds.X, row)
		ds.Lat = append(ds.Lat, trips[i].PickupLat)
		ds.Lon = append(ds.Lon, trips[i].PickupLon)
	}
	return ds
}

// Split cuts the dataset chronologically: the first trainFraction of rows
// trains, the remainder evaluates. Row counts are preserved.
func (d Dataset) Split(trainFraction float64) (train, test Dataset) {
	n := int(float64(d.Rows()) * trainFraction)
	if n < 0 {
		n = 0
	}
	if n > d.Rows() {
		n = d.Rows()
	}
	train = Dataset{X: d.X[:n], Lat: d.Lat[:n], Lon: d.Lon[:n]}
	test = Dataset{X: d.X[n:], Lat: d.Lat[n:], Lon: d.Lon[n:]}
	return train, test
}
