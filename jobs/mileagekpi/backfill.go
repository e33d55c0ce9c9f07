// Package mileagekpi populates the daily KPI store from segmentation
// results.
package mileagekpi

import (
	"github.com/quentinv/taxitrace/core/kpi"
	"github.com/quentinv/taxitrace/core/segment"
)

// Backfill aggregates trips and idle spans into per-day records and writes
// them to the store. Trips count towards the day of their pickup.
func Backfill(store kpi.Store, results map[string]segment.Result) error {
	for _, res := range results {
		for _, t := range res.Trips {
			rec := kpi.Record{
				VehicleID:  res.VehicleID,
				Date:       kpi.Day(t.Start),
				OccupiedKm: t.DistanceKm,
				Trips:      1,
			}
			if err := store.Add(rec); err != nil {
				return err
			}
		}
		for _, s := range res.IdleSpans {
			rec := kpi.Record{
				VehicleID: res.VehicleID,
				Date:      kpi.Day(s.Start),
				IdleKm:    s.DistanceKm,
			}
			if err := store.Add(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
