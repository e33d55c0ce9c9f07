// Package export writes analysis results in CSV and JSON for downstream
// tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/quentinv/taxitrace/core/kpi"
	"github.com/quentinv/taxitrace/core/model"
)

// WriteJSON writes any result value to w in JSON format.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteTripsCSV writes segmented trips to w with a header row.
func WriteTripsCSV(w io.Writer, trips []model.Trip) error {
	cw := csv.NewWriter(w)
	header := []string{"vehicle_id", "start", "end", "pickup_lat", "pickup_lon",
		"dropoff_lat", "dropoff_lon", "distance_km", "duration_min"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range trips {
		rec := []string{
			t.VehicleID,
			t.Start.Format(time.RFC3339),
			t.End.Format(time.RFC3339),
			formatFloat(t.PickupLat),
			formatFloat(t.PickupLon),
			formatFloat(t.DropoffLat),
			formatFloat(t.DropoffLon),
			formatFloat(t.DistanceKm),
			formatFloat(t.Duration().Minutes()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteKPICSV writes daily KPI records to w with a header row.
func WriteKPICSV(w io.Writer, recs []kpi.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_id", "day", "occupied_km", "idle_km", "trips"}); err != nil {
		return err
	}
	for _, r := range recs {
		rec := []string{
			r.VehicleID,
			r.Date.Format("2006-01-02"),
			formatFloat(r.OccupiedKm),
			formatFloat(r.IdleKm),
			strconv.Itoa(r.Trips),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
