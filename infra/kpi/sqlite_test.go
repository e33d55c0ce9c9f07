package kpi

import (
	"path/filepath"
	"testing"
	"time"

	core "github.com/quentinv/taxitrace/core/kpi"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kpi.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()

	d := core.Day(time.Date(2008, 6, 10, 0, 0, 0, 0, time.UTC))
	if err := s.Add(core.Record{VehicleID: "v1", Date: d, OccupiedKm: 4, IdleKm: 1, Trips: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(core.Record{VehicleID: "v1", Date: d.Add(3 * time.Hour), OccupiedKm: 1, Trips: 1}); err != nil {
		t.Fatalf("add upsert: %v", err)
	}
	recs, err := s.Query("v1", d, d)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record got %d", len(recs))
	}
	if recs[0].OccupiedKm != 5 || recs[0].IdleKm != 1 || recs[0].Trips != 3 {
		t.Fatalf("upsert did not aggregate: %+v", recs[0])
	}

	ids, err := s.Vehicles()
	if err != nil || len(ids) != 1 || ids[0] != "v1" {
		t.Fatalf("vehicles: %v %v", ids, err)
	}
}
