package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/quentinv/taxitrace/core/kpi"
	"github.com/quentinv/taxitrace/core/model"
)

func TestWriteTripsCSV(t *testing.T) {
	start := time.Date(2008, 6, 10, 8, 0, 0, 0, time.UTC)
	trips := []model.Trip{{
		VehicleID:  "cab1",
		Start:      start,
		End:        start.Add(12 * time.Minute),
		PickupLat:  37.75,
		PickupLon:  -122.39,
		DropoffLat: 37.76,
		DropoffLon: -122.40,
		DistanceKm: 2.4,
	}}
	var buf bytes.Buffer
	if err := WriteTripsCSV(&buf, trips); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row got %d", len(rows))
	}
	if rows[1][0] != "cab1" || rows[1][8] != "12" {
		t.Fatalf("unexpected row %v", rows[1])
	}
}

func TestWriteKPICSV(t *testing.T) {
	recs := []kpi.Record{{
		VehicleID:  "cab1",
		Date:       time.Date(2008, 6, 10, 0, 0, 0, 0, time.UTC),
		OccupiedKm: 12.5,
		IdleKm:     4,
		Trips:      7,
	}}
	var buf bytes.Buffer
	if err := WriteKPICSV(&buf, recs); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2008-06-10") || !strings.Contains(out, "12.5") {
		t.Fatalf("unexpected csv:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]int{"trips": 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "\"trips\": 3") {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}
