// Package kpi exposes the computed analysis results over a read-only HTTP
// JSON API.
package kpi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quentinv/taxitrace/core/cluster"
	"github.com/quentinv/taxitrace/core/emissions"
	corekpi "github.com/quentinv/taxitrace/core/kpi"
	"github.com/quentinv/taxitrace/core/stats"
)

// Results bundles everything one analysis run produced.
type Results struct {
	Fleet     stats.FleetStats  `json:"fleet"`
	Emissions emissions.Report  `json:"emissions"`
	Hotspots  []cluster.Hotspot `json:"hotspots"`
}

// NewMux routes the API endpoints:
//
//	GET /api/summary          fleet statistics and emissions report
//	GET /api/hotspots         pickup hotspots
//	GET /api/kpi?vehicle=&start=&end=   daily KPI records
//	GET /api/vehicles         known vehicle IDs
func NewMux(res Results, store corekpi.Store) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/summary", getJSON(func(*http.Request) (any, error) {
		return struct {
			Fleet     stats.FleetStats `json:"fleet"`
			Emissions emissions.Report `json:"emissions"`
		}{res.Fleet, res.Emissions}, nil
	}))
	mux.Handle("/api/hotspots", getJSON(func(*http.Request) (any, error) {
		return res.Hotspots, nil
	}))
	mux.Handle("/api/vehicles", getJSON(func(*http.Request) (any, error) {
		return store.Vehicles()
	}))
	mux.Handle("/api/kpi", getJSON(func(r *http.Request) (any, error) {
		vehicle := r.URL.Query().Get("vehicle")
		start, end, err := parseRange(r)
		if err != nil {
			return nil, err
		}
		return store.Query(vehicle, start, end)
	}))
	return mux
}

// getJSON wraps a result producer into a GET-only JSON handler.
func getJSON(fn func(*http.Request) (any, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		v, err := fn(r)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, errBadRequest) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

var errBadRequest = errors.New("bad request")

// parseRange reads the start/end query parameters as "2006-01-02" dates.
// Absent parameters default to an open range; malformed ones are rejected.
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Now().UTC()
	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, fmt.Errorf("%w: invalid start date %q", errBadRequest, s)
		}
		start = t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, fmt.Errorf("%w: invalid end date %q", errBadRequest, s)
		}
		end = t
	}
	return start, end, nil
}
