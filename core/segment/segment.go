// Package segment turns raw vehicle traces into sessions, trips and idle
// spans. A session is a stretch of activity with no sampling gap above the
// configured threshold; inside a session, occupancy transitions delimit
// fare-carrying trips and vacant idle spans.
package segment

import (
	"fmt"
	"sort"
	"time"

	"github.com/quentinv/taxitrace/core/model"
)

// Config holds the segmentation thresholds.
type Config struct {
	// GapMinutes ends the current session when two consecutive samples are
	// further apart than this.
	GapMinutes int `json:"gap_minutes"`
	// MaxTripMinutes drops trips longer than this. Overlong occupied runs are
	// almost always missed dropoff transitions.
	MaxTripMinutes int `json:"max_trip_minutes"`
}

// SetDefaults applies the standard segmentation thresholds.
func (c *Config) SetDefaults() {
	if c.GapMinutes == 0 {
		c.GapMinutes = 15
	}
	if c.MaxTripMinutes == 0 {
		c.MaxTripMinutes = 50
	}
}

// Validate checks the thresholds are usable.
func (c Config) Validate() error {
	if c.GapMinutes < 0 {
		return fmt.Errorf("gap_minutes must be non-negative")
	}
	if c.MaxTripMinutes < 0 {
		return fmt.Errorf("max_trip_minutes must be non-negative")
	}
	return nil
}

// Gap returns the session gap threshold as a duration.
func (c Config) Gap() time.Duration { return time.Duration(c.GapMinutes) * time.Minute }

// MaxTrip returns the trip duration cap as a duration.
func (c Config) MaxTrip() time.Duration { return time.Duration(c.MaxTripMinutes) * time.Minute }

// Result carries everything segmentation produced for one vehicle.
type Result struct {
	VehicleID    string
	Sessions     int
	Trips        []model.Trip
	IdleSpans    []model.IdleSpan
	DroppedTrips int
}

// OccupiedKm sums the distance driven with a fare.
func (r Result) OccupiedKm() float64 {
	var km float64
	for _, t := range r.Trips {
		km += t.DistanceKm
	}
	return km
}

// IdleKm sums the distance driven vacant.
func (r Result) IdleKm() float64 {
	var km float64
	for _, s := range r.IdleSpans {
		km += s.DistanceKm
	}
	return km
}

// Segmenter applies the thresholds to vehicle traces.
type Segmenter struct {
	cfg Config
}

// New returns a Segmenter with defaults applied on top of cfg.
func New(cfg Config) Segmenter {
	cfg.SetDefaults()
	return Segmenter{cfg: cfg}
}

// Vehicle segments one vehicle's samples. The input must be sorted by time;
// trace.LoadFile guarantees that.
func (sg Segmenter) Vehicle(id string, samples []model.Sample) Result {
	res := Result{VehicleID: id}
	for _, session := range sg.sessions(samples) {
		res.Sessions++
		sg.splitRuns(id, session, &res)
	}
	return res
}

// sessions cuts the stream at every gap above the threshold.
func (sg Segmenter) sessions(samples []model.Sample) [][]model.Sample {
	var out [][]model.Sample
	start := 0
	for i := 1; i < len(samples); i++ {
		if samples[i].Time.Sub(samples[i-1].Time) > sg.cfg.Gap() {
			out = append(out, samples[start:i])
			start = i
		}
	}
	if start < len(samples) {
		out = append(out, samples[start:])
	}
	return out
}

// splitRuns walks a session and emits a trip or idle span for every maximal
// occupancy run. Single-sample runs carry no interval and are discarded.
func (sg Segmenter) splitRuns(id string, session []model.Sample, res *Result) {
	runStart := 0
	for i := 1; i <= len(session); i++ {
		if i < len(session) && session[i].Occupied == session[runStart].Occupied {
			continue
		}
		run := session[runStart:i]
		runStart = i
		if len(run) < 2 {
			continue
		}
		first, last := run[0], run[len(run)-1]
		if first.Occupied {
			trip := model.Trip{
				VehicleID:  id,
				Start:      first.Time,
				End:        last.Time,
				PickupLat:  first.Lat,
				PickupLon:  first.Lon,
				DropoffLat: last.Lat,
				DropoffLon: last.Lon,
				DistanceKm: model.PathDistance(run),
				Samples:    len(run),
			}
			if trip.Duration() > sg.cfg.MaxTrip() {
				res.DroppedTrips++
				continue
			}
			res.Trips = append(res.Trips, trip)
		} else {
			res.IdleSpans = append(res.IdleSpans, model.IdleSpan{
				VehicleID:  id,
				Start:      first.Time,
				End:        last.Time,
				DistanceKm: model.PathDistance(run),
				Samples:    len(run),
			})
		}
	}
}

// Fleet segments every vehicle and returns results keyed by vehicle ID.
func (sg Segmenter) Fleet(fleet map[string][]model.Sample) map[string]Result {
	out := make(map[string]Result, len(fleet))
	for id, samples := range fleet {
		out[id] = sg.Vehicle(id, samples)
	}
	return out
}

// Pickups returns the trips' pickup events ordered by time, the raw material
// for the next-pickup predictor.
func Pickups(trips []model.Trip) []model.Trip {
	out := make([]model.Trip, len(trips))
	copy(out, trips)
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
