package model

import "time"

// Trip is a contiguous occupied run within a session: a fare-carrying ride
// from pickup to dropoff.
type Trip struct {
	VehicleID  string    `json:"vehicle_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	PickupLat  float64   `json:"pickup_lat"`
	PickupLon  float64   `json:"pickup_lon"`
	DropoffLat float64   `json:"dropoff_lat"`
	DropoffLon float64   `json:"dropoff_lon"`
	DistanceKm float64   `json:"distance_km"`
	Samples    int       `json:"samples"`
}

// Duration returns the trip duration.
func (t Trip) Duration() time.Duration { return t.End.Sub(t.Start) }

// IdleSpan is a contiguous vacant run within a session: the cab cruising or
// waiting between fares.
type IdleSpan struct {
	VehicleID  string    `json:"vehicle_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DistanceKm float64   `json:"distance_km"`
	Samples    int       `json:"samples"`
}

// Duration returns the idle span duration.
func (s IdleSpan) Duration() time.Duration { return s.End.Sub(s.Start) }
