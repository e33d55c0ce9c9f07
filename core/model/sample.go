package model

import "time"

// Sample is a single GPS fix from a vehicle trace: position, whether the taxi
// carried a fare at that moment, and the recording time.
type Sample struct {
	Lat      float64
	Lon      float64
	Occupied bool
	Time     time.Time
}

// Before reports whether s was recorded before o.
func (s Sample) Before(o Sample) bool {
	return s.Time.Before(o.Time)
}
