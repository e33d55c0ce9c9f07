package kpi

import "time"

// Store persists per-day vehicle KPI records.
type Store interface {
	Add(Record) error
	Query(vehicleID string, start, end time.Time) ([]Record, error)
	Vehicles() ([]string, error)
}

// Day aligns t to the start of its day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
