package kpi

import "time"

// Record aggregates mileage KPIs for a vehicle and day.
type Record struct {
	VehicleID  string    `json:"vehicle_id"`
	Date       time.Time `json:"date"`
	OccupiedKm float64   `json:"occupied_km"`
	IdleKm     float64   `json:"idle_km"`
	Trips      int       `json:"trips"`
}

// TotalKm returns the distance covered that day.
func (r Record) TotalKm() float64 {
	return r.OccupiedKm + r.IdleKm
}

// OccupancyRatio returns the share of mileage driven with a fare.
func (r Record) OccupancyRatio() float64 {
	total := r.TotalKm()
	if total == 0 {
		return 0
	}
	return r.OccupiedKm / total
}
