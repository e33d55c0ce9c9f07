package kpi

import (
	"database/sql"
	"time"

	core "github.com/quentinv/taxitrace/core/kpi"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists mileage KPI records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS mileage_kpi (
        vehicle_id TEXT,
        day INTEGER,
        occupied_km REAL,
        idle_km REAL,
        trips INTEGER,
        PRIMARY KEY(vehicle_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or updates the KPI record for the vehicle and day.
func (s *SQLiteStore) Add(r core.Record) error {
	d := core.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO mileage_kpi (vehicle_id, day, occupied_km, idle_km, trips)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(vehicle_id, day) DO UPDATE SET
            occupied_km = occupied_km + excluded.occupied_km,
            idle_km = idle_km + excluded.idle_km,
            trips = trips + excluded.trips`,
		r.VehicleID, d.Unix(), r.OccupiedKm, r.IdleKm, r.Trips)
	return err
}

// Query returns records in the range [start,end].
func (s *SQLiteStore) Query(vehicleID string, start, end time.Time) ([]core.Record, error) {
	start = core.Day(start)
	end = core.Day(end)
	rows, err := s.db.Query(`SELECT vehicle_id, day, occupied_km, idle_km, trips
        FROM mileage_kpi WHERE vehicle_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		vehicleID, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Record
	for rows.Next() {
		var vid string
		var ts int64
		var occ, idle float64
		var trips int
		if err := rows.Scan(&vid, &ts, &occ, &idle, &trips); err != nil {
			return nil, err
		}
		res = append(res, core.Record{
			VehicleID:  vid,
			Date:       time.Unix(ts, 0).UTC(),
			OccupiedKm: occ,
			IdleKm:     idle,
			Trips:      trips,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Vehicles lists the distinct vehicle IDs in the store.
func (s *SQLiteStore) Vehicles() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT vehicle_id FROM mileage_kpi ORDER BY vehicle_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
