package logbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/model"
)

// SQLiteStore persists the logbook in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        vehicle_id TEXT NOT NULL,
        odometer REAL,
        date TEXT,
        total_cost REAL,
        duration_minutes INTEGER,
        location_name TEXT,
        site_name TEXT,
        energy_kwh REAL
    );
    CREATE INDEX IF NOT EXISTS sessions_vehicle ON sessions(vehicle_id);
    CREATE TABLE IF NOT EXISTS vehicles (
        name TEXT PRIMARY KEY,
        image_path TEXT,
        position INTEGER
    );`

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

const sessionColumns = `id, vehicle_id, odometer, date, total_cost, duration_minutes, location_name, site_name, energy_kwh`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (model.ChargingSession, error) {
	var s model.ChargingSession
	var date string
	if err := row.Scan(&s.ID, &s.VehicleID, &s.Odometer, &date, &s.TotalCost,
		&s.DurationMinutes, &s.LocationName, &s.SiteName, &s.EnergyKWh); err != nil {
		return s, err
	}
	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return s, fmt.Errorf("session %s: parse date: %w", s.ID, err)
	}
	s.Date = t
	return s, nil
}

// LoadAll returns the sessions of vehicleID, or all sessions when empty.
func (s *SQLiteStore) LoadAll(ctx context.Context, vehicleID string) ([]model.ChargingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions`
	var args []any
	if vehicleID != "" {
		query += ` WHERE vehicle_id = ?`
		args = append(args, vehicleID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []model.ChargingSession{}
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (model.ChargingSession, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("session %s: %w", id, logbook.ErrNotFound)
	}
	return rec, err
}

func (s *SQLiteStore) Append(ctx context.Context, rec model.ChargingSession) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, rec.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("session %s: %w", rec.ID, logbook.ErrDuplicateID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.VehicleID, rec.Odometer, rec.Date.Format(time.RFC3339Nano), rec.TotalCost,
		rec.DurationMinutes, rec.LocationName, rec.SiteName, rec.EnergyKWh); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Update(ctx context.Context, rec model.ChargingSession) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET vehicle_id = ?, odometer = ?, date = ?,
        total_cost = ?, duration_minutes = ?, location_name = ?, site_name = ?, energy_kwh = ?
        WHERE id = ?`,
		rec.VehicleID, rec.Odometer, rec.Date.Format(time.RFC3339Nano), rec.TotalCost,
		rec.DurationMinutes, rec.LocationName, rec.SiteName, rec.EnergyKWh, rec.ID)
	if err != nil {
		return err
	}
	return expectOne(res, "session "+rec.ID)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res, "session "+id)
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, logbook.ErrNotFound)
	}
	return nil
}

// Vehicles returns the garage in display order.
func (s *SQLiteStore) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	return vehiclesQuery(ctx, s.db)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func vehiclesQuery(ctx context.Context, q querier) ([]model.Vehicle, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, image_path FROM vehicles ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	res := []model.Vehicle{}
	for rows.Next() {
		var v model.Vehicle
		var img sql.NullString
		if err := rows.Scan(&v.Name, &img); err != nil {
			return nil, err
		}
		v.ImagePath = img.String
		res = append(res, v)
	}
	return res, rows.Err()
}

// rewriteVehicles applies fn to the current garage and stores the result.
func (s *SQLiteStore) rewriteVehicles(ctx context.Context, fn func([]model.Vehicle) ([]model.Vehicle, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	current, err := vehiclesQuery(ctx, tx)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vehicles`); err != nil {
		return err
	}
	for i, v := range next {
		if _, err := tx.ExecContext(ctx, `INSERT INTO vehicles (name, image_path, position) VALUES (?, ?, ?)`,
			v.Name, v.ImagePath, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) AddVehicle(ctx context.Context, v model.Vehicle) error {
	return s.rewriteVehicles(ctx, func(vs []model.Vehicle) ([]model.Vehicle, error) {
		return logbook.AddVehicle(vs, v)
	})
}

func (s *SQLiteStore) RemoveVehicle(ctx context.Context, name string) error {
	return s.rewriteVehicles(ctx, func(vs []model.Vehicle) ([]model.Vehicle, error) {
		return logbook.RemoveVehicle(vs, name)
	})
}

func (s *SQLiteStore) MoveVehicle(ctx context.Context, name string, index int) error {
	return s.rewriteVehicles(ctx, func(vs []model.Vehicle) ([]model.Vehicle, error) {
		return logbook.MoveVehicle(vs, name, index)
	})
}

func (s *SQLiteStore) SetVehicleImage(ctx context.Context, name, path string) error {
	return s.rewriteVehicles(ctx, func(vs []model.Vehicle) ([]model.Vehicle, error) {
		return logbook.SetVehicleImage(vs, name, path)
	})
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
