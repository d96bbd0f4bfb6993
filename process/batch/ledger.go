package batch

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fitocr/pkg/workout"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Ledger is a local SQLite record of processed files so re-runs skip them.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens or creates the ledger database.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

func (l *Ledger) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS processed (
			file_name TEXT PRIMARY KEY,
			processed_at TEXT NOT NULL,
			date TEXT NOT NULL,
			clock_time TEXT NOT NULL,
			mode TEXT NOT NULL,
			start_location TEXT NOT NULL,
			end_location TEXT NOT NULL,
			total_time TEXT NOT NULL,
			distance_km TEXT NOT NULL,
			pause TEXT NOT NULL,
			calories TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_processed_date ON processed(date);`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate ledger: %w", err)
		}
	}
	return nil
}

// Seen reports whether name was already processed.
func (l *Ledger) Seen(ctx context.Context, name string) (bool, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM processed WHERE file_name = ?`, name).Scan(&n)
	return n > 0, err
}

// Pending filters names down to the ones not yet in the ledger.
func (l *Ledger) Pending(ctx context.Context, names []string) ([]string, error) {
	var out []string
	for _, n := range names {
		seen, err := l.Seen(ctx, n)
		if err != nil {
			return nil, err
		}
		if !seen {
			out = append(out, n)
		}
	}
	return out, nil
}

// Save records row for name, replacing an earlier entry.
func (l *Ledger) Save(ctx context.Context, name string, r workout.Row) error {
	_, err := l.db.ExecContext(ctx, `INSERT OR REPLACE INTO processed
		(file_name, processed_at, date, clock_time, mode, start_location, end_location, total_time, distance_km, pause, calories)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339), r.Date, r.ClockTime, r.Mode, r.StartLocation, r.EndLocation,
		r.TotalTime, r.DistanceKM, r.Pause, r.Calories)
	return err
}

// Rows returns every recorded row ordered by file name.
func (l *Ledger) Rows(ctx context.Context) ([]workout.Row, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT date, clock_time, mode, start_location, end_location,
		total_time, distance_km, pause, calories FROM processed ORDER BY file_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []workout.Row
	for rows.Next() {
		var r workout.Row
		if err := rows.Scan(&r.Date, &r.ClockTime, &r.Mode, &r.StartLocation, &r.EndLocation,
			&r.TotalTime, &r.DistanceKM, &r.Pause, &r.Calories); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
