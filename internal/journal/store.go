// Package journal records completed pump doses in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ReasonShutdown marks a dose cut short by process shutdown.
const ReasonShutdown = "shutdown"

// Dose is one contiguous pump-on period.
type Dose struct {
	ID            string
	StartedAt     time.Time
	EndedAt       time.Time
	Duration      time.Duration
	MoistureStart float64
	MoistureEnd   float64
	Threshold     float64
	Reason        string
}

// Store wraps SQLite access for dose rows.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS doses (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			moisture_start REAL NOT NULL,
			moisture_end REAL NOT NULL,
			threshold REAL NOT NULL,
			reason TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_doses_ended_at ON doses(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordDose stores a completed dose.
func (s *Store) RecordDose(ctx context.Context, d Dose) error {
	if d.ID == "" {
		return fmt.Errorf("dose id is empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO doses (id, started_at, ended_at, duration_ms, moisture_start, moisture_end, threshold, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID,
		d.StartedAt.UTC().Format(time.RFC3339Nano),
		d.EndedAt.UTC().Format(time.RFC3339Nano),
		d.Duration.Milliseconds(),
		d.MoistureStart,
		d.MoistureEnd,
		d.Threshold,
		d.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert dose: %w", err)
	}
	return nil
}

// Recent returns up to limit doses, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Dose, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, duration_ms, moisture_start, moisture_end, threshold, reason
		 FROM doses
		 ORDER BY ended_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query doses: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var doses []Dose
	for rows.Next() {
		var (
			d              Dose
			started, ended string
			durationMs     int64
		)
		if err := rows.Scan(&d.ID, &started, &ended, &durationMs, &d.MoistureStart, &d.MoistureEnd, &d.Threshold, &d.Reason); err != nil {
			return nil, err
		}
		if d.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", started, err)
		}
		if d.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, fmt.Errorf("parse ended_at %q: %w", ended, err)
		}
		d.Duration = time.Duration(durationMs) * time.Millisecond
		doses = append(doses, d)
	}
	return doses, rows.Err()
}
