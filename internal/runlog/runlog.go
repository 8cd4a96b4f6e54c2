// Package runlog provides the SQLite-backed durable log of grade push
// runs. The on-screen summary is capped for readability; the full outcome
// list of every run stays recoverable from here.
package runlog

import (
	_ "embed"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gradebook-tools/canvas-sync/pkg/canvas"
)

//go:embed schema.sql
var schemaSQL string

// Log is the append-only run/outcome store.
type Log struct {
	db *sql.DB
}

// Open creates or opens the log database at the given path.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect run log: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply run log schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// StartRun records the beginning of one push operation and returns its id.
func (l *Log) StartRun(operation, courseID, assignmentID string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.Exec(
		`INSERT INTO runs (id, operation, course_id, assignment_id, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, operation, courseID, assignmentID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// RecordOutcome appends one submission outcome to a run. No outcome is
// ever dropped, including successes.
func (l *Log) RecordOutcome(runID string, o canvas.Outcome) error {
	_, err := l.db.Exec(
		`INSERT INTO outcomes (run_id, student_key, success, message, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		runID, o.StudentKey, o.Success, o.Message, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return nil
}

// FinishRun closes out a run with its final counts.
func (l *Log) FinishRun(runID string, succeeded, failed, skipped int) error {
	_, err := l.db.Exec(
		`UPDATE runs SET finished_at = ?, succeeded = ?, failed = ?, skipped = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), succeeded, failed, skipped, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// OutcomesForRun returns every outcome of a run in insertion order.
func (l *Log) OutcomesForRun(runID string) ([]canvas.Outcome, error) {
	rows, err := l.db.Query(
		`SELECT student_key, success, message FROM outcomes WHERE run_id = ? ORDER BY id ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []canvas.Outcome
	for rows.Next() {
		var o canvas.Outcome
		if err := rows.Scan(&o.StudentKey, &o.Success, &o.Message); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
