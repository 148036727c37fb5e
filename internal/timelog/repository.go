package timelog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Summary aggregates all recorded segments.
type Summary struct {
	Segments int
	Seconds  int
}

type Repository struct {
	db *sql.DB
}

// Open opens or creates the journal database at path.
func Open(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal: %w", err)
	}

	return repo, nil
}

func (r *Repository) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS time_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		started_at TEXT NOT NULL,
		stopped_at TEXT NOT NULL,
		from_seconds INTEGER NOT NULL,
		to_seconds INTEGER NOT NULL,
		reason TEXT NOT NULL
	)
	`
	_, err := r.db.Exec(query)
	return err
}

func (r *Repository) Create(ctx context.Context, log *TimeLog) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO time_logs (session_id, started_at, stopped_at, from_seconds, to_seconds, reason) VALUES (?, ?, ?, ?, ?, ?)",
		log.SessionID,
		log.StartedAt.Format(time.RFC3339),
		log.StoppedAt.Format(time.RFC3339),
		log.FromSeconds,
		log.ToSeconds,
		string(log.Reason),
	)
	if err != nil {
		return fmt.Errorf("insert time log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	log.ID = id
	return nil
}

// Recent returns up to limit segments, newest first. A non-positive limit
// returns everything.
func (r *Repository) Recent(ctx context.Context, limit int) ([]TimeLog, error) {
	query := "SELECT id, session_id, started_at, stopped_at, from_seconds, to_seconds, reason FROM time_logs ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query time logs: %w", err)
	}
	defer rows.Close()

	var logs []TimeLog
	for rows.Next() {
		var l TimeLog
		var startedAt, stoppedAt, reason string
		if err := rows.Scan(&l.ID, &l.SessionID, &startedAt, &stoppedAt, &l.FromSeconds, &l.ToSeconds, &reason); err != nil {
			return nil, err
		}
		l.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		l.StoppedAt, _ = time.Parse(time.RFC3339, stoppedAt)
		l.Reason = Reason(reason)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *Repository) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(MAX(to_seconds - from_seconds, 0)), 0) FROM time_logs",
	).Scan(&s.Segments, &s.Seconds)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize time logs: %w", err)
	}
	return s, nil
}

func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM time_logs")
	return err
}

func (r *Repository) Close() error {
	return r.db.Close()
}
