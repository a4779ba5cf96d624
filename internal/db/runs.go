package db

import (
	"fmt"
	"time"
)

// Run is one recorded ingestion run.
type Run struct {
	ID          string
	StartedAt   time.Time
	Duration    time.Duration
	Sources     int
	Documents   int
	Chunks      int
	Skipped     int
	Blocked     int
	Reconciled  int
	Errors      int
	ErrorDetail string
	PerSource   []RunSource
}

// RunSource is the per-connector breakdown of a run.
type RunSource struct {
	Source    string
	Documents int
	Chunks    int
	Errors    int
}

// InsertRun records a completed ingestion run and its per-source breakdown.
func (d *DB) InsertRun(run Run) error {
	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, duration_ms, sources, documents, chunks, skipped, blocked, reconciled, errors, error_detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.Duration.Milliseconds(),
		run.Sources, run.Documents, run.Chunks, run.Skipped, run.Blocked,
		run.Reconciled, run.Errors, run.ErrorDetail,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, src := range run.PerSource {
		_, err = tx.Exec(`
			INSERT INTO run_sources (run_id, source, documents, chunks, errors)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, src.Source, src.Documents, src.Chunks, src.Errors,
		)
		if err != nil {
			return fmt.Errorf("insert run source %s: %w", src.Source, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first, without per-source
// breakdowns.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.Query(`
		SELECT id, started_at, duration_ms, sources, documents, chunks, skipped, blocked, reconciled, errors, error_detail
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.StartedAt, &durationMS,
			&run.Sources, &run.Documents, &run.Chunks, &run.Skipped,
			&run.Blocked, &run.Reconciled, &run.Errors, &run.ErrorDetail); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its per-source breakdown.
func (d *DB) GetRun(id string) (*Run, error) {
	var run Run
	var durationMS int64
	err := d.QueryRow(`
		SELECT id, started_at, duration_ms, sources, documents, chunks, skipped, blocked, reconciled, errors, error_detail
		FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.StartedAt, &durationMS,
			&run.Sources, &run.Documents, &run.Chunks, &run.Skipped,
			&run.Blocked, &run.Reconciled, &run.Errors, &run.ErrorDetail)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := d.Query(`
		SELECT source, documents, chunks, errors
		FROM run_sources WHERE run_id = ? ORDER BY source`, id)
	if err != nil {
		return nil, fmt.Errorf("query run sources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var src RunSource
		if err := rows.Scan(&src.Source, &src.Documents, &src.Chunks, &src.Errors); err != nil {
			return nil, fmt.Errorf("scan run source: %w", err)
		}
		run.PerSource = append(run.PerSource, src)
	}
	return &run, rows.Err()
}

// LastRun returns the most recent run, or nil when no run was recorded yet.
func (d *DB) LastRun() (*Run, error) {
	runs, err := d.ListRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return d.GetRun(runs[0].ID)
}
