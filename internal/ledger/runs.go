package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shotdate/internal/summary"
)

// ErrNoRun is returned when a run id is not present in the ledger.
var ErrNoRun = errors.New("run not found")

const runColumns = `run_id, source_root, result_root, status, started_at, finished_at,
    total, converted, pass_copied, skipped_no_datetime, skipped_not_img, skipped_exists,
    collisions_resolved, errors, error_message`

// BeginRun records a new run in the running state.
func (s *Store) BeginRun(ctx context.Context, runID, sourceRoot, resultRoot string, startedAt time.Time) error {
	if runID == "" {
		return errors.New("run id is empty")
	}
	if err := s.exec(ctx,
		`INSERT INTO runs (run_id, source_root, result_root, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		runID, sourceRoot, resultRoot, RunRunning, formatTime(startedAt),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordOutcome appends the result for one file.
func (s *Store) RecordOutcome(ctx context.Context, o Outcome) error {
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now()
	}
	if err := s.exec(ctx,
		`INSERT INTO outcomes (run_id, source, action, dest, outcome, reason, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.RunID, o.Source, o.Action, nullableString(o.Dest), o.Outcome, nullableString(o.Reason), formatTime(o.RecordedAt),
	); err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// FinishRun stores final counters and status for a run.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus, snap summary.Snapshot, errMsg string) error {
	finished := snap.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	if err := s.exec(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, total = ?, converted = ?, pass_copied = ?,
             skipped_no_datetime = ?, skipped_not_img = ?, skipped_exists = ?, collisions_resolved = ?,
             errors = ?, error_message = ?
         WHERE run_id = ?`,
		status, formatTime(finished), snap.Total, snap.Converted, snap.PassCopied,
		snap.SkippedNoDateTime, snap.SkippedNotIMG, snap.SkippedExists, snap.CollisionsResolved,
		snap.Errors, nullableString(errMsg), runID,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun fetches a single run.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNoRun, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Outcomes returns the per-file results for a run in insertion order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, source, action, dest, outcome, reason, recorded_at FROM outcomes WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o        Outcome
			dest     sql.NullString
			reason   sql.NullString
			recorded sql.NullString
		)
		if err := rows.Scan(&o.RunID, &o.Source, &o.Action, &dest, &o.Outcome, &reason, &recorded); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Dest = dest.String
		o.Reason = reason.String
		o.RecordedAt = parseTime(recorded)
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run      Run
		status   string
		started  sql.NullString
		finished sql.NullString
		errMsg   sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.SourceRoot,
		&run.ResultRoot,
		&status,
		&started,
		&finished,
		&run.Counts.Total,
		&run.Counts.Converted,
		&run.Counts.PassCopied,
		&run.Counts.SkippedNoDateTime,
		&run.Counts.SkippedNotIMG,
		&run.Counts.SkippedExists,
		&run.Counts.CollisionsResolved,
		&run.Counts.Errors,
		&errMsg,
	); err != nil {
		return Run{}, err
	}
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.Counts.StartedAt = run.StartedAt
	run.Counts.FinishedAt = run.FinishedAt
	run.Counts.Cancelled = run.Status == RunCancelled
	run.ErrorMessage = errMsg.String
	return run, nil
}
