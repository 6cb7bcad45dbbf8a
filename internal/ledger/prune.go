package ledger

import (
	"context"
	"fmt"
)

const keptRunsQuery = `SELECT run_id FROM runs ORDER BY started_at DESC LIMIT ?`

// PruneRuns deletes finished runs beyond the newest keep runs, along with
// their outcomes. Runs still marked running are never removed. keep <= 0 is
// a no-op. It returns the number of runs deleted.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	var removed int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		// Outcomes are deleted explicitly; foreign_keys is a per-connection
		// pragma and pooled connections may not have it enabled.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM outcomes WHERE run_id IN (
                SELECT run_id FROM runs WHERE status != ? AND run_id NOT IN (`+keptRunsQuery+`))`,
			RunRunning, keep,
		); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM runs WHERE status != ? AND run_id NOT IN (`+keptRunsQuery+`)`,
			RunRunning, keep,
		)
		if err != nil {
			return err
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return removed, nil
}
