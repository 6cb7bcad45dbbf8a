package pipeline

import (
	"context"
	"time"

	"shotdate/internal/ledger"
	"shotdate/internal/summary"
)

// History receives run and per-file records. *ledger.Store implements it.
type History interface {
	BeginRun(ctx context.Context, runID, sourceRoot, resultRoot string, startedAt time.Time) error
	RecordOutcome(ctx context.Context, o ledger.Outcome) error
	FinishRun(ctx context.Context, runID string, status ledger.RunStatus, snap summary.Snapshot, errMsg string) error
}
