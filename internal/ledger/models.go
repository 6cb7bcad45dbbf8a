package ledger

import (
	"time"

	"shotdate/internal/summary"
)

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
	RunAborted   RunStatus = "aborted"
)

// Run is one row of run history.
type Run struct {
	ID           string
	SourceRoot   string
	ResultRoot   string
	Status       RunStatus
	StartedAt    time.Time
	FinishedAt   time.Time
	Counts       summary.Snapshot
	ErrorMessage string
}

// Duration returns how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome is the recorded result for one source file.
type Outcome struct {
	RunID      string
	Source     string
	Action     string
	Dest       string
	Outcome    string
	Reason     string
	RecordedAt time.Time
}
