package events

import (
	"fmt"
	"time"

	"shotdate/internal/summary"
)

// Kind identifies an event type.
type Kind string

const (
	KindLog      Kind = "LOG"
	KindProgress Kind = "PROGRESS"
	KindComplete Kind = "COMPLETE"
	KindError    Kind = "ERROR"
)

// Event is one message emitted by a pipeline run. Fields are populated per
// Kind: Text for LOG and ERROR, Current/Total for PROGRESS, Summary for
// COMPLETE.
type Event struct {
	Sequence  uint64            `json:"seq"`
	Timestamp time.Time         `json:"ts"`
	RunID     string            `json:"run_id,omitempty"`
	Kind      Kind              `json:"kind"`
	Text      string            `json:"text,omitempty"`
	Current   int               `json:"current,omitempty"`
	Total     int               `json:"total,omitempty"`
	Summary   *summary.Snapshot `json:"summary,omitempty"`
}

// Terminal reports whether the event ends a run.
func (e Event) Terminal() bool {
	return e.Kind == KindComplete || e.Kind == KindError
}

func (e Event) String() string {
	switch e.Kind {
	case KindProgress:
		return fmt.Sprintf("PROGRESS %d/%d", e.Current, e.Total)
	case KindComplete:
		if e.Summary != nil {
			return fmt.Sprintf("COMPLETE %d files", e.Summary.Total)
		}
		return "COMPLETE"
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Text)
	}
}

// Log builds a LOG event.
func Log(text string) Event {
	return Event{Kind: KindLog, Text: text}
}

// Logf builds a formatted LOG event.
func Logf(format string, args ...any) Event {
	return Log(fmt.Sprintf(format, args...))
}

// Progress builds a PROGRESS event.
func Progress(current, total int) Event {
	return Event{Kind: KindProgress, Current: current, Total: total}
}

// Complete builds a COMPLETE event carrying a copy of snap.
func Complete(snap summary.Snapshot) Event {
	return Event{Kind: KindComplete, Summary: &snap}
}

// Error builds an ERROR event.
func Error(message string) Event {
	return Event{Kind: KindError, Text: message}
}
