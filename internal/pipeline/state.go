package pipeline

import "fmt"

// State is the lifecycle position of a Runner.
type State int32

const (
	StateIdle State = iota
	StateScanning
	StateProcessing
	StateFinalizing
	StateComplete
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateProcessing:
		return "processing"
	case StateFinalizing:
		return "finalizing"
	case StateComplete:
		return "complete"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
