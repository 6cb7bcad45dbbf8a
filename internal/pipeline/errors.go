package pipeline

import "errors"

var (
	// ErrSourceMissing means the source root does not exist or is not a directory.
	ErrSourceMissing = errors.New("source directory not found")
	// ErrDestinationUnwritable means the result root could not be created or written.
	ErrDestinationUnwritable = errors.New("result directory not writable")
	// ErrLocked means another run holds the lock on the result root.
	ErrLocked = errors.New("another run is using this source directory")
	// ErrAlreadyRunning is returned when Run is called on a busy Runner.
	ErrAlreadyRunning = errors.New("runner already running")
	// ErrInternal wraps unexpected faults recovered during a run.
	ErrInternal = errors.New("unexpected internal fault")
)
