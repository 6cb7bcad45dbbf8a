package logging

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"shotdate/internal/events"
)

// Artifact file names written inside a result tree.
const (
	RunLogName   = "run.log"
	ErrorLogName = "error.log"
)

// appendFile is an append-only text file guarded by a mutex.
type appendFile struct {
	path string
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
	now  func() time.Time
}

func openAppendFile(path string) (*appendFile, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("log path is empty")
	}
	if err := ensureLogDir(trimmed); err != nil {
		return nil, fmt.Errorf("ensure log dir: %w", err)
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", trimmed, err)
	}
	return &appendFile{path: trimmed, file: file, w: bufio.NewWriter(file), now: time.Now}, nil
}

// writeLines appends lines; the first one is prefixed with the current
// timestamp. Writing to a closed file returns os.ErrClosed.
func (a *appendFile) writeLines(lines ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return os.ErrClosed
	}
	if len(lines) > 0 {
		lines[0] = a.stamp() + " " + lines[0]
	}
	for _, line := range lines {
		if _, err := a.w.WriteString(line); err != nil {
			return err
		}
		if err := a.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return a.w.Flush()
}

func (a *appendFile) stamp() string {
	now := a.now
	if now == nil {
		now = time.Now
	}
	return "[" + formatTimestamp(now()) + "]"
}

func (a *appendFile) close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.file == nil {
		return nil
	}
	flushErr := a.w.Flush()
	closeErr := a.file.Close()
	a.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// RunLog is the append-only run.log of a result tree: one timestamped line
// per LOG event plus run header and footer lines. It implements events.Sink.
type RunLog struct {
	f *appendFile
}

// OpenRunLog opens (or creates) the run log at path for appending.
func OpenRunLog(path string) (*RunLog, error) {
	f, err := openAppendFile(path)
	if err != nil {
		return nil, err
	}
	return &RunLog{f: f}, nil
}

// Begin writes the run header.
func (l *RunLog) Begin(runID, sourceRoot string) error {
	if l == nil {
		return nil
	}
	return l.f.writeLines(fmt.Sprintf("=== run %s started: %s ===", runID, sourceRoot))
}

// Line appends one timestamped line.
func (l *RunLog) Line(text string) error {
	if l == nil {
		return nil
	}
	return l.f.writeLines(text)
}

// Append records LOG and ERROR events and the final summary of COMPLETE.
// PROGRESS events are not persisted.
func (l *RunLog) Append(evt events.Event) {
	if l == nil {
		return
	}
	switch evt.Kind {
	case events.KindLog:
		_ = l.Line(evt.Text)
	case events.KindError:
		_ = l.Line("ERROR: " + evt.Text)
	case events.KindComplete:
		if evt.Summary == nil {
			_ = l.Line("=== run complete ===")
			return
		}
		lines := []string{"=== run complete ==="}
		lines = append(lines, strings.Split(evt.Summary.String(), "\n")...)
		_ = l.f.writeLines(lines...)
	}
}

// Path returns the on-disk location of the log.
func (l *RunLog) Path() string {
	if l == nil {
		return ""
	}
	return l.f.path
}

// Close flushes and releases the file handle.
func (l *RunLog) Close() error {
	if l == nil {
		return nil
	}
	return l.f.close()
}

// ErrorLog is the append-only error.log of a result tree with timestamped
// "file -> message" entries and optional indented detail lines.
type ErrorLog struct {
	f *appendFile
}

// OpenErrorLog opens (or creates) the error log at path for appending.
func OpenErrorLog(path string) (*ErrorLog, error) {
	f, err := openAppendFile(path)
	if err != nil {
		return nil, err
	}
	return &ErrorLog{f: f}, nil
}

// Record appends one error entry.
func (l *ErrorLog) Record(file, message string, details ...string) error {
	if l == nil {
		return nil
	}
	lines := make([]string, 0, 1+len(details))
	lines = append(lines, fmt.Sprintf("%s -> %s", file, message))
	for _, d := range details {
		for _, line := range strings.Split(strings.TrimRight(d, "\n"), "\n") {
			lines = append(lines, "    "+line)
		}
	}
	return l.f.writeLines(lines...)
}

// Path returns the on-disk location of the log.
func (l *ErrorLog) Path() string {
	if l == nil {
		return ""
	}
	return l.f.path
}

// Close flushes and releases the file handle.
func (l *ErrorLog) Close() error {
	if l == nil {
		return nil
	}
	return l.f.close()
}
