package summary

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Outcome is the terminal result recorded for one file.
type Outcome int

const (
	OutcomeConverted Outcome = iota
	OutcomePassCopied
	OutcomeSkippedNoDateTime
	OutcomeSkippedNotIMG
	OutcomeSkippedExists
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomePassCopied:
		return "pass-copied"
	case OutcomeSkippedNoDateTime:
		return "skipped-no-datetime"
	case OutcomeSkippedNotIMG:
		return "skipped-not-img"
	case OutcomeSkippedExists:
		return "skipped-exists"
	case OutcomeError:
		return "error"
	default:
		return "outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Snapshot is an immutable copy of the run counters.
type Snapshot struct {
	Total              int
	Converted          int
	PassCopied         int
	SkippedNoDateTime  int
	SkippedNotIMG      int
	SkippedExists      int
	CollisionsResolved int
	Errors             int
	StartedAt          time.Time
	FinishedAt         time.Time
	Cancelled          bool
}

// Processed is the number of files that reached a terminal outcome.
func (s Snapshot) Processed() int {
	return s.Converted + s.PassCopied + s.SkippedNoDateTime + s.SkippedNotIMG + s.SkippedExists + s.Errors
}

// Duration is the wall clock time between start and finish, never negative.
func (s Snapshot) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	d := s.FinishedAt.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Throughput is files per second, or 0 when no time elapsed.
func (s Snapshot) Throughput() float64 {
	secs := s.Duration().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Total) / secs
}

// Row is one labelled line of the summary.
type Row struct {
	Label string
	Value string
}

// Rows returns the summary as ordered label/value pairs.
func (s Snapshot) Rows() []Row {
	return []Row{
		{"Total files", strconv.Itoa(s.Total)},
		{"Converted", strconv.Itoa(s.Converted)},
		{"Pass copied", strconv.Itoa(s.PassCopied)},
		{"Skipped (no capture date)", strconv.Itoa(s.SkippedNoDateTime)},
		{"Skipped (not IMG pattern)", strconv.Itoa(s.SkippedNotIMG)},
		{"Collisions resolved", strconv.Itoa(s.CollisionsResolved)},
		{"Skipped (already exists)", strconv.Itoa(s.SkippedExists)},
		{"Errors", strconv.Itoa(s.Errors)},
		{"Duration", fmt.Sprintf("%.2fs", s.Duration().Seconds())},
		{"Throughput", fmt.Sprintf("%.2f files/s", s.Throughput())},
	}
}

func (s Snapshot) String() string {
	var b strings.Builder
	b.WriteString("--- Summary ---\n")
	if s.Cancelled {
		b.WriteString("(cancelled, partial results)\n")
	}
	for _, row := range s.Rows() {
		fmt.Fprintf(&b, "%s: %s\n", row.Label, row.Value)
	}
	b.WriteString("---------------")
	return b.String()
}

// Summary accumulates counters for one run. It has a single writer and is
// not safe for concurrent use; share Snapshot values instead.
type Summary struct {
	snap Snapshot
}

// New returns an empty Summary.
func New() *Summary {
	return &Summary{}
}

// Start records the run start time.
func (s *Summary) Start(at time.Time) {
	s.snap.StartedAt = at
}

// Finish records the run end time.
func (s *Summary) Finish(at time.Time) {
	s.snap.FinishedAt = at
}

// SetTotal records the number of discovered files.
func (s *Summary) SetTotal(n int) {
	s.snap.Total = n
}

// MarkCancelled flags the run as stopped early.
func (s *Summary) MarkCancelled() {
	s.snap.Cancelled = true
}

// Record increments the counter for one terminal outcome.
func (s *Summary) Record(o Outcome) {
	switch o {
	case OutcomeConverted:
		s.snap.Converted++
	case OutcomePassCopied:
		s.snap.PassCopied++
	case OutcomeSkippedNoDateTime:
		s.snap.SkippedNoDateTime++
	case OutcomeSkippedNotIMG:
		s.snap.SkippedNotIMG++
	case OutcomeSkippedExists:
		s.snap.SkippedExists++
	case OutcomeError:
		s.snap.Errors++
	}
}

// RecordCollision counts a destination that had to be renamed.
func (s *Summary) RecordCollision() {
	s.snap.CollisionsResolved++
}

// Snapshot returns a copy of the current counters.
func (s *Summary) Snapshot() Snapshot {
	return s.snap
}
