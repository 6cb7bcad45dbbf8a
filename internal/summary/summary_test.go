package summary

import (
	"strings"
	"testing"
	"time"
)

func TestRecordCountsEachOutcome(t *testing.T) {
	s := New()
	s.SetTotal(7)
	for _, o := range []Outcome{
		OutcomeConverted, OutcomeConverted, OutcomePassCopied,
		OutcomeSkippedNoDateTime, OutcomeSkippedNotIMG, OutcomeSkippedExists, OutcomeError,
	} {
		s.Record(o)
	}
	s.RecordCollision()

	snap := s.Snapshot()
	if snap.Total != 7 || snap.Converted != 2 || snap.PassCopied != 1 || snap.SkippedNoDateTime != 1 ||
		snap.SkippedNotIMG != 1 || snap.SkippedExists != 1 || snap.Errors != 1 || snap.CollisionsResolved != 1 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
	if snap.Processed() != 7 {
		t.Fatalf("unexpected processed count %d", snap.Processed())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.Record(OutcomeConverted)
	snap := s.Snapshot()
	s.Record(OutcomeConverted)
	if snap.Converted != 1 {
		t.Fatalf("snapshot mutated: %+v", snap)
	}
}

func TestDurationAndThroughput(t *testing.T) {
	s := New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Start(start)
	s.SetTotal(10)
	if got := s.Snapshot().Throughput(); got != 0 {
		t.Fatalf("expected zero throughput before finish, got %v", got)
	}
	s.Finish(start.Add(4 * time.Second))
	snap := s.Snapshot()
	if snap.Duration() != 4*time.Second {
		t.Fatalf("unexpected duration %v", snap.Duration())
	}
	if snap.Throughput() != 2.5 {
		t.Fatalf("unexpected throughput %v", snap.Throughput())
	}

	s.Finish(start.Add(-time.Second))
	if s.Snapshot().Duration() != 0 || s.Snapshot().Throughput() != 0 {
		t.Fatal("expected negative duration to clamp to zero")
	}
}

func TestStringIncludesCounters(t *testing.T) {
	s := New()
	s.SetTotal(3)
	s.Record(OutcomeConverted)
	s.MarkCancelled()
	out := s.Snapshot().String()
	for _, want := range []string{"Total files: 3", "Converted: 1", "Throughput: 0.00 files/s", "cancelled"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}
