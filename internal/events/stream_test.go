package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"shotdate/internal/summary"
)

func TestPublishAssignsSequenceAndFetchReturnsInOrder(t *testing.T) {
	s := NewStream(10)
	s.Publish(Log("one"))
	s.Publish(Progress(1, 2))
	s.Publish(Log("two"))

	evts, last, err := s.Fetch(context.Background(), 0, 0, false)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(evts) != 3 || last != 3 {
		t.Fatalf("unexpected fetch: %d events, last=%d", len(evts), last)
	}
	for i, evt := range evts {
		if evt.Sequence != uint64(i+1) {
			t.Fatalf("event %d has sequence %d", i, evt.Sequence)
		}
		if evt.Timestamp.IsZero() {
			t.Fatalf("event %d missing timestamp", i)
		}
	}
	if evts[1].Kind != KindProgress || evts[1].Current != 1 || evts[1].Total != 2 {
		t.Fatalf("unexpected progress event: %+v", evts[1])
	}

	evts, last, _ = s.Fetch(context.Background(), 2, 0, false)
	if len(evts) != 1 || evts[0].Text != "two" || last != 3 {
		t.Fatalf("unexpected incremental fetch: %+v last=%d", evts, last)
	}

	evts, last, _ = s.Fetch(context.Background(), 3, 0, false)
	if len(evts) != 0 || last != 3 {
		t.Fatalf("expected nothing pending, got %+v last=%d", evts, last)
	}
}

func TestFetchHonoursLimit(t *testing.T) {
	s := NewStream(100)
	for i := 0; i < 7; i++ {
		s.Publish(Logf("line %d", i))
	}
	evts, last, _ := s.Fetch(context.Background(), 0, 3, false)
	if len(evts) != 3 || last != 3 {
		t.Fatalf("expected first batch of 3, got %d last=%d", len(evts), last)
	}
	evts, last, _ = s.Fetch(context.Background(), last, 3, false)
	if len(evts) != 3 || last != 6 {
		t.Fatalf("expected second batch of 3, got %d last=%d", len(evts), last)
	}
}

func TestPublishDropsOldestWhenFull(t *testing.T) {
	s := NewStream(3)
	for i := 0; i < 5; i++ {
		s.Publish(Logf("line %d", i))
	}
	if s.Dropped() != 2 {
		t.Fatalf("expected 2 dropped, got %d", s.Dropped())
	}
	evts, _ := s.Tail(10)
	if len(evts) != 3 || evts[0].Text != "line 2" || evts[2].Text != "line 4" {
		t.Fatalf("unexpected buffer: %+v", evts)
	}
}

func TestPublishDoesNotBlockWithoutReaders(t *testing.T) {
	s := NewStream(2)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			s.Publish(Progress(i, 10000))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked")
	}
}

func TestFetchWaitWakesOnPublish(t *testing.T) {
	s := NewStream(10)
	got := make(chan []Event, 1)
	go func() {
		evts, _, _ := s.Fetch(context.Background(), 0, 10, true)
		got <- evts
	}()
	time.Sleep(20 * time.Millisecond)
	s.Publish(Error("boom"))

	select {
	case evts := <-got:
		if len(evts) != 1 || evts[0].Kind != KindError {
			t.Fatalf("unexpected events: %+v", evts)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiting fetch did not wake")
	}
}

func TestFetchWaitReturnsOnCancel(t *testing.T) {
	s := NewStream(10)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, _, err := s.Fetch(ctx, 0, 10, true)
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not return after cancel")
	}
}

func TestSinksReceiveEvents(t *testing.T) {
	s := NewStream(1)
	var seen []Kind
	s.AddSink(SinkFunc(func(evt Event) { seen = append(seen, evt.Kind) }))
	s.Publish(Log("a"))
	s.Publish(Complete(summary.Snapshot{Total: 1}))
	if len(seen) != 2 || seen[1] != KindComplete {
		t.Fatalf("unexpected sink events: %v", seen)
	}
}

func TestConsumeStopsAfterTerminalEvent(t *testing.T) {
	s := NewStream(200)
	for i := 0; i < 120; i++ {
		s.Publish(Progress(i+1, 120))
	}
	s.Publish(Complete(summary.Snapshot{Total: 120}))
	s.Publish(Log("after complete"))

	var handled []Event
	err := Consume(context.Background(), s, 5*time.Millisecond, 50, func(evt Event) {
		handled = append(handled, evt)
	})
	if err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}
	if len(handled) != 121 {
		t.Fatalf("expected 121 events, got %d", len(handled))
	}
	if last := handled[len(handled)-1]; last.Kind != KindComplete || last.Summary.Total != 120 {
		t.Fatalf("unexpected last event: %+v", last)
	}
}

func TestConsumeReturnsContextError(t *testing.T) {
	s := NewStream(10)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := Consume(ctx, s, 5*time.Millisecond, 10, func(Event) {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
