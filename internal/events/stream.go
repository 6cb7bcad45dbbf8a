package events

import (
	"context"
	"sync"
	"time"
)

const defaultCapacity = 1024

// Sink receives every published event, e.g. for persistence.
type Sink interface {
	Append(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Append calls f(evt).
func (f SinkFunc) Append(evt Event) { f(evt) }

// Stream is a bounded in-memory event buffer with one writer and any number
// of polling readers. Publish never blocks on readers: when the buffer is full
// the oldest event is dropped.
type Stream struct {
	mu       sync.Mutex
	cond     *sync.Cond
	capacity int
	buffer   []Event
	nextSeq  uint64
	dropped  uint64
	sinks    []Sink
}

// NewStream constructs a Stream holding at most capacity events.
func NewStream(capacity int) *Stream {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	s := &Stream{capacity: capacity}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// AddSink wires an additional sink that receives every published event.
func (s *Stream) AddSink(sink Sink) {
	if s == nil || sink == nil {
		return
	}
	s.mu.Lock()
	s.sinks = append(s.sinks, sink)
	s.mu.Unlock()
}

// Publish appends evt, assigning its sequence number and timestamp.
func (s *Stream) Publish(evt Event) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.nextSeq++
	evt.Sequence = s.nextSeq
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	if len(s.buffer) == s.capacity {
		copy(s.buffer, s.buffer[1:])
		s.buffer = s.buffer[:s.capacity-1]
		s.dropped++
	}
	s.buffer = append(s.buffer, evt)
	sinks := append([]Sink(nil), s.sinks...)
	s.cond.Broadcast()
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.Append(evt)
	}
}

// Fetch returns up to limit events with sequence greater than since, plus the
// latest sequence number. When wait is true, Fetch blocks until at least one
// event is available or the context ends.
func (s *Stream) Fetch(ctx context.Context, since uint64, limit int, wait bool) ([]Event, uint64, error) {
	if s == nil {
		return nil, since, nil
	}
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}

	cancelWait := make(chan struct{})
	if wait && ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.mu.Lock()
				s.cond.Broadcast()
				s.mu.Unlock()
			case <-cancelWait:
			}
		}()
	}
	defer close(cancelWait)

	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		events, last := s.snapshotLocked(since, limit)
		if len(events) > 0 || !wait {
			return events, last, contextError(ctx)
		}
		if err := contextError(ctx); err != nil {
			return nil, since, err
		}
		s.cond.Wait()
	}
}

// Tail returns the most recent limit events without blocking.
func (s *Stream) Tail(limit int) ([]Event, uint64) {
	if s == nil {
		return nil, 0
	}
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buffer) == 0 {
		return nil, s.nextSeq
	}
	start := len(s.buffer) - limit
	if start < 0 {
		start = 0
	}
	out := make([]Event, len(s.buffer)-start)
	copy(out, s.buffer[start:])
	return out, s.nextSeq
}

// Dropped reports how many events were evicted before being read.
func (s *Stream) Dropped() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// snapshotLocked returns events after since and the sequence of the last
// returned event, or since when nothing is pending.
func (s *Stream) snapshotLocked(since uint64, limit int) ([]Event, uint64) {
	startIdx := -1
	for i, evt := range s.buffer {
		if evt.Sequence > since {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		return nil, since
	}
	end := startIdx + limit
	if end > len(s.buffer) {
		end = len(s.buffer)
	}
	out := make([]Event, end-startIdx)
	copy(out, s.buffer[startIdx:end])
	return out, out[len(out)-1].Sequence
}

func contextError(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
