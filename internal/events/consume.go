package events

import (
	"context"
	"time"
)

// Default polling cadence for consumers draining a Stream.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultBatchSize    = 50
)

// Consume polls s every interval, handing up to batch events at a time to
// handle in order. It returns nil after a terminal event has been handled, or
// the context error if ctx ends first.
func Consume(ctx context.Context, s *Stream, interval time.Duration, batch int, handle func(Event)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var since uint64
	for {
		for {
			evts, last, _ := s.Fetch(ctx, since, batch, false)
			if len(evts) == 0 {
				break
			}
			since = last
			for _, evt := range evts {
				handle(evt)
				if evt.Terminal() {
					return nil
				}
			}
			if len(evts) < batch {
				break
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
