// Package events carries pipeline run events (LOG, PROGRESS, COMPLETE and
// ERROR) from the single worker goroutine to any number of polling consumers.
//
// The producer side never blocks: Stream is a bounded ring buffer that evicts
// its oldest entry when full. Consumers call Fetch with the last sequence they
// saw, or use Consume to poll at a fixed cadence in batches.
package events
