package logging

// ProgressSampler suppresses repetitive progress logs, emitting only when the
// completion percentage crosses a bucket boundary.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits every bucketSize percent
// (default 10).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether progress current/total starts a new bucket. The
// final item always logs.
func (s *ProgressSampler) ShouldLog(current, total int) bool {
	if s == nil || total <= 0 {
		return true
	}
	if current >= total {
		if s.lastBucket == int(100/s.bucketSize) {
			return false
		}
		s.lastBucket = int(100 / s.bucketSize)
		return true
	}
	percent := float64(current) * 100 / float64(total)
	bucket := int(percent / s.bucketSize)
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
