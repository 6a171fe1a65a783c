package atomic

import "time"

// BackoffPolicy returns the wait duration before a retry attempt.
// Attempt indices start at 1 for the first retry.
type BackoffPolicy interface {
	WaitDuration(attempt int) time.Duration
}

// DefaultBackoffStep is the per-attempt increment of the default policy
const DefaultBackoffStep = 100 * time.Millisecond

// LinearBackoff waits attempt*step before each retry
type LinearBackoff struct {
	step time.Duration
}

// NewLinearBackoff creates a linear backoff policy with the given step
func NewLinearBackoff(step time.Duration) *LinearBackoff {
	if step <= 0 {
		step = DefaultBackoffStep
	}
	return &LinearBackoff{step: step}
}

// WaitDuration returns attempt*step, and zero for non-positive attempts
func (b *LinearBackoff) WaitDuration(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return time.Duration(attempt) * b.step
}
