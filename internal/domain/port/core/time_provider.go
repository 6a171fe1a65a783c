package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations so that entities and use cases
// can be tested with a deterministic clock
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
