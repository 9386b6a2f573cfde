package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Result reports how a single check fared against the window.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is the strategy behind the per-user and per-command limits.
type Limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// ErrLimitExceeded marks a rejected check; the middleware turns it into a
// polite refusal instead of failing open.
var ErrLimitExceeded = errors.New("rate limit exceeded")
