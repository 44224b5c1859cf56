package ports

import (
	"context"
	"time"
)

// RateLimitDecision is the outcome of one admission check.
// Reset is the instant the oldest retained request exits the window.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimitStore counts requests in a trailing sliding window per identifier.
// The default implementation is process-local; multi-node deployments swap in
// a shared store (Redis) without changing callers.
type RateLimitStore interface {
	Take(ctx context.Context, identifier string, limit int, window time.Duration, now time.Time) (RateLimitDecision, error)
}
