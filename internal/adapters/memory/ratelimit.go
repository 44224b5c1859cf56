package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
)

// SlidingWindowStore keeps per-identifier request timestamps in memory.
// Single-node, best-effort: state does not survive a restart, and two nodes
// running their own store can jointly exceed a limit. That trade is explicit;
// shared deployments use the Redis store instead.
type SlidingWindowStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

func NewSlidingWindowStore() *SlidingWindowStore {
	return &SlidingWindowStore{windows: map[string][]time.Time{}}
}

func (s *SlidingWindowStore) Take(_ context.Context, identifier string, limit int, window time.Duration, now time.Time) (ports.RateLimitDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	kept := s.windows[identifier][:0]
	for _, ts := range s.windows[identifier] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	count := len(kept)
	decision := ports.RateLimitDecision{
		Limit:     limit,
		Remaining: max(0, limit-count),
		Reset:     now.Add(window),
	}
	if count > 0 {
		decision.Reset = kept[0].Add(window)
	}
	if count < limit {
		decision.Allowed = true
		kept = append(kept, now)
	}
	s.windows[identifier] = kept
	return decision, nil
}
