package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
	"github.com/redis/go-redis/v9"
)

// takeScript prunes, counts, and conditionally admits in one server-side step.
// Running it as a single EVAL is what makes the window safe under concurrency:
// two callers racing on the same key are serialized by Redis, so they cannot
// both observe count = limit-1 and jointly exceed the limit.
//
// KEYS[1] window key; ARGV: cutoff ms, limit, now ms, member, ttl ms.
// Returns {admitted, count before admission, oldest retained score or -1}.
var takeScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
local count = redis.call('ZCARD', KEYS[1])
local admitted = 0
if count < tonumber(ARGV[2]) then
  admitted = 1
  redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
  redis.call('PEXPIRE', KEYS[1], ARGV[5])
end
local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
local oldestScore = -1
if oldest[2] then
  oldestScore = tonumber(oldest[2])
end
return {admitted, count, oldestScore}
`)

// RedisRateLimitStore implements the sliding window on a shared sorted set,
// scored by request timestamp. This is the store multi-node deployments swap
// in so two nodes cannot jointly admit more than the limit.
type RedisRateLimitStore struct {
	client *redis.Client
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

func (s *RedisRateLimitStore) Take(ctx context.Context, identifier string, limit int, window time.Duration, now time.Time) (ports.RateLimitDecision, error) {
	key := "ratelimit:" + identifier
	cutoff := now.Add(-window)

	raw, err := takeScript.Run(ctx, s.client, []string{key},
		cutoff.UnixMilli(),
		limit,
		now.UnixMilli(),
		strconv.FormatInt(now.UnixNano(), 10),
		(window + time.Minute).Milliseconds(),
	).Int64Slice()
	if err != nil {
		return ports.RateLimitDecision{}, err
	}
	if len(raw) != 3 {
		return ports.RateLimitDecision{}, fmt.Errorf("rate limit script returned %d values", len(raw))
	}
	return takeDecision(limit, window, now, raw[0] == 1, int(raw[1]), raw[2]), nil
}

// takeDecision maps the script's reply onto the decision contract: Remaining
// counts the window before the current request was admitted, and Reset derives
// from the oldest retained entry, or from now when the window came back empty.
func takeDecision(limit int, window time.Duration, now time.Time, admitted bool, count int, oldestMs int64) ports.RateLimitDecision {
	decision := ports.RateLimitDecision{
		Allowed:   admitted,
		Limit:     limit,
		Remaining: max(0, limit-count),
		Reset:     now.Add(window),
	}
	// The admitting call's own entry never moves Reset backwards: when it is
	// the only member, oldest == now and both branches agree.
	if oldestMs >= 0 {
		decision.Reset = time.UnixMilli(oldestMs).Add(window)
	}
	return decision
}
