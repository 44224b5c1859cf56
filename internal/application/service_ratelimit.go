package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
)

// CheckRateLimit admits or rejects a request against the route class's
// sliding-window budget. It never errors: exhaustion is a normal
// Allowed=false outcome, and an unreachable store fails open with a warning
// rather than turning the limiter into an outage.
func (s *Service) CheckRateLimit(ctx context.Context, class, identifier string) ports.RateLimitDecision {
	policy, ok := s.cfg.RateLimits[class]
	if !ok || policy.Limit <= 0 || policy.Window <= 0 || s.rateLimits == nil {
		return ports.RateLimitDecision{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit}
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		identifier = "anonymous"
	}
	decision, err := s.rateLimits.Take(ctx, class+":"+identifier, policy.Limit, policy.Window, s.nowFn())
	if err != nil {
		slog.Default().WarnContext(ctx, "rate-limit store unavailable",
			"module", "application",
			"layer", "application",
			"operation", "rate_limit",
			"outcome", "warning",
			"class", class,
			"error", err,
		)
		return ports.RateLimitDecision{Allowed: true, Limit: policy.Limit, Remaining: policy.Limit}
	}
	return decision
}
