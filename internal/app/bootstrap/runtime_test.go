package bootstrap

import (
	"context"
	"testing"
)

func TestNewRuntimeDoesNotBindPorts(t *testing.T) {
	t.Setenv("HTTP_PORT", "18080")
	t.Setenv("GRPC_PORT", "19090")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	ctx := context.Background()
	if _, err := NewRuntime(ctx, "no-such-config.yaml"); err != nil {
		t.Fatalf("first runtime: %v", err)
	}
	// A second runtime on the same ports only works if construction left the
	// listeners unbound; an api and a worker process share one host this way.
	if _, err := NewRuntime(ctx, "no-such-config.yaml"); err != nil {
		t.Fatalf("second runtime on the same ports: %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("no-such-config.yaml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.CommissionRate != 0.13 {
		t.Fatalf("default commission rate: got %v", cfg.CommissionRate)
	}
	if rl := cfg.RateLimits["auth"]; rl.Limit != 5 {
		t.Fatalf("default auth rate limit: got %+v", rl)
	}
	if rl := cfg.RateLimits["expensive"]; rl.Limit != 3 {
		t.Fatalf("default expensive rate limit: got %+v", rl)
	}
}
