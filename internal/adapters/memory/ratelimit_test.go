package memory

import (
	"context"
	"testing"
	"time"
)

func TestSlidingWindowStoreTake(t *testing.T) {
	store := NewSlidingWindowStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	window := time.Minute

	for i := 0; i < 3; i++ {
		d, err := store.Take(ctx, "k1", 3, window, base.Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatalf("take %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("take %d must be allowed", i)
		}
		if d.Remaining != 3-i {
			t.Fatalf("take %d: remaining %d, want %d", i, d.Remaining, 3-i)
		}
	}

	d, err := store.Take(ctx, "k1", 3, window, base.Add(3*time.Second))
	if err != nil {
		t.Fatalf("take over limit: %v", err)
	}
	if d.Allowed {
		t.Fatalf("fourth take within the window must be rejected")
	}
	if d.Remaining != 0 {
		t.Fatalf("remaining at exhaustion must be 0, got %d", d.Remaining)
	}
	if !d.Reset.Equal(base.Add(window)) {
		t.Fatalf("reset must be oldest entry + window, got %v", d.Reset)
	}
}

func TestSlidingWindowStorePrunesExpired(t *testing.T) {
	store := NewSlidingWindowStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	window := time.Minute

	for i := 0; i < 3; i++ {
		if _, err := store.Take(ctx, "k1", 3, window, base); err != nil {
			t.Fatalf("seed take: %v", err)
		}
	}
	later := base.Add(window + time.Second)
	d, err := store.Take(ctx, "k1", 3, window, later)
	if err != nil {
		t.Fatalf("take after window: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expired entries must be pruned before admission")
	}
	if d.Remaining != 3 {
		t.Fatalf("full budget must be restored, got remaining %d", d.Remaining)
	}
	if !d.Reset.Equal(later.Add(window)) {
		t.Fatalf("reset for an empty window derives from now, got %v", d.Reset)
	}
}

func TestSlidingWindowStoreIsolatesIdentifiers(t *testing.T) {
	store := NewSlidingWindowStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := store.Take(ctx, "k1", 1, time.Minute, base); err != nil {
		t.Fatalf("take k1: %v", err)
	}
	d, err := store.Take(ctx, "k2", 1, time.Minute, base)
	if err != nil {
		t.Fatalf("take k2: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("identifiers must not share window state")
	}
}
