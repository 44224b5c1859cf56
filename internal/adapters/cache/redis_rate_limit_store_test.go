package cache

import (
	"testing"
	"time"
)

func TestTakeDecisionAdmitted(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	oldest := now.Add(-30 * time.Second)

	d := takeDecision(5, time.Minute, now, true, 2, oldest.UnixMilli())
	if !d.Allowed {
		t.Fatalf("expected admission")
	}
	if d.Remaining != 3 {
		t.Fatalf("remaining counts the window before admission: got %d, want 3", d.Remaining)
	}
	if !d.Reset.Equal(oldest.Add(time.Minute)) {
		t.Fatalf("reset must derive from the oldest retained entry, got %v", d.Reset)
	}
}

func TestTakeDecisionDeniedAtLimit(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	oldest := now.Add(-10 * time.Second)

	d := takeDecision(5, time.Minute, now, false, 5, oldest.UnixMilli())
	if d.Allowed {
		t.Fatalf("a full window must deny")
	}
	if d.Remaining != 0 {
		t.Fatalf("remaining at exhaustion must be 0, got %d", d.Remaining)
	}
	if !d.Reset.Equal(oldest.Add(time.Minute)) {
		t.Fatalf("denied caller must learn when the oldest entry exits, got %v", d.Reset)
	}
}

func TestTakeDecisionEmptyWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// A fresh window admits its first entry, so the script reports that entry
	// as the oldest; a negative sentinel covers the no-member reply shape.
	d := takeDecision(5, time.Minute, now, true, 0, now.UnixMilli())
	if !d.Allowed || d.Remaining != 5 {
		t.Fatalf("fresh window: got allowed=%v remaining=%d", d.Allowed, d.Remaining)
	}
	if !d.Reset.Equal(now.Add(time.Minute)) {
		t.Fatalf("fresh window reset derives from now, got %v", d.Reset)
	}

	d = takeDecision(5, time.Minute, now, true, 0, -1)
	if !d.Reset.Equal(now.Add(time.Minute)) {
		t.Fatalf("missing oldest falls back to now+window, got %v", d.Reset)
	}
}

func TestTakeDecisionCountNeverNegativeRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d := takeDecision(3, time.Minute, now, false, 7, now.UnixMilli())
	if d.Remaining != 0 {
		t.Fatalf("remaining must clamp at 0, got %d", d.Remaining)
	}
}
