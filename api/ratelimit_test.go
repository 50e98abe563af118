package api

import (
	"testing"
	"time"
)

func TestRateLimiterRefillsPerKey(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(60, 1, time.Hour)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") {
		t.Fatal("Expected first request to pass")
	}
	if rl.allow("a") {
		t.Fatal("Expected second request within the same instant to be limited")
	}
	if !rl.allow("b") {
		t.Fatal("Expected a different caller to have its own bucket")
	}

	now = now.Add(time.Second)
	if !rl.allow("a") {
		t.Error("Expected the bucket to refill after one second at 60 rpm")
	}
}

func TestRateLimiterForgetsIdleCallers(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, 1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.allow("idle")
	now = now.Add(2 * time.Minute)
	rl.allow("active")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.limiters["idle"]; ok {
		t.Error("Expected idle caller to be swept")
	}
	if len(rl.limiters) != 1 {
		t.Errorf("Expected 1 tracked caller, got %d", len(rl.limiters))
	}
}
