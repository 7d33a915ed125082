package analytics

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter := newRateLimiter(2, 200*time.Millisecond)
	defer limiter.stop()
	key := "203.0.113.10"

	if !limiter.allow(key) {
		t.Fatalf("expected first request to be allowed")
	}
	if !limiter.allow(key) {
		t.Fatalf("expected second request to be allowed")
	}
	if limiter.allow(key) {
		t.Fatalf("expected third request to be blocked")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter := newRateLimiter(1, 150*time.Millisecond)
	defer limiter.stop()
	key := "visitor|slug"

	if !limiter.allow(key) {
		t.Fatalf("expected first request to be allowed")
	}
	if limiter.allow(key) {
		t.Fatalf("expected second request to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.allow(key) {
		t.Fatalf("expected request after window to be allowed")
	}
}

func TestRateLimiterIsPerKey(t *testing.T) {
	limiter := newRateLimiter(1, 200*time.Millisecond)
	defer limiter.stop()

	if !limiter.allow("a") {
		t.Fatalf("expected first key to be allowed")
	}
	if !limiter.allow("b") {
		t.Fatalf("expected second key to be allowed independently")
	}
	if limiter.allow("a") {
		t.Fatalf("expected first key to be blocked after max")
	}
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	limiter := newRateLimiter(1, time.Second)
	limiter.stop()
	limiter.stop()
}
