package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 3; i++ {
		if !rl.Allow("ip1", 3, time.Minute) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("ip1", 3, time.Minute) {
		t.Error("request over limit should be denied")
	}

	// Other keys have their own budget.
	if !rl.Allow("ip2", 3, time.Minute) {
		t.Error("separate key should be allowed")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter()

	if !rl.Allow("ip1", 1, time.Millisecond) {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("ip1", 1, time.Millisecond) {
		t.Fatal("second request in window should be denied")
	}

	time.Sleep(5 * time.Millisecond)
	if !rl.Allow("ip1", 1, time.Millisecond) {
		t.Error("request after window expiry should be allowed")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	rl.Allow("stale", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	rl.Cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.entries) != 0 {
		t.Errorf("expected expired entries removed, got %d", len(rl.entries))
	}
}

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	if got := RealIP(r); got != "10.0.0.1" {
		t.Errorf("RealIP = %q, want %q", got, "10.0.0.1")
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := RealIP(r); got != "203.0.113.9" {
		t.Errorf("RealIP with XFF = %q, want %q", got, "203.0.113.9")
	}
}
