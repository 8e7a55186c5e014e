package api

import (
	"sync"
	"testing"
	"time"
)

// TestIPRateLimiterBuckets verifies each address spends its own burst
func TestIPRateLimiterBuckets(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2, CleanupInterval: time.Hour})
	defer rl.Stop()

	for i := 0; i < 2; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Request %d should fit the burst", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Expected the third request to be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("Expected a second address to have its own bucket")
	}

	stats := rl.Stats()
	if stats.Allowed != 3 || stats.Rejected != 1 || stats.Tracked != 2 {
		t.Errorf("Expected 3 allowed, 1 rejected, 2 tracked, got %+v", stats)
	}
}

// TestIPRateLimiterSweep verifies idle buckets are dropped
func TestIPRateLimiterSweep(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Hour})
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.sweep(time.Now().Add(-time.Minute))
	if got := rl.Stats().Tracked; got != 1 {
		t.Errorf("Expected a recent bucket to survive, got %d tracked", got)
	}

	rl.sweep(time.Now().Add(time.Minute))
	if got := rl.Stats().Tracked; got != 0 {
		t.Errorf("Expected the idle bucket dropped, got %d tracked", got)
	}
}

// TestConnLimiter verifies the per-address cap and slot release
func TestConnLimiter(t *testing.T) {
	cl := NewConnLimiter(2)

	if !cl.Acquire("a") || !cl.Acquire("a") {
		t.Fatal("Expected two slots for a")
	}
	if cl.Acquire("a") {
		t.Error("Expected the third slot to be refused")
	}
	if !cl.Acquire("b") {
		t.Error("Expected b to be admitted")
	}

	cl.Release("a")
	if !cl.Acquire("a") {
		t.Error("Expected a released slot to be reusable")
	}

	cl.Release("a")
	cl.Release("a")
	cl.Release("a") // extra release is ignored
	cl.Release("b")

	stats := cl.Stats()
	if stats.Allowed != 4 || stats.Rejected != 1 || stats.Tracked != 0 {
		t.Errorf("Expected 4 allowed, 1 rejected, 0 tracked, got %+v", stats)
	}
}

// TestConnLimiterConcurrent checks the cap holds under contention
func TestConnLimiterConcurrent(t *testing.T) {
	cl := NewConnLimiter(MaxWSConnectionsPerIP)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cl.Acquire("10.0.0.1")
		}()
	}
	wg.Wait()

	stats := cl.Stats()
	if stats.Allowed != MaxWSConnectionsPerIP || stats.Rejected != 50-MaxWSConnectionsPerIP {
		t.Errorf("Expected %d admitted, got %+v", MaxWSConnectionsPerIP, stats)
	}
}
