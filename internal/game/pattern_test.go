package game

import (
	"testing"
	"time"

	"bullet-hell/internal/config"
)

// TestPatternCycles verifies the index wraps back to 0 after len advances
func TestPatternCycles(t *testing.T) {
	def := config.DefaultPattern()
	p := NewMovementPattern(def.Velocities, def.Period)

	if p.Len() != 8 {
		t.Fatalf("Expected 8 steps, got %d", p.Len())
	}

	seen := make([]float64, 0, 8)
	for i := 0; i < 8; i++ {
		seen = append(seen, p.Velocity())
		if !p.Tick(def.Period) {
			t.Fatalf("Advance %d: expected index to move", i)
		}
	}
	if p.Index() != 0 {
		t.Errorf("Expected index 0 after 8 advances, got %d", p.Index())
	}
	for i, v := range def.Velocities {
		if seen[i] != v {
			t.Errorf("Step %d: expected velocity %v, got %v", i, v, seen[i])
		}
	}
}

// TestPatternWaitsForTimer verifies the index holds between completions
func TestPatternWaitsForTimer(t *testing.T) {
	p := NewMovementPattern([]float64{-1, 0, 1}, 1500*time.Millisecond)

	for i := 0; i < 14; i++ {
		p.Tick(100 * time.Millisecond)
	}
	if p.Index() != 0 {
		t.Errorf("Expected index 0 after 1.4s, got %d", p.Index())
	}
	p.Tick(100 * time.Millisecond)
	if p.Index() != 1 {
		t.Errorf("Expected index 1 after 1.5s, got %d", p.Index())
	}
}

// TestPatternMultipleAdvances verifies a long tick steps once per completion
func TestPatternMultipleAdvances(t *testing.T) {
	p := NewMovementPattern([]float64{1, 2, 3}, time.Second)
	p.Tick(4 * time.Second)
	if p.Index() != 1 {
		t.Errorf("Expected index 1 after 4 advances over 3 steps, got %d", p.Index())
	}

	p.Reset()
	if p.Index() != 0 {
		t.Errorf("Expected index 0 after reset, got %d", p.Index())
	}
}

// TestPatternEmpty verifies an empty pattern stands still
func TestPatternEmpty(t *testing.T) {
	p := NewMovementPattern(nil, time.Second)
	if p.Tick(2 * time.Second) {
		t.Error("Empty pattern should never advance")
	}
	if p.Velocity() != 0 {
		t.Errorf("Expected velocity 0, got %v", p.Velocity())
	}
}

// TestPatternCopiesVelocities verifies the caller's slice is not aliased
func TestPatternCopiesVelocities(t *testing.T) {
	v := []float64{5, 6}
	p := NewMovementPattern(v, time.Second)
	v[0] = 99
	if p.Velocity() != 5 {
		t.Errorf("Expected velocity 5, got %v", p.Velocity())
	}
}
