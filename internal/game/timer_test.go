package game

import (
	"testing"
	"time"
)

// TestTimerOnce verifies a one-shot timer reports exactly once
func TestTimerOnce(t *testing.T) {
	timer := NewTimer(300*time.Millisecond, TimerOnce)

	fired := 0
	for i := 0; i < 10; i++ {
		if timer.Tick(100 * time.Millisecond) {
			fired++
			if i != 2 {
				t.Errorf("Expected to fire on tick 2, fired on %d", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("Expected 1 completion, got %d", fired)
	}
	if !timer.Finished() {
		t.Error("One-shot timer should stay finished")
	}

	timer.Reset()
	if timer.Finished() {
		t.Error("Reset should clear finished")
	}
	if timer.Remaining() != 300*time.Millisecond {
		t.Errorf("Expected full period remaining, got %v", timer.Remaining())
	}
}

// TestTimerRepeatingCarriesExcess verifies the remainder rolls into the next cycle
func TestTimerRepeatingCarriesExcess(t *testing.T) {
	timer := NewTimer(100*time.Millisecond, TimerRepeating)

	if !timer.Tick(250 * time.Millisecond) {
		t.Fatal("Expected completion on first tick")
	}
	if timer.CompletionsThisTick() != 2 {
		t.Errorf("Expected 2 completions, got %d", timer.CompletionsThisTick())
	}
	if timer.Remaining() != 50*time.Millisecond {
		t.Errorf("Expected 50ms remaining, got %v", timer.Remaining())
	}

	if !timer.Tick(50 * time.Millisecond) {
		t.Error("Expected carried excess to complete the next cycle")
	}
	if timer.CompletionsThisTick() != 1 {
		t.Errorf("Expected 1 completion, got %d", timer.CompletionsThisTick())
	}

	if timer.Tick(10 * time.Millisecond) {
		t.Error("Should not complete mid-cycle")
	}
	if timer.CompletionsThisTick() != 0 {
		t.Errorf("Expected 0 completions, got %d", timer.CompletionsThisTick())
	}
}

// TestTimerChunking verifies completions depend only on total elapsed time
func TestTimerChunking(t *testing.T) {
	tests := []struct {
		name   string
		period time.Duration
		chunks []time.Duration
		want   int
	}{
		{"ten tenths", 100 * time.Millisecond, repeat(100*time.Millisecond, 10), 10},
		{"one big tick", 100 * time.Millisecond, []time.Duration{time.Second}, 10},
		{"uneven", 100 * time.Millisecond, []time.Duration{30 * time.Millisecond, 270 * time.Millisecond, 450 * time.Millisecond, 250 * time.Millisecond}, 10},
		{"sixtieths", 500 * time.Millisecond, repeat(time.Second/60, 600), 19},
		{"partial", 1500 * time.Millisecond, repeat(100*time.Millisecond, 14), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer := NewTimer(tt.period, TimerRepeating)
			got := 0
			for _, c := range tt.chunks {
				timer.Tick(c)
				got += timer.CompletionsThisTick()
			}
			if got != tt.want {
				t.Errorf("Expected %d completions, got %d", tt.want, got)
			}
		})
	}
}

// TestTimerNegativeElapsed verifies negative input is treated as zero
func TestTimerNegativeElapsed(t *testing.T) {
	timer := NewTimer(100*time.Millisecond, TimerRepeating)
	timer.Tick(50 * time.Millisecond)

	if timer.Tick(-time.Second) {
		t.Error("Negative elapsed should not complete")
	}
	if timer.Remaining() != 50*time.Millisecond {
		t.Errorf("Expected 50ms remaining, got %v", timer.Remaining())
	}
}

// TestTimerZeroPeriod verifies a zero period fires once per tick
func TestTimerZeroPeriod(t *testing.T) {
	timer := NewTimer(0, TimerRepeating)
	for i := 0; i < 3; i++ {
		if !timer.Tick(0) {
			t.Fatalf("Tick %d: zero period should fire", i)
		}
		if timer.CompletionsThisTick() != 1 {
			t.Errorf("Expected 1 completion, got %d", timer.CompletionsThisTick())
		}
	}
}

// TestTimerIsCooldown verifies *Timer satisfies the Cooldown capability
func TestTimerIsCooldown(t *testing.T) {
	var c Cooldown = NewTimer(time.Second, TimerRepeating)
	if c.Tick(500 * time.Millisecond) {
		t.Error("Should not fire before the period")
	}
}

func repeat(d time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = d
	}
	return out
}
