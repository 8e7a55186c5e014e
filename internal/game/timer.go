package game

import "time"

// TimerMode selects whether a Timer stops or rolls over when it finishes.
type TimerMode uint8

const (
	TimerOnce TimerMode = iota
	TimerRepeating
)

// Cooldown is anything that can gate an action on elapsed time.
// Tick reports whether the action may happen this tick.
type Cooldown interface {
	Tick(elapsed time.Duration) bool
}

// Timer is a restartable countdown driven by per-tick elapsed time.
// Durations are integer nanoseconds, so equal totals always produce the
// same number of completions however the ticks are chunked.
type Timer struct {
	period  time.Duration
	mode    TimerMode
	elapsed time.Duration

	finished    bool
	completions int // Whole periods crossed by the last Tick
}

// NewTimer creates a timer that completes after period
func NewTimer(period time.Duration, mode TimerMode) *Timer {
	if period < 0 {
		period = 0
	}
	return &Timer{period: period, mode: mode}
}

// Tick advances the timer by elapsed and returns true on the tick the
// countdown reaches zero. Repeating timers carry the excess into the next
// cycle; one-shot timers stay finished and never report again until Reset.
func (t *Timer) Tick(elapsed time.Duration) bool {
	if elapsed < 0 {
		elapsed = 0
	}
	t.completions = 0

	if t.mode == TimerOnce {
		if t.finished {
			return false
		}
		t.elapsed += elapsed
		if t.elapsed >= t.period {
			t.elapsed = t.period
			t.finished = true
			t.completions = 1
			return true
		}
		return false
	}

	// A zero period fires every tick, once
	if t.period == 0 {
		t.finished = true
		t.completions = 1
		return true
	}

	t.elapsed += elapsed
	if t.elapsed < t.period {
		t.finished = false
		return false
	}

	t.completions = int(t.elapsed / t.period)
	t.elapsed %= t.period
	t.finished = true
	return true
}

// CompletionsThisTick returns how many periods the last Tick crossed.
// Only repeating timers can report more than one.
func (t *Timer) CompletionsThisTick() int {
	return t.completions
}

// Finished reports whether the last Tick completed the timer
// (one-shot timers stay finished).
func (t *Timer) Finished() bool {
	return t.finished
}

// Remaining returns the time left in the current cycle
func (t *Timer) Remaining() time.Duration {
	return t.period - t.elapsed
}

// Period returns the timer period
func (t *Timer) Period() time.Duration {
	return t.period
}

// Reset restarts the countdown from a full period
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.completions = 0
}
