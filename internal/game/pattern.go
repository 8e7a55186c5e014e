package game

import "time"

// MovementPattern is a cyclic sequence of horizontal velocities.
// The index moves one step per advance-timer completion, while the
// current velocity is applied every tick by the kinematics step.
type MovementPattern struct {
	velocities []float64
	index      int
	advance    *Timer
}

// NewMovementPattern copies velocities and steps through them every period
func NewMovementPattern(velocities []float64, period time.Duration) *MovementPattern {
	v := make([]float64, len(velocities))
	copy(v, velocities)
	return &MovementPattern{
		velocities: v,
		advance:    NewTimer(period, TimerRepeating),
	}
}

// Tick advances the pattern timer and steps the index once per completion.
// Returns true if the index moved.
func (p *MovementPattern) Tick(elapsed time.Duration) bool {
	if !p.advance.Tick(elapsed) || len(p.velocities) == 0 {
		return false
	}
	p.index = (p.index + p.advance.CompletionsThisTick()) % len(p.velocities)
	return true
}

// Velocity returns the velocity at the current index (0 for an empty pattern)
func (p *MovementPattern) Velocity() float64 {
	if len(p.velocities) == 0 {
		return 0
	}
	return p.velocities[p.index]
}

// Index returns the current position in the sequence
func (p *MovementPattern) Index() int {
	return p.index
}

// Len returns the number of steps in the sequence
func (p *MovementPattern) Len() int {
	return len(p.velocities)
}

// Reset rewinds the pattern to its first step and restarts the timer
func (p *MovementPattern) Reset() {
	p.index = 0
	p.advance.Reset()
}
