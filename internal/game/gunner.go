package game

import "time"

// Gunner is the firing capability of an entity: its side and the cooldown
// that gates each shot.
type Gunner struct {
	Tag      Tag
	Cooldown Cooldown
}

// NewGunner creates a gunner whose cooldown repeats every period
func NewGunner(tag Tag, period time.Duration) *Gunner {
	return &Gunner{
		Tag:      tag,
		Cooldown: NewTimer(period, TimerRepeating),
	}
}
