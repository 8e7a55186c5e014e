package game

import "time"

// SpawnResult describes what one shooter did this tick.
type SpawnResult struct {
	Fired   bool        // Cooldown completed this tick
	Bullet  *BulletSlot // Acquired slot, nil when the pool was exhausted
	Dropped bool        // Fired but no slot was free
}

// Spawn ticks the gunner's cooldown and, on completion, activates one slot
// of pool at origin. At most one bullet is spawned per call however many
// periods elapsed; a shot lost to exhaustion is not retried.
func Spawn(g *Gunner, pool *BulletPool, origin Vec2, damage uint32, elapsed time.Duration) SpawnResult {
	if !g.Cooldown.Tick(elapsed) {
		return SpawnResult{}
	}

	slot, ok := pool.Acquire()
	if !ok {
		return SpawnResult{Fired: true, Dropped: true}
	}
	slot.Position = origin
	slot.Damage = damage
	return SpawnResult{Fired: true, Bullet: slot}
}
