package game

import "time"

// moveBullets advances every active bullet by direction*speed and releases
// the ones that left the arena. Returns the number released.
func moveBullets(pool *BulletPool, bounds Rect) int {
	culled := 0
	for i := range pool.slots {
		s := &pool.slots[i]
		if !s.Active {
			continue
		}
		s.Position = s.Position.Add(s.Direction.Scale(s.Speed))
		if !bounds.Contains(s.Position) {
			pool.Release(s)
			culled++
		}
	}
	return culled
}

// movePlayer applies held keys to the entity position
func movePlayer(e *Entity, keys KeySet, normalize bool) {
	e.Position = e.Position.Add(keys.Displacement(e.Speed, normalize))
}

// movePatterned ticks the pattern first, then moves by its current velocity.
// Position changes every tick; only the velocity choice waits on the timer.
func movePatterned(e *Entity, elapsed time.Duration) {
	e.Pattern.Tick(elapsed)
	e.Position.X += e.Pattern.Velocity() * e.Speed
}
