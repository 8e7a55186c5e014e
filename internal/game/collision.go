package game

// hit is one resolved bullet impact
type hit struct {
	target *Entity
	bullet *BulletSlot
	health uint32
	died   bool
}

// resolveCollisions tests every active bullet of pool against the living
// health records of the other side, in arena order. The first record in
// range takes the damage and the bullet is released; a bullet never damages
// more than one record. Dead records are not tested at all.
func resolveCollisions(pool *BulletPool, entities []Entity, onHit func(hit)) {
	for i := range pool.slots {
		b := &pool.slots[i]
		if !b.Active {
			continue
		}
		for j := range entities {
			target := &entities[j]
			if !target.live || target.Health == nil {
				continue
			}
			h := target.Health
			if h.Dead() || !b.Tag.Opposes(h.Tag) {
				continue
			}
			if !h.InRange(target.Position, b.Position) {
				continue
			}

			health, died := h.ApplyDamage(b.Damage)
			pool.Release(b)
			onHit(hit{target: target, bullet: b, health: health, died: died})
			break
		}
	}
}
