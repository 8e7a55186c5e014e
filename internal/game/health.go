package game

// HealthRecord is the damageable state of one entity.
// Health only goes down, floors at zero, and zero is terminal.
type HealthRecord struct {
	Tag          Tag
	Health       uint32
	MaxHealth    uint32
	HitboxRadius float64
	DamagePerHit uint32 // Damage this entity's bullets deal
	dead         bool
}

// NewHealthRecord creates a record; a zero starting health is born dead
func NewHealthRecord(tag Tag, health uint32, hitboxRadius float64, damagePerHit uint32) *HealthRecord {
	return &HealthRecord{
		Tag:          tag,
		Health:       health,
		MaxHealth:    health,
		HitboxRadius: hitboxRadius,
		DamagePerHit: damagePerHit,
		dead:         health == 0,
	}
}

// ApplyDamage subtracts d without wrapping below zero.
// died is true only on the hit that brought health to zero. Damage to a
// dead record is ignored and reports the unchanged zero health.
func (h *HealthRecord) ApplyDamage(d uint32) (health uint32, died bool) {
	if h.dead {
		return h.Health, false
	}
	if d >= h.Health {
		h.Health = 0
	} else {
		h.Health -= d
	}
	if h.Health == 0 {
		h.dead = true
		return 0, true
	}
	return h.Health, false
}

// Restore refills the record to MaxHealth for a new round
func (h *HealthRecord) Restore() {
	h.Health = h.MaxHealth
	h.dead = h.MaxHealth == 0
}

// Dead reports whether the record has reached zero health
func (h *HealthRecord) Dead() bool {
	return h.dead
}

// InRange reports whether p is strictly inside the hitbox centered at center
func (h *HealthRecord) InRange(center, p Vec2) bool {
	return center.Dist(p) < h.HitboxRadius
}
