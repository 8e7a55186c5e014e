package game

// BulletSlot is one reusable bullet. Slots are created once with their pool
// and only ever toggled between active and inactive.
type BulletSlot struct {
	Index     int     // Position in the owning pool (stable)
	Active    bool    // Inactive slots are neither drawn nor collided
	Position  Vec2    // Meaningless while inactive
	Direction Vec2    // Unit vector, fixed when the pool is built
	Speed     float64 // Units per tick
	Tag       Tag     // Side that fired this bullet
	Damage    uint32  // Stamped from the shooter on acquire
}

// BulletProto is the template every slot of a pool starts from.
type BulletProto struct {
	Direction Vec2
	Speed     float64
	Damage    uint32
}

// BulletPool is a fixed-capacity set of bullet slots for one side.
// It never grows; running out simply drops the shot.
type BulletPool struct {
	tag     Tag
	proto   BulletProto
	slots   []BulletSlot
	active  int
	dropped uint64 // Acquire calls that found no free slot
}

// NewBulletPool creates size inactive slots tagged with tag
func NewBulletPool(tag Tag, size int, proto BulletProto) *BulletPool {
	if size < 0 {
		size = 0
	}
	proto.Direction = proto.Direction.Normalize()

	p := &BulletPool{
		tag:   tag,
		proto: proto,
		slots: make([]BulletSlot, size),
	}
	for i := range p.slots {
		p.slots[i] = BulletSlot{
			Index:     i,
			Direction: proto.Direction,
			Speed:     proto.Speed,
			Tag:       tag,
			Damage:    proto.Damage,
		}
	}
	return p
}

// Acquire activates and returns the lowest-index inactive slot.
// Returns false when every slot is active.
func (p *BulletPool) Acquire() (*BulletSlot, bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.Active {
			s.Active = true
			p.active++
			return s, true
		}
	}
	p.dropped++
	return nil, false
}

// Release returns a slot to the pool. Slots that belong to another pool or
// are already inactive are ignored.
func (p *BulletPool) Release(s *BulletSlot) {
	if !p.owns(s) || !s.Active {
		return
	}
	s.Active = false
	p.active--
}

func (p *BulletPool) owns(s *BulletSlot) bool {
	return s != nil && s.Index >= 0 && s.Index < len(p.slots) && &p.slots[s.Index] == s
}

// Slot returns the slot at index i, or nil when out of range
func (p *BulletPool) Slot(i int) *BulletSlot {
	if i < 0 || i >= len(p.slots) {
		return nil
	}
	return &p.slots[i]
}

// Slots returns a copy of every slot in index order
func (p *BulletPool) Slots() []BulletSlot {
	out := make([]BulletSlot, len(p.slots))
	copy(out, p.slots)
	return out
}

// Tag returns the side this pool fires for
func (p *BulletPool) Tag() Tag {
	return p.tag
}

// Cap returns the fixed number of slots
func (p *BulletPool) Cap() int {
	return len(p.slots)
}

// Active returns the number of slots currently in flight
func (p *BulletPool) Active() int {
	return p.active
}

// Available returns the number of slots Acquire can still hand out
func (p *BulletPool) Available() int {
	return len(p.slots) - p.active
}

// Dropped returns how many shots were lost to exhaustion
func (p *BulletPool) Dropped() uint64 {
	return p.dropped
}

// ReleaseAll deactivates every slot
func (p *BulletPool) ReleaseAll() {
	for i := range p.slots {
		p.slots[i].Active = false
	}
	p.active = 0
}
