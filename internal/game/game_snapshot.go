package game

import (
	"sync/atomic"
	"time"
)

// EntitySnapshot is an immutable copy of an entity for rendering
type EntitySnapshot struct {
	ID           EntityID `json:"id"`
	Kind         Kind     `json:"kind"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Tag          Tag      `json:"tag"`
	Health       uint32   `json:"health"`
	MaxHealth    uint32   `json:"maxHealth"`
	HitboxRadius float64  `json:"hitboxRadius"`
	Dead         bool     `json:"dead"`
	PatternIndex int      `json:"patternIndex"` // -1 without a pattern
}

// BulletSnapshot is one pool slot; inactive slots are hidden by renderers
type BulletSnapshot struct {
	Index  int     `json:"index"`
	Tag    Tag     `json:"tag"`
	Active bool    `json:"active"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// GameSnapshot is a complete immutable game state for rendering.
// Slices are pre-allocated by the pool and reused between ticks.
type GameSnapshot struct {
	Sequence   uint64        `json:"sequence"`   // Monotonic sequence for ordering
	Timestamp  time.Time     `json:"timestamp"`  // When snapshot was created
	TickNumber uint64        `json:"tickNumber"` // Simulation tick this represents
	LastDelta  time.Duration `json:"lastDelta"`  // Elapsed time of that tick

	Phase   Phase   `json:"phase"`
	Outcome Outcome `json:"outcome"`

	Entities      []EntitySnapshot `json:"entities"`
	Bullets       []BulletSnapshot `json:"bullets"`
	Notifications []Notification   `json:"notifications"` // Produced by this tick

	ActiveBullets [tagCount]int    `json:"activeBullets"`
	DroppedShots  [tagCount]uint64 `json:"droppedShots"`
}

// Clone returns a deep copy that stays valid after the pool reuses its slot
func (s *GameSnapshot) Clone() *GameSnapshot {
	c := *s
	c.Entities = append([]EntitySnapshot(nil), s.Entities...)
	c.Bullets = append([]BulletSnapshot(nil), s.Bullets...)
	c.Notifications = append([]Notification(nil), s.Notifications...)
	return &c
}

// Entity returns the first entity snapshot of kind, or false
func (s *GameSnapshot) Entity(kind Kind) (EntitySnapshot, bool) {
	for _, e := range s.Entities {
		if e.Kind == kind {
			return e, true
		}
	}
	return EntitySnapshot{}, false
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure.
// Triple buffered: the producer fills one slot while readers hold another.
type SnapshotPool struct {
	snapshots [3]GameSnapshot
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool sized for the given entity and bullet counts
func NewSnapshotPool(maxEntities, maxBullets int) *SnapshotPool {
	pool := &SnapshotPool{}

	for i := 0; i < 3; i++ {
		pool.snapshots[i] = GameSnapshot{
			Entities:      make([]EntitySnapshot, 0, maxEntities),
			Bullets:       make([]BulletSnapshot, 0, maxBullets),
			Notifications: make([]Notification, 0, 8),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot with reset slices but preserved capacity
func (p *SnapshotPool) AcquireWrite() *GameSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Entities = snap.Entities[:0]
	snap.Bullets = snap.Bullets[:0]
	snap.Notifications = snap.Notifications[:0]
	snap.ActiveBullets = [tagCount]int{}
	snap.DroppedShots = [tagCount]uint64{}
	snap.Phase = PhaseRunning
	snap.Outcome = OutcomeNone

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks the write complete and makes it the read slot
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published snapshot
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// fillSnapshot copies the world into snap
func (w *World) fillSnapshot(snap *GameSnapshot, notes []Notification) {
	snap.TickNumber = w.tick
	snap.LastDelta = w.lastDelta
	snap.Phase = w.phase
	snap.Outcome = w.outcome

	for i := range w.entities {
		e := &w.entities[i]
		if !e.live {
			continue
		}
		es := EntitySnapshot{
			ID:           e.ID,
			Kind:         e.Kind,
			X:            e.Position.X,
			Y:            e.Position.Y,
			PatternIndex: -1,
		}
		if e.Health != nil {
			es.Tag = e.Health.Tag
			es.Health = e.Health.Health
			es.MaxHealth = e.Health.MaxHealth
			es.HitboxRadius = e.Health.HitboxRadius
			es.Dead = e.Health.Dead()
		}
		if e.Pattern != nil {
			es.PatternIndex = e.Pattern.Index()
		}
		snap.Entities = append(snap.Entities, es)
	}

	for tag, pool := range w.pools {
		if pool == nil {
			continue
		}
		for i := range pool.slots {
			s := &pool.slots[i]
			snap.Bullets = append(snap.Bullets, BulletSnapshot{
				Index:  s.Index,
				Tag:    s.Tag,
				Active: s.Active,
				X:      s.Position.X,
				Y:      s.Position.Y,
			})
		}
		snap.ActiveBullets[tag] = pool.Active()
		snap.DroppedShots[tag] = pool.Dropped()
	}

	snap.Notifications = append(snap.Notifications, notes...)
}
