package game

import (
	"fmt"
	"time"

	"bullet-hell/internal/config"
)

// EntityID is a stable handle into the world's entity table.
type EntityID uint32

// Kind is the role of an entity in the arena.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemy
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, 2, k, "kind")
}

// Entity is one simulation participant. Optional capabilities are nil when
// the entity does not have them.
type Entity struct {
	ID       EntityID
	Kind     Kind
	Position Vec2
	Speed    float64

	Health  *HealthRecord
	Gunner  *Gunner
	Pattern *MovementPattern

	live bool // Slot in use
}

// EntitySpec describes an entity to spawn.
type EntitySpec struct {
	Kind     Kind
	Position Vec2
	Speed    float64
	Health   *HealthRecord
	Gunner   *Gunner
	Pattern  *MovementPattern
}

// Phase is the world's lifecycle state.
type Phase uint8

const (
	PhaseRunning Phase = iota
	PhaseGameOver
)

// String returns the phase name
func (p Phase) String() string {
	if p == PhaseGameOver {
		return "game_over"
	}
	return "running"
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name
func (p *Phase) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, 2, p, "phase")
}

// Outcome is who won once the world is over.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomePlayerWon
	OutcomeEnemyWon
	OutcomeDraw
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomePlayerWon:
		return "player_won"
	case OutcomeEnemyWon:
		return "enemy_won"
	case OutcomeDraw:
		return "draw"
	default:
		return "none"
	}
}

// MarshalText encodes the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name
func (o *Outcome) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, 4, o, "outcome")
}

// SingletonError is the panic value raised when a query for "the" player or
// "the" enemy finds zero or several.
type SingletonError struct {
	Kind  Kind
	Count int
}

func (e *SingletonError) Error() string {
	return fmt.Sprintf("expected exactly one %s entity, found %d", e.Kind, e.Count)
}

// TickStats summarizes one tick.
type TickStats struct {
	Tick    uint64        `json:"tick"`
	Elapsed time.Duration `json:"elapsed"`
	Spawned [tagCount]int `json:"spawned"`
	Dropped [tagCount]int `json:"dropped"`
	Culled  int           `json:"culled"`
	Hits    int           `json:"hits"`
	Deaths  int           `json:"deaths"`
	Active  [tagCount]int `json:"active"`
	Phase   Phase         `json:"phase"`
	Skipped bool          `json:"skipped"` // World was already over
}

// World owns every piece of mutable simulation state. It is not safe for
// concurrent use; callers run one Tick at a time.
type World struct {
	rules *config.RulesConfig

	entities []Entity
	pools    [tagCount]*BulletPool

	bounds            Rect
	normalizeDiagonal bool

	tick      uint64
	lastDelta time.Duration
	phase     Phase
	outcome   Outcome
	pending   []Notification
}

// NewWorld builds the arena described by rules: one player, one enemy and a
// bullet pool per side.
func NewWorld(rules config.RulesConfig) *World {
	w := NewBareWorld(rules.Simulation)
	w.rules = &rules
	w.populate()
	return w
}

// NewBareWorld creates a world with no entities and no pools
func NewBareWorld(sim config.SimulationConfig) *World {
	return &World{
		bounds:            Rect{Width: sim.ArenaWidth, Height: sim.ArenaHeight},
		normalizeDiagonal: sim.NormalizeDiagonal,
		pending:           make([]Notification, 0, 8),
	}
}

func (w *World) populate() {
	r := w.rules

	w.SetPool(NewBulletPool(TagPlayer, r.Player.PoolSize, bulletProto(r.Player)))
	w.SetPool(NewBulletPool(TagEnemy, r.Enemy.PoolSize, bulletProto(r.Enemy)))

	w.Spawn(EntitySpec{
		Kind:     KindPlayer,
		Position: Vec2{r.Player.StartX, r.Player.StartY},
		Speed:    r.Player.Speed,
		Health:   NewHealthRecord(TagPlayer, r.Player.Health, r.Player.HitboxRadius, r.Player.Damage),
		Gunner:   NewGunner(TagPlayer, r.Player.Cooldown),
	})
	w.Spawn(EntitySpec{
		Kind:     KindEnemy,
		Position: Vec2{r.Enemy.StartX, r.Enemy.StartY},
		Speed:    r.Enemy.Speed,
		Health:   NewHealthRecord(TagEnemy, r.Enemy.Health, r.Enemy.HitboxRadius, r.Enemy.Damage),
		Gunner:   NewGunner(TagEnemy, r.Enemy.Cooldown),
		Pattern:  NewMovementPattern(r.Pattern.Velocities, r.Pattern.Period),
	})
}

func bulletProto(s config.ShooterConfig) BulletProto {
	return BulletProto{
		Direction: Vec2{s.BulletDirX, s.BulletDirY},
		Speed:     s.BulletSpeed,
		Damage:    s.Damage,
	}
}

// SetPool installs the bullet pool for the pool's side, replacing any other
func (w *World) SetPool(p *BulletPool) {
	w.pools[p.Tag()] = p
}

// Pool returns the bullet pool of a side, or nil
func (w *World) Pool(tag Tag) *BulletPool {
	if int(tag) >= tagCount {
		return nil
	}
	return w.pools[tag]
}

// Spawn adds an entity, reusing the first free slot of the table
func (w *World) Spawn(spec EntitySpec) EntityID {
	e := Entity{
		Kind:     spec.Kind,
		Position: spec.Position,
		Speed:    spec.Speed,
		Health:   spec.Health,
		Gunner:   spec.Gunner,
		Pattern:  spec.Pattern,
		live:     true,
	}
	for i := range w.entities {
		if !w.entities[i].live {
			e.ID = EntityID(i)
			w.entities[i] = e
			return e.ID
		}
	}
	e.ID = EntityID(len(w.entities))
	w.entities = append(w.entities, e)
	return e.ID
}

// Despawn frees an entity slot. Its ID may be reused by a later Spawn.
func (w *World) Despawn(id EntityID) {
	if e := w.Entity(id); e != nil {
		*e = Entity{ID: id}
	}
}

// Entity returns the live entity with id, or nil
func (w *World) Entity(id EntityID) *Entity {
	if int(id) >= len(w.entities) || !w.entities[id].live {
		return nil
	}
	return &w.entities[id]
}

// Entities calls fn for each live entity in table order
func (w *World) Entities(fn func(*Entity)) {
	for i := range w.entities {
		if w.entities[i].live {
			fn(&w.entities[i])
		}
	}
}

// Player returns the single player entity. It panics with *SingletonError
// when there is not exactly one.
func (w *World) Player() *Entity {
	return w.single(KindPlayer)
}

// Enemy returns the single enemy entity. It panics with *SingletonError
// when there is not exactly one.
func (w *World) Enemy() *Entity {
	return w.single(KindEnemy)
}

func (w *World) single(kind Kind) *Entity {
	var found *Entity
	count := 0
	for i := range w.entities {
		if w.entities[i].live && w.entities[i].Kind == kind {
			found = &w.entities[i]
			count++
		}
	}
	if count != 1 {
		panic(&SingletonError{Kind: kind, Count: count})
	}
	return found
}

// Tick advances the simulation by elapsed with keys held. The steps run in
// a fixed order: player input, spawning, kinematics, collision. A bullet
// spawned this tick has already moved once before it is tested.
func (w *World) Tick(elapsed time.Duration, keys KeySet) TickStats {
	if elapsed < 0 {
		elapsed = 0
	}
	if w.phase == PhaseGameOver {
		return TickStats{Tick: w.tick, Phase: w.phase, Skipped: true}
	}

	w.tick++
	w.lastDelta = elapsed
	stats := TickStats{Tick: w.tick, Elapsed: elapsed}

	// Input
	for i := range w.entities {
		e := &w.entities[i]
		if e.live && e.Kind == KindPlayer {
			movePlayer(e, keys, w.normalizeDiagonal)
		}
	}

	// Spawn
	for i := range w.entities {
		e := &w.entities[i]
		if !e.live || e.Gunner == nil {
			continue
		}
		pool := w.pools[e.Gunner.Tag]
		if pool == nil {
			continue
		}
		damage := pool.proto.Damage
		if e.Health != nil {
			damage = e.Health.DamagePerHit
		}
		res := Spawn(e.Gunner, pool, e.Position, damage, elapsed)
		if res.Bullet != nil {
			stats.Spawned[e.Gunner.Tag]++
		}
		if res.Dropped {
			stats.Dropped[e.Gunner.Tag]++
		}
	}

	// Kinematics
	for _, pool := range w.pools {
		if pool != nil {
			stats.Culled += moveBullets(pool, w.bounds)
		}
	}
	for i := range w.entities {
		e := &w.entities[i]
		if e.live && e.Pattern != nil {
			movePatterned(e, elapsed)
		}
	}

	// Collision
	for _, pool := range w.pools {
		if pool == nil {
			continue
		}
		resolveCollisions(pool, w.entities, func(h hit) {
			stats.Hits++
			w.notify(Notification{
				Kind:   NotifyHit,
				Entity: h.target.ID,
				Tag:    h.target.Health.Tag,
				Health: h.health,
				Damage: h.bullet.Damage,
				Bullet: h.bullet.Index,
			})
			if h.died {
				stats.Deaths++
				w.notify(Notification{
					Kind:   NotifyDeath,
					Entity: h.target.ID,
					Tag:    h.target.Health.Tag,
					Bullet: h.bullet.Index,
				})
			}
		})
	}

	if stats.Deaths > 0 {
		w.checkGameOver()
	}

	for tag, pool := range w.pools {
		if pool != nil {
			stats.Active[tag] = pool.Active()
		}
	}
	stats.Phase = w.phase
	return stats
}

// checkGameOver ends the round once a side has no living health record
func (w *World) checkGameOver() {
	var total, dead [tagCount]int
	for i := range w.entities {
		e := &w.entities[i]
		if !e.live || e.Health == nil || int(e.Health.Tag) >= tagCount {
			continue
		}
		total[e.Health.Tag]++
		if e.Health.Dead() {
			dead[e.Health.Tag]++
		}
	}

	playerOut := total[TagPlayer] > 0 && dead[TagPlayer] == total[TagPlayer]
	enemyOut := total[TagEnemy] > 0 && dead[TagEnemy] == total[TagEnemy]

	switch {
	case playerOut && enemyOut:
		w.outcome = OutcomeDraw
	case playerOut:
		w.outcome = OutcomeEnemyWon
	case enemyOut:
		w.outcome = OutcomePlayerWon
	default:
		return
	}
	w.phase = PhaseGameOver
	w.notify(Notification{Kind: NotifyGameOver, Bullet: -1, Outcome: w.outcome})
}

func (w *World) notify(n Notification) {
	n.Tick = w.tick
	w.pending = append(w.pending, n)
}

// Drain returns the notifications queued since the last Drain
func (w *World) Drain() []Notification {
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]Notification, len(w.pending))
	copy(out, w.pending)
	w.pending = w.pending[:0]
	return out
}

// Reset starts a new round. Worlds built from rules are rebuilt from them;
// bare worlds keep their entities, refill their health and clear bullets.
func (w *World) Reset() {
	w.tick = 0
	w.lastDelta = 0
	w.phase = PhaseRunning
	w.outcome = OutcomeNone
	w.pending = w.pending[:0]

	if w.rules == nil {
		for i := range w.entities {
			if h := w.entities[i].Health; h != nil {
				h.Restore()
			}
		}
		for _, pool := range w.pools {
			if pool != nil {
				pool.ReleaseAll()
			}
		}
		return
	}

	w.entities = w.entities[:0]
	w.pools = [tagCount]*BulletPool{}
	w.populate()
}

// Phase returns whether the round is still running
func (w *World) Phase() Phase {
	return w.phase
}

// Outcome returns the round result (OutcomeNone while running)
func (w *World) Outcome() Outcome {
	return w.outcome
}

// TickCount returns the number of simulated ticks this round
func (w *World) TickCount() uint64 {
	return w.tick
}

// LastDelta returns the elapsed time passed to the latest Tick
func (w *World) LastDelta() time.Duration {
	return w.lastDelta
}
