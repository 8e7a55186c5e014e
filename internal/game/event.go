package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeRoundStart
	EventTypeHit
	EventTypeDeath
	EventTypeGameOver
	EventTypeShotDropped
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`   // Schema version
	Type      EventType       `json:"type"`      // Event type
	RunID     string          `json:"runId"`     // Engine run this belongs to
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`   // Simulation tick this occurred in
	Source    string          `json:"source"`    // Entity or side that produced it (rate limit key)
	Payload   json.RawMessage `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeRoundStart:
		return "round_start"
	case EventTypeHit:
		return "hit"
	case EventTypeDeath:
		return "death"
	case EventTypeGameOver:
		return "game_over"
	case EventTypeShotDropped:
		return "shot_dropped"
	default:
		return "unknown"
	}
}

// MarshalText encodes the event type by name
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes an event type name
func (t *EventType) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, 6, t, "event type")
}

// Typed payloads for different event types

// RoundStartPayload records the rules a round started with
type RoundStartPayload struct {
	PlayerHealth uint32 `json:"playerHealth"`
	EnemyHealth  uint32 `json:"enemyHealth"`
	PlayerPool   int    `json:"playerPool"`
	EnemyPool    int    `json:"enemyPool"`
}

// HitPayload contains hit details
type HitPayload struct {
	EntityID EntityID `json:"entityId"`
	Tag      Tag      `json:"tag"`
	Damage   uint32   `json:"damage"`
	Health   uint32   `json:"health"`
	Bullet   int      `json:"bullet"`
}

// DeathPayload contains death details
type DeathPayload struct {
	EntityID EntityID `json:"entityId"`
	Tag      Tag      `json:"tag"`
}

// GameOverPayload contains the round result
type GameOverPayload struct {
	Outcome Outcome `json:"outcome"`
}

// ShotDroppedPayload counts shots lost to pool exhaustion in one tick
type ShotDroppedPayload struct {
	Tag   Tag `json:"tag"`
	Count int `json:"count"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, source string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		Source:    source,
		Payload:   EncodePayload(payload),
	}
}

// EventFromNotification converts a drained notification to a log event
func EventFromNotification(n Notification) Event {
	source := n.Tag.String()
	switch n.Kind {
	case NotifyHit:
		return NewEvent(EventTypeHit, n.Tick, source, HitPayload{
			EntityID: n.Entity,
			Tag:      n.Tag,
			Damage:   n.Damage,
			Health:   n.Health,
			Bullet:   n.Bullet,
		})
	case NotifyDeath:
		return NewEvent(EventTypeDeath, n.Tick, source, DeathPayload{EntityID: n.Entity, Tag: n.Tag})
	case NotifyGameOver:
		return NewEvent(EventTypeGameOver, n.Tick, "", GameOverPayload{Outcome: n.Outcome})
	default:
		return NewEvent(EventTypeUnknown, n.Tick, source, nil)
	}
}
