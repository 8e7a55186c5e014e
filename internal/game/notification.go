package game

// NotificationKind distinguishes what happened to a health record.
type NotificationKind uint8

const (
	NotifyHit NotificationKind = iota
	NotifyDeath
	NotifyGameOver
)

// String returns the kind name used in logs and JSON
func (k NotificationKind) String() string {
	switch k {
	case NotifyHit:
		return "hit"
	case NotifyDeath:
		return "death"
	case NotifyGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name
func (k NotificationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *NotificationKind) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, 3, k, "notification kind")
}

// Notification is queued by the simulation and drained by the host after
// each tick. Hit carries the new health; Death follows the Hit that caused it.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Tick    uint64           `json:"tick"`
	Entity  EntityID         `json:"entity"`
	Tag     Tag              `json:"tag"`
	Health  uint32           `json:"health"`
	Damage  uint32           `json:"damage,omitempty"`
	Bullet  int              `json:"bullet"`            // Slot index of the bullet, -1 if none
	Outcome Outcome          `json:"outcome,omitempty"` // Set on NotifyGameOver
}

// MarshalText encodes the tag by name
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tag name
func (t *Tag) UnmarshalText(text []byte) error {
	return unmarshalEnum(text, tagCount, t, "tag")
}
