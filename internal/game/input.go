package game

import (
	"math"
	"strings"
)

// Key is an abstract movement key. Hosts map their own key codes onto these.
type Key uint8

const (
	KeyUp Key = 1 << iota
	KeyDown
	KeyLeft
	KeyRight
)

// KeySet is the set of keys held during one tick.
type KeySet uint8

var keyNames = map[string]Key{
	"up":    KeyUp,
	"down":  KeyDown,
	"left":  KeyLeft,
	"right": KeyRight,
}

// ParseKey maps a case-insensitive key name to a Key
func ParseKey(name string) (Key, bool) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// KeySetFromNames builds a KeySet, ignoring unknown names
func KeySetFromNames(names []string) KeySet {
	var ks KeySet
	for _, n := range names {
		if k, ok := ParseKey(n); ok {
			ks = ks.With(k)
		}
	}
	return ks
}

// With returns ks plus k
func (ks KeySet) With(k Key) KeySet {
	return ks | KeySet(k)
}

// Has reports whether k is held
func (ks KeySet) Has(k Key) bool {
	return ks&KeySet(k) != 0
}

// Names returns the held keys in up/down/left/right order
func (ks KeySet) Names() []string {
	names := make([]string, 0, 4)
	for _, n := range []string{"up", "down", "left", "right"} {
		if ks.Has(keyNames[n]) {
			names = append(names, n)
		}
	}
	return names
}

// Displacement returns the player movement for one tick. Every held key adds
// speed along its axis, so two perpendicular keys move speed*sqrt(2) per
// tick unless normalize is set.
func (ks KeySet) Displacement(speed float64, normalize bool) Vec2 {
	var d Vec2
	if ks.Has(KeyUp) {
		d.Y += speed
	}
	if ks.Has(KeyDown) {
		d.Y -= speed
	}
	if ks.Has(KeyLeft) {
		d.X -= speed
	}
	if ks.Has(KeyRight) {
		d.X += speed
	}
	if normalize && d.X != 0 && d.Y != 0 {
		d = d.Scale(1 / math.Sqrt2)
	}
	return d
}
