package game

import "fmt"

// Tag identifies which side an entity or bullet belongs to.
// A bullet only damages health records of the other tag.
type Tag uint8

const (
	TagPlayer Tag = iota
	TagEnemy
)

// tagCount sizes per-side arrays (pools, stats)
const tagCount = 2

// String returns the lowercase side name
func (t Tag) String() string {
	switch t {
	case TagPlayer:
		return "player"
	case TagEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Opposes reports whether bullets of tag t may damage records of tag o
func (t Tag) Opposes(o Tag) bool {
	return t != o
}

// unmarshalEnum finds the value of a small named enum by its String form
func unmarshalEnum[T interface {
	~uint8
	String() string
}](text []byte, n int, out *T, what string) error {
	for i := 0; i < n; i++ {
		if v := T(i); v.String() == string(text) {
			*out = v
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, text)
}
