package game

import "math"

// Vec2 is a position or direction in arena units. Y grows upward.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Scale returns v * s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the Euclidean length of v
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Dist returns the Euclidean distance between v and o
func (v Vec2) Dist(o Vec2) float64 {
	dx := o.X - v.X
	dy := o.Y - v.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Normalize returns v scaled to unit length. The zero vector stays zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rect is an axis-aligned area centered on the origin.
// A zero-sized Rect contains every point.
type Rect struct {
	Width, Height float64
}

// Contains reports whether p lies inside the rect (edges inclusive)
func (r Rect) Contains(p Vec2) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return true
	}
	return math.Abs(p.X) <= r.Width/2 && math.Abs(p.Y) <= r.Height/2
}
