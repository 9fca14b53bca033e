package vmath

import "math"

// Vec2 is a 2-D vector in raster units
type Vec2 struct {
	X, Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the Euclidean length
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsFinite reports whether neither component is NaN or Inf
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Normalize returns the unit vector of v and its length
// Vectors shorter than eps yield the zero vector with ok=false
func Normalize(v Vec2, eps float64) (unit Vec2, length float64, ok bool) {
	length = v.Len()
	if length < eps {
		return Vec2{}, length, false
	}
	return Vec2{v.X / length, v.Y / length}, length, true
}
