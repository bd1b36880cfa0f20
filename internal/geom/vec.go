package geom

import "math"

// Vec2 is a point or direction in arena units (y grows downward).
type Vec2 struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2               { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2               { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2          { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64            { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64                { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64                  { return math.Sqrt(v.LenSq()) }
func (v Vec2) DistSq(o Vec2) float64         { return v.Sub(o).LenSq() }
func (v Vec2) Dist(o Vec2) float64           { return v.Sub(o).Len() }
func (v Vec2) Angle() float64                { return math.Atan2(v.Y, v.X) }
func (v Vec2) IsZero() bool                  { return v.X == 0 && v.Y == 0 }
func (v Vec2) Within(o Vec2, r float64) bool { return v.DistSq(o) <= r*r }

// Normalize returns the unit vector and the original length.
// A zero vector yields (0,0) and length 0; callers pick their own fallback.
func (v Vec2) Normalize() (Vec2, float64) {
	l := v.Len()
	if l <= 0 {
		return Vec2{}, 0
	}
	return Vec2{v.X / l, v.Y / l}, l
}

// FromAngle returns a vector of length r pointing at angle a (radians).
func FromAngle(a, r float64) Vec2 {
	return Vec2{math.Cos(a) * r, math.Sin(a) * r}
}

// Clamp limits each component to [min, max] of the matching axis.
func (v Vec2) Clamp(min, max Vec2) Vec2 {
	return Vec2{clamp(v.X, min.X, max.X), clamp(v.Y, min.Y, max.Y)}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp is the scalar form used by stat and camera code.
func Clamp(x, lo, hi float64) float64 { return clamp(x, lo, hi) }

// Round rounds half toward positive infinity, the rounding the tuning tables
// were authored against.
func Round(x float64) float64 { return math.Floor(x + 0.5) }
