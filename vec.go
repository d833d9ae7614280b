package linemesh

import "math"

// Vec2 is a direction or offset in tile units. Segment normals, join
// bisectors and vertex extrusions are all Vec2 values; normals and
// extrusions are unit length or scaled from unit length.
type Vec2 struct {
	X, Y float64
}

// V2 returns the vector (x, y).
func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(w Vec2) Vec2    { return Vec2{X: v.X + w.X, Y: v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2    { return Vec2{X: v.X - w.X, Y: v.Y - w.Y} }
func (v Vec2) Mul(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }
func (v Vec2) Neg() Vec2          { return Vec2{X: -v.X, Y: -v.Y} }
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// Cross is the z component of the 3D cross product. In tile coordinates
// (y down) it is positive when w turns clockwise from v.
func (v Vec2) Cross(w Vec2) float64 { return v.X*w.Y - v.Y*w.X }

func (v Vec2) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Unit returns v scaled to length 1, or the zero vector for a zero v.
func (v Vec2) Unit() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Perp returns v rotated by +90 degrees: the left-hand normal of a
// direction in math orientation.
func (v Vec2) Perp() Vec2 { return Vec2{X: -v.Y, Y: v.X} }

// Rotate returns v rotated by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sin(angle), math.Cos(angle)
	return Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Angle returns the signed angle from v to w, in (-π, π].
func (v Vec2) Angle(w Vec2) float64 {
	return math.Atan2(v.Cross(w), v.Dot(w))
}

// Approx reports whether v and w differ by less than eps on both axes.
func (v Vec2) Approx(w Vec2, eps float64) bool {
	return math.Abs(v.X-w.X) < eps && math.Abs(v.Y-w.Y) < eps
}
