// Package scene implements the "triangle source" collaborator: a camera
// and mesh pipeline that projects 3D geometry into the screen-space,
// fixed-point vertices the rasterizer core consumes. Everything in this
// package is float64 — it sits entirely outside the fixed-point core,
// the way free-form triangle generation is outside the core's defined
// scope.
package scene

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Zero3 returns the zero vector.
func Zero3() Vec3 { return Vec3{} }

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Dot returns the dot product a . b.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns the cross product a x b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 { return math.Sqrt(a.Dot(a)) }

// Normalize returns the unit vector in the same direction.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Vec4 is a homogeneous 4D vector: either a Vec3 with an explicit W, or
// (as Plane uses it) a plane equation Ax+By+Cz+D=0 packed as (A,B,C,D).
type Vec4 struct {
	X, Y, Z, W float64
}

// V4FromV3 creates a Vec4 from a Vec3 with the given W.
func V4FromV3(v Vec3, w float64) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4) Vec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Dot returns the dot product a . b.
func (a Vec4) Dot(b Vec4) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W }
