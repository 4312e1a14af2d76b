package xraytrace

import "math"

// Vector4 is a homogeneous direction (not a position); W is 0 for every
// valid direction.
type Vector4 struct {
	X, Y, Z, W Real
}

// NewVector builds a homogeneous direction from Euclidean components.
func NewVector(x, y, z Real) Vector4 { return Vector4{x, y, z, 0} }

// Vector functions
func (a Vector4) Add(b Vector4) Vector4 { return Vector4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W} }
func (a Vector4) Sub(b Vector4) Vector4 { return Vector4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W} }
func (v Vector4) Mul(s Real) Vector4    { return Vector4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

// Dot returns the dot product between two directions.
func (a Vector4) Dot(b Vector4) Real {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Len returns the Euclidean length of the vector.
func (v Vector4) Len() Real { return math.Sqrt(v.Dot(v)) }

// Norm returns a unit-length version of the vector.
func (v Vector4) Norm() Vector4 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vector4{v.X / l, v.Y / l, v.Z / l, v.W / l}
}

// Reflect mirrors the vector about the plane with unit normal n.
func (v Vector4) Reflect(n Vector4) Vector4 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}
