package xraytrace

// Point4 is a homogeneous position in 3-D space; W is 1 for every valid
// point. Keeping the fourth component explicit lets positions and
// directions share the affine transform code, and lets a miss be encoded
// as an all-NaN point that poisons any math done with it.
type Point4 struct {
	X, Y, Z, W Real
}

// NewPoint builds a homogeneous point from Euclidean coordinates.
func NewPoint(x, y, z Real) Point4 { return Point4{x, y, z, 1} }

// nanPoint is the miss sentinel.
func nanPoint() Point4 { return Point4{nan, nan, nan, nan} }

// Add translates the point by a direction vector.
func (p Point4) Add(v Vector4) Point4 {
	return Point4{p.X + v.X, p.Y + v.Y, p.Z + v.Z, p.W + v.W}
}

// Sub returns the direction from q to p.
func (p Point4) Sub(q Point4) Vector4 {
	return Vector4{p.X - q.X, p.Y - q.Y, p.Z - q.Z, p.W - q.W}
}

// Euclid drops the homogeneous component.
func (p Point4) Euclid() (x, y, z Real) { return p.X, p.Y, p.Z }
