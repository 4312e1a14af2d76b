package xraytrace

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GeometryError reports a shape invariant violated at construction time:
// a non-orthonormal basis, or unequal scales on a circularly symmetric
// shape. It is fatal to the element's construction.
type GeometryError struct {
	Msg string
}

func (e *GeometryError) Error() string { return e.Msg }

func geometryErrorf(format string, args ...interface{}) error {
	return &GeometryError{Msg: fmt.Sprintf(format, args...)}
}

// Frame is an element's local reference frame: an origin plus three
// mutually orthogonal unit basis vectors with independent scale factors.
// EX is the surface normal of flat shapes; EZ carries the tube axis.
// A frame is immutable after construction; repositioning an element
// means building a new frame.
type Frame struct {
	Center     Point4
	EX, EY, EZ Vector4 // unit basis
	VX, VY, VZ Vector4 // scaled basis, EX*SX etc.
	SX, SY, SZ Real
}

// NewFrame builds a frame from a position, an orientation and a per-axis
// zoom. The orientation maps local axes to global ones, so its columns
// are the basis directions; it must be a proper rotation.
func NewFrame(center Point4, orient Mat4, zoom Vector4) (*Frame, error) {
	if !(zoom.X > 0 && zoom.Y > 0 && zoom.Z > 0) {
		return nil, fmt.Errorf("zoom must be > 0 on all axes, got (%g, %g, %g)", zoom.X, zoom.Y, zoom.Z)
	}
	r := mat.NewDense(3, 3, []float64{
		orient.M[0][0], orient.M[0][1], orient.M[0][2],
		orient.M[1][0], orient.M[1][1], orient.M[1][2],
		orient.M[2][0], orient.M[2][1], orient.M[2][2],
	})
	var rtr mat.Dense
	rtr.Mul(r.T(), r)
	var resid mat.Dense
	resid.Sub(&rtr, eye3())
	if n := mat.Norm(&resid, 2); n > epsFrame {
		return nil, geometryErrorf("orientation is not orthonormal (residual %.3g)", n)
	}
	if d := mat.Det(r); d < 0 {
		return nil, geometryErrorf("orientation is left-handed (det %.3g)", d)
	}

	f := &Frame{
		Center: center,
		EX:     Vector4{orient.M[0][0], orient.M[1][0], orient.M[2][0], 0},
		EY:     Vector4{orient.M[0][1], orient.M[1][1], orient.M[2][1], 0},
		EZ:     Vector4{orient.M[0][2], orient.M[1][2], orient.M[2][2], 0},
		SX:     zoom.X,
		SY:     zoom.Y,
		SZ:     zoom.Z,
	}
	f.VX = f.EX.Mul(f.SX)
	f.VY = f.EY.Mul(f.SY)
	f.VZ = f.EZ.Mul(f.SZ)
	DebugLog("Created frame center=%+v zoom=(%g, %g, %g)", center, f.SX, f.SY, f.SZ)
	return f, nil
}

// DefaultFrame is the identity frame: origin, global axes, unit zoom.
func DefaultFrame() *Frame {
	f, err := NewFrame(NewPoint(0, 0, 0), I4(), Vector4{1, 1, 1, 0})
	if err != nil {
		panic(err)
	}
	return f
}

func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

// ToGlobal maps flat local coordinates (mm along EY and EZ) to a point.
func (f *Frame) ToGlobal(u, v Real) Point4 {
	return f.Center.Add(f.EY.Mul(u)).Add(f.EZ.Mul(v))
}

// ToLocal projects a global point onto the EY/EZ in-plane coordinates.
func (f *Frame) ToLocal(p Point4) (u, v Real) {
	d := p.Sub(f.Center)
	return d.Dot(f.EY), d.Dot(f.EZ)
}

// pointLocal expresses a global point in all three frame axes.
func (f *Frame) pointLocal(p Point4) (x, y, z Real) {
	d := p.Sub(f.Center)
	return d.Dot(f.EX), d.Dot(f.EY), d.Dot(f.EZ)
}

// dirLocal expresses a global direction in frame axes.
func (f *Frame) dirLocal(v Vector4) (x, y, z Real) {
	return v.Dot(f.EX), v.Dot(f.EY), v.Dot(f.EZ)
}

// Intersections holds per-photon intersection results. A miss carries a
// NaN point and NaN local coordinates so the downstream pixel math and
// column writes need no per-photon branching.
type Intersections struct {
	Hit    []bool
	Pos    []Point4
	LocalU []Real
	LocalV []Real
}

func newIntersections(n int) *Intersections {
	res := &Intersections{
		Hit:    make([]bool, n),
		Pos:    make([]Point4, n),
		LocalU: make([]Real, n),
		LocalV: make([]Real, n),
	}
	for i := 0; i < n; i++ {
		res.Pos[i] = nanPoint()
		res.LocalU[i] = nan
		res.LocalV[i] = nan
	}
	return res
}

// Surface is the closed set of analytic element surfaces, selected at
// construction time. Local coordinates (u, v) are mm along EY/EZ for
// flat surfaces and (angle, axial fraction) for tubes.
type Surface interface {
	Frame() *Frame
	ToGlobal(u, v Real) Point4
	ToLocal(p Point4) (u, v Real)
	Inside(u, v Real) bool
	Intersect(dir []Vector4, pos []Point4) *Intersections
}

// FlatRectangle is the full rectangular footprint spanned by the scaled
// EY/EZ basis.
type FlatRectangle struct {
	frame *Frame
}

func NewFlatRectangle(f *Frame) *FlatRectangle { return &FlatRectangle{frame: f} }

func (s *FlatRectangle) Frame() *Frame               { return s.frame }
func (s *FlatRectangle) ToGlobal(u, v Real) Point4   { return s.frame.ToGlobal(u, v) }
func (s *FlatRectangle) ToLocal(p Point4) (Real, Real) { return s.frame.ToLocal(p) }

func (s *FlatRectangle) Inside(u, v Real) bool {
	return math.Abs(u) <= s.frame.SY && math.Abs(v) <= s.frame.SZ
}

func (s *FlatRectangle) Intersect(dir []Vector4, pos []Point4) *Intersections {
	return intersectFlat(s, dir, pos)
}

// FlatAnnulus is a disk with an optional hole and optional angular
// bounds: r_inner <= r <= SY and phi in [Phi[0], Phi[1]), where phi is
// measured from EY toward EZ and the range wraps through zero when
// Phi[1] < Phi[0].
type FlatAnnulus struct {
	frame  *Frame
	RInner Real
	Phi    [2]Real
}

// FullCircle is the angular range of an unrestricted annulus.
func FullCircle() [2]Real { return [2]Real{0, 2 * math.Pi} }

func NewFlatAnnulus(f *Frame, rInner Real, phi [2]Real) (*FlatAnnulus, error) {
	if math.Abs(f.SY-f.SZ) > epsFrame {
		return nil, geometryErrorf("annulus does not have the same size in y, z direction: %g vs %g", f.SY, f.SZ)
	}
	if rInner < 0 {
		return nil, fmt.Errorf("r_inner must be >= 0, got %g", rInner)
	}
	if rInner >= f.SY {
		return nil, fmt.Errorf("r_inner (%g) must be less than size of full aperture (%g)", rInner, f.SY)
	}
	return &FlatAnnulus{frame: f, RInner: rInner, Phi: phi}, nil
}

func (s *FlatAnnulus) Frame() *Frame                 { return s.frame }
func (s *FlatAnnulus) ToGlobal(u, v Real) Point4     { return s.frame.ToGlobal(u, v) }
func (s *FlatAnnulus) ToLocal(p Point4) (Real, Real) { return s.frame.ToLocal(p) }

func (s *FlatAnnulus) Inside(u, v Real) bool {
	r := math.Hypot(u, v)
	if r < s.RInner || r > s.frame.SY {
		return false
	}
	width := s.Phi[1] - s.Phi[0]
	if width < 0 {
		width += 2 * math.Pi
	}
	if width >= 2*math.Pi {
		return true
	}
	d := math.Mod(math.Atan2(v, u)-s.Phi[0], 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d < width
}

func (s *FlatAnnulus) Intersect(dir []Vector4, pos []Point4) *Intersections {
	return intersectFlat(s, dir, pos)
}
