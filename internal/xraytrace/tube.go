package xraytrace

import "math"

// Tube is a cylindrical wall: the circle of radius SX (== SY) in the
// EX/EY plane swept along the EZ axis over the axial range [-SZ, SZ].
// Local coordinates are (phi, z/SZ) with phi measured from EX toward EY
// and shifted by PhiOffset.
type Tube struct {
	frame *Frame
	// Inner selects which side of the wall photons strike: the concave
	// inner surface (far root along the ray) or the convex outer one.
	Inner     bool
	PhiOffset Real
}

func NewTube(f *Frame, inner bool, phiOffset Real) (*Tube, error) {
	if math.Abs(f.SX-f.SY) > epsFrame {
		return nil, geometryErrorf("tube does not have the same size in x, y direction: %g vs %g", f.SX, f.SY)
	}
	return &Tube{frame: f, Inner: inner, PhiOffset: phiOffset}, nil
}

func (t *Tube) Frame() *Frame { return t.frame }
func (t *Tube) Radius() Real  { return t.frame.SX }

func (t *Tube) ToGlobal(u, v Real) Point4 {
	f := t.frame
	phi := u - t.PhiOffset
	r := t.Radius()
	p := f.Center.Add(f.EX.Mul(r * math.Cos(phi)))
	p = p.Add(f.EY.Mul(r * math.Sin(phi)))
	return p.Add(f.EZ.Mul(v * f.SZ))
}

func (t *Tube) ToLocal(p Point4) (u, v Real) {
	x, y, z := t.frame.pointLocal(p)
	return angleNorm(math.Atan2(y, x) + t.PhiOffset), z / t.frame.SZ
}

// Inside only bounds the axial coordinate; the angle is periodic.
func (t *Tube) Inside(u, v Real) bool {
	return math.Abs(v) <= 1
}

// Intersect solves the ray/cylinder quadratic for every photon. Root
// selection: with the roots ordered t1 <= t2, an inner-surface tube
// takes t2 (the wall the ray reaches travelling from the inside out),
// an outer-surface tube takes the first root in the forward range. A
// negative discriminant, a ray with no radial direction component, or a
// selected crossing outside the axial extent are all misses.
func (t *Tube) Intersect(dir []Vector4, pos []Point4) *Intersections {
	f := t.frame
	r := t.Radius()
	res := newIntersections(len(dir))
	for i := range dir {
		dx, dy, dz := f.dirLocal(dir[i])
		ox, oy, oz := f.pointLocal(pos[i])

		a := dx*dx + dy*dy
		if a < epsParallel*epsParallel {
			// no radial motion; cannot cross the wall
			continue
		}
		b := 2 * (ox*dx + oy*dy)
		c := ox*ox + oy*oy - r*r
		disc := b*b - 4*a*c
		if disc < 0 {
			continue
		}
		sq := math.Sqrt(disc)
		inv2a := 1 / (2 * a)
		t1 := (-b - sq) * inv2a
		t2 := (-b + sq) * inv2a

		var tt Real
		if t.Inner {
			tt = t2
		} else {
			tt = t1
			if tt <= epsForward {
				tt = t2
			}
		}
		if tt <= epsForward {
			continue
		}
		z := oz + tt*dz
		if math.Abs(z) > f.SZ {
			continue
		}

		res.Hit[i] = true
		res.Pos[i] = pos[i].Add(dir[i].Mul(tt))
		res.LocalU[i] = angleNorm(math.Atan2(oy+tt*dy, ox+tt*dx) + t.PhiOffset)
		res.LocalV[i] = z / f.SZ
	}
	return res
}
