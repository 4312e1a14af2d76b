package xraytrace

import "math"

// intersectFlat solves the ray/plane crossing (pos + t*dir - center)·EX
// = 0 for every photon and applies the shape membership test to the
// resulting local coordinates. Rays parallel to the plane and photons
// outside the active area are misses and stay NaN-filled.
func intersectFlat(s Surface, dir []Vector4, pos []Point4) *Intersections {
	f := s.Frame()
	res := newIntersections(len(dir))
	for i := range dir {
		den := dir[i].Dot(f.EX)
		if math.Abs(den) < epsParallel {
			continue
		}
		t := -pos[i].Sub(f.Center).Dot(f.EX) / den
		p := pos[i].Add(dir[i].Mul(t))
		u, v := s.ToLocal(p)
		if !s.Inside(u, v) {
			continue
		}
		res.Hit[i] = true
		res.Pos[i] = p
		res.LocalU[i] = u
		res.LocalV[i] = v
	}
	return res
}

// projectedAreaWeight is the cosine of the incidence angle against the
// surface normal, clipped to [0, 1]. Photons coming in through the back
// would get negative weights; clipping keeps them at zero instead. This
// models the projected aperture area at oblique incidence without
// rejecting any rays.
func projectedAreaWeight(d Vector4, normal Vector4) Real {
	w := -d.Dot(normal)
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}
