package xraytrace

import (
	"fmt"
	"math"
)

// Column names written by detectors.
const (
	colDetX     = "det_x"
	colDetY     = "det_y"
	colDetPixX  = "detpix_x"
	colDetPixY  = "detpix_y"
	colDetPhi   = "detcirc_phi"
	colDetAxial = "detcirc_y"
)

// FlatDetector records ray crossings of a flat rectangle and maps them
// to discrete pixel indices. It is a terminal element: photons that miss
// the active area keep flowing with NaN detector columns so downstream
// aggregation can filter on isnan.
type FlatDetector struct {
	name    string
	surf    *FlatRectangle
	PixSize Real
	// Pixel grid derived from the frame scale, axis order (y, z).
	NPix      [2]int
	CenterPix [2]Real
	// NonIntegerPixels is set when the detector extent is not an integer
	// multiple of the pixel size; the grid is still built with the
	// rounded count.
	NonIntegerPixels bool
	IDCol            string
	IDNum            int
}

func NewFlatDetector(name string, f *Frame, pixsize Real) (*FlatDetector, error) {
	if !(pixsize > 0) {
		return nil, fmt.Errorf("pixsize must be > 0, got %g", pixsize)
	}
	d := &FlatDetector{name: name, surf: NewFlatRectangle(f), PixSize: pixsize}
	for axis, s := range [2]Real{f.SY, f.SZ} {
		n := 2 * s / pixsize
		// Round, don't floor: the extent/pixsize ratio is frequently a
		// hair under the intended integer in floating point, and a floor
		// here loses the last pixel.
		np := math.Round(n)
		if math.Abs(n-np) > epsPixel {
			d.NonIntegerPixels = true
			DebugLog("detector %s: extent %g is not an integer multiple of pixsize %g", name, 2*s, pixsize)
		}
		d.NPix[axis] = int(np)
		d.CenterPix[axis] = (np - 1) / 2
	}
	return d, nil
}

func (d *FlatDetector) Name() string { return d.name }

func (d *FlatDetector) Process(ph *PhotonBatch) (*PhotonBatch, error) {
	isect := d.surf.Intersect(ph.Dir, ph.Pos)
	setIDColumn(ph, d.IDCol, d.IDNum)
	recordLocals(ph, isect, colDetX, colDetY)
	px := ph.Column(colDetPixX)
	py := ph.Column(colDetPixY)
	hits, misses := 0, 0
	for i := 0; i < ph.Len(); i++ {
		if isect.Hit[i] {
			ph.Pos[i] = isect.Pos[i]
			hits++
		} else {
			misses++
		}
		// NaN local coordinates propagate into NaN pixel indices.
		px[i] = isect.LocalU[i]/d.PixSize + d.CenterPix[0]
		py[i] = isect.LocalV[i]/d.PixSize + d.CenterPix[1]
	}
	countEvents(d.name, hits, misses)
	return ph, nil
}

// CircularDetector records ray crossings of a cylindrical tube wall in
// (angle, axial) coordinates. With a positive pixsize it also pixelates
// the unrolled wall: arc length along the circumference against the
// axial position, both in mm.
type CircularDetector struct {
	name    string
	tube    *Tube
	PixSize Real
	// Pixel grid over the unrolled wall, axis order (phi*R, z).
	NPix             [2]int
	CenterPix        [2]Real
	NonIntegerPixels bool
	IDCol            string
	IDNum            int
}

func NewCircularDetector(name string, f *Frame, inner bool, phiOffset, pixsize Real) (*CircularDetector, error) {
	tube, err := NewTube(f, inner, phiOffset)
	if err != nil {
		return nil, err
	}
	d := &CircularDetector{name: name, tube: tube, PixSize: pixsize}
	if pixsize < 0 {
		return nil, fmt.Errorf("pixsize must be >= 0, got %g", pixsize)
	}
	if pixsize > 0 {
		// Half-extents: half the circumference along phi, SZ along z.
		for axis, s := range [2]Real{math.Pi * tube.Radius(), f.SZ} {
			n := 2 * s / pixsize
			np := math.Round(n)
			if math.Abs(n-np) > epsPixel {
				d.NonIntegerPixels = true
				DebugLog("detector %s: extent %g is not an integer multiple of pixsize %g", name, 2*s, pixsize)
			}
			d.NPix[axis] = int(np)
			d.CenterPix[axis] = (np - 1) / 2
		}
	}
	return d, nil
}

func (d *CircularDetector) Name() string { return d.name }

// Intersect exposes the underlying tube intersection.
func (d *CircularDetector) Intersect(dir []Vector4, pos []Point4) *Intersections {
	return d.tube.Intersect(dir, pos)
}

func (d *CircularDetector) Process(ph *PhotonBatch) (*PhotonBatch, error) {
	isect := d.tube.Intersect(ph.Dir, ph.Pos)
	setIDColumn(ph, d.IDCol, d.IDNum)
	recordLocals(ph, isect, colDetPhi, colDetAxial)
	var px, py []Real
	if d.PixSize > 0 {
		px = ph.Column(colDetPixX)
		py = ph.Column(colDetPixY)
	}
	r := d.tube.Radius()
	sz := d.tube.frame.SZ
	hits, misses := 0, 0
	for i := 0; i < ph.Len(); i++ {
		if isect.Hit[i] {
			ph.Pos[i] = isect.Pos[i]
			hits++
		} else {
			misses++
		}
		if px != nil {
			px[i] = isect.LocalU[i]*r/d.PixSize + d.CenterPix[0]
			py[i] = isect.LocalV[i]*sz/d.PixSize + d.CenterPix[1]
		}
	}
	countEvents(d.name, hits, misses)
	return ph, nil
}
