package xraytrace

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-10

func nearly(a, b, tol Real) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= tol
}

func mustFrame(t *testing.T, center Point4, orient Mat4, zoom Vector4) *Frame {
	t.Helper()
	f, err := NewFrame(center, orient, zoom)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	return f
}

func TestNewFrameValidation(t *testing.T) {
	// Scaled basis is not orthonormal.
	bad := I4()
	bad.M[0][0] = 2
	_, err := NewFrame(NewPoint(0, 0, 0), bad, Vector4{1, 1, 1, 0})
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GeometryError for non-orthonormal basis, got %v", err)
	}

	// Left-handed basis.
	refl := I4()
	refl.M[2][2] = -1
	_, err = NewFrame(NewPoint(0, 0, 0), refl, Vector4{1, 1, 1, 0})
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GeometryError for left-handed basis, got %v", err)
	}

	// Zoom must be positive.
	if _, err := NewFrame(NewPoint(0, 0, 0), I4(), Vector4{1, 0, 1, 0}); err == nil {
		t.Fatal("expected error for zero zoom")
	}

	// A rotation passes.
	if _, err := NewFrame(NewPoint(1, 2, 3), RotFromAngles(0.3, -0.7, 1.1), Vector4{1, 10, 5, 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	orients := []Mat4{
		I4(),
		RotFromAngles(math.Pi/2, 0, 0),
		RotFromAngles(0.3, -0.7, 1.1),
		RotFromAngles(-1.2, 0.4, 2.9),
	}
	coords := [][2]Real{{0, 0}, {1, -2}, {-0.3, 0.7}, {5, 5}}
	for _, o := range orients {
		f := mustFrame(t, NewPoint(1, -2, 0.5), o, Vector4{1, 3, 2, 0})
		for _, c := range coords {
			p := f.ToGlobal(c[0], c[1])
			u, v := f.ToLocal(p)
			if !nearly(u, c[0], eps) || !nearly(v, c[1], eps) {
				t.Fatalf("round trip (%g, %g) -> (%g, %g)", c[0], c[1], u, v)
			}
			if !nearly(p.W, 1, eps) {
				t.Fatalf("point lost homogeneous component: %+v", p)
			}
		}
	}
}

func TestFlatRectangleInside(t *testing.T) {
	f := mustFrame(t, NewPoint(0, 0, 0), I4(), Vector4{1, 10, 5, 0})
	s := NewFlatRectangle(f)
	cases := []struct {
		u, v Real
		want bool
	}{
		{0, 0, true},
		{10, 5, true},
		{9.9, -4.9, true},
		{10.1, 0, false},
		{0, -5.1, false},
	}
	for _, c := range cases {
		if got := s.Inside(c.u, c.v); got != c.want {
			t.Fatalf("Inside(%g, %g) = %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

func TestFlatAnnulusValidation(t *testing.T) {
	f := mustFrame(t, NewPoint(0, 0, 0), I4(), Vector4{1, 2, 2, 0})

	if _, err := NewFlatAnnulus(f, 2.5, FullCircle()); err == nil {
		t.Fatal("expected error for r_inner larger than aperture")
	}
	if _, err := NewFlatAnnulus(f, -0.1, FullCircle()); err == nil {
		t.Fatal("expected error for negative r_inner")
	}

	asym := mustFrame(t, NewPoint(0, 0, 0), I4(), Vector4{1, 2, 3, 0})
	_, err := NewFlatAnnulus(asym, 0, FullCircle())
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GeometryError for asymmetric scale, got %v", err)
	}
}

func TestFlatAnnulusInside(t *testing.T) {
	f := mustFrame(t, NewPoint(0, 0, 0), I4(), Vector4{1, 2, 2, 0})
	s, err := NewFlatAnnulus(f, 1, FullCircle())
	if err != nil {
		t.Fatal(err)
	}
	if s.Inside(0.5, 0) {
		t.Fatal("point inside the hole accepted")
	}
	if !s.Inside(1.5, 0) || !s.Inside(0, -1.5) {
		t.Fatal("point in the ring rejected")
	}
	if s.Inside(2.1, 0) {
		t.Fatal("point outside the ring accepted")
	}
}

func TestFlatAnnulusAngularWrap(t *testing.T) {
	f := mustFrame(t, NewPoint(0, 0, 0), I4(), Vector4{1, 2, 2, 0})
	// Sector from 5.5 rad through zero to 0.5 rad.
	s, err := NewFlatAnnulus(f, 0, [2]Real{5.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	inAngles := []Real{5.6, 6.0, 0.0, 0.2, 0.49}
	outAngles := []Real{0.51, 1.0, math.Pi, 5.4}
	for _, a := range inAngles {
		if !s.Inside(math.Cos(a), math.Sin(a)) {
			t.Fatalf("angle %g should be inside the wrapped sector", a)
		}
	}
	for _, a := range outAngles {
		if s.Inside(math.Cos(a), math.Sin(a)) {
			t.Fatalf("angle %g should be outside the wrapped sector", a)
		}
	}
}

func TestTubeValidation(t *testing.T) {
	f := mustFrame(t, NewPoint(0, 0, 0), I4(), Vector4{1, 2, 1, 0})
	_, err := NewTube(f, true, 0)
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GeometryError for asymmetric tube scale, got %v", err)
	}
}

func TestTubeRoundTrip(t *testing.T) {
	f := mustFrame(t, NewPoint(0.8, 0.8, 1.2), RotFromAngles(0.2, 0, -0.4), Vector4{1.5, 1.5, 2, 0})
	tube, err := NewTube(f, true, -math.Pi/3)
	if err != nil {
		t.Fatal(err)
	}
	coords := [][2]Real{{0, 0}, {1.2, 0.5}, {-2.7, -0.9}}
	for _, c := range coords {
		p := tube.ToGlobal(c[0], c[1])
		u, v := tube.ToLocal(p)
		if !nearly(u, angleNorm(c[0]), eps) || !nearly(v, c[1], eps) {
			t.Fatalf("tube round trip (%g, %g) -> (%g, %g)", c[0], c[1], u, v)
		}
	}
}
