package xraytrace

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewParallelBeamValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := NewParallelBeam(NewVector(0, 0, 0), [2]Real{1, 2}, rng); err == nil {
		t.Fatal("expected error for zero direction")
	}
	if _, err := NewParallelBeam(NewVector(1, 0, 0), [2]Real{2, 1}, rng); err == nil {
		t.Fatal("expected error for inverted energy band")
	}
}

func TestParallelBeamGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	beam, err := NewParallelBeam(NewVector(-2, 0, 0), [2]Real{0.5, 2.5}, rng)
	if err != nil {
		t.Fatal(err)
	}
	ph := beam.Generate(1000)
	if ph.Len() != 1000 {
		t.Fatalf("Len = %d, want 1000", ph.Len())
	}
	for i := 0; i < ph.Len(); i++ {
		d := ph.Dir[i]
		if !nearly(d.X, -1, eps) || !nearly(d.Len(), 1, eps) {
			t.Fatalf("row %d: direction %+v, want unit -x", i, d)
		}
		if ph.Energy[i] < 0.5 || ph.Energy[i] > 2.5 {
			t.Fatalf("row %d: energy %g outside the band", i, ph.Energy[i])
		}
		if ph.Polarization[i] < 0 || ph.Polarization[i] >= 2*math.Pi {
			t.Fatalf("row %d: polarization %g outside [0, 2pi)", i, ph.Polarization[i])
		}
		if ph.Probability[i] != 1 {
			t.Fatalf("row %d: probability %g, want 1", i, ph.Probability[i])
		}
	}
	if d := ksUniform(ph.Energy, 0.5, 2.5); d > 0.06 {
		t.Fatalf("energies not uniform over the band, KS distance %g", d)
	}
}

func TestParallelBeamMonochromatic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	beam, err := NewParallelBeam(NewVector(0, 0, 1), [2]Real{1.5, 1.5}, rng)
	if err != nil {
		t.Fatal(err)
	}
	ph := beam.Generate(10)
	for i := 0; i < ph.Len(); i++ {
		if ph.Energy[i] != 1.5 {
			t.Fatalf("row %d: energy %g, want 1.5", i, ph.Energy[i])
		}
	}
}

func TestParallelBeamSeeded(t *testing.T) {
	gen := func() *PhotonBatch {
		beam, err := NewParallelBeam(NewVector(-1, 0, 0), [2]Real{1, 2}, rand.New(rand.NewSource(99)))
		if err != nil {
			t.Fatal(err)
		}
		return beam.Generate(50)
	}
	a, b := gen(), gen()
	for i := 0; i < a.Len(); i++ {
		if a.Energy[i] != b.Energy[i] || a.Polarization[i] != b.Polarization[i] {
			t.Fatalf("row %d differs between identically seeded beams", i)
		}
	}
}
