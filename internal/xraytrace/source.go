package xraytrace

import (
	"fmt"
	"math"
	"math/rand"
)

// ParallelBeam fills fresh batches with photons of a fixed direction, an
// energy drawn uniformly from a band and a uniform polarization angle.
// Positions are left at the origin; the downstream aperture assigns
// them. Energies are in keV, but the core never interprets them beyond
// passing them to efficiency lookups.
type ParallelBeam struct {
	dir    Vector4
	energy [2]Real
	rng    *rand.Rand
}

func NewParallelBeam(dir Vector4, energy [2]Real, rng *rand.Rand) (*ParallelBeam, error) {
	n := dir.Norm()
	if n.Len() == 0 {
		return nil, fmt.Errorf("beam direction must be non-zero")
	}
	if energy[1] < energy[0] {
		return nil, fmt.Errorf("energy band must be ordered, got [%g, %g]", energy[0], energy[1])
	}
	return &ParallelBeam{dir: n, energy: energy, rng: rng}, nil
}

// Generate creates a batch of n photons with unit probability.
func (s *ParallelBeam) Generate(n int) *PhotonBatch {
	ph := NewPhotonBatch(n)
	span := s.energy[1] - s.energy[0]
	for i := 0; i < n; i++ {
		ph.Dir[i] = s.dir
		ph.Energy[i] = s.energy[0] + s.rng.Float64()*span
		ph.Polarization[i] = s.rng.Float64() * 2 * math.Pi
	}
	return ph
}
