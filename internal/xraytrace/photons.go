package xraytrace

import "fmt"

// PhotonBatch is a struct-of-arrays photon table: every optical element
// consumes one and returns one of the same or shorter length. The core
// columns are fixed; element-specific scalar columns (detector
// coordinates, pixel indices, id tags) live in Extra.
//
// Invariants: Pos[i].W == 1 and Dir[i].W == 0 for every row, and
// Probability[i] stays in [0, 1]. Misses never shrink a column; they are
// written as NaN so downstream math propagates them without branching.
type PhotonBatch struct {
	Pos          []Point4
	Dir          []Vector4
	Energy       []Real
	Polarization []Real
	Probability  []Real
	Extra        map[string][]Real
}

// NewPhotonBatch allocates a batch of n photons at the origin with unit
// probability and zero direction.
func NewPhotonBatch(n int) *PhotonBatch {
	ph := &PhotonBatch{
		Pos:          make([]Point4, n),
		Dir:          make([]Vector4, n),
		Energy:       make([]Real, n),
		Polarization: make([]Real, n),
		Probability:  make([]Real, n),
		Extra:        make(map[string][]Real),
	}
	for i := 0; i < n; i++ {
		ph.Pos[i] = Point4{0, 0, 0, 1}
		ph.Probability[i] = 1
	}
	return ph
}

func (ph *PhotonBatch) Len() int { return len(ph.Probability) }

// Column returns the named extra column, creating it NaN-filled if it
// does not exist yet.
func (ph *PhotonBatch) Column(name string) []Real {
	if c, ok := ph.Extra[name]; ok {
		return c
	}
	c := make([]Real, ph.Len())
	for i := range c {
		c[i] = nan
	}
	ph.Extra[name] = c
	return c
}

func (ph *PhotonBatch) HasColumn(name string) bool {
	_, ok := ph.Extra[name]
	return ok
}

// Select returns a new batch containing the given rows, in order.
func (ph *PhotonBatch) Select(idx []int) *PhotonBatch {
	out := &PhotonBatch{
		Pos:          make([]Point4, len(idx)),
		Dir:          make([]Vector4, len(idx)),
		Energy:       make([]Real, len(idx)),
		Polarization: make([]Real, len(idx)),
		Probability:  make([]Real, len(idx)),
		Extra:        make(map[string][]Real, len(ph.Extra)),
	}
	for j, i := range idx {
		out.Pos[j] = ph.Pos[i]
		out.Dir[j] = ph.Dir[i]
		out.Energy[j] = ph.Energy[i]
		out.Polarization[j] = ph.Polarization[i]
		out.Probability[j] = ph.Probability[i]
	}
	for name, c := range ph.Extra {
		oc := make([]Real, len(idx))
		for j, i := range idx {
			oc[j] = c[i]
		}
		out.Extra[name] = oc
	}
	return out
}

// Concat stacks batches row-wise. Extra column sets may differ between
// parts: a column present in only some parts is NaN-filled for the rows
// of the parts that lack it, and a column carried by several parts is
// concatenated like any other. Core columns must all have the part's row
// count or the merge fails.
func Concat(parts ...*PhotonBatch) (*PhotonBatch, error) {
	total := 0
	names := map[string]bool{}
	for pi, p := range parts {
		if p == nil {
			return nil, fmt.Errorf("concat: part %d is nil", pi)
		}
		n := p.Len()
		if len(p.Pos) != n || len(p.Dir) != n || len(p.Energy) != n || len(p.Polarization) != n {
			return nil, fmt.Errorf("concat: part %d has inconsistent core column lengths", pi)
		}
		for name, c := range p.Extra {
			if len(c) != n {
				return nil, fmt.Errorf("concat: part %d column %q has %d rows, want %d", pi, name, len(c), n)
			}
			names[name] = true
		}
		total += n
	}

	out := NewPhotonBatch(total)
	for name := range names {
		out.Column(name)
	}
	row := 0
	for _, p := range parts {
		n := p.Len()
		copy(out.Pos[row:], p.Pos)
		copy(out.Dir[row:], p.Dir)
		copy(out.Energy[row:], p.Energy)
		copy(out.Polarization[row:], p.Polarization)
		copy(out.Probability[row:], p.Probability)
		for name := range names {
			if c, ok := p.Extra[name]; ok {
				copy(out.Extra[name][row:], c)
			}
		}
		row += n
	}
	return out, nil
}
