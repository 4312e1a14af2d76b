package xraytrace

import "fmt"

// Sequence chains optical elements into an instrument. Pre hooks run on
// the batch before every element, Post hooks after; both see the batch
// each sub-element sees, which is also the contract MultiAperture uses
// for its grouped sub-apertures.
type Sequence struct {
	name     string
	Elements []OpticalElement
	Pre      []func(*PhotonBatch)
	Post     []func(*PhotonBatch)
}

func NewSequence(name string, elements ...OpticalElement) *Sequence {
	return &Sequence{name: name, Elements: elements}
}

func (s *Sequence) Name() string { return s.name }

func (s *Sequence) Process(ph *PhotonBatch) (*PhotonBatch, error) {
	for _, e := range s.Elements {
		for _, p := range s.Pre {
			p(ph)
		}
		out, err := e.Process(ph)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		ph = out
		for _, p := range s.Post {
			p(ph)
		}
	}
	return ph, nil
}

// splitByGroup returns per-group row indices for an assignment vector,
// preserving row order within each group.
func splitByGroup(assign []int, k int) [][]int {
	groups := make([][]int, k)
	for i, g := range assign {
		if g < 0 || g >= k {
			continue
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
