package xraytrace

// FlatMirror reflects photons specularly about its surface normal and
// scales their probability with a reflectivity looked up by photon
// energy. The reflectivity mapping is precomputed outside the core
// (tabulated efficiency files); a nil mapping is a perfect mirror.
// Photons that miss the mirror footprint continue unchanged.
type FlatMirror struct {
	name         string
	surf         *FlatRectangle
	Reflectivity func(energy Real) Real
	IDCol        string
	IDNum        int
}

func NewFlatMirror(name string, f *Frame, reflectivity func(Real) Real) *FlatMirror {
	return &FlatMirror{name: name, surf: NewFlatRectangle(f), Reflectivity: reflectivity}
}

func (m *FlatMirror) Name() string { return m.name }

func (m *FlatMirror) Process(ph *PhotonBatch) (*PhotonBatch, error) {
	f := m.surf.frame
	isect := m.surf.Intersect(ph.Dir, ph.Pos)
	setIDColumn(ph, m.IDCol, m.IDNum)
	recordLocals(ph, isect, colLocX, colLocY)
	hits, misses := 0, 0
	for i := 0; i < ph.Len(); i++ {
		if !isect.Hit[i] {
			misses++
			continue
		}
		hits++
		ph.Pos[i] = isect.Pos[i]
		ph.Dir[i] = ph.Dir[i].Reflect(f.EX)
		if m.Reflectivity != nil {
			ph.Probability[i] *= m.Reflectivity(ph.Energy[i])
		}
	}
	countEvents(m.name, hits, misses)
	return ph, nil
}
