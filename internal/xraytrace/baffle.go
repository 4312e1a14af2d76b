package xraytrace

// Baffle is a flat obstruction with an opening. Photons crossing the
// opening continue from the crossing point; photons hitting the plate
// around it (or flying parallel to the plane) keep their row but get
// probability zero, so the batch length never changes.
type Baffle struct {
	name  string
	surf  Surface
	IDCol string
	IDNum int
}

// NewBaffle wraps any flat surface as the opening shape.
func NewBaffle(name string, surf Surface) *Baffle {
	return &Baffle{name: name, surf: surf}
}

func (b *Baffle) Name() string { return b.name }

func (b *Baffle) Process(ph *PhotonBatch) (*PhotonBatch, error) {
	isect := b.surf.Intersect(ph.Dir, ph.Pos)
	setIDColumn(ph, b.IDCol, b.IDNum)
	recordLocals(ph, isect, colLocX, colLocY)
	hits, misses := 0, 0
	for i := 0; i < ph.Len(); i++ {
		if isect.Hit[i] {
			ph.Pos[i] = isect.Pos[i]
			hits++
		} else {
			ph.Probability[i] = 0
			misses++
		}
	}
	countEvents(b.name, hits, misses)
	return ph, nil
}
