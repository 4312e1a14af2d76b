package xraytrace

// OpticalElement is the uniform batch-processing contract: take a photon
// batch, return a batch of the same or filtered length with updated
// positions, probabilities and columns. Elements own their geometry but
// never the batch; all per-element state is immutable during processing.
type OpticalElement interface {
	Name() string
	Process(ph *PhotonBatch) (*PhotonBatch, error)
}

// Local-coordinate column names shared by the generic flat elements.
const (
	colLocX = "x"
	colLocY = "y"
)

// setIDColumn tags every photon with the element's id number. An empty
// column name disables tagging.
func setIDColumn(ph *PhotonBatch, col string, id int) {
	if col == "" {
		return
	}
	c := ph.Column(col)
	for i := range c {
		c[i] = Real(id)
	}
}

// recordLocals writes intersection local coordinates into the named
// columns; misses arrive as NaN and stay NaN.
func recordLocals(ph *PhotonBatch, isect *Intersections, uCol, vCol string) {
	u := ph.Column(uCol)
	v := ph.Column(vCol)
	copy(u, isect.LocalU)
	copy(v, isect.LocalV)
}
