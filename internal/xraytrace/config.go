package xraytrace

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/interp"
)

// Rotation in degrees for JSON (friendlier than radians).
type Rot3Deg struct {
	X Real `json:"x"`
	Y Real `json:"y"`
	Z Real `json:"z"`
}

func (r Rot3Deg) Radians() (x, y, z Real) {
	const k = math.Pi / 180
	return r.X * k, r.Y * k, r.Z * k
}

type SourceCfg struct {
	Direction Vector4 `json:"direction"`
	Energy    [2]Real `json:"energy"` // keV band, equal values = monochromatic
}

// EfficiencyCfg is a tabulated energy -> probability mapping, applied as
// a piecewise-linear interpolation (clamped outside the table range).
type EfficiencyCfg struct {
	Energy []Real `json:"energy"`
	Value  []Real `json:"value"`
}

func (e EfficiencyCfg) Build() (func(Real) Real, error) {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(e.Energy, e.Value); err != nil {
		return nil, fmt.Errorf("efficiency table: %w", err)
	}
	return pl.Predict, nil
}

// ElementCfg configures one optical element. All lengths are in mm; all
// angles in the JSON are degrees and converted here.
type ElementCfg struct {
	Kind         string         `json:"kind"`
	Name         string         `json:"name,omitempty"`
	Position     [3]Real        `json:"position,omitempty"`
	RotDeg       Rot3Deg        `json:"rotDeg,omitempty"`
	Orientation  []Real         `json:"orientation,omitempty"` // optional 3x3 row-major override
	Zoom         []Real         `json:"zoom,omitempty"`        // scalar or per-axis
	RInner       Real           `json:"rInner,omitempty"`
	PhiDeg       []Real         `json:"phiDeg,omitempty"`
	PhiOffsetDeg Real           `json:"phiOffsetDeg,omitempty"`
	Inside       *bool          `json:"inside,omitempty"`
	PixSize      Real           `json:"pixsize,omitempty"`
	IDCol        string         `json:"idCol,omitempty"`
	IDNum        int            `json:"idNum,omitempty"`
	Reflectivity *EfficiencyCfg `json:"reflectivity,omitempty"`
	Elements     []ElementCfg   `json:"elements,omitempty"` // multi_aperture members
}

type Config struct {
	NPhotons int          `json:"nPhotons"`
	Seed     int64        `json:"seed,omitempty"`
	Workers  int          `json:"workers,omitempty"`
	PNGOut   string       `json:"pngOut,omitempty"`
	Gamma    Real         `json:"gamma,omitempty"`
	Source   SourceCfg    `json:"source"`
	Elements []ElementCfg `json:"elements"`
}

func (c ElementCfg) frame() (*Frame, error) {
	var zoom Vector4
	switch len(c.Zoom) {
	case 0:
		zoom = Vector4{1, 1, 1, 0}
	case 1:
		zoom = Vector4{c.Zoom[0], c.Zoom[0], c.Zoom[0], 0}
	case 3:
		zoom = Vector4{c.Zoom[0], c.Zoom[1], c.Zoom[2], 0}
	default:
		return nil, fmt.Errorf("zoom must have 1 or 3 entries, got %d", len(c.Zoom))
	}

	orient := I4()
	if len(c.Orientation) != 0 {
		if len(c.Orientation) != 9 {
			return nil, fmt.Errorf("orientation must have 9 entries, got %d", len(c.Orientation))
		}
		for r := 0; r < 3; r++ {
			for q := 0; q < 3; q++ {
				orient.M[r][q] = c.Orientation[3*r+q]
			}
		}
	} else {
		orient = RotFromAngles(c.RotDeg.Radians())
	}
	return NewFrame(NewPoint(c.Position[0], c.Position[1], c.Position[2]), orient, zoom)
}

func (c ElementCfg) phi() ([2]Real, error) {
	const k = math.Pi / 180
	switch len(c.PhiDeg) {
	case 0:
		return FullCircle(), nil
	case 2:
		return [2]Real{c.PhiDeg[0] * k, c.PhiDeg[1] * k}, nil
	default:
		return [2]Real{}, fmt.Errorf("phiDeg must have 2 entries, got %d", len(c.PhiDeg))
	}
}

// Build validates and constructs the runtime element. The random source
// is threaded in here so a run can build one deterministic instrument
// per worker.
func (c ElementCfg) Build(rng *rand.Rand) (OpticalElement, error) {
	name := c.Name
	if name == "" {
		name = c.Kind
	}
	switch c.Kind {
	case "rectangle_aperture":
		f, err := c.frame()
		if err != nil {
			return nil, err
		}
		a := NewRectangleAperture(name, f, rng)
		a.IDCol, a.IDNum = c.IDCol, c.IDNum
		return a, nil

	case "circle_aperture":
		f, err := c.frame()
		if err != nil {
			return nil, err
		}
		phi, err := c.phi()
		if err != nil {
			return nil, err
		}
		a, err := NewCircleAperture(name, f, c.RInner, phi, rng)
		if err != nil {
			return nil, err
		}
		a.IDCol, a.IDNum = c.IDCol, c.IDNum
		return a, nil

	case "multi_aperture":
		subs := make([]Aperture, 0, len(c.Elements))
		for i, sc := range c.Elements {
			e, err := sc.Build(rng)
			if err != nil {
				return nil, err
			}
			ap, ok := e.(Aperture)
			if !ok {
				return nil, fmt.Errorf("multi_aperture element %d: %s is not an aperture", i, sc.Kind)
			}
			subs = append(subs, ap)
		}
		m, err := NewMultiAperture(name, subs, rng)
		if err != nil {
			return nil, err
		}
		if c.IDCol != "" {
			m.IDCol = c.IDCol
		}
		return m, nil

	case "baffle":
		f, err := c.frame()
		if err != nil {
			return nil, err
		}
		var surf Surface
		if c.RInner > 0 || len(c.PhiDeg) == 2 {
			phi, err := c.phi()
			if err != nil {
				return nil, err
			}
			surf, err = NewFlatAnnulus(f, c.RInner, phi)
			if err != nil {
				return nil, err
			}
		} else {
			surf = NewFlatRectangle(f)
		}
		b := NewBaffle(name, surf)
		b.IDCol, b.IDNum = c.IDCol, c.IDNum
		return b, nil

	case "mirror":
		f, err := c.frame()
		if err != nil {
			return nil, err
		}
		var refl func(Real) Real
		if c.Reflectivity != nil {
			refl, err = c.Reflectivity.Build()
			if err != nil {
				return nil, err
			}
		}
		m := NewFlatMirror(name, f, refl)
		m.IDCol, m.IDNum = c.IDCol, c.IDNum
		return m, nil

	case "flat_detector":
		f, err := c.frame()
		if err != nil {
			return nil, err
		}
		pixsize := c.PixSize
		if pixsize == 0 {
			pixsize = 1
		}
		d, err := NewFlatDetector(name, f, pixsize)
		if err != nil {
			return nil, err
		}
		d.IDCol, d.IDNum = c.IDCol, c.IDNum
		return d, nil

	case "circular_detector":
		f, err := c.frame()
		if err != nil {
			return nil, err
		}
		inner := true
		if c.Inside != nil {
			inner = *c.Inside
		}
		d, err := NewCircularDetector(name, f, inner, c.PhiOffsetDeg*math.Pi/180, c.PixSize)
		if err != nil {
			return nil, err
		}
		d.IDCol, d.IDNum = c.IDCol, c.IDNum
		return d, nil
	}
	return nil, fmt.Errorf("unknown element kind %q", c.Kind)
}

// BuildInstrument constructs the whole element chain with one random
// source.
func (cfg *Config) BuildInstrument(rng *rand.Rand) (*Sequence, error) {
	elems := make([]OpticalElement, 0, len(cfg.Elements))
	for i, ec := range cfg.Elements {
		e, err := ec.Build(rng)
		if err != nil {
			return nil, fmt.Errorf("element %d (%s): %w", i, ec.Kind, err)
		}
		elems = append(elems, e)
	}
	return NewSequence("instrument", elems...), nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults / validation
	if cfg.NPhotons <= 0 {
		cfg.NPhotons = 100_000
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = 1
	}
	if cfg.Source.Direction.Len() == 0 {
		return nil, fmt.Errorf("config has no source direction")
	}
	if len(cfg.Elements) == 0 {
		return nil, fmt.Errorf("config has no elements")
	}
	DebugLog("Loaded config from %s: %d photons, seed=%d, %d elements", path, cfg.NPhotons, cfg.Seed, len(cfg.Elements))
	return &cfg, nil
}
