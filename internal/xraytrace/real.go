package xraytrace

import "math"

// Real is the scalar type used throughout the tracer.
type Real = float64

const (
	// epsParallel guards ray/surface denominators: anything smaller is a
	// ray parallel to the surface, which is a miss, not an error.
	epsParallel = 1e-12
	// epsForward is the minimum accepted ray parameter for wall hits.
	epsForward = 1e-12
	// epsFrame is the tolerance for frame orthonormality and for the
	// equal-scale requirement of circularly symmetric shapes.
	epsFrame = 1e-9
	// epsPixel flags pixel grids whose extent is not an integer multiple
	// of the pixel size.
	epsPixel = 1e-6
)

var (
	Debug = false // set to true for verbose debug output

	nan = math.NaN()
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

// angleNorm wraps an angle to (-pi, pi].
func angleNorm(a Real) Real {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
