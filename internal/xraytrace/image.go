package xraytrace

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// DetectorImage accumulates photon probabilities into the detector's
// pixel grid. Pixel indices are rounded to the nearest pixel; photons
// with NaN indices (misses) or indices outside the grid are skipped.
// The result is indexed [y][x].
func DetectorImage(ph *PhotonBatch, det *FlatDetector) [][]Real {
	nx, ny := det.NPix[0], det.NPix[1]
	img := make([][]Real, ny)
	for j := range img {
		img[j] = make([]Real, nx)
	}
	if !ph.HasColumn(colDetPixX) || !ph.HasColumn(colDetPixY) {
		return img
	}
	px := ph.Extra[colDetPixX]
	py := ph.Extra[colDetPixY]
	for i := 0; i < ph.Len(); i++ {
		x := math.Round(px[i])
		y := math.Round(py[i])
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		ix, iy := int(x), int(y)
		if ix < 0 || ix >= nx || iy < 0 || iy >= ny {
			continue
		}
		img[iy][ix] += ph.Probability[i]
	}
	return img
}

// SaveDetectorPNG writes a count map as a 16-bit grayscale PNG
// (lossless; the only quantization is the float -> 16-bit mapping with
// max-normalization and gamma).
func SaveDetectorPNG(counts [][]Real, path string, gamma Real) error {
	ny := len(counts)
	if ny == 0 {
		return fmt.Errorf("empty detector image")
	}
	nx := len(counts[0])

	maxv := 0.0
	for _, row := range counts {
		for _, v := range row {
			if v > maxv {
				maxv = v
			}
		}
	}
	if maxv == 0 {
		maxv = 1 // image will be black
	}
	scale := 1 / maxv

	toU16 := func(v Real) uint16 {
		if v <= 0 {
			return 0
		}
		n := v * scale
		if n > 1 {
			n = 1
		}
		if gamma != 1 {
			n = math.Pow(n, 1.0/gamma)
		}
		return uint16(math.Round(n * 65535.0))
	}

	img := image.NewGray16(image.Rect(0, 0, nx, ny))
	for j := 0; j < ny; j++ {
		y := ny - 1 - j // flip so +v points up
		rowOff := y * img.Stride
		for i := 0; i < nx; i++ {
			g := toU16(counts[j][i])
			p := rowOff + i*2
			// Gray16 stores big-endian uint16.
			img.Pix[p+0] = uint8(g >> 8)
			img.Pix[p+1] = uint8(g)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
