package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Luminance weights used by Grayscale. They sum to 0.9999, so re-applying
// Grayscale to gray pixels never moves a value by more than 0.03 before rounding.
const (
	lumaR = 0.2989
	lumaG = 0.5870
	lumaB = 0.1140
)

// Grayscale reduces an RGB grid to a single luminance channel.
//
// Each output sample is round(0.2989*R + 0.5870*G + 0.1140*B) clamped to
// [0, 255]. The result has the same dimensions as the input and is computed
// row-parallel; every row writes only its own slice of the output.
func Grayscale(src *RGBGrid) *ScalarGrid {
	dst := NewScalarGrid(src.Width, src.Height)
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * src.Width
			for x := 0; x < src.Width; x++ {
				dst.Pix[row+x] = luminance(src.Pix[row+x])
			}
		}
	})
	return dst
}

func luminance(c RGB) int {
	v := lumaR*float64(c.R) + lumaG*float64(c.G) + lumaB*float64(c.B)
	return clamp(roundHalfUp(v), 0, 255)
}

// roundHalfUp rounds to the nearest integer, sending exact halves towards
// positive infinity (-2.5 -> -2, 2.5 -> 3).
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
