package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

var (
	sobelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// GradientField holds the signed Sobel responses of an image.
//
// XGrad and YGrad are unclamped (a hard 0|255 step gives ±1020) and are the
// input for direction estimates. Magnitude is the display-range combination
// used for thresholding.
type GradientField struct {
	XGrad     *ScalarGrid
	YGrad     *ScalarGrid
	Magnitude *ScalarGrid
}

// Sobel computes x/y gradients and the gradient magnitude of a grid.
//
// Only interior pixels are processed; the one-pixel border of every output
// grid stays 0, so grids narrower or shorter than 3 pixels produce all-zero
// output. The magnitude is
//
//	min(255, ceil(hypot(min(|gx|, 255), min(|gy|, 255))))
func Sobel(src *ScalarGrid) *GradientField {
	w, h := src.Width, src.Height
	field := &GradientField{
		XGrad:     NewScalarGrid(w, h),
		YGrad:     NewScalarGrid(w, h),
		Magnitude: NewScalarGrid(w, h),
	}
	if w < 3 || h < 3 {
		return field
	}

	parallel.Line(h-2, func(start, end int) {
		for y := start + 1; y < end+1; y++ {
			for x := 1; x < w-1; x++ {
				var gx, gy int
				for ky := 0; ky < 3; ky++ {
					for kx := 0; kx < 3; kx++ {
						v := src.Pix[(y+ky-1)*w+(x+kx-1)]
						gx += v * sobelX[ky][kx]
						gy += v * sobelY[ky][kx]
					}
				}
				i := y*w + x
				field.XGrad.Pix[i] = gx
				field.YGrad.Pix[i] = gy
				field.Magnitude.Pix[i] = gradientMagnitude(gx, gy)
			}
		}
	})
	return field
}

func gradientMagnitude(gx, gy int) int {
	ax := min(absInt(gx), 255)
	ay := min(absInt(gy), 255)
	m := int(math.Ceil(math.Hypot(float64(ax), float64(ay))))
	return min(m, 255)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
