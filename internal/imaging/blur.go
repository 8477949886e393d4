package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"gonum.org/v1/gonum/floats"
)

// GaussianSigma is the fixed standard deviation of the smoothing kernel.
const GaussianSigma = 1.4

// GaussianKernel returns a normalised 1D Gaussian kernel of the given size.
//
// The kernel samples exp(-x²/2σ²) with σ = GaussianSigma at the integer
// offsets -(size/2) ... -(size/2)+size-1, which is symmetric around zero for
// odd sizes, and is scaled so its weights sum to 1. A non-positive size
// yields nil.
func GaussianKernel(size int) []float64 {
	if size <= 0 {
		return nil
	}
	kernel := make([]float64, size)
	first := -(size / 2)
	for i := range kernel {
		x := float64(first + i)
		kernel[i] = math.Exp(-(x * x) / (2 * GaussianSigma * GaussianSigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

// GaussianBlur smooths a single-channel grid with a separable Gaussian.
//
// The kernel from GaussianKernel(kernelSize) is applied along rows and then
// along the columns of that intermediate result. Samples beyond the grid are
// replaced by the nearest edge sample. Outputs are rounded and clamped to
// [0, 255], so a uniform input stays uniform everywhere including the border.
func GaussianBlur(src *ScalarGrid, kernelSize int) *ScalarGrid {
	kernel := GaussianKernel(kernelSize)
	if kernel == nil {
		return src.Clone()
	}
	return ConvolveColumns(ConvolveRows(src, kernel), kernel)
}

// ConvolveRows convolves every row of src with a 1D kernel.
//
// The kernel is centred at index len(kernel)/2. Out-of-range column indices
// are clamped to [0, Width-1]. The result is rounded half up and clamped to
// [0, 255].
func ConvolveRows(src *ScalarGrid, kernel []float64) *ScalarGrid {
	return convolve1D(src, kernel, true)
}

// ConvolveColumns is ConvolveRows along the vertical axis.
func ConvolveColumns(src *ScalarGrid, kernel []float64) *ScalarGrid {
	return convolve1D(src, kernel, false)
}

func convolve1D(src *ScalarGrid, kernel []float64, horizontal bool) *ScalarGrid {
	dst := NewScalarGrid(src.Width, src.Height)
	offset := -(len(kernel) / 2)

	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < src.Width; x++ {
				var sum float64
				for i, k := range kernel {
					var v int
					if horizontal {
						v = src.AtClamped(x+offset+i, y)
					} else {
						v = src.AtClamped(x, y+offset+i)
					}
					sum += float64(v) * k
				}
				dst.Pix[y*dst.Width+x] = clamp(roundHalfUp(sum), 0, 255)
			}
		}
	})
	return dst
}
