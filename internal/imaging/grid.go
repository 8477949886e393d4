package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// RGB is a single 8-bit-per-channel pixel.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBGrid is a row-major buffer of RGB pixels.
//
// Pixel (x, y) lives at Pix[y*Width+x]. The zero value is an empty grid; grids
// built from decoded images always have Width, Height > 0.
type RGBGrid struct {
	Width  int
	Height int
	Pix    []RGB
}

// NewRGBGrid allocates a black RGBGrid of the given size.
// Negative dimensions are treated as zero.
func NewRGBGrid(width, height int) *RGBGrid {
	width, height = max(width, 0), max(height, 0)
	return &RGBGrid{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
	}
}

// InBounds reports whether (x, y) addresses a pixel of the grid.
func (g *RGBGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the pixel at (x, y). It panics if (x, y) is outside the grid.
func (g *RGBGrid) At(x, y int) RGB {
	g.mustContain(x, y)
	return g.Pix[y*g.Width+x]
}

// Set writes the pixel at (x, y). It panics if (x, y) is outside the grid.
func (g *RGBGrid) Set(x, y int, c RGB) {
	g.mustContain(x, y)
	g.Pix[y*g.Width+x] = c
}

// Clone returns a deep copy of the grid.
func (g *RGBGrid) Clone() *RGBGrid {
	out := NewRGBGrid(g.Width, g.Height)
	copy(out.Pix, g.Pix)
	return out
}

// Empty reports whether the grid has no pixels.
func (g *RGBGrid) Empty() bool {
	return g == nil || g.Width <= 0 || g.Height <= 0
}

func (g *RGBGrid) mustContain(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("imaging: (%d,%d) outside %dx%d RGB grid", x, y, g.Width, g.Height))
	}
}

// RGBGridFromImage copies any image.Image into a new RGBGrid.
//
// The image is first normalised to *image.RGBA so palette, YCbCr and 16-bit
// images are all handled the same way. Alpha is discarded; the grid origin is
// the image's Bounds().Min.
func RGBGridFromImage(img image.Image) *RGBGrid {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	g := NewRGBGrid(b.Dx(), b.Dy())
	for y := 0; y < g.Height; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < g.Width; x++ {
			i := x * 4
			g.Pix[y*g.Width+x] = RGB{R: row[i], G: row[i+1], B: row[i+2]}
		}
	}
	return g
}

// ScalarGrid is a row-major buffer of single-channel signed samples.
//
// It carries intensities (0-255), signed gradients, vote counts and edge
// states alike; each stage documents the range it produces.
type ScalarGrid struct {
	Width  int
	Height int
	Pix    []int
}

// NewScalarGrid allocates a zero-filled ScalarGrid of the given size.
// Negative dimensions are treated as zero.
func NewScalarGrid(width, height int) *ScalarGrid {
	width, height = max(width, 0), max(height, 0)
	return &ScalarGrid{
		Width:  width,
		Height: height,
		Pix:    make([]int, width*height),
	}
}

// InBounds reports whether (x, y) addresses a sample of the grid.
func (g *ScalarGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the sample at (x, y). It panics if (x, y) is outside the grid.
func (g *ScalarGrid) At(x, y int) int {
	g.mustContain(x, y)
	return g.Pix[y*g.Width+x]
}

// AtOr returns the sample at (x, y), or fallback when (x, y) is outside the grid.
func (g *ScalarGrid) AtOr(x, y, fallback int) int {
	if !g.InBounds(x, y) {
		return fallback
	}
	return g.Pix[y*g.Width+x]
}

// AtClamped returns the sample at (x, y) after clamping each coordinate to
// the nearest valid index (edge replication).
func (g *ScalarGrid) AtClamped(x, y int) int {
	x = clamp(x, 0, g.Width-1)
	y = clamp(y, 0, g.Height-1)
	return g.Pix[y*g.Width+x]
}

// Set writes the sample at (x, y). It panics if (x, y) is outside the grid.
func (g *ScalarGrid) Set(x, y, v int) {
	g.mustContain(x, y)
	g.Pix[y*g.Width+x] = v
}

// Clone returns a deep copy of the grid.
func (g *ScalarGrid) Clone() *ScalarGrid {
	out := NewScalarGrid(g.Width, g.Height)
	copy(out.Pix, g.Pix)
	return out
}

// Equal reports whether both grids have the same size and samples.
func (g *ScalarGrid) Equal(other *ScalarGrid) bool {
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for i, v := range g.Pix {
		if other.Pix[i] != v {
			return false
		}
	}
	return true
}

// MinMax returns the smallest and largest sample. Both are 0 for an empty grid.
func (g *ScalarGrid) MinMax() (lo, hi int) {
	if len(g.Pix) == 0 {
		return 0, 0
	}
	lo, hi = g.Pix[0], g.Pix[0]
	for _, v := range g.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func (g *ScalarGrid) mustContain(x, y int) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("imaging: (%d,%d) outside %dx%d scalar grid", x, y, g.Width, g.Height))
	}
}

// RGBGridFromScalar expands a single-channel grid into gray RGB pixels,
// clamping each sample to [0, 255].
func RGBGridFromScalar(g *ScalarGrid) *RGBGrid {
	out := NewRGBGrid(g.Width, g.Height)
	for i, v := range g.Pix {
		c := clampUint8(v)
		out.Pix[i] = RGB{R: c, G: c, B: c}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func clampUint8(v int) uint8 {
	return uint8(clamp(v, 0, 255))
}
