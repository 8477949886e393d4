package imaging

import (
	"fmt"
	"math"
)

// EdgeState classifies a pixel after non-maximum suppression.
type EdgeState int

const (
	// EdgeNone marks a pixel that is not an edge.
	EdgeNone EdgeState = iota
	// EdgeWeak marks a thinned pixel with low <= magnitude < high.
	EdgeWeak
	// EdgeStrong marks a thinned pixel with magnitude >= high.
	EdgeStrong
)

func (s EdgeState) String() string {
	switch s {
	case EdgeNone:
		return "none"
	case EdgeWeak:
		return "weak"
	case EdgeStrong:
		return "strong"
	default:
		return fmt.Sprintf("EdgeState(%d)", int(s))
	}
}

// NonMaxValue is written to the thinned grid for every local maximum.
const NonMaxValue = 255

// Direction is a gradient direction quantised to one of four bins.
type Direction uint8

const (
	DirEastWest   Direction = iota // 0°: compare W and E
	DirNWSE                        // 45°: compare NW and SE
	DirNorthSouth                  // 90°: compare N and S
	DirNESW                        // 135°: compare NE and SW
)

// Degrees returns the bin centre in degrees: 0, 45, 90 or 135.
func (d Direction) Degrees() int {
	return int(d) * 45
}

type offset struct {
	dx, dy int
}

// directionNeighbors lists, per bin, the neighbour already visited by a
// row-major scan first and the opposite neighbour second.
var directionNeighbors = [4][2]offset{
	DirEastWest:   {{-1, 0}, {1, 0}},
	DirNWSE:       {{-1, -1}, {1, 1}},
	DirNorthSouth: {{0, -1}, {0, 1}},
	DirNESW:       {{1, -1}, {-1, 1}},
}

// Neighbors returns the (previous, next) neighbour offsets of the bin.
func (d Direction) Neighbors() (prevDX, prevDY, nextDX, nextDY int) {
	n := directionNeighbors[d]
	return n[0].dx, n[0].dy, n[1].dx, n[1].dy
}

// QuantizeDirection maps a gradient vector onto the nearest 45° bin.
//
// theta = atan2(gy, gx) in degrees is rounded to a multiple of 45 (halves
// round up), reduced mod 180 and shifted into [0, 180). A zero gradient
// falls into DirEastWest.
func QuantizeDirection(gx, gy int) Direction {
	theta := math.Atan2(float64(gy), float64(gx)) * 180 / math.Pi
	deg := (roundHalfUp(theta/45) * 45) % 180
	if deg < 0 {
		deg += 180
	}
	return Direction(deg / 45)
}

// ClassifyEdges thins the gradient magnitude and applies a double threshold.
//
// Pixels are visited once in row-major order. For the direction bin of each
// pixel, "prev" is the neighbour the scan has already visited and "next" the
// opposite one; neighbours outside the grid read as 0. A pixel is a local
// maximum when
//
//	mag > nonMax[prev] && mag > mag[next] && mag >= mag[prev]
//
// so a ridge whose previous pixel was already selected is not selected again.
// Maxima are written as NonMaxValue to nonMax and classified EdgeStrong when
// mag >= high, EdgeWeak when mag >= low, otherwise EdgeNone.
//
// Because Sobel leaves a zero border, the outermost ring is never classified.
func ClassifyEdges(grad *GradientField, low, high int) (nonMax, classified *ScalarGrid) {
	mag := grad.Magnitude
	w, h := mag.Width, mag.Height
	nonMax = NewScalarGrid(w, h)
	classified = NewScalarGrid(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			lum := mag.Pix[i]
			dir := QuantizeDirection(grad.XGrad.Pix[i], grad.YGrad.Pix[i])
			pdx, pdy, ndx, ndy := dir.Neighbors()

			thinnedPrev := nonMax.AtOr(x+pdx, y+pdy, 0)
			rawPrev := mag.AtOr(x+pdx, y+pdy, 0)
			rawNext := mag.AtOr(x+ndx, y+ndy, 0)

			if lum <= thinnedPrev || lum <= rawNext || lum < rawPrev {
				continue
			}
			nonMax.Pix[i] = NonMaxValue
			switch {
			case lum >= high:
				classified.Pix[i] = int(EdgeStrong)
			case lum >= low:
				classified.Pix[i] = int(EdgeWeak)
			}
		}
	}
	return nonMax, classified
}
