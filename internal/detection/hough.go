package detection

import (
	"math"

	"github.com/ironsheep/hough-circles-mcp/internal/imaging"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// CircleCandidate is an accumulator peak and the radius fitted to it.
type CircleCandidate struct {
	// Center is the accumulator cell that won the peak search.
	Center Point `json:"center"`

	// Radius is the best-scoring radius in pixels, 0 if no radius matched any edge.
	Radius int `json:"radius"`

	// Diameter is 2 × Radius for convenience.
	Diameter int `json:"diameter"`

	// Votes is the raw accumulator count at Center.
	Votes int `json:"votes"`

	// Score is 2 × matches / Radius for the best radius, where matches is the
	// number of rasterised outline points landing on a strong edge.
	Score float64 `json:"score"`

	// Accepted is set when Score exceeds the radius fraction of the best
	// score over all candidates. Only accepted candidates are drawn.
	Accepted bool `json:"accepted"`
}

// CircleParams tunes the Hough circle detector.
type CircleParams struct {
	// PeakWindow is the side of the square neighbourhood a centre must dominate.
	PeakWindow int

	// CenterFraction is the share of the global vote maximum a centre must exceed.
	CenterFraction float64

	// MaxRadius caps the radius sweep (further capped at half the line length).
	MaxRadius int

	// RadiusFraction is the share of the best score an accepted candidate must exceed.
	RadiusFraction float64
}

// DefaultCircleParams returns the detector defaults: 11×11 window, 0.2 centre
// fraction, radius cap 200 and 0.2 radius fraction.
func DefaultCircleParams() CircleParams {
	return CircleParams{
		PeakWindow:     11,
		CenterFraction: 0.2,
		MaxRadius:      200,
		RadiusFraction: 0.2,
	}
}

// HoughResult holds every product of one detection pass.
type HoughResult struct {
	// Accumulator holds the raw vote counts.
	Accumulator *imaging.ScalarGrid

	// Normalized is Accumulator rescaled to [0, 255] for display.
	Normalized *imaging.ScalarGrid

	// LineLength is round(hypot(W, H)), the half-length of every voting line.
	LineLength int

	// Candidates lists every centre found, in scan order, accepted or not.
	Candidates []CircleCandidate

	// Annotated is the edge map (strong edges white) with accepted circles drawn on it.
	Annotated *imaging.RGBGrid
}

// Accepted returns the candidates that passed the final score threshold.
func (r *HoughResult) Accepted() []CircleCandidate {
	out := make([]CircleCandidate, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		if c.Accepted {
			out = append(out, c)
		}
	}
	return out
}

// DetectCircles runs the gradient-guided Hough circle transform.
//
// Parameters:
//   - edges: EdgeState grid after hysteresis; only EdgeStrong pixels vote.
//   - grad: The Sobel field the edges were derived from. Its XGrad/YGrad give
//     the voting direction of each edge pixel.
//   - params: Detector thresholds, see CircleParams.
//
// # Algorithm
//
//  1. Voting: every strong edge pixel draws a line through itself along its
//     gradient direction, LineLength pixels each way, adding one vote to each
//     cell with 1 <= x <= W-1 and 1 <= y <= H-1.
//  2. Peak detection: a cell is a centre when it is >= every cell of its
//     PeakWindow neighbourhood, its votes exceed CenterFraction × max, and no
//     earlier centre in row-major order lies within that neighbourhood.
//  3. Radius fitting: radii 1..min(MaxRadius, LineLength/2) are scored by
//     ScoreRadius; the first radius reaching the best score is kept.
//  4. Acceptance: candidates whose score exceeds RadiusFraction × the best
//     score over all candidates are drawn onto Annotated.
func DetectCircles(edges *imaging.ScalarGrid, grad *imaging.GradientField, params CircleParams) *HoughResult {
	acc, length := VoteLines(edges, grad)
	candidates := FindCenters(acc, params.PeakWindow, params.CenterFraction)

	maxRadius := min(params.MaxRadius, length/2)
	bestScore := 0.0
	for i := range candidates {
		FitRadius(edges, &candidates[i], maxRadius)
		if candidates[i].Score > bestScore {
			bestScore = candidates[i].Score
		}
	}
	for i := range candidates {
		candidates[i].Accepted = candidates[i].Score > params.RadiusFraction*bestScore
	}

	return &HoughResult{
		Accumulator: acc,
		Normalized:  NormalizeAccumulator(acc),
		LineLength:  length,
		Candidates:  candidates,
		Annotated:   Annotate(edges, candidates),
	}
}

// VoteLines builds the vote accumulator for the strong pixels of edges.
//
// Returns the accumulator and the voting half-length round(hypot(W, H)).
func VoteLines(edges *imaging.ScalarGrid, grad *imaging.GradientField) (*imaging.ScalarGrid, int) {
	w, h := edges.Width, edges.Height
	acc := imaging.NewScalarGrid(w, h)
	length := int(math.Floor(math.Hypot(float64(w), float64(h)) + 0.5))
	fl := float64(length)

	vote := func(x, y int) {
		if x > 0 && x < w && y > 0 && y < h {
			acc.Pix[y*w+x]++
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if imaging.EdgeState(edges.Pix[i]) != imaging.EdgeStrong {
				continue
			}
			theta := math.Atan2(float64(grad.YGrad.Pix[i]), float64(grad.XGrad.Pix[i]))
			cos, sin := math.Cos(theta), math.Sin(theta)

			x1 := roundHalfUp(float64(x) + fl*cos)
			y1 := roundHalfUp(float64(y) + fl*sin)
			x2 := roundHalfUp(float64(x) - fl*cos)
			y2 := roundHalfUp(float64(y) - fl*sin)
			Line(x1, y1, x2, y2, vote)
		}
	}
	return acc, length
}

// NormalizeAccumulator rescales votes to [0, 255] as
// round(255 × (v - min) / (max - min)). A flat accumulator maps to all zeros.
func NormalizeAccumulator(acc *imaging.ScalarGrid) *imaging.ScalarGrid {
	out := imaging.NewScalarGrid(acc.Width, acc.Height)
	lo, hi := acc.MinMax()
	if hi == lo {
		return out
	}
	span := float64(hi - lo)
	for i, v := range acc.Pix {
		out.Pix[i] = roundHalfUp(255 * float64(v-lo) / span)
	}
	return out
}

// FindCenters scans the accumulator for circle-centre candidates.
//
// A cell qualifies when its votes are >= every in-bounds cell of the
// window × window neighbourhood, strictly greater than fraction × the global
// maximum, and no previously accepted centre lies in the same neighbourhood.
// The last rule keeps only the first cell of a plateau in row-major order.
func FindCenters(acc *imaging.ScalarGrid, window int, fraction float64) []CircleCandidate {
	w, h := acc.Width, acc.Height
	half := window / 2
	_, peak := acc.MinMax()
	threshold := fraction * float64(peak)

	isCenter := make([]bool, w*h)
	candidates := make([]CircleCandidate, 0)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := acc.Pix[y*w+x]
			if float64(v) <= threshold {
				continue
			}
			if !dominatesWindow(acc, isCenter, x, y, half) {
				continue
			}
			isCenter[y*w+x] = true
			candidates = append(candidates, CircleCandidate{
				Center: Point{X: x, Y: y},
				Votes:  v,
			})
		}
	}
	return candidates
}

func dominatesWindow(acc *imaging.ScalarGrid, isCenter []bool, x, y, half int) bool {
	w := acc.Width
	v := acc.Pix[y*w+x]
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			nx, ny := x+dx, y+dy
			if !acc.InBounds(nx, ny) {
				continue
			}
			ni := ny*w + nx
			if acc.Pix[ni] > v || isCenter[ni] {
				return false
			}
		}
	}
	return true
}

// FitRadius sweeps radii 1..maxRadius around c.Center and stores the
// best-scoring one in c. Ties keep the smaller radius.
func FitRadius(edges *imaging.ScalarGrid, c *CircleCandidate, maxRadius int) {
	c.Radius, c.Score = 0, 0
	for r := 1; r <= maxRadius; r++ {
		score := ScoreRadius(edges, c.Center.X, c.Center.Y, r)
		if score > c.Score {
			c.Radius, c.Score = r, score
		}
	}
	c.Diameter = 2 * c.Radius
}

// ScoreRadius rasterises a circle of the given radius and returns
// 2 × matches / radius, where matches counts outline points (including the
// repeats Circle reports) that fall on a strong edge. Radius 0 scores 0.
func ScoreRadius(edges *imaging.ScalarGrid, cx, cy, radius int) float64 {
	if radius <= 0 {
		return 0
	}
	matches := 0
	Circle(cx, cy, radius, func(x, y int) {
		if imaging.EdgeState(edges.AtOr(x, y, int(imaging.EdgeNone))) == imaging.EdgeStrong {
			matches++
		}
	})
	return 2 * float64(matches) / float64(radius)
}

// Annotate renders the strong edges in white and draws every accepted
// candidate's outline in imaging.CircleColor.
func Annotate(edges *imaging.ScalarGrid, candidates []CircleCandidate) *imaging.RGBGrid {
	return AnnotateColor(edges, candidates, imaging.CircleColor)
}

// AnnotateColor is Annotate with a caller-chosen outline colour.
func AnnotateColor(edges *imaging.ScalarGrid, candidates []CircleCandidate, col imaging.RGB) *imaging.RGBGrid {
	out := imaging.NewRGBGrid(edges.Width, edges.Height)
	for i, v := range edges.Pix {
		if imaging.EdgeState(v) == imaging.EdgeStrong {
			out.Pix[i] = imaging.StrongEdgeColor
		}
	}
	for _, c := range candidates {
		if !c.Accepted {
			continue
		}
		Circle(c.Center.X, c.Center.Y, c.Radius, func(x, y int) {
			if out.InBounds(x, y) {
				out.Set(x, y, col)
			}
		})
	}
	return out
}

// AccumulatorView renders a normalised accumulator in gray with every
// candidate centre marked in imaging.CenterMarkerColor.
func AccumulatorView(normalized *imaging.ScalarGrid, candidates []CircleCandidate) *imaging.RGBGrid {
	out := imaging.RGBGridFromScalar(normalized)
	for _, c := range candidates {
		if out.InBounds(c.Center.X, c.Center.Y) {
			out.Set(c.Center.X, c.Center.Y, imaging.CenterMarkerColor)
		}
	}
	return out
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
