// Package detection finds circles in a Canny edge map with a gradient-guided
// Hough transform.
//
// Instead of voting over the full (x, y, r) parameter space, every strong edge
// pixel votes along a single line through itself in the direction of its
// intensity gradient. On a circle the gradient points along the radius, so the
// lines of all edge pixels of one circle cross at its centre. The search then
// becomes two cheaper steps:
//
//  1. Find peaks in the 2D vote accumulator (candidate centres).
//  2. For each centre, sweep radii and score how many points of a rasterised
//     circle fall on strong edges.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Scores
//
// A radius score is 2 × matches / r. A perfect digital circle produces roughly
// 8 × 0.7 × r outline points, so scores are comparable across radii. Candidates
// are accepted relative to the best score in the same image, never against an
// absolute threshold.
//
// # Limitations
//
// Voting lines span the whole image, so the cost is O(edges × (W + H)). Radius
// fitting costs O(centres × maxRadius²). Cropping to a region of interest
// first is the cheapest way to speed up large images.
package detection
