// Package imaging provides the raster types and the Canny edge stages used by
// the circle detector.
//
// Images enter the package as an RGBGrid (decoded from disk via ImageCache or
// LoadRGB) and are reduced to ScalarGrid intensity planes:
//
//	RGBGrid -> Grayscale -> GaussianBlur -> Sobel -> ClassifyEdges -> Hysteresis
//
// Every stage returns a new grid and leaves its input untouched.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Grids are stored row-major, so pixel (x, y) lives at Pix[y*Width+x]
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Edge States
//
// After non-maximum suppression each pixel carries an EdgeState:
//   - EdgeNone (0): not an edge
//   - EdgeWeak (1): magnitude in (low, high]; kept only if connected to a strong edge
//   - EdgeStrong (2): magnitude above high
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Stage functions are
// stateless; the row-parallel stages split work with bild's parallel package
// and never share output rows between goroutines.
//
// # Rendering
//
// ScalarImage, GradientImage, EdgeStateImage and RGBImage turn grids into
// standard image types for saving (Save) or base64 transport (EncodePNGBase64).
package imaging
