package pipeline

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
	"github.com/ironsheep/hough-circles-mcp/internal/imaging"
)

// Stage names, in pipeline order.
const (
	StageGrayscale        = "grayscale"
	StageBlurred          = "blurred"
	StageXGradient        = "x-gradient"
	StageYGradient        = "y-gradient"
	StageEdgeMagnitude    = "edge-magnitude"
	StageNonMaxEdges      = "non-max-edges"
	StageClassifiedEdges  = "classified-edges"
	StageHysteresisEdges  = "hysteresis-edges"
	StageHoughAccumulator = "hough-accumulator"
	StageAnnotatedCircles = "annotated-circles"
)

var stageOrder = []string{
	StageGrayscale,
	StageBlurred,
	StageXGradient,
	StageYGradient,
	StageEdgeMagnitude,
	StageNonMaxEdges,
	StageClassifiedEdges,
	StageHysteresisEdges,
	StageHoughAccumulator,
	StageAnnotatedCircles,
}

// StageNames returns every stage name a full run produces, in pipeline order.
func StageNames() []string {
	return append([]string(nil), stageOrder...)
}

// Stages returns the names of the stages present in r, in pipeline order.
func (r *Result) Stages() []string {
	names := make([]string, 0, len(stageOrder))
	for _, name := range stageOrder {
		if _, ok := r.Stage(name); ok {
			names = append(names, name)
		}
	}
	return names
}

// Stage renders the named stage as an image.
//
// Signed gradients render as min(|v|, 255), edge-state grids with strong edges
// white and weak edges dark red, and the accumulator as normalised gray with
// candidate centres marked. Returns false for unknown names and for stages
// an edge-only run did not compute.
func (r *Result) Stage(name string) (image.Image, bool) {
	switch name {
	case StageGrayscale:
		return scalar(r.Grayscale)
	case StageBlurred:
		return scalar(r.Blurred)
	case StageXGradient:
		return gradient(r.XGrad)
	case StageYGradient:
		return gradient(r.YGrad)
	case StageEdgeMagnitude:
		return scalar(r.EdgeMagnitude)
	case StageNonMaxEdges:
		return scalar(r.NonMaxEdges)
	case StageClassifiedEdges:
		return edgeStates(r.ClassifiedEdges)
	case StageHysteresisEdges:
		return edgeStates(r.HysteresisEdges)
	case StageHoughAccumulator:
		if r.NormalizedAccumulator == nil {
			return nil, false
		}
		return imaging.RGBImage(detection.AccumulatorView(r.NormalizedAccumulator, r.Candidates)), true
	case StageAnnotatedCircles:
		if r.AnnotatedCircles == nil {
			return nil, false
		}
		return imaging.RGBImage(r.AnnotatedCircles), true
	default:
		return nil, false
	}
}

func scalar(g *imaging.ScalarGrid) (image.Image, bool) {
	if g == nil {
		return nil, false
	}
	return imaging.ScalarImage(g), true
}

func gradient(g *imaging.ScalarGrid) (image.Image, bool) {
	if g == nil {
		return nil, false
	}
	return imaging.GradientImage(g), true
}

func edgeStates(g *imaging.ScalarGrid) (image.Image, bool) {
	if g == nil {
		return nil, false
	}
	return imaging.EdgeStateImage(g), true
}

// StagePath returns dir/<base>-<stage>.<ext>. ext may carry a leading dot and
// defaults to png.
func StagePath(dir, base, stage, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "png"
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.%s", base, stage, ext))
}

// SaveAll writes every stage present in r to dir as <base>-<stage>.<ext> and
// returns the written paths in pipeline order.
func (r *Result) SaveAll(dir, base, ext string) ([]string, error) {
	stages := r.Stages()
	paths := make([]string, 0, len(stages))
	for _, name := range stages {
		img, _ := r.Stage(name)
		path := StagePath(dir, base, name, ext)
		if err := imaging.Save(img, path); err != nil {
			return paths, fmt.Errorf("failed to save stage %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
