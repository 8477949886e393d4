// Package pipeline chains the edge and circle stages into a single run.
//
// The stages themselves live in the imaging and detection packages and never
// log or touch the filesystem. This package validates parameters, times each
// stage, honours cancellation between stages and exposes the intermediate
// grids under stable names.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
	"github.com/ironsheep/hough-circles-mcp/internal/imaging"
	"github.com/ironsheep/hough-circles-mcp/internal/logging"
)

// Result holds every intermediate grid of a run.
//
// Edge-only runs (RunEdges) leave the Hough fields nil.
type Result struct {
	Grayscale       *imaging.ScalarGrid
	Blurred         *imaging.ScalarGrid
	XGrad           *imaging.ScalarGrid
	YGrad           *imaging.ScalarGrid
	EdgeMagnitude   *imaging.ScalarGrid
	NonMaxEdges     *imaging.ScalarGrid
	ClassifiedEdges *imaging.ScalarGrid
	HysteresisEdges *imaging.ScalarGrid

	// HoughAccumulator holds raw votes; NormalizedAccumulator is its 0-255 rescale.
	HoughAccumulator      *imaging.ScalarGrid
	NormalizedAccumulator *imaging.ScalarGrid
	AnnotatedCircles      *imaging.RGBGrid

	// Candidates lists every centre found, accepted or not.
	Candidates []detection.CircleCandidate

	Params Params
}

// Accepted returns the candidates drawn on AnnotatedCircles.
func (r *Result) Accepted() []detection.CircleCandidate {
	h := detection.HoughResult{Candidates: r.Candidates}
	return h.Accepted()
}

type step struct {
	name string
	fn   func()
}

type options struct {
	log zerolog.Logger
}

// Option configures a run.
type Option func(*options)

// WithLogger sets the logger used for per-stage timing events.
// Runs are silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Run executes the full pipeline on grid.
func Run(grid *imaging.RGBGrid, params Params, opts ...Option) (*Result, error) {
	return RunContext(context.Background(), grid, params, opts...)
}

// RunContext executes the full pipeline, checking ctx before every stage.
//
// Returns *imaging.InputError for a nil or empty grid and *ParameterError for
// invalid params; in both cases no stage runs.
func RunContext(ctx context.Context, grid *imaging.RGBGrid, params Params, opts ...Option) (*Result, error) {
	return run(ctx, grid, params, true, opts)
}

// RunEdges executes only the Canny stages (through hysteresis).
func RunEdges(ctx context.Context, grid *imaging.RGBGrid, params Params, opts ...Option) (*Result, error) {
	return run(ctx, grid, params, false, opts)
}

func run(ctx context.Context, grid *imaging.RGBGrid, params Params, hough bool, opts []Option) (*Result, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.Component(o.log, "pipeline")

	if grid == nil || grid.Empty() {
		return nil, &imaging.InputError{Err: imaging.ErrEmptyImage}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Params: params}
	started := time.Now()

	stage := func(name string, fn func()) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled before %s: %w", name, err)
		}
		t := time.Now()
		fn()
		log.Debug().Str("stage", name).Dur("elapsed", time.Since(t)).Msg("stage complete")
		return nil
	}

	var grad *imaging.GradientField
	steps := []step{
		{StageGrayscale, func() { res.Grayscale = imaging.Grayscale(grid) }},
		{StageBlurred, func() { res.Blurred = imaging.GaussianBlur(res.Grayscale, params.KernelSize) }},
		{"gradients", func() {
			grad = imaging.Sobel(res.Blurred)
			res.XGrad, res.YGrad, res.EdgeMagnitude = grad.XGrad, grad.YGrad, grad.Magnitude
		}},
		{StageClassifiedEdges, func() {
			res.NonMaxEdges, res.ClassifiedEdges = imaging.ClassifyEdges(grad, params.LowThreshold, params.HighThreshold)
		}},
		{StageHysteresisEdges, func() { res.HysteresisEdges = imaging.Hysteresis(res.ClassifiedEdges) }},
	}
	if hough {
		steps = append(steps, step{"hough", func() {
			h := detection.DetectCircles(res.HysteresisEdges, grad, params.circleParams())
			res.HoughAccumulator = h.Accumulator
			res.NormalizedAccumulator = h.Normalized
			res.AnnotatedCircles = h.Annotated
			res.Candidates = h.Candidates
		}})
	}

	for _, s := range steps {
		if err := stage(s.name, s.fn); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("width", grid.Width).
		Int("height", grid.Height).
		Int("candidates", len(res.Candidates)).
		Int("accepted", len(res.Accepted())).
		Dur("elapsed", time.Since(started)).
		Msg("pipeline complete")
	return res, nil
}
