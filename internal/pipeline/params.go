package pipeline

import (
	"fmt"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
)

// Params holds every tunable of a pipeline run.
//
// JSON tags match the MCP tool arguments, so a request can be decoded on top
// of DefaultParams and omitted fields keep their defaults.
type Params struct {
	// KernelSize is the Gaussian kernel length (odd values give a symmetric kernel).
	KernelSize int `json:"kernel_size"`

	// LowThreshold is the minimum thinned magnitude of a weak edge.
	LowThreshold int `json:"low_threshold"`

	// HighThreshold is the minimum thinned magnitude of a strong edge.
	HighThreshold int `json:"high_threshold"`

	// PeakWindow is the odd side of the accumulator neighbourhood a centre must dominate.
	PeakWindow int `json:"peak_window"`

	// CenterFraction is the share of the peak vote count a centre must exceed.
	CenterFraction float64 `json:"center_fraction"`

	// MaxRadius caps the radius sweep in pixels.
	MaxRadius int `json:"max_radius"`

	// RadiusFraction is the share of the best radius score a circle must exceed.
	RadiusFraction float64 `json:"radius_fraction"`
}

// Upper bounds on window sizes; both scale per-pixel work.
const (
	MaxKernelSize = 99
	MaxPeakWindow = 101
)

// DefaultParams returns the standard detector configuration.
func DefaultParams() Params {
	c := detection.DefaultCircleParams()
	return Params{
		KernelSize:     5,
		LowThreshold:   20,
		HighThreshold:  120,
		PeakWindow:     c.PeakWindow,
		CenterFraction: c.CenterFraction,
		MaxRadius:      c.MaxRadius,
		RadiusFraction: c.RadiusFraction,
	}
}

// ParameterError reports an invalid pipeline parameter.
type ParameterError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks p and returns the first violation as a *ParameterError.
func (p Params) Validate() error {
	switch {
	case p.KernelSize <= 0:
		return &ParameterError{Field: "kernel_size", Value: p.KernelSize, Reason: "must be positive"}
	case p.KernelSize > MaxKernelSize:
		return &ParameterError{Field: "kernel_size", Value: p.KernelSize, Reason: fmt.Sprintf("must not exceed %d", MaxKernelSize)}
	case p.LowThreshold < 0:
		return &ParameterError{Field: "low_threshold", Value: p.LowThreshold, Reason: "must not be negative"}
	case p.HighThreshold < 0:
		return &ParameterError{Field: "high_threshold", Value: p.HighThreshold, Reason: "must not be negative"}
	case p.LowThreshold >= p.HighThreshold:
		return &ParameterError{
			Field:  "low_threshold",
			Value:  p.LowThreshold,
			Reason: fmt.Sprintf("must be below high_threshold (%d)", p.HighThreshold),
		}
	case p.PeakWindow <= 0:
		return &ParameterError{Field: "peak_window", Value: p.PeakWindow, Reason: "must be positive"}
	case p.PeakWindow%2 == 0:
		return &ParameterError{Field: "peak_window", Value: p.PeakWindow, Reason: "must be odd"}
	case p.PeakWindow > MaxPeakWindow:
		return &ParameterError{Field: "peak_window", Value: p.PeakWindow, Reason: fmt.Sprintf("must not exceed %d", MaxPeakWindow)}
	case p.CenterFraction < 0 || p.CenterFraction > 1:
		return &ParameterError{Field: "center_fraction", Value: p.CenterFraction, Reason: "must be within [0, 1]"}
	case p.MaxRadius <= 0:
		return &ParameterError{Field: "max_radius", Value: p.MaxRadius, Reason: "must be positive"}
	case p.RadiusFraction < 0 || p.RadiusFraction > 1:
		return &ParameterError{Field: "radius_fraction", Value: p.RadiusFraction, Reason: "must be within [0, 1]"}
	}
	return nil
}

func (p Params) circleParams() detection.CircleParams {
	return detection.CircleParams{
		PeakWindow:     p.PeakWindow,
		CenterFraction: p.CenterFraction,
		MaxRadius:      p.MaxRadius,
		RadiusFraction: p.RadiusFraction,
	}
}
