package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
	"github.com/ironsheep/hough-circles-mcp/internal/imaging"
	"github.com/ironsheep/hough-circles-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_detect_circles").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Invalid pipeline parameters return code -32602; other tool execution errors
// return code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
		var perr *pipeline.ParameterError
		if errors.As(err, &perr) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON on top of the defaults
//  2. Loads (and optionally crops) the image through the cache
//  3. Runs the pipeline or the edge stages
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Edge and Circle Detection
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_detect_circles":
		return s.handleImageDetectCircles(args)

	// Pipeline Inspection
	case "image_pipeline_stage":
		return s.handleImagePipelineStage(args)
	case "image_hough_pipeline":
		return s.handleImageHoughPipeline(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Pipeline Handlers ===

// pipelineArgs is shared by every tool that runs the pipeline. The embedded
// Params are pre-filled with defaults before decoding.
type pipelineArgs struct {
	Path   string          `json:"path"`
	Region *imaging.Region `json:"region,omitempty"`
	pipeline.Params
}

func (s *Server) loadGrid(a *pipelineArgs) (*imaging.RGBGrid, error) {
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return s.cache.LoadRegionGrid(a.Path, a.Region)
}

// regionOffset returns the translation from crop-relative to image coordinates.
func regionOffset(r *imaging.Region) detection.Point {
	if r == nil {
		return detection.Point{}
	}
	return detection.Point{X: r.X1, Y: r.Y1}
}

// EdgeDetectResult is returned by image_edge_detect.
type EdgeDetectResult struct {
	Width         int                   `json:"width"`
	Height        int                   `json:"height"`
	StrongPixels  int                   `json:"strong_pixels"`
	LowThreshold  int                   `json:"low_threshold"`
	HighThreshold int                   `json:"high_threshold"`
	Image         *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	a := pipelineArgs{Params: pipeline.DefaultParams()}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, err := s.loadGrid(&a)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.RunEdges(context.Background(), grid, a.Params, pipeline.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	strong := 0
	for _, v := range res.HysteresisEdges.Pix {
		if imaging.EdgeState(v) == imaging.EdgeStrong {
			strong++
		}
	}

	img, _ := res.Stage(pipeline.StageHysteresisEdges)
	encoded, err := imaging.EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	return &EdgeDetectResult{
		Width:         grid.Width,
		Height:        grid.Height,
		StrongPixels:  strong,
		LowThreshold:  a.LowThreshold,
		HighThreshold: a.HighThreshold,
		Image:         encoded,
	}, nil
}

type imageDetectCirclesArgs struct {
	pipelineArgs
	IncludeImage bool   `json:"include_image"`
	Labels       bool   `json:"labels"`
	Color        string `json:"color"`
}

// outlineColor returns the colour for circle outlines and labels, defaulting
// to imaging.CircleColor.
func (a *imageDetectCirclesArgs) outlineColor() (imaging.RGB, error) {
	if a.Color == "" {
		return imaging.CircleColor, nil
	}
	c, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return imaging.RGB{}, &pipeline.ParameterError{Field: "color", Value: a.Color, Reason: "must be #RRGGBB"}
	}
	return c, nil
}

// CirclesResult is returned by image_detect_circles.
type CirclesResult struct {
	// Circles lists the accepted circles in image coordinates.
	Circles []detection.CircleCandidate `json:"circles"`

	// Count is len(Circles).
	Count int `json:"count"`

	// Rejected is the number of centre candidates whose radius score fell
	// below the acceptance threshold.
	Rejected int `json:"rejected"`

	// Width and Height are the dimensions of the analysed (possibly cropped) area.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Image is the annotated edge map, present when include_image was set.
	Image *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleImageDetectCircles(args json.RawMessage) (interface{}, error) {
	a := imageDetectCirclesArgs{pipelineArgs: pipelineArgs{Params: pipeline.DefaultParams()}}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	col, err := a.outlineColor()
	if err != nil {
		return nil, err
	}
	grid, err := s.loadGrid(&a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Run(grid, a.Params, pipeline.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	offset := regionOffset(a.Region)
	accepted := res.Accepted()
	circles := make([]detection.CircleCandidate, len(accepted))
	for i, c := range accepted {
		c.Center.X += offset.X
		c.Center.Y += offset.Y
		circles[i] = c
	}

	out := &CirclesResult{
		Circles:  circles,
		Count:    len(circles),
		Rejected: len(res.Candidates) - len(circles),
		Width:    grid.Width,
		Height:   grid.Height,
	}
	if a.IncludeImage {
		annotated := res.AnnotatedCircles
		if col != imaging.CircleColor {
			annotated = detection.AnnotateColor(res.HysteresisEdges, res.Candidates, col)
		}
		img := imaging.RGBImage(annotated)
		if a.Labels {
			detection.LabelCircles(img, res.Candidates, col.ToColor())
		}
		if out.Image, err = imaging.EncodePNGBase64(img); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type imagePipelineStageArgs struct {
	pipelineArgs
	Stage string `json:"stage"`
}

// StageResult is returned by image_pipeline_stage.
type StageResult struct {
	Stage string `json:"stage"`
	*imaging.EncodedImage
}

func (s *Server) handleImagePipelineStage(args json.RawMessage) (interface{}, error) {
	a := imagePipelineStageArgs{pipelineArgs: pipelineArgs{Params: pipeline.DefaultParams()}}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if !validStage(a.Stage) {
		return nil, fmt.Errorf("unknown stage %q (valid: %s)", a.Stage, strings.Join(pipeline.StageNames(), ", "))
	}
	grid, err := s.loadGrid(&a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Run(grid, a.Params, pipeline.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	img, _ := res.Stage(a.Stage)
	encoded, err := imaging.EncodePNGBase64(img)
	if err != nil {
		return nil, err
	}
	return &StageResult{Stage: a.Stage, EncodedImage: encoded}, nil
}

func validStage(name string) bool {
	for _, n := range pipeline.StageNames() {
		if n == name {
			return true
		}
	}
	return false
}

type imageHoughPipelineArgs struct {
	pipelineArgs
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"`
}

// PipelineRunResult is returned by image_hough_pipeline.
type PipelineRunResult struct {
	// Files lists the written stage images in pipeline order.
	Files []string `json:"files"`

	// Circles lists the accepted circles in image coordinates.
	Circles []detection.CircleCandidate `json:"circles"`

	// Candidates is the number of centre candidates before radius acceptance.
	Candidates int `json:"candidates"`
}

func (s *Server) handleImageHoughPipeline(args json.RawMessage) (interface{}, error) {
	a := imageHoughPipelineArgs{
		pipelineArgs: pipelineArgs{Params: pipeline.DefaultParams()},
		Format:       "png",
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, err := s.loadGrid(&a.pipelineArgs)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Run(grid, a.Params, pipeline.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	dir := a.OutputDir
	if dir == "" {
		dir = filepath.Dir(a.Path)
	}
	base := strings.TrimSuffix(filepath.Base(a.Path), filepath.Ext(a.Path))
	files, err := res.SaveAll(dir, base, a.Format)
	if err != nil {
		return nil, err
	}

	offset := regionOffset(a.Region)
	circles := res.Accepted()
	for i := range circles {
		circles[i].Center.X += offset.X
		circles[i].Center.Y += offset.Y
	}
	return &PipelineRunResult{
		Files:      files,
		Circles:    circles,
		Candidates: len(res.Candidates),
	}, nil
}
