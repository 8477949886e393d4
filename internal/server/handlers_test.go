package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
	"github.com/ironsheep/hough-circles-mcp/internal/imaging"
)

// createDiskImage writes a black PNG with a filled white disk and returns its path.
func createDiskImage(t *testing.T, w, h, cx, cy, r int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if dx, dy := x-cx, y-cy; dx*dx+dy*dy <= r*r {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "disk.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

// createOutlineImage writes a black PNG with a 1-px white circle outline and
// returns its path.
func createOutlineImage(t *testing.T, w, h, cx, cy, r int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	detection.Circle(cx, cy, r, func(x, y int) {
		img.Set(x, y, color.RGBA{255, 255, 255, 255})
	})
	path := filepath.Join(t.TempDir(), "outline.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and returns the raw response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatal(err)
	}
	return s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
}

// decodeToolResult unwraps the MCP text content of a successful call into v.
func decodeToolResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("tool failed: %d %s: %v", resp.Error.Code, resp.Error.Message, resp.Error.Data)
	}
	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content %v", content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}

func within(got, want, tol int) bool {
	d := got - want
	return d >= -tol && d <= tol
}

func TestImageLoad(t *testing.T) {
	path := createDiskImage(t, 40, 30, 20, 15, 8)
	var info imaging.ImageInfo
	decodeToolResult(t, callTool(t, newTestServer(), "image_load", map[string]interface{}{"path": path}), &info)

	if info.Width != 40 || info.Height != 30 || info.Format != "png" {
		t.Errorf("got %+v", info)
	}
}

func TestImageDimensions(t *testing.T) {
	path := createDiskImage(t, 17, 9, 8, 4, 3)
	var dims imaging.DimensionsResult
	decodeToolResult(t, callTool(t, newTestServer(), "image_dimensions", map[string]interface{}{"path": path}), &dims)

	if dims.Width != 17 || dims.Height != 9 {
		t.Errorf("got %dx%d, want 17x9", dims.Width, dims.Height)
	}
}

func TestImageEdgeDetect(t *testing.T) {
	path := createDiskImage(t, 60, 60, 30, 30, 15)
	var res EdgeDetectResult
	decodeToolResult(t, callTool(t, newTestServer(), "image_edge_detect", map[string]interface{}{
		"path":           path,
		"high_threshold": 100,
	}), &res)

	if res.Width != 60 || res.Height != 60 {
		t.Errorf("dimensions: got %dx%d", res.Width, res.Height)
	}
	if res.StrongPixels == 0 {
		t.Error("disk outline should yield strong edges")
	}
	if res.LowThreshold != 20 || res.HighThreshold != 100 {
		t.Errorf("thresholds: got %d/%d, want defaults merged with overrides 20/100",
			res.LowThreshold, res.HighThreshold)
	}
	if res.Image == nil || res.Image.ImageBase64 == "" {
		t.Error("missing edge image")
	}
}

func TestImageDetectCircles(t *testing.T) {
	path := createOutlineImage(t, 100, 100, 45, 52, 22)
	var res CirclesResult
	decodeToolResult(t, callTool(t, newTestServer(), "image_detect_circles", map[string]interface{}{"path": path}), &res)

	if res.Count != 1 || len(res.Circles) != 1 {
		t.Fatalf("expected one circle, got %+v", res)
	}
	c := res.Circles[0]
	if !within(c.Center.X, 45, 2) || !within(c.Center.Y, 52, 2) || !within(c.Radius, 22, 2) {
		t.Errorf("circle %+v too far from (45,52) r=22", c)
	}
	if !c.Accepted {
		t.Error("reported circles must be accepted")
	}
	if res.Image != nil {
		t.Error("image should be omitted unless include_image is set")
	}
}

func TestImageDetectCircles_IncludeImageWithLabels(t *testing.T) {
	path := createOutlineImage(t, 100, 100, 45, 52, 22)
	s := newTestServer()

	var plain, labelled CirclesResult
	decodeToolResult(t, callTool(t, s, "image_detect_circles", map[string]interface{}{
		"path": path, "include_image": true,
	}), &plain)
	decodeToolResult(t, callTool(t, s, "image_detect_circles", map[string]interface{}{
		"path": path, "include_image": true, "labels": true,
	}), &labelled)

	if plain.Image == nil || labelled.Image == nil {
		t.Fatal("include_image should return an image")
	}
	if plain.Image.Width != 100 || plain.Image.Height != 100 {
		t.Errorf("image size: got %dx%d", plain.Image.Width, plain.Image.Height)
	}
	if plain.Image.ImageBase64 == labelled.Image.ImageBase64 {
		t.Error("labels should change the rendered image")
	}
}

func TestImageDetectCircles_Color(t *testing.T) {
	path := createOutlineImage(t, 100, 100, 45, 52, 22)
	var res CirclesResult
	decodeToolResult(t, callTool(t, newTestServer(), "image_detect_circles", map[string]interface{}{
		"path": path, "include_image": true, "color": "#FF0000",
	}), &res)
	if res.Count == 0 || res.Image == nil {
		t.Fatalf("expected a circle and an image, got %+v", res)
	}

	raw, err := base64.StdEncoding.DecodeString(res.Image.ImageBase64)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}

	// Circle's first outline point is (cx+r, cy)
	c := res.Circles[0]
	r, g, b, _ := img.At(c.Center.X+c.Radius, c.Center.Y).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("outline pixel = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestImageDetectCircles_RegionOffset(t *testing.T) {
	path := createDiskImage(t, 120, 100, 80, 50, 15)
	var res CirclesResult
	decodeToolResult(t, callTool(t, newTestServer(), "image_detect_circles", map[string]interface{}{
		"path":   path,
		"region": map[string]interface{}{"x1": 40, "y1": 10, "x2": 120, "y2": 90},
	}), &res)

	if res.Width != 80 || res.Height != 80 {
		t.Errorf("analysed area: got %dx%d, want 80x80", res.Width, res.Height)
	}
	if res.Count != 1 {
		t.Fatalf("expected one circle, got %+v", res.Circles)
	}
	if c := res.Circles[0]; !within(c.Center.X, 80, 2) || !within(c.Center.Y, 50, 2) {
		t.Errorf("centre %v should be reported in full-image coordinates near (80,50)", c.Center)
	}
}

func TestImagePipelineStage(t *testing.T) {
	path := createDiskImage(t, 32, 24, 16, 12, 6)
	s := newTestServer()

	for _, stage := range []string{"grayscale", "x-gradient", "hough-accumulator", "annotated-circles"} {
		var res StageResult
		decodeToolResult(t, callTool(t, s, "image_pipeline_stage", map[string]interface{}{
			"path": path, "stage": stage,
		}), &res)
		if res.Stage != stage {
			t.Errorf("stage: got %s, want %s", res.Stage, stage)
		}
		if res.EncodedImage == nil || res.Width != 32 || res.Height != 24 {
			t.Errorf("%s: bad image %+v", stage, res.EncodedImage)
		}
	}
}

func TestImagePipelineStage_UnknownStage(t *testing.T) {
	path := createDiskImage(t, 8, 8, 4, 4, 2)
	resp := callTool(t, newTestServer(), "image_pipeline_stage", map[string]interface{}{
		"path": path, "stage": "sharpened",
	})
	if resp.Error == nil || resp.Error.Code != codeToolFailed {
		t.Fatalf("expected tool failure, got %+v", resp)
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, "hysteresis-edges") {
		t.Errorf("error should list valid stages, got %q", data)
	}
}

func TestImageHoughPipeline(t *testing.T) {
	path := createDiskImage(t, 64, 64, 32, 32, 14)
	outDir := filepath.Join(t.TempDir(), "stages")

	var res PipelineRunResult
	decodeToolResult(t, callTool(t, newTestServer(), "image_hough_pipeline", map[string]interface{}{
		"path": path, "output_dir": outDir,
	}), &res)

	if len(res.Files) != 10 {
		t.Fatalf("got %d files, want 10", len(res.Files))
	}
	for _, f := range res.Files {
		if filepath.Dir(f) != outDir || !strings.HasPrefix(filepath.Base(f), "disk-") {
			t.Errorf("unexpected file path %s", f)
		}
		if _, err := os.Stat(f); err != nil {
			t.Errorf("%s not written: %v", f, err)
		}
	}
	if res.Candidates < len(res.Circles) {
		t.Errorf("candidates %d fewer than circles %d", res.Candidates, len(res.Circles))
	}
}

func TestImageHoughPipeline_DefaultsToInputDir(t *testing.T) {
	path := createDiskImage(t, 16, 16, 8, 8, 4)
	var res PipelineRunResult
	decodeToolResult(t, callTool(t, newTestServer(), "image_hough_pipeline", map[string]interface{}{
		"path": path, "format": "jpg",
	}), &res)

	want := filepath.Join(filepath.Dir(path), "disk-grayscale.jpg")
	if len(res.Files) == 0 || res.Files[0] != want {
		t.Errorf("first file: got %v, want %s", res.Files, want)
	}
}

func TestToolErrors(t *testing.T) {
	path := createDiskImage(t, 8, 8, 4, 4, 2)
	missing := filepath.Join(t.TempDir(), "missing.png")

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		wantCode int
	}{
		{"low not below high", "image_detect_circles", map[string]interface{}{"path": path, "low_threshold": 120}, codeInvalidParams},
		{"zero kernel", "image_edge_detect", map[string]interface{}{"path": path, "kernel_size": 0}, codeInvalidParams},
		{"missing file", "image_detect_circles", map[string]interface{}{"path": missing}, codeToolFailed},
		{"empty path", "image_edge_detect", map[string]interface{}{}, codeToolFailed},
		{"region out of bounds", "image_detect_circles", map[string]interface{}{
			"path": path, "region": map[string]interface{}{"x1": 0, "y1": 0, "x2": 20, "y2": 4},
		}, codeToolFailed},
		{"even peak window", "image_detect_circles", map[string]interface{}{"path": path, "peak_window": 10}, codeInvalidParams},
		{"oversized kernel", "image_edge_detect", map[string]interface{}{"path": path, "kernel_size": 1000000000}, codeInvalidParams},
		{"bad color", "image_detect_circles", map[string]interface{}{"path": path, "color": "#GG0000"}, codeInvalidParams},
		{"unknown tool", "image_sharpen", map[string]interface{}{"path": path}, codeToolFailed},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatalf("expected error, got %+v", resp.Result)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code: got %d, want %d (%v)", resp.Error.Code, tt.wantCode, resp.Error.Data)
			}
		})
	}
}

func TestHandleToolsCall_MalformedParams(t *testing.T) {
	resp := newTestServer().handleToolsCall(&MCPRequest{
		JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`[1,2]`),
	})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("expected -32602, got %+v", resp)
	}
}

func TestRegionOffset(t *testing.T) {
	if p := regionOffset(nil); p.X != 0 || p.Y != 0 {
		t.Errorf("nil region: got %v", p)
	}
	if p := regionOffset(&imaging.Region{X1: 5, Y1: 7, X2: 9, Y2: 9}); p.X != 5 || p.Y != 7 {
		t.Errorf("got %v, want (5,7)", p)
	}
}

func TestMustMarshalJSON(t *testing.T) {
	got := mustMarshalJSON(map[string]int{"a": 1})
	if got != fmt.Sprintf("{\n  %q: 1\n}", "a") {
		t.Errorf("got %q", got)
	}
}
