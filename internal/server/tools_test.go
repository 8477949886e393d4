package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	want := []string{
		"image_load",
		"image_dimensions",
		"image_edge_detect",
		"image_detect_circles",
		"image_pipeline_stage",
		"image_hough_pipeline",
	}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}

	seen := map[string]bool{}
	for i, tool := range tools {
		if tool.Name != want[i] {
			t.Errorf("tool %d: got %s, want %s", i, tool.Name, want[i])
		}
		if seen[tool.Name] {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		seen[tool.Name] = true

		if tool.Description == "" {
			t.Errorf("%s: empty description", tool.Name)
		}
		if tool.InputSchema["type"] != "object" {
			t.Errorf("%s: schema type %v", tool.Name, tool.InputSchema["type"])
		}

		required, _ := tool.InputSchema["required"].([]string)
		if len(required) == 0 || required[0] != "path" {
			t.Errorf("%s: path must be required, got %v", tool.Name, required)
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		for _, r := range required {
			if _, ok := props[r]; !ok {
				t.Errorf("%s: required %s has no property schema", tool.Name, r)
			}
		}
	}
}

func TestPipelineProperties(t *testing.T) {
	props := pipelineProperties(map[string]interface{}{"extra": map[string]interface{}{"type": "string"}})
	for _, name := range []string{
		"path", "region", "kernel_size", "low_threshold", "high_threshold",
		"peak_window", "center_fraction", "max_radius", "radius_fraction", "extra",
	} {
		if _, ok := props[name]; !ok {
			t.Errorf("missing property %s", name)
		}
	}
}

func TestStageEnumMatchesPipeline(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "image_pipeline_stage" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		enum := props["stage"].(map[string]interface{})["enum"].([]string)
		for _, name := range enum {
			if !validStage(name) {
				t.Errorf("schema lists unknown stage %s", name)
			}
		}
		if len(enum) != 10 {
			t.Errorf("schema lists %d stages, want 10", len(enum))
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	resp := newTestServer().handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("unexpected error %+v", resp.Error)
	}

	b, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Tools) != 6 {
		t.Errorf("got %d tools, want 6", len(decoded.Tools))
	}
}
