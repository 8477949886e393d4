package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// pipelineProperties returns the schema of the tunables shared by every
// pipeline tool, merged with extra tool-specific properties.
func pipelineProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional region to analyse; coordinates in the result are translated back to the full image",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
				"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
				"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
				"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"kernel_size": map[string]interface{}{
			"type":        "integer",
			"description": "Gaussian kernel length, sigma 1.4, at most 99 (default 5)",
			"default":     5,
		},
		"low_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum thinned gradient magnitude of a weak edge (default 20)",
			"default":     20,
		},
		"high_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum thinned gradient magnitude of a strong edge (default 120)",
			"default":     120,
		},
		"peak_window": map[string]interface{}{
			"type":        "integer",
			"description": "Odd side of the accumulator neighbourhood a centre must dominate, at most 101 (default 11)",
			"default":     11,
		},
		"center_fraction": map[string]interface{}{
			"type":        "number",
			"description": "Share of the peak vote count a centre must exceed, 0-1 (default 0.2)",
			"default":     0.2,
		},
		"max_radius": map[string]interface{}{
			"type":        "integer",
			"description": "Largest radius tried, further capped at half the image diagonal (default 200)",
			"default":     200,
		},
		"radius_fraction": map[string]interface{}{
			"type":        "number",
			"description": "Share of the best radius score a circle must exceed, 0-1 (default 0.2)",
			"default":     0.2,
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Edge and Circle Detection
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection (grayscale, Gaussian blur, Sobel, non-maximum suppression, double threshold, hysteresis) and return the linked edge map as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_detect_circles",
			Description: "Detect circles with a gradient-guided Hough transform. Returns centre, radius, vote count and score of every accepted circle, and optionally the annotated edge map.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the edge map with detected circles drawn on it as base64 PNG (default false)",
						"default":     false,
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Write '#n r=R' next to each circle in the returned image (default false)",
						"default":     false,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline and label colour as #RRGGBB (default #15A0FF)",
						"default":     "#15A0FF",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Pipeline Inspection
		{
			Name:        "image_pipeline_stage",
			Description: "Run the full pipeline and return one intermediate stage as base64-encoded PNG. Useful for tuning thresholds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"stage": map[string]interface{}{
						"type":        "string",
						"description": "Stage to return",
						"enum": []string{
							"grayscale", "blurred", "x-gradient", "y-gradient", "edge-magnitude",
							"non-max-edges", "classified-edges", "hysteresis-edges",
							"hough-accumulator", "annotated-circles",
						},
					},
				}),
				"required": []string{"path", "stage"},
			},
		},
		{
			Name:        "image_hough_pipeline",
			Description: "Run the full pipeline and save every stage image as <name>-<stage>.<format> in an output directory. Returns the written paths and the accepted circles.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory for stage images (default: the input image's directory)",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output file extension",
						"enum":        []string{"png", "jpg", "gif", "bmp", "tiff"},
						"default":     "png",
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
