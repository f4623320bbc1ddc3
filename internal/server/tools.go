package server

import (
	"fmt"

	"github.com/ironsheep/media-tools-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
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
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image. The result is returned base64-encoded, or written to output_path when given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to write the result to instead of returning it inline",
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_crop_quadrant",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center). The result is returned base64-encoded, or written to output_path when given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named region to extract",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to write the result to instead of returning it inline",
					},
				},
				"required": []string{"path", "region"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Get color values at multiple pixel coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Array of points to sample",
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Count every pixel of an image (or a region of it) and return the N most common colors, quantized to steps of 32, with their share in percent.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of dominant colors to return (default 5)",
						"default":     5,
					},
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"description": "Optional region to analyze. If omitted, analyzes entire image.",
					},
				},
				"required": []string{"path"},
			},
		},

		// Filters and Palette
		{
			Name:        "image_extract_palette",
			Description: "Extract the dominant color palette of an image from an 80x80 sample. Channels are rounded to multiples of 32; colors are returned most frequent first with their sample counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return (default 8)",
						"default":     8,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_apply_filter",
			Description: "Apply a color filter and an optional temperature shift to an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"filter": map[string]interface{}{
						"type":        "string",
						"enum":        filterNames(),
						"description": "Filter to apply. Unknown names leave the colors unchanged.",
						"default":     "original",
					},
					"temperature": map[string]interface{}{
						"type":        "integer",
						"description": "Color temperature shift, -100 (cooler) to 100 (warmer). Default 0",
						"default":     0,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg", "gif"},
						"description": "Output format (default from server configuration)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to write the result to instead of returning it inline",
					},
				},
				"required": []string{"path"},
			},
		},

		// Watermark
		{
			Name:        "image_watermark",
			Description: "Draw a text watermark onto an image, either once at one of nine positions or tiled across the whole image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Watermark text",
					},
					"font_size": map[string]interface{}{
						"type":        "number",
						"description": "Font size in pixels (default 24)",
						"default":     24.0,
					},
					"font_family": map[string]interface{}{
						"type":        "string",
						"description": "Font family: sans-serif, bold, italic or monospace. Other names fall back to sans-serif.",
						"default":     "sans-serif",
					},
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Text opacity, 0-100 (default 50)",
						"default":     50.0,
					},
					"rotation": map[string]interface{}{
						"type":        "number",
						"description": "Clockwise rotation in degrees (default 0)",
						"default":     0.0,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Text color as hex (default #FFFFFF)",
						"default":     "#FFFFFF",
					},
					"position": map[string]interface{}{
						"type":        "string",
						"enum":        positionNames(),
						"description": "Anchor for a single watermark (default bottom-right)",
						"default":     "bottom-right",
					},
					"repeat": map[string]interface{}{
						"type":        "boolean",
						"description": "Tile the text across the image; position is ignored",
						"default":     false,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg", "gif"},
						"description": "Output format (default from server configuration)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to write the result to instead of returning it inline",
					},
				},
				"required": []string{"path", "text"},
			},
		},

		// Output Tools
		{
			Name:        "image_compress",
			Description: "Downscale an image to fit within a maximum size (never upscaling) and re-encode it. Reports the original and compressed sizes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum width in pixels (0 = no limit)",
						"default":     0,
					},
					"max_height": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum height in pixels (0 = no limit)",
						"default":     0,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg", "gif"},
						"description": "Output format (default jpeg)",
						"default":     "jpeg",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality, 1-100 (default from server configuration)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to write the result to instead of returning it inline",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_favicons",
			Description: "Generate square PNG favicons from an image, center-cropped, at the standard sizes or the ones given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"sizes": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "Icon sizes in pixels (default 16, 32, 48, 64, 128, 180, 192, 512)",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional directory to write the icons to instead of returning them inline",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_generate_gradient",
			Description: "Render a linear gradient image from an angle and a list of color stops.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Image width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Image height in pixels",
					},
					"angle": map[string]interface{}{
						"type":        "number",
						"description": "Gradient direction in degrees, CSS convention (0 = bottom to top, 90 = left to right). Default 90",
						"default":     90.0,
					},
					"stops": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"color":    map[string]interface{}{"type": "string", "description": "Hex color"},
								"position": map[string]interface{}{"type": "number", "description": "Position 0-1. If every stop omits it, stops are spread evenly."},
							},
							"required": []string{"color"},
						},
						"description": "At least two color stops",
					},
					"space": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rgb", "lab", "hcl", "luv"},
						"description": "Color space to blend in (default rgb)",
						"default":     "rgb",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg", "gif"},
						"description": "Output format (default from server configuration)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to write the result to instead of returning it inline",
					},
				},
				"required": []string{"width", "height", "stops"},
			},
		},
		{
			Name:        "image_generate_qr",
			Description: "Render text or a URL as a QR code image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"content": map[string]interface{}{
						"type":        "string",
						"description": "Text or URL to encode",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": fmt.Sprintf("Edge length in pixels, up to %d (default %d)", imaging.MaxQRSize, imaging.DefaultQRSize),
						"default":     imaging.DefaultQRSize,
					},
					"level": map[string]interface{}{
						"type":        "string",
						"enum":        imaging.QRLevels,
						"description": "Error-correction level (default medium)",
						"default":     "medium",
					},
					"foreground": map[string]interface{}{
						"type":        "string",
						"description": "Module color as hex (default #000000)",
						"default":     "#000000",
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Background color as hex (default #FFFFFF)",
						"default":     "#FFFFFF",
					},
					"no_border": map[string]interface{}{
						"type":        "boolean",
						"description": "Omit the 4-module quiet zone",
						"default":     false,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg", "gif"},
						"description": "Output format (default from server configuration)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file path to write the result to instead of returning it inline",
					},
				},
				"required": []string{"content"},
			},
		},
	}
}

func filterNames() []string {
	filters := imaging.Filters()
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = f.String()
	}
	return names
}

func positionNames() []string {
	names := make([]string, len(imaging.Positions))
	for i, p := range imaging.Positions {
		names[i] = string(p)
	}
	return names
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
