// Package server implements the MCP (Model Context Protocol) server for the media tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the imaging
// package through the MCP protocol, so MCP-compatible clients can filter,
// watermark, crop and otherwise process images on the local filesystem.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Region Operations:
//   - image_crop: Extract rectangular region
//   - image_crop_quadrant: Extract named region (top-left, center, etc.)
//
// Color Operations:
//   - image_sample_color: Get color at pixel
//   - image_sample_colors_multi: Sample multiple points
//   - image_dominant_colors: Full-resolution color counts with percentages
//
// Filters and Palette:
//   - image_extract_palette: Quantized palette from an 80x80 sample
//   - image_apply_filter: Color filter plus temperature shift
//
// Watermark:
//   - image_watermark: Single or tiled text watermark
//
// Output Tools:
//   - image_compress: Downscale and re-encode
//   - image_favicons: Square icons at the standard sizes
//   - image_generate_gradient: Linear gradient from color stops
//   - image_generate_qr: QR code from text or a URL
//
// Tools that produce an image return its metadata as JSON text plus an MCP
// image content block, or write the file to output_path and return only the
// metadata.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process. A tool that
// writes a file evicts that path, so later calls see the new contents.
//
// # Error Handling
//
// Failures are returned as JSON-RPC error responses:
//   - -32700: the request line is not JSON
//   - -32601: unknown method
//   - -32602: unknown tool or invalid arguments
//   - -32000: the tool itself failed (unreadable file, region outside the image)
//
// The data field carries the Go error string.
//
// # Usage
//
//	srv := server.New(config.Load())
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
package server
