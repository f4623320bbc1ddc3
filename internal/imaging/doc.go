// Package imaging provides the pixel operations behind the media tools.
//
// It covers the color filter engine, palette and dominant color extraction,
// the text watermark compositor, and the smaller single-shot tools: color
// picking, cropping, compression, favicons, gradients and QR codes.
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Pixel Buffers
//
// Filters work on a PixelBuffer, the non-premultiplied RGBA byte layout of
// image.NRGBA.Pix, and modify it in place. Every other operation returns a new
// image and leaves its input untouched. Writes saturate to 0-255 and round
// half to even.
//
// # Watermarks
//
// A watermark is laid out as a list of DrawCommand values (LayoutWatermark)
// and then replayed onto a copy of the source (Render). The layout is pure and
// can be inspected without rasterizing any text.
//
// # Thread Safety
//
// The ImageCache type and the font cache are safe for concurrent use.
// Individual image operations are stateless and can be called concurrently on
// different images.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Invalid region specifications (x1 >= x2 or y1 >= y2)
//   - Unparseable colors or unsupported output formats
//   - File I/O errors during image loading
//
// Unknown filter names are not an error; they leave the pixels unchanged.
package imaging
