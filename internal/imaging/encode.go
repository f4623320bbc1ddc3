package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when a JPEG is requested with quality 0.
const DefaultJPEGQuality = 85

// EncodedImage is an encoded raster ready to hand back to a caller.
type EncodedImage struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	MimeType  string `json:"mime_type"`
	SizeBytes int    `json:"size_bytes"`
	Data      []byte `json:"-"`
}

// Base64 returns the payload in standard base64.
func (e *EncodedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(e.Data)
}

// NormalizeFormat maps user spellings ("jpg", "PNG", "") to an encoder name.
// An empty format means PNG.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "png":
		return "png", nil
	case "jpg", "jpeg":
		return "jpeg", nil
	case "gif":
		return "gif", nil
	case "webp":
		return "", fmt.Errorf("webp output is not supported, use png or jpeg")
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// Encode encodes img as PNG, JPEG or GIF. Quality only applies to JPEG and
// is clamped to 1..100; 0 means DefaultJPEGQuality. JPEG output is
// flattened onto white since the format has no alpha.
func Encode(img image.Image, format string, quality int) (*EncodedImage, error) {
	format, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case "jpeg":
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		quality = max(1, min(100, quality))
		if err := jpeg.Encode(&buf, flatten(img, color.White), &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("encode gif: %w", err)
		}
	}

	b := img.Bounds()
	return &EncodedImage{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Format:    format,
		MimeType:  "image/" + format,
		SizeBytes: buf.Len(),
		Data:      buf.Bytes(),
	}, nil
}

// flatten composites img over an opaque background.
func flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), bg)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// CompressOptions controls Compress. Zero MaxWidth/MaxHeight means no limit
// on that axis.
type CompressOptions struct {
	MaxWidth  int
	MaxHeight int
	Format    string
	Quality   int
}

// CompressResult reports the re-encoded image and how much it saved.
type CompressResult struct {
	Image         *EncodedImage `json:"image"`
	OriginalBytes int           `json:"original_bytes"`
	SavedPercent  float64       `json:"saved_percent"`
}

// Compress downsizes img to fit within the configured bounds (never
// upscaling, aspect ratio kept) and re-encodes it. originalBytes is the
// size of the source file, used only for reporting; pass 0 if unknown.
func Compress(img image.Image, opts CompressOptions, originalBytes int) (*CompressResult, error) {
	if opts.MaxWidth < 0 || opts.MaxHeight < 0 {
		return nil, fmt.Errorf("max dimensions must not be negative")
	}

	b := img.Bounds()
	maxW, maxH := opts.MaxWidth, opts.MaxHeight
	if maxW == 0 {
		maxW = b.Dx()
	}
	if maxH == 0 {
		maxH = b.Dy()
	}

	out := img
	if b.Dx() > maxW || b.Dy() > maxH {
		out = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	enc, err := Encode(out, opts.Format, opts.Quality)
	if err != nil {
		return nil, err
	}

	result := &CompressResult{Image: enc, OriginalBytes: originalBytes}
	if originalBytes > 0 {
		result.SavedPercent = (1 - float64(enc.SizeBytes)/float64(originalBytes)) * 100
	}
	return result, nil
}
