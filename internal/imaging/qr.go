package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

// QR code size limits in pixels.
const (
	DefaultQRSize = 256
	MaxQRSize     = 4096
)

// QRLevels lists the accepted error-correction levels, lowest first.
var QRLevels = []string{"low", "medium", "high", "highest"}

var qrLevels = map[string]qrcode.RecoveryLevel{
	"low":     qrcode.Low,
	"medium":  qrcode.Medium,
	"high":    qrcode.High,
	"highest": qrcode.Highest,
}

// QRSpec describes a QR code image.
type QRSpec struct {
	Content    string `json:"content"`
	Size       int    `json:"size"`
	Level      string `json:"level"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
	NoBorder   bool   `json:"no_border"`
}

// QRResult is a rendered QR code.
type QRResult struct {
	Image *image.NRGBA

	// Modules is the symbol's edge length in modules, quiet zone included.
	Modules int
}

// QRCode renders spec.Content as a square QR code.
//
// Parameters:
//   - spec.Size: Edge length in pixels, 0 means DefaultQRSize. Sizes smaller
//     than the symbol are raised to one pixel per module.
//   - spec.Level: One of QRLevels, empty means "medium".
//   - spec.Foreground, spec.Background: Hex colors, default black on white.
//   - spec.NoBorder: Drop the 4-module quiet zone.
//
// Returns:
//   - The image and its module count
//   - An error for empty content, content too long for the level, an
//     unknown level, a bad color or a size above MaxQRSize
func QRCode(spec QRSpec) (*QRResult, error) {
	if spec.Content == "" {
		return nil, fmt.Errorf("QR content is empty")
	}
	if spec.Size == 0 {
		spec.Size = DefaultQRSize
	}
	if spec.Size < 0 || spec.Size > MaxQRSize {
		return nil, fmt.Errorf("QR size must be between 1 and %d, got %d", MaxQRSize, spec.Size)
	}

	levelName := strings.ToLower(strings.TrimSpace(spec.Level))
	if levelName == "" {
		levelName = "medium"
	}
	level, ok := qrLevels[levelName]
	if !ok {
		return nil, fmt.Errorf("unknown QR level %q, want one of %s", spec.Level, strings.Join(QRLevels, ", "))
	}

	fg, err := parseColorOr(spec.Foreground, "#000000")
	if err != nil {
		return nil, fmt.Errorf("QR foreground: %w", err)
	}
	bg, err := parseColorOr(spec.Background, "#FFFFFF")
	if err != nil {
		return nil, fmt.Errorf("QR background: %w", err)
	}

	q, err := qrcode.New(spec.Content, level)
	if err != nil {
		return nil, fmt.Errorf("encode QR content: %w", err)
	}
	q.ForegroundColor = fg
	q.BackgroundColor = bg
	q.DisableBorder = spec.NoBorder

	return &QRResult{
		Image:   imaging.Clone(q.Image(spec.Size)),
		Modules: len(q.Bitmap()),
	}, nil
}

// parseColorOr parses hex, or fallback when hex is empty.
func parseColorOr(hex, fallback string) (color.NRGBA, error) {
	if hex == "" {
		hex = fallback
	}
	return ParseHexColor(hex)
}
