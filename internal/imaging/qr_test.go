package imaging

import (
	"image"
	"image/color"
	"testing"
)

// moduleColor returns the pixel at the center of module (mx, my).
func moduleColor(res *QRResult, mx, my int) color.NRGBA {
	size := res.Image.Bounds().Dx()
	px := int((float64(mx) + 0.5) * float64(size) / float64(res.Modules))
	py := int((float64(my) + 0.5) * float64(size) / float64(res.Modules))
	return res.Image.NRGBAAt(px, py)
}

func TestQRCode(t *testing.T) {
	black := color.NRGBA{0, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}

	res, err := QRCode(QRSpec{Content: "https://example.com"})
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}
	if res.Image.Bounds() != image.Rect(0, 0, DefaultQRSize, DefaultQRSize) {
		t.Errorf("bounds: got %v, want %dx%d", res.Image.Bounds(), DefaultQRSize, DefaultQRSize)
	}
	// Version 1 is 21 modules; every version adds 4, plus 8 for the quiet zone.
	if res.Modules < 29 || (res.Modules-29)%4 != 0 {
		t.Errorf("unexpected module count %d", res.Modules)
	}

	// Quiet zone, then the top-left finder pattern: dark ring, light ring,
	// dark center.
	checks := []struct {
		name   string
		mx, my int
		want   color.NRGBA
	}{
		{"quiet zone", 0, 0, white},
		{"finder outer ring", 4, 4, black},
		{"finder inner ring", 5, 5, white},
		{"finder center", 7, 7, black},
	}
	for _, c := range checks {
		if got := moduleColor(res, c.mx, c.my); got != c.want {
			t.Errorf("%s at module (%d,%d): got %v, want %v", c.name, c.mx, c.my, got, c.want)
		}
	}
}

func TestQRCode_Options(t *testing.T) {
	res, err := QRCode(QRSpec{
		Content:    "hello",
		Size:       300,
		Level:      "HIGH",
		Foreground: "#0000FF",
		Background: "#FFFF00",
		NoBorder:   true,
	})
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}
	if res.Image.Bounds().Dx() != 300 {
		t.Errorf("width: got %d, want 300", res.Image.Bounds().Dx())
	}
	if res.Modules < 21 || (res.Modules-21)%4 != 0 {
		t.Errorf("without a border the symbol should be 21+4n modules, got %d", res.Modules)
	}
	// Without the quiet zone the corner is the finder's dark ring.
	if got := res.Image.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("corner: got %v, want blue", got)
	}
	if got := moduleColor(res, 1, 1); got != (color.NRGBA{255, 255, 0, 255}) {
		t.Errorf("finder inner ring: got %v, want yellow", got)
	}
}

func TestQRCode_HigherLevelNeedsMoreModules(t *testing.T) {
	content := "The quick brown fox jumps over the lazy dog"
	low, err := QRCode(QRSpec{Content: content, Level: "low"})
	if err != nil {
		t.Fatalf("low: %v", err)
	}
	highest, err := QRCode(QRSpec{Content: content, Level: "highest"})
	if err != nil {
		t.Fatalf("highest: %v", err)
	}
	if highest.Modules <= low.Modules {
		t.Errorf("highest level should need a larger symbol: low %d, highest %d", low.Modules, highest.Modules)
	}
}

func TestQRCode_SmallSizeRaisedToSymbol(t *testing.T) {
	res, err := QRCode(QRSpec{Content: "x", Size: 5})
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}
	if got := res.Image.Bounds().Dx(); got != res.Modules {
		t.Errorf("width: got %d, want one pixel per module (%d)", got, res.Modules)
	}
}

func TestQRCode_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec QRSpec
	}{
		{"empty content", QRSpec{}},
		{"negative size", QRSpec{Content: "x", Size: -1}},
		{"too large", QRSpec{Content: "x", Size: MaxQRSize + 1}},
		{"unknown level", QRSpec{Content: "x", Level: "extreme"}},
		{"bad foreground", QRSpec{Content: "x", Foreground: "#12"}},
		{"bad background", QRSpec{Content: "x", Background: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := QRCode(tt.spec); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
