package imaging

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font family names accepted by LoadFace. Any other name (CSS stacks like
// "Arial, sans-serif" included) falls back to the regular face.
const (
	FamilySans      = "sans-serif"
	FamilyBold      = "bold"
	FamilyItalic    = "italic"
	FamilyMonospace = "monospace"
)

var familyTTF = map[string][]byte{
	FamilySans:      goregular.TTF,
	FamilyBold:      gobold.TTF,
	FamilyItalic:    goitalic.TTF,
	FamilyMonospace: gomono.TTF,
}

var (
	fontsMu sync.Mutex
	fonts   = map[string]*opentype.Font{}
)

// resolveFamily maps a requested family to one of the embedded ones.
func resolveFamily(family string) string {
	f := strings.ToLower(strings.TrimSpace(family))
	switch {
	case f == "":
		return FamilySans
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"):
		return FamilyMonospace
	case strings.Contains(f, "bold"), strings.Contains(f, "impact"):
		return FamilyBold
	case strings.Contains(f, "italic"):
		return FamilyItalic
	}
	return FamilySans
}

// LoadFace returns a face for family at size pixels.
func LoadFace(family string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %v", size)
	}
	name := resolveFamily(family)

	fontsMu.Lock()
	f, ok := fonts[name]
	if !ok {
		var err error
		f, err = opentype.Parse(familyTTF[name])
		if err != nil {
			fontsMu.Unlock()
			return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
		}
		fonts[name] = f
	}
	fontsMu.Unlock()

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// TextWidth returns the advance width of text in pixels.
func TextWidth(face font.Face, text string) float64 {
	return float64(font.MeasureString(face, text)) / 64
}
