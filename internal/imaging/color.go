package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 = fully transparent, 255 = opaque
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations, as
// returned by the color picker.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based with origin at top-left. The Hex format excludes
// alpha; use RGBA.A to get transparency information.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

	return &ColorResult{
		Hex:  hexString(c.R, c.G, c.B),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  rgbToHSL(c.R, c.G, c.B),
	}, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains color samples from multiple points, in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti extracts colors at multiple pixel coordinates in a single call.
//
// On error no partial results are returned.
func SampleColorsMulti(img image.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		color, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is inclusive, (X2, Y2) is exclusive.
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// Palette extraction parameters.
const (
	// PaletteSampleSize is the edge of the square copy the palette is
	// counted on, whatever the source size.
	PaletteSampleSize = 80

	// PaletteBucket is the quantization step per channel.
	PaletteBucket = 32

	// DefaultPaletteCount is used when a caller asks for zero colors.
	DefaultPaletteCount = 8
)

// ColorSample is one quantized palette entry and how many sampled pixels
// fell into it.
type ColorSample struct {
	R     uint8    `json:"r"`
	G     uint8    `json:"g"`
	B     uint8    `json:"b"`
	Count int      `json:"count"`
	Hex   string   `json:"hex"`
	HSL   HSLColor `json:"hsl"`
}

// ExtractPalette returns the count most frequent quantized colors of img,
// most frequent first.
//
// Parameters:
//   - img: The source image. Any size; it is not modified.
//   - count: Maximum number of colors. Zero or less means DefaultPaletteCount.
//
// Returns:
//   - []ColorSample: At most count entries. Fewer when the image holds fewer
//     distinct buckets.
//
// # Sampling
//
// The image is first reduced to a PaletteSampleSize square with
// nearest-neighbour sampling, so counts always sum to 6400. Each channel is
// rounded to the nearest multiple of PaletteBucket and clamped to 255.
// Buckets with equal counts keep the order in which they were first seen,
// scanning rows top to bottom. Alpha is ignored.
func ExtractPalette(img image.Image, count int) []ColorSample {
	if count <= 0 {
		count = DefaultPaletteCount
	}

	sample := imaging.Resize(img, PaletteSampleSize, PaletteSampleSize, imaging.NearestNeighbor)

	var counter bucketCounter
	for i := 0; i+3 < len(sample.Pix); i += 4 {
		counter.add(sample.Pix[i], sample.Pix[i+1], sample.Pix[i+2])
	}

	buckets := counter.ranked()
	if len(buckets) > count {
		buckets = buckets[:count]
	}

	out := make([]ColorSample, len(buckets))
	for i, b := range buckets {
		out[i] = ColorSample{
			R:     b.key[0],
			G:     b.key[1],
			B:     b.key[2],
			Count: b.count,
			Hex:   hexString(b.key[0], b.key[1], b.key[2]),
			HSL:   rgbToHSL(b.key[0], b.key[1], b.key[2]),
		}
	}
	return out
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequently occurring colors in an
// image, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors extracts the N most common colors from an image or region.
//
// Unlike ExtractPalette this counts every pixel of the region at full
// resolution and reports percentages. Quantization and tie-breaking are the
// same. A nil region means the whole image; a region is clipped to the
// image bounds.
func DominantColors(img image.Image, count int, region *Region) (*DominantColorsResult, error) {
	bounds := img.Bounds()
	if region != nil {
		bounds = image.Rect(region.X1, region.Y1, region.X2, region.Y2).Intersect(bounds)
		if bounds.Empty() {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) does not overlap the image",
				region.X1, region.Y1, region.X2, region.Y2)
		}
	}
	if count <= 0 {
		count = DefaultPaletteCount
	}

	var counter bucketCounter
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			counter.add(c.R, c.G, c.B)
		}
	}

	buckets := counter.ranked()
	if len(buckets) > count {
		buckets = buckets[:count]
	}

	colors := make([]ColorFrequency, len(buckets))
	for i, b := range buckets {
		colors[i] = ColorFrequency{
			Hex:        hexString(b.key[0], b.key[1], b.key[2]),
			Percentage: float64(b.count) / float64(counter.total) * 100,
			RGB:        RGBColor{R: b.key[0], G: b.key[1], B: b.key[2]},
		}
	}

	return &DominantColorsResult{Colors: colors}, nil
}

type bucket struct {
	key   [3]uint8
	count int
}

// bucketCounter counts quantized colors and remembers first-seen order.
type bucketCounter struct {
	index   map[[3]uint8]int
	buckets []bucket
	total   int
}

func (c *bucketCounter) add(r, g, b uint8) {
	if c.index == nil {
		c.index = make(map[[3]uint8]int)
	}
	key := [3]uint8{quantize(r), quantize(g), quantize(b)}
	i, ok := c.index[key]
	if !ok {
		i = len(c.buckets)
		c.index[key] = i
		c.buckets = append(c.buckets, bucket{key: key})
	}
	c.buckets[i].count++
	c.total++
}

// ranked returns the buckets by descending count, first-seen order on ties.
func (c *bucketCounter) ranked() []bucket {
	out := append([]bucket(nil), c.buckets...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	return out
}

// quantize rounds v to the nearest multiple of PaletteBucket, capped at 255.
func quantize(v uint8) uint8 {
	q := math.Round(float64(v)/PaletteBucket) * PaletteBucket
	if q > 255 {
		return 255
	}
	return uint8(q)
}

func hexString(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// rgbToHSL converts 8-bit RGB values to whole-number HSL
// (H 0-360, S and L 0-100).
func rgbToHSL(r, g, b uint8) HSLColor {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the leading '#'
// is optional).
func ParseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimSpace(hex)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if s[0] != '#' {
		s = "#" + s
	}

	switch len(s) {
	case 4, 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case 9:
		val, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %q", hex)
	}
}
