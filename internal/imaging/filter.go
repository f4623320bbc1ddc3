package imaging

import (
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// PixelBuffer is a flat run of non-premultiplied R,G,B,A bytes, the layout of
// image.NRGBA.Pix. Its length is always a multiple of 4.
type PixelBuffer []uint8

// Filter identifies one of the fixed color filters.
type Filter int

const (
	FilterOriginal Filter = iota
	FilterGrayscale
	FilterSepia
	FilterWarm
	FilterCool
	FilterVintage
	FilterDramatic
	FilterFade
	FilterVivid
)

var filterNames = [...]string{
	FilterOriginal:  "original",
	FilterGrayscale: "grayscale",
	FilterSepia:     "sepia",
	FilterWarm:      "warm",
	FilterCool:      "cool",
	FilterVintage:   "vintage",
	FilterDramatic:  "dramatic",
	FilterFade:      "fade",
	FilterVivid:     "vivid",
}

// String returns the filter's name as used by the tools.
func (f Filter) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return "unknown"
	}
	return filterNames[f]
}

// Filters returns every filter in display order.
func Filters() []Filter {
	out := make([]Filter, len(filterNames))
	for i := range filterNames {
		out[i] = Filter(i)
	}
	return out
}

// ParseFilter maps a filter name to its Filter. Unknown names map to
// FilterOriginal with ok=false, so callers that ignore ok get a no-op.
func ParseFilter(name string) (f Filter, ok bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range filterNames {
		if n == name {
			return Filter(i), true
		}
	}
	return FilterOriginal, false
}

// FilterDescriptor selects a filter and an optional temperature shift.
//
// Temperature is nominally -100..100 (positive is warmer). Values outside that
// range are applied as-is; the result is clamped per channel.
type FilterDescriptor struct {
	Filter      Filter `json:"filter"`
	Temperature int    `json:"temperature"`
}

// Filter coefficients.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114

	warmCoolUp   = 1.1
	warmCoolDown = 0.9

	dramaticContrast = 1.4
	dramaticMid      = 128.0
	dramaticBlueLift = 10.0

	fadeScale  = 0.85
	fadeOffset = 40.0

	vividSaturation = 1.6

	temperatureScale = 0.5
)

// ApplyFilter transforms buf in place according to d.
//
// Parameters:
//   - buf: Pixels in image.NRGBA byte order (R, G, B, A per pixel).
//   - d: The filter and an optional temperature shift.
//
// # Behavior
//
// The filter reads each pixel's R,G,B before writing any of them, then the
// temperature shift is applied to the filtered values. Alpha is never
// touched. A length that is not a multiple of 4 leaves the trailing bytes
// alone. Every write rounds half to even and saturates to 0-255.
//
// The temperature shift is clamped on both ends when it runs on its own
// (FilterOriginal) but only capped at 255 when it follows a filter. The
// byte store saturates at 0 either way, so the stored result is the same.
//
// # Example
//
//	img := imaging.Clone(src)
//	ApplyFilter(PixelBuffer(img.Pix), FilterDescriptor{Filter: FilterSepia, Temperature: 20})
func ApplyFilter(buf PixelBuffer, d FilterDescriptor) {
	standalone := d.Filter == FilterOriginal
	shift := float64(d.Temperature) * temperatureScale

	for i := 0; i+3 < len(buf); i += 4 {
		r, g, b := float64(buf[i]), float64(buf[i+1]), float64(buf[i+2])
		r, g, b = filterPixel(d.Filter, r, g, b)

		if d.Temperature != 0 {
			if standalone {
				r = clamp255(r + shift)
				b = clamp255(b - shift)
			} else {
				r = math.Min(255, r+shift)
				b = math.Min(255, b-shift)
			}
		}

		buf[i] = storeByte(r)
		buf[i+1] = storeByte(g)
		buf[i+2] = storeByte(b)
	}
}

// filterPixel returns the filtered channels for one pixel. An out-of-range
// Filter value falls through unchanged.
func filterPixel(f Filter, r, g, b float64) (float64, float64, float64) {
	switch f {
	case FilterOriginal:
		return r, g, b
	case FilterGrayscale:
		v := luma(r, g, b)
		return v, v, v
	case FilterSepia:
		return math.Min(255, 0.393*r+0.769*g+0.189*b),
			math.Min(255, 0.349*r+0.686*g+0.168*b),
			math.Min(255, 0.272*r+0.534*g+0.131*b)
	case FilterWarm:
		return math.Min(255, r*warmCoolUp), g, math.Min(255, b*warmCoolDown)
	case FilterCool:
		return math.Min(255, r*warmCoolDown), g, math.Min(255, b*warmCoolUp)
	case FilterVintage:
		v := luma(r, g, b)
		return math.Min(255, 0.9*v+50),
			math.Min(255, 0.8*v+30),
			math.Min(255, 0.7*v+20)
	case FilterDramatic:
		return clamp255((r-dramaticMid)*dramaticContrast + dramaticMid),
			clamp255((g-dramaticMid)*dramaticContrast + dramaticMid),
			clamp255((b-dramaticMid)*dramaticContrast + dramaticMid + dramaticBlueLift)
	case FilterFade:
		return math.Min(255, r*fadeScale+fadeOffset),
			math.Min(255, g*fadeScale+fadeOffset),
			math.Min(255, b*fadeScale+fadeOffset)
	case FilterVivid:
		avg := (r + g + b) / 3
		return math.Min(255, avg+(r-avg)*vividSaturation),
			math.Min(255, avg+(g-avg)*vividSaturation),
			math.Min(255, avg+(b-avg)*vividSaturation)
	}
	return r, g, b
}

// FilterImage returns a filtered NRGBA copy of img; img itself is untouched.
func FilterImage(img image.Image, d FilterDescriptor) *image.NRGBA {
	out := imaging.Clone(img)
	ApplyFilter(PixelBuffer(out.Pix), d)
	return out
}

func luma(r, g, b float64) float64 {
	return lumaR*r + lumaG*g + lumaB*b
}

func clamp255(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}

// storeByte rounds half to even and saturates, like a clamped byte array.
func storeByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
