package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// QuadrantNames lists the named regions accepted by CropQuadrant, in the
// order the tools advertise them.
var QuadrantNames = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// quadrants maps a region name to its rectangle in a w x h image at the
// origin. Odd sizes give the extra row or column to the right and bottom.
var quadrants = map[string]func(w, h int) image.Rectangle{
	"top-left":     func(w, h int) image.Rectangle { return image.Rect(0, 0, w/2, h/2) },
	"top-right":    func(w, h int) image.Rectangle { return image.Rect(w/2, 0, w, h/2) },
	"bottom-left":  func(w, h int) image.Rectangle { return image.Rect(0, h/2, w/2, h) },
	"bottom-right": func(w, h int) image.Rectangle { return image.Rect(w/2, h/2, w, h) },
	"top-half":     func(w, h int) image.Rectangle { return image.Rect(0, 0, w, h/2) },
	"bottom-half":  func(w, h int) image.Rectangle { return image.Rect(0, h/2, w, h) },
	"left-half":    func(w, h int) image.Rectangle { return image.Rect(0, 0, w/2, h) },
	"right-half":   func(w, h int) image.Rectangle { return image.Rect(w/2, 0, w, h) },
	"center":       func(w, h int) image.Rectangle { return image.Rect(w/4, h/4, w-w/4, h-h/4) },
}

// Crop cuts the region (x1,y1)-(x2,y2) out of img and optionally rescales it.
//
// Coordinates are in img's own coordinate space, so an image whose bounds
// do not start at (0,0) is addressed with its real bounds. The result is
// always rebased to the origin.
//
// Parameters:
//   - x1, y1: Top-left corner, inclusive.
//   - x2, y2: Bottom-right corner, exclusive.
//   - scale: Resize factor applied after cropping with Lanczos resampling.
//     1, zero and negative values keep the cropped size. Each side is at
//     least one pixel.
//
// Returns:
//   - *image.NRGBA: The cropped copy. img is not modified.
//   - error: Non-nil if the region leaves the image or is empty.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*image.NRGBA, error) {
	bounds := img.Bounds()
	region := image.Rect(x1, y1, x2, y2)

	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	if !region.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", region, bounds)
	}

	cropped := imaging.Crop(img, region)
	if scale <= 0 || scale == 1 {
		return cropped, nil
	}

	w := max(1, int(float64(region.Dx())*scale))
	h := max(1, int(float64(region.Dy())*scale))
	return imaging.Resize(cropped, w, h, imaging.Lanczos), nil
}

// QuadrantRect returns the rectangle a named region covers within bounds.
// Region names are the lowercase entries of QuadrantNames.
func QuadrantRect(bounds image.Rectangle, region string) (image.Rectangle, error) {
	rect, ok := quadrants[region]
	if !ok {
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", region)
	}
	return rect(bounds.Dx(), bounds.Dy()).Add(bounds.Min), nil
}

// CropQuadrant crops one of the QuadrantNames regions out of img; see Crop
// for scale.
func CropQuadrant(img image.Image, region string, scale float64) (*image.NRGBA, error) {
	r, err := QuadrantRect(img.Bounds(), region)
	if err != nil {
		return nil, err
	}
	return Crop(img, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, scale)
}
