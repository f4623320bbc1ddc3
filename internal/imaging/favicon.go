package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DefaultFaviconSizes are the square edge lengths generated when the caller
// does not choose: classic favicons, the Apple touch icon (180) and the
// web-manifest icons (192, 512).
var DefaultFaviconSizes = []int{16, 32, 48, 64, 128, 180, 192, 512}

// Icon is one generated favicon.
type Icon struct {
	Size  int          `json:"size"`
	Name  string       `json:"name"`
	Image *image.NRGBA `json:"-"`
}

// Favicons center-crops img to a square and scales it to each size.
// Sizes must be between 1 and 1024; nil or empty means DefaultFaviconSizes.
func Favicons(img image.Image, sizes []int) ([]Icon, error) {
	if len(sizes) == 0 {
		sizes = DefaultFaviconSizes
	}

	icons := make([]Icon, 0, len(sizes))
	for _, size := range sizes {
		if size < 1 || size > 1024 {
			return nil, fmt.Errorf("favicon size %d out of range 1-1024", size)
		}
		icons = append(icons, Icon{
			Size:  size,
			Name:  faviconName(size),
			Image: imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos),
		})
	}
	return icons, nil
}

func faviconName(size int) string {
	switch size {
	case 180:
		return "apple-touch-icon.png"
	case 192, 512:
		return fmt.Sprintf("android-chrome-%dx%d.png", size, size)
	}
	return fmt.Sprintf("favicon-%dx%d.png", size, size)
}
