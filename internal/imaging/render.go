package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Render replays cmds over src and returns the result as a new image with
// src's dimensions, rebased to the origin.
//
// Parameters:
//   - src: The base image. It is never modified.
//   - cmds: Drawing commands, usually from LayoutWatermark.
//   - face: The font face used by DrawText.
//   - fill: The text color.
//
// Returns:
//   - A new NRGBA image. Without a DrawBase command the canvas starts
//     fully transparent.
//
// # Compositing
//
// Alpha and rotation only affect text drawn after them; the base image is
// copied exactly, at full opacity. Consecutive DrawText commands under the
// same alpha and rotation are rasterized on one layer and composited
// together, so overlapping instances are not blended twice. Pixels the text
// does not reach keep their original bytes, including the color of
// semi-transparent pixels.
func Render(src image.Image, cmds []DrawCommand, face font.Face, fill color.Color) *image.NRGBA {
	b := src.Bounds()
	r := &renderer{
		dst:   image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy())),
		face:  face,
		fill:  image.NewUniform(fill),
		alpha: 1,
	}

	for _, cmd := range cmds {
		switch cmd.Op {
		case OpDrawBase:
			r.flush()
			// The base covers the whole canvas, so it replaces anything drawn
			// before it.
			r.dst = imaging.Clone(src)
		case OpSetAlpha:
			r.flush()
			r.alpha = math.Max(0, math.Min(1, cmd.Alpha))
		case OpRotate:
			r.flush()
			r.angle = cmd.Angle
			r.pivot = cmd.Pivot
		case OpDrawText:
			r.drawText(cmd.Text, cmd.At)
		}
	}
	r.flush()

	return r.dst
}

type renderer struct {
	dst  *image.NRGBA
	face font.Face
	fill image.Image

	alpha float64
	angle float64
	pivot Point

	// layer holds text not yet composited. It is large enough to hold
	// everything the rotation can bring into view; canvas (0,0) sits at
	// offset inside it.
	layer  *image.RGBA
	offset image.Point
}

func (r *renderer) drawText(text string, at Point) {
	if text == "" {
		return
	}
	if r.layer == nil {
		bounds := rotatedCover(r.dst.Bounds(), r.angle, r.pivot)
		r.offset = bounds.Min.Mul(-1)
		r.layer = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	}

	d := &font.Drawer{
		Dst:  r.layer,
		Src:  r.fill,
		Face: r.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round((at.X + float64(r.offset.X)) * 64)),
			Y: fixed.Int26_6(math.Round((at.Y + float64(r.offset.Y)) * 64)),
		},
	}
	d.DrawString(text)
}

// flush composites the pending text layer with the current rotation and alpha.
func (r *renderer) flush() {
	if r.layer == nil {
		return
	}
	layer := r.layer
	r.layer = nil

	if r.alpha <= 0 {
		return
	}

	rotated := layer
	if math.Mod(r.angle, 360) != 0 {
		pivot := image.Pt(int(math.Round(r.pivot.X)), int(math.Round(r.pivot.Y))).Add(r.offset)
		rotated = transform.Rotate(layer, r.angle, &transform.RotationOptions{Pivot: &pivot})
	}

	blendOver(r.dst, rotated, r.offset, r.alpha)
}

// blendOver composites the premultiplied src over the non-premultiplied dst
// with src's alpha scaled by alpha. dst pixel (x,y) takes src pixel
// (x,y)+offset. Pixels where src is fully transparent are left untouched.
func blendOver(dst *image.NRGBA, src *image.RGBA, offset image.Point, alpha float64) {
	db := dst.Bounds()
	sb := src.Bounds()

	for y := db.Min.Y; y < db.Max.Y; y++ {
		sy := y + offset.Y
		if sy < sb.Min.Y || sy >= sb.Max.Y {
			continue
		}
		for x := db.Min.X; x < db.Max.X; x++ {
			sx := x + offset.X
			if sx < sb.Min.X || sx >= sb.Max.X {
				continue
			}
			s := src.Pix[src.PixOffset(sx, sy):]
			if s[3] == 0 {
				continue
			}
			d := dst.Pix[dst.PixOffset(x, y):]

			sa := float64(s[3]) / 255 * alpha
			da := float64(d[3]) / 255
			outA := sa + da*(1-sa)
			if outA <= 0 {
				continue
			}
			for c := 0; c < 3; c++ {
				// s is premultiplied, d is not.
				v := float64(s[c])*alpha + float64(d[c])*da*(1-sa)
				d[c] = storeByte(v / outA)
			}
			d[3] = storeByte(outA * 255)
		}
	}
}

// rotatedCover returns canvas grown to include its corners rotated by
// +angle and -angle degrees around pivot. Any layer pixel a rotation of
// angle can move onto the canvas lies inside it.
func rotatedCover(canvas image.Rectangle, angle float64, pivot Point) image.Rectangle {
	if math.Mod(angle, 360) == 0 {
		return canvas
	}
	minX, minY := float64(canvas.Min.X), float64(canvas.Min.Y)
	maxX, maxY := float64(canvas.Max.X), float64(canvas.Max.Y)
	corners := [4]Point{{minX, minY}, {maxX, minY}, {minX, maxY}, {maxX, maxY}}

	for _, sign := range []float64{1, -1} {
		sin, cos := math.Sincos(sign * angle * math.Pi / 180)
		for _, c := range corners {
			dx, dy := c.X-pivot.X, c.Y-pivot.Y
			x := pivot.X + dx*cos - dy*sin
			y := pivot.Y + dx*sin + dy*cos
			minX, maxX = math.Min(minX, x), math.Max(maxX, x)
			minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		}
	}
	return image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}
