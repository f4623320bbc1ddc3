package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Position is one of the nine watermark anchors.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionTopRight     Position = "top-right"
	PositionMiddleLeft   Position = "middle-left"
	PositionCenter       Position = "center"
	PositionMiddleRight  Position = "middle-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomRight  Position = "bottom-right"
)

// Positions lists the anchors in reading order.
var Positions = []Position{
	PositionTopLeft, PositionTopCenter, PositionTopRight,
	PositionMiddleLeft, PositionCenter, PositionMiddleRight,
	PositionBottomLeft, PositionBottomCenter, PositionBottomRight,
}

// Watermark layout constants, all relative to the font size.
const (
	watermarkPadding  = 0.8
	tileVerticalGap   = 4.0
	tileHorizontalGap = 2.5 // times the vertical gap

	DefaultWatermarkFontSize = 24
	DefaultWatermarkColor    = "#FFFFFF"

	// MinWatermarkFontSize is the smallest font size a watermark is drawn
	// at. Positive sizes below it are raised to it.
	MinWatermarkFontSize = 1.0

	// MaxWatermarkTiles bounds the number of DrawText commands a tiled
	// layout produces. Grids that would exceed it are spread out evenly.
	MaxWatermarkTiles = 20000
)

// WatermarkSpec describes a text watermark.
//
// Opacity is 0-100. Rotation is in degrees, clockwise. Repeat tiles the text
// across the whole image and ignores Position.
type WatermarkSpec struct {
	Text       string   `json:"text"`
	FontSize   float64  `json:"font_size"`
	Opacity    float64  `json:"opacity"`
	Rotation   float64  `json:"rotation"`
	Color      string   `json:"color"`
	Position   Position `json:"position"`
	Repeat     bool     `json:"repeat"`
	FontFamily string   `json:"font_family"`
}

// ParsePosition accepts the anchor names, case-insensitively. "middle-center"
// and "middle" are aliases for center.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "middle-center", "middle":
		return PositionCenter, nil
	}
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown watermark position: %s", s)
}

// Point is a canvas coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawOp is the kind of a DrawCommand.
type DrawOp int

const (
	OpDrawBase DrawOp = iota // copy the source image at full opacity
	OpSetAlpha               // alpha for the text drawn after it
	OpRotate                 // rotation for the text drawn after it
	OpDrawText               // text with its baseline starting at At
)

func (op DrawOp) String() string {
	switch op {
	case OpDrawBase:
		return "DrawBase"
	case OpSetAlpha:
		return "SetAlpha"
	case OpRotate:
		return "Rotate"
	case OpDrawText:
		return "DrawText"
	}
	return fmt.Sprintf("DrawOp(%d)", int(op))
}

// DrawCommand is one step of a watermark drawing. Only the fields of its Op
// are meaningful.
type DrawCommand struct {
	Op    DrawOp  `json:"op"`
	Alpha float64 `json:"alpha,omitempty"`
	Angle float64 `json:"angle,omitempty"`
	Pivot Point   `json:"pivot"`
	Text  string  `json:"text,omitempty"`
	At    Point   `json:"at"`
}

// LayoutWatermark turns spec into the drawing commands for a width x height
// canvas. measure returns the rendered width of a string at spec.FontSize.
//
// Single placement pads 0.8 x FontSize from the edges. x is the left end of
// the text; y is the baseline, at pad+FontSize for the top row,
// (height+FontSize)/2 for the middle row and height-pad for the bottom row.
// The rotation pivots on that origin.
//
// Tiled placement rotates around the canvas center, then repeats the text
// on a grid spanning one diagonal beyond every edge, so the rotated pattern
// still covers the canvas. Rows are 4 x FontSize apart and columns 2.5
// times that. When that grid would hold more than MaxWatermarkTiles tiles,
// both gaps grow by the same factor until it fits.
func LayoutWatermark(width, height int, spec WatermarkSpec, measure func(string) float64) []DrawCommand {
	spec = normalizeWatermark(spec)
	fs := spec.FontSize
	w, h := float64(width), float64(height)

	cmds := []DrawCommand{
		{Op: OpDrawBase},
		{Op: OpSetAlpha, Alpha: spec.Opacity / 100},
	}

	if spec.Repeat {
		center := Point{X: w / 2, Y: h / 2}
		cmds = append(cmds, DrawCommand{Op: OpRotate, Angle: spec.Rotation, Pivot: center})

		diag := math.Hypot(w, h)
		vGap := fs * tileVerticalGap
		hGap := vGap * tileHorizontalGap
		cols, rows := tileGrid(w, h, diag, hGap, vGap)
		if n := cols * rows; n > MaxWatermarkTiles {
			k := math.Sqrt(float64(n) / MaxWatermarkTiles)
			for {
				cols, rows = tileGrid(w, h, diag, hGap*k, vGap*k)
				if cols*rows <= MaxWatermarkTiles {
					break
				}
				k *= 1.01
			}
			hGap, vGap = hGap*k, vGap*k
		}
		for row := 0; row < rows; row++ {
			y := -diag + float64(row)*vGap
			for col := 0; col < cols; col++ {
				x := -diag + float64(col)*hGap
				cmds = append(cmds, DrawCommand{Op: OpDrawText, Text: spec.Text, At: Point{X: x, Y: y}})
			}
		}
		return cmds
	}

	origin := anchorPoint(w, h, fs, measure(spec.Text), spec.Position)
	return append(cmds,
		DrawCommand{Op: OpRotate, Angle: spec.Rotation, Pivot: origin},
		DrawCommand{Op: OpDrawText, Text: spec.Text, At: origin},
	)
}

// tileGrid returns how many columns and rows of tiles fit between -diag
// and the canvas size plus diag on each axis.
func tileGrid(w, h, diag, hGap, vGap float64) (cols, rows int) {
	cols = int(math.Ceil((w + 2*diag) / hGap))
	rows = int(math.Ceil((h + 2*diag) / vGap))
	return cols, rows
}

// anchorPoint returns the text origin (left end of the baseline).
func anchorPoint(w, h, fs, textWidth float64, pos Position) Point {
	pad := fs * watermarkPadding

	var p Point
	switch pos {
	case PositionTopLeft, PositionMiddleLeft, PositionBottomLeft:
		p.X = pad
	case PositionTopCenter, PositionCenter, PositionBottomCenter:
		p.X = (w - textWidth) / 2
	default:
		p.X = w - textWidth - pad
	}

	switch pos {
	case PositionTopLeft, PositionTopCenter, PositionTopRight:
		p.Y = pad + fs
	case PositionMiddleLeft, PositionCenter, PositionMiddleRight:
		p.Y = (h + fs) / 2
	default:
		p.Y = h - pad
	}
	return p
}

func normalizeWatermark(spec WatermarkSpec) WatermarkSpec {
	if spec.FontSize <= 0 {
		spec.FontSize = DefaultWatermarkFontSize
	}
	spec.FontSize = math.Max(spec.FontSize, MinWatermarkFontSize)
	spec.Opacity = math.Max(0, math.Min(100, spec.Opacity))
	if spec.Position == "" {
		spec.Position = PositionBottomRight
	}
	if spec.Color == "" {
		spec.Color = DefaultWatermarkColor
	}
	return spec
}

// Watermark draws spec onto a copy of src.
//
// Parameters:
//   - src: The image to mark. It is left untouched.
//   - spec: Text, font, opacity, rotation, color and placement. Zero values
//     fall back to the defaults: 24px sans-serif, white, bottom-right. Font
//     sizes below MinWatermarkFontSize are raised to it.
//
// Returns:
//   - *image.NRGBA: A new image with src's dimensions. Empty text or zero
//     opacity yields a byte-for-byte copy.
//   - error: Non-nil only when spec.Color is not a valid hex color.
//
// # Example
//
//	out, err := imaging.Watermark(img, imaging.WatermarkSpec{
//	    Text:     "DRAFT",
//	    Opacity:  25,
//	    Rotation: -30,
//	    Repeat:   true,
//	})
func Watermark(src image.Image, spec WatermarkSpec) (*image.NRGBA, error) {
	spec = normalizeWatermark(spec)

	fill, err := ParseHexColor(spec.Color)
	if err != nil {
		return nil, fmt.Errorf("watermark color: %w", err)
	}

	face, err := LoadFace(spec.FontFamily, spec.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	b := src.Bounds()
	cmds := LayoutWatermark(b.Dx(), b.Dy(), spec, func(s string) float64 {
		return TextWidth(face, s)
	})
	return Render(src, cmds, face, fill), nil
}
