package main

import (
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/media-tools-mcp/internal/imaging"
)

func newFilterCmd() *cobra.Command {
	var (
		filterName  string
		temperature int
	)

	cmd := &cobra.Command{
		Use:   "filter <input> <output>",
		Short: "Apply a color filter and temperature shift",
		Example: `  media-tools filter photo.jpg photo-warm.jpg --filter warm
  media-tools filter photo.png cool.png --temperature -40`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := imaging.ParseFilter(filterName)
			if !ok {
				log.Warn().Str("filter", filterName).Msg("unknown filter, colors left unchanged")
			}

			img, err := loadImage(args[0])
			if err != nil {
				return err
			}
			out := imaging.FilterImage(img, imaging.FilterDescriptor{Filter: f, Temperature: temperature})
			return writeImage(args[1], out)
		},
	}

	cmd.Flags().StringVarP(&filterName, "filter", "f", "original", "Filter: original, grayscale, sepia, warm, cool, vintage, dramatic, fade, vivid")
	cmd.Flags().IntVarP(&temperature, "temperature", "t", 0, "Temperature shift, -100 (cooler) to 100 (warmer)")
	return cmd
}

func newPaletteCmd() *cobra.Command {
	var (
		count   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "palette <input>",
		Short: "Print the dominant colors of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadImage(args[0])
			if err != nil {
				return err
			}
			if count <= 0 {
				count = cfg.PaletteCount
			}
			colors := imaging.ExtractPalette(img, count)

			w := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(colors)
			}
			for _, c := range colors {
				fmt.Fprintf(w, "%s  rgb(%d, %d, %d)  %d\n", c.Hex, c.R, c.G, c.B, c.Count)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of colors (default from MEDIA_TOOLS_PALETTE_COUNT)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of text")
	return cmd
}

func newWatermarkCmd() *cobra.Command {
	var (
		spec     imaging.WatermarkSpec
		position string
	)

	cmd := &cobra.Command{
		Use:   "watermark <input> <output>",
		Short: "Draw a text watermark",
		Example: `  media-tools watermark photo.jpg marked.jpg --text "(c) 2024 Studio"
  media-tools watermark photo.png draft.png --text DRAFT --repeat --rotation -30 --opacity 25`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := imaging.ParsePosition(position)
			if err != nil {
				return err
			}
			spec.Position = pos

			img, err := loadImage(args[0])
			if err != nil {
				return err
			}
			out, err := imaging.Watermark(img, spec)
			if err != nil {
				return err
			}
			return writeImage(args[1], out)
		},
	}

	cmd.Flags().StringVar(&spec.Text, "text", "", "Watermark text")
	cmd.Flags().Float64Var(&spec.FontSize, "font-size", imaging.DefaultWatermarkFontSize, "Font size in pixels")
	cmd.Flags().StringVar(&spec.FontFamily, "font-family", imaging.FamilySans, "Font family: sans-serif, bold, italic, monospace")
	cmd.Flags().Float64Var(&spec.Opacity, "opacity", 50, "Opacity, 0-100")
	cmd.Flags().Float64Var(&spec.Rotation, "rotation", 0, "Clockwise rotation in degrees")
	cmd.Flags().StringVar(&spec.Color, "color", imaging.DefaultWatermarkColor, "Text color as hex")
	cmd.Flags().StringVar(&position, "position", string(imaging.PositionBottomRight), "Anchor position, e.g. top-left, center, bottom-right")
	cmd.Flags().BoolVar(&spec.Repeat, "repeat", false, "Tile the text across the image")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newQRCmd() *cobra.Command {
	var spec imaging.QRSpec

	cmd := &cobra.Command{
		Use:     "qr <content> <output>",
		Short:   "Render text or a URL as a QR code",
		Example: `  media-tools qr https://example.com site.png --size 512 --level high`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Content = args[0]
			res, err := imaging.QRCode(spec)
			if err != nil {
				return err
			}
			return writeImage(args[1], res.Image)
		},
	}

	cmd.Flags().IntVar(&spec.Size, "size", imaging.DefaultQRSize, "Edge length in pixels")
	cmd.Flags().StringVar(&spec.Level, "level", "medium", "Error correction: low, medium, high, highest")
	cmd.Flags().StringVar(&spec.Foreground, "fg", "#000000", "Module color as hex")
	cmd.Flags().StringVar(&spec.Background, "bg", "#FFFFFF", "Background color as hex")
	cmd.Flags().BoolVar(&spec.NoBorder, "no-border", false, "Omit the quiet zone")
	return cmd
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// writeImage encodes img in the format implied by path's extension, PNG
// when the extension is not recognized.
func writeImage(path string, img image.Image) error {
	format := imaging.FormatFromPath(path)
	if format == "unknown" {
		format = "png"
	}
	enc, err := imaging.Encode(img, format, cfg.JPEGQuality)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, enc.Data, 0o644); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("bytes", enc.SizeBytes).Msg("wrote image")
	return nil
}
