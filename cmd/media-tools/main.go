package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/media-tools-mcp/internal/config"
	"github.com/ironsheep/media-tools-mcp/internal/logging"
	"github.com/ironsheep/media-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var cfg config.Config

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "media-tools",
	Short: "Image filters, palettes and watermarks",
	Long: `media-tools applies color filters, extracts palettes and draws text
watermarks on image files. Run "media-tools serve" to expose the same
operations, plus cropping, compression, favicons and gradients, as an MCP
server over stdin/stdout. "media-tools qr" renders QR codes.

Environment variables (also read from .env):
  MEDIA_TOOLS_LOG_LEVEL          debug, info, warn or error
  MEDIA_TOOLS_PALETTE_COUNT      default palette size (8)
  MEDIA_TOOLS_OUTPUT_FORMAT      default image format for tool results (png)
  MEDIA_TOOLS_JPEG_QUALITY       default JPEG quality (85)
  MEDIA_TOOLS_MAX_REQUEST_BYTES  largest accepted MCP request line`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logging.Init(cfg.LogLevel)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server.Version = Version
		log.Debug().Str("version", Version).Str("built", BuildTime).Str("commit", GitCommit).Msg("starting media-tools MCP server")
		return server.New(cfg).Run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "media-tools %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Build time: %s\n", BuildTime)
		fmt.Fprintf(cmd.OutOrStdout(), "  Git commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, versionCmd, newFilterCmd(), newPaletteCmd(), newWatermarkCmd(), newQRCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
