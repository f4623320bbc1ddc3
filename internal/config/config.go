// Package config reads the media tools settings from the environment.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogLevel       = "MEDIA_TOOLS_LOG_LEVEL"
	EnvPaletteCount   = "MEDIA_TOOLS_PALETTE_COUNT"
	EnvOutputFormat   = "MEDIA_TOOLS_OUTPUT_FORMAT"
	EnvJPEGQuality    = "MEDIA_TOOLS_JPEG_QUALITY"
	EnvMaxRequestSize = "MEDIA_TOOLS_MAX_REQUEST_BYTES"
)

// Config holds the process-wide settings. Load fills it from the environment
// and an optional .env file; Default returns the values used when nothing is
// set.
type Config struct {
	// LogLevel is debug, info, warn or error.
	LogLevel string

	// PaletteCount is the number of colors returned when a request does
	// not name one.
	PaletteCount int

	// OutputFormat is the encoding used for image results: png or jpeg.
	OutputFormat string

	// JPEGQuality is used when a request encodes JPEG without a quality.
	JPEGQuality int

	// MaxRequestBytes bounds a single JSON-RPC request line. Image data
	// arrives base64 encoded, so this needs to be generous.
	MaxRequestBytes int
}

// Load reads .env from the working directory if there is one, then the
// environment. Missing or malformed values fall back to the defaults.
func Load() Config {
	// A missing .env is normal.
	_ = godotenv.Load()
	return FromEnv()
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel:        "info",
		PaletteCount:    8,
		OutputFormat:    "png",
		JPEGQuality:     85,
		MaxRequestBytes: 64 * 1024 * 1024,
	}
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() Config {
	d := Default()
	return Config{
		LogLevel:        env(EnvLogLevel, d.LogLevel),
		PaletteCount:    envPositiveInt(EnvPaletteCount, d.PaletteCount),
		OutputFormat:    env(EnvOutputFormat, d.OutputFormat),
		JPEGQuality:     envPositiveInt(EnvJPEGQuality, d.JPEGQuality),
		MaxRequestBytes: envPositiveInt(EnvMaxRequestSize, d.MaxRequestBytes),
	}
}

func env(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func envPositiveInt(key string, fallback int) int {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
