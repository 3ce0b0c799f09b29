// Package config provides configuration data structures for flagdraw.
// Settings come from defaults, a flags.config table set by the scene script,
// FLAGDRAW_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Config represents the complete flagdraw configuration.
type Config struct {
	// Canvas contains the drawing surface settings.
	Canvas CanvasConfig
	// Window contains on-screen display settings.
	Window WindowConfig
	// Assets contains image and font settings.
	Assets AssetsConfig
	// Output contains headless capture settings.
	Output OutputConfig
}

// CanvasConfig holds the drawing surface settings.
type CanvasConfig struct {
	// Width is the canvas width in pixels (SCREEN_WIDTH in scripts).
	Width int
	// Height is the canvas height in pixels (SCREEN_HEIGHT in scripts).
	// The logical y axis is flipped against it.
	Height int
	// Background fills the canvas before every frame.
	Background color.RGBA
	// AntiAlias smooths shape edges on screen.
	AntiAlias bool
}

// WindowConfig holds on-screen display settings.
type WindowConfig struct {
	// Title is the window title.
	Title string
	// Scale multiplies the window size; the canvas keeps its size.
	Scale float64
	// Watch reloads the scene when the script or its images change.
	Watch bool
}

// AssetsConfig holds image and font settings.
type AssetsConfig struct {
	// ImagesDir is the directory of PNG files available to draw_image.
	// A relative path is resolved against the script's directory.
	ImagesDir string
	// Font names the text font: "go", "gomono" or "proggy".
	Font string
	// FontSize is the font size in pixels.
	FontSize float64
}

// OutputConfig holds headless capture settings.
type OutputConfig struct {
	// Path is the PNG file to write. Empty means open a window instead.
	Path string
	// Backend selects the software rasterizer used for captures.
	Backend Backend
}

// Backend represents a software rasterizer.
type Backend int

const (
	// BackendVector rasterizes with golang.org/x/image/vector.
	BackendVector Backend = iota
	// BackendGG rasterizes with gogpu/gg.
	BackendGG
)

// String returns the string representation of a Backend.
func (b Backend) String() string {
	switch b {
	case BackendVector:
		return "vector"
	case BackendGG:
		return "gg"
	default:
		return "unknown"
	}
}

// ParseBackend parses a string into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vector", "":
		return BackendVector, nil
	case "gg":
		return BackendGG, nil
	default:
		return BackendVector, fmt.Errorf("unknown backend: %s", s)
	}
}

// Headless reports whether the configuration asks for a capture instead of
// a window.
func (c *Config) Headless() bool {
	return c.Output.Path != ""
}

// Validate checks if the Config has valid values using the comprehensive validator.
// It returns the first validation error found, or nil if the config is valid.
// For detailed validation results including warnings, use NewValidator().Validate().
func (c *Config) Validate() error {
	return ValidateConfig(c)
}
