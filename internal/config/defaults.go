package config

import (
	"image/color"
)

// Default values for configuration options.
const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 240
	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 240
	// DefaultTitle is the default window title.
	DefaultTitle = "flagdraw"
	// DefaultScale is the default window scale.
	DefaultScale = 1.0
	// DefaultImagesDir is the default images directory, next to the script.
	DefaultImagesDir = "images"
	// DefaultFont is the default text font.
	DefaultFont = "go"
	// DefaultFontSize is the default font size in pixels.
	DefaultFontSize = 16.0
)

// DefaultBackground is the default canvas color (white).
var DefaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// DefaultConfig returns a Config with the defaults of the drawing exercise:
// a white 240x240 canvas.
func DefaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Background: DefaultBackground,
			AntiAlias:  true,
		},
		Window: WindowConfig{
			Title: DefaultTitle,
			Scale: DefaultScale,
		},
		Assets: AssetsConfig{
			ImagesDir: DefaultImagesDir,
			Font:      DefaultFont,
			FontSize:  DefaultFontSize,
		},
		Output: OutputConfig{
			Backend: BackendVector,
		},
	}
}
