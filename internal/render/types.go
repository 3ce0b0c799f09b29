// Package render shows a recorded flag scene in an Ebiten window.
package render

import (
	"fmt"
	"image/color"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// Config holds the window configuration.
type Config struct {
	// Width is the logical canvas width in pixels.
	Width int
	// Height is the logical canvas height in pixels. Scenes are flipped
	// against this height.
	Height int
	// Title is the window title.
	Title string
	// Scale multiplies the window size. The canvas keeps its logical size.
	Scale float64
	// BackgroundColor fills the canvas before every frame.
	BackgroundColor color.RGBA
	// AntiAlias smooths shape edges.
	AntiAlias bool
	// StopOnError ends the loop on the first flush error. When false the
	// error is only reported and the next frame tries again.
	StopOnError bool
}

// DefaultConfig returns a 240x240 white canvas.
func DefaultConfig() Config {
	return Config{
		Width:           240,
		Height:          240,
		Title:           "flagdraw",
		Scale:           1,
		BackgroundColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		AntiAlias:       true,
		StopOnError:     true,
	}
}

// Validate checks that the canvas has a positive size and scale.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %g", c.Scale)
	}
	return nil
}

// Scene is replayed onto a painter once per frame.
type Scene interface {
	Flush(p *draw.Painter) error
}

// SceneFunc adapts a function to Scene.
type SceneFunc func(p *draw.Painter) error

// Flush calls f(p).
func (f SceneFunc) Flush(p *draw.Painter) error {
	return f(p)
}
