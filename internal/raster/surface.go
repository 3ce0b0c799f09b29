package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// Backend names accepted by New.
const (
	BackendVector = "vector"
	BackendGG     = "gg"
)

// Surface is an off-screen draw.Target that can be cleared and captured.
type Surface interface {
	draw.Target
	Fill(clr color.Color)
	Image() image.Image
	EncodePNG(w io.Writer) error
}

// New creates a surface for the named backend. An empty name selects the
// vector backend.
func New(backend string, width, height int) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	switch backend {
	case "", BackendVector:
		return NewCanvas(width, height), nil
	case BackendGG:
		return NewGGCanvas(width, height), nil
	default:
		return nil, fmt.Errorf("unknown raster backend %q", backend)
	}
}

var (
	_ Surface = (*Canvas)(nil)
	_ Surface = (*GGCanvas)(nil)
)
