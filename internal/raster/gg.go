package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	"seehuhn.de/go/geom/vec"
)

// GGCanvas is a draw.Target backed by a gg software context. Drawing errors
// from gg are kept and reported by Err.
type GGCanvas struct {
	dc  *gg.Context
	err error
}

// NewGGCanvas creates a transparent gg canvas of the given size.
func NewGGCanvas(width, height int) *GGCanvas {
	return &GGCanvas{dc: gg.NewContext(width, height)}
}

// Size returns the canvas dimensions.
func (c *GGCanvas) Size() (int, int) {
	return c.dc.Width(), c.dc.Height()
}

// Fill paints every pixel with clr.
func (c *GGCanvas) Fill(clr color.Color) {
	c.dc.ClearWithColor(gg.FromColor(clr))
}

// FillPolygon fills the closed polygon through vertices. Fewer than three
// vertices draw nothing.
func (c *GGCanvas) FillPolygon(vertices []vec.Vec2, clr color.Color) {
	if len(vertices) < 3 {
		return
	}
	c.dc.SetColor(clr)
	c.dc.MoveTo(vertices[0].X, vertices[0].Y)
	for _, v := range vertices[1:] {
		c.dc.LineTo(v.X, v.Y)
	}
	c.dc.ClosePath()
	c.keep("fill polygon", c.dc.Fill())
}

// DrawLine strokes a segment one pixel wide.
func (c *GGCanvas) DrawLine(p0, p1 vec.Vec2, clr color.Color) {
	c.dc.SetColor(clr)
	c.dc.SetLineWidth(1)
	c.dc.DrawLine(p0.X, p0.Y, p1.X, p1.Y)
	c.keep("stroke line", c.dc.Stroke())
}

// FillCircle fills a disc. A radius of zero or less draws nothing.
func (c *GGCanvas) FillCircle(center vec.Vec2, radius float64, clr color.Color) {
	if radius <= 0 {
		return
	}
	c.dc.SetColor(clr)
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.keep("fill circle", c.dc.Fill())
}

// Blit draws img with its top-left corner at topLeft, rounded to the
// nearest pixel.
func (c *GGCanvas) Blit(img image.Image, topLeft vec.Vec2) {
	if img == nil {
		return
	}
	c.dc.DrawImage(gg.ImageBufFromImage(img), math.Round(topLeft.X), math.Round(topLeft.Y))
}

// Image returns a snapshot of the canvas pixels.
func (c *GGCanvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the canvas as PNG.
func (c *GGCanvas) EncodePNG(w io.Writer) error {
	if c.err != nil {
		return c.err
	}
	return c.dc.EncodePNG(w)
}

// Err returns the first drawing error.
func (c *GGCanvas) Err() error {
	return c.err
}

// Close releases the gg context.
func (c *GGCanvas) Close() error {
	return c.dc.Close()
}

func (c *GGCanvas) keep(op string, err error) {
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("%s: %w", op, err)
	}
}
