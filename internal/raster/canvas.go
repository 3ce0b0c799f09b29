// Package raster provides off-screen draw.Target implementations used for
// headless capture and tests.
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"
)

// kappa places the control points of a cubic Bézier quarter circle.
const kappa = 0.5522847498

// Canvas is an in-memory RGBA surface filled with an anti-aliasing scanline
// rasteriser. It implements draw.Target.
type Canvas struct {
	img *image.RGBA
	r   *vector.Rasterizer
}

// NewCanvas creates a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		r:   vector.NewRasterizer(width, height),
	}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Fill paints every pixel with clr, discarding previous content.
func (c *Canvas) Fill(clr color.Color) {
	xdraw.Draw(c.img, c.img.Bounds(), image.NewUniform(clr), image.Point{}, xdraw.Src)
}

// FillPolygon fills the closed polygon through vertices using the non-zero
// winding rule. Fewer than three vertices draw nothing.
func (c *Canvas) FillPolygon(vertices []vec.Vec2, clr color.Color) {
	if len(vertices) < 3 {
		return
	}
	c.begin()
	c.r.MoveTo(f32(vertices[0].X), f32(vertices[0].Y))
	for _, v := range vertices[1:] {
		c.r.LineTo(f32(v.X), f32(v.Y))
	}
	c.r.ClosePath()
	c.paint(clr)
}

// DrawLine draws a segment one pixel wide.
func (c *Canvas) DrawLine(p0, p1 vec.Vec2, clr color.Color) {
	d := p1.Sub(p0)
	length := d.Length()
	if length == 0 {
		return
	}
	n := vec.Vec2{X: -d.Y, Y: d.X}.Mul(0.5 / length)
	c.FillPolygon([]vec.Vec2{p0.Add(n), p1.Add(n), p1.Sub(n), p0.Sub(n)}, clr)
}

// FillCircle fills a disc. A radius of zero or less draws nothing.
func (c *Canvas) FillCircle(center vec.Vec2, radius float64, clr color.Color) {
	if radius <= 0 {
		return
	}
	cx, cy := center.X, center.Y
	k := kappa * radius
	c.begin()
	c.r.MoveTo(f32(cx+radius), f32(cy))
	c.r.CubeTo(f32(cx+radius), f32(cy+k), f32(cx+k), f32(cy+radius), f32(cx), f32(cy+radius))
	c.r.CubeTo(f32(cx-k), f32(cy+radius), f32(cx-radius), f32(cy+k), f32(cx-radius), f32(cy))
	c.r.CubeTo(f32(cx-radius), f32(cy-k), f32(cx-k), f32(cy-radius), f32(cx), f32(cy-radius))
	c.r.CubeTo(f32(cx+k), f32(cy-radius), f32(cx+radius), f32(cy-k), f32(cx+radius), f32(cy))
	c.r.ClosePath()
	c.paint(clr)
}

// Blit composites img over the canvas with its top-left corner at topLeft,
// rounded to the nearest pixel.
func (c *Canvas) Blit(img image.Image, topLeft vec.Vec2) {
	if img == nil {
		return
	}
	b := img.Bounds()
	at := image.Pt(int(math.Round(topLeft.X)), int(math.Round(topLeft.Y)))
	xdraw.Draw(c.img, image.Rectangle{Min: at, Max: at.Add(b.Size())}, img, b.Min, xdraw.Over)
}

// Image returns the canvas pixels. The image is live: later drawing changes it.
func (c *Canvas) Image() image.Image {
	return c.img
}

// RGBA returns the canvas pixels as *image.RGBA.
func (c *Canvas) RGBA() *image.RGBA {
	return c.img
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

func (c *Canvas) begin() {
	w, h := c.Size()
	c.r.Reset(w, h)
	c.r.DrawOp = xdraw.Over
}

func (c *Canvas) paint(clr color.Color) {
	c.r.Draw(c.img, c.img.Bounds(), image.NewUniform(clr), image.Point{})
}

func f32(v float64) float32 {
	return float32(v)
}
