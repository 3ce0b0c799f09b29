// Package draw exposes the primitive drawing verbs of a flag scene.
//
// A Painter takes shape parameters in logical space (origin bottom-left,
// y up), converts them with the geometry package and issues the resulting
// primitive operations against a raster Target. Colors, radii and bounds are
// passed through untouched.
package draw

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"seehuhn.de/go/geom/vec"

	"github.com/opd-ai/go-flagdraw/internal/geometry"
)

// ErrMissingImage is matched by MissingImageError.
var ErrMissingImage = errors.New("image not loaded")

// ErrNoFont is returned by DrawText when the Painter was built without a font.
var ErrNoFont = errors.New("no font configured")

// MissingImageError reports a DrawImage call naming an image that is not in
// the image store.
type MissingImageError struct {
	Name string
}

func (e *MissingImageError) Error() string {
	return fmt.Sprintf("image %q not loaded", e.Name)
}

// Unwrap returns ErrMissingImage.
func (e *MissingImageError) Unwrap() error {
	return ErrMissingImage
}

// Target is a mutable raster surface in device space (origin top-left, y down).
type Target interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)
	// FillPolygon fills the closed polygon through vertices.
	FillPolygon(vertices []vec.Vec2, clr color.Color)
	// DrawLine draws a one pixel wide segment from p0 to p1.
	DrawLine(p0, p1 vec.Vec2, clr color.Color)
	// FillCircle fills a disc.
	FillCircle(center vec.Vec2, radius float64, clr color.Color)
	// Blit composites img with its top-left corner at topLeft.
	Blit(img image.Image, topLeft vec.Vec2)
}

// Font renders a string onto an off-screen glyph surface. The surface bounds
// give the measured text size.
type Font interface {
	Render(text string, clr color.Color) image.Image
}

// ImageSource looks up preloaded images by file name.
type ImageSource interface {
	Image(name string) (image.Image, bool)
}

// Option configures a Painter.
type Option func(*Painter)

// WithFont sets the font used by DrawText.
func WithFont(f Font) Option {
	return func(p *Painter) {
		p.font = f
	}
}

// WithImages sets the store consulted by DrawImage.
func WithImages(src ImageSource) Option {
	return func(p *Painter) {
		p.images = src
	}
}

// Painter draws shapes given in logical coordinates onto a Target.
// It is not safe for concurrent use; the Target usually is not either.
type Painter struct {
	target Target
	font   Font
	images ImageSource
}

// NewPainter creates a Painter drawing onto target.
func NewPainter(target Target, opts ...Option) *Painter {
	p := &Painter{target: target}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Target returns the surface the Painter draws on.
func (p *Painter) Target() Target {
	return p.target
}

func (p *Painter) height() float64 {
	_, h := p.target.Size()
	return float64(h)
}

// DrawCircle fills a circle centered at (x, y).
func (p *Painter) DrawCircle(x, y float64, clr color.Color, radius float64) {
	p.target.FillCircle(geometry.Circle(x, y, p.height()), radius, clr)
}

// DrawLine draws a segment from (x0, y0) to (x1, y1).
func (p *Painter) DrawLine(x0, y0, x1, y1 float64, clr color.Color) {
	a, b := geometry.Line(x0, y0, x1, y1, p.height())
	p.target.DrawLine(a, b, clr)
}

// DrawRectangle fills a rectangle whose bottom-left corner is (x, y),
// turned clockwise by rotation degrees about its center.
func (p *Painter) DrawRectangle(x, y, width, height float64, clr color.Color, rotation float64) {
	p.target.FillPolygon(geometry.Rectangle(x, y, width, height, rotation, p.height()), clr)
}

// DrawStar fills a star centered at (x, y) with the given number of points.
func (p *Painter) DrawStar(x, y float64, clr color.Color, radius float64, points int, rotation float64) {
	p.target.FillPolygon(geometry.Star(x, y, radius, points, rotation, p.height()), clr)
}

// DrawTriangle fills an isosceles triangle centered at (x, y).
func (p *Painter) DrawTriangle(x, y float64, clr color.Color, width, height, rotation float64) {
	p.target.FillPolygon(geometry.Triangle(x, y, width, height, rotation, p.height()), clr)
}

// DrawText renders text with the configured font and places the bottom-left
// corner of the glyph surface at (x, y).
func (p *Painter) DrawText(text string, x, y float64, clr color.Color) error {
	if p.font == nil {
		return ErrNoFont
	}
	surface := p.font.Render(text, clr)
	glyphHeight := float64(surface.Bounds().Dy())
	p.target.Blit(surface, geometry.TextTopLeft(x, y, glyphHeight, p.height()))
	return nil
}

// DrawImage blits the named preloaded image with its bottom-left corner at
// (x, y). It returns a *MissingImageError if the name is unknown.
func (p *Painter) DrawImage(name string, x, y float64) error {
	var img image.Image
	ok := false
	if p.images != nil {
		img, ok = p.images.Image(name)
	}
	if !ok {
		return &MissingImageError{Name: name}
	}
	imageHeight := float64(img.Bounds().Dy())
	p.target.Blit(img, geometry.ImageTopLeft(x, y, imageHeight, p.height()))
	return nil
}
