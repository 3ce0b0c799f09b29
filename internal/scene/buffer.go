package scene

import (
	"fmt"
	"image/color"

	"github.com/opd-ai/go-flagdraw/internal/draw"
	"github.com/opd-ai/go-flagdraw/internal/geometry"
)

// Buffer is an ordered list of shape records. Insertion order is paint
// order. Records persist across flushes until Reset.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	shapes []Shape
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Record appends s to the buffer.
func (b *Buffer) Record(s Shape) {
	b.shapes = append(b.shapes, s)
}

// Len returns the number of recorded shapes.
func (b *Buffer) Len() int {
	return len(b.shapes)
}

// Shapes returns a copy of the recorded shapes in paint order.
func (b *Buffer) Shapes() []Shape {
	out := make([]Shape, len(b.shapes))
	copy(out, b.shapes)
	return out
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	clear(b.shapes)
	b.shapes = b.shapes[:0]
}

// Flush draws every record onto p in insertion order. It stops at the first
// record that cannot be drawn; shapes drawn before it stay drawn. The buffer
// is left unchanged.
func (b *Buffer) Flush(p *draw.Painter) error {
	for i, s := range b.shapes {
		if err := drawShape(p, s); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}
	return nil
}

func drawShape(p *draw.Painter, s Shape) error {
	switch s := s.(type) {
	case Circle:
		p.DrawCircle(s.X, s.Y, s.Color, s.Radius)
	case Line:
		p.DrawLine(s.StartX, s.StartY, s.EndX, s.EndY, s.Color)
	case Rectangle:
		p.DrawRectangle(s.X, s.Y, s.Width, s.Height, s.Color, s.Rotation)
	case Star:
		p.DrawStar(s.X, s.Y, s.Color, s.Radius, s.Points, s.Rotation)
	case Triangle:
		p.DrawTriangle(s.X, s.Y, s.Color, s.Width, s.Height, s.Rotation)
	case Text:
		return p.DrawText(s.Text, s.X, s.Y, s.Color)
	case Image:
		return p.DrawImage(s.Name, s.X, s.Y)
	case Generic:
		resolved, err := s.Resolve()
		if err != nil {
			return err
		}
		return drawShape(p, resolved)
	default:
		name := "<nil>"
		if s != nil {
			name = s.Kind().String()
		}
		return &UnknownShapeKindError{Kind: name}
	}
	return nil
}

// Circle records a filled circle.
func (b *Buffer) Circle(x, y float64, clr color.Color, radius float64) {
	b.Record(Circle{X: x, Y: y, Color: clr, Radius: radius})
}

// Line records a line segment.
func (b *Buffer) Line(startX, startY, endX, endY float64, clr color.Color) {
	b.Record(Line{StartX: startX, StartY: startY, EndX: endX, EndY: endY, Color: clr})
}

// Rectangle records a filled rectangle. An optional rotation in degrees may
// follow the color.
func (b *Buffer) Rectangle(x, y, width, height float64, clr color.Color, rotation ...float64) {
	b.Record(Rectangle{X: x, Y: y, Width: width, Height: height, Color: clr, Rotation: first(rotation)})
}

// Star records a five-pointed star. Use Record with a Star value for other
// point counts.
func (b *Buffer) Star(x, y float64, clr color.Color, radius float64, rotation ...float64) {
	b.Record(Star{X: x, Y: y, Color: clr, Radius: radius, Points: geometry.DefaultStarPoints, Rotation: first(rotation)})
}

// Triangle records a filled triangle.
func (b *Buffer) Triangle(x, y float64, clr color.Color, width, height float64, rotation ...float64) {
	b.Record(Triangle{X: x, Y: y, Color: clr, Width: width, Height: height, Rotation: first(rotation)})
}

// Text records a text label.
func (b *Buffer) Text(text string, x, y float64, clr color.Color) {
	b.Record(Text{Text: text, X: x, Y: y, Color: clr})
}

// Image records a preloaded image by file name.
func (b *Buffer) Image(name string, x, y float64) {
	b.Record(Image{Name: name, X: x, Y: y})
}

func first(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[0]
}
