// Package scene records shapes and replays them onto a draw.Painter.
package scene

import (
	"errors"
	"fmt"
	"image/color"
)

// Kind identifies a shape variant.
type Kind int

// Shape kinds, in the order the drawing verbs are usually introduced.
const (
	KindCircle Kind = iota
	KindLine
	KindRectangle
	KindStar
	KindTriangle
	KindText
	KindImage
)

var kindNames = [...]string{
	KindCircle:    "circle",
	KindLine:      "line",
	KindRectangle: "rectangle",
	KindStar:      "star",
	KindTriangle:  "triangle",
	KindText:      "text",
	KindImage:     "image",
}

// String returns the lower-case kind name used by scripts.
func (k Kind) String() string {
	if k == KindDynamic {
		return "dynamic"
	}
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every dispatchable kind.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind looks up a kind by its exact name. Unknown names, including
// differently cased ones, yield an *UnknownShapeKindError.
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, &UnknownShapeKindError{Kind: name}
}

// ErrUnknownShapeKind is matched by UnknownShapeKindError.
var ErrUnknownShapeKind = errors.New("unknown shape kind")

// ErrInvalidArgument is matched by ArgumentError.
var ErrInvalidArgument = errors.New("invalid shape argument")

// UnknownShapeKindError reports a record whose kind has no transform.
type UnknownShapeKindError struct {
	Kind string
}

func (e *UnknownShapeKindError) Error() string {
	return fmt.Sprintf("got unexpected shape %q", e.Kind)
}

// Unwrap returns ErrUnknownShapeKind.
func (e *UnknownShapeKindError) Unwrap() error {
	return ErrUnknownShapeKind
}

// ArgumentError reports a dynamic record whose arguments do not fit its kind.
type ArgumentError struct {
	Kind    string
	Arg     string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: argument %s: %s", e.Kind, e.Arg, e.Message)
}

// Unwrap returns ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// Shape is an immutable shape record.
type Shape interface {
	Kind() Kind
}

// Circle is a filled disc centered at (X, Y).
type Circle struct {
	X, Y   float64
	Color  color.Color
	Radius float64
}

// Line is a segment from (StartX, StartY) to (EndX, EndY).
type Line struct {
	StartX, StartY float64
	EndX, EndY     float64
	Color          color.Color
}

// Rectangle is a filled rectangle with its bottom-left corner at (X, Y),
// turned about its center.
type Rectangle struct {
	X, Y          float64
	Width, Height float64
	Color         color.Color
	Rotation      float64
}

// Star is a filled star centered at (X, Y) with Points outer points. A star
// with no points draws nothing; the recording verbs default to five.
type Star struct {
	X, Y     float64
	Color    color.Color
	Radius   float64
	Points   int
	Rotation float64
}

// Triangle is a filled isosceles triangle centered at (X, Y).
type Triangle struct {
	X, Y          float64
	Color         color.Color
	Width, Height float64
	Rotation      float64
}

// Text is a string whose bottom-left corner sits at (X, Y).
type Text struct {
	Text  string
	X, Y  float64
	Color color.Color
}

// Image is a preloaded image, referenced by file name, with its bottom-left
// corner at (X, Y).
type Image struct {
	Name string
	X, Y float64
}

// Kind implements Shape.
func (Circle) Kind() Kind { return KindCircle }

// Kind implements Shape.
func (Line) Kind() Kind { return KindLine }

// Kind implements Shape.
func (Rectangle) Kind() Kind { return KindRectangle }

// Kind implements Shape.
func (Star) Kind() Kind { return KindStar }

// Kind implements Shape.
func (Triangle) Kind() Kind { return KindTriangle }

// Kind implements Shape.
func (Text) Kind() Kind { return KindText }

// Kind implements Shape.
func (Image) Kind() Kind { return KindImage }
