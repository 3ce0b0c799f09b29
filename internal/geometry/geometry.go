// Package geometry maps shape parameters given in logical space to vertices
// in device space.
//
// Logical space has its origin at the bottom-left corner with y growing
// upwards. Device space has its origin at the top-left corner with y growing
// downwards. Every function takes the canvas height H and flips with
// (x, H-y). Rotations are in degrees and turn clockwise on screen.
//
// All functions are pure and safe for concurrent use.
package geometry

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// DefaultStarPoints is the number of outer points of a star when the caller
// does not choose one.
const DefaultStarPoints = 5

// FlipY converts a logical point into device space for a canvas of height h.
func FlipY(p vec.Vec2, h float64) vec.Vec2 {
	return vec.Vec2{X: p.X, Y: h - p.Y}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Circle returns the device-space center of a circle centered at (x, y).
func Circle(x, y, h float64) vec.Vec2 {
	return FlipY(vec.Vec2{X: x, Y: y}, h)
}

// Line returns the device-space endpoints of a line segment.
func Line(x0, y0, x1, y1, h float64) (vec.Vec2, vec.Vec2) {
	return FlipY(vec.Vec2{X: x0, Y: y0}, h), FlipY(vec.Vec2{X: x1, Y: y1}, h)
}

// Rectangle returns the four device-space corners of a rectangle whose
// bottom-left corner is (x, y) before rotation. The rectangle turns about its
// center. With zero rotation the corners are, in order, top-right, top-left,
// bottom-left and bottom-right as seen on screen.
func Rectangle(x, y, w, hgt, rotation, h float64) []vec.Vec2 {
	center := vec.Vec2{X: x + w/2, Y: h - (y + hgt/2)}
	r := math.Hypot(hgt/2, w/2)
	a := math.Atan2(hgt/2, w/2)
	rot := Radians(rotation)

	angles := [4]float64{a, math.Pi - a, math.Pi + a, -a}
	corners := make([]vec.Vec2, 0, len(angles))
	for _, theta := range angles {
		theta += rot
		corners = append(corners, center.Add(vec.Vec2{
			X: r * math.Cos(theta),
			Y: -r * math.Sin(theta),
		}))
	}
	return corners
}

// Star returns the 2*points device-space vertices of a star centered at
// (x, y). Vertices alternate between the outer radius and half of it,
// starting with the outer point straight up when rotation is zero.
// Points below one yield no vertices.
func Star(x, y, radius float64, points int, rotation, h float64) []vec.Vec2 {
	if points < 1 {
		return nil
	}
	center := Circle(x, y, h)
	step := 2 * math.Pi / float64(points)
	rot := Radians(rotation)
	inner := radius / 2

	vertices := make([]vec.Vec2, 0, 2*points)
	for i := 0; i < points; i++ {
		outerAngle := float64(i)*step + rot
		innerAngle := (float64(i)+0.5)*step + rot
		vertices = append(vertices,
			center.Add(vec.Vec2{X: radius * math.Sin(outerAngle), Y: -radius * math.Cos(outerAngle)}),
			center.Add(vec.Vec2{X: inner * math.Sin(innerAngle), Y: -inner * math.Cos(innerAngle)}),
		)
	}
	return vertices
}

// Triangle returns the three device-space vertices of an isosceles triangle
// whose bounding box is centered at (x, y). With zero rotation the apex
// points up on screen.
func Triangle(x, y, w, hgt, rotation, h float64) []vec.Vec2 {
	m := rotate(Radians(rotation), Circle(x, y, h))
	base := [3]vec.Vec2{
		{X: -w / 2, Y: hgt / 2},
		{X: w / 2, Y: hgt / 2},
		{X: 0, Y: -hgt / 2},
	}
	vertices := make([]vec.Vec2, 0, len(base))
	for _, p := range base {
		vertices = append(vertices, apply(m, p))
	}
	return vertices
}

// TextTopLeft returns the device-space top-left corner of a text surface of
// the given glyph height whose bottom-left corner sits at logical (x, y).
func TextTopLeft(x, y, glyphHeight, h float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: h - y - glyphHeight}
}

// ImageTopLeft returns the device-space top-left corner of an image whose
// bottom-left corner sits at logical (x, y).
func ImageTopLeft(x, y, imageHeight, h float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: h - (y + imageHeight)}
}

// Centroid returns the arithmetic mean of the given points.
func Centroid(points []vec.Vec2) vec.Vec2 {
	if len(points) == 0 {
		return vec.Vec2{}
	}
	var sum vec.Vec2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

// rotate builds the affine map that turns by theta radians and then moves
// the origin to t.
func rotate(theta float64, t vec.Vec2) matrix.Matrix {
	sin, cos := math.Sincos(theta)
	return matrix.Matrix{cos, sin, -sin, cos, t.X, t.Y}
}

func apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}
