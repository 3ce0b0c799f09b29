package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"seehuhn.de/go/geom/vec"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// emptySubImage is a 1x1 white image used as the source for filled shapes.
var emptySubImage = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(color.White)
	return img
}()

// ScreenTarget adapts an ebiten image to draw.Target.
//
// Images handed to Blit are uploaded once and reused on later frames as long
// as they keep being drawn; BeginFrame drops the ones that were not.
type ScreenTarget struct {
	screen    *ebiten.Image
	antialias bool
	textures  map[image.Image]*texture
	frame     uint64
}

type texture struct {
	img      *ebiten.Image
	lastUsed uint64
}

// NewScreenTarget creates a target with an empty texture cache. Call
// BeginFrame before drawing each frame.
func NewScreenTarget(antialias bool) *ScreenTarget {
	return &ScreenTarget{
		antialias: antialias,
		textures:  make(map[image.Image]*texture),
	}
}

// BeginFrame points the target at screen and evicts textures unused during
// the previous frame.
func (t *ScreenTarget) BeginFrame(screen *ebiten.Image) {
	for src, tex := range t.textures {
		if tex.lastUsed < t.frame {
			tex.img.Deallocate()
			delete(t.textures, src)
		}
	}
	t.frame++
	t.screen = screen
}

// Size returns the screen dimensions.
func (t *ScreenTarget) Size() (int, int) {
	b := t.screen.Bounds()
	return b.Dx(), b.Dy()
}

// FillPolygon fills the closed polygon through vertices.
func (t *ScreenTarget) FillPolygon(vertices []vec.Vec2, clr color.Color) {
	if len(vertices) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(vertices[0].X), float32(vertices[0].Y))
	for _, v := range vertices[1:] {
		path.LineTo(float32(v.X), float32(v.Y))
	}
	path.Close()
	t.fillPath(&path, clr)
}

// DrawLine strokes a segment one pixel wide.
func (t *ScreenTarget) DrawLine(p0, p1 vec.Vec2, clr color.Color) {
	vector.StrokeLine(t.screen,
		float32(p0.X), float32(p0.Y),
		float32(p1.X), float32(p1.Y),
		1, clr, t.antialias)
}

// FillCircle fills a disc. A radius of zero or less draws nothing.
func (t *ScreenTarget) FillCircle(center vec.Vec2, radius float64, clr color.Color) {
	if radius <= 0 {
		return
	}
	vector.DrawFilledCircle(t.screen, float32(center.X), float32(center.Y), float32(radius), clr, t.antialias)
}

// Blit draws img with its top-left corner at topLeft.
func (t *ScreenTarget) Blit(img image.Image, topLeft vec.Vec2) {
	if img == nil {
		return
	}
	tex, ok := t.textures[img]
	if !ok {
		tex = &texture{img: ebiten.NewImageFromImage(img)}
		t.textures[img] = tex
	}
	tex.lastUsed = t.frame

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(topLeft.X, topLeft.Y)
	t.screen.DrawImage(tex.img, op)
}

func (t *ScreenTarget) fillPath(path *vector.Path, clr color.Color) {
	vertices, indices := path.AppendVerticesAndIndicesForFilling(nil, nil)
	c := draw.RGBA(clr)
	r, g, b, a := unpremultiply(c)
	for i := range vertices {
		vertices[i].SrcX = 0
		vertices[i].SrcY = 0
		vertices[i].ColorR = r
		vertices[i].ColorG = g
		vertices[i].ColorB = b
		vertices[i].ColorA = a
	}
	t.screen.DrawTriangles(vertices, indices, emptySubImage, &ebiten.DrawTrianglesOptions{
		AntiAlias: t.antialias,
		FillRule:  ebiten.FillRuleNonZero,
	})
}

// unpremultiply returns straight-alpha color components in [0, 1], as
// DrawTriangles expects by default.
func unpremultiply(c color.RGBA) (r, g, b, a float32) {
	if c.A == 0 {
		return 0, 0, 0, 0
	}
	a = float32(c.A) / 255
	return float32(c.R) / 255 / a, float32(c.G) / 255 / a, float32(c.B) / 255 / a, a
}

var _ draw.Target = (*ScreenTarget)(nil)
