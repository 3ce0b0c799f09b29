package assets

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// DefaultFontSize is the glyph size, in pixels, used when none is configured.
const DefaultFontSize = 16

// Font names accepted by NewFont.
const (
	FontGo     = "go"
	FontGoMono = "gomono"
	FontProggy = "proggy"
)

// maxCachedSurfaces bounds the glyph surface cache of a font.
const maxCachedSurfaces = 512

// NewFont returns the named font at size pixels. An empty name selects the
// Go proportional font.
func NewFont(name string, size float64) (draw.Font, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	switch strings.ToLower(name) {
	case "", FontGo:
		return NewTrueTypeFont(goregular.TTF, size)
	case FontGoMono:
		return NewTrueTypeFont(gomono.TTF, size)
	case FontProggy:
		return NewPixelFont(size), nil
	default:
		return nil, fmt.Errorf("unknown font %q", name)
	}
}

type surfaceKey struct {
	text string
	clr  color.RGBA
}

// surfaceCache remembers rendered glyph surfaces. Scenes draw the same
// labels every frame.
type surfaceCache struct {
	mu      sync.Mutex
	entries map[surfaceKey]image.Image
}

func (c *surfaceCache) get(k surfaceKey, render func() image.Image) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.entries[k]; ok {
		return img
	}
	if c.entries == nil || len(c.entries) >= maxCachedSurfaces {
		c.entries = make(map[surfaceKey]image.Image)
	}
	img := render()
	c.entries[k] = img
	return img
}

// TrueTypeFont renders text with an OpenType face.
type TrueTypeFont struct {
	face   font.Face
	ascent int
	height int
	cache  surfaceCache
}

// NewTrueTypeFont parses TTF data and builds a face of the given pixel size.
func NewTrueTypeFont(ttf []byte, size float64) (*TrueTypeFont, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	m := face.Metrics()
	return &TrueTypeFont{
		face:   face,
		ascent: m.Ascent.Ceil(),
		height: m.Ascent.Ceil() + m.Descent.Ceil(),
	}, nil
}

// Height returns the height of every surface the font renders.
func (f *TrueTypeFont) Height() int {
	return f.height
}

// Render draws text onto a transparent surface one line high.
func (f *TrueTypeFont) Render(text string, clr color.Color) image.Image {
	key := surfaceKey{text: text, clr: draw.RGBA(clr)}
	return f.cache.get(key, func() image.Image {
		width := font.MeasureString(f.face, text).Ceil()
		dst := image.NewRGBA(image.Rect(0, 0, width, f.height))
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(clr),
			Face: f.face,
			Dot:  fixed.P(0, f.ascent),
		}
		d.DrawString(text)
		return dst
	})
}

// PixelFont renders text with the proggy bitmap font, scaled up by a whole
// factor to approach the requested size.
type PixelFont struct {
	font   tinyfont.Fonter
	scale  int
	native int
	cache  surfaceCache
}

// NewPixelFont creates a bitmap font about size pixels high.
func NewPixelFont(size float64) *PixelFont {
	f := &proggy.TinySZ8pt7b
	native := int(f.GetYAdvance())
	scale := int(math.Round(size / float64(native)))
	if scale < 1 {
		scale = 1
	}
	return &PixelFont{font: f, scale: scale, native: native}
}

// Height returns the height of every surface the font renders.
func (f *PixelFont) Height() int {
	return f.native * f.scale
}

// Render draws text onto a transparent surface one line high.
func (f *PixelFont) Render(text string, clr color.Color) image.Image {
	rgba := draw.RGBA(clr)
	return f.cache.get(surfaceKey{text: text, clr: rgba}, func() image.Image {
		_, outbox := tinyfont.LineWidth(f.font, text)
		src := image.NewRGBA(image.Rect(0, 0, int(outbox), f.native))
		baseline := f.native - f.native/4
		tinyfont.WriteLine(&rgbaDisplay{img: src}, f.font, 0, int16(baseline), text, rgba)
		if f.scale == 1 {
			return src
		}
		b := src.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*f.scale, b.Dy()*f.scale))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		return dst
	})
}

// rgbaDisplay lets tinyfont draw into an in-memory image.
type rgbaDisplay struct {
	img *image.RGBA
}

func (d *rgbaDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *rgbaDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.img.SetRGBA(int(x), int(y), c)
}

func (d *rgbaDisplay) Display() error {
	return nil
}
