package scene

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"strings"
	"testing"

	"seehuhn.de/go/geom/vec"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

type op struct {
	name string
	n    int
	clr  color.Color
}

type fakeTarget struct {
	ops []op
}

func (f *fakeTarget) Size() (int, int) { return 240, 240 }

func (f *fakeTarget) FillPolygon(v []vec.Vec2, clr color.Color) {
	f.ops = append(f.ops, op{"polygon", len(v), clr})
}

func (f *fakeTarget) DrawLine(p0, p1 vec.Vec2, clr color.Color) {
	f.ops = append(f.ops, op{"line", 2, clr})
}

func (f *fakeTarget) FillCircle(c vec.Vec2, r float64, clr color.Color) {
	f.ops = append(f.ops, op{"circle", 1, clr})
}

func (f *fakeTarget) Blit(img image.Image, topLeft vec.Vec2) {
	f.ops = append(f.ops, op{"blit", 1, nil})
}

type fixedFont struct{}

func (fixedFont) Render(text string, clr color.Color) image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8*len(text), 16))
}

type oneImage struct{}

func (oneImage) Image(name string) (image.Image, bool) {
	if name != "search.png" {
		return nil, false
	}
	return image.NewRGBA(image.Rect(0, 0, 16, 16)), true
}

type bogus struct{}

func (bogus) Kind() Kind { return Kind(42) }

func newPainter() (*draw.Painter, *fakeTarget) {
	t := &fakeTarget{}
	return draw.NewPainter(t, draw.WithFont(fixedFont{}), draw.WithImages(oneImage{})), t
}

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func TestFlushDispatchesEveryKind(t *testing.T) {
	b := NewBuffer()
	b.Circle(1, 2, red, 3)
	b.Line(0, 0, 10, 10, green)
	b.Rectangle(0, 0, 10, 10, blue)
	b.Star(5, 5, red, 4)
	b.Triangle(5, 5, green, 4, 4, 30)
	b.Text("hi", 0, 0, blue)
	b.Image("search.png", 0, 0)
	b.Record(Star{X: 1, Y: 1, Color: blue, Radius: 2, Points: 7})

	p, target := newPainter()
	if err := b.Flush(p); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := []op{
		{"circle", 1, red},
		{"line", 2, green},
		{"polygon", 4, blue},
		{"polygon", 10, red},
		{"polygon", 3, green},
		{"blit", 1, nil},
		{"blit", 1, nil},
		{"polygon", 14, blue},
	}
	if !reflect.DeepEqual(target.ops, want) {
		t.Errorf("ops = %v, want %v", target.ops, want)
	}
	if b.Len() != len(want) {
		t.Errorf("Flush changed the buffer: Len() = %d", b.Len())
	}
}

func TestFlushReplaysEachFrame(t *testing.T) {
	b := NewBuffer()
	b.Circle(1, 1, red, 1)
	p, target := newPainter()
	for i := 0; i < 3; i++ {
		if err := b.Flush(p); err != nil {
			t.Fatal(err)
		}
	}
	if len(target.ops) != 3 {
		t.Errorf("got %d draws over 3 frames, want 3", len(target.ops))
	}
}

func TestFlushInsertionOrder(t *testing.T) {
	b := NewBuffer()
	colors := []color.Color{red, green, blue, red}
	for _, c := range colors {
		b.Rectangle(0, 0, 1, 1, c)
	}
	p, target := newPainter()
	if err := b.Flush(p); err != nil {
		t.Fatal(err)
	}
	for i, o := range target.ops {
		if o.clr != colors[i] {
			t.Errorf("op %d color = %v, want %v", i, o.clr, colors[i])
		}
	}
}

func TestFlushUnknownKind(t *testing.T) {
	b := NewBuffer()
	b.Circle(1, 1, red, 1)
	b.Record(bogus{})
	b.Circle(2, 2, green, 1)

	p, target := newPainter()
	err := b.Flush(p)
	if !errors.Is(err, ErrUnknownShapeKind) {
		t.Fatalf("Flush() error = %v, want ErrUnknownShapeKind", err)
	}
	var uk *UnknownShapeKindError
	if !errors.As(err, &uk) || uk.Kind != "Kind(42)" {
		t.Errorf("error kind = %v", err)
	}
	if len(target.ops) != 1 {
		t.Errorf("got %d draws, want the one before the failure", len(target.ops))
	}
}

func TestFlushMissingImage(t *testing.T) {
	b := NewBuffer()
	b.Image("nope.png", 0, 0)
	p, _ := newPainter()
	err := b.Flush(p)
	if !errors.Is(err, draw.ErrMissingImage) {
		t.Fatalf("Flush() error = %v, want ErrMissingImage", err)
	}
	if !strings.Contains(err.Error(), "shape 0") {
		t.Errorf("error %q does not name the shape index", err)
	}
}

func TestGeneric(t *testing.T) {
	tests := []struct {
		name    string
		g       Generic
		want    Shape
		wantErr error
	}{
		{
			name: "circle",
			g:    Generic{Name: "circle", Args: []any{int64(120), 120.0, red, 60}},
			want: Circle{X: 120, Y: 120, Color: red, Radius: 60},
		},
		{
			name: "rectangle with rotation option",
			g:    Generic{Name: "rectangle", Args: []any{0, 0, 10, 20, blue}, Options: map[string]any{"rotation": 45}},
			want: Rectangle{Width: 10, Height: 20, Color: blue, Rotation: 45},
		},
		{
			name: "star points",
			g:    Generic{Name: "star", Args: []any{1, 2, red, 3, int64(6)}},
			want: Star{X: 1, Y: 2, Color: red, Radius: 3, Points: 6},
		},
		{
			name: "text",
			g:    Generic{Name: "text", Args: []any{"0,0", 0, 0, red}},
			want: Text{Text: "0,0", Color: red},
		},
		{
			name: "image",
			g:    Generic{Name: "image", Args: []any{"search.png", 80, 160}},
			want: Image{Name: "search.png", X: 80, Y: 160},
		},
		{
			name: "star defaults to five points",
			g:    Generic{Name: "star", Args: []any{1, 2, red, 3}},
			want: Star{X: 1, Y: 2, Color: red, Radius: 3, Points: 5},
		},
		{
			name: "star with zero points",
			g:    Generic{Name: "star", Args: []any{1, 2, red, 3, 0}},
			want: Star{X: 1, Y: 2, Color: red, Radius: 3},
		},
		{name: "unknown", g: Generic{Name: "hexagon"}, wantErr: ErrUnknownShapeKind},
		{name: "capitalised kind", g: Generic{Name: "Circle", Args: []any{0, 0, red, 1}}, wantErr: ErrUnknownShapeKind},
		{
			name:    "misspelt option",
			g:       Generic{Name: "rectangle", Args: []any{0, 0, 10, 20, blue}, Options: map[string]any{"rotaton": 45}},
			wantErr: ErrInvalidArgument,
		},
		{
			name:    "option of another kind",
			g:       Generic{Name: "circle", Args: []any{0, 0, red, 1}, Options: map[string]any{"points": 6}},
			wantErr: ErrInvalidArgument,
		},
		{name: "missing arg", g: Generic{Name: "line", Args: []any{0, 0, 1, 1}}, wantErr: ErrInvalidArgument},
		{name: "too many", g: Generic{Name: "image", Args: []any{"a", 1, 2, 3}}, wantErr: ErrInvalidArgument},
		{name: "bad number", g: Generic{Name: "circle", Args: []any{"x", 0, red, 1}}, wantErr: ErrInvalidArgument},
		{
			name: "color by name",
			g:    Generic{Name: "circle", Args: []any{0, 0, "red", 1}},
			want: Circle{Color: red, Radius: 1},
		},
		{name: "bad color", g: Generic{Name: "circle", Args: []any{0, 0, "notacolor", 1}}, wantErr: ErrInvalidArgument},
		{name: "color of wrong type", g: Generic{Name: "circle", Args: []any{0, 0, 3.5, 1}}, wantErr: ErrInvalidArgument},
		{name: "fractional points", g: Generic{Name: "star", Args: []any{0, 0, red, 1, 2.5}}, wantErr: ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.g.Resolve()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFlushGenericUnknown(t *testing.T) {
	b := NewBuffer()
	b.Record(Generic{Name: "hexagon"})
	p, _ := newPainter()
	err := b.Flush(p)
	var uk *UnknownShapeKindError
	if !errors.As(err, &uk) || uk.Kind != "hexagon" {
		t.Fatalf("Flush() error = %v, want unknown kind hexagon", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k, got, err)
		}

		upper := strings.ToUpper(k.String())
		_, err = ParseKind(upper)
		var uk *UnknownShapeKindError
		if !errors.As(err, &uk) || uk.Kind != upper {
			t.Errorf("ParseKind(%q) error = %v, want unknown kind naming it", upper, err)
		}
	}
	if _, err := ParseKind(" circle "); !errors.Is(err, ErrUnknownShapeKind) {
		t.Errorf("ParseKind with spaces error = %v, want ErrUnknownShapeKind", err)
	}
}

func TestFlushStarWithoutPoints(t *testing.T) {
	b := NewBuffer()
	b.Record(Star{X: 5, Y: 5, Color: red, Radius: 4})
	b.Circle(1, 1, blue, 1)

	p, target := newPainter()
	if err := b.Flush(p); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	want := []op{{"polygon", 0, red}, {"circle", 1, blue}}
	if !reflect.DeepEqual(target.ops, want) {
		t.Errorf("ops = %v, want %v", target.ops, want)
	}
}

func TestReset(t *testing.T) {
	b := NewBuffer()
	b.Circle(0, 0, red, 1)
	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len() after Reset = %d", b.Len())
	}
	p, target := newPainter()
	if err := b.Flush(p); err != nil || len(target.ops) != 0 {
		t.Errorf("Flush of empty buffer: err=%v ops=%v", err, target.ops)
	}
}
