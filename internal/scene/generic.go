package scene

import (
	"fmt"
	"image/color"
	"slices"
	"strconv"

	"github.com/opd-ai/go-flagdraw/internal/draw"
	"github.com/opd-ai/go-flagdraw/internal/geometry"
)

// KindDynamic is reported by Generic records, whose real kind is only known
// once they are resolved.
const KindDynamic Kind = -1

// Generic is a shape named at runtime. Args are positional in the order of
// the matching drawing verb; Options holds named arguments (for example
// "rotation" or "points") and overrides positional ones. Colors may be
// color.Color values or strings understood by draw.ParseColor.
//
// A Generic record is resolved when the buffer is flushed, so an unknown
// name or a bad argument surfaces as a flush error.
type Generic struct {
	Name    string
	Args    []any
	Options map[string]any
}

// Kind implements Shape.
func (Generic) Kind() Kind { return KindDynamic }

// params lists the positional parameter names of each kind. Parameters past
// required are optional.
var params = map[Kind]struct {
	names    []string
	required int
}{
	KindCircle:    {[]string{"x", "y", "color", "radius"}, 4},
	KindLine:      {[]string{"start_x", "start_y", "end_x", "end_y", "color"}, 5},
	KindRectangle: {[]string{"x", "y", "width", "height", "color", "rotation"}, 5},
	KindStar:      {[]string{"x", "y", "color", "radius", "points", "rotation"}, 4},
	KindTriangle:  {[]string{"x", "y", "color", "width", "height", "rotation"}, 5},
	KindText:      {[]string{"text", "x", "y", "color"}, 4},
	KindImage:     {[]string{"image_name", "x", "y"}, 3},
}

// Resolve converts g into the typed record for its kind.
func (g Generic) Resolve() (Shape, error) {
	kind, err := ParseKind(g.Name)
	if err != nil {
		return nil, err
	}
	sig := params[kind]
	if len(g.Args) > len(sig.names) {
		return nil, &ArgumentError{
			Kind:    kind.String(),
			Arg:     strconv.Itoa(len(sig.names) + 1),
			Message: fmt.Sprintf("too many arguments (%d, at most %d)", len(g.Args), len(sig.names)),
		}
	}

	a := args{kind: kind, values: make(map[string]any, len(sig.names))}
	for i, v := range g.Args {
		a.values[sig.names[i]] = v
	}
	for k, v := range g.Options {
		if !slices.Contains(sig.names, k) {
			return nil, &ArgumentError{Kind: kind.String(), Arg: k, Message: "unknown option"}
		}
		a.values[k] = v
	}
	if v, ok := a.values["points"]; kind == KindStar && (!ok || v == nil) {
		a.values["points"] = geometry.DefaultStarPoints
	}
	for _, name := range sig.names[:sig.required] {
		if _, ok := a.values[name]; !ok {
			return nil, &ArgumentError{Kind: kind.String(), Arg: name, Message: "missing"}
		}
	}

	var s Shape
	switch kind {
	case KindCircle:
		s = Circle{X: a.floatArg("x"), Y: a.floatArg("y"), Color: a.colorArg("color"), Radius: a.floatArg("radius")}
	case KindLine:
		s = Line{
			StartX: a.floatArg("start_x"), StartY: a.floatArg("start_y"),
			EndX: a.floatArg("end_x"), EndY: a.floatArg("end_y"),
			Color: a.colorArg("color"),
		}
	case KindRectangle:
		s = Rectangle{
			X: a.floatArg("x"), Y: a.floatArg("y"),
			Width: a.floatArg("width"), Height: a.floatArg("height"),
			Color: a.colorArg("color"), Rotation: a.floatArg("rotation"),
		}
	case KindStar:
		s = Star{
			X: a.floatArg("x"), Y: a.floatArg("y"), Color: a.colorArg("color"),
			Radius: a.floatArg("radius"), Points: a.intArg("points"), Rotation: a.floatArg("rotation"),
		}
	case KindTriangle:
		s = Triangle{
			X: a.floatArg("x"), Y: a.floatArg("y"), Color: a.colorArg("color"),
			Width: a.floatArg("width"), Height: a.floatArg("height"), Rotation: a.floatArg("rotation"),
		}
	case KindText:
		s = Text{Text: a.stringArg("text"), X: a.floatArg("x"), Y: a.floatArg("y"), Color: a.colorArg("color")}
	case KindImage:
		s = Image{Name: a.stringArg("image_name"), X: a.floatArg("x"), Y: a.floatArg("y")}
	}
	if a.err != nil {
		return nil, a.err
	}
	return s, nil
}

// args converts named values, keeping the first conversion error.
type args struct {
	kind   Kind
	values map[string]any
	err    error
}

func (a *args) fail(name, msg string) {
	if a.err == nil {
		a.err = &ArgumentError{Kind: a.kind.String(), Arg: name, Message: msg}
	}
}

func (a *args) floatArg(name string) float64 {
	v, ok := a.values[name]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint8:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err == nil {
			return f
		}
	}
	a.fail(name, fmt.Sprintf("expected a number, got %T", v))
	return 0
}

func (a *args) intArg(name string) int {
	f := a.floatArg(name)
	if f != float64(int(f)) {
		a.fail(name, fmt.Sprintf("expected an integer, got %v", f))
	}
	return int(f)
}

func (a *args) stringArg(name string) string {
	switch s := a.values[name].(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func (a *args) colorArg(name string) color.Color {
	switch c := a.values[name].(type) {
	case color.Color:
		return c
	case string:
		rgba, err := draw.ParseColor(c)
		if err != nil {
			a.fail(name, err.Error())
			return nil
		}
		return rgba
	case nil:
		a.fail(name, "missing color")
	default:
		a.fail(name, fmt.Sprintf("expected a color, got %T", c))
	}
	return nil
}
