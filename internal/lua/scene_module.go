package lua

import (
	"fmt"
	"image/color"
	"slices"
	"sync"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-flagdraw/internal/scene"
)

// SceneModule exposes the drawing verbs to Lua. Each verb records a shape
// into the module's buffer; nothing is drawn until the buffer is flushed.
//
// Globals registered:
//
//	draw_circle(x, y, color, radius)
//	draw_line(start_x, start_y, end_x, end_y, color)
//	draw_rectangle(x, y, width, height, color [, rotation])
//	draw_star(x, y, color, radius [, points [, rotation]])
//	draw_triangle(x, y, color, width, height [, rotation])
//	draw_text(text, x, y, color)
//	draw_image(image_name, x, y)
//	draw_shape(kind, ... [, options])
//	rgb(r, g, b [, a])
//	SCREEN_WIDTH, SCREEN_HEIGHT
//	flags = { config = {} }
type SceneModule struct {
	runtime *Runtime
	buf     *scene.Buffer
	width   int
	height  int
	mu      sync.Mutex
}

// SceneModuleOption configures a SceneModule at construction time.
type SceneModuleOption func(*SceneModule)

// WithCanvasSize sets the values of SCREEN_WIDTH and SCREEN_HEIGHT.
func WithCanvasSize(width, height int) SceneModuleOption {
	return func(sm *SceneModule) {
		if width > 0 && height > 0 {
			sm.width = width
			sm.height = height
		}
	}
}

// NewSceneModule registers the drawing globals in runtime. Shapes are
// recorded into buf; a nil buf gets a fresh buffer.
func NewSceneModule(runtime *Runtime, buf *scene.Buffer, opts ...SceneModuleOption) (*SceneModule, error) {
	if runtime == nil {
		return nil, ErrNilRuntime
	}
	if buf == nil {
		buf = scene.NewBuffer()
	}

	sm := &SceneModule{
		runtime: runtime,
		buf:     buf,
		width:   240,
		height:  240,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	sm.registerFunctions()
	sm.setupGlobals()
	return sm, nil
}

// Buffer returns the buffer shapes are recorded into.
func (sm *SceneModule) Buffer() *scene.Buffer {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.buf
}

// SetBuffer redirects recording to buf, for example before re-running a
// script on reload.
func (sm *SceneModule) SetBuffer(buf *scene.Buffer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.buf = buf
}

// SetCanvasSize updates SCREEN_WIDTH and SCREEN_HEIGHT and gives the script
// a fresh flags table, ready for the script to run again.
func (sm *SceneModule) SetCanvasSize(width, height int) {
	sm.mu.Lock()
	sm.width, sm.height = width, height
	sm.mu.Unlock()
	sm.setupGlobals()
}

// ConfigTable returns the flags.config table a script filled in, or nil if
// the script replaced flags or flags.config with something else.
func (sm *SceneModule) ConfigTable() *rt.Table {
	flags, ok := sm.runtime.GetGlobal("flags").TryTable()
	if !ok {
		return nil
	}
	cfg, ok := flags.Get(rt.StringValue("config")).TryTable()
	if !ok {
		return nil
	}
	return cfg
}

func (sm *SceneModule) record(s scene.Shape) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.buf.Record(s)
}

func (sm *SceneModule) registerFunctions() {
	sm.runtime.SetGoFunction("draw_circle", sm.drawCircle, 4, false)
	sm.runtime.SetGoFunction("draw_line", sm.drawLine, 5, false)
	sm.runtime.SetGoFunction("draw_rectangle", sm.drawRectangle, 6, false)
	sm.runtime.SetGoFunction("draw_star", sm.drawStar, 6, false)
	sm.runtime.SetGoFunction("draw_triangle", sm.drawTriangle, 6, false)
	sm.runtime.SetGoFunction("draw_text", sm.drawText, 4, false)
	sm.runtime.SetGoFunction("draw_image", sm.drawImage, 3, false)
	sm.runtime.SetGoFunction("draw_shape", sm.drawShape, 1, true)
	sm.runtime.SetGoFunction("rgb", sm.rgb, 4, false)
}

func (sm *SceneModule) setupGlobals() {
	sm.mu.Lock()
	w, h := sm.width, sm.height
	sm.mu.Unlock()

	sm.runtime.SetGlobal("SCREEN_WIDTH", rt.IntValue(int64(w)))
	sm.runtime.SetGlobal("SCREEN_HEIGHT", rt.IntValue(int64(h)))

	flags := rt.NewTable()
	flags.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	sm.runtime.SetGlobal("flags", rt.TableValue(flags))
}

// drawCircle handles draw_circle(x, y, color, radius).
func (sm *SceneModule) drawCircle(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "draw_circle"
	args := getAllArgs(c)
	var (
		s   scene.Circle
		err error
	)
	if s.X, err = getFloatArg(fn, args, 0, "x"); err != nil {
		return nil, err
	}
	if s.Y, err = getFloatArg(fn, args, 1, "y"); err != nil {
		return nil, err
	}
	if s.Color, err = getColorArg(fn, args, 2, "color"); err != nil {
		return nil, err
	}
	if s.Radius, err = getFloatArg(fn, args, 3, "radius"); err != nil {
		return nil, err
	}
	sm.record(s)
	return c.Next(), nil
}

// drawLine handles draw_line(start_x, start_y, end_x, end_y, color).
func (sm *SceneModule) drawLine(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "draw_line"
	args := getAllArgs(c)
	var (
		s   scene.Line
		err error
	)
	if s.StartX, err = getFloatArg(fn, args, 0, "start_x"); err != nil {
		return nil, err
	}
	if s.StartY, err = getFloatArg(fn, args, 1, "start_y"); err != nil {
		return nil, err
	}
	if s.EndX, err = getFloatArg(fn, args, 2, "end_x"); err != nil {
		return nil, err
	}
	if s.EndY, err = getFloatArg(fn, args, 3, "end_y"); err != nil {
		return nil, err
	}
	if s.Color, err = getColorArg(fn, args, 4, "color"); err != nil {
		return nil, err
	}
	sm.record(s)
	return c.Next(), nil
}

// drawRectangle handles draw_rectangle(x, y, width, height, color [, rotation]).
func (sm *SceneModule) drawRectangle(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "draw_rectangle"
	args := getAllArgs(c)
	var (
		s   scene.Rectangle
		err error
	)
	if s.X, err = getFloatArg(fn, args, 0, "x"); err != nil {
		return nil, err
	}
	if s.Y, err = getFloatArg(fn, args, 1, "y"); err != nil {
		return nil, err
	}
	if s.Width, err = getFloatArg(fn, args, 2, "width"); err != nil {
		return nil, err
	}
	if s.Height, err = getFloatArg(fn, args, 3, "height"); err != nil {
		return nil, err
	}
	if s.Color, err = getColorArg(fn, args, 4, "color"); err != nil {
		return nil, err
	}
	if s.Rotation, err = getOptFloatArg(fn, args, 5, "rotation", 0); err != nil {
		return nil, err
	}
	sm.record(s)
	return c.Next(), nil
}

// drawStar handles draw_star(x, y, color, radius [, points [, rotation]]).
func (sm *SceneModule) drawStar(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "draw_star"
	args := getAllArgs(c)
	var (
		s   scene.Star
		err error
	)
	if s.X, err = getFloatArg(fn, args, 0, "x"); err != nil {
		return nil, err
	}
	if s.Y, err = getFloatArg(fn, args, 1, "y"); err != nil {
		return nil, err
	}
	if s.Color, err = getColorArg(fn, args, 2, "color"); err != nil {
		return nil, err
	}
	if s.Radius, err = getFloatArg(fn, args, 3, "radius"); err != nil {
		return nil, err
	}
	if s.Points, err = getOptIntArg(fn, args, 4, "points", 5); err != nil {
		return nil, err
	}
	if s.Rotation, err = getOptFloatArg(fn, args, 5, "rotation", 0); err != nil {
		return nil, err
	}
	sm.record(s)
	return c.Next(), nil
}

// drawTriangle handles draw_triangle(x, y, color, width, height [, rotation]).
func (sm *SceneModule) drawTriangle(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "draw_triangle"
	args := getAllArgs(c)
	var (
		s   scene.Triangle
		err error
	)
	if s.X, err = getFloatArg(fn, args, 0, "x"); err != nil {
		return nil, err
	}
	if s.Y, err = getFloatArg(fn, args, 1, "y"); err != nil {
		return nil, err
	}
	if s.Color, err = getColorArg(fn, args, 2, "color"); err != nil {
		return nil, err
	}
	if s.Width, err = getFloatArg(fn, args, 3, "width"); err != nil {
		return nil, err
	}
	if s.Height, err = getFloatArg(fn, args, 4, "height"); err != nil {
		return nil, err
	}
	if s.Rotation, err = getOptFloatArg(fn, args, 5, "rotation", 0); err != nil {
		return nil, err
	}
	sm.record(s)
	return c.Next(), nil
}

// drawText handles draw_text(text, x, y, color).
func (sm *SceneModule) drawText(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "draw_text"
	args := getAllArgs(c)
	var (
		s   scene.Text
		err error
	)
	if s.Text, err = getStringArg(fn, args, 0, "text"); err != nil {
		return nil, err
	}
	if s.X, err = getFloatArg(fn, args, 1, "x"); err != nil {
		return nil, err
	}
	if s.Y, err = getFloatArg(fn, args, 2, "y"); err != nil {
		return nil, err
	}
	if s.Color, err = getColorArg(fn, args, 3, "color"); err != nil {
		return nil, err
	}
	sm.record(s)
	return c.Next(), nil
}

// drawImage handles draw_image(image_name, x, y). The name is only looked up
// when the scene is flushed.
func (sm *SceneModule) drawImage(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "draw_image"
	args := getAllArgs(c)
	var (
		s   scene.Image
		err error
	)
	if s.Name, err = getStringArg(fn, args, 0, "image_name"); err != nil {
		return nil, err
	}
	if s.X, err = getFloatArg(fn, args, 1, "x"); err != nil {
		return nil, err
	}
	if s.Y, err = getFloatArg(fn, args, 2, "y"); err != nil {
		return nil, err
	}
	sm.record(s)
	return c.Next(), nil
}

// drawShape handles draw_shape(kind, ...). The remaining arguments follow the
// matching draw_* verb; a trailing table that is not a color holds named
// options such as {rotation = 45}. The record is resolved at flush time, so
// an unknown kind fails the flush rather than the call.
func (sm *SceneModule) drawShape(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "draw_shape"
	args := getAllArgs(c)
	name, err := getStringArg(fn, args, 0, "kind")
	if err != nil {
		return nil, err
	}
	rest := args[1:]

	g := scene.Generic{Name: name}
	if n := len(rest); n > 0 {
		if tbl, ok := rest[n-1].TryTable(); ok && !isColorTable(tbl) {
			opts, err := optionsFromTable(tbl)
			if err != nil {
				return nil, argError(fn, len(args)-1, "options", err.Error())
			}
			g.Options = opts
			rest = rest[:n-1]
		}
	}
	for i, v := range rest {
		gv, err := goValue(v)
		if err != nil {
			return nil, argError(fn, i+1, "argument", err.Error())
		}
		g.Args = append(g.Args, gv)
	}
	sm.record(g)
	return c.Next(), nil
}

// rgb handles rgb(r, g, b [, a]) and returns a color table.
func (sm *SceneModule) rgb(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	const fn = "rgb"
	args := getAllArgs(c)
	var ch [4]float64
	for i, name := range [3]string{"r", "g", "b"} {
		v, err := getFloatArg(fn, args, i, name)
		if err != nil {
			return nil, err
		}
		ch[i] = v
	}
	a, err := getOptFloatArg(fn, args, 3, "a", 255)
	if err != nil {
		return nil, err
	}
	ch[3] = a
	clr := color.RGBA{R: clampByte(ch[0]), G: clampByte(ch[1]), B: clampByte(ch[2]), A: clampByte(ch[3])}
	return c.PushingNext1(t.Runtime, rt.TableValue(colorTable(clr))), nil
}

// shapeOptions are the names draw_shape accepts in its options table.
var shapeOptions = []string{"rotation", "points", "color"}

// optionsFromTable reads the named options of draw_shape. Keys outside
// shapeOptions are rejected.
func optionsFromTable(t *rt.Table) (map[string]any, error) {
	opts := make(map[string]any)
	for k, v, _ := t.Next(rt.NilValue); !k.IsNil(); k, v, _ = t.Next(k) {
		key, ok := k.TryString()
		if !ok || !slices.Contains(shapeOptions, key) {
			return nil, fmt.Errorf("unknown option %v", k.Interface())
		}
		if v.IsNil() {
			continue
		}
		gv, err := goValue(v)
		if err != nil {
			return nil, err
		}
		opts[key] = gv
	}
	return opts, nil
}

// goValue converts a Lua argument for a scene.Generic record.
func goValue(v rt.Value) (any, error) {
	if tbl, ok := v.TryTable(); ok {
		clr, err := colorFromTable(tbl)
		if err != nil {
			return nil, err
		}
		return clr, nil
	}
	switch x := v.Interface().(type) {
	case int64, float64, string, bool:
		return x, nil
	case nil:
		return nil, nil
	}
	return nil, errNotAValue
}
