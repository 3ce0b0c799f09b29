package lua

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// getAllArgs returns the fixed and variadic arguments of a call.
func getAllArgs(c *rt.GoCont) []rt.Value {
	return append(c.Args(), c.Etc()...)
}

func argError(fn string, idx int, name, msg string) error {
	return fmt.Errorf("%s: argument #%d (%s) %s: %w", fn, idx+1, name, msg, ErrInvalidArgument)
}

func present(args []rt.Value, idx int) bool {
	return idx < len(args) && !args[idx].IsNil()
}

// getFloatArg reads a required number.
func getFloatArg(fn string, args []rt.Value, idx int, name string) (float64, error) {
	if !present(args, idx) {
		return 0, argError(fn, idx, name, "missing")
	}
	if f, ok := toFloat(args[idx]); ok {
		return f, nil
	}
	return 0, argError(fn, idx, name, "is not a number")
}

// getOptFloatArg reads a number that may be omitted or nil.
func getOptFloatArg(fn string, args []rt.Value, idx int, name string, def float64) (float64, error) {
	if !present(args, idx) {
		return def, nil
	}
	return getFloatArg(fn, args, idx, name)
}

func getOptIntArg(fn string, args []rt.Value, idx int, name string, def int) (int, error) {
	if !present(args, idx) {
		return def, nil
	}
	if i, ok := args[idx].TryInt(); ok {
		return int(i), nil
	}
	if f, ok := args[idx].TryFloat(); ok && f == math.Trunc(f) {
		return int(f), nil
	}
	return 0, argError(fn, idx, name, "is not an integer")
}

// getStringArg reads a string. Numbers are formatted the way Lua prints them.
func getStringArg(fn string, args []rt.Value, idx int, name string) (string, error) {
	if !present(args, idx) {
		return "", argError(fn, idx, name, "missing")
	}
	if s, ok := toText(args[idx]); ok {
		return s, nil
	}
	return "", argError(fn, idx, name, "is not a string")
}

// getColorArg reads a color given as a string or a table.
func getColorArg(fn string, args []rt.Value, idx int, name string) (color.Color, error) {
	if !present(args, idx) {
		return nil, argError(fn, idx, name, "missing")
	}
	c, err := colorFromValue(args[idx])
	if err != nil {
		return nil, argError(fn, idx, name, err.Error())
	}
	return c, nil
}

func toFloat(v rt.Value) (float64, bool) {
	if f, ok := v.TryFloat(); ok {
		return f, true
	}
	if i, ok := v.TryInt(); ok {
		return float64(i), true
	}
	return 0, false
}

func toText(v rt.Value) (string, bool) {
	if s, ok := v.TryString(); ok {
		return s, true
	}
	if i, ok := v.TryInt(); ok {
		return strconv.FormatInt(i, 10), true
	}
	if f, ok := v.TryFloat(); ok {
		return strconv.FormatFloat(f, 'g', 14, 64), true
	}
	return "", false
}

// colorFromValue accepts a color string ("red", "#ff0000", "rgb(...)") or a
// table {r, g, b[, a]} / {r=, g=, b=[, a=]} with 0-255 components.
func colorFromValue(v rt.Value) (color.RGBA, error) {
	if s, ok := v.TryString(); ok {
		return draw.ParseColor(s)
	}
	t, ok := v.TryTable()
	if !ok {
		return color.RGBA{}, fmt.Errorf("is not a color")
	}
	return colorFromTable(t)
}

func colorFromTable(t *rt.Table) (color.RGBA, error) {
	keys := [4]string{"r", "g", "b", "a"}
	ch := [4]uint8{0, 0, 0, 255}
	for i, k := range keys {
		v := t.Get(rt.IntValue(int64(i + 1)))
		if v.IsNil() {
			v = t.Get(rt.StringValue(k))
		}
		if v.IsNil() {
			if i < 3 {
				return color.RGBA{}, fmt.Errorf("color table is missing %s", k)
			}
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return color.RGBA{}, fmt.Errorf("color component %s is not a number", k)
		}
		ch[i] = clampByte(f)
	}
	straight := color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
	return color.RGBAModel.Convert(straight).(color.RGBA), nil
}

// isColorTable reports whether t looks like a color rather than an options
// table.
func isColorTable(t *rt.Table) bool {
	return !t.Get(rt.IntValue(1)).IsNil() || !t.Get(rt.StringValue("r")).IsNil()
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

func colorTable(c color.RGBA) *rt.Table {
	t := rt.NewTable()
	t.Set(rt.StringValue("r"), rt.IntValue(int64(c.R)))
	t.Set(rt.StringValue("g"), rt.IntValue(int64(c.G)))
	t.Set(rt.StringValue("b"), rt.IntValue(int64(c.B)))
	t.Set(rt.StringValue("a"), rt.IntValue(int64(c.A)))
	return t
}
