package draw

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ExtraColors holds names accepted on top of the SVG 1.1 / HTML color
// keywords of colornames.Map.
var ExtraColors = map[string]color.RGBA{
	"saffron":     {R: 244, G: 196, B: 48, A: 255},
	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// LookupColor returns the color with the given name, ignoring case.
func LookupColor(name string) (color.RGBA, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := colornames.Map[name]; ok {
		return c, true
	}
	c, ok := ExtraColors[name]
	return c, ok
}

// ParseColor parses a color string. Accepted forms are HTML color names,
// hex ("#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA"; the "#" may be left out of
// the six and eight digit forms), "rgb(r, g, b)" and "rgba(r, g, b, a)"
// where a is 0-255 or a fraction with a decimal point.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	lower := strings.ToLower(s)
	if c, ok := LookupColor(lower); ok {
		return c, nil
	}
	switch {
	case strings.HasPrefix(lower, "rgba("):
		return parseFunc(lower, "rgba(", 4)
	case strings.HasPrefix(lower, "rgb("):
		return parseFunc(lower, "rgb(", 3)
	case strings.HasPrefix(lower, "#"):
		return parseHex(lower)
	case (len(lower) == 6 || len(lower) == 8) && isHex(lower):
		return parseHex(lower)
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA converts any color to 8-bit alpha-premultiplied RGBA.
func RGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func parseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	var digits []string
	switch len(hex) {
	case 3, 4:
		for _, r := range hex {
			digits = append(digits, string([]rune{r, r}))
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			digits = append(digits, hex[i:i+2])
		}
	default:
		return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
	}

	ch := [4]uint8{0, 0, 0, 255}
	for i, d := range digits {
		v, err := strconv.ParseUint(d, 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseFunc(s, prefix string, n int) (color.RGBA, error) {
	if !strings.HasSuffix(s, ")") {
		return color.RGBA{}, fmt.Errorf("invalid %s) format: %q", prefix, s)
	}
	parts := strings.Split(s[len(prefix):len(s)-1], ",")
	if len(parts) != n {
		return color.RGBA{}, fmt.Errorf("%s) requires exactly %d values, got %d", prefix, n, len(parts))
	}

	ch := [4]uint8{0, 0, 0, 255}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == 3 && strings.Contains(part, ".") {
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid alpha value: %w", err)
			}
			ch[i] = uint8(clamp01(f) * 255)
			continue
		}
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid component %d: %w", i, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
