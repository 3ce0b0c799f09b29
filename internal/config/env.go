package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "FLAGDRAW_"

// envVarPattern matches environment variable references in configuration values.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// It supports the following formats:
//   - ${VAR_NAME} - replaced with value of VAR_NAME
//   - ${VAR_NAME:-default} - replaced with VAR_NAME's value, or "default" if unset/empty
//   - $VAR_NAME - replaced with value of VAR_NAME (simple format)
//
// Unknown or unset variables without defaults are replaced with empty string.
func ExpandEnv(s string) string {
	return ExpandEnvWith(s, os.LookupEnv)
}

// ExpandEnvWith is like ExpandEnv but resolves variables with lookup.
func ExpandEnvWith(s string, lookup LookupFunc) string {
	get := func(key string) string {
		val, _ := lookup(key)
		return val
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") && strings.HasSuffix(match, "}") {
			inner := match[2 : len(match)-1]

			if idx := strings.Index(inner, ":-"); idx >= 0 {
				if val := get(inner[:idx]); val != "" {
					return val
				}
				return inner[idx+2:]
			}
			return get(inner)
		}
		return get(match[1:])
	})
}

// ExpandEnvConfig expands environment variables in the path settings:
// the images directory and the output file.
func ExpandEnvConfig(cfg *Config) {
	ExpandEnvConfigWith(cfg, os.LookupEnv)
}

// ExpandEnvConfigWith is like ExpandEnvConfig but resolves variables with
// lookup. A nil lookup leaves the paths unchanged.
func ExpandEnvConfigWith(cfg *Config, lookup LookupFunc) {
	if cfg == nil || lookup == nil {
		return
	}
	cfg.Assets.ImagesDir = ExpandEnvWith(cfg.Assets.ImagesDir, lookup)
	cfg.Output.Path = ExpandEnvWith(cfg.Output.Path, lookup)
}

// LookupFunc looks up an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with FLAGDRAW_* variables found by lookup:
//
//	FLAGDRAW_WIDTH, FLAGDRAW_HEIGHT, FLAGDRAW_BACKGROUND, FLAGDRAW_ANTIALIAS,
//	FLAGDRAW_TITLE, FLAGDRAW_SCALE, FLAGDRAW_IMAGES, FLAGDRAW_FONT,
//	FLAGDRAW_FONT_SIZE, FLAGDRAW_OUTPUT, FLAGDRAW_BACKEND
//
// A nil lookup uses os.LookupEnv. The first malformed value is returned as
// an error naming the variable; settings applied before it are kept.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if cfg == nil {
		return nil
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("WIDTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("WIDTH", v, err)
		}
		cfg.Canvas.Width = n
	}
	if v, ok := get("HEIGHT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("HEIGHT", v, err)
		}
		cfg.Canvas.Height = n
	}
	if v, ok := get("BACKGROUND"); ok {
		c, err := draw.ParseColor(v)
		if err != nil {
			return envError("BACKGROUND", v, err)
		}
		cfg.Canvas.Background = c
	}
	if v, ok := get("ANTIALIAS"); ok {
		cfg.Canvas.AntiAlias = parseBool(v)
	}
	if v, ok := get("TITLE"); ok {
		cfg.Window.Title = v
	}
	if v, ok := get("SCALE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("SCALE", v, err)
		}
		cfg.Window.Scale = f
	}
	if v, ok := get("IMAGES"); ok {
		cfg.Assets.ImagesDir = v
	}
	if v, ok := get("FONT"); ok {
		cfg.Assets.Font = v
	}
	if v, ok := get("FONT_SIZE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("FONT_SIZE", v, err)
		}
		cfg.Assets.FontSize = f
	}
	if v, ok := get("OUTPUT"); ok {
		cfg.Output.Path = v
	}
	if v, ok := get("BACKEND"); ok {
		b, err := ParseBackend(v)
		if err != nil {
			return envError("BACKEND", v, err)
		}
		cfg.Output.Backend = b
	}
	return nil
}

func envError(name, value string, err error) error {
	return fmt.Errorf("invalid %s%s=%q: %w", EnvPrefix, name, value, err)
}

// parseBool parses a boolean value from common string representations.
// Accepts: yes, no, true, false, 1, 0
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}
