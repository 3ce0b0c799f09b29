// This file implements the Lua configuration format: a flags.config table
// filled in by the scene script or by a standalone configuration file.

package config

import (
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-flagdraw/internal/draw"
)

// LuaConfigParser parses standalone Lua configuration files. A file sets
// fields of the flags.config table, the same table scene scripts use:
//
//	flags.config.width = 320
//	flags.config.background = "#002395"
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser with custom output.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// Parse executes a Lua configuration and applies its flags.config table on
// top of the defaults.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := p.ParseInto(&cfg, content); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseInto executes a Lua configuration and applies its flags.config table
// on top of cfg.
func (p *LuaConfigParser) ParseInto(cfg *Config, content []byte) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Golua panics when a hard limit is reached.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Lua configuration aborted: %v", r)
		}
	}()

	p.initGlobals(cfg)

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    1_000_000,
			Memory: 10 * 1024 * 1024, // 10 MB
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	if _, err := rt.Call1(p.runtime.MainThread(), rt.FunctionValue(closure)); err != nil {
		return fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	flags, ok := p.runtime.GlobalEnv().Get(rt.StringValue("flags")).TryTable()
	if !ok {
		return fmt.Errorf("flags is not a table")
	}
	table, ok := flags.Get(rt.StringValue("config")).TryTable()
	if !ok {
		return fmt.Errorf("flags.config is not a table")
	}
	return ApplyTable(cfg, table)
}

// ParseFile reads and parses a configuration file.
func (p *LuaConfigParser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return p.Parse(content)
}

// ParseFromFS reads and parses a configuration file from fsys.
func (p *LuaConfigParser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}
	return p.Parse(content)
}

// initGlobals gives the configuration an empty flags.config table and the
// canvas size it starts from.
func (p *LuaConfigParser) initGlobals(cfg *Config) {
	flags := rt.NewTable()
	flags.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))

	env := p.runtime.GlobalEnv()
	env.Set(rt.StringValue("flags"), rt.TableValue(flags))
	env.Set(rt.StringValue("SCREEN_WIDTH"), rt.IntValue(int64(cfg.Canvas.Width)))
	env.Set(rt.StringValue("SCREEN_HEIGHT"), rt.IntValue(int64(cfg.Canvas.Height)))
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// ApplyTable applies the settings of a flags.config table to cfg. Keys that
// are absent or nil leave cfg unchanged; unknown keys are ignored.
func ApplyTable(cfg *Config, table *rt.Table) error {
	if cfg == nil || table == nil {
		return nil
	}

	// Canvas
	if val := getTableInt(table, "width"); val != nil {
		cfg.Canvas.Width = *val
	}
	if val := getTableInt(table, "height"); val != nil {
		cfg.Canvas.Height = *val
	}
	if val := getTableBool(table, "antialias"); val != nil {
		cfg.Canvas.AntiAlias = *val
	}
	c, err := getTableColor(table, "background")
	if err != nil {
		return fmt.Errorf("invalid background: %w", err)
	}
	if c != nil {
		cfg.Canvas.Background = *c
	}

	// Window
	if val := getTableString(table, "title"); val != nil {
		cfg.Window.Title = *val
	}
	if val := getTableFloat(table, "scale"); val != nil {
		cfg.Window.Scale = *val
	}
	if val := getTableBool(table, "watch"); val != nil {
		cfg.Window.Watch = *val
	}

	// Assets
	if val := getTableString(table, "images_dir"); val != nil {
		cfg.Assets.ImagesDir = *val
	}
	if val := getTableString(table, "font"); val != nil {
		cfg.Assets.Font = *val
	}
	if val := getTableFloat(table, "font_size"); val != nil {
		cfg.Assets.FontSize = *val
	}

	// Output
	if val := getTableString(table, "output"); val != nil {
		cfg.Output.Path = *val
	}
	if val := getTableString(table, "backend"); val != nil {
		b, err := ParseBackend(*val)
		if err != nil {
			return fmt.Errorf("invalid backend: %w", err)
		}
		cfg.Output.Backend = b
	}

	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if b, ok := val.TryBool(); ok {
		return &b
	}

	// Handle string "true"/"false" for compatibility
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}

	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if s, ok := val.TryString(); ok {
		return &s
	}

	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}

	return nil
}

// getTableInt retrieves an int value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}

	// Try float conversion (truncate)
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}

	return nil
}

// getTableColor retrieves a color given as a string or as an {r, g, b}
// table of 0-255 components.
func getTableColor(table *rt.Table, key string) (*color.RGBA, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, nil
	}

	if s, ok := val.TryString(); ok {
		c, err := draw.ParseColor(s)
		if err != nil {
			return nil, err
		}
		return &c, nil
	}

	t, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("expected a color string or table")
	}
	var ch [3]uint8
	for i := range ch {
		n := getTableFloatAt(t, i+1)
		if n == nil {
			return nil, fmt.Errorf("color table needs three numbers")
		}
		ch[i] = uint8(min(max(*n, 0), 255))
	}
	c := color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
	return &c, nil
}

func getTableFloatAt(table *rt.Table, idx int) *float64 {
	val := table.Get(rt.IntValue(int64(idx)))
	if f, ok := val.TryFloat(); ok {
		return &f
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}
