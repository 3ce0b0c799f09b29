// This file implements the layered loader that merges every configuration
// source into one Config.

package config

import (
	"fmt"
	"io/fs"
	"os"

	rt "github.com/arnodel/golua/runtime"
)

// Sources lists where Load reads settings from. Every field is optional.
type Sources struct {
	// File is a standalone Lua configuration file.
	File string
	// FS, when set, is used to read File instead of the OS filesystem.
	FS fs.FS
	// Script is the flags.config table left by the scene script.
	Script *rt.Table
	// Lookup reads FLAGDRAW_* variables and the ${VAR} references in path
	// settings. Nil disables the environment; paths are then taken as is.
	Lookup LookupFunc
}

// Load builds a Config from defaults, then File, then Script, then the
// environment, each overriding the previous one. Path settings get ${VAR}
// expansion. The result is validated; command-line overrides applied by the
// caller afterwards should be checked again with Validate.
func Load(src Sources) (*Config, error) {
	cfg := DefaultConfig()

	if src.File != "" {
		if err := loadFile(&cfg, src); err != nil {
			return nil, err
		}
	}
	if err := ApplyTable(&cfg, src.Script); err != nil {
		return nil, fmt.Errorf("script flags.config: %w", err)
	}
	if src.Lookup != nil {
		if err := ApplyEnv(&cfg, src.Lookup); err != nil {
			return nil, err
		}
	}

	ExpandEnvConfigWith(&cfg, src.Lookup)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(cfg *Config, src Sources) error {
	var (
		content []byte
		err     error
	)
	if src.FS != nil {
		content, err = fs.ReadFile(src.FS, src.File)
	} else {
		content, err = os.ReadFile(src.File)
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", src.File, err)
	}

	p, err := NewLuaConfigParser()
	if err != nil {
		return fmt.Errorf("failed to create Lua parser: %w", err)
	}
	defer p.Close()

	if err := p.ParseInto(cfg, content); err != nil {
		return fmt.Errorf("%s: %w", src.File, err)
	}
	return nil
}
