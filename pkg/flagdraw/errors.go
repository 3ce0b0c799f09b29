package flagdraw

import (
	"errors"
	"fmt"
)

// ErrNoWindow is returned by Run in builds without a window system.
var ErrNoWindow = errors.New("built without window support")

// ErrEmbeddedWatch is returned when watching is requested for a script
// that does not live on disk.
var ErrEmbeddedWatch = errors.New("cannot watch an embedded script")

var errAlreadyWatching = errors.New("already watching")

// Category classifies an Error by the stage that failed.
type Category int

const (
	// CategoryUnknown is the default category for uncategorized errors.
	CategoryUnknown Category = iota
	// CategoryConfig is for configuration parsing and validation errors.
	CategoryConfig
	// CategoryScript is for Lua script loading and execution errors.
	CategoryScript
	// CategoryRender is for flush and rasterization errors.
	CategoryRender
	// CategoryAssets is for image and font loading errors.
	CategoryAssets
	// CategoryIO is for file and watcher errors.
	CategoryIO
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case CategoryConfig:
		return "config"
	case CategoryScript:
		return "script"
	case CategoryRender:
		return "render"
	case CategoryAssets:
		return "assets"
	case CategoryIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the error type returned by a Sketch.
type Error struct {
	Category Category
	// Op names the failed operation, such as "load" or "render".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s [%s]: (no error)", e.Op, e.Category)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Category, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf returns the category of the first *Error in err's chain.
func CategoryOf(err error) Category {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return CategoryUnknown
}

func wrapError(cat Category, op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Category: cat, Op: op, Err: err}
}
