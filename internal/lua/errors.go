package lua

import "errors"

var (
	// ErrNilRuntime is returned when a nil runtime is passed to a function that requires one.
	ErrNilRuntime = errors.New("runtime cannot be nil")

	// ErrInvalidArgument is wrapped by errors about drawing verb arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrScriptAborted is returned when a script is stopped for exceeding
	// its CPU or memory limit.
	ErrScriptAborted = errors.New("script aborted")

	// errNotAValue is used for Lua values that cannot become shape arguments.
	errNotAValue = errors.New("unsupported value type")

	// ErrUnknownExample is returned by Example for a name with no embedded scene.
	ErrUnknownExample = errors.New("unknown example scene")
)
