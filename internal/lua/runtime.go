// Package lua runs flag scene scripts with Golua.
//
// A script calls drawing verbs such as draw_circle or draw_star; each call
// records a shape into a scene.Buffer. The script runs once, and the buffer
// it filled is then replayed every frame.
package lua

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// RuntimeConfig contains configuration options for the Lua runtime.
type RuntimeConfig struct {
	// CPULimit is the CPU instruction limit for one script execution.
	// 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the maximum memory in bytes a script can allocate.
	// 0 means unlimited.
	MemoryLimit uint64
	// Stdout receives print output. If nil, output is only captured.
	Stdout io.Writer
}

// DefaultConfig returns limits of 10,000,000 instructions and 50 MB.
// Scene scripts that sweep a grid stay well below both.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		CPULimit:    10_000_000,
		MemoryLimit: 50 * 1024 * 1024,
		Stdout:      os.Stdout,
	}
}

// Runtime wraps a Golua runtime with resource limits and captured output.
// It is safe for concurrent use, but scripts run one at a time.
type Runtime struct {
	config  RuntimeConfig
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	mu      sync.RWMutex
}

// New creates a Runtime with the Lua standard libraries loaded.
func New(config RuntimeConfig) (*Runtime, error) {
	output := &bytes.Buffer{}
	var stdout io.Writer = output
	if config.Stdout != nil {
		stdout = io.MultiWriter(config.Stdout, output)
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &Runtime{
		config:  config,
		runtime: runtime,
		output:  output,
		cleanup: cleanup,
	}, nil
}

// Load compiles a chunk of Lua source. name is used in error messages.
func (r *Runtime) Load(name string, src []byte) (*rt.Closure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	closure, err := r.runtime.CompileAndLoadLuaChunk(name, src, rt.TableValue(r.runtime.GlobalEnv()))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return closure, nil
}

// Execute runs a compiled closure within the configured limits. A script
// that exceeds a limit is stopped and reported as ErrScriptAborted.
func (r *Runtime) Execute(closure *rt.Closure) (result rt.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Golua panics when a hard limit is reached.
	defer func() {
		if p := recover(); p != nil {
			result = rt.NilValue
			err = fmt.Errorf("%w: %v", ErrScriptAborted, p)
		}
	}()

	r.runtime.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    r.config.CPULimit,
			Memory: r.config.MemoryLimit,
		},
	})
	defer r.runtime.PopContext()

	result, err = rt.Call1(r.runtime.MainThread(), rt.FunctionValue(closure))
	if err != nil {
		return rt.NilValue, fmt.Errorf("Lua execution error: %w", err)
	}
	return result, nil
}

// ExecuteString compiles and runs a string of Lua source.
func (r *Runtime) ExecuteString(name, code string) (rt.Value, error) {
	closure, err := r.Load(name, []byte(code))
	if err != nil {
		return rt.NilValue, err
	}
	return r.Execute(closure)
}

// ExecuteFile reads, compiles and runs a script from disk.
func (r *Runtime) ExecuteFile(path string) (rt.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return rt.NilValue, fmt.Errorf("failed to read Lua file %s: %w", path, err)
	}
	closure, err := r.Load(path, src)
	if err != nil {
		return rt.NilValue, err
	}
	return r.Execute(closure)
}

// ExecuteFS reads, compiles and runs a script from fsys.
func (r *Runtime) ExecuteFS(fsys fs.FS, path string) (rt.Value, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return rt.NilValue, fmt.Errorf("failed to read Lua file from FS %s: %w", path, err)
	}
	closure, err := r.Load(path, src)
	if err != nil {
		return rt.NilValue, err
	}
	return r.Execute(closure)
}

// GetGlobal retrieves a global variable from the Lua environment.
func (r *Runtime) GetGlobal(name string) rt.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// SetGlobal sets a global variable in the Lua environment.
func (r *Runtime) SetGlobal(name string, value rt.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runtime.GlobalEnv().Set(rt.StringValue(name), value)
}

// SetGoFunction registers a Go function as a Lua global. The function is
// declared CPU and memory safe so it can run under the limits.
func (r *Runtime) SetGoFunction(name string, fn rt.GoFunctionFunc, nArgs int, hasVarArgs bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goFunc := rt.NewGoFunction(fn, name, nArgs, hasVarArgs)
	rt.SolemnlyDeclareCompliance(rt.ComplyMemSafe|rt.ComplyCpuSafe, goFunc)
	r.runtime.GlobalEnv().Set(rt.StringValue(name), rt.FunctionValue(goFunc))
}

// Output returns everything the scripts printed so far.
func (r *Runtime) Output() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.output.String()
}

// ClearOutput discards captured print output.
func (r *Runtime) ClearOutput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output.Reset()
}

// Config returns the runtime configuration.
func (r *Runtime) Config() RuntimeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// Close releases resources associated with the runtime.
// The runtime should not be used after calling Close.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	return nil
}
