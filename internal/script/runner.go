// Package script drives a debug engine from Lua.
//
// A Runner exposes the engine to Lua as the global table spl. Scripts
// execute synchronously on the calling goroutine, which makes the runner
// the engine's only driver while a script runs.
//
//	spl.start("hello.spl", {debug = true, stop_on_entry = true})
//	spl.set_breakpoint("hello.spl", 4)
//	spl.continue()
//	for _, ev in ipairs(spl.events()) do print(ev.kind) end
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/spldebug/spldebug/internal/debug"
)

// ErrRunnerClosed is returned when using a closed Runner.
var ErrRunnerClosed = errors.New("script runner closed")

// Runner owns a Lua state bound to one engine.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes callers.
type Runner struct {
	L      *lua.LState
	engine *debug.Engine
	ctx    context.Context
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner driving engine. ctx bounds every engine
// call made from Lua.
func NewRunner(ctx context.Context, engine *debug.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine: engine,
		ctx:    ctx,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "script")

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.register()
	return r
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoString executes a Lua chunk.
func (r *Runner) DoString(code string) error {
	return r.do(func() error {
		return r.L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (r *Runner) DoFile(path string) error {
	r.logger.Debug("running script", "path", path)
	return r.do(func() error {
		return r.L.DoFile(path)
	})
}

// do executes fn with panic recovery.
func (r *Runner) do(fn func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("lua panic: %v", v)
		}
	}()
	return fn()
}

// Close releases the Lua state.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.L.Close()
	return nil
}
