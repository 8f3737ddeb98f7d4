// Package debug implements the SPL execution engine and its debugging
// primitives.
//
// # Architecture
//
// An Engine owns every piece of mutable debugger state:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                             Engine                               │
//	│  - Source: lines, flat instruction list, per-line ranges        │
//	│  - Cursor: line, instruction, optional column                   │
//	│  - BreakpointManager: source, instruction, data, exceptions     │
//	│  - Interpreter: acts, scenes, characters, variables             │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │ Publish
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      event.Queue[Event]                          │
//	│  - drained by a single consumer (protocol adapter, CLI, Lua)    │
//	└─────────────────────────────────────────────────────────────────┘
//
// Execution is pattern recognition over text: each line replays its
// word-level instructions, then the interpreter validates the Act/Scene
// structure, tracks $variables, emits output directives and raises
// exceptions. Structural errors put the engine in a sticky errored state
// that only a new Start clears.
//
// # Concurrency
//
// An Engine is not safe for concurrent use; drive it from one goroutine.
// Notifications are queued, never delivered synchronously, so a consumer
// can call back into the engine from its own goroutine turn.
//
// # Usage
//
//	eng := debug.New(fsaccess.OS{}, debug.WithLogger(logger))
//	eng.SetBreakPoint("play.spl", 4)
//	if err := eng.Start(ctx, "play.spl", debug.StartOptions{Debug: true}); err != nil {
//	    return err
//	}
//	for _, ev := range eng.Events().Drain() {
//	    fmt.Println(ev)
//	}
package debug
