package debug

import "fmt"

// EventKind names a notification emitted by the engine.
type EventKind string

// Notification catalog.
const (
	EventStopOnEntry                 EventKind = "stopOnEntry"
	EventStopOnStep                  EventKind = "stopOnStep"
	EventStopOnBreakpoint            EventKind = "stopOnBreakpoint"
	EventStopOnDataBreakpoint        EventKind = "stopOnDataBreakpoint"
	EventStopOnInstructionBreakpoint EventKind = "stopOnInstructionBreakpoint"
	EventStopOnException             EventKind = "stopOnException"
	EventBreakpointValidated         EventKind = "breakpointValidated"
	EventOutput                      EventKind = "output"
	EventEnd                         EventKind = "end"
)

// IsStop reports whether the event pauses execution.
func (k EventKind) IsStop() bool {
	switch k {
	case EventStopOnEntry, EventStopOnStep, EventStopOnBreakpoint,
		EventStopOnDataBreakpoint, EventStopOnInstructionBreakpoint, EventStopOnException:
		return true
	default:
		return false
	}
}

// OutputCategory classifies output notifications.
type OutputCategory string

// Output categories. Directives use their keyword; warnings are prio
// and errors are err.
const (
	CategoryLog  OutputCategory = "log"
	CategoryPrio OutputCategory = "prio"
	CategoryOut  OutputCategory = "out"
	CategoryErr  OutputCategory = "err"
)

// Output is the payload of an output notification.
type Output struct {
	Category OutputCategory
	Text     string
	Path     string
	Line     int
	Column   int
}

// Event is a notification. Only the field matching Kind is meaningful.
type Event struct {
	Kind EventKind

	// Access is the detected access for stopOnDataBreakpoint.
	Access AccessType

	// Exception is the exception name for stopOnException, empty for
	// an unnamed exception or a structural error.
	Exception string

	// Breakpoint is a snapshot of the validated breakpoint.
	Breakpoint Breakpoint

	// Output is the payload of an output event.
	Output Output
}

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e.Kind {
	case EventStopOnDataBreakpoint:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Access)
	case EventStopOnException:
		if e.Exception != "" {
			return fmt.Sprintf("%s(%s)", e.Kind, e.Exception)
		}
	case EventBreakpointValidated:
		return fmt.Sprintf("%s(id=%d line=%d verified=%t)", e.Kind, e.Breakpoint.ID, e.Breakpoint.Line, e.Breakpoint.Verified)
	case EventOutput:
		return fmt.Sprintf("%s[%s] %s (%s:%d:%d)", e.Kind, e.Output.Category, e.Output.Text, e.Output.Path, e.Output.Line, e.Output.Column)
	}
	return string(e.Kind)
}

// State is the run state of an engine, derived from the notifications it
// has emitted.
type State int

const (
	// StateIdle is the state before the first Start.
	StateIdle State = iota
	// StateRunning is while a run or step is in progress.
	StateRunning
	// StateStopped is after a stop notification.
	StateStopped
	// StateTerminated is after an end notification.
	StateTerminated
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
