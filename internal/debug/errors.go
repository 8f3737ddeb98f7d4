package debug

import (
	"errors"
	"fmt"
)

// Errors returned by engine operations.
var (
	// ErrNoSource is returned when an operation needs a loaded source.
	ErrNoSource = errors.New("no source loaded")

	// ErrScript is matched by every *ScriptError.
	ErrScript = errors.New("script error")
)

// ScriptError is a structural error found while interpreting a source.
// It is reported through notifications; Engine.Err exposes the last one.
type ScriptError struct {
	// Message describes the error.
	Message string
	// Line is the zero-based source line.
	Line int
	// Column is the byte offset within the line.
	Column int
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Is allows errors.Is to match ScriptError with ErrScript.
func (e *ScriptError) Is(target error) bool {
	return target == ErrScript
}
