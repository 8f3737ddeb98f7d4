package debug

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/spldebug/spldebug/internal/spl"
)

// StackFrame is a synthetic frame built from a word of the current line.
type StackFrame struct {
	// Index is the frame position, top of stack first.
	Index int

	// Name is the word followed by its index, e.g. "Romeo(0)".
	Name string

	// File is the source path, empty for the bottom sentinel.
	File string

	// Line is the current line, -1 for the bottom sentinel.
	Line int

	// Column is the current column when HasColumn is set.
	Column    int
	HasColumn bool

	// Instruction is the frame's instruction when HasInstruction is set.
	Instruction    int
	HasInstruction bool
}

// Stack is a page of frames together with the total frame count.
type Stack struct {
	Frames []StackFrame
	Count  int
}

// StepInTarget is a character of a frame's word that StepInTarget can
// jump to.
type StepInTarget struct {
	ID    int
	Label string
}

// Instruction is a disassembled instruction. Line is -1 for addresses
// outside the source.
type Instruction struct {
	Address     int
	Instruction string
	Line        int
}

// NopInstruction is reported for addresses outside the source.
const NopInstruction = "nop"

// bottomFrame names the sentinel frame appended below the word frames.
const bottomFrame = "BOTTOM"

// disassemblyPrealloc bounds the preallocation for addresses past the end.
const disassemblyPrealloc = 64

// disassemblyMarker makes stack frames carry instruction numbers.
const disassemblyMarker = "disassembly"

// Stack returns the frames in [startFrame, endFrame): one per word of the
// current line, followed by a sentinel bottom frame.
func (e *Engine) Stack(startFrame, endFrame int) Stack {
	line := e.Line(e.currentLine)
	words := spl.Words(e.currentLine, line)
	count := len(words) + 1
	withInstruction := strings.Contains(line, disassemblyMarker)

	if startFrame < 0 {
		startFrame = 0
	}
	var frames []StackFrame
	for i := startFrame; i < min(endFrame, count); i++ {
		frame := StackFrame{Index: i, Line: -1}
		if i < len(words) {
			frame.Name = fmt.Sprintf("%s(%d)", words[i].Name, i)
			frame.File = e.sourceFile
			frame.Line = e.currentLine
			frame.Column, frame.HasColumn = e.column, e.hasColumn
		} else {
			frame.Name = fmt.Sprintf("%s(%d)", bottomFrame, i)
		}
		if withInstruction {
			frame.Instruction, frame.HasInstruction = e.instruction+i, true
		}
		frames = append(frames, frame)
	}
	return Stack{Frames: frames, Count: count}
}

// GetStepInTargets returns one target per character of the word behind
// frameID, or nil when frameID is not a word frame.
func (e *Engine) GetStepInTargets(frameID int) []StepInTarget {
	words := spl.Words(e.currentLine, e.Line(e.currentLine))
	if frameID < 0 || frameID >= len(words) {
		return nil
	}
	word := words[frameID]
	targets := make([]StepInTarget, len(word.Name))
	for i := range word.Name {
		targets[i] = StepInTarget{ID: word.Index + i, Label: "target: " + word.Name[i:i+1]}
	}
	return targets
}

// GetBreakpoints returns candidate column breakpoints on line of the
// loaded source: the offsets of words longer than the configured minimum.
func (e *Engine) GetBreakpoints(_ string, line int) []int {
	var columns []int
	for _, w := range spl.Words(line, e.Line(line)) {
		if len(w.Name) > e.columnMin {
			columns = append(columns, w.Index)
		}
	}
	return columns
}

// Disassemble returns count instructions starting at address.
func (e *Engine) Disassemble(address, count int) []Instruction {
	var instructions []spl.Word
	if e.src != nil {
		instructions = e.src.Instructions
	}
	result := make([]Instruction, 0, max(min(count, len(instructions)+disassemblyPrealloc), 0))
	for a := address; a < address+count; a++ {
		if a >= 0 && a < len(instructions) {
			result = append(result, Instruction{Address: a, Instruction: instructions[a].Name, Line: instructions[a].Line})
		} else {
			result = append(result, Instruction{Address: a, Instruction: NopInstruction, Line: -1})
		}
	}
	return result
}

// GlobalVariables enumerates the synthetic globals one at a time. After
// each item the cancelled predicate is polled and, unless it reports
// true, the configured delay elapses before the next one. Cancellation
// never interrupts an item in flight.
func (e *Engine) GlobalVariables(ctx context.Context, cancelled func() bool) iter.Seq[*Variable] {
	count, delay := e.globalCount, e.globalDelay
	return func(yield func(*Variable) bool) {
		for i := 0; i < count; i++ {
			if !yield(NewVariable(fmt.Sprintf("global_%d", i), NumberValue(float64(i)))) {
				return
			}
			if cancelled != nil && cancelled() {
				return
			}
			if i < count-1 && !sleep(ctx, delay) {
				return
			}
		}
	}
}

// GetGlobalVariables collects GlobalVariables.
func (e *Engine) GetGlobalVariables(ctx context.Context, cancelled func() bool) []*Variable {
	return slices.Collect(e.GlobalVariables(ctx, cancelled))
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// GetLocalVariables returns the variables in declaration order.
func (e *Engine) GetLocalVariables() []*Variable {
	vars := make([]*Variable, 0, len(e.order))
	for _, name := range e.order {
		vars = append(vars, e.variables[name])
	}
	return vars
}

// GetLocalVariable returns the named variable.
func (e *Engine) GetLocalVariable(name string) (*Variable, bool) {
	v, ok := e.variables[name]
	return v, ok
}

// VariableChildren returns the children of the list variable with the
// given reference.
func (e *Engine) VariableChildren(reference int) []*Variable {
	v, ok := e.refs[reference]
	if !ok {
		return nil
	}
	children, _ := v.Value().List()
	return children
}
