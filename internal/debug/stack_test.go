package debug

import (
	"reflect"
	"testing"
)

func TestEngine_Stack(t *testing.T) {
	e, _ := newTestEngine(t, "Romeo meets Juliet.\n")
	start(t, e, StartOptions{Debug: true, StopOnEntry: true})

	stack := e.Stack(0, 10)
	if stack.Count != 4 || len(stack.Frames) != 4 {
		t.Fatalf("Stack() count = %d, frames = %d, want 4, 4", stack.Count, len(stack.Frames))
	}
	var names []string
	for _, f := range stack.Frames {
		names = append(names, f.Name)
	}
	if want := []string{"Romeo(0)", "meets(1)", "Juliet(2)", "BOTTOM(3)"}; !reflect.DeepEqual(names, want) {
		t.Errorf("frame names = %v, want %v", names, want)
	}
	if f := stack.Frames[0]; f.File != testPath || f.Line != 0 || f.HasInstruction {
		t.Errorf("top frame = %+v", f)
	}
	if f := stack.Frames[3]; f.File != "" || f.Line != -1 {
		t.Errorf("bottom frame = %+v, want no file and line -1", f)
	}

	page := e.Stack(1, 2)
	if page.Count != 4 || len(page.Frames) != 1 || page.Frames[0].Name != "meets(1)" {
		t.Errorf("Stack(1, 2) = %+v", page)
	}
}

func TestEngine_StackInstructions(t *testing.T) {
	e, _ := newTestEngine(t, "show disassembly here\n")
	start(t, e, StartOptions{Debug: true, StopOnEntry: true})

	e.StepIn()
	stack := e.Stack(0, 3)
	for i, f := range stack.Frames {
		if !f.HasInstruction || f.Instruction != i {
			t.Errorf("frame %d instruction = %d, %v, want %d", i, f.Instruction, f.HasInstruction, i)
		}
	}
	if f := stack.Frames[0]; !f.HasColumn || f.Column != 1 {
		t.Errorf("frame column = %d, %v, want 1", f.Column, f.HasColumn)
	}
}

func TestEngine_GetStepInTargets(t *testing.T) {
	e, _ := newTestEngine(t, "Romeo meets Juliet.\n")
	start(t, e, StartOptions{Debug: true, StopOnEntry: true})

	targets := e.GetStepInTargets(1)
	want := []StepInTarget{
		{ID: 6, Label: "target: m"},
		{ID: 7, Label: "target: e"},
		{ID: 8, Label: "target: e"},
		{ID: 9, Label: "target: t"},
		{ID: 10, Label: "target: s"},
	}
	if !reflect.DeepEqual(targets, want) {
		t.Errorf("GetStepInTargets(1) = %v, want %v", targets, want)
	}
	if got := e.GetStepInTargets(3); got != nil {
		t.Errorf("GetStepInTargets(3) = %v, want nil", got)
	}
}

func TestEngine_GetBreakpoints(t *testing.T) {
	e, _ := newTestEngine(t, "Romeo meets Juliet, whereupon everything changes.\n")
	start(t, e, StartOptions{Debug: true, StopOnEntry: true})

	if got := e.GetBreakpoints(testPath, 0); !reflect.DeepEqual(got, []int{20, 30}) {
		t.Errorf("GetBreakpoints() = %v, want [20 30]", got)
	}
	if got := e.GetBreakpoints(testPath, 5); got != nil {
		t.Errorf("GetBreakpoints() out of range = %v, want nil", got)
	}
}

func TestEngine_Disassemble(t *testing.T) {
	e, _ := newTestEngine(t, "Romeo meets\nJuliet.\n")
	start(t, e, StartOptions{Debug: true, StopOnEntry: true})

	got := e.Disassemble(1, 4)
	want := []Instruction{
		{Address: 1, Instruction: "meets", Line: 0},
		{Address: 2, Instruction: "Juliet", Line: 1},
		{Address: 3, Instruction: NopInstruction, Line: -1},
		{Address: 4, Instruction: NopInstruction, Line: -1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Disassemble(1, 4) = %+v, want %+v", got, want)
	}
	if got := e.Disassemble(-1, 1); got[0].Instruction != NopInstruction {
		t.Errorf("Disassemble(-1, 1) = %+v", got)
	}

	long := e.Disassemble(0, 500)
	if len(long) != 500 || long[499].Instruction != NopInstruction || long[499].Address != 499 {
		t.Errorf("Disassemble(0, 500) returned %d instructions, last %+v", len(long), long[len(long)-1])
	}
	if got := e.Disassemble(0, -3); len(got) != 0 {
		t.Errorf("Disassemble(0, -3) = %+v, want none", got)
	}
}
