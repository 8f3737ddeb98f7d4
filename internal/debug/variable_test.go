package debug

import (
	"context"
	"testing"
	"time"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		literal string
		kind    ValueKind
		display string
	}{
		{"5", KindNumber, "5"},
		{"2.5", KindNumber, "2.5"},
		{"TRUE", KindBoolean, "true"},
		{"false", KindBoolean, "false"},
		{`"hi there"`, KindString, `"hi there"`},
		{"{a, b}", KindList, `{fBool: true, fInteger: 123, fString: "hello", flazyInteger: 321}`},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			v := parseLiteral(tt.literal)
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}
			if v.String() != tt.display {
				t.Errorf("String() = %q, want %q", v.String(), tt.display)
			}
		})
	}
}

func TestVariable_Memory(t *testing.T) {
	v := NewVariable("s", StringValue("hello"))

	if got := string(v.Memory()); got != "hello" {
		t.Fatalf("Memory() = %q, want hello", got)
	}
	if n := v.SetMemory(1, []byte("EL")); n != 2 {
		t.Errorf("SetMemory() = %d, want 2", n)
	}
	if s, _ := v.Value().Str(); s != "hELlo" {
		t.Errorf("value = %q, want hELlo", s)
	}
	if n := v.SetMemory(3, []byte("LOOOO")); n != 2 {
		t.Errorf("SetMemory() past the end = %d, want 2", n)
	}
	if n := v.SetMemory(10, []byte("x")); n != 0 {
		t.Errorf("SetMemory() out of range = %d, want 0", n)
	}

	v.SetValue(StringValue("bye"))
	if got := string(v.Memory()); got != "bye" {
		t.Errorf("Memory() after SetValue = %q, want bye", got)
	}

	n := NewVariable("n", NumberValue(1))
	if n.Memory() != nil {
		t.Error("Memory() of a number should be nil")
	}
	if n.SetMemory(0, []byte("1")) != 0 {
		t.Error("SetMemory() of a number should write nothing")
	}
}

func TestEngine_ListReferences(t *testing.T) {
	e, _ := newTestEngine(t, "Act I: A.\nScene I: B.\n$s={x} $n=1\n")
	start(t, e, StartOptions{})

	s, ok := e.GetLocalVariable("s")
	if !ok || s.Reference == 0 {
		t.Fatalf("s = %+v, want a referenced list", s)
	}
	children := e.VariableChildren(s.Reference)
	if len(children) != 4 || children[1].Name != "fInteger" {
		t.Errorf("VariableChildren() = %v", children)
	}

	n, _ := e.GetLocalVariable("n")
	if n.Reference != 0 {
		t.Errorf("number reference = %d, want 0", n.Reference)
	}
}

func TestEngine_Globals(t *testing.T) {
	e, _ := newTestEngine(t, "", WithGlobals(5, 0))
	ctx := t.Context()

	vars := e.GetGlobalVariables(ctx, nil)
	if len(vars) != 5 {
		t.Fatalf("GetGlobalVariables() returned %d variables, want 5", len(vars))
	}
	for i, v := range vars {
		if n, _ := v.Value().Number(); v.Name != "global_"+string(rune('0'+i)) || n != float64(i) {
			t.Errorf("vars[%d] = %s %v", i, v.Name, v.Value())
		}
	}

	polls := 0
	vars = e.GetGlobalVariables(ctx, func() bool {
		polls++
		return polls == 2
	})
	if len(vars) != 2 {
		t.Errorf("cancelled enumeration returned %d variables, want 2", len(vars))
	}
}

func TestEngine_GlobalsContextCancel(t *testing.T) {
	e, _ := newTestEngine(t, "", WithGlobals(3, time.Hour))
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	vars := e.GetGlobalVariables(ctx, nil)
	if len(vars) != 1 {
		t.Errorf("GetGlobalVariables() returned %d variables, want 1", len(vars))
	}
}
