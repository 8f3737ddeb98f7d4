package debug

import (
	"reflect"
	"testing"
)

func TestBreakpointManager_IDs(t *testing.T) {
	m := NewBreakpointManager()

	a := m.Add("/a", 1)
	b := m.Add("/b", 1)
	c := m.Add("/a", 2)
	if a.ID != 1 || b.ID != 2 || c.ID != 3 {
		t.Errorf("IDs = %d, %d, %d, want 1, 2, 3", a.ID, b.ID, c.ID)
	}

	if got := m.Remove("/a", 1); got != a {
		t.Errorf("Remove() = %v, want %v", got, a)
	}
	if got := m.Remove("/a", 1); got != nil {
		t.Errorf("second Remove() = %v, want nil", got)
	}
	if d := m.Add("/a", 1); d.ID != 4 {
		t.Errorf("ID after remove = %d, want 4", d.ID)
	}
}

func TestBreakpointManager_DataMerge(t *testing.T) {
	tests := []struct {
		name  string
		modes []AccessType
		want  AccessType
	}{
		{"single", []AccessType{AccessRead}, AccessRead},
		{"same twice", []AccessType{AccessWrite, AccessWrite}, AccessWrite},
		{"read then write", []AccessType{AccessRead, AccessWrite}, AccessReadWrite},
		{"write then read", []AccessType{AccessWrite, AccessRead}, AccessReadWrite},
		{"readWrite then read", []AccessType{AccessReadWrite, AccessRead}, AccessReadWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBreakpointManager()
			for _, mode := range tt.modes {
				m.SetData("x", mode)
			}
			if got, ok := m.DataMode("x"); !ok || got != tt.want {
				t.Errorf("DataMode() = %v, %v, want %v", got, ok, tt.want)
			}
		})
	}

	m := NewBreakpointManager()
	m.SetData("x", AccessRead)
	m.ClearData()
	if _, ok := m.DataMode("x"); ok {
		t.Error("DataMode() after ClearData should report false")
	}
}

func TestAccessType_Includes(t *testing.T) {
	tests := []struct {
		mode, access AccessType
		want         bool
	}{
		{AccessRead, AccessRead, true},
		{AccessRead, AccessWrite, false},
		{AccessWrite, AccessWrite, true},
		{AccessWrite, AccessRead, false},
		{AccessReadWrite, AccessRead, true},
		{AccessReadWrite, AccessWrite, true},
	}
	for _, tt := range tests {
		if got := tt.mode.Includes(tt.access); got != tt.want {
			t.Errorf("%s.Includes(%s) = %v, want %v", tt.mode, tt.access, got, tt.want)
		}
	}
}

func TestBreakpointManager_Instructions(t *testing.T) {
	m := NewBreakpointManager()
	m.SetInstruction(4)
	if !m.HasInstruction(4) || m.HasInstruction(5) {
		t.Error("HasInstruction() mismatch")
	}
	m.ClearInstructions()
	if m.HasInstruction(4) {
		t.Error("HasInstruction() after ClearInstructions should be false")
	}
}

const verifySource = "Act I: Foo.\n" +
	"Scene I: Bar.\n" +
	"\n" +
	"+ skip\n" +
	"- back\n" +
	"lazy here\n"

func TestEngine_VerifyBreakpoints(t *testing.T) {
	e, _ := newTestEngine(t, verifySource)
	for _, line := range []int{2, 3, 4, 5} {
		if bp := e.SetBreakPoint(testPath, line); bp.Verified {
			t.Errorf("SetBreakPoint(%d) verified before the source was loaded", line)
		}
	}

	events := start(t, e, StartOptions{Debug: true, StopOnEntry: true})
	var validated []Breakpoint
	for _, ev := range events {
		if ev.Kind == EventBreakpointValidated {
			validated = append(validated, ev.Breakpoint)
		}
	}
	want := []Breakpoint{
		{ID: 1, Line: 3, Verified: true},
		{ID: 2, Line: 4, Verified: true},
		{ID: 3, Line: 3, Verified: true},
	}
	if !reflect.DeepEqual(validated, want) {
		t.Errorf("validated = %+v, want %+v", validated, want)
	}
	if last := events[len(events)-1]; last.Kind != EventStopOnEntry {
		t.Errorf("last event = %v, want stopOnEntry", last)
	}

	bps := e.Breakpoints(testPath)
	if bps[3].Line != 5 || bps[3].Verified {
		t.Errorf("lazy breakpoint = %+v, want unverified on line 5", bps[3])
	}
}

func TestEngine_BreakpointStops(t *testing.T) {
	e, _ := newTestEngine(t, verifySource)
	e.SetBreakPoint(testPath, 2)
	e.SetBreakPoint(testPath, 5)
	start(t, e, StartOptions{Debug: true, StopOnEntry: true})

	e.Continue(false)
	events := e.Events().Drain()
	if last := events[len(events)-1]; last.Kind != EventStopOnBreakpoint {
		t.Fatalf("last event = %v, want stopOnBreakpoint", last)
	}
	if e.CurrentLine() != 3 {
		t.Errorf("CurrentLine() = %d, want 3", e.CurrentLine())
	}

	// The lazy breakpoint is verified when execution reaches it.
	e.Continue(false)
	events = e.Events().Drain()
	want := []EventKind{EventStopOnBreakpoint, EventBreakpointValidated}
	if !reflect.DeepEqual(kinds(events), want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	if bp := events[1].Breakpoint; bp.ID != 2 || bp.Line != 5 || !bp.Verified {
		t.Errorf("validated = %+v", bp)
	}

	e.Continue(false)
	if got := kinds(e.Events().Drain()); !reflect.DeepEqual(got, []EventKind{EventEnd}) {
		t.Errorf("events = %v, want [end]", got)
	}
}

func TestEngine_SetBreakPointAfterLoad(t *testing.T) {
	e, _ := newTestEngine(t, verifySource)
	start(t, e, StartOptions{Debug: true, StopOnEntry: true})

	bp := e.SetBreakPoint(testPath, 1)
	if !bp.Verified {
		t.Error("breakpoint on a loaded source should verify immediately")
	}
	events := e.Events().Drain()
	if len(events) != 1 || events[0].Kind != EventBreakpointValidated || events[0].Breakpoint.ID != bp.ID {
		t.Errorf("events = %v, want one breakpointValidated", events)
	}

	// Breakpoints for another file stay pending.
	if other := e.SetBreakPoint("/other.spl", 1); other.Verified {
		t.Error("breakpoint for another path should not verify")
	}

	if got := e.ClearBreakPoint(testPath, 1); got == nil || got.ID != bp.ID {
		t.Errorf("ClearBreakPoint() = %v", got)
	}
	if got := e.ClearBreakPoint(testPath, 1); got != nil {
		t.Errorf("second ClearBreakPoint() = %v, want nil", got)
	}

	e.SetBreakPoint(testPath, 0)
	e.ClearBreakpoints(testPath)
	if bps := e.Breakpoints(testPath); len(bps) != 0 {
		t.Errorf("Breakpoints() after clear = %v", bps)
	}
}

func TestEngine_CustomMarkers(t *testing.T) {
	e, _ := newTestEngine(t, "Act I: A.\n> next\nwait here\n", WithMarkers(">", "<"), WithLazyMarker("wait"))
	e.SetBreakPoint(testPath, 1)

	start(t, e, StartOptions{Debug: true, StopOnEntry: true})
	bps := e.Breakpoints(testPath)
	if bps[0].Line != 2 || bps[0].Verified {
		t.Errorf("breakpoint = %+v, want unverified on line 2", bps[0])
	}
}

func TestEngine_SameMarkers(t *testing.T) {
	e, _ := newTestEngine(t, "Act I: A.\n# both\nRomeo speaks.\n", WithMarkers("#", "#"))
	e.SetBreakPoint(testPath, 1)

	start(t, e, StartOptions{Debug: true, StopOnEntry: true})
	want := []Breakpoint{{ID: 1, Line: 1, Verified: true}}
	if got := e.Breakpoints(testPath); !reflect.DeepEqual(got, want) {
		t.Errorf("Breakpoints() = %+v, want %+v", got, want)
	}
}
