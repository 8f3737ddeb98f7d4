package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/spldebug/spldebug/internal/debug"
)

// register installs the spl table.
func (r *Runner) register() {
	L := r.L
	mod := L.NewTable()

	// Session control
	L.SetField(mod, "start", L.NewFunction(r.start))
	L.SetField(mod, "restart", L.NewFunction(r.restart))
	L.SetField(mod, "state", L.NewFunction(r.state))
	L.SetField(mod, "events", L.NewFunction(r.events))

	// Execution
	L.SetField(mod, "continue", L.NewFunction(r.continueRun))
	L.SetField(mod, "step", L.NewFunction(r.step))
	L.SetField(mod, "step_back", L.NewFunction(r.stepBack))
	L.SetField(mod, "step_instruction", L.NewFunction(r.stepInstruction))
	L.SetField(mod, "step_in", L.NewFunction(r.stepIn))
	L.SetField(mod, "step_out", L.NewFunction(r.stepOut))

	// Breakpoints
	L.SetField(mod, "set_breakpoint", L.NewFunction(r.setBreakpoint))
	L.SetField(mod, "clear_breakpoint", L.NewFunction(r.clearBreakpoint))
	L.SetField(mod, "clear_breakpoints", L.NewFunction(r.clearBreakpoints))
	L.SetField(mod, "set_data_breakpoint", L.NewFunction(r.setDataBreakpoint))
	L.SetField(mod, "clear_data_breakpoints", L.NewFunction(r.clearDataBreakpoints))
	L.SetField(mod, "set_instruction_breakpoint", L.NewFunction(r.setInstructionBreakpoint))
	L.SetField(mod, "set_exception_filters", L.NewFunction(r.setExceptionFilters))

	// Inspection
	L.SetField(mod, "line", L.NewFunction(r.line))
	L.SetField(mod, "variable", L.NewFunction(r.variable))
	L.SetField(mod, "locals", L.NewFunction(r.locals))
	L.SetField(mod, "globals", L.NewFunction(r.globals))
	L.SetField(mod, "stack", L.NewFunction(r.stack))
	L.SetField(mod, "disassemble", L.NewFunction(r.disassemble))

	L.SetGlobal("spl", mod)
}

// spl.start(path, [opts]) -> nil
func (r *Runner) start(L *lua.LState) int {
	path := L.CheckString(1)
	opts := r.startOptions(L.OptTable(2, nil))

	if err := r.engine.Start(r.ctx, path, opts); err != nil {
		L.RaiseError("spl.start: %s", err.Error())
	}
	return 0
}

// spl.restart([opts]) -> nil
func (r *Runner) restart(L *lua.LState) int {
	opts := r.startOptions(L.OptTable(1, nil))

	if err := r.engine.Restart(r.ctx, opts); err != nil {
		L.RaiseError("spl.restart: %s", err.Error())
	}
	return 0
}

func (r *Runner) startOptions(t *lua.LTable) debug.StartOptions {
	if t == nil {
		return debug.StartOptions{}
	}
	return debug.StartOptions{
		Debug:       lua.LVAsBool(t.RawGetString("debug")),
		StopOnEntry: lua.LVAsBool(t.RawGetString("stop_on_entry")),
	}
}

// spl.state() -> string
func (r *Runner) state(L *lua.LState) int {
	L.Push(lua.LString(r.engine.State().String()))
	return 1
}

// spl.events() -> table
// Drains pending notifications.
func (r *Runner) events(L *lua.LState) int {
	result := L.NewTable()
	for _, ev := range r.engine.Events().Drain() {
		t := L.NewTable()
		L.SetField(t, "kind", lua.LString(ev.Kind))
		switch ev.Kind {
		case debug.EventStopOnDataBreakpoint:
			L.SetField(t, "access", lua.LString(ev.Access))
		case debug.EventStopOnException:
			L.SetField(t, "exception", lua.LString(ev.Exception))
		case debug.EventBreakpointValidated:
			L.SetField(t, "breakpoint", breakpointTable(L, ev.Breakpoint))
		case debug.EventOutput:
			L.SetField(t, "category", lua.LString(ev.Output.Category))
			L.SetField(t, "text", lua.LString(ev.Output.Text))
			L.SetField(t, "line", lua.LNumber(ev.Output.Line))
			L.SetField(t, "column", lua.LNumber(ev.Output.Column))
		}
		result.Append(t)
	}
	L.Push(result)
	return 1
}

// spl.continue([reverse]) -> string
func (r *Runner) continueRun(L *lua.LState) int {
	r.engine.Continue(L.OptBool(1, false))
	return r.state(L)
}

// spl.step([reverse]) -> string
func (r *Runner) step(L *lua.LState) int {
	r.engine.Step(false, L.OptBool(1, false))
	return r.state(L)
}

// spl.step_back() -> string
func (r *Runner) stepBack(L *lua.LState) int {
	r.engine.Step(false, true)
	return r.state(L)
}

// spl.step_instruction([reverse]) -> string
func (r *Runner) stepInstruction(L *lua.LState) int {
	r.engine.Step(true, L.OptBool(1, false))
	return r.state(L)
}

// spl.step_in([target]) -> string
func (r *Runner) stepIn(L *lua.LState) int {
	if L.GetTop() >= 1 {
		r.engine.StepInTarget(L.CheckInt(1))
	} else {
		r.engine.StepIn()
	}
	return r.state(L)
}

// spl.step_out() -> string
func (r *Runner) stepOut(L *lua.LState) int {
	r.engine.StepOut()
	return r.state(L)
}

// spl.set_breakpoint(path, line) -> table
func (r *Runner) setBreakpoint(L *lua.LState) int {
	bp := r.engine.SetBreakPoint(L.CheckString(1), L.CheckInt(2))
	L.Push(breakpointTable(L, *bp))
	return 1
}

// spl.clear_breakpoint(path, line) -> bool
func (r *Runner) clearBreakpoint(L *lua.LState) int {
	bp := r.engine.ClearBreakPoint(L.CheckString(1), L.CheckInt(2))
	L.Push(lua.LBool(bp != nil))
	return 1
}

// spl.clear_breakpoints(path) -> nil
func (r *Runner) clearBreakpoints(L *lua.LState) int {
	r.engine.ClearBreakpoints(L.CheckString(1))
	return 0
}

// spl.set_data_breakpoint(name, [mode]) -> bool
func (r *Runner) setDataBreakpoint(L *lua.LState) int {
	name := L.CheckString(1)
	mode := debug.AccessType(L.OptString(2, string(debug.AccessWrite)))
	switch mode {
	case debug.AccessRead, debug.AccessWrite, debug.AccessReadWrite:
	default:
		L.ArgError(2, "mode must be read, write or readWrite")
		return 0
	}
	L.Push(lua.LBool(r.engine.SetDataBreakpoint(name, mode)))
	return 1
}

// spl.clear_data_breakpoints() -> nil
func (r *Runner) clearDataBreakpoints(L *lua.LState) int {
	r.engine.ClearAllDataBreakpoints()
	return 0
}

// spl.set_instruction_breakpoint(address) -> bool
func (r *Runner) setInstructionBreakpoint(L *lua.LState) int {
	L.Push(lua.LBool(r.engine.SetInstructionBreakpoint(L.CheckInt(1))))
	return 1
}

// spl.set_exception_filters([name], [other]) -> nil
func (r *Runner) setExceptionFilters(L *lua.LState) int {
	r.engine.SetExceptionsFilters(L.OptString(1, ""), L.OptBool(2, false))
	return 0
}

// spl.line() -> number, string
func (r *Runner) line(L *lua.LState) int {
	n := r.engine.CurrentLine()
	L.Push(lua.LNumber(n))
	L.Push(lua.LString(r.engine.Line(n)))
	return 2
}

// spl.variable(name) -> value or nil
func (r *Runner) variable(L *lua.LState) int {
	v, ok := r.engine.GetLocalVariable(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(toLua(L, v.Value()))
	return 1
}

// spl.locals() -> table
func (r *Runner) locals(L *lua.LState) int {
	t := L.NewTable()
	for _, v := range r.engine.GetLocalVariables() {
		L.SetField(t, v.Name, toLua(L, v.Value()))
	}
	L.Push(t)
	return 1
}

// spl.globals() -> table
func (r *Runner) globals(L *lua.LState) int {
	t := L.NewTable()
	for v := range r.engine.GlobalVariables(r.ctx, nil) {
		L.SetField(t, v.Name, toLua(L, v.Value()))
	}
	L.Push(t)
	return 1
}

// spl.stack([start], [end]) -> table of frame names
func (r *Runner) stack(L *lua.LState) int {
	s := r.engine.Stack(L.OptInt(1, 0), L.OptInt(2, 1000))
	t := L.NewTable()
	for _, f := range s.Frames {
		t.Append(lua.LString(f.Name))
	}
	L.Push(t)
	return 1
}

// spl.disassemble(address, count) -> table
func (r *Runner) disassemble(L *lua.LState) int {
	t := L.NewTable()
	for _, in := range r.engine.Disassemble(L.CheckInt(1), L.CheckInt(2)) {
		it := L.NewTable()
		L.SetField(it, "address", lua.LNumber(in.Address))
		L.SetField(it, "instruction", lua.LString(in.Instruction))
		L.SetField(it, "line", lua.LNumber(in.Line))
		t.Append(it)
	}
	L.Push(t)
	return 1
}

func breakpointTable(L *lua.LState, bp debug.Breakpoint) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LNumber(bp.ID))
	L.SetField(t, "line", lua.LNumber(bp.Line))
	L.SetField(t, "verified", lua.LBool(bp.Verified))
	return t
}

// toLua converts a runtime value. Lists become tables keyed by child name.
func toLua(L *lua.LState, v debug.Value) lua.LValue {
	switch v.Kind() {
	case debug.KindBoolean:
		b, _ := v.Bool()
		return lua.LBool(b)
	case debug.KindString:
		s, _ := v.Str()
		return lua.LString(s)
	case debug.KindList:
		children, _ := v.List()
		t := L.NewTable()
		for _, child := range children {
			L.SetField(t, child.Name, toLua(L, child.Value()))
		}
		return t
	default:
		n, _ := v.Number()
		return lua.LNumber(n)
	}
}
