package debug

// Continue runs until a breakpoint, exception or data access stops
// execution, or until the run passes the last line (first line when
// reverse) and ends.
func (e *Engine) Continue(reverse bool) {
	if !e.ready() {
		return
	}
	e.state = StateRunning
	e.logger.Debug("continue", "line", e.currentLine, "reverse", reverse)

	for !e.executeLine(e.currentLine, reverse) {
		if e.updateCurrentLine(reverse) {
			break
		}
		if e.findNextStatement(reverse, "") {
			break
		}
	}
}

// Step advances one instruction when instruction is set, otherwise one
// line. A line step executes the current line and always stops on the
// next statement.
func (e *Engine) Step(instruction, reverse bool) {
	if !e.ready() {
		return
	}
	e.state = StateRunning

	if instruction {
		if reverse {
			e.instruction--
		} else {
			e.instruction++
		}
		e.emit(Event{Kind: EventStopOnStep})
		return
	}

	if !e.executeLine(e.currentLine, reverse) {
		if !e.updateCurrentLine(reverse) {
			e.findNextStatement(reverse, EventStopOnStep)
		}
	}
}

// StepIn advances the column by one character, up to the end of the
// current line. Without a column the cursor starts at column 1.
func (e *Engine) StepIn() {
	if !e.ready() {
		return
	}
	if e.hasColumn {
		if e.column <= len(e.src.Line(e.currentLine)) {
			e.column++
		}
	} else {
		e.column, e.hasColumn = 1, true
	}
	e.emit(Event{Kind: EventStopOnStep})
}

// StepInTarget moves the column to a target returned by GetStepInTargets.
func (e *Engine) StepInTarget(targetID int) {
	if !e.ready() {
		return
	}
	e.column, e.hasColumn = targetID, true
	e.emit(Event{Kind: EventStopOnStep})
}

// StepOut moves the column back by one character. Stepping out of the
// first column unsets it.
func (e *Engine) StepOut() {
	if !e.ready() {
		return
	}
	if e.hasColumn {
		e.column--
		if e.column == 0 {
			e.hasColumn = false
		}
	}
	e.emit(Event{Kind: EventStopOnStep})
}

// ready reports whether a source is loaded; without one the run ends.
func (e *Engine) ready() bool {
	if e.src != nil {
		return true
	}
	e.logger.Warn("execution requested without a source")
	e.emit(Event{Kind: EventEnd})
	return false
}

// setCurrentLine moves the cursor to line and its first instruction.
func (e *Engine) setCurrentLine(line int) {
	e.currentLine = line
	e.instruction = e.src.Starts[line]
}

// updateCurrentLine moves one line in the requested direction. At the
// boundary it ends the run (stopOnEntry when reverse) and returns true.
func (e *Engine) updateCurrentLine(reverse bool) bool {
	if reverse {
		if e.currentLine > 0 {
			e.setCurrentLine(e.currentLine - 1)
			return false
		}
		e.setCurrentLine(0)
		e.hasColumn = false
		e.emit(Event{Kind: EventStopOnEntry})
		return true
	}

	if e.currentLine < e.src.LineCount()-1 {
		e.setCurrentLine(e.currentLine + 1)
		return false
	}
	e.hasColumn = false
	e.logger.Info("session ended", "path", e.sourceFile)
	e.emit(Event{Kind: EventEnd})
	return true
}

// findNextStatement scans from the current line for a line with a source
// breakpoint, where it stops (verifying the breakpoint if still pending),
// or a non-blank line, where it parks the cursor. When stepEvent is set
// it is emitted and the scan always reports a stop.
func (e *Engine) findNextStatement(reverse bool, stepEvent EventKind) bool {
	for ln := e.currentLine; ln >= 0 && ln < e.src.LineCount(); {
		if bp, ok := e.breakpoints.At(e.sourceFile, ln); ok {
			e.emit(Event{Kind: EventStopOnBreakpoint})
			if !bp.Verified {
				bp.Verified = true
				e.emit(Event{Kind: EventBreakpointValidated, Breakpoint: *bp})
			}
			e.setCurrentLine(ln)
			e.logger.Debug("breakpoint hit", "line", ln, "id", bp.ID)
			return true
		}
		if len(e.src.Line(ln)) > 0 {
			e.setCurrentLine(ln)
			break
		}
		if reverse {
			ln--
		} else {
			ln++
		}
	}

	if stepEvent != "" {
		e.emit(Event{Kind: stepEvent})
		return true
	}
	return false
}

// executeLine replays the instructions of line, stopping on an
// instruction breakpoint, then interprets the line. It returns true when
// execution must stop.
func (e *Engine) executeLine(line int, reverse bool) bool {
	for (reverse && e.instruction >= e.src.Starts[line]) || (!reverse && e.instruction < e.src.Ends[line]) {
		if reverse {
			e.instruction--
		} else {
			e.instruction++
		}
		if e.breakpoints.HasInstruction(e.instruction) {
			e.logger.Debug("instruction breakpoint hit", "instruction", e.instruction)
			e.emit(Event{Kind: EventStopOnInstructionBreakpoint})
			return true
		}
	}

	if e.errored {
		e.emit(Event{Kind: EventEnd})
		return true
	}
	return e.interpretLine(line)
}
