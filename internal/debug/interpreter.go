package debug

import (
	"fmt"
	"strings"

	"github.com/spldebug/spldebug/internal/spl"
)

// fragmentResult reports what interpreting one fragment of a line did.
type fragmentResult struct {
	// consumed is the length of a statement that ended before the end of
	// the line; 0 means the rest of the line has been handled.
	consumed int

	// structural marks acts, scenes and character declarations.
	structural bool

	// stop asks the run to pause.
	stop bool
}

// interpretLine interprets line n fragment by fragment and reports
// whether execution must stop.
func (e *Engine) interpretLine(n int) bool {
	line := e.src.Line(n)
	offset := 0
	afterStatement := false

	for offset < len(line) {
		fragment := line[offset:]
		if strings.TrimSpace(fragment) == "" {
			break
		}
		if afterStatement {
			e.warn("Multiple statements on one line", n, offset)
		}

		res := e.interpretFragment(n, offset, fragment)
		if res.stop {
			return true
		}
		if res.consumed <= 0 {
			break
		}
		offset += res.consumed
		afterStatement = res.structural
	}
	return false
}

// interpretFragment applies the statement rules in order; the first one
// that matches handles the fragment.
func (e *Engine) interpretFragment(line, column int, fragment string) fragmentResult {
	act, isAct := spl.ParseDeclaration(fragment, "act")

	if !e.progress.preamble {
		if !isAct {
			i := spl.TerminatorIndex(fragment)
			if i < 0 {
				return fragmentResult{}
			}
			e.progress.preamble = true
			return fragmentResult{consumed: i + 1}
		}
		e.progress.preamble = true
	}

	if isAct {
		return e.declareAct(line, column, fragment, act)
	}
	if scene, ok := spl.ParseDeclaration(fragment, "scene"); ok {
		return e.declareScene(line, column, fragment, scene)
	}
	if e.progress.act == 0 {
		return e.declareCharacter(line, column, fragment)
	}
	if e.progress.scene == 0 {
		return e.fail("Scene expected", line, column)
	}

	if e.detectAccess(fragment) {
		return fragmentResult{stop: true}
	}
	for _, d := range spl.MatchDirectives(fragment) {
		e.output(OutputCategory(d.Category), d.Text, line, column+d.Index)
	}
	if e.detectException(fragment) {
		return fragmentResult{stop: true}
	}
	return fragmentResult{}
}

// declareAct validates an act declaration and opens the act.
func (e *Engine) declareAct(line, column int, fragment string, decl spl.Declaration) fragmentResult {
	at := column + decl.Offset
	if !decl.Colon {
		return e.fail("Expecting ':'", line, at)
	}
	n, ok := spl.ParseRoman(decl.Numeral)
	if !ok {
		return e.fail(fmt.Sprintf("'%s' is not a roman numeral", decl.Numeral), line, at)
	}
	if n != e.progress.act+1 {
		e.warn(fmt.Sprintf("Act numbers should progress by one: expected %d, got %d", e.progress.act+1, n), line, at)
	}

	switch count := spl.CountDeclarations(e.src.Text, "act", decl.Numeral); {
	case count == 0:
		return e.fail(fmt.Sprintf("Internal error: act %s not found in source", decl.Numeral), line, at)
	case count > 1:
		return e.fail(fmt.Sprintf("Act %s is not unique", decl.Numeral), line, at)
	}

	e.progress.act = n
	e.progress.actNumeral = decl.Numeral
	e.progress.actStart = e.src.Offset(line, at)
	e.progress.scene = 0
	e.progress.sceneNumeral = ""
	e.output(CategoryLog, "Act "+decl.Numeral, line, at)

	return fragmentResult{consumed: spl.Consumed(fragment), structural: true}
}

// declareScene validates a scene declaration and opens the scene. Scene
// numerals only need to be unique within the text of the enclosing act.
func (e *Engine) declareScene(line, column int, fragment string, decl spl.Declaration) fragmentResult {
	at := column + decl.Offset
	if !decl.Colon {
		return e.fail("Expecting ':'", line, at)
	}
	n, ok := spl.ParseRoman(decl.Numeral)
	if !ok {
		return e.fail(fmt.Sprintf("'%s' is not a roman numeral", decl.Numeral), line, at)
	}
	if n != e.progress.scene+1 {
		e.warn(fmt.Sprintf("Scene numbers should progress by one: expected %d, got %d", e.progress.scene+1, n), line, at)
	}

	switch count := spl.CountDeclarations(e.actSpan(), "scene", decl.Numeral); {
	case count == 0:
		return e.fail(fmt.Sprintf("Internal error: scene %s not found in act", decl.Numeral), line, at)
	case count > 1:
		return e.fail(fmt.Sprintf("Scene %s is not unique", decl.Numeral), line, at)
	}

	e.progress.scene = n
	e.progress.sceneNumeral = decl.Numeral
	actName := e.progress.actNumeral
	if actName == "" {
		actName = "0"
	}
	e.output(CategoryLog, fmt.Sprintf("Act %s, Scene %s", actName, decl.Numeral), line, at)

	return fragmentResult{consumed: spl.Consumed(fragment), structural: true}
}

// actSpan returns the text from the current act declaration up to the
// next act declaration or the end of the source.
func (e *Engine) actSpan() string {
	start, from := e.progress.actStart, e.progress.actStart+1
	if e.progress.act == 0 {
		start, from = 0, 0
	}
	end := spl.FindDeclaration(e.src.Text, "act", from)
	if end < start {
		end = len(e.src.Text)
	}
	return e.src.Text[start:end]
}

// declareCharacter registers a dramatis personae entry. Unknown names are
// reported but still declared.
func (e *Engine) declareCharacter(line, column int, fragment string) fragmentResult {
	consumed := spl.Consumed(fragment)
	name := fragment[:consumed]
	if i := strings.IndexByte(fragment, ','); i >= 0 {
		name = fragment[:i]
	}
	name = strings.TrimRight(strings.TrimSpace(name), ".!")

	if !e.cast[strings.ToLower(name)] {
		e.output(CategoryErr, fmt.Sprintf("Character name not valid: '%s'", name), line, column)
	}
	e.setVariable(name, characterValue())
	e.logger.Debug("character declared", "name", name, "line", line)

	return fragmentResult{consumed: consumed, structural: true}
}

// detectAccess tracks $variable assignments and reads and reports a data
// breakpoint hit. The first assignment of a name declares it and is not
// an access; a reference to an unknown name is not a read.
func (e *Engine) detectAccess(fragment string) bool {
	for _, m := range spl.MatchVariables(fragment) {
		_, exists := e.variables[m.Name]

		var access AccessType
		if m.IsAssignment() {
			e.setVariable(m.Name, parseLiteral(m.Literal))
			if exists {
				access = AccessWrite
			}
		} else if exists {
			access = AccessRead
		}
		if access == "" {
			continue
		}

		if mode, ok := e.breakpoints.DataMode(m.Name); ok && mode.Includes(access) {
			e.logger.Debug("data breakpoint hit", "name", m.Name, "access", string(access))
			e.emit(Event{Kind: EventStopOnDataBreakpoint, Access: access})
			return true
		}
	}
	return false
}

// detectException stops on exception(name) when name matches the named
// filter, and on any other exception when the other filter is set.
func (e *Engine) detectException(fragment string) bool {
	m, found := spl.MatchException(fragment)
	if !found {
		return false
	}
	filter := e.breakpoints.ExceptionFilter()
	if m.Explicit && filter.Named != "" && m.Name == filter.Named {
		e.emit(Event{Kind: EventStopOnException, Exception: m.Name})
		return true
	}
	if filter.Other {
		e.emit(Event{Kind: EventStopOnException})
		return true
	}
	return false
}

// setVariable assigns value to name, declaring it on first use.
func (e *Engine) setVariable(name string, value Value) {
	v, ok := e.variables[name]
	if ok {
		v.SetValue(value)
	} else {
		v = NewVariable(name, value)
		e.variables[name] = v
		e.order = append(e.order, name)
	}
	e.track(v)
}

// track assigns references to list values so inspectors can expand them.
func (e *Engine) track(v *Variable) {
	children, ok := v.Value().List()
	if !ok {
		return
	}
	if v.Reference == 0 {
		v.Reference = e.nextRef
		e.nextRef++
	}
	e.refs[v.Reference] = v
	for _, child := range children {
		e.track(child)
	}
}

// warn emits a non-fatal diagnostic.
func (e *Engine) warn(message string, line, column int) {
	e.logger.Debug("script warning", "line", line, "column", column, "warning", message)
	e.output(CategoryPrio, message, line, column)
}

// fail reports a structural error and enters the sticky errored state.
func (e *Engine) fail(message string, line, column int) fragmentResult {
	e.errored = true
	e.lastErr = &ScriptError{Message: message, Line: line, Column: column}
	e.logger.Warn("script error", "line", line, "column", column, "error", message)
	e.output(CategoryErr, message, line, column)
	e.emit(Event{Kind: EventStopOnException})
	return fragmentResult{stop: true}
}
