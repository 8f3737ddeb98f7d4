package debug

import "strings"

// Breakpoint is a source breakpoint.
type Breakpoint struct {
	// ID is unique per engine and increases monotonically.
	ID int

	// Line is the zero-based line, possibly relocated by verification.
	Line int

	// Verified indicates the line has been confirmed.
	Verified bool
}

// AccessType is the access a data breakpoint watches.
type AccessType string

// Access types.
const (
	AccessRead      AccessType = "read"
	AccessWrite     AccessType = "write"
	AccessReadWrite AccessType = "readWrite"
)

// Includes reports whether a breakpoint with mode a fires on access k.
func (a AccessType) Includes(k AccessType) bool {
	return a == k || (a == AccessReadWrite && (k == AccessRead || k == AccessWrite))
}

// ExceptionFilter configures which exceptions stop execution.
type ExceptionFilter struct {
	// Named is the exception name to break on, empty for none.
	Named string

	// Other breaks on every exception that does not match Named.
	Other bool
}

// BreakpointManager owns source, instruction and data breakpoints and the
// exception filter. It holds no source text; verification is driven by
// the engine.
type BreakpointManager struct {
	// Source breakpoints grouped by normalized path
	byPath map[string][]*Breakpoint

	// Next breakpoint ID
	nextID int

	// Instruction addresses
	instructions map[int]struct{}

	// Data breakpoints by variable name
	data map[string]AccessType

	exceptions ExceptionFilter
}

// NewBreakpointManager creates an empty breakpoint manager.
func NewBreakpointManager() *BreakpointManager {
	return &BreakpointManager{
		byPath:       make(map[string][]*Breakpoint),
		nextID:       1,
		instructions: make(map[int]struct{}),
		data:         make(map[string]AccessType),
	}
}

// allocateID allocates a new breakpoint ID.
func (m *BreakpointManager) allocateID() int {
	id := m.nextID
	m.nextID++
	return id
}

// Add appends an unverified breakpoint for path.
func (m *BreakpointManager) Add(path string, line int) *Breakpoint {
	bp := &Breakpoint{
		ID:   m.allocateID(),
		Line: line,
	}
	m.byPath[path] = append(m.byPath[path], bp)
	return bp
}

// Remove deletes and returns the first breakpoint at path and line.
func (m *BreakpointManager) Remove(path string, line int) *Breakpoint {
	bps := m.byPath[path]
	for i, bp := range bps {
		if bp.Line == line {
			m.byPath[path] = append(bps[:i:i], bps[i+1:]...)
			if len(m.byPath[path]) == 0 {
				delete(m.byPath, path)
			}
			return bp
		}
	}
	return nil
}

// ClearPath removes all breakpoints for path.
func (m *BreakpointManager) ClearPath(path string) {
	delete(m.byPath, path)
}

// ForPath returns the live breakpoints for path in insertion order.
func (m *BreakpointManager) ForPath(path string) []*Breakpoint {
	return m.byPath[path]
}

// At returns the first breakpoint at path and line.
func (m *BreakpointManager) At(path string, line int) (*Breakpoint, bool) {
	for _, bp := range m.byPath[path] {
		if bp.Line == line {
			return bp, true
		}
	}
	return nil, false
}

// SetData registers a data breakpoint. Registering a different mode for
// a name already watched upgrades it to read-write.
func (m *BreakpointManager) SetData(name string, mode AccessType) {
	if current, ok := m.data[name]; ok && current != mode {
		m.data[name] = AccessReadWrite
		return
	}
	m.data[name] = mode
}

// DataMode returns the mode watched for name.
func (m *BreakpointManager) DataMode(name string) (AccessType, bool) {
	mode, ok := m.data[name]
	return mode, ok
}

// ClearData removes all data breakpoints.
func (m *BreakpointManager) ClearData() {
	m.data = make(map[string]AccessType)
}

// SetInstruction adds an instruction breakpoint.
func (m *BreakpointManager) SetInstruction(address int) {
	m.instructions[address] = struct{}{}
}

// HasInstruction reports whether address carries an instruction breakpoint.
func (m *BreakpointManager) HasInstruction(address int) bool {
	_, ok := m.instructions[address]
	return ok
}

// ClearInstructions removes all instruction breakpoints.
func (m *BreakpointManager) ClearInstructions() {
	m.instructions = make(map[int]struct{})
}

// SetExceptionFilter replaces the exception filter.
func (m *BreakpointManager) SetExceptionFilter(f ExceptionFilter) {
	m.exceptions = f
}

// ExceptionFilter returns the exception filter.
func (m *BreakpointManager) ExceptionFilter() ExceptionFilter {
	return m.exceptions
}

// SetBreakPoint creates a breakpoint on line of path and runs the
// verification pass for that path.
func (e *Engine) SetBreakPoint(path string, line int) *Breakpoint {
	path = e.normalizePath(path)
	bp := e.breakpoints.Add(path, line)
	e.logger.Debug("breakpoint set", "path", path, "line", line, "id", bp.ID)
	e.verifyBreakpoints(path)
	return bp
}

// ClearBreakPoint removes and returns the first breakpoint at line of
// path, or nil if there is none.
func (e *Engine) ClearBreakPoint(path string, line int) *Breakpoint {
	return e.breakpoints.Remove(e.normalizePath(path), line)
}

// ClearBreakpoints removes every breakpoint of path.
func (e *Engine) ClearBreakpoints(path string) {
	e.breakpoints.ClearPath(e.normalizePath(path))
}

// Breakpoints returns snapshots of the breakpoints of path.
func (e *Engine) Breakpoints(path string) []Breakpoint {
	bps := e.breakpoints.ForPath(e.normalizePath(path))
	result := make([]Breakpoint, len(bps))
	for i, bp := range bps {
		result[i] = *bp
	}
	return result
}

// SetDataBreakpoint watches accesses of the named variable. It never
// rejects a breakpoint.
func (e *Engine) SetDataBreakpoint(name string, mode AccessType) bool {
	e.breakpoints.SetData(name, mode)
	return true
}

// ClearAllDataBreakpoints removes every data breakpoint.
func (e *Engine) ClearAllDataBreakpoints() {
	e.breakpoints.ClearData()
}

// SetInstructionBreakpoint stops execution when address is reached.
func (e *Engine) SetInstructionBreakpoint(address int) bool {
	e.breakpoints.SetInstruction(address)
	return true
}

// ClearInstructionBreakpoints removes every instruction breakpoint.
func (e *Engine) ClearInstructionBreakpoints() {
	e.breakpoints.ClearInstructions()
}

// SetExceptionsFilters replaces the exception filter.
func (e *Engine) SetExceptionsFilters(named string, other bool) {
	e.breakpoints.SetExceptionFilter(ExceptionFilter{Named: named, Other: other})
}

// verifyBreakpoints relocates and verifies the unverified breakpoints of
// path when path is the loaded source. A blank line or one starting with
// the skip-forward marker moves the breakpoint down; a line starting with
// the skip-backward marker moves it up. Both tests apply independently.
// Breakpoints landing on a line with the lazy marker stay unverified
// until execution reaches them.
func (e *Engine) verifyBreakpoints(path string) {
	if e.src == nil || path != e.sourceFile {
		return
	}
	for _, bp := range e.breakpoints.ForPath(path) {
		if bp.Verified || bp.Line < 0 || bp.Line >= e.src.LineCount() {
			continue
		}

		text := e.src.Line(bp.Line)
		if len(text) == 0 || strings.HasPrefix(text, e.skipForward) {
			bp.Line++
		}
		if strings.HasPrefix(text, e.skipBackward) {
			bp.Line--
		}

		if !strings.Contains(e.src.Line(bp.Line), e.lazyMarker) {
			bp.Verified = true
			e.emit(Event{Kind: EventBreakpointValidated, Breakpoint: *bp})
		}
	}
}
