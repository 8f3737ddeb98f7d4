package debug

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spldebug/spldebug/internal/event"
	"github.com/spldebug/spldebug/internal/fsaccess"
	"github.com/spldebug/spldebug/internal/spl"
)

// Defaults for engine options.
const (
	DefaultSkipForwardMarker   = "+"
	DefaultSkipBackwardMarker  = "-"
	DefaultLazyMarker          = "lazy"
	DefaultGlobalCount         = 10
	DefaultGlobalDelay         = time.Second
	DefaultColumnBreakpointMin = 8
)

// DefaultCast lists the character names a dramatis personae may declare.
var DefaultCast = []string{
	"Achilles", "Adonis", "Adriana", "Aegeon", "Aemilia", "Agamemnon",
	"Agrippa", "Ajax", "Alonso", "Andromache", "Angelo", "Antiochus",
	"Antonio", "Arthur", "Autolycus", "Balthazar", "Banquo", "Beatrice",
	"Benedick", "Benvolio", "Bianca", "Brabantio", "Brutus", "Capulet",
	"Cassandra", "Cassius", "Christopher Sly", "Cicero", "Claudio",
	"Claudius", "Cleopatra", "Cordelia", "Cornelius", "Cressida", "Cymberline",
	"Demetrius", "Desdemona", "Dionyza", "Doctor Caius", "Dogberry",
	"Don John", "Don Pedro", "Donalbain", "Dorcas", "Duncan", "Egeus",
	"Emilia", "Escalus", "Falstaff", "Fenton", "Ferdinand", "Ford",
	"Fortinbras", "Francisca", "Friar John", "Friar Laurence", "Gertrude",
	"Goneril", "Hamlet", "Hecate", "Hector", "Helen", "Helena", "Hermia",
	"Hermonie", "Hippolyta", "Horatio", "Imogen", "Isabella", "John of Gaunt",
	"John of Lancaster", "Julia", "Juliet", "Julius Caesar", "King Henry",
	"King John", "King Lear", "King Richard", "Lady Capulet", "Lady Macbeth",
	"Lady Macduff", "Lady Montague", "Lennox", "Leonato", "Luciana",
	"Lucio", "Lychorida", "Lysander", "Macbeth", "Macduff", "Malcolm",
	"Mariana", "Mark Antony", "Mercutio", "Miranda", "Mistress Ford",
	"Mistress Overdone", "Mistress Page", "Montague", "Mopsa", "Oberon",
	"Octavia", "Octavius Caesar", "Olivia", "Ophelia", "Orlando", "Orsino",
	"Othello", "Page", "Pantino", "Paris", "Pericles", "Pinch", "Polonius",
	"Pompeius", "Portia", "Priam", "Prince Henry", "Prospero", "Proteus",
	"Publius", "Puck", "Queen Elinor", "Regan", "Robin", "Romeo",
	"Rosalind", "Sebastian", "Shallow", "Shylock", "Slender", "Solinus",
	"Stephano", "Thaisa", "The Abbot of Westminster", "The Apothecary",
	"The Archbishop of Canterbury", "The Duke of Milan", "The Duke of Venice",
	"The Ghost", "Theseus", "Thurio", "Timon", "Titania", "Titus", "Troilus",
	"Tybalt", "Ulysses", "Valentine", "Venus", "Vincentio", "Viola",
}

// StartOptions configures Start.
type StartOptions struct {
	// Debug enables breakpoint verification after loading.
	Debug bool

	// StopOnEntry stops at the first statement instead of running.
	// It only applies in debug mode.
	StopOnEntry bool
}

// progress records how far the structural grammar has advanced.
type progress struct {
	preamble bool

	act        int
	actNumeral string
	actStart   int

	scene        int
	sceneNumeral string
}

// Engine executes an SPL source and exposes debugging primitives.
type Engine struct {
	id     string
	fs     fsaccess.FileAccessor
	logger *slog.Logger
	events *event.Queue[Event]
	state  State

	// Configuration
	skipForward  string
	skipBackward string
	lazyMarker   string
	cast         map[string]bool
	globalCount  int
	globalDelay  time.Duration
	columnMin    int

	// Loaded source
	program    string
	sourceFile string
	src        *spl.Source

	// Cursor
	currentLine int
	instruction int
	column      int
	hasColumn   bool

	breakpoints *BreakpointManager

	// Variables in declaration order
	variables map[string]*Variable
	order     []string
	refs      map[int]*Variable
	nextRef   int

	progress progress
	errored  bool
	lastErr  *ScriptError
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithQueue sets the queue notifications are published to.
func WithQueue(q *event.Queue[Event]) Option {
	return func(e *Engine) {
		if q != nil {
			e.events = q
		}
	}
}

// WithMarkers sets the skip-forward and skip-backward line markers used
// by breakpoint verification. Empty markers keep the defaults.
func WithMarkers(forward, backward string) Option {
	return func(e *Engine) {
		if forward != "" {
			e.skipForward = forward
		}
		if backward != "" {
			e.skipBackward = backward
		}
	}
}

// WithLazyMarker sets the word that defers breakpoint verification.
func WithLazyMarker(marker string) Option {
	return func(e *Engine) {
		if marker != "" {
			e.lazyMarker = marker
		}
	}
}

// WithCast replaces the known-cast list.
func WithCast(names []string) Option {
	return func(e *Engine) {
		if len(names) > 0 {
			e.cast = castSet(names)
		}
	}
}

// WithGlobals sets how many global variables are enumerated and the
// artificial delay between them.
func WithGlobals(count int, delay time.Duration) Option {
	return func(e *Engine) {
		if count >= 0 {
			e.globalCount = count
		}
		if delay >= 0 {
			e.globalDelay = delay
		}
	}
}

// WithColumnBreakpointMin sets the word length a word must exceed to be
// offered as a column breakpoint candidate.
func WithColumnBreakpointMin(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.columnMin = n
		}
	}
}

// New creates an engine reading sources through fs.
func New(fs fsaccess.FileAccessor, opts ...Option) *Engine {
	e := &Engine{
		id:           uuid.New().String(),
		fs:           fs,
		logger:       slog.New(slog.DiscardHandler),
		events:       event.NewQueue[Event](),
		skipForward:  DefaultSkipForwardMarker,
		skipBackward: DefaultSkipBackwardMarker,
		lazyMarker:   DefaultLazyMarker,
		cast:         castSet(DefaultCast),
		globalCount:  DefaultGlobalCount,
		globalDelay:  DefaultGlobalDelay,
		columnMin:    DefaultColumnBreakpointMin,
		breakpoints:  NewBreakpointManager(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "debug", "engine", e.id)
	e.resetRun()
	return e
}

func castSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return set
}

// ID returns the unique engine instance ID.
func (e *Engine) ID() string {
	return e.id
}

// Events returns the notification queue.
func (e *Engine) Events() *event.Queue[Event] {
	return e.events
}

// State returns the run state.
func (e *Engine) State() State {
	return e.state
}

// Start loads program and runs it. In debug mode the breakpoints of the
// program are verified first, and with StopOnEntry execution stops at
// the first statement.
func (e *Engine) Start(ctx context.Context, program string, opts StartOptions) error {
	path := e.normalizePath(program)
	if err := e.loadSource(ctx, path); err != nil {
		return err
	}
	e.program = path
	e.resetRun()
	e.state = StateRunning
	e.logger.Info("session started", "path", path, "debug", opts.Debug, "lines", e.src.LineCount())

	if opts.Debug {
		e.verifyBreakpoints(path)
		if opts.StopOnEntry {
			e.findNextStatement(false, EventStopOnEntry)
			return nil
		}
	}
	e.Continue(false)
	return nil
}

// Restart starts the most recently started program again, rereading it
// if it was invalidated. It returns ErrNoSource before the first Start.
func (e *Engine) Restart(ctx context.Context, opts StartOptions) error {
	if e.program == "" {
		return ErrNoSource
	}
	return e.Start(ctx, e.program, opts)
}

// Invalidate forgets the loaded source so the next Start rereads it.
func (e *Engine) Invalidate() {
	e.logger.Debug("source invalidated", "path", e.sourceFile)
	e.sourceFile = ""
	e.src = nil
}

// loadSource reads path unless it is already the loaded source.
func (e *Engine) loadSource(ctx context.Context, path string) error {
	if e.src != nil && e.sourceFile == path {
		return nil
	}
	data, err := e.fs.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("load source %s: %w", path, err)
	}
	e.sourceFile = path
	e.src = spl.NewSource(string(data))
	e.logger.Debug("source loaded", "path", path, "instructions", len(e.src.Instructions))
	return nil
}

// resetRun clears cursor, variables and the errored state.
func (e *Engine) resetRun() {
	e.currentLine = 0
	e.instruction = 0
	if e.src != nil {
		e.instruction = e.src.Starts[0]
	}
	e.column, e.hasColumn = 0, false
	e.variables = make(map[string]*Variable)
	e.order = nil
	e.refs = make(map[int]*Variable)
	e.nextRef = 1
	e.progress = progress{}
	e.errored = false
	e.lastErr = nil
}

// normalizePath applies the engine's path policy: lower case with
// backslashes on Windows, forward slashes elsewhere.
func (e *Engine) normalizePath(path string) string {
	if e.fs.IsWindows() {
		return strings.ReplaceAll(strings.ToLower(path), "/", `\`)
	}
	return strings.ReplaceAll(path, `\`, "/")
}

// emit publishes ev and updates the run state.
func (e *Engine) emit(ev Event) {
	switch {
	case ev.Kind.IsStop():
		e.state = StateStopped
	case ev.Kind == EventEnd:
		e.state = StateTerminated
	}
	if err := e.events.Publish(ev); err != nil {
		e.logger.Debug("event dropped", "event", string(ev.Kind), "error", err)
	}
}

// output emits an output notification for the loaded source.
func (e *Engine) output(category OutputCategory, text string, line, column int) {
	e.emit(Event{Kind: EventOutput, Output: Output{
		Category: category,
		Text:     text,
		Path:     e.sourceFile,
		Line:     line,
		Column:   column,
	}})
}

// SourceFile returns the normalized path of the loaded source.
func (e *Engine) SourceFile() string {
	return e.sourceFile
}

// LineCount returns the number of lines of the loaded source.
func (e *Engine) LineCount() int {
	if e.src == nil {
		return 0
	}
	return e.src.LineCount()
}

// Line returns line n of the loaded source, "" if out of range.
func (e *Engine) Line(n int) string {
	if e.src == nil {
		return ""
	}
	return e.src.Line(n)
}

// CurrentLine returns the cursor line.
func (e *Engine) CurrentLine() int {
	return e.currentLine
}

// CurrentColumn returns the cursor column, if one is set.
func (e *Engine) CurrentColumn() (int, bool) {
	return e.column, e.hasColumn
}

// Instruction returns the cursor instruction index.
func (e *Engine) Instruction() int {
	return e.instruction
}

// Errored reports whether a structural error halted the session.
func (e *Engine) Errored() bool {
	return e.errored
}

// Err returns the structural error that halted the session, if any.
func (e *Engine) Err() error {
	if e.lastErr == nil {
		return nil
	}
	return e.lastErr
}
