// Package main is the entry point for the spldebug command line debugger.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spldebug/spldebug/internal/config"
	"github.com/spldebug/spldebug/internal/debug"
	"github.com/spldebug/spldebug/internal/event"
	"github.com/spldebug/spldebug/internal/fsaccess"
	"github.com/spldebug/spldebug/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultMaxStops bounds automatic continuation. Exception and data
// breakpoint stops repeat when continued, so a run could loop forever.
const defaultMaxStops = 100

// options holds the parsed command line.
type options struct {
	ConfigPath  string
	LogLevel    string
	ScriptPath  string
	Watch       bool
	StopOnEntry bool
	MaxStops    int
	Breakpoints []int
	DataBreaks  []dataBreakpoint
	Program     string
}

type dataBreakpoint struct {
	Name string
	Mode debug.AccessType
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger, closer, err := logging.New(logging.Config{Level: level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		return 1
	}
	defer closer.Close()
	logger.Debug("configuration loaded", "engine", cfg.Engine.String())

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue := event.NewQueue[debug.Event](event.WithPanicHandler(func(v any, stack []byte) {
		logger.Error("event handler panic", "panic", v, "stack", string(stack))
	}))
	engineOpts := append(cfg.Engine.Options(), debug.WithLogger(logger), debug.WithQueue(queue))
	engine := debug.New(fsaccess.OS{}, engineOpts...)

	s := &session{
		opts:   opts,
		engine: engine,
		queue:  queue,
		out:    os.Stdout,
		logger: logger,
	}
	if err := s.run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := engine.Err(); err != nil {
		return 2
	}
	return 0
}

func parseFlags() options {
	opts := options{MaxStops: defaultMaxStops}
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua script driving the session")
	flag.BoolVar(&opts.Watch, "watch", false, "Rerun the program whenever it changes")
	flag.BoolVar(&opts.StopOnEntry, "stop-on-entry", false, "Stop at the first statement")
	flag.IntVar(&opts.MaxStops, "max-stops", defaultMaxStops, "Maximum stops to continue past")
	flag.Func("break", "Set a breakpoint on a zero-based `line` (repeatable)", func(s string) error {
		line, err := strconv.Atoi(s)
		if err != nil || line < 0 {
			return fmt.Errorf("invalid line %q", s)
		}
		opts.Breakpoints = append(opts.Breakpoints, line)
		return nil
	})
	flag.Func("data", "Watch a variable as `name[:read|write|readWrite]` (repeatable)", func(s string) error {
		db, err := parseDataBreakpoint(s)
		if err != nil {
			return err
		}
		opts.DataBreaks = append(opts.DataBreaks, db)
		return nil
	})
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "spldebug - run and debug SPL plays\n\n")
		fmt.Fprintf(os.Stderr, "Usage: spldebug [options] program.spl\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  spldebug hello.spl                   Run a play\n")
		fmt.Fprintf(os.Stderr, "  spldebug -break 4 -data x hello.spl  Stop on line 4 and on writes to x\n")
		fmt.Fprintf(os.Stderr, "  spldebug -watch hello.spl            Rerun on every save\n")
		fmt.Fprintf(os.Stderr, "  spldebug -script steps.lua           Drive the engine from Lua\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("spldebug %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch flag.NArg() {
	case 0:
		if opts.ScriptPath == "" {
			flag.Usage()
			os.Exit(2)
		}
	case 1:
		opts.Program = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: expected one program, got %d\n", flag.NArg())
		os.Exit(2)
	}
	if opts.Watch && opts.Program == "" {
		fmt.Fprintf(os.Stderr, "Error: -watch needs a program\n")
		os.Exit(2)
	}

	return opts
}

// parseDataBreakpoint parses name[:mode]. The mode defaults to write.
func parseDataBreakpoint(s string) (dataBreakpoint, error) {
	name, mode, found := strings.Cut(s, ":")
	db := dataBreakpoint{Name: name, Mode: debug.AccessWrite}
	if name == "" {
		return db, fmt.Errorf("missing variable name in %q", s)
	}
	if found {
		db.Mode = debug.AccessType(mode)
	}
	switch db.Mode {
	case debug.AccessRead, debug.AccessWrite, debug.AccessReadWrite:
		return db, nil
	default:
		return db, fmt.Errorf("invalid access mode %q", mode)
	}
}
