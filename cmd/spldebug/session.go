package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/spldebug/spldebug/internal/debug"
	"github.com/spldebug/spldebug/internal/event"
	"github.com/spldebug/spldebug/internal/script"
	"github.com/spldebug/spldebug/internal/watcher"
)

// session wires the engine to its consumers. The engine is owned by the
// driver goroutine; the printer only sees published events.
type session struct {
	opts   options
	engine *debug.Engine
	queue  *event.Queue[debug.Event]
	out    io.Writer
	logger *slog.Logger
}

// run drives the engine until the program ends, the script returns or,
// in watch mode, ctx is cancelled.
func (s *session) run(ctx context.Context) error {
	var w *watcher.SourceWatcher
	if s.opts.Watch {
		var err error
		w, err = watcher.New(s.opts.Program, watcher.WithLogger(s.logger))
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// Scripts drain events themselves.
	if s.opts.ScriptPath == "" {
		g.Go(func() error {
			return s.queue.Run(gctx, s.print)
		})
	}
	if w != nil {
		g.Go(func() error {
			for err := range w.Errors() {
				s.logger.Warn("watcher error", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer s.queue.Close()
		if w != nil {
			defer w.Close()
		}
		return s.drive(gctx, w)
	})

	err := g.Wait()
	s.logger.Debug("session finished", "events", s.queue.Stats())
	return err
}

// drive runs the program, rerunning it after each change when watching.
func (s *session) drive(ctx context.Context, w *watcher.SourceWatcher) error {
	if s.opts.ScriptPath != "" {
		runner := script.NewRunner(ctx, s.engine, script.WithLogger(s.logger))
		defer runner.Close()
		if s.opts.Program != "" {
			if err := s.execute(ctx); err != nil {
				return err
			}
		}
		return runner.DoFile(s.opts.ScriptPath)
	}

	if err := s.execute(ctx); err != nil {
		return err
	}
	if w == nil {
		return nil
	}

	for {
		s.logger.Info("watching for changes", "path", w.Path())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-w.Changes():
			if !ok {
				return nil
			}
		}
		s.engine.Invalidate()
		if err := s.execute(ctx); err != nil {
			return err
		}
	}
}

// execute starts the program with the command line breakpoints and
// continues past stops until it ends or the stop limit is reached.
func (s *session) execute(ctx context.Context) error {
	s.engine.ClearBreakpoints(s.opts.Program)
	for _, line := range s.opts.Breakpoints {
		s.engine.SetBreakPoint(s.opts.Program, line)
	}
	for _, db := range s.opts.DataBreaks {
		s.engine.SetDataBreakpoint(db.Name, db.Mode)
	}

	err := s.engine.Start(ctx, s.opts.Program, debug.StartOptions{
		Debug:       true,
		StopOnEntry: s.opts.StopOnEntry,
	})
	if err != nil {
		return err
	}

	for stops := 0; s.engine.State() == debug.StateStopped; stops++ {
		if stops >= s.opts.MaxStops {
			s.logger.Warn("stop limit reached", "stops", stops, "line", s.engine.CurrentLine())
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.engine.Continue(false)
	}
	return nil
}

// print writes one event to the session output.
func (s *session) print(ev debug.Event) {
	switch ev.Kind {
	case debug.EventOutput:
		o := ev.Output
		fmt.Fprintf(s.out, "%s:%d:%d: [%s] %s\n", o.Path, o.Line+1, o.Column+1, o.Category, o.Text)
	case debug.EventBreakpointValidated:
		fmt.Fprintf(s.out, "breakpoint %d verified on line %d\n", ev.Breakpoint.ID, ev.Breakpoint.Line)
	default:
		fmt.Fprintf(s.out, "* %s\n", ev)
	}
}
