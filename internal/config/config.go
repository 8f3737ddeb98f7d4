// Package config loads the spldebug configuration.
//
// Settings come from three layers, each overriding the one below:
//
//	┌─────────────────────────────┐
//	│  3. Environment (SPLDEBUG_) │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config file (TOML/YAML) │
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on top of the result.
package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spldebug/spldebug/internal/config/loader"
	"github.com/spldebug/spldebug/internal/debug"
	"github.com/spldebug/spldebug/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPLDEBUG_"

// Config is the complete configuration.
type Config struct {
	Engine EngineConfig `toml:"engine" yaml:"engine"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// EngineConfig holds debug engine settings.
type EngineConfig struct {
	// SkipForwardMarker moves a breakpoint down when its line starts with it.
	SkipForwardMarker string `toml:"skip_forward_marker" yaml:"skip_forward_marker"`

	// SkipBackwardMarker moves a breakpoint up when its line starts with it.
	SkipBackwardMarker string `toml:"skip_backward_marker" yaml:"skip_backward_marker"`

	// LazyMarker defers verification of breakpoints on lines containing it.
	LazyMarker string `toml:"lazy_marker" yaml:"lazy_marker"`

	// Cast replaces the known character names when non-empty.
	Cast []string `toml:"cast" yaml:"cast"`

	// Globals is the number of synthetic global variables.
	Globals int `toml:"globals" yaml:"globals"`

	// GlobalDelay is the pause between enumerated globals.
	GlobalDelay Duration `toml:"global_delay" yaml:"global_delay"`

	// ColumnBreakpointMin is the word length a column breakpoint
	// candidate must exceed.
	ColumnBreakpointMin int `toml:"column_breakpoint_min" yaml:"column_breakpoint_min"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`

	// File additionally writes JSON logs to this path when set.
	File string `toml:"file" yaml:"file"`
}

// Duration is a time.Duration written as a string such as "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			SkipForwardMarker:   debug.DefaultSkipForwardMarker,
			SkipBackwardMarker:  debug.DefaultSkipBackwardMarker,
			LazyMarker:          debug.DefaultLazyMarker,
			Globals:             debug.DefaultGlobalCount,
			GlobalDelay:         Duration{debug.DefaultGlobalDelay},
			ColumnBreakpointMin: debug.DefaultColumnBreakpointMin,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs     loader.FileSystem
	lookup loader.LookupFunc
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithLookupEnv replaces the environment lookup.
func WithLookupEnv(lookup loader.LookupFunc) Option {
	return func(o *loadOptions) {
		o.lookup = lookup
	}
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path or a missing file leaves the defaults.
func Load(path string, opts ...Option) (*Config, error) {
	o := loadOptions{fs: loader.DefaultFS()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Default()
	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		if _, err := l.Decode(path, cfg); err != nil {
			return nil, err
		}
	}

	env := loader.NewEnvLoader(EnvPrefix)
	if o.lookup != nil {
		env.WithLookup(o.lookup)
	}
	if err := cfg.applyEnv(env.Load()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies overrides keyed by config path.
func (c *Config) applyEnv(overrides map[string]string) error {
	for path, value := range overrides {
		var err error
		switch path {
		case "log.level":
			c.Log.Level = value
		case "log.file":
			c.Log.File = value
		case "engine.lazy_marker":
			c.Engine.LazyMarker = value
		case "engine.globals":
			c.Engine.Globals, err = strconv.Atoi(value)
		case "engine.global_delay":
			err = c.Engine.GlobalDelay.UnmarshalText([]byte(value))
		}
		if err != nil {
			return &ValidationError{Path: path, Message: "invalid environment override: " + err.Error(), Value: value}
		}
	}
	return nil
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Path: "log.level", Message: err.Error(), Value: c.Log.Level}
	}
	if c.Engine.Globals < 0 {
		return &ValidationError{Path: "engine.globals", Message: "must not be negative", Value: c.Engine.Globals}
	}
	if c.Engine.GlobalDelay.Duration < 0 {
		return &ValidationError{Path: "engine.global_delay", Message: "must not be negative", Value: c.Engine.GlobalDelay}
	}
	if c.Engine.ColumnBreakpointMin < 0 {
		return &ValidationError{Path: "engine.column_breakpoint_min", Message: "must not be negative", Value: c.Engine.ColumnBreakpointMin}
	}
	for name, marker := range map[string]string{
		"engine.skip_forward_marker":  c.Engine.SkipForwardMarker,
		"engine.skip_backward_marker": c.Engine.SkipBackwardMarker,
		"engine.lazy_marker":          c.Engine.LazyMarker,
	} {
		if marker == "" {
			return &ValidationError{Path: name, Message: "must not be empty", Value: marker}
		}
	}
	return nil
}

// Options converts the engine settings into debug engine options.
func (e EngineConfig) Options() []debug.Option {
	return []debug.Option{
		debug.WithMarkers(e.SkipForwardMarker, e.SkipBackwardMarker),
		debug.WithLazyMarker(e.LazyMarker),
		debug.WithCast(e.Cast),
		debug.WithGlobals(e.Globals, e.GlobalDelay.Duration),
		debug.WithColumnBreakpointMin(e.ColumnBreakpointMin),
	}
}

// String returns a one-line summary for logs.
func (e EngineConfig) String() string {
	return fmt.Sprintf("markers=%q/%q lazy=%q globals=%d delay=%s column_min=%d",
		e.SkipForwardMarker, e.SkipBackwardMarker, e.LazyMarker, e.Globals, e.GlobalDelay.Duration, e.ColumnBreakpointMin)
}
