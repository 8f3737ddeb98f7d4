package config

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/spldebug/spldebug/internal/debug"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func noEnv(string) (string, bool) { return "", false }

func TestLoad_Defaults(t *testing.T) {
	for _, path := range []string{"", "/missing.toml"} {
		cfg, err := Load(path, WithFileSystem(memFS{}), WithLookupEnv(noEnv))
		if err != nil {
			t.Fatalf("Load(%q) error = %v", path, err)
		}
		if cfg.Engine.LazyMarker != debug.DefaultLazyMarker || cfg.Engine.Globals != debug.DefaultGlobalCount {
			t.Errorf("Load(%q) engine = %s", path, cfg.Engine)
		}
		if cfg.Engine.GlobalDelay.Duration != time.Second {
			t.Errorf("Load(%q) global_delay = %v, want 1s", path, cfg.Engine.GlobalDelay)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Load(%q) log.level = %q, want info", path, cfg.Log.Level)
		}
	}
}

func TestLoad_TOML(t *testing.T) {
	files := memFS{"/spldebug.toml": `
[engine]
lazy_marker = "later"
cast = ["Hamlet", "Ophelia"]
globals = 2
global_delay = "10ms"

[log]
level = "debug"
file = "/tmp/spldebug.log"
`}

	cfg, err := Load("/spldebug.toml", WithFileSystem(files), WithLookupEnv(noEnv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.LazyMarker != "later" || len(cfg.Engine.Cast) != 2 || cfg.Engine.Globals != 2 {
		t.Errorf("engine = %s cast = %v", cfg.Engine, cfg.Engine.Cast)
	}
	if cfg.Engine.GlobalDelay.Duration != 10*time.Millisecond {
		t.Errorf("global_delay = %v, want 10ms", cfg.Engine.GlobalDelay)
	}
	if cfg.Engine.SkipForwardMarker != debug.DefaultSkipForwardMarker {
		t.Errorf("unset keys should keep defaults, skip_forward_marker = %q", cfg.Engine.SkipForwardMarker)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/spldebug.log" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_YAML(t *testing.T) {
	files := memFS{"/spldebug.yaml": "engine:\n  global_delay: 5ms\n  column_breakpoint_min: 3\n"}

	cfg, err := Load("/spldebug.yaml", WithFileSystem(files), WithLookupEnv(noEnv))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.GlobalDelay.Duration != 5*time.Millisecond || cfg.Engine.ColumnBreakpointMin != 3 {
		t.Errorf("engine = %s", cfg.Engine)
	}
}

func TestLoad_Env(t *testing.T) {
	env := map[string]string{
		"SPLDEBUG_LOG_LEVEL":    "warn",
		"SPLDEBUG_GLOBALS":      "4",
		"SPLDEBUG_GLOBAL_DELAY": "0s",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := Load("", WithLookupEnv(lookup))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.Engine.Globals != 4 || cfg.Engine.GlobalDelay.Duration != 0 {
		t.Errorf("cfg = %+v", cfg)
	}

	for _, level := range []string{"warning", "WARN", "Debug", "Error"} {
		env["SPLDEBUG_LOG_LEVEL"] = level
		cfg, err := Load("", WithLookupEnv(lookup))
		if err != nil {
			t.Errorf("Load() with level %q error = %v", level, err)
			continue
		}
		if cfg.Log.Level != level {
			t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, level)
		}
	}

	env["SPLDEBUG_LOG_LEVEL"] = "loud"
	var verr *ValidationError
	if _, err := Load("", WithLookupEnv(lookup)); !errors.As(err, &verr) || verr.Path != "log.level" {
		t.Errorf("Load() error = %v, want log.level validation error", err)
	}
	env["SPLDEBUG_LOG_LEVEL"] = "warn"

	env["SPLDEBUG_GLOBALS"] = "many"
	if _, err := Load("", WithLookupEnv(lookup)); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Load() error = %v, want ErrValidationFailed", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	files := memFS{
		"/bad.toml":   "[engine\n",
		"/level.toml": "[log]\nlevel = \"loud\"\n",
		"/warn.toml":  "[log]\nlevel = \"Warn\"\n",
		"/neg.yaml":   "engine:\n  globals: -1\n",
	}

	_, err := Load("/bad.toml", WithFileSystem(files), WithLookupEnv(noEnv))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("Load(bad) error = %v, want *ParseError", err)
	}

	var verr *ValidationError
	_, err = Load("/level.toml", WithFileSystem(files), WithLookupEnv(noEnv))
	if !errors.As(err, &verr) || verr.Path != "log.level" {
		t.Errorf("Load(level) error = %v, want log.level validation error", err)
	}
	if cfg, err := Load("/warn.toml", WithFileSystem(files), WithLookupEnv(noEnv)); err != nil || cfg.Log.Level != "Warn" {
		t.Errorf("Load(warn) = %v, %v, want mixed-case level accepted", cfg, err)
	}
	_, err = Load("/neg.yaml", WithFileSystem(files), WithLookupEnv(noEnv))
	if !errors.As(err, &verr) || verr.Path != "engine.globals" {
		t.Errorf("Load(neg) error = %v, want engine.globals validation error", err)
	}

	if _, err := Load("/spldebug.ini", WithFileSystem(files)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(ini) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEngineConfig_Options(t *testing.T) {
	cfg := Default()
	cfg.Engine.Globals = 2
	cfg.Engine.GlobalDelay = Duration{}

	e := debug.New(nil, cfg.Engine.Options()...)
	vars := e.GetGlobalVariables(t.Context(), nil)
	if len(vars) != 2 {
		t.Errorf("engine enumerated %d globals, want 2", len(vars))
	}
}
