package loader

import "os"

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLoader reads configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "SPLDEBUG_")
	mapping map[string]string // Env var -> config path
	lookup  LookupFunc
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "SPLDEBUG_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
	}
}

// WithLookup replaces the environment lookup, for tests.
func (l *EnvLoader) WithLookup(lookup LookupFunc) *EnvLoader {
	l.lookup = lookup
	return l
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":    "log.level",
		prefix + "LOG_FILE":     "log.file",
		prefix + "GLOBALS":      "engine.globals",
		prefix + "GLOBAL_DELAY": "engine.global_delay",
		prefix + "LAZY_MARKER":  "engine.lazy_marker",
	}
}

// addMapping adds a custom environment variable mapping.
func (l *EnvLoader) addMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load returns the set overrides keyed by config path.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() map[string]string {
	overrides := make(map[string]string)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			overrides[path] = val
		}
	}
	return overrides
}
