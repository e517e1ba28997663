package loader

import (
	"os"
	"strings"
)

// EnvLoader collects configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "WORDCOUNT_")
	mapping map[string]string // Env var -> config key
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "WORDCOUNT_").
// Variables listed in mapping resolve to the mapped key; other prefixed
// variables resolve to their lowercased name without the prefix.
func NewEnvLoader(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
		environ: os.Environ,
	}
}

// Load returns the overrides keyed by config key.
// Empty values are treated as set, not as unset.
func (l *EnvLoader) Load() map[string]string {
	out := make(map[string]string)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if key, mapped := l.mapping[name]; mapped {
			out[key] = value
			continue
		}
		out[strings.ToLower(strings.TrimPrefix(name, l.prefix))] = value
	}
	return out
}
