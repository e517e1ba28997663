package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/dshills/wordcount/internal/config/loader"
	"github.com/dshills/wordcount/internal/document"
	"github.com/dshills/wordcount/internal/renderer/statusline"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "WORDCOUNT_"

// Environment variables recognised by ApplyEnv.
const (
	EnvLanguage  = EnvPrefix + "LANGUAGE"
	EnvLogLevel  = EnvPrefix + "LOG_LEVEL"
	EnvAlignment = EnvPrefix + "ALIGNMENT"
	EnvPrefixVar = EnvPrefix + "PREFIX"
)

// DefaultDebounce is the default file-change coalescing window.
const DefaultDebounce = 100 * time.Millisecond

var logLevels = []string{"debug", "info", "warn", "error"}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
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
	return []byte(d.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Association maps a glob pattern to a language id.
type Association struct {
	Pattern  string `toml:"pattern" yaml:"pattern"`
	Language string `toml:"language" yaml:"language"`
}

// Config holds all wordcount settings.
type Config struct {
	// Language is the single language id whose documents are counted.
	Language string `toml:"language" yaml:"language"`

	// Alignment is the status item side, "left" or "right".
	Alignment string `toml:"alignment" yaml:"alignment"`

	// Prefix is prepended to the status text.
	Prefix string `toml:"prefix" yaml:"prefix"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Debounce coalesces bursts of file changes in watch mode.
	Debounce Duration `toml:"debounce" yaml:"debounce"`

	// Associations are added after the built-in language associations.
	Associations []Association `toml:"associations" yaml:"associations"`

	// Script is an optional Lua script with status hooks.
	Script string `toml:"script" yaml:"script"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Language:  document.LanguageMarkdown,
		Alignment: statusline.AlignLeft.String(),
		LogLevel:  "info",
		Debounce:  Duration{DefaultDebounce},
	}
}

// Load returns the defaults overlaid with the file at path and the
// environment. An empty path or a missing file yields the defaults.
// The result is validated.
func Load(path string) (*Config, error) {
	return load(loader.NewFileLoader(), loader.NewEnvLoader(EnvPrefix, envMapping()), path)
}

func load(files *loader.FileLoader, env *loader.EnvLoader, path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := files.LoadInto(path, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(env.Load())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envMapping() map[string]string {
	return map[string]string{
		EnvLanguage:  "language",
		EnvLogLevel:  "log_level",
		EnvAlignment: "alignment",
		EnvPrefixVar: "prefix",
	}
}

// ApplyEnv overrides settings from environment values keyed by setting
// name. Unknown keys are ignored.
func (c *Config) ApplyEnv(values map[string]string) {
	for key, val := range values {
		switch key {
		case "language":
			c.Language = val
		case "log_level":
			c.LogLevel = val
		case "alignment":
			c.Alignment = val
		case "prefix":
			c.Prefix = val
		}
	}
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	add := func(key, msg string, val any) {
		errs = append(errs, &ValidationError{Key: key, Message: msg, Value: val})
	}

	if strings.TrimSpace(c.Language) == "" {
		add("language", "must not be empty", c.Language)
	}
	if _, ok := statusline.ParseAlignment(c.Alignment); !ok {
		add("alignment", "must be left or right", c.Alignment)
	}
	if !validLogLevel(c.LogLevel) {
		add("log_level", "must be one of "+strings.Join(logLevels, ", "), c.LogLevel)
	}
	if c.Debounce.Duration < 0 {
		add("debounce", "must not be negative", c.Debounce.String())
	}
	for i, a := range c.Associations {
		key := fmt.Sprintf("associations[%d]", i)
		if !doublestar.ValidatePattern(a.Pattern) {
			add(key+".pattern", "malformed glob pattern", a.Pattern)
		}
		if a.Language == "" {
			add(key+".language", "must not be empty", a.Language)
		}
	}

	return errors.Join(errs...)
}

func validLogLevel(level string) bool {
	for _, l := range logLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

// StatusAlignment returns the parsed alignment.
func (c *Config) StatusAlignment() statusline.Alignment {
	a, _ := statusline.ParseAlignment(c.Alignment)
	return a
}

// DocumentAssociations returns the built-in associations extended with
// the configured ones.
func (c *Config) DocumentAssociations() (*document.Associations, error) {
	assoc := document.DefaultAssociations()
	for _, a := range c.Associations {
		if err := assoc.Add(a.Pattern, a.Language); err != nil {
			return nil, fmt.Errorf("association %q: %w", a.Pattern, err)
		}
	}
	return assoc, nil
}
