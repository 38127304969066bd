package config

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/homer/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Output formats accepted by ui.format
const (
	FormatAuto = "auto"
	FormatTerm = "term"
	FormatText = "text"
)

// Config is the effective configuration of a run
type Config struct {
	Input      string        `koanf:"input" toml:"input"`
	Output     string        `koanf:"output" toml:"output"`
	Backup     bool          `koanf:"backup" toml:"backup"`
	Force      bool          `koanf:"force" toml:"force"`
	IgnoreFile string        `koanf:"ignore_file" toml:"ignore_file"`
	Scripts    ScriptsConfig `koanf:"scripts" toml:"scripts"`
	UI         UIConfig      `koanf:"ui" toml:"ui"`

	// Sources lists the files that were loaded, in load order
	Sources []string `koanf:"-" toml:"-"`
}

// ScriptsConfig configures post-link scripts
type ScriptsConfig struct {
	Dir     string   `koanf:"dir" toml:"dir"`
	Timeout Duration `koanf:"timeout" toml:"timeout"`
}

// UIConfig configures output rendering
type UIConfig struct {
	Format string `koanf:"format" toml:"format"`
}

// Duration is a time.Duration written as a string ("5m") in config files
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Validate checks values that the type system cannot
func (c *Config) Validate() error {
	switch c.UI.Format {
	case FormatAuto, FormatTerm, FormatText:
	default:
		return errors.Newf(errors.ErrConfigParse, "invalid ui.format %q, want one of auto, term, text", c.UI.Format).
			WithDetail("key", "ui.format")
	}
	if c.Scripts.Timeout.Std() <= 0 {
		return errors.Newf(errors.ErrConfigParse, "scripts.timeout must be positive, got %s", c.Scripts.Timeout.Std()).
			WithDetail("key", "scripts.timeout")
	}
	if c.Input == "" {
		return errors.New(errors.ErrConfigParse, "input must not be empty").
			WithDetail("key", "input")
	}
	return nil
}

// DefaultsContent returns the embedded defaults file
func DefaultsContent() string {
	return string(defaultConfig)
}

// String is used in debug logs
func (c *Config) String() string {
	return fmt.Sprintf("input=%s output=%s backup=%t force=%t ignore_file=%s scripts.dir=%s",
		c.Input, c.Output, c.Backup, c.Force, c.IgnoreFile, c.Scripts.Dir)
}
