// Package config loads hamlfmt settings from a .hamlfmt.yml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/grindlemire/hamlfmt/pkg/formatter"
)

// FileName is the name of the configuration file looked up by Find.
const FileName = ".hamlfmt.yml"

// Config holds formatter settings.
type Config struct {
	// MaxWidth is the target line width (default: 80).
	MaxWidth int `yaml:"max_width"`
	// Quote is the preferred string quote, `"` or `'` (default: `"`).
	Quote string `yaml:"quote"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxWidth: formatter.DefaultMaxWidth,
		Quote:    string(formatter.DefaultQuote),
	}
}

// Parse decodes YAML settings on top of the defaults. Unknown keys are an
// error so that typos do not go unnoticed.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads settings from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for FileName in dir and its parents and returns the first
// path found, or "" if there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Validate reports settings the formatter cannot use.
func (c Config) Validate() error {
	if c.MaxWidth < 1 {
		return fmt.Errorf("max_width must be positive, got %d", c.MaxWidth)
	}
	if c.Quote != `"` && c.Quote != "'" {
		return fmt.Errorf(`quote must be " or ', got %q`, c.Quote)
	}
	return nil
}

// Options converts the settings to formatter options.
func (c Config) Options() []formatter.Option {
	return []formatter.Option{
		formatter.WithMaxWidth(c.MaxWidth),
		formatter.WithQuote(rune(c.Quote[0])),
	}
}
