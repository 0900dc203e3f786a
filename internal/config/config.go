// Package config loads editor settings from a TOML file and watches it
// for live reload.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all editor settings.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Parser ParserConfig `toml:"parser"`
}

// EditorConfig holds buffer and history settings.
type EditorConfig struct {
	// TabWidth is the display width of a tab, in cells.
	TabWidth int `toml:"tab_width"`

	// MaxUndoEntries bounds the undo history.
	MaxUndoEntries int `toml:"max_undo_entries"`
}

// ParserConfig holds reparse settings.
type ParserConfig struct {
	// Async moves reparsing off the edit path onto a background
	// goroutine.
	Async bool `toml:"async"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth:       4,
			MaxUndoEntries: 1000,
		},
		Parser: ParserConfig{
			Async: true,
		},
	}
}

// Load reads settings from a TOML file, filling unset keys with
// defaults. A missing file is not an error and yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(data)
}

// LoadReader reads settings from an io.Reader.
func LoadReader(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings for sane values.
func (c Config) Validate() error {
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return fmt.Errorf("editor.tab_width %d out of range [1, 16]", c.Editor.TabWidth)
	}
	if c.Editor.MaxUndoEntries < 1 {
		return fmt.Errorf("editor.max_undo_entries must be positive, got %d", c.Editor.MaxUndoEntries)
	}
	return nil
}

// Save writes the settings to path as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
