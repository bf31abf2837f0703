// Package config loads the playground's YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfiguration is returned for invalid configuration.
var ErrConfiguration = errors.New("invalid configuration")

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultDataDir = ".playground"
	DefaultTimeout = 5 * time.Second
)

// Config is the playground configuration.
type Config struct {
	// DataDir holds the local storage database.
	DataDir string `yaml:"data_dir"`

	// LogDir holds per-session log files. Defaults to DataDir/logs.
	LogDir string `yaml:"log_dir"`

	// Storage selects the local storage backend: sqlite or memory.
	Storage string `yaml:"storage"`

	// Timeout bounds one snippet evaluation.
	Timeout time.Duration `yaml:"timeout"`

	// Page is an HTML file replacing the built-in lesson page.
	Page string `yaml:"page"`

	// Lessons is a YAML lesson file replacing the built-in lessons.
	Lessons string `yaml:"lessons"`

	Viewport Size `yaml:"viewport"`
	Fixture  Size `yaml:"fixture"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Default returns a configuration with every default applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a configuration, applies defaults and validates it.
func Parse(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.DataDir, "logs")
	}
	if c.Storage == "" {
		c.Storage = StorageSQLite
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Viewport == (Size{}) {
		c.Viewport = Size{Width: 1280, Height: 800}
	}
	if c.Fixture == (Size{}) {
		c.Fixture = Size{Width: 360, Height: 420}
	}
}

// Validate checks field values.
// Returns ErrConfiguration describing every problem found.
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage {
	case StorageSQLite, StorageMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown storage %q", c.Storage))
	}
	if c.Timeout < 0 {
		problems = append(problems, "negative timeout")
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		problems = append(problems, "negative viewport size")
	}
	if c.Fixture.Width < 0 || c.Fixture.Height < 0 {
		problems = append(problems, "negative fixture size")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// DatabasePath returns the sqlite file used for local storage.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "storage.db")
}
