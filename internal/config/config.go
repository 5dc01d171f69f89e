// Package config loads the optional .cereal.yaml settings file.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working directory, then the home directory
const FileName = ".cereal.yaml"

// Environment overrides
const (
	DebugEnv   = "CEREAL_DEBUG"
	NoColorEnv = "NO_COLOR"
)

// Defaults
const (
	DefaultMaxCallDepth = 256
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultHistoryFile  = ".cereal_history"
)

// Config holds the CLI and VM settings
type Config struct {
	Path string `yaml:"-"` // File the settings came from, "" for defaults

	Debug        bool   `yaml:"debug"`
	NoColor      bool   `yaml:"no_color"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	HistoryFile  string `yaml:"history_file"`
	HTTP         HTTP   `yaml:"http"`
}

// HTTP configures the httpget library
type HTTP struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// Default returns the settings used when no file exists
func Default() *Config {
	return &Config{
		MaxCallDepth: DefaultMaxCallDepth,
		HistoryFile:  defaultHistoryFile(),
		HTTP: HTTP{
			Timeout: DefaultHTTPTimeout,
		},
	}
}

// Load reads explicit when it is set, otherwise the first .cereal.yaml found in
// the working directory or the home directory. A missing explicit file is an
// error; a missing implicit one yields the defaults. Environment overrides are
// applied last.
func Load(explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = discover()
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

// Parse decodes settings from r on top of the defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	if err := c.decode(file); err != nil {
		return fmt.Errorf("config: parse %s: %w", abs, err)
	}
	c.Path = abs
	return nil
}

func (c *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative, got %s", c.HTTP.Timeout)
	}
	c.HistoryFile = expandHome(c.HistoryFile)
	return nil
}

// applyEnv lets CEREAL_DEBUG and NO_COLOR override the file
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if value, ok := lookup(DebugEnv); ok && value != "" {
		if enabled, err := strconv.ParseBool(value); err == nil {
			c.Debug = enabled
		} else {
			c.Debug = true
		}
	}
	// NO_COLOR disables color when present with any non-empty value
	if value, ok := lookup(NoColorEnv); ok && value != "" {
		c.NoColor = true
	}
}

// discover returns the first settings file that exists, or ""
func discover() string {
	var candidates []string
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, FileName))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultHistoryFile)
}

// expandHome rewrites a leading ~/ to the home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
