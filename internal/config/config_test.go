package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.NoColor)
	assert.Equal(t, DefaultMaxCallDepth, cfg.MaxCallDepth)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Empty(t, cfg.HTTP.UserAgent)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
debug: true
no_color: true
max_call_depth: 32
history_file: /tmp/history
http:
  timeout: 5s
  user_agent: cereal-test
`))
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, 32, cfg.MaxCallDepth)
	assert.Equal(t, "/tmp/history", cfg.HistoryFile)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "cereal-test", cfg.HTTP.UserAgent)
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse(strings.NewReader("debug: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, DefaultMaxCallDepth, cfg.MaxCallDepth)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTP.Timeout)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxCallDepth, cfg.MaxCallDepth)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown key", "colour: true\n"},
		{"unknown nested key", "http:\n  retries: 3\n"},
		{"bad duration", "http:\n  timeout: soon\n"},
		{"zero depth", "max_call_depth: 0\n"},
		{"wrong type", "debug: [1, 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestHistoryFileExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Parse(strings.NewReader("history_file: ~/hist\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "hist"), cfg.HistoryFile)
}

func TestLoadExplicit(t *testing.T) {
	t.Setenv(DebugEnv, "")
	t.Setenv(NoColorEnv, "")

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_call_depth: 12\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.MaxCallDepth)
	assert.Equal(t, path, cfg.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDiscovers(t *testing.T) {
	t.Setenv(DebugEnv, "")
	t.Setenv(NoColorEnv, "")
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("debug: true\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, FileName, filepath.Base(cfg.Path))
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(DebugEnv, "")
	t.Setenv(NoColorEnv, "")
	t.Setenv("HOME", t.TempDir())

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, DefaultMaxCallDepth, cfg.MaxCallDepth)
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		debug   bool
		noColor bool
	}{
		{"nothing set", nil, false, false},
		{"debug true", map[string]string{DebugEnv: "1"}, true, false},
		{"debug false", map[string]string{DebugEnv: "false"}, false, false},
		{"debug any value", map[string]string{DebugEnv: "yes please"}, true, false},
		{"no color", map[string]string{NoColorEnv: "1"}, false, true},
		{"empty no color ignored", map[string]string{NoColorEnv: ""}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.applyEnv(func(key string) (string, bool) {
				value, ok := tt.env[key]
				return value, ok
			})
			assert.Equal(t, tt.debug, cfg.Debug)
			assert.Equal(t, tt.noColor, cfg.NoColor)
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	cfg, err := Parse(strings.NewReader("debug: true\n"))
	require.NoError(t, err)

	cfg.applyEnv(func(key string) (string, bool) {
		if key == DebugEnv {
			return "0", true
		}
		return "", false
	})
	assert.False(t, cfg.Debug)
}
