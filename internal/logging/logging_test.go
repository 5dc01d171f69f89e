package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDebugStripsTimeAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("executing", "command", "PRINT")

	out := buf.String()
	assert.Contains(t, out, "msg=executing")
	assert.Contains(t, out, "command=PRINT")
	assert.NotContains(t, out, "time=")
	assert.NotContains(t, out, "level=")
}

func TestNewInfoHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestDebugEnvIsIgnored(t *testing.T) {
	t.Setenv("CEREAL_DEBUG", "1")
	var buf bytes.Buffer
	New(&buf, false).Debug("traced")
	assert.Empty(t, buf.String(), "only the debug argument enables tracing")
}

func TestDiscard(t *testing.T) {
	// Must not panic and must not be enabled for errors
	logger := Discard()
	logger.Error("dropped")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
