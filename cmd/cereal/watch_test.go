package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReRunsOnChange(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "watched.crl")
	require.NoError(t, os.WriteFile(path, []byte("PRINT first\n"), 0o644))

	var stdout, stderr syncBuffer
	a := &app{stdin: strings.NewReader(""), stdout: &stdout, stderr: &stderr}
	require.NoError(t, a.setup())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.watchScript(ctx, path) }()

	require.Eventually(t, func() bool {
		return stdout.String() == "first\n"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("PRINT second\n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "second\n")
	}, 5*time.Second, 20*time.Millisecond)

	// A broken edit is reported and watching continues
	require.NoError(t, os.WriteFile(path, []byte("ENDFN\n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "ENDFN without matching FN")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Contains(t, stderr.String(), "Watching")
}

func TestWatchMissingDirectory(t *testing.T) {
	isolate(t)

	var stdout, stderr bytes.Buffer
	a := &app{stdin: strings.NewReader(""), stdout: &stdout, stderr: &stderr}
	require.NoError(t, a.setup())

	err := a.watchScript(context.Background(), filepath.Join(t.TempDir(), "no", "such", "script.crl"))
	assert.Error(t, err)
}
