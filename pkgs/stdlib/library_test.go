package stdlib

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// echoLibrary copies r0 into echo_result
type echoLibrary struct {
	name  string
	calls int
}

func (e *echoLibrary) Signature() *Signature {
	return &Signature{
		Name:      e.name,
		Registers: []RegisterSpec{{Register: "r0", Name: "text"}, {Register: "r1", Name: "suffix", Optional: true}},
		Results:   []string{"echo_result"},
	}
}

func (e *echoLibrary) Execute(ctx *execution.ExecutionContext) error {
	e.calls++
	ctx.SetVariable("echo_result", ctx.Variables["r0"]+ctx.Variables["r1"])
	return nil
}

func newContext(t *testing.T) *execution.ExecutionContext {
	t.Helper()
	ctx := execution.NewExecutionContext(context.Background())
	ctx.Stdout = &bytes.Buffer{}
	ctx.Stderr = &bytes.Buffer{}
	ctx.SetStdin(strings.NewReader(""))
	ctx.WorkingDir = t.TempDir()
	return ctx
}

func TestStandardDispatcherNames(t *testing.T) {
	d := NewStandardDispatcher(Options{})
	assert.Equal(t, []string{"git", "httpget", "writef"}, d.Names())

	signatures := d.Signatures()
	require.Len(t, signatures, 3)
	for _, sig := range signatures {
		assert.NotEmpty(t, sig.Description, sig.Name)
		assert.NotEmpty(t, sig.Registers, sig.Name)
	}
}

func TestDispatcherUnknownLibrary(t *testing.T) {
	d := NewStandardDispatcher(Options{})

	err := d.Execute(newContext(t), "httpgt")
	require.Error(t, err)
	assert.Equal(t, "Library 'httpgt' not found", err.Error())
	assert.True(t, errors.IsType(err, errors.ErrLibrary))
	assert.Equal(t, "did you mean httpget?", errors.HintOf(err))
}

func TestDispatcherRunsRegisteredLibrary(t *testing.T) {
	d := NewDispatcher(nil)
	lib := &echoLibrary{name: "echo"}
	d.Register(lib)

	ctx := newContext(t)
	ctx.SetVariable("r0", "World")
	require.NoError(t, d.Execute(ctx, "echo"))
	assert.Equal(t, "World", ctx.Variables["echo_result"])
	assert.Equal(t, 1, lib.calls)
}

func TestDispatcherChecksRequiredRegisters(t *testing.T) {
	d := NewDispatcher(nil)
	lib := &echoLibrary{name: "echo"}
	d.Register(lib)

	ctx := newContext(t)
	err := d.Execute(ctx, "echo")
	require.Error(t, err)
	assert.Equal(t, "echo requires text in r0", err.Error())
	assert.Equal(t, 0, lib.calls, "library must not run without its operands")

	// Optional registers may be missing
	ctx.SetVariable("r0", "x")
	require.NoError(t, d.Execute(ctx, "echo"))
}

func TestDispatcherReplacesLibrary(t *testing.T) {
	d := NewDispatcher(nil)
	first := &echoLibrary{name: "echo"}
	second := &echoLibrary{name: "echo"}
	d.Register(first)
	d.Register(second)

	ctx := newContext(t)
	ctx.SetVariable("r0", "x")
	require.NoError(t, d.Execute(ctx, "echo"))
	assert.Equal(t, 0, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestConcurrentRegistration(t *testing.T) {
	d := NewDispatcher(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			d.Register(&echoLibrary{name: fmt.Sprintf("concurrent%d", id)})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		_, ok := d.Lookup(fmt.Sprintf("concurrent%d", i))
		assert.True(t, ok)
	}
}

func TestWriteF(t *testing.T) {
	d := NewStandardDispatcher(Options{})
	ctx := newContext(t)

	ctx.SetVariable("r0", "out.txt")
	ctx.SetVariable("r1", "first")
	require.NoError(t, d.Execute(ctx, "writef"))

	ctx.SetVariable("r1", "second")
	require.NoError(t, d.Execute(ctx, "writef"))

	content, err := readFile(ctx.WorkingDir, "out.txt")
	require.NoError(t, err)
	assert.Equal(t, "second\n", content, "file is truncated on every write")
}

func TestWriteFRequiresData(t *testing.T) {
	d := NewStandardDispatcher(Options{})
	ctx := newContext(t)
	ctx.SetVariable("r0", "out.txt")

	err := d.Execute(ctx, "writef")
	require.Error(t, err)
	assert.Equal(t, "writef requires data in r1", err.Error())
}

func TestWriteFMissingDirectory(t *testing.T) {
	d := NewStandardDispatcher(Options{})
	ctx := newContext(t)
	ctx.SetVariable("r0", "no/such/dir/out.txt")
	ctx.SetVariable("r1", "data")

	err := d.Execute(ctx, "writef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to write")
}
