package execution

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/aledsdavies/cereal/internal/logging"
	"github.com/aledsdavies/cereal/pkgs/errors"
)

// ExecutionContext is the frame every command runs against. It implements
// context.Context so blocking commands can be cancelled.
type ExecutionContext struct {
	context.Context

	// Core data
	Variables map[string]string // Script variables, names without the leading $
	Args      []string          // Argument texts of the command currently executing

	// Handle back to the VM for FN, CALL and LIBCALL
	Host Host

	// I/O used by PRINT, INPUT, EXEC and the libraries
	Stdout io.Writer
	Stderr io.Writer
	stdin  *bufio.Reader

	// Execution state
	WorkingDir string
	Logger     *slog.Logger

	// Keyword that ends the active conditional skip, "" when running
	skipUntil string
}

// NewExecutionContext creates a new execution context wired to the process stdio
func NewExecutionContext(parent context.Context) *ExecutionContext {
	if parent == nil {
		parent = context.Background()
	}

	return &ExecutionContext{
		Context:   parent,
		Variables: make(map[string]string),
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		stdin:     bufio.NewReader(os.Stdin),
		Logger:    logging.Discard(),
	}
}

// SetStdin replaces the reader INPUT consumes from
func (c *ExecutionContext) SetStdin(r io.Reader) {
	c.stdin = bufio.NewReader(r)
}

// Stdin returns the reader handed to child processes
func (c *ExecutionContext) Stdin() io.Reader {
	return c.stdin
}

// ReadLine reads one line of input without its line terminator.
// io.EOF is only returned when nothing at all could be read.
func (c *ExecutionContext) ReadLine() (string, error) {
	line, err := c.stdin.ReadString('\n')
	if err != nil {
		if stderrors.Is(err, io.EOF) && line != "" {
			err = nil
		} else {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Variable retrieves a variable value
func (c *ExecutionContext) Variable(name string) (string, bool) {
	value, exists := c.Variables[name]
	return value, exists
}

// SetVariable sets a variable value
func (c *ExecutionContext) SetVariable(name, value string) {
	c.Variables[name] = value
}

// SetArgs records the argument texts of the command about to run
func (c *ExecutionContext) SetArgs(args []string) {
	c.Args = args
}

// ExpandVariables replaces every occurrence of $<key> with the key's value,
// for every key, as a plain substring replacement. Keys are visited in sorted
// order, so with variables a and abc the text $abc is rewritten by a first.
func (c *ExecutionContext) ExpandVariables(input string) string {
	if len(c.Variables) == 0 || !strings.Contains(input, "$") {
		return input
	}

	keys := make([]string, 0, len(c.Variables))
	for key := range c.Variables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := input
	for _, key := range keys {
		result = strings.ReplaceAll(result, "$"+key, c.Variables[key])
	}
	return result
}

// Resolve returns operand itself, or for $name the value of name (empty when unset)
func (c *ExecutionContext) Resolve(operand string) string {
	if strings.HasPrefix(operand, "$") {
		return c.Variables[operand[1:]]
	}
	return operand
}

// SetSkipUntil starts skipping commands until the named keyword
func (c *ExecutionContext) SetSkipUntil(command string) {
	c.skipUntil = command
}

// ClearSkip returns to normal execution
func (c *ExecutionContext) ClearSkip() {
	c.skipUntil = ""
}

// SkipTarget returns the keyword that ends the current skip
func (c *ExecutionContext) SkipTarget() (string, bool) {
	return c.skipUntil, c.skipUntil != ""
}

// ShouldSkip reports whether a command called name is inside a skipped region.
// The terminating keyword itself is never skipped.
func (c *ExecutionContext) ShouldSkip(name string) bool {
	if c.skipUntil == "" {
		return false
	}
	return name != c.skipUntil
}

// ShouldRun is the execution guard shared by the main loop and function calls
func (c *ExecutionContext) ShouldRun(cmd Command) bool {
	return !c.ShouldSkip(cmd.Name()) || cmd.IsControlFlow()
}

// RunShell runs command through the platform shell
func (c *ExecutionContext) RunShell(command string) (ShellResult, error) {
	shell, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}
	return c.RunProcess(shell, flag, command)
}

// RunProcess runs name with args, streaming stdout and stderr to the context
// writers. A non-zero exit status is reported in the result, not as an error;
// the error is reserved for processes that could not be started.
func (c *ExecutionContext) RunProcess(name string, args ...string) (ShellResult, error) {
	var captured bytes.Buffer

	cmd := exec.CommandContext(c.Context, name, args...)
	cmd.Stdout = io.MultiWriter(c.Stdout, &captured)
	cmd.Stderr = c.Stderr
	cmd.Stdin = c.stdin
	if c.WorkingDir != "" {
		cmd.Dir = c.WorkingDir
	}

	c.Logger.Debug("spawn", "process", name, "args", args)

	err := cmd.Run()
	result := ShellResult{Stdout: captured.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, errors.Wrap(errors.ErrRuntime, fmt.Sprintf("Failed to execute %s", name), err)
	}
	return result, nil
}
