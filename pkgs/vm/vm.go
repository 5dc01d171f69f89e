// Package vm loads scripts into a flat program and runs it against a shared
// execution context.
package vm

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/aledsdavies/cereal/internal/invariant"
	"github.com/aledsdavies/cereal/internal/logging"
	"github.com/aledsdavies/cereal/internal/suggest"
	"github.com/aledsdavies/cereal/pkgs/commands"
	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
	"github.com/aledsdavies/cereal/pkgs/parser"
	"github.com/aledsdavies/cereal/pkgs/stdlib"
)

// Instruction is one loaded command with the argument texts of its line
type Instruction struct {
	Command execution.Command
	Args    []string
	Line    int
}

// VM owns the program, the function table and the execution context
type VM struct {
	program   []Instruction
	functions map[string][]string
	registers map[string]string

	// Bookkeeping only: saved lines of the active calls
	callStack   []int
	currentLine int

	ctx        *execution.ExecutionContext
	registry   *commands.Registry
	libraries  execution.LibraryExecutor
	lineParser *parser.Parser // Parses ExecuteLine input across calls

	logger       *slog.Logger
	maxCallDepth int
	workingDir   string
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
}

// New creates a VM with the built-in commands and standard libraries
func New(opts ...Option) *VM {
	v := &VM{
		functions:    make(map[string][]string),
		registers:    make(map[string]string),
		logger:       logging.Discard(),
		maxCallDepth: DefaultMaxCallDepth,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.registry == nil {
		v.registry = commands.NewDefaultRegistry()
	}
	if v.libraries == nil {
		v.libraries = stdlib.NewStandardDispatcher(stdlib.Options{Logger: v.logger})
	}
	v.lineParser = parser.New(v.registry)
	v.ctx = v.newContext()
	return v
}

func (v *VM) newContext() *execution.ExecutionContext {
	ctx := execution.NewExecutionContext(context.Background())
	ctx.Host = v
	ctx.Stdout = v.stdout
	ctx.Stderr = v.stderr
	ctx.SetStdin(v.stdin)
	ctx.WorkingDir = v.workingDir
	ctx.Logger = v.logger
	return ctx
}

// Execute runs the loaded program once, top to bottom. The first error stops
// the run; an ABORT comes back as *errors.AbortError.
func (v *VM) Execute(ctx context.Context) error {
	defer v.bind(ctx)()

	v.logger.Debug("execute", "instructions", len(v.program))
	for _, inst := range v.program {
		if err := v.step(v.ctx, inst.Command, inst.Args, inst.Line); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteLine parses and runs a single line immediately
func (v *VM) ExecuteLine(ctx context.Context, line string) error {
	defer v.bind(ctx)()

	cmd, err := v.lineParser.ParseLine(line)
	if err != nil {
		return err
	}
	if cmd == nil {
		return nil
	}
	return v.step(v.ctx, cmd, v.lineParser.LastArgs(), 0)
}

// bind runs the context against parent until the returned func is called
func (v *VM) bind(parent context.Context) func() {
	if parent == nil {
		parent = context.Background()
	}
	previous := v.ctx.Context
	v.ctx.Context = parent
	return func() { v.ctx.Context = previous }
}

// step is the execution guard shared by the main loop and function bodies
func (v *VM) step(ctx *execution.ExecutionContext, cmd execution.Command, args []string, line int) error {
	invariant.NotNil(cmd, "command")
	invariant.Precondition(line >= 0, "line must not be negative, got %d", line)

	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrRuntime, "Execution cancelled", err).WithLine(line)
	}

	if !ctx.ShouldRun(cmd) {
		v.logger.Debug("skip", "command", cmd.Name(), "line", line)
		return nil
	}

	ctx.SetArgs(args)
	if line > 0 {
		v.currentLine = line
	}

	err := cmd.Execute(ctx)
	if err == nil {
		return nil
	}
	if errors.IsAbort(err) {
		return err
	}
	return withLine(err, line)
}

// CallFunction re-parses and runs a function body against ctx, honouring the
// same skip guard as the main loop
func (v *VM) CallFunction(ctx *execution.ExecutionContext, name string) error {
	invariant.NotNil(ctx, "ctx")

	body, exists := v.functions[name]
	if !exists {
		err := errors.NewFunctionNotFoundError(name)
		if hint := suggest.Hint(name, v.Functions()); hint != "" {
			err.WithHint(hint)
		}
		return err
	}

	if len(v.callStack) >= v.maxCallDepth {
		return errors.Newf(errors.ErrRuntime, "Maximum call depth (%d) exceeded", v.maxCallDepth)
	}

	v.callStack = append(v.callStack, v.currentLine)
	defer func() {
		v.currentLine = v.callStack[len(v.callStack)-1]
		v.callStack = v.callStack[:len(v.callStack)-1]
	}()

	v.logger.Debug("call", "function", name, "depth", len(v.callStack))

	p := parser.New(v.registry)
	for _, line := range body {
		cmd, err := p.ParseLine(line)
		if err != nil {
			return inFunction(name, err)
		}
		if cmd == nil {
			continue
		}
		if err := v.step(ctx, cmd, p.LastArgs(), 0); err != nil {
			if errors.IsAbort(err) {
				return err
			}
			return inFunction(name, err)
		}
	}
	return nil
}

// Call runs a defined function from outside a script
func (v *VM) Call(ctx context.Context, name string) error {
	defer v.bind(ctx)()
	return v.CallFunction(v.ctx, name)
}

// CallLibrary dispatches LIBCALL to the configured libraries
func (v *VM) CallLibrary(ctx *execution.ExecutionContext, name string) error {
	v.logger.Debug("libcall", "library", name)
	return v.libraries.Execute(ctx, name)
}

// DefineFunction stores body as the raw lines of function name, replacing any
// previous definition
func (v *VM) DefineFunction(name string, body []string) error {
	if name == "" {
		return errors.New(errors.ErrRuntime, "Function name cannot be empty")
	}
	lines := make([]string, len(body))
	copy(lines, body)
	v.functions[name] = lines
	v.logger.Debug("define", "function", name, "lines", len(lines))
	return nil
}

// Functions returns the names of all defined functions, sorted
func (v *VM) Functions() []string {
	names := make([]string, 0, len(v.functions))
	for name := range v.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Function returns a copy of a function body
func (v *VM) Function(name string) ([]string, bool) {
	body, exists := v.functions[name]
	if !exists {
		return nil, false
	}
	lines := make([]string, len(body))
	copy(lines, body)
	return lines, true
}

// Program returns the loaded instructions
func (v *VM) Program() []Instruction {
	program := make([]Instruction, len(v.program))
	copy(program, v.program)
	return program
}

// CallDepth returns the number of active function calls
func (v *VM) CallDepth() int {
	return len(v.callStack)
}

// Variables returns a copy of the variable store
func (v *VM) Variables() map[string]string {
	vars := make(map[string]string, len(v.ctx.Variables))
	for k, val := range v.ctx.Variables {
		vars[k] = val
	}
	return vars
}

// Variable reads one variable
func (v *VM) Variable(name string) (string, bool) {
	return v.ctx.Variable(name)
}

// SetVariable sets a variable before or between runs
func (v *VM) SetVariable(name, value string) {
	v.ctx.SetVariable(name, value)
}

// Context returns the shared execution context
func (v *VM) Context() *execution.ExecutionContext {
	return v.ctx
}

// ClearProgram drops the loaded instructions, keeping functions and variables
func (v *VM) ClearProgram() {
	v.program = nil
}

// Reset returns the VM to its freshly created state
func (v *VM) Reset() {
	v.program = nil
	v.functions = make(map[string][]string)
	v.registers = make(map[string]string)
	v.callStack = nil
	v.currentLine = 0
	v.lineParser = parser.New(v.registry)
	v.ctx = v.newContext()
}

func inFunction(name string, err error) error {
	return errors.Wrap(errors.ErrRuntime, fmt.Sprintf("In function '%s'", name), err)
}

// withLine records line on err when it does not carry one yet
func withLine(err error, line int) error {
	if line <= 0 {
		return err
	}
	var scriptErr *errors.ScriptError
	if stderrors.As(err, &scriptErr) {
		scriptErr.WithLine(line)
		return err
	}
	return errors.Wrap(errors.ErrRuntime, "Command failed", err).WithLine(line)
}
