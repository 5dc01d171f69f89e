package execution

import "strconv"

// Command is a unit of executable behaviour bound to its operands when it is
// constructed. Implementations are immutable; Clone returns an independent copy.
type Command interface {
	// Execute runs the command against the shared context
	Execute(ctx *ExecutionContext) error

	// Name returns the keyword the command was created from (e.g. "PRINT", "MULTI")
	Name() string

	// IsControlFlow reports whether the command must run even while a
	// conditional skip is active
	IsControlFlow() bool

	// Clone creates a copy with the same operands
	Clone() Command
}

// Host is the handle commands use to reach back into the VM that runs them
type Host interface {
	// DefineFunction stores body as the raw source lines of function name
	DefineFunction(name string, body []string) error

	// CallFunction re-parses and runs the body of function name against ctx
	CallFunction(ctx *ExecutionContext, name string) error

	// CallLibrary dispatches to the library registered as name
	CallLibrary(ctx *ExecutionContext, name string) error
}

// ShellResult holds what a finished external process produced
type ShellResult struct {
	Stdout   string // Captured standard output (also streamed to the context's Stdout)
	ExitCode int
}

// Success reports whether the process exited with status 0
func (r ShellResult) Success() bool {
	return r.ExitCode == 0
}

// LibraryExecutor resolves LIBCALL names to library implementations. A library
// reads its operands from the r0, r1, ... variables and writes results back
// as named variables.
type LibraryExecutor interface {
	Execute(ctx *ExecutionContext, name string) error
}

// RegisterName returns the name of positional register i ("r0", "r1", ...)
func RegisterName(i int) string {
	return "r" + strconv.Itoa(i)
}
