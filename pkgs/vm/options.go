package vm

import (
	"io"
	"log/slog"

	"github.com/aledsdavies/cereal/pkgs/commands"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// DefaultMaxCallDepth bounds CALL recursion
const DefaultMaxCallDepth = 256

// Option configures a VM
type Option func(*VM)

// WithLogger sets the logger for load, execution and call tracing
func WithLogger(logger *slog.Logger) Option {
	return func(v *VM) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithStdio sets the streams INPUT, PRINT, EXEC and the libraries use
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(v *VM) {
		v.stdin = stdin
		v.stdout = stdout
		v.stderr = stderr
	}
}

// WithLibraries sets the dispatcher LIBCALL uses
func WithLibraries(libraries execution.LibraryExecutor) Option {
	return func(v *VM) {
		v.libraries = libraries
	}
}

// WithMaxCallDepth limits how deeply functions may call each other
func WithMaxCallDepth(depth int) Option {
	return func(v *VM) {
		if depth > 0 {
			v.maxCallDepth = depth
		}
	}
}

// WithRegistry sets the commands scripts may use
func WithRegistry(registry *commands.Registry) Option {
	return func(v *VM) {
		if registry != nil {
			v.registry = registry
		}
	}
}

// WithWorkingDir sets the directory EXEC, NPM and the file libraries run in
func WithWorkingDir(dir string) Option {
	return func(v *VM) {
		v.workingDir = dir
	}
}
