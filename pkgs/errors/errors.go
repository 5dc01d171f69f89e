package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types for the different stages a script goes through
const (
	// Lexing a single line
	ErrLex = "LEX_ERROR"

	// Turning tokens into commands
	ErrParse = "PARSE_ERROR"

	// Structural problems found while loading a script (FN/ENDFN pairing)
	ErrLoad = "LOAD_ERROR"

	// Failures while commands execute
	ErrRuntime = "RUNTIME_ERROR"

	// Library dispatch failures
	ErrLibrary = "LIBRARY_ERROR"
)

// ScriptError represents a structured error with type and location
type ScriptError struct {
	Type    string
	Message string
	Line    int    // 1-based, 0 when unknown
	Column  int    // 1-based, 0 when unknown
	Hint    string // Suggestion shown by the CLI, never part of Error()
	Cause   error
}

// Error implements the error interface
func (e *ScriptError) Error() string {
	msg := e.Message
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap allows error unwrapping
func (e *ScriptError) Unwrap() error {
	return e.Cause
}

// New creates a new ScriptError
func New(errorType, message string) *ScriptError {
	return &ScriptError{
		Type:    errorType,
		Message: message,
	}
}

// Newf creates a new ScriptError with a formatted message
func Newf(errorType, format string, args ...interface{}) *ScriptError {
	return New(errorType, fmt.Sprintf(format, args...))
}

// Wrap creates a new ScriptError wrapping an existing error
func Wrap(errorType, message string, cause error) *ScriptError {
	return &ScriptError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// WithLine records the source line. An already recorded line is kept.
func (e *ScriptError) WithLine(line int) *ScriptError {
	if e.Line == 0 {
		e.Line = line
	}
	return e
}

// WithPosition records line and column
func (e *ScriptError) WithPosition(line, column int) *ScriptError {
	e.Line = line
	e.Column = column
	return e
}

// WithHint attaches a suggestion for the user
func (e *ScriptError) WithHint(hint string) *ScriptError {
	e.Hint = hint
	return e
}

// IsType checks if an error (or anything it wraps) is a ScriptError of the given type
func IsType(err error, errorType string) bool {
	var scriptErr *ScriptError
	if stderrors.As(err, &scriptErr) {
		return scriptErr.Type == errorType
	}
	return false
}

// HintOf returns the hint carried by err, if any
func HintOf(err error) string {
	var scriptErr *ScriptError
	if stderrors.As(err, &scriptErr) {
		return scriptErr.Hint
	}
	return ""
}

// AbortError is returned when a script stops itself with ABORT.
// It is not a failure: callers should report the message and exit successfully.
type AbortError struct {
	Message string
}

// Error implements the error interface
func (e *AbortError) Error() string {
	return "ABORT: " + e.Message
}

// IsAbort reports whether err is (or wraps) an AbortError
func IsAbort(err error) bool {
	var abort *AbortError
	return stderrors.As(err, &abort)
}

// AsAbort extracts the AbortError from err
func AsAbort(err error) (*AbortError, bool) {
	var abort *AbortError
	ok := stderrors.As(err, &abort)
	return abort, ok
}

// Helper functions for common error scenarios

// NewUnknownCommandError creates an unknown command error
func NewUnknownCommandError(name string) *ScriptError {
	return Newf(ErrParse, "Unknown command: %s", name)
}

// NewFunctionNotFoundError creates a function lookup error
func NewFunctionNotFoundError(name string) *ScriptError {
	return Newf(ErrRuntime, "Function '%s' not found", name)
}

// NewLibraryNotFoundError creates a library lookup error
func NewLibraryNotFoundError(name string) *ScriptError {
	return Newf(ErrLibrary, "Library '%s' not found", name)
}

// NewVariableNotFoundError creates a variable not found error
func NewVariableNotFoundError(name string) *ScriptError {
	return Newf(ErrRuntime, "Variable %s not found", name)
}
