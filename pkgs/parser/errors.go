package parser

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/aledsdavies/cereal/pkgs/commands"
	"github.com/aledsdavies/cereal/pkgs/errors"
)

// ValidationError collects every problem found in a script
type ValidationError struct {
	Errors []ValidationErrorEntry
}

// ValidationErrorEntry represents a single validation error
type ValidationErrorEntry struct {
	Line    int
	Column  int // 1-based, 0 when unknown
	Message string
	Hint    string
	Context string // Source line the error was found on
}

// Error formats all validation errors as a single string
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, err := range e.Errors {
		if i > 0 {
			builder.WriteString("\n")
		}

		builder.WriteString(fmt.Sprintf("line %d: %s", err.Line, err.Message))
		if err.Context != "" && err.Column > 0 {
			pointer := strings.Repeat(" ", err.Column-1) + "^"
			builder.WriteString(fmt.Sprintf("\n%s\n%s", err.Context, pointer))
		}
	}
	return builder.String()
}

// NewValidationError creates a new ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{
		Errors: []ValidationErrorEntry{},
	}
}

// Add adds a new error message to the validation error
func (e *ValidationError) Add(line int, column int, context string, format string, args ...interface{}) {
	e.Errors = append(e.Errors, ValidationErrorEntry{
		Line:    line,
		Column:  column,
		Context: context,
		Message: fmt.Sprintf(format, args...),
	})
}

// AddSimple adds a simple error message without context
func (e *ValidationError) AddSimple(line int, format string, args ...interface{}) {
	e.Errors = append(e.Errors, ValidationErrorEntry{
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// addError records a parse failure, keeping its column and hint
func (e *ValidationError) addError(line int, context string, err error) {
	entry := ValidationErrorEntry{Line: line, Context: context, Message: err.Error()}

	var scriptErr *errors.ScriptError
	if stderrors.As(err, &scriptErr) {
		entry.Message = scriptErr.Message
		if scriptErr.Cause != nil {
			entry.Message = fmt.Sprintf("%s: %v", scriptErr.Message, scriptErr.Cause)
		}
		entry.Column = scriptErr.Column
		entry.Hint = scriptErr.Hint
	}
	e.Errors = append(e.Errors, entry)
}

// HasErrors returns true if there are validation errors
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate parses every line of script, function bodies included, and
// reports all problems instead of stopping at the first. Loading a script
// only checks bodies when the function is called.
func Validate(script string, registry *commands.Registry) error {
	validationError := NewValidationError()
	p := New(registry)

	openFn, openLine := "", 0
	for i, raw := range strings.Split(script, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		cmd, err := p.ParseLine(line)
		if err != nil {
			validationError.addError(lineNo, line, err)
			continue
		}
		if cmd == nil {
			continue
		}

		switch cmd.Name() {
		case commands.FN:
			if openFn != "" {
				validationError.AddSimple(lineNo, "Nested function definitions are not supported (inside '%s' from line %d)", openFn, openLine)
				continue
			}
			openFn, openLine = p.LastArgs()[1], lineNo
		case commands.ENDFN:
			if openFn == "" {
				validationError.AddSimple(lineNo, "ENDFN without matching FN")
				continue
			}
			openFn = ""
		}
	}

	if openFn != "" {
		validationError.AddSimple(openLine, "Unclosed function definition")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}
