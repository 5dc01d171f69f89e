package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/parser"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	if abort, ok := errors.AsAbort(err); ok {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("ABORT: ", ColorYellow, useColor), abort.Message)
		return
	}

	switch e := err.(type) {
	case *parser.ValidationError:
		formatValidationError(w, e, useColor)
	case *CLIError:
		formatCLIError(w, e, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
		if hint := errors.HintOf(err); hint != "" {
			_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), hint)
		}
	}
}

// formatValidationError lists every problem found by check
func formatValidationError(w io.Writer, err *parser.ValidationError, useColor bool) {
	noun := "errors"
	if len(err.Errors) == 1 {
		noun = "error"
	}
	_, _ = fmt.Fprintf(w, "%s%d %s found\n", Colorize("Error: ", ColorRed, useColor), len(err.Errors), noun)

	for _, entry := range err.Errors {
		_, _ = fmt.Fprintf(w, "  %s %s\n", Colorize(fmt.Sprintf("line %d:", entry.Line), ColorGray, useColor), entry.Message)
		if entry.Context != "" && entry.Column > 0 {
			_, _ = fmt.Fprintf(w, "    %s\n    %s^\n", entry.Context, strings.Repeat(" ", entry.Column-1))
		}
		if entry.Hint != "" {
			_, _ = fmt.Fprintf(w, "    %s%s\n", Colorize("Hint: ", ColorYellow, useColor), entry.Hint)
		}
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
