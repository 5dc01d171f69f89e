package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/parser"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "script error",
			err:      errors.New(errors.ErrRuntime, "boom").WithLine(3),
			expected: "Error: line 3: boom\n",
		},
		{
			name:     "script error with hint",
			err:      errors.New(errors.ErrParse, "Unknown command: PRNT").WithHint("did you mean PRINT?"),
			expected: "Error: Unknown command: PRNT\nHint: did you mean PRINT?\n",
		},
		{
			name:     "abort",
			err:      &errors.AbortError{Message: "done early"},
			expected: "ABORT: done early\n",
		},
		{
			name:     "cli error",
			err:      &CLIError{Message: "bad", Details: "details here", Hint: "try again"},
			expected: "Error: bad\n\ndetails here\nHint: try again\n",
		},
		{
			name: "validation error",
			err: &parser.ValidationError{Errors: []parser.ValidationErrorEntry{
				{Line: 2, Column: 7, Context: "PRINT \"x", Message: "Unterminated string literal"},
			}},
			expected: "Error: 1 error found\n  line 2: Unterminated string literal\n    PRINT \"x\n          ^\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatError(&buf, tt.err, false)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestFormatErrorNil(t *testing.T) {
	var buf bytes.Buffer
	FormatError(&buf, nil, true)
	assert.Empty(t, buf.String())
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "text", Colorize("text", ColorRed, false))
	assert.Equal(t, ColorRed+"text"+ColorReset, Colorize("text", ColorRed, true))
	assert.Equal(t, "", Colorize("", ColorRed, true))
}

func TestShouldUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	assert.False(t, ShouldUseColor(true, &buf))
	assert.False(t, ShouldUseColor(false, &buf), "buffers are not terminals")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColor(false, &buf))
}

func TestCLIErrorString(t *testing.T) {
	err := &CLIError{Message: "m", Details: "d", Hint: "h"}
	assert.Equal(t, "m\nd\nh", err.Error())
}
