package parser

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateCleanScript(t *testing.T) {
	script := `// greeting
DEF name World
FN greet DO
    PRINT Hello, $name!
ENDFN
CALL greet
!writef out.txt $name
`
	if err := Validate(script, nil); err != nil {
		t.Errorf("expected no errors, got:\n%v", err)
	}
}

func TestValidateCollectsEveryError(t *testing.T) {
	script := `DEF x
PRNT hi
FN body DO
    IF a MAYBE b
ENDFN
ENDFN
PRINT "open`

	err := Validate(script, nil)
	var validationErr *ValidationError
	if !stderrors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}

	type entry struct {
		Line    int
		Message string
	}
	got := make([]entry, len(validationErr.Errors))
	for i, e := range validationErr.Errors {
		got[i] = entry{e.Line, e.Message}
	}
	want := []entry{
		{1, "DEF requires variable name and value"},
		{2, "Expected command or macro, got IDENTIFIER"},
		{4, "Invalid IF operator: MAYBE"},
		{6, "ENDFN without matching FN"},
		{7, "Unterminated string literal"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("validation errors mismatch (-want +got):\n%s", diff)
	}

	if validationErr.Errors[1].Hint != "did you mean PRINT?" {
		t.Errorf("expected hint to be kept, got %q", validationErr.Errors[1].Hint)
	}
}

func TestValidateFunctionStructure(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected string
	}{
		{"unclosed", "FN a DO\nPRINT hi", "line 1: Unclosed function definition"},
		{"stray endfn", "PRINT hi\nENDFN", "line 2: ENDFN without matching FN"},
		{"nested", "FN a DO\nFN b DO\nENDFN", "line 2: Nested function definitions are not supported (inside 'a' from line 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.script, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
		})
	}
}

func TestValidationErrorPointsAtColumn(t *testing.T) {
	err := Validate("PRINT ok\nPRINT \"abc", nil)
	if err == nil {
		t.Fatal("expected error")
	}

	expected := "line 2: Unterminated string literal\nPRINT \"abc\n      ^"
	if err.Error() != expected {
		t.Errorf("unexpected rendering (-want +got):\n%s", cmp.Diff(expected, err.Error()))
	}
}

func TestEmptyValidationError(t *testing.T) {
	e := NewValidationError()
	if e.HasErrors() || e.Error() != "" {
		t.Errorf("new validation error should be empty")
	}

	e.Add(3, 2, "xyz", "bad %s", "thing")
	e.AddSimple(4, "worse")
	if !e.HasErrors() {
		t.Fatal("expected errors")
	}
	if got := e.Error(); got != "line 3: bad thing\nxyz\n ^\nline 4: worse" {
		t.Errorf("unexpected rendering %q", got)
	}
}
