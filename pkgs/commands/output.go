package commands

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// PrintCommand writes text, with variables expanded, followed by a newline.
// A $name left over after expansion refers to an undefined variable.
type PrintCommand struct {
	Text string
}

func (c *PrintCommand) Execute(ctx *execution.ExecutionContext) error {
	expanded := ctx.ExpandVariables(c.Text)

	if name := unresolvedVariable(expanded); name != "" {
		return errors.NewVariableNotFoundError(name)
	}

	_, err := fmt.Fprintln(ctx.Stdout, expanded)
	return err
}

func (c *PrintCommand) Name() string        { return PRINT }
func (c *PrintCommand) IsControlFlow() bool { return false }

func (c *PrintCommand) Clone() execution.Command {
	return &PrintCommand{Text: c.Text}
}

// unresolvedVariable returns the first $name reference in s. A $ not followed
// by an identifier character is plain text.
func unresolvedVariable(s string) string {
	for {
		i := strings.IndexByte(s, '$')
		if i < 0 {
			return ""
		}
		s = s[i+1:]
		end := strings.IndexFunc(s, func(r rune) bool { return !isIdentRune(r) })
		if end < 0 {
			end = len(s)
		}
		if end > 0 {
			return s[:end]
		}
	}
}

// AbortCommand stops the script. It returns an *errors.AbortError, which the
// VM passes through untouched so callers can tell it apart from a failure.
type AbortCommand struct {
	Message string
}

func (c *AbortCommand) Execute(ctx *execution.ExecutionContext) error {
	return &errors.AbortError{Message: ctx.ExpandVariables(c.Message)}
}

func (c *AbortCommand) Name() string        { return ABORT }
func (c *AbortCommand) IsControlFlow() bool { return false }

func (c *AbortCommand) Clone() execution.Command {
	return &AbortCommand{Message: c.Message}
}
