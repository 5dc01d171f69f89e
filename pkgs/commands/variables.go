package commands

import (
	stderrors "errors"
	"io"
	"strings"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// AssignCommand stores a value, with variables expanded, under a name.
// DEF and MOV share it and differ only in keyword.
type AssignCommand struct {
	keyword  string
	Variable string
	Value    string
}

// NewDef creates a DEF command
func NewDef(variable, value string) *AssignCommand {
	return &AssignCommand{keyword: DEF, Variable: variable, Value: value}
}

// NewMov creates a MOV command
func NewMov(variable, value string) *AssignCommand {
	return &AssignCommand{keyword: MOV, Variable: variable, Value: value}
}

func (c *AssignCommand) Execute(ctx *execution.ExecutionContext) error {
	ctx.SetVariable(c.Variable, ctx.ExpandVariables(c.Value))
	return nil
}

func (c *AssignCommand) Name() string        { return c.keyword }
func (c *AssignCommand) IsControlFlow() bool { return false }

func (c *AssignCommand) Clone() execution.Command {
	clone := *c
	return &clone
}

// InputCommand reads one line from the context's input into a variable.
// Surrounding whitespace is trimmed; end of input stores an empty string.
type InputCommand struct {
	Variable string
}

func (c *InputCommand) Execute(ctx *execution.ExecutionContext) error {
	line, err := ctx.ReadLine()
	if err != nil && !stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.ErrRuntime, "Failed to read input", err)
	}
	ctx.SetVariable(c.Variable, strings.TrimSpace(line))
	return nil
}

func (c *InputCommand) Name() string        { return INPUT }
func (c *InputCommand) IsControlFlow() bool { return false }

func (c *InputCommand) Clone() execution.Command {
	return &InputCommand{Variable: c.Variable}
}
