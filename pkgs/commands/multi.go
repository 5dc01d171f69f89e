package commands

import (
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// MultiCommand runs a fixed sequence of commands as one unit. Macro lines
// expand into one. The first error stops the sequence.
type MultiCommand struct {
	Commands []execution.Command
}

// NewMulti creates a composite command
func NewMulti(cmds ...execution.Command) *MultiCommand {
	return &MultiCommand{Commands: cmds}
}

func (c *MultiCommand) Execute(ctx *execution.ExecutionContext) error {
	for _, cmd := range c.Commands {
		if err := cmd.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *MultiCommand) Name() string        { return MULTI }
func (c *MultiCommand) IsControlFlow() bool { return false }

// Clone deep-copies every wrapped command
func (c *MultiCommand) Clone() execution.Command {
	cmds := make([]execution.Command, len(c.Commands))
	for i, cmd := range c.Commands {
		cmds[i] = cmd.Clone()
	}
	return &MultiCommand{Commands: cmds}
}
