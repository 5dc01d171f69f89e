package commands

import (
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// FnDefCommand marks the start of a function body. Script loading consumes it
// together with the body; executed on its own it defines an empty function.
type FnDefCommand struct {
	Function string
}

func (c *FnDefCommand) Execute(ctx *execution.ExecutionContext) error {
	h, err := host(ctx, FN)
	if err != nil {
		return err
	}
	return h.DefineFunction(c.Function, nil)
}

func (c *FnDefCommand) Name() string        { return FN }
func (c *FnDefCommand) IsControlFlow() bool { return false }

func (c *FnDefCommand) Clone() execution.Command {
	return &FnDefCommand{Function: c.Function}
}

// EndFnCommand closes a function body. It does nothing at run time.
type EndFnCommand struct{}

func (c *EndFnCommand) Execute(*execution.ExecutionContext) error { return nil }
func (c *EndFnCommand) Name() string                              { return ENDFN }
func (c *EndFnCommand) IsControlFlow() bool                       { return false }
func (c *EndFnCommand) Clone() execution.Command                  { return &EndFnCommand{} }

// FnCallCommand runs a user-defined function against the live context
type FnCallCommand struct {
	Function string
}

func (c *FnCallCommand) Execute(ctx *execution.ExecutionContext) error {
	h, err := host(ctx, CALL)
	if err != nil {
		return err
	}
	return h.CallFunction(ctx, c.Function)
}

func (c *FnCallCommand) Name() string        { return CALL }
func (c *FnCallCommand) IsControlFlow() bool { return false }

func (c *FnCallCommand) Clone() execution.Command {
	return &FnCallCommand{Function: c.Function}
}

// LibCallCommand dispatches to a named library, which reads its operands from
// the r0, r1, ... variables
type LibCallCommand struct {
	Library string
}

func (c *LibCallCommand) Execute(ctx *execution.ExecutionContext) error {
	h, err := host(ctx, LIBCALL)
	if err != nil {
		return err
	}
	return h.CallLibrary(ctx, c.Library)
}

func (c *LibCallCommand) Name() string        { return LIBCALL }
func (c *LibCallCommand) IsControlFlow() bool { return false }

func (c *LibCallCommand) Clone() execution.Command {
	return &LibCallCommand{Library: c.Library}
}
