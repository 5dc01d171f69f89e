package commands

import (
	"runtime"
	"strconv"
	"strings"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// ExecCommand runs a shell command line. Output is streamed to the context and
// also kept in exec_stdout; the exit status goes to exec_status. A non-zero
// status fails the command.
type ExecCommand struct {
	Command string
}

func (c *ExecCommand) Execute(ctx *execution.ExecutionContext) error {
	expanded := ctx.ExpandVariables(c.Command)

	result, err := ctx.RunShell(expanded)
	if err != nil {
		return err
	}

	ctx.SetVariable(ExecStdoutVar, strings.TrimRight(result.Stdout, "\r\n"))
	ctx.SetVariable(ExecStatusVar, strconv.Itoa(result.ExitCode))

	if !result.Success() {
		return errors.Newf(errors.ErrRuntime, "Command failed with exit code: %d", result.ExitCode)
	}
	return nil
}

func (c *ExecCommand) Name() string        { return EXEC }
func (c *ExecCommand) IsControlFlow() bool { return false }

func (c *ExecCommand) Clone() execution.Command {
	return &ExecCommand{Command: c.Command}
}

// NpmCommand runs npm with the given arguments
type NpmCommand struct {
	Command string
}

func (c *NpmCommand) Execute(ctx *execution.ExecutionContext) error {
	args := strings.Fields(ctx.ExpandVariables(c.Command))

	result, err := ctx.RunProcess(npmBinary(), args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return errors.Newf(errors.ErrRuntime, "NPM command failed with exit code: %d", result.ExitCode)
	}
	return nil
}

func (c *NpmCommand) Name() string        { return NPM }
func (c *NpmCommand) IsControlFlow() bool { return false }

func (c *NpmCommand) Clone() execution.Command {
	return &NpmCommand{Command: c.Command}
}

func npmBinary() string {
	if runtime.GOOS == "windows" {
		return "npm.cmd"
	}
	return "npm"
}
