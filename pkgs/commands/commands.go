// Package commands holds the built-in script commands and the registry
// that builds them from parsed lines.
package commands

import (
	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

// Built-in command keywords
const (
	DEF     = "DEF"
	MOV     = "MOV"
	EXEC    = "EXEC"
	NPM     = "NPM"
	IF      = "IF"
	ENDIF   = "ENDIF"
	EQ      = "EQ"
	NEQ     = "NEQ"
	PRINT   = "PRINT"
	ABORT   = "ABORT"
	FN      = "FN"
	CALL    = "CALL"
	ENDFN   = "ENDFN"
	INPUT   = "INPUT"
	LIBCALL = "LIBCALL"
	MULTI   = "MULTI"
)

// Variables written by built-in commands
const (
	EqResultVar   = "eq_result"
	ExecStdoutVar = "exec_stdout"
	ExecStatusVar = "exec_status"

	True  = "TRUE"
	False = "FALSE"
)

// host returns the VM handle or an error naming the command that needed it
func host(ctx *execution.ExecutionContext, command string) (execution.Host, error) {
	if ctx.Host == nil {
		return nil, errors.Newf(errors.ErrRuntime, "%s requires a running VM", command)
	}
	return ctx.Host, nil
}

// operand resolves a command operand: $name is looked up whole, anything
// else has variables expanded inside it
func operand(ctx *execution.ExecutionContext, value string) string {
	if len(value) > 1 && value[0] == '$' && isIdentifier(value[1:]) {
		return ctx.Resolve(value)
	}
	return ctx.ExpandVariables(value)
}

func isIdentifier(s string) bool {
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return s != ""
}

func isIdentRune(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') || r > 127
}
