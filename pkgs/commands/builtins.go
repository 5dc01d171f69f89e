package commands

import (
	"strings"

	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
)

func registerBuiltins(r *Registry) {
	r.Register(DEF, func(args []string) (execution.Command, error) {
		if len(args) < 2 {
			return nil, arityError("DEF requires variable name and value")
		}
		return NewDef(args[0], strings.Join(args[1:], " ")), nil
	})

	r.Register(MOV, func(args []string) (execution.Command, error) {
		if len(args) < 2 {
			return nil, arityError("MOV requires two arguments")
		}
		return NewMov(args[0], strings.Join(args[1:], " ")), nil
	})

	r.Register(EXEC, func(args []string) (execution.Command, error) {
		if len(args) == 0 {
			return nil, arityError("EXEC requires a command")
		}
		return &ExecCommand{Command: strings.Join(args, " ")}, nil
	})

	r.Register(NPM, func(args []string) (execution.Command, error) {
		if len(args) == 0 {
			return nil, arityError("NPM requires a command")
		}
		return &NpmCommand{Command: strings.Join(args, " ")}, nil
	})

	r.Register(IF, func(args []string) (execution.Command, error) {
		if len(args) != 3 {
			return nil, arityError("IF requires format: IF <value> <IS|NOT|CONTAINS|NOTCONTAINS> <value>")
		}
		op, ok := ParseOperator(args[1])
		if !ok {
			return nil, errors.Newf(errors.ErrParse, "Invalid IF operator: %s", args[1]).
				WithHint("use one of IS, NOT, CONTAINS, NOTCONTAINS")
		}
		return &IfCommand{Left: args[0], Operator: op, Right: args[2]}, nil
	})

	r.Register(ENDIF, func([]string) (execution.Command, error) {
		return &EndIfCommand{}, nil
	})

	r.Register(EQ, func(args []string) (execution.Command, error) {
		if len(args) != 2 {
			return nil, arityError("EQ requires two arguments")
		}
		return NewEq(args[0], args[1]), nil
	})

	r.Register(NEQ, func(args []string) (execution.Command, error) {
		if len(args) != 2 {
			return nil, arityError("NEQ requires two arguments")
		}
		return NewNeq(args[0], args[1]), nil
	})

	r.Register(PRINT, func(args []string) (execution.Command, error) {
		return &PrintCommand{Text: strings.Join(args, " ")}, nil
	})

	r.Register(ABORT, func(args []string) (execution.Command, error) {
		return &AbortCommand{Message: strings.Join(args, " ")}, nil
	})

	r.Register(FN, func(args []string) (execution.Command, error) {
		if len(args) < 2 || args[1] != "DO" {
			return nil, arityError("Function definition must be in format: FN name DO")
		}
		return &FnDefCommand{Function: args[0]}, nil
	})

	r.Register(CALL, func(args []string) (execution.Command, error) {
		if len(args) == 0 {
			return nil, arityError("CALL requires a function name")
		}
		return &FnCallCommand{Function: args[0]}, nil
	})

	r.Register(ENDFN, func([]string) (execution.Command, error) {
		return &EndFnCommand{}, nil
	})

	r.Register(INPUT, func(args []string) (execution.Command, error) {
		if len(args) == 0 {
			return nil, arityError("INPUT requires a variable name")
		}
		return &InputCommand{Variable: args[0]}, nil
	})

	r.Register(LIBCALL, func(args []string) (execution.Command, error) {
		if len(args) == 0 {
			return nil, arityError("LIBCALL requires a library name")
		}
		return &LibCallCommand{Library: args[0]}, nil
	})
}

func arityError(message string) error {
	return errors.New(errors.ErrParse, message)
}
