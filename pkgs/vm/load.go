package vm

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/aledsdavies/cereal/pkgs/commands"
	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/lexer"
	"github.com/aledsdavies/cereal/pkgs/parser"
)

// pendingFunction is a FN whose ENDFN has not been seen yet
type pendingFunction struct {
	name string
	line int
	body []string
}

// LoadFile reads and loads a script file
func (v *VM) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrLoad, "Failed to read script "+path, err)
	}
	return v.LoadString(string(data))
}

// LoadString parses script and appends its commands to the program. FN ... ENDFN
// bodies are stored as raw lines and only parsed when called. Loading is
// all or nothing: after an error the VM is unchanged.
func (v *VM) LoadString(script string) error {
	p := parser.New(v.registry)

	var (
		program   []Instruction
		functions = make(map[string][]string)
		open      *pendingFunction
	)

	for i, raw := range strings.Split(script, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if open != nil {
			switch v.structuralKeyword(line) {
			case commands.FN:
				return errors.New(errors.ErrLoad, "Nested function definitions are not supported").WithLine(lineNo)
			case commands.ENDFN:
				functions[open.name] = open.body
				v.logger.Debug("load function", "name", open.name, "lines", len(open.body))
				open = nil
			case "":
				// Blank and comment-only lines are not kept
			default:
				open.body = append(open.body, line)
			}
			continue
		}

		cmd, err := p.ParseLine(line)
		if err != nil {
			return stampLine(err, lineNo)
		}
		if cmd == nil {
			continue
		}

		switch cmd.Name() {
		case commands.FN:
			open = &pendingFunction{name: p.LastArgs()[1], line: lineNo, body: []string{}}
		case commands.ENDFN:
			return errors.New(errors.ErrLoad, "ENDFN without matching FN").WithLine(lineNo)
		default:
			program = append(program, Instruction{Command: cmd, Args: p.LastArgs(), Line: lineNo})
		}
	}

	if open != nil {
		return errors.New(errors.ErrLoad, "Unclosed function definition").WithLine(open.line)
	}

	v.program = append(v.program, program...)
	for name, body := range functions {
		v.functions[name] = body
	}
	v.logger.Debug("load", "instructions", len(program), "functions", len(functions))
	return nil
}

// structuralKeyword classifies a raw body line. It returns FN or ENDFN for
// lines that open or close a function, "" for lines without tokens and "-"
// for everything else. Lines that fail to lex are body lines; their error
// surfaces when the function is called.
func (v *VM) structuralKeyword(line string) string {
	tokens, err := lexer.Tokenize(line)
	if err != nil {
		return "-"
	}
	if len(tokens) == 0 {
		return ""
	}

	first := tokens[0]
	if first.Type != lexer.COMMAND && !(first.Type == lexer.IDENTIFIER && v.registry.Has(first.Value)) {
		return "-"
	}
	if len(tokens) > 1 && first.Touches(tokens[1]) {
		return "-"
	}
	switch keyword := strings.ToUpper(first.Value); keyword {
	case commands.FN, commands.ENDFN:
		return keyword
	}
	return "-"
}

// stampLine replaces the parser's line count with the script line
func stampLine(err error, line int) error {
	var scriptErr *errors.ScriptError
	if stderrors.As(err, &scriptErr) {
		scriptErr.Line = line
	}
	return err
}
