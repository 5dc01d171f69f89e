// Package parser turns single script lines into executable commands.
package parser

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/aledsdavies/cereal/internal/suggest"
	"github.com/aledsdavies/cereal/pkgs/commands"
	"github.com/aledsdavies/cereal/pkgs/errors"
	"github.com/aledsdavies/cereal/pkgs/execution"
	"github.com/aledsdavies/cereal/pkgs/lexer"
)

// Parser converts lines to commands. It remembers the argument texts of the
// most recent line and counts every line it is given.
type Parser struct {
	registry *commands.Registry
	line     int
	lastArgs []string
}

// New creates a parser backed by registry, or by the built-in commands when nil
func New(registry *commands.Registry) *Parser {
	if registry == nil {
		registry = commands.NewDefaultRegistry()
	}
	return &Parser{registry: registry}
}

// Registry returns the registry commands are built from
func (p *Parser) Registry() *commands.Registry {
	return p.registry
}

// Line returns the number of lines parsed so far
func (p *Parser) Line() int {
	return p.line
}

// LastArgs returns the argument texts of the most recent non-blank line,
// including the command keyword (or !name for a macro)
func (p *Parser) LastArgs() []string {
	if len(p.lastArgs) == 0 {
		return nil
	}
	args := make([]string, len(p.lastArgs))
	copy(args, p.lastArgs)
	return args
}

// ParseLine parses one line. Blank and comment-only lines yield a nil command.
// A macro line yields a MULTI command.
func (p *Parser) ParseLine(text string) (execution.Command, error) {
	p.line++

	cmd, err := p.parse(text)
	if err != nil {
		return nil, atLine(err, p.line)
	}
	return cmd, nil
}

// parse is the shared entry point for user lines and lines synthesized by
// macro expansion. It does not advance the line counter.
func (p *Parser) parse(text string) (execution.Command, error) {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}

	for _, tok := range tokens {
		if tok.Type == lexer.EOL {
			return nil, errors.New(errors.ErrParse, "Expected a single line").WithPosition(tok.Line, tok.Column)
		}
	}

	if len(tokens) == 0 {
		return nil, nil
	}

	first := tokens[0]
	switch {
	case first.Type == lexer.MACRO:
		return p.parseMacro(tokens)

	case first.Type == lexer.COMMAND,
		first.Type == lexer.IDENTIFIER && p.registry.Has(first.Value):
		args := glue(tokens)
		p.lastArgs = args
		return p.registry.Create(args[0], args[1:])

	default:
		err := errors.Newf(errors.ErrParse, "Expected command or macro, got %s", first.Type).
			WithPosition(first.Line, first.Column)
		if first.Type == lexer.IDENTIFIER {
			if hint := suggest.Hint(first.Value, p.registry.Names()); hint != "" {
				err.WithHint(hint)
			}
		}
		return nil, err
	}
}

// parseMacro expands !name a b into MOV r0 "a", MOV r1 "b", LIBCALL name
func (p *Parser) parseMacro(tokens []lexer.Token) (execution.Command, error) {
	marker := tokens[0]
	if len(tokens) < 2 || (tokens[1].Type != lexer.IDENTIFIER && tokens[1].Type != lexer.COMMAND) {
		return nil, errors.New(errors.ErrParse, "Empty macro").WithPosition(marker.Line, marker.Column)
	}

	// The name runs up to the first whitespace
	nameEnd := 2
	for nameEnd < len(tokens) && tokens[nameEnd-1].Touches(tokens[nameEnd]) {
		nameEnd++
	}
	name := glue(tokens[1:nameEnd])[0]
	args := glue(tokens[nameEnd:])

	cmds := make([]execution.Command, 0, len(args)+1)
	for i, arg := range args {
		cmd, err := p.parse(fmt.Sprintf("MOV %s %s", execution.RegisterName(i), quote(arg)))
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}

	call, err := p.parse("LIBCALL " + name)
	if err != nil {
		return nil, err
	}
	cmds = append(cmds, call)

	p.lastArgs = append([]string{"!" + name}, args...)
	return commands.NewMulti(cmds...), nil
}

// glue joins tokens that touch in the source into single argument texts.
// String tokens contribute their unescaped contents.
func glue(tokens []lexer.Token) []string {
	args := []string{}
	var current strings.Builder
	for i, tok := range tokens {
		if i > 0 && !tokens[i-1].Touches(tok) {
			args = append(args, current.String())
			current.Reset()
		}
		current.WriteString(tok.Value)
	}
	if len(tokens) > 0 {
		args = append(args, current.String())
	}
	return args
}

var quoter = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// quote renders s as a string literal the lexer reads back unchanged
func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

// atLine stamps the parser's line number on err, keeping any column
func atLine(err error, line int) error {
	var scriptErr *errors.ScriptError
	if stderrors.As(err, &scriptErr) {
		scriptErr.Line = line
		return err
	}
	return errors.Wrap(errors.ErrParse, "Invalid line", err).WithLine(line)
}
