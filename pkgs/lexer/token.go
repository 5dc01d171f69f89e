package lexer

import (
	"fmt"
)

// TokenType represents the type of token in a cereal script
type TokenType int

const (
	COMMAND    TokenType = iota // DEF, MOV, PRINT, ...
	IDENTIFIER                  // names and bare words
	STRING                      // "hello" (value holds the unescaped contents)
	VARIABLE                    // $name (value keeps the leading $)
	MACRO                       // !
	SYMBOL                      // any other single character
	EOL                         // \n between lines of a multi-line buffer
)

// Pre-computed token name lookup for error messages and debugging
var tokenNames = [...]string{
	COMMAND:    "COMMAND",
	IDENTIFIER: "IDENTIFIER",
	STRING:     "STRING",
	VARIABLE:   "VARIABLE",
	MACRO:      "MACRO",
	SYMBOL:     "SYMBOL",
	EOL:        "EOL",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Keywords is the closed set of words lexed as COMMAND. Matching is case-sensitive.
var Keywords = map[string]bool{
	"DEF":     true,
	"MOV":     true,
	"EXEC":    true,
	"NPM":     true,
	"FN":      true,
	"CALL":    true,
	"ENDFN":   true,
	"INPUT":   true,
	"LIBCALL": true,
	"IF":      true,
	"ENDIF":   true,
	"EQ":      true,
	"NEQ":     true,
	"PRINT":   true,
	"ABORT":   true,
}

// IsKeyword reports whether word is lexed as a COMMAND token
func IsKeyword(word string) bool {
	return Keywords[word]
}

// Token is a single lexical unit
type Token struct {
	Type   TokenType
	Value  string
	Line   int // 1-based
	Column int // 1-based, in runes
	Offset int // byte offset of the first character in the lexed input
	End    int // byte offset just past the last character
}

// Position returns a formatted position string for error reporting
func (t Token) Position() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// Touches reports whether next starts exactly where t ends, with no
// whitespace between them.
func (t Token) Touches(next Token) bool {
	return t.End == next.Offset
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Value, t.Position())
}
