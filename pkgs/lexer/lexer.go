package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aledsdavies/cereal/internal/invariant"
	"github.com/aledsdavies/cereal/pkgs/errors"
)

// ASCII character lookup tables for fast classification
var (
	isWhitespace [128]bool // Only ASCII range, newline excluded
	isLetter     [128]bool
	isIdentPart  [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isIdentPart[i] = isLetter[i] || ('0' <= ch && ch <= '9') || ch == '_'
	}
}

// Lexer turns script text into tokens
type Lexer struct {
	input    string // Complete input
	position int    // Byte offset of ch
	readPos  int    // Byte offset of the character after ch
	ch       rune   // Current rune under examination
	line     int    // Line of ch
	column   int    // Column of ch

	lineStart bool      // Only whitespace seen since the last newline
	emitted   int       // Tokens produced so far
	lastType  TokenType // Type of the last produced token
}

// New creates a new Lexer for input
func New(input string) *Lexer {
	l := &Lexer{
		input:     input,
		line:      1,
		column:    0, // Will be incremented to 1 by initial readChar()
		lineStart: true,
	}
	l.readChar()
	return l
}

// Tokenize lexes input in one call
func Tokenize(input string) ([]Token, error) {
	return New(input).Tokenize()
}

// Tokenize returns every token in the input. The first lex error aborts the
// whole run; no partial token list is returned.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := []Token{}
	for {
		before := l.position
		tok, ok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		invariant.Invariant(l.position > before, "lexer must advance (stuck at offset %d)", before)
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token. ok is false at end of input.
func (l *Lexer) NextToken() (tok Token, ok bool, err error) {
	for {
		l.skipWhitespace()
		if l.atEOF() {
			return Token{}, false, nil
		}

		start := l.position
		startLine, startColumn := l.line, l.column

		switch {
		case l.ch == '\n':
			l.readChar()
			l.lineStart = true
			// Blank lines and leading newlines collapse away
			if l.emitted == 0 || l.lastType == EOL {
				continue
			}
			return l.emit(EOL, "\n", start, startLine, startColumn), true, nil

		case l.ch == '/' && l.peekChar() == '/' && l.afterWhitespace():
			l.skipComment()
			continue

		case l.ch == '-' && l.peekChar() == '-' && l.lineStart:
			l.skipComment()
			continue

		case l.ch == '"':
			value, err := l.readString(startLine, startColumn)
			if err != nil {
				return Token{}, false, err
			}
			return l.emit(STRING, value, start, startLine, startColumn), true, nil

		case l.ch == '$':
			l.readChar()
			value := "$" + l.readIdent()
			return l.emit(VARIABLE, value, start, startLine, startColumn), true, nil

		case l.ch == '!':
			l.readChar()
			return l.emit(MACRO, "!", start, startLine, startColumn), true, nil

		case isLetterRune(l.ch):
			word := l.readIdent()
			if IsKeyword(word) {
				return l.emit(COMMAND, word, start, startLine, startColumn), true, nil
			}
			return l.emit(IDENTIFIER, word, start, startLine, startColumn), true, nil

		default:
			ch := l.ch
			l.readChar()
			return l.emit(SYMBOL, string(ch), start, startLine, startColumn), true, nil
		}
	}
}

// emit records a token ending at the current position
func (l *Lexer) emit(tokenType TokenType, value string, start, line, column int) Token {
	l.emitted++
	l.lastType = tokenType
	if tokenType != EOL {
		l.lineStart = false
	}
	return Token{
		Type:   tokenType,
		Value:  value,
		Line:   line,
		Column: column,
		Offset: start,
		End:    l.position,
	}
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	// Moving past a newline starts the next line
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	l.position = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		var size int
		l.ch, size = utf8.DecodeRuneInString(l.input[l.readPos:])
		if l.ch == utf8.RuneError && size <= 1 {
			l.ch = rune(l.input[l.readPos])
			size = 1
		}
		l.readPos += size
	}
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return ch
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// afterWhitespace reports whether ch opens a new word
func (l *Lexer) afterWhitespace() bool {
	if l.position == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(l.input[:l.position])
	return unicode.IsSpace(prev)
}

// skipWhitespace skips whitespace characters except newlines (using fast ASCII lookups)
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && l.ch != '\n' {
		if l.ch < 128 && isWhitespace[l.ch] {
			l.readChar()
		} else if l.ch >= 128 && unicode.IsSpace(l.ch) {
			l.readChar()
		} else {
			break
		}
	}
}

// skipComment consumes everything up to (not including) the newline
func (l *Lexer) skipComment() {
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
}

// readIdent reads a run of letters, digits and underscores
func (l *Lexer) readIdent() string {
	start := l.position
	for !l.atEOF() && isIdentRune(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString reads a double quoted literal, resolving escapes
func (l *Lexer) readString(line, column int) (string, error) {
	var value strings.Builder
	l.readChar() // Skip opening quote

	for !l.atEOF() {
		switch l.ch {
		case '"':
			l.readChar() // Skip closing quote
			return value.String(), nil

		case '\\':
			escLine, escColumn := l.line, l.column
			l.readChar()
			if l.atEOF() {
				return "", errors.New(errors.ErrLex, "Unterminated string literal").WithPosition(line, column)
			}
			switch l.ch {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case 'r':
				value.WriteByte('\r')
			case '"':
				value.WriteByte('"')
			case '\\':
				value.WriteByte('\\')
			default:
				return "", errors.Newf(errors.ErrLex, "Invalid escape sequence: \\%c", l.ch).WithPosition(escLine, escColumn)
			}
			l.readChar()

		default:
			value.WriteRune(l.ch)
			l.readChar()
		}
	}

	return "", errors.New(errors.ErrLex, "Unterminated string literal").WithPosition(line, column)
}

func isLetterRune(ch rune) bool {
	if ch < 128 {
		return isLetter[ch]
	}
	return unicode.IsLetter(ch)
}

func isIdentRune(ch rune) bool {
	if ch < 128 {
		return isIdentPart[ch]
	}
	return unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
