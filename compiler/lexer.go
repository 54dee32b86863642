package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Lexer: Tokenizer for caxlang source text
// ---------------------------------------------------------------------------

// LexErrorKind identifies a class of lexing failure.
type LexErrorKind int

const (
	// InvalidInteger reports a numeric literal that cannot be converted
	// to a 64-bit float (overflow or a malformed numeral).
	InvalidInteger LexErrorKind = iota

	// NonAsciiCharacter is the fallback kind: any byte that matches no
	// token class, including raw control characters inside strings.
	NonAsciiCharacter
)

func (k LexErrorKind) String() string {
	switch k {
	case InvalidInteger:
		return "InvalidInteger"
	case NonAsciiCharacter:
		return "NonAsciiCharacter"
	}
	return fmt.Sprintf("LexErrorKind(%d)", int(k))
}

// LexError reports a lexing failure with its source position.
type LexError struct {
	Kind   LexErrorKind
	Reason string
	Pos    Position
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s: %s", e.Pos.Line, e.Pos.Column, e.Kind, e.Reason)
}

// Lexer tokenizes caxlang source text. The token sequence is lazy (one
// token materializes per Next call), finite, and restartable: a fresh
// lexer over the same input yields the same sequence.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current character; 0 means EOF
	line    int  // current line (1-based)
	col     int  // current column (1-based)
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar reads the next byte. The language is ASCII-only, so the lexer
// scans bytes rather than runes; anything >= 0x80 is rejected when matched.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = l.readPos
	} else {
		l.ch = l.input[l.readPos]
		l.pos = l.readPos
		l.readPos++

		if l.ch == '\n' {
			l.line++
			l.col = 0
		} else {
			l.col++
		}
	}
}

// peekChar returns the next byte without consuming it.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// position returns the current position.
func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

// failf returns a LexError at the given position.
func (l *Lexer) failf(kind LexErrorKind, pos Position, format string, args ...interface{}) *LexError {
	return &LexError{Kind: kind, Reason: fmt.Sprintf(format, args...), Pos: pos}
}

// Next returns the next token, or a LexError if the input cannot be
// tokenized at the current position. After EOF it keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	pos := l.position()

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Pos: pos}, nil

	case l.ch == '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}, nil

	case l.ch == ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}, nil

	case l.ch == '+':
		l.readChar()
		return Token{Type: TokenPlus, Literal: "+", Pos: pos}, nil

	case l.ch == '-':
		l.readChar()
		return Token{Type: TokenMinus, Literal: "-", Pos: pos}, nil

	case l.ch == '*':
		l.readChar()
		return Token{Type: TokenStar, Literal: "*", Pos: pos}, nil

	case l.ch == '/':
		l.readChar()
		return Token{Type: TokenSlash, Literal: "/", Pos: pos}, nil

	case l.ch == '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TokenEqualEqual, Literal: "==", Pos: pos}, nil
		}
		return Token{Type: TokenEqual, Literal: "=", Pos: pos}, nil

	case l.ch == '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TokenNotEqual, Literal: "!=", Pos: pos}, nil
		}
		return Token{Type: TokenBang, Literal: "!", Pos: pos}, nil

	case l.ch == '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TokenLessEqual, Literal: "<=", Pos: pos}, nil
		}
		return Token{Type: TokenLess, Literal: "<", Pos: pos}, nil

	case l.ch == '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TokenGreaterEqual, Literal: ">=", Pos: pos}, nil
		}
		return Token{Type: TokenGreater, Literal: ">", Pos: pos}, nil

	case l.ch == '"':
		return l.readString(pos)

	case isDigit(l.ch):
		return l.readNumber(pos)

	case isLetter(l.ch):
		return l.readIdentifier(pos), nil

	default:
		ch := l.ch
		l.readChar()
		return Token{}, l.failf(NonAsciiCharacter, pos, "unexpected byte 0x%02X", ch)
	}
}

// skipWhitespace skips spaces, tabs and newlines.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readNumber reads a decimal integer or float literal, with an optional
// fraction and exponent, and converts it to a 64-bit float.
func (l *Lexer) readNumber(pos Position) (Token, error) {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume .
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return Token{}, l.failf(InvalidInteger, pos, "malformed exponent in %q", l.input[start:l.pos])
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	raw := l.input[start:l.pos]
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return Token{}, l.failf(InvalidInteger, pos, "overflow")
		}
		return Token{}, l.failf(InvalidInteger, pos, "cannot parse %q", raw)
	}

	return Token{Type: TokenNumber, Literal: raw, Number: n, Pos: pos}, nil
}

// readString reads a double-quoted string literal, decoding escape
// sequences. Raw control characters and non-ASCII bytes are rejected.
func (l *Lexer) readString(pos Position) (Token, error) {
	l.readChar() // consume opening "

	var sb strings.Builder
	for {
		switch {
		case l.ch == 0:
			return Token{}, l.failf(NonAsciiCharacter, pos, "unterminated string")

		case l.ch == '"':
			l.readChar() // consume closing "
			return Token{Type: TokenString, Literal: sb.String(), Pos: pos}, nil

		case l.ch == '\\':
			l.readChar()
			decoded, err := l.readEscape(pos)
			if err != nil {
				return Token{}, err
			}
			sb.WriteRune(decoded)

		case l.ch < 0x20:
			return Token{}, l.failf(NonAsciiCharacter, l.position(), "raw control character 0x%02X in string", l.ch)

		case l.ch >= 0x80:
			return Token{}, l.failf(NonAsciiCharacter, l.position(), "non-ASCII byte 0x%02X in string", l.ch)

		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readEscape decodes one escape sequence. The backslash has already been
// consumed; l.ch is the escape letter.
func (l *Lexer) readEscape(strPos Position) (rune, error) {
	switch l.ch {
	case '"':
		l.readChar()
		return '"', nil
	case '\\':
		l.readChar()
		return '\\', nil
	case '/':
		l.readChar()
		return '/', nil
	case 'b':
		l.readChar()
		return '\b', nil
	case 'f':
		l.readChar()
		return '\f', nil
	case 'n':
		l.readChar()
		return '\n', nil
	case 'r':
		l.readChar()
		return '\r', nil
	case 't':
		l.readChar()
		return '\t', nil
	case 'u':
		l.readChar()
		var code rune
		for i := 0; i < 4; i++ {
			d, ok := hexDigitValue(l.ch)
			if !ok {
				return 0, l.failf(NonAsciiCharacter, l.position(), "malformed \\u escape")
			}
			code = code<<4 | rune(d)
			l.readChar()
		}
		return code, nil
	default:
		return 0, l.failf(NonAsciiCharacter, l.position(), "unknown escape '\\%c'", l.ch)
	}
}

// readIdentifier reads an identifier or reserved word.
func (l *Lexer) readIdentifier(pos Position) Token {
	start := l.pos

	for isLetter(l.ch) {
		l.readChar()
	}

	literal := l.input[start:l.pos]
	if typ, ok := reservedWords[literal]; ok {
		return Token{Type: typ, Literal: literal, Pos: pos}
	}
	return Token{Type: TokenIdent, Literal: literal, Pos: pos}
}

// Helper functions

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func hexDigitValue(ch byte) (byte, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

// Tokenize returns all tokens from the input, including the trailing EOF
// token, or the first lexing failure.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}
