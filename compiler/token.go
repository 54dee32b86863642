package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the caxlang lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Literals
	TokenNumber // 42, 3.14, 1.5e10
	TokenString // "hello"
	TokenIdent  // foo, Bar

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenStar  // *
	TokenSlash // /

	// Comparison and equality
	TokenEqual        // =
	TokenBang         // !
	TokenNotEqual     // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=
	TokenEqualEqual   // ==

	// Grouping
	TokenLParen // (
	TokenRParen // )

	// Reserved identifiers
	TokenTrue
	TokenFalse
	TokenNil
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenNumber:       "NUMBER",
	TokenString:       "STRING",
	TokenIdent:        "IDENTIFIER",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenEqual:        "=",
	TokenBang:         "!",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenEqualEqual:   "==",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenNil:          "nil",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Token represents a lexical token. Tokens are immutable once produced.
type Token struct {
	Type    TokenType
	Literal string  // decoded text for literals and identifiers
	Number  float64 // parsed value, set only for TokenNumber
	Pos     Position
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenNumber, TokenString, TokenIdent:
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	default:
		return t.Type.String()
	}
}

// Reserved words mapped to their token types.
var reservedWords = map[string]TokenType{
	"true":  TokenTrue,
	"false": TokenFalse,
	"nil":   TokenNil,
}
