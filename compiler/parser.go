package compiler

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Parser: Recursive descent parser for caxlang expressions
// ---------------------------------------------------------------------------
//
// Grammar, lowest to highest precedence; all binary rules associate left:
//
//	expression := equality
//	equality   := comparison (("!=" | "==") comparison)*
//	comparison := term (("<" | ">" | "<=" | ">=") term)*
//	term       := factor (("+" | "-") factor)*
//	factor     := unary (("*" | "/") unary)*
//	unary      := ("!" | "-") unary | primary
//	primary    := NUMBER | STRING | "true" | "false" | "nil" | "(" expression ")"

// ParseError reports a parse failure. Token is nil when the parser ran
// out of input. Parse failures are recoverable results, never aborts.
type ParseError struct {
	Token *Token
	Pos   Position
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("line %d: %s (at end of input)", e.Pos.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s (at %s)", e.Pos.Line, e.Msg, e.Token)
}

// Parser converts a token sequence into AST nodes. The position is
// monotonically non-decreasing; exactly one token of lookahead is used.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over a token slice, as produced by Tokenize
// (the trailing EOF token is optional).
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the full token sequence and returns the top-level
// expression trees. The current grammar yields exactly one per program,
// but trailing expressions are parsed rather than silently dropped.
func (p *Parser) Parse() ([]Expr, error) {
	var exprs []Expr
	for !p.atEnd() {
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	if len(exprs) == 0 {
		return nil, p.errorf("expected expression")
	}
	return exprs, nil
}

// ParseSource lexes and parses source text in one step.
func ParseSource(input string) ([]Expr, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// ---------------------------------------------------------------------------
// Grammar rules
// ---------------------------------------------------------------------------

func (p *Parser) expression() (Expr, error) {
	return p.equality()
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(TokenNotEqual, TokenEqualEqual) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &Binary{SpanVal: joinSpans(expr, right), Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = &Binary{SpanVal: joinSpans(expr, right), Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) term() (Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(TokenMinus, TokenPlus) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = &Binary{SpanVal: joinSpans(expr, right), Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) factor() (Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(TokenSlash, TokenStar) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &Binary{SpanVal: joinSpans(expr, right), Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// unary is right-recursive: prefix operators bind tighter than any
// binary operator.
func (p *Parser) unary() (Expr, error) {
	if p.match(TokenBang, TokenMinus) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		span := MakeSpan(op.Pos, operand.Span().End)
		return &Unary{SpanVal: span, Op: op, Operand: operand}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.errorf("expected expression")
	}

	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &Literal{SpanVal: tokenSpan(tok), Kind: LitNumber, Number: tok.Number}, nil

	case TokenString:
		p.advance()
		return &Literal{SpanVal: tokenSpan(tok), Kind: LitString, Str: tok.Literal}, nil

	case TokenTrue:
		p.advance()
		return &Literal{SpanVal: tokenSpan(tok), Kind: LitTrue}, nil

	case TokenFalse:
		p.advance()
		return &Literal{SpanVal: tokenSpan(tok), Kind: LitFalse}, nil

	case TokenNil:
		p.advance()
		return &Literal{SpanVal: tokenSpan(tok), Kind: LitNil}, nil

	case TokenLParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if !p.match(TokenRParen) {
			return nil, p.errorf("expected ')' after expression")
		}
		closing := p.previous()
		return &Grouping{SpanVal: MakeSpan(tok.Pos, closing.Pos), Inner: inner}, nil

	default:
		return nil, p.errorf("expected expression")
	}
}

// ---------------------------------------------------------------------------
// Token cursor
// ---------------------------------------------------------------------------

// atEnd reports whether the parser has consumed all meaningful tokens.
func (p *Parser) atEnd() bool {
	tok, ok := p.peek()
	return !ok || tok.Type == TokenEOF
}

// peek returns the current token without consuming it. The second result
// is false past the end of the slice.
func (p *Parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// check reports whether the current token has the given type.
func (p *Parser) check(t TokenType) bool {
	tok, ok := p.peek()
	return ok && tok.Type == t
}

// match consumes the current token if it has one of the given types.
func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// advance consumes and returns the current token, if any.
func (p *Parser) advance() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

// previous returns the most recently consumed token. It is only
// meaningful after a successful match or advance.
func (p *Parser) previous() Token {
	if p.pos == 0 || p.pos-1 >= len(p.tokens) {
		return Token{}
	}
	return p.tokens[p.pos-1]
}

// errorf builds a ParseError at the current token (or end of input).
func (p *Parser) errorf(format string, args ...interface{}) *ParseError {
	msg := fmt.Sprintf(format, args...)
	if tok, ok := p.peek(); ok && tok.Type != TokenEOF {
		return &ParseError{Token: &tok, Pos: tok.Pos, Msg: msg}
	}
	pos := Position{Line: 1, Column: 1}
	if len(p.tokens) > 0 {
		pos = p.tokens[len(p.tokens)-1].Pos
	}
	return &ParseError{Pos: pos, Msg: msg}
}

// tokenSpan returns the span covering a single token.
func tokenSpan(tok Token) Span {
	end := tok.Pos
	end.Offset += len(tok.Literal)
	end.Column += len(tok.Literal)
	return Span{Start: tok.Pos, End: end}
}

// joinSpans returns the span covering two adjacent expressions.
func joinSpans(left, right Expr) Span {
	return MakeSpan(left.Span().Start, right.Span().End)
}
