package compiler

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// AST: Abstract Syntax Tree for caxlang expressions
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	node() // marker method
}

// Expr is the interface for expression nodes. Each node exclusively owns
// its children; trees are acyclic and never shared between expressions.
type Expr interface {
	Node
	expr() // marker method

	// String returns the display form of the expression.
	String() string
}

// LiteralKind identifies the payload of a Literal node.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitTrue
	LitFalse
	LitNil

	// LitExpr is a boxed expression. The parser never constructs it;
	// a Literal of this kind reaching evaluation is an internal
	// invariant violation, reported as a distinguished error value.
	LitExpr
)

func (k LiteralKind) String() string {
	switch k {
	case LitNumber:
		return "Number"
	case LitString:
		return "String"
	case LitTrue:
		return "True"
	case LitFalse:
		return "False"
	case LitNil:
		return "Nil"
	case LitExpr:
		return "Expr"
	}
	return fmt.Sprintf("LiteralKind(%d)", int(k))
}

// Literal represents a literal expression.
type Literal struct {
	SpanVal Span
	Kind    LiteralKind
	Number  float64 // set for LitNumber
	Str     string  // set for LitString
	Boxed   Expr    // set only for LitExpr
}

func (n *Literal) Span() Span { return n.SpanVal }
func (n *Literal) node()      {}
func (n *Literal) expr()      {}

func (n *Literal) String() string {
	switch n.Kind {
	case LitNumber:
		return strconv.FormatFloat(n.Number, 'g', -1, 64)
	case LitString:
		return strconv.Quote(n.Str)
	case LitTrue:
		return "true"
	case LitFalse:
		return "false"
	case LitNil:
		return "nil"
	case LitExpr:
		return fmt.Sprintf("Expr(%s)", n.Boxed)
	}
	return fmt.Sprintf("Literal(%d)", int(n.Kind))
}

// Grouping represents a parenthesized expression.
type Grouping struct {
	SpanVal Span
	Inner   Expr
}

func (n *Grouping) Span() Span     { return n.SpanVal }
func (n *Grouping) node()          {}
func (n *Grouping) expr()          {}
func (n *Grouping) String() string { return "(" + n.Inner.String() + ")" }

// Unary represents a prefix operator expression (-x, !x).
type Unary struct {
	SpanVal Span
	Op      Token
	Operand Expr
}

func (n *Unary) Span() Span     { return n.SpanVal }
func (n *Unary) node()          {}
func (n *Unary) expr()          {}
func (n *Unary) String() string { return n.Op.Literal + n.Operand.String() }

// Binary represents an infix operator expression (a + b).
type Binary struct {
	SpanVal Span
	Left    Expr
	Op      Token
	Right   Expr
}

func (n *Binary) Span() Span { return n.SpanVal }
func (n *Binary) node()      {}
func (n *Binary) expr()      {}

func (n *Binary) String() string {
	return fmt.Sprintf("%s %s %s", n.Left, n.Op.Literal, n.Right)
}

// MakeSpan creates a span from start and end positions.
func MakeSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}
