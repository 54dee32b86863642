package compiler

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Semantic checks: pre-codegen validation and register-pressure analysis
// ---------------------------------------------------------------------------

// BoxedLiteralError reports a Literal node that still boxes an
// expression. The parser never produces one; encountering it means a
// programmatically built tree violated the AST invariant.
type BoxedLiteralError struct {
	Span Span
}

func (e *BoxedLiteralError) Error() string {
	return fmt.Sprintf("line %d: literal is of type Expr", e.Span.Start.Line)
}

// UnsupportedOperatorError reports an operator token with no defined
// semantics in the position it appears.
type UnsupportedOperatorError struct {
	Op    Token
	Unary bool
}

func (e *UnsupportedOperatorError) Error() string {
	if e.Unary {
		return fmt.Sprintf("line %d: no unary semantics for operator %s", e.Op.Pos.Line, e.Op)
	}
	return fmt.Sprintf("line %d: no binary semantics for operator %s", e.Op.Pos.Line, e.Op)
}

// unaryOps are the operators with defined prefix semantics.
var unaryOps = map[TokenType]bool{
	TokenMinus: true,
	TokenBang:  true,
}

// binaryOps are the operators with defined infix semantics.
var binaryOps = map[TokenType]bool{
	TokenPlus:         true,
	TokenMinus:        true,
	TokenStar:         true,
	TokenSlash:        true,
	TokenLess:         true,
	TokenGreater:      true,
	TokenLessEqual:    true,
	TokenGreaterEqual: true,
	TokenEqualEqual:   true,
	TokenNotEqual:     true,
}

// Check validates an expression tree before code generation: no boxed
// literals, every operator in a position it has semantics for. Trees
// built by the parser always pass; the check guards programmatically
// constructed ones.
func Check(expr Expr) error {
	switch e := expr.(type) {
	case *Literal:
		if e.Kind == LitExpr {
			return &BoxedLiteralError{Span: e.SpanVal}
		}
		return nil
	case *Grouping:
		return Check(e.Inner)
	case *Unary:
		if !unaryOps[e.Op.Type] {
			return &UnsupportedOperatorError{Op: e.Op, Unary: true}
		}
		return Check(e.Operand)
	case *Binary:
		if !binaryOps[e.Op.Type] {
			return &UnsupportedOperatorError{Op: e.Op}
		}
		if err := Check(e.Left); err != nil {
			return err
		}
		return Check(e.Right)
	default:
		return fmt.Errorf("compiler: unknown expression node %T", expr)
	}
}

// RegisterPressure returns the high-water mark of simultaneously live
// registers needed to evaluate expr under the compiler's fixed emission
// order: left subtree first, its result held live while the right
// subtree evaluates. A result above vm.NumRegisters means compilation
// must fail; there is no spill path.
func RegisterPressure(expr Expr) int {
	switch e := expr.(type) {
	case *Grouping:
		return RegisterPressure(e.Inner)
	case *Unary:
		return RegisterPressure(e.Operand)
	case *Binary:
		left := RegisterPressure(e.Left)
		right := 1 + RegisterPressure(e.Right)
		if left > right {
			return left
		}
		return right
	default:
		return 1
	}
}
