package interp

import (
	"fmt"

	"github.com/chazu/caxlang/compiler"
)

// ---------------------------------------------------------------------------
// Evaluation errors
// ---------------------------------------------------------------------------
//
// Every failure path returns one of these typed errors carrying the
// operator and the offending value(s). Evaluation never panics on
// well-formed but semantically invalid input.

// LiteralIsExprError reports a Literal node that still boxes an
// expression reaching evaluation. The parser never produces one, so
// this marks an internal invariant violation; it is still a regular
// error value to keep the pipeline embeddable.
type LiteralIsExprError struct{}

func (e *LiteralIsExprError) Error() string {
	return "literal is of type Expr"
}

// InvalidUnaryOperatorError reports a unary operator with no defined
// semantics on the evaluated operand.
type InvalidUnaryOperatorError struct {
	Op      compiler.Token
	Operand RuntimeVal
}

func (e *InvalidUnaryOperatorError) Error() string {
	return fmt.Sprintf("unary operator %s not valid on %s", e.Op, e.Operand)
}

// UnaryOperatorOnNonNumberError reports numeric negation applied to a
// non-number operand.
type UnaryOperatorOnNonNumberError struct {
	Op      compiler.Token
	Operand RuntimeVal
}

func (e *UnaryOperatorOnNonNumberError) Error() string {
	return fmt.Sprintf("unary operator %s not supported on non-number %s", e.Op, e.Operand)
}

// InvalidBinaryOperatorError reports a binary operator with no defined
// semantics between the evaluated operands.
type InvalidBinaryOperatorError struct {
	Op    compiler.Token
	Left  RuntimeVal
	Right RuntimeVal
}

func (e *InvalidBinaryOperatorError) Error() string {
	return fmt.Sprintf("binary operator %s not valid between %s and %s", e.Op, e.Left, e.Right)
}

// BinaryOperatorOnNonNumberError reports an arithmetic or comparison
// operator applied to non-number operand(s).
type BinaryOperatorOnNonNumberError struct {
	Op    compiler.Token
	Left  RuntimeVal
	Right RuntimeVal
}

func (e *BinaryOperatorOnNonNumberError) Error() string {
	return fmt.Sprintf("binary operator %s not valid between non-numbers %s and %s", e.Op, e.Left, e.Right)
}
