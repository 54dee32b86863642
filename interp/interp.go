// Package interp is the tree-walking execution path: it evaluates
// expression trees directly to runtime values, with no intermediate
// form. The compiled path (compiler + vm) consumes the same trees and
// must agree with it on every defined operation.
package interp

import (
	"fmt"

	"github.com/chazu/caxlang/compiler"
)

// Eval evaluates a single expression tree to a runtime value by
// post-order recursive traversal. The tree is read, never mutated;
// every failure is a typed error, never a panic.
func Eval(expr compiler.Expr) (RuntimeVal, error) {
	switch e := expr.(type) {
	case *compiler.Literal:
		return evalLiteral(e)

	case *compiler.Grouping:
		return Eval(e.Inner)

	case *compiler.Unary:
		return evalUnary(e)

	case *compiler.Binary:
		return evalBinary(e)

	default:
		return Nil, fmt.Errorf("interp: unknown expression node %T", expr)
	}
}

// EvalAll evaluates each top-level expression in order, stopping at the
// first error.
func EvalAll(exprs []compiler.Expr) ([]RuntimeVal, error) {
	vals := make([]RuntimeVal, 0, len(exprs))
	for _, expr := range exprs {
		v, err := Eval(expr)
		if err != nil {
			return vals, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// EvalSource lexes, parses and evaluates source text holding a single
// top-level expression.
func EvalSource(input string) (RuntimeVal, error) {
	exprs, err := compiler.ParseSource(input)
	if err != nil {
		return Nil, err
	}
	return Eval(exprs[0])
}

func evalLiteral(lit *compiler.Literal) (RuntimeVal, error) {
	switch lit.Kind {
	case compiler.LitNumber:
		return NumberVal(lit.Number), nil
	case compiler.LitString:
		return StringVal(lit.Str), nil
	case compiler.LitTrue:
		return True, nil
	case compiler.LitFalse:
		return False, nil
	case compiler.LitNil:
		return Nil, nil
	case compiler.LitExpr:
		// Unreachable with a correct parser.
		return Nil, &LiteralIsExprError{}
	}
	return Nil, fmt.Errorf("interp: unknown literal kind %d", int(lit.Kind))
}

func evalUnary(e *compiler.Unary) (RuntimeVal, error) {
	operand, err := Eval(e.Operand)
	if err != nil {
		return Nil, err
	}

	switch e.Op.Type {
	case compiler.TokenMinus:
		if !operand.IsNumber() {
			return Nil, &UnaryOperatorOnNonNumberError{Op: e.Op, Operand: operand}
		}
		return NumberVal(-operand.Num), nil

	case compiler.TokenBang:
		if operand.Kind != KindBool {
			return Nil, &InvalidUnaryOperatorError{Op: e.Op, Operand: operand}
		}
		return BoolVal(!operand.Flag), nil

	default:
		return Nil, &InvalidUnaryOperatorError{Op: e.Op, Operand: operand}
	}
}

func evalBinary(e *compiler.Binary) (RuntimeVal, error) {
	left, err := Eval(e.Left)
	if err != nil {
		return Nil, err
	}
	right, err := Eval(e.Right)
	if err != nil {
		return Nil, err
	}

	switch e.Op.Type {
	case compiler.TokenPlus, compiler.TokenMinus, compiler.TokenStar, compiler.TokenSlash:
		if !left.IsNumber() || !right.IsNumber() {
			return Nil, &BinaryOperatorOnNonNumberError{Op: e.Op, Left: left, Right: right}
		}
		switch e.Op.Type {
		case compiler.TokenPlus:
			return NumberVal(left.Num + right.Num), nil
		case compiler.TokenMinus:
			return NumberVal(left.Num - right.Num), nil
		case compiler.TokenStar:
			return NumberVal(left.Num * right.Num), nil
		default:
			return NumberVal(left.Num / right.Num), nil
		}

	case compiler.TokenLess, compiler.TokenGreater, compiler.TokenLessEqual, compiler.TokenGreaterEqual:
		if !left.IsNumber() || !right.IsNumber() {
			return Nil, &BinaryOperatorOnNonNumberError{Op: e.Op, Left: left, Right: right}
		}
		switch e.Op.Type {
		case compiler.TokenLess:
			return BoolVal(left.Num < right.Num), nil
		case compiler.TokenGreater:
			return BoolVal(left.Num > right.Num), nil
		case compiler.TokenLessEqual:
			return BoolVal(left.Num <= right.Num), nil
		default:
			return BoolVal(left.Num >= right.Num), nil
		}

	case compiler.TokenEqualEqual:
		return BoolVal(left.Equal(right)), nil

	case compiler.TokenNotEqual:
		return BoolVal(!left.Equal(right)), nil

	default:
		return Nil, &InvalidBinaryOperatorError{Op: e.Op, Left: left, Right: right}
	}
}
