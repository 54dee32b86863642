package compiler

import (
	"fmt"

	"github.com/chazu/caxlang/vm"
)

// ---------------------------------------------------------------------------
// Codegen: Compile AST to register-machine bytecode
// ---------------------------------------------------------------------------

// RegisterExhaustedError reports an expression whose evaluation needs
// more simultaneously live values than the machine has registers. The
// machine has no spill path, so compilation fails instead of silently
// aliasing two live values into one register.
type RegisterExhaustedError struct {
	Pressure int // simultaneously live registers required
}

func (e *RegisterExhaustedError) Error() string {
	return fmt.Sprintf("register file exhausted: expression needs %d live registers, machine has %d",
		e.Pressure, vm.NumRegisters)
}

// TooManyConstantsError reports a constant table that outgrew the
// single operand byte a LoadConst instruction can index with.
type TooManyConstantsError struct {
	Count int
}

func (e *TooManyConstantsError) Error() string {
	return fmt.Sprintf("constant table full: %d entries, LoadConst can index 256", e.Count)
}

// Compiler lowers expression trees to bytecode, performing register
// allocation: each subexpression result gets a fresh register, consumed
// by its parent and then released for reuse.
type Compiler struct {
	chunks   []vm.Chunk
	consts   []vm.Value
	constMap map[vm.Value]int // dedup constants
	inUse    [vm.NumRegisters]bool
	pressure int
}

// NewCompiler creates a new compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile lowers a single top-level expression into a program for the
// register machine. The expression tree is read, never mutated.
func (c *Compiler) Compile(expr Expr) (*vm.Program, error) {
	if err := Check(expr); err != nil {
		return nil, err
	}

	c.pressure = RegisterPressure(expr)
	if c.pressure > vm.NumRegisters {
		return nil, &RegisterExhaustedError{Pressure: c.pressure}
	}

	c.chunks = nil
	c.consts = nil
	c.constMap = make(map[vm.Value]int)
	c.inUse = [vm.NumRegisters]bool{}

	if _, err := c.compileExpr(expr); err != nil {
		return nil, err
	}

	return &vm.Program{Chunks: c.chunks, Consts: c.consts}, nil
}

// Compile is a convenience wrapper around a one-shot Compiler.
func Compile(expr Expr) (*vm.Program, error) {
	return NewCompiler().Compile(expr)
}

// compileExpr emits code evaluating expr and returns the register
// holding its result.
func (c *Compiler) compileExpr(expr Expr) (byte, error) {
	switch e := expr.(type) {
	case *Literal:
		return c.compileLiteral(e)

	case *Grouping:
		return c.compileExpr(e.Inner)

	case *Unary:
		r, err := c.compileExpr(e.Operand)
		if err != nil {
			return 0, err
		}
		switch e.Op.Type {
		case TokenMinus:
			c.emit(vm.OpNeg, r, r)
		case TokenBang:
			c.emit(vm.OpNot, r, r)
		default:
			return 0, &UnsupportedOperatorError{Op: e.Op, Unary: true}
		}
		return r, nil

	case *Binary:
		left, err := c.compileExpr(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := c.compileExpr(e.Right)
		if err != nil {
			return 0, err
		}
		op, ok := binaryOpcodes[e.Op.Type]
		if !ok {
			return 0, &UnsupportedOperatorError{Op: e.Op}
		}
		// Two-operand form: result overwrites the left register.
		c.emit(op, left, right)
		c.free(right)
		return left, nil

	default:
		return 0, fmt.Errorf("compiler: unknown expression node %T", expr)
	}
}

// binaryOpcodes maps operator tokens to machine opcodes.
var binaryOpcodes = map[TokenType]vm.Opcode{
	TokenPlus:         vm.OpAdd,
	TokenMinus:        vm.OpSub,
	TokenStar:         vm.OpMult,
	TokenSlash:        vm.OpDiv,
	TokenLess:         vm.OpLess,
	TokenGreater:      vm.OpGreater,
	TokenLessEqual:    vm.OpLessEq,
	TokenGreaterEqual: vm.OpGreaterEq,
	TokenEqualEqual:   vm.OpEqual,
	TokenNotEqual:     vm.OpNotEqual,
}

// compileLiteral loads a literal's constant-table entry into a fresh
// register.
func (c *Compiler) compileLiteral(lit *Literal) (byte, error) {
	var v vm.Value
	switch lit.Kind {
	case LitNumber:
		v = vm.NumberValue(lit.Number)
	case LitString:
		v = vm.StringValue(lit.Str)
	case LitTrue:
		v = vm.True
	case LitFalse:
		v = vm.False
	case LitNil:
		v = vm.Nil
	case LitExpr:
		// Check catches this; kept as a guard for direct callers.
		return 0, &BoxedLiteralError{Span: lit.SpanVal}
	}

	idx, err := c.addConst(v)
	if err != nil {
		return 0, err
	}
	dst, err := c.alloc()
	if err != nil {
		return 0, err
	}
	c.emit(vm.OpLoadConst, dst, idx)
	return dst, nil
}

// addConst interns a value in the constant table.
func (c *Compiler) addConst(v vm.Value) (byte, error) {
	if idx, ok := c.constMap[v]; ok {
		return byte(idx), nil
	}
	if len(c.consts) >= 256 {
		return 0, &TooManyConstantsError{Count: len(c.consts) + 1}
	}
	idx := len(c.consts)
	c.consts = append(c.consts, v)
	c.constMap[v] = idx
	return byte(idx), nil
}

// alloc claims the lowest free register.
func (c *Compiler) alloc() (byte, error) {
	for i := range c.inUse {
		if !c.inUse[i] {
			c.inUse[i] = true
			return byte(i), nil
		}
	}
	return 0, &RegisterExhaustedError{Pressure: c.pressure}
}

// free releases a register for reuse.
func (c *Compiler) free(r byte) {
	c.inUse[r] = false
}

// emit appends one instruction.
func (c *Compiler) emit(op vm.Opcode, dst, src byte) {
	c.chunks = append(c.chunks, vm.NewChunk(op, dst, src))
}
