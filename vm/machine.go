package vm

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Machine: fixed-width register machine
// ---------------------------------------------------------------------------

// UnknownOpcodeError reports an opcode byte outside the defined set.
type UnknownOpcodeError struct {
	Byte byte
	IP   int // index of the offending chunk
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("vm: unknown opcode 0x%02X at instruction %d", e.Byte, e.IP)
}

// OperandOutOfRangeError reports an operand byte that names a register
// outside R0-R7, or a constant-table index past the table.
type OperandOutOfRangeError struct {
	Op      Opcode
	Operand byte
	IP      int
	Const   bool // operand indexed the constant table, not the register file
}

func (e *OperandOutOfRangeError) Error() string {
	if e.Const {
		return fmt.Sprintf("vm: %s at instruction %d: constant index %d out of range", e.Op, e.IP, e.Operand)
	}
	return fmt.Sprintf("vm: %s at instruction %d: register %d out of range (R0-R%d)", e.Op, e.IP, e.Operand, NumRegisters-1)
}

// InvalidOperandsError reports an operation applied to values of the
// wrong kind, carrying the opcode and the offending values.
type InvalidOperandsError struct {
	Op    Opcode
	Left  Value
	Right Value
	IP    int
}

func (e *InvalidOperandsError) Error() string {
	return fmt.Sprintf("vm: %s at instruction %d not valid on %s and %s", e.Op, e.IP, e.Left, e.Right)
}

// Machine holds a chunk sequence, its constant table and the 8-register
// file. A machine is private to one execution; no concurrent access is
// defined.
type Machine struct {
	chunks []Chunk
	consts []Value
	regs   [NumRegisters]Value
}

// NewMachine creates a machine for a compiled program.
func NewMachine(p *Program) *Machine {
	return &Machine{chunks: p.Chunks, consts: p.Consts}
}

// Register returns the current contents of register r.
func (m *Machine) Register(r int) Value {
	return m.regs[r]
}

// Disassemble renders the machine's chunk sequence. It depends only on
// the raw bytes, never on execution state.
func (m *Machine) Disassemble() string {
	return Disassemble(m.chunks)
}

// Run executes the chunk sequence with a sequential fetch-decode-execute
// loop: strictly linear, halting after the last chunk. The result is the
// destination register of the final instruction, or Nil for an empty
// program. Reordering chunks changes results and is never permitted.
func (m *Machine) Run() (Value, error) {
	if len(m.chunks) == 0 {
		return Nil, nil
	}

	var lastDst byte
	for ip, c := range m.chunks {
		op := c.Op()
		if !op.Valid() {
			return Nil, &UnknownOpcodeError{Byte: c.Bytes[0], IP: ip}
		}

		dst, src := c.Dst(), c.Src()
		if int(dst) >= NumRegisters {
			return Nil, &OperandOutOfRangeError{Op: op, Operand: dst, IP: ip}
		}

		if op == OpLoadConst {
			if int(src) >= len(m.consts) {
				return Nil, &OperandOutOfRangeError{Op: op, Operand: src, IP: ip, Const: true}
			}
			m.regs[dst] = m.consts[src]
			lastDst = dst
			continue
		}

		if int(src) >= NumRegisters {
			return Nil, &OperandOutOfRangeError{Op: op, Operand: src, IP: ip}
		}

		if err := m.execute(op, dst, src, ip); err != nil {
			return Nil, err
		}
		lastDst = dst
	}

	return m.regs[lastDst], nil
}

// execute performs one decoded instruction against the register file.
func (m *Machine) execute(op Opcode, dst, src byte, ip int) error {
	left, right := m.regs[dst], m.regs[src]

	switch op {
	case OpNeg:
		if !right.IsNumber() {
			return &InvalidOperandsError{Op: op, Left: right, Right: right, IP: ip}
		}
		m.regs[dst] = NumberValue(-right.Num)
		return nil

	case OpNot:
		if right.Kind != KindBool {
			return &InvalidOperandsError{Op: op, Left: right, Right: right, IP: ip}
		}
		m.regs[dst] = BoolValue(!right.Flag)
		return nil

	case OpEqual:
		m.regs[dst] = BoolValue(left.Equal(right))
		return nil

	case OpNotEqual:
		m.regs[dst] = BoolValue(!left.Equal(right))
		return nil
	}

	// Remaining opcodes operate on two numbers.
	if !left.IsNumber() || !right.IsNumber() {
		return &InvalidOperandsError{Op: op, Left: left, Right: right, IP: ip}
	}

	switch op {
	case OpAdd:
		m.regs[dst] = NumberValue(left.Num + right.Num)
	case OpSub:
		m.regs[dst] = NumberValue(left.Num - right.Num)
	case OpMult:
		m.regs[dst] = NumberValue(left.Num * right.Num)
	case OpDiv:
		m.regs[dst] = NumberValue(left.Num / right.Num)
	case OpLess:
		m.regs[dst] = BoolValue(left.Num < right.Num)
	case OpGreater:
		m.regs[dst] = BoolValue(left.Num > right.Num)
	case OpLessEq:
		m.regs[dst] = BoolValue(left.Num <= right.Num)
	case OpGreaterEq:
		m.regs[dst] = BoolValue(left.Num >= right.Num)
	}
	return nil
}
