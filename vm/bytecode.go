package vm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode represents a single bytecode instruction.
type Opcode byte

const (
	// OpLoadConst copies constant-table entry src into register dst.
	// It is the only instruction whose second operand is not a register:
	// literal payloads (floats, strings) do not fit in an operand byte,
	// so they live in the constant table.
	OpLoadConst Opcode = iota

	// Arithmetic. Two-operand form: dst is both destination and left
	// operand, src is the right operand.
	OpAdd
	OpSub
	OpMult
	OpDiv

	// Unary. The compiler emits dst == src; the result overwrites dst.
	OpNeg
	OpNot

	// Comparison and equality. Result is a Bool in dst.
	OpLess
	OpGreater
	OpLessEq
	OpGreaterEq
	OpEqual
	OpNotEqual
)

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Mnemonic string
	ConstSrc bool // second operand names a constant-table slot, not a register
}

// opcodeTable maps opcodes to their metadata.
var opcodeTable = map[Opcode]OpcodeInfo{
	OpLoadConst: {"LoadConst", true},
	OpAdd:       {"Add", false},
	OpSub:       {"Sub", false},
	OpMult:      {"Mult", false},
	OpDiv:       {"Div", false},
	OpNeg:       {"Neg", false},
	OpNot:       {"Not", false},
	OpLess:      {"Less", false},
	OpGreater:   {"Greater", false},
	OpLessEq:    {"LessEq", false},
	OpGreaterEq: {"GreaterEq", false},
	OpEqual:     {"Equal", false},
	OpNotEqual:  {"NotEqual", false},
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Mnemonic returns the human-readable name for an opcode.
func (op Opcode) Mnemonic() string {
	if info, ok := opcodeTable[op]; ok {
		return info.Mnemonic
	}
	return fmt.Sprintf("Unknown(0x%02X)", byte(op))
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Mnemonic()
}

// NumRegisters is the size of the machine's register file. There is no
// stack and no spill area: compilation fails rather than alias registers.
const NumRegisters = 8

// ---------------------------------------------------------------------------
// Chunk: one fixed-width instruction
// ---------------------------------------------------------------------------

// Chunk is one 3-byte instruction: an opcode byte and two operand bytes.
// Operand 0 is the destination register (and, for binary operations, the
// left operand); operand 1 is the right operand.
type Chunk struct {
	Bytes [3]byte
}

// NewChunk creates a chunk from an opcode and two operand bytes.
func NewChunk(op Opcode, dst, src byte) Chunk {
	return Chunk{Bytes: [3]byte{byte(op), dst, src}}
}

// Op returns the opcode byte.
func (c Chunk) Op() Opcode { return Opcode(c.Bytes[0]) }

// Dst returns the destination-register operand.
func (c Chunk) Dst() byte { return c.Bytes[1] }

// Src returns the source operand (register index, or constant-table
// index for LoadConst).
func (c Chunk) Src() byte { return c.Bytes[2] }

// Disassemble renders the chunk as "<Mnemonic> <DstReg> <SrcReg>", e.g.
// "Add R1 R2". It reads only the raw bytes and never touches execution
// state. LoadConst renders its constant operand as C<n>.
func (c Chunk) Disassemble() string {
	op := c.Op()
	src := fmt.Sprintf("R%d", c.Src())
	if info, ok := opcodeTable[op]; ok && info.ConstSrc {
		src = fmt.Sprintf("C%d", c.Src())
	}
	return fmt.Sprintf("%s R%d %s", op.Mnemonic(), c.Dst(), src)
}

func (c Chunk) String() string {
	return c.Disassemble()
}

// Disassemble renders a chunk sequence, one instruction per line.
func Disassemble(chunks []Chunk) string {
	var sb strings.Builder
	for i, c := range chunks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(c.Disassemble())
	}
	return sb.String()
}

// Program is a compiled unit: an ordered chunk sequence and the constant
// table its LoadConst instructions index into. Chunk order is execution
// order; there are no jump or branch instructions.
type Program struct {
	Chunks []Chunk
	Consts []Value
}

// Disassemble renders the program's instructions.
func (p *Program) Disassemble() string {
	return Disassemble(p.Chunks)
}
