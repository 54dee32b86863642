// Package dist defines the wire format for compiled programs: a
// versioned, canonical-CBOR encoding of a chunk sequence and its
// constant table, so a program compiled once can be stored and executed
// later without re-compiling.
package dist

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/caxlang/vm"
)

// WireVersion is the current program wire-format version.
const WireVersion = 1

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dist: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Program is the wire form of a compiled program.
type Program struct {
	Version int        `cbor:"1,keyasint"`
	Chunks  [][3]byte  `cbor:"2,keyasint"`
	Consts  []Constant `cbor:"3,keyasint"`
}

// Constant is the wire form of one constant-table entry.
type Constant struct {
	Kind int     `cbor:"1,keyasint"`
	Num  float64 `cbor:"2,keyasint,omitempty"`
	Str  string  `cbor:"3,keyasint,omitempty"`
	Flag bool    `cbor:"4,keyasint,omitempty"`
}

// MarshalProgram serializes a compiled program to CBOR bytes.
func MarshalProgram(p *vm.Program) ([]byte, error) {
	wire := Program{
		Version: WireVersion,
		Chunks:  make([][3]byte, len(p.Chunks)),
		Consts:  make([]Constant, len(p.Consts)),
	}
	for i, c := range p.Chunks {
		wire.Chunks[i] = c.Bytes
	}
	for i, v := range p.Consts {
		wire.Consts[i] = Constant{Kind: int(v.Kind), Num: v.Num, Str: v.Str, Flag: v.Flag}
	}
	return cborEncMode.Marshal(&wire)
}

// UnmarshalProgram deserializes a compiled program from CBOR bytes,
// rejecting unknown wire versions and malformed constant kinds.
func UnmarshalProgram(data []byte) (*vm.Program, error) {
	var wire Program
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("dist: unmarshal program: %w", err)
	}
	if wire.Version != WireVersion {
		return nil, fmt.Errorf("dist: unsupported wire version %d (want %d)", wire.Version, WireVersion)
	}

	p := &vm.Program{
		Chunks: make([]vm.Chunk, len(wire.Chunks)),
		Consts: make([]vm.Value, len(wire.Consts)),
	}
	for i, b := range wire.Chunks {
		p.Chunks[i] = vm.Chunk{Bytes: b}
	}
	for i, c := range wire.Consts {
		kind := vm.ValueKind(c.Kind)
		switch kind {
		case vm.KindNil, vm.KindNumber, vm.KindString, vm.KindBool:
			p.Consts[i] = vm.Value{Kind: kind, Num: c.Num, Str: c.Str, Flag: c.Flag}
		default:
			return nil, fmt.Errorf("dist: constant %d has unknown kind %d", i, c.Kind)
		}
	}
	return p, nil
}
