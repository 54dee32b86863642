package dist

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/caxlang/vm"
)

func testProgram() *vm.Program {
	return &vm.Program{
		Chunks: []vm.Chunk{
			vm.NewChunk(vm.OpLoadConst, 0, 0),
			vm.NewChunk(vm.OpLoadConst, 1, 1),
			vm.NewChunk(vm.OpAdd, 0, 1),
			vm.NewChunk(vm.OpLoadConst, 1, 2),
			vm.NewChunk(vm.OpEqual, 0, 1),
		},
		Consts: []vm.Value{
			vm.NumberValue(2),
			vm.NumberValue(3),
			vm.StringValue("five"),
		},
	}
}

func TestProgramRoundtrip(t *testing.T) {
	original := testProgram()

	data, err := MarshalProgram(original)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}

	decoded, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("roundtrip mismatch:\noriginal: %+v\ndecoded:  %+v", original, decoded)
	}
}

func TestProgramRoundtripAllKinds(t *testing.T) {
	original := &vm.Program{
		Chunks: []vm.Chunk{vm.NewChunk(vm.OpLoadConst, 0, 3)},
		Consts: []vm.Value{vm.Nil, vm.True, vm.False, vm.NumberValue(-1.5)},
	}

	data, err := MarshalProgram(original)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	decoded, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("roundtrip mismatch:\noriginal: %+v\ndecoded:  %+v", original, decoded)
	}
}

// Canonical encoding: the same program always serializes to the same
// bytes.
func TestMarshalDeterministic(t *testing.T) {
	first, err := MarshalProgram(testProgram())
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	second, err := MarshalProgram(testProgram())
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("encodings of the same program differ")
	}
}

func TestUnmarshalRejectsWrongVersion(t *testing.T) {
	wire := Program{Version: WireVersion + 1}
	data, err := cborEncMode.Marshal(&wire)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	_, err = UnmarshalProgram(data)
	if err == nil {
		t.Fatal("UnmarshalProgram accepted an unsupported version")
	}
	if !strings.Contains(err.Error(), "wire version") {
		t.Errorf("got %q, want wire version error", err)
	}
}

func TestUnmarshalRejectsUnknownConstantKind(t *testing.T) {
	wire := Program{
		Version: WireVersion,
		Consts:  []Constant{{Kind: 42}},
	}
	data, err := cborEncMode.Marshal(&wire)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	_, err = UnmarshalProgram(data)
	if err == nil {
		t.Fatal("UnmarshalProgram accepted an unknown constant kind")
	}
	if !strings.Contains(err.Error(), "unknown kind") {
		t.Errorf("got %q, want unknown kind error", err)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalProgram([]byte("not cbor at all")); err == nil {
		t.Fatal("UnmarshalProgram accepted garbage bytes")
	}
}

// A decoded program still executes and disassembles like the original.
func TestDecodedProgramExecutes(t *testing.T) {
	data, err := MarshalProgram(testProgram())
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	decoded, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram: %v", err)
	}

	if decoded.Disassemble() != testProgram().Disassemble() {
		t.Error("disassembly changed across the wire")
	}

	// (2 + 3) == "five" is false.
	result, err := vm.NewMachine(decoded).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Equal(vm.False) {
		t.Errorf("got %s, want false", result)
	}
}
