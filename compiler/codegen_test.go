package compiler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/chazu/caxlang/vm"
)

// compileSource is a test helper lowering a single expression.
func compileSource(t *testing.T, input string) *vm.Program {
	t.Helper()
	exprs, err := ParseSource(input)
	if err != nil {
		t.Fatalf("ParseSource(%q): %v", input, err)
	}
	prog, err := Compile(exprs[0])
	if err != nil {
		t.Fatalf("Compile(%q): %v", input, err)
	}
	return prog
}

func TestCompileDisassembly(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"1 + 2", []string{
			"LoadConst R0 C0",
			"LoadConst R1 C1",
			"Add R0 R1",
		}},
		{"1 - 2 - 5", []string{
			"LoadConst R0 C0",
			"LoadConst R1 C1",
			"Sub R0 R1",
			"LoadConst R1 C2",
			"Sub R0 R1",
		}},
		{"-2", []string{
			"LoadConst R0 C0",
			"Neg R0 R0",
		}},
		{"!true", []string{
			"LoadConst R0 C0",
			"Not R0 R0",
		}},
		{"(1 + 2) * 3", []string{
			"LoadConst R0 C0",
			"LoadConst R1 C1",
			"Add R0 R1",
			"LoadConst R1 C2",
			"Mult R0 R1",
		}},
		{"1 < 2", []string{
			"LoadConst R0 C0",
			"LoadConst R1 C1",
			"Less R0 R1",
		}},
		{`"a" != "b"`, []string{
			"LoadConst R0 C0",
			"LoadConst R1 C1",
			"NotEqual R0 R1",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := compileSource(t, tt.input)
			got := prog.Disassemble()
			want := strings.Join(tt.want, "\n")
			if got != want {
				t.Errorf("disassembly mismatch:\ngot:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

// Identical literals share one constant-table slot.
func TestCompileConstantDedup(t *testing.T) {
	prog := compileSource(t, "1 + 1 + 1")
	if len(prog.Consts) != 1 {
		t.Fatalf("got %d constants, want 1: %v", len(prog.Consts), prog.Consts)
	}
	if !prog.Consts[0].Equal(vm.NumberValue(1)) {
		t.Errorf("constant 0 is %s, want 1", prog.Consts[0])
	}
}

func TestCompileConstantKinds(t *testing.T) {
	prog := compileSource(t, `"x" == nil == true == false`)
	want := []vm.Value{vm.StringValue("x"), vm.Nil, vm.True, vm.False}
	if len(prog.Consts) != len(want) {
		t.Fatalf("got %d constants, want %d", len(prog.Consts), len(want))
	}
	for i, v := range want {
		if !prog.Consts[i].Equal(v) {
			t.Errorf("constant %d is %s, want %s", i, prog.Consts[i], v)
		}
	}
}

// rightNested builds 1 + (1 + (1 + ...)) with n leaves. Under the fixed
// left-then-right emission order every left operand stays live while the
// nested right side evaluates, so the expression needs n registers.
func rightNested(n int) string {
	expr := "1"
	for i := 1; i < n; i++ {
		expr = "1 + (" + expr + ")"
	}
	return expr
}

func TestCompileRegisterExhaustion(t *testing.T) {
	// Eight simultaneously live values fit exactly.
	exprs, err := ParseSource(rightNested(vm.NumRegisters))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if _, err := Compile(exprs[0]); err != nil {
		t.Fatalf("compiling %d-deep nesting: %v", vm.NumRegisters, err)
	}

	// Nine do not; there is no spill path.
	exprs, err = ParseSource(rightNested(vm.NumRegisters + 1))
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	_, err = Compile(exprs[0])
	var exhausted *RegisterExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("got %v, want *RegisterExhaustedError", err)
	}
	if exhausted.Pressure != vm.NumRegisters+1 {
		t.Errorf("reported pressure %d, want %d", exhausted.Pressure, vm.NumRegisters+1)
	}
}

// Left-nested chains reuse the right-operand register, so arbitrary
// length stays within two registers.
func TestCompileLeftNestedChain(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("1")
	for i := 0; i < 30; i++ {
		sb.WriteString(" + 1")
	}
	prog := compileSource(t, sb.String())

	for _, c := range prog.Chunks {
		if c.Dst() > 1 || (c.Op() != vm.OpLoadConst && c.Src() > 1) {
			t.Fatalf("instruction %s uses a register above R1", c)
		}
	}
}

func TestRegisterPressure(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1", 1},
		{"-1", 1},
		{"(1)", 1},
		{"1 + 2", 2},
		{"1 + 2 + 3", 2},
		{"1 + (2 + 3)", 3},
		{"(1 + 2) * (3 + 4)", 3},
		{rightNested(5), 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			exprs, err := ParseSource(tt.input)
			if err != nil {
				t.Fatalf("ParseSource: %v", err)
			}
			if got := RegisterPressure(exprs[0]); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheckRejectsBoxedLiteral(t *testing.T) {
	boxed := &Literal{Kind: LitExpr, Boxed: &Literal{Kind: LitNumber, Number: 1}}

	var boxedErr *BoxedLiteralError
	if err := Check(boxed); !errors.As(err, &boxedErr) {
		t.Fatalf("Check: got %v, want *BoxedLiteralError", err)
	}
	if _, err := Compile(boxed); !errors.As(err, &boxedErr) {
		t.Fatalf("Compile: got %v, want *BoxedLiteralError", err)
	}
}

func TestCheckRejectsOperatorWithoutSemantics(t *testing.T) {
	one := func() *Literal { return &Literal{Kind: LitNumber, Number: 1} }

	// = lexes but has no defined binary semantics.
	bad := &Binary{
		Left:  one(),
		Op:    Token{Type: TokenEqual, Literal: "="},
		Right: one(),
	}
	var opErr *UnsupportedOperatorError
	if _, err := Compile(bad); !errors.As(err, &opErr) {
		t.Fatalf("got %v, want *UnsupportedOperatorError", err)
	}
	if opErr.Unary {
		t.Error("error reported unary, want binary")
	}

	badUnary := &Unary{
		Op:      Token{Type: TokenStar, Literal: "*"},
		Operand: one(),
	}
	if _, err := Compile(badUnary); !errors.As(err, &opErr) {
		t.Fatalf("got %v, want *UnsupportedOperatorError", err)
	}
	if !opErr.Unary {
		t.Error("error reported binary, want unary")
	}
}

// The constant table is indexed by a single operand byte.
func TestCompileTooManyConstants(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("0")
	for i := 1; i <= 256; i++ {
		fmt.Fprintf(&sb, " + %d", i)
	}
	exprs, err := ParseSource(sb.String())
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}

	_, err = Compile(exprs[0])
	var tooMany *TooManyConstantsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("got %v, want *TooManyConstantsError", err)
	}
}
