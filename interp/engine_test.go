package interp

import (
	"testing"

	"github.com/chazu/caxlang/compiler"
	"github.com/chazu/caxlang/vm"
)

// Both execution paths consume the same trees and must agree on every
// defined operation.
func TestEnginesAgree(t *testing.T) {
	sources := []string{
		"1 + 2 + 4",
		"1 - 2 - 5",
		"2 * 3 + 4 * 5",
		"(1 + 2) * (3 + 4)",
		"100 / 8 / 5",
		"-(-2)",
		"-2 * -3",
		"!true",
		"!(1 < 2)",
		"1 < 2",
		"2 <= 2",
		"3 > 4",
		"4 >= 4",
		"1 + 1 == 2",
		"1 != 2",
		`"a" == "a"`,
		`"a" != "b"`,
		`1 == "1"`,
		"nil == nil",
		"true != false",
		"1 < 2 == 2 < 3",
		"3.5 + 0.5 * 2",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			exprs, err := compiler.ParseSource(src)
			if err != nil {
				t.Fatalf("ParseSource(%q): %v", src, err)
			}
			expr := exprs[0]

			walked, err := Eval(expr)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}

			prog, err := compiler.Compile(expr)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			executed, err := vm.NewMachine(prog).Run()
			if err != nil {
				t.Fatalf("Run: %v\ndisassembly:\n%s", err, prog.Disassemble())
			}

			if walked.String() != executed.String() {
				t.Errorf("engines disagree: interpreter %s, machine %s\ndisassembly:\n%s",
					walked, executed, prog.Disassemble())
			}
		})
	}
}

// Both paths reject the same ill-typed programs, each with its own error
// type.
func TestEnginesAgreeOnTypeErrors(t *testing.T) {
	sources := []string{
		`1 + "a"`,
		`"a" * "b"`,
		`-"a"`,
		"!1",
		"nil < 1",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			exprs, err := compiler.ParseSource(src)
			if err != nil {
				t.Fatalf("ParseSource(%q): %v", src, err)
			}
			expr := exprs[0]

			if _, err := Eval(expr); err == nil {
				t.Error("interpreter accepted ill-typed program")
			}

			prog, err := compiler.Compile(expr)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if _, err := vm.NewMachine(prog).Run(); err == nil {
				t.Error("machine accepted ill-typed program")
			}
		})
	}
}
