package main

import (
	"fmt"
	"os"

	"github.com/chazu/caxlang/compiler"
	"github.com/chazu/caxlang/manifest"
	"github.com/chazu/caxlang/vm/dist"
)

// handleBuildCommand processes the `cax build` subcommand.
// Usage:
//
//	cax build file.cax             # ./out.caxbin (or [build] output from cax.toml)
//	cax build -o prog.caxbin file.cax
func handleBuildCommand(args []string) {
	var output string
	var input string

	for i := 0; i < len(args); i++ {
		if args[i] == "-o" || args[i] == "--output" {
			if i+1 < len(args) {
				output = args[i+1]
				i++
			} else {
				fmt.Fprintln(os.Stderr, "Error: -o requires an output path")
				os.Exit(2)
			}
		} else {
			input = args[i]
		}
	}

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cax.toml: %v\n", err)
		os.Exit(1)
	}

	if input == "" && m != nil {
		input = m.EntryPath()
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file (pass one or set [run] entry in cax.toml)")
		os.Exit(2)
	}
	if output == "" {
		if m != nil {
			output = m.OutputPath()
		} else {
			output = "out.caxbin"
		}
	}

	data, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", input, err)
		os.Exit(1)
	}

	exprs, err := compiler.ParseSource(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(exprs) != 1 {
		fmt.Fprintf(os.Stderr, "Error: %s holds %d top-level expressions, build wants exactly 1\n", input, len(exprs))
		os.Exit(1)
	}

	prog, err := compiler.Compile(exprs[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	wire, err := dist.MarshalProgram(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, wire, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	log.Infof("wrote %s (%d bytes)", output, len(wire))
	fmt.Printf("Compiled %s -> %s (%d instructions, %d constants)\n",
		input, output, len(prog.Chunks), len(prog.Consts))
}
