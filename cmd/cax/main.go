// cax - command line driver for the caxlang expression pipeline
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/caxlang/compiler"
	"github.com/chazu/caxlang/interp"
	"github.com/chazu/caxlang/manifest"
	"github.com/chazu/caxlang/vm"
	"github.com/chazu/caxlang/vm/dist"
)

var log = commonlog.GetLogger("cax")

func main() {
	exprFlag := flag.String("e", "", "Evaluate an expression given on the command line")
	engineFlag := flag.String("engine", "", "Execution engine: interp or vm (default from cax.toml, else interp)")
	disasmFlag := flag.Bool("disasm", false, "Print the compiled program's disassembly instead of executing")
	tokensFlag := flag.Bool("tokens", false, "Print the token stream and exit")
	astFlag := flag.Bool("ast", false, "Print the parsed tree and exit")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cax [options] [file]\n")
		fmt.Fprintf(os.Stderr, "       cax build [-o output] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Evaluates a caxlang expression from a file, -e, or the cax.toml entry.\n")
		fmt.Fprintf(os.Stderr, "Files ending in .caxbin are loaded as compiled programs and run on the VM.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cax -e '1 + 2 * 3'             # interpret an expression\n")
		fmt.Fprintf(os.Stderr, "  cax -engine vm -e '1 + 2'      # compile and run on the register machine\n")
		fmt.Fprintf(os.Stderr, "  cax -disasm -e '1 + 2'         # show the bytecode\n")
		fmt.Fprintf(os.Stderr, "  cax build -o prog.caxbin a.cax # compile to a wire-format program\n")
		fmt.Fprintf(os.Stderr, "  cax prog.caxbin                # run a compiled program\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()

	if len(args) > 0 && args[0] == "build" {
		handleBuildCommand(args[1:])
		return
	}

	// Compiled programs run directly on the VM.
	if len(args) == 1 && strings.HasSuffix(args[0], ".caxbin") {
		runCompiled(args[0], *disasmFlag)
		return
	}

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cax.toml: %v\n", err)
		os.Exit(1)
	}

	source := resolveSource(*exprFlag, args, m)

	if *tokensFlag {
		dumpTokens(source)
		return
	}

	exprs, err := compiler.ParseSource(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *astFlag {
		for _, e := range exprs {
			fmt.Println(e)
		}
		return
	}

	engine := resolveEngine(*engineFlag, m)
	log.Infof("engine: %s", engine)

	if engine == manifest.EngineVM || *disasmFlag {
		runVM(exprs, *disasmFlag)
		return
	}

	vals, err := interp.EvalAll(exprs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, v := range vals {
		fmt.Println(v)
	}
}

// resolveSource picks the expression source: -e, a file argument, or
// the manifest entry, in that order.
func resolveSource(expr string, args []string, m *manifest.Manifest) string {
	if expr != "" {
		return expr
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else if m != nil && m.EntryPath() != "" {
		path = m.EntryPath()
		log.Infof("entry from cax.toml: %s", path)
	}

	if path == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	return string(data)
}

// resolveEngine picks the execution engine: flag, then manifest, then
// the interpreter.
func resolveEngine(engine string, m *manifest.Manifest) string {
	if engine != "" {
		if engine != manifest.EngineInterp && engine != manifest.EngineVM {
			fmt.Fprintf(os.Stderr, "Error: unknown engine %q (want %q or %q)\n",
				engine, manifest.EngineInterp, manifest.EngineVM)
			os.Exit(2)
		}
		return engine
	}
	if m != nil {
		return m.Run.Engine
	}
	return manifest.EngineInterp
}

// dumpTokens prints the token stream, one token per line.
func dumpTokens(source string) {
	tokens, err := compiler.Tokenize(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, tok := range tokens {
		fmt.Println(tok)
	}
}

// runVM compiles the expressions and executes them on the register
// machine, or prints their disassembly with -disasm.
func runVM(exprs []compiler.Expr, disasm bool) {
	for _, e := range exprs {
		prog, err := compiler.Compile(e)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if disasm {
			fmt.Println(prog.Disassemble())
			continue
		}

		result, err := vm.NewMachine(prog).Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(result)
	}
}

// runCompiled loads a wire-format program and runs it on the VM.
func runCompiled(path string, disasm bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	prog, err := dist.UnmarshalProgram(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Infof("loaded %s: %d instructions, %d constants", path, len(prog.Chunks), len(prog.Consts))

	if disasm {
		fmt.Println(prog.Disassemble())
		return
	}

	result, err := vm.NewMachine(prog).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(result)
}
