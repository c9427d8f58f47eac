// Command ssac compiles a toy imperative source file through CFG
// construction, SSA conversion, phi insertion and the four-pass optimizer,
// then prints the optimized program back out in source syntax.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"ssaopt/internal/cfg"
	"ssaopt/internal/ir"
	"ssaopt/internal/optimize"
	"ssaopt/internal/parser"
	"ssaopt/internal/phi"
	"ssaopt/internal/printer"
	"ssaopt/internal/ssa"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ssac <file>")
		os.Exit(1)
	}

	path := os.Args[1]

	prog, err := parser.Parse(path)
	if err != nil {
		// grammar.ParseFile already printed a caret-style diagnostic for a
		// syntax error; a semantic error (undefined name, duplicate
		// declaration, arity mismatch) hasn't been shown yet, so print it now.
		if _, isSyntaxErr := err.(participle.Error); !isSyntaxErr {
			color.Red("error: %s", err)
		}
		os.Exit(1)
	}

	arena := ir.NewArena()

	core, err := cfg.Build(prog, arena)
	if err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}

	res, err := ssa.Build(core, arena)
	if err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}

	if err := phi.Build(core, res, arena); err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}

	optimize.Run(core)

	fmt.Print(printer.Print(core))
	color.Green("✅ Successfully compiled %s", path)
}
