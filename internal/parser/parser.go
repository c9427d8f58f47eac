// Package parser converts a parsed grammar.Program concrete syntax tree into
// the structured ast.Program the rest of the compiler operates on: it
// collects declarations, resolves every name reference against them, and
// desugars for/while loops into their label/goto primitive form before
// handing the result to the CFG builder.
package parser

import (
	"ssaopt/grammar"
	"ssaopt/internal/ast"
)

// Parse reads and parses the file at path, then converts it to an
// ast.Program.
func Parse(path string) (*ast.Program, error) {
	cst, err := grammar.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return convert(cst)
}

// ParseString parses src as if it were the contents of a file named path
// (used for diagnostics only), then converts it to an ast.Program.
func ParseString(path, src string) (*ast.Program, error) {
	cst, err := grammar.ParseString(path, src)
	if err != nil {
		return nil, err
	}
	return convert(cst)
}
