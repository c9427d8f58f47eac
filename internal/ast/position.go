package ast

import "fmt"

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// NoPos marks a node synthesized by desugaring (e.g. a temp label) rather
// than read from source text.
var NoPos = Position{Line: -1, Column: -1}
