package ir

import "ssaopt/internal/ast"

// Arena owns every block and SSA-definition ID allocated while building or
// transforming one Program. It replaces the original AST's process-wide
// node counter (Ast::generateTempVar used a function-local static int) with
// state scoped to the compilation in progress, so two compilations running
// in the same process never share or race on IDs.
type Arena struct {
	nextBlockID int
	nextDefID   int
}

// NewArena returns an empty Arena, ready to mint IDs starting at zero.
func NewArena() *Arena {
	return &Arena{}
}

// NewBlock allocates a fresh, unattached basic block.
func (a *Arena) NewBlock(label string) *BasicBlock {
	b := &BasicBlock{ID: a.nextBlockID, Label: label}
	a.nextBlockID++
	return b
}

// NewDef allocates a fresh SSA definition for var in block, with version
// version (the count of definitions of var produced so far, including this
// one).
func (a *Arena) NewDef(v *ast.ScalarDecl, block *BasicBlock, version int) *SsaDef {
	def := &SsaDef{ID: a.nextDefID, Var: v, Version: version, Block: block}
	a.nextDefID++
	return def
}
