package phi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssaopt/internal/ast"
	"ssaopt/internal/cfg"
	"ssaopt/internal/ir"
	"ssaopt/internal/ssa"
	"ssaopt/token"
)

func buildAndRunSSA(t *testing.T, x *ast.ScalarDecl, body *ast.CodeBlock) (*ir.Program, *ssa.Result, *ir.Arena) {
	t.Helper()
	arena := ir.NewArena()
	prog, err := cfg.Build(&ast.Program{Title: "t", Scalars: []*ast.ScalarDecl{x}, Body: body}, arena)
	require.NoError(t, err)
	res, err := ssa.Build(prog, arena)
	require.NoError(t, err)
	return prog, res, arena
}

// A join point with two reaching definitions must get exactly one phi, with
// one argument per predecessor, and every downstream read of the variable
// must resolve to that phi's result rather than staying an ir.ScalarRead.
func TestPhiInsertedAtJoin(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	cond := &ast.Binary{Op: token.GT, Left: &ast.VarRead{Decl: x}, Right: &ast.Literal{Value: 0}}

	thenBlock := &ast.CodeBlock{}
	thenBlock.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 1}})

	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 0}})
	body.Add(&ast.If{Cond: cond, Body: thenBlock, Pos: ast.NoPos})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: x}})
	body.Add(&ast.End{})

	prog, res, arena := buildAndRunSSA(t, x, body)
	require.NoError(t, Build(prog, res, arena))

	var phiBlock *ir.BasicBlock
	for _, b := range prog.Blocks {
		if len(b.Phis) > 0 {
			phiBlock = b
		}
	}
	require.NotNil(t, phiBlock)
	require.Len(t, phiBlock.Phis, 1)
	pd := phiBlock.Phis[0]
	assert.Len(t, pd.Args, len(phiBlock.Preds))
	for _, arg := range pd.Args {
		assert.NotNil(t, arg)
	}

	for _, b := range prog.Blocks {
		for _, s := range b.Stmts {
			if p, ok := s.(*ir.Print); ok {
				_, stillPlaceholder := p.Value.(*ir.ScalarRead)
				assert.False(t, stillPlaceholder, "read should have resolved to an SsaRead")
			}
		}
	}
}

// Straight-line code needs no phi at all, and the single read resolves
// directly to the one definition in scope.
func TestNoPhiWhenUnambiguous(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 7}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: x}})
	body.Add(&ast.End{})

	prog, res, arena := buildAndRunSSA(t, x, body)
	require.NoError(t, Build(prog, res, arena))

	for _, b := range prog.Blocks {
		assert.Empty(t, b.Phis)
	}

	// Stmts[0] is the seeded default-init; Stmts[1] is the user's own write.
	printStmt := prog.Blocks[0].Stmts[2].(*ir.Print)
	read, ok := printStmt.Value.(*ir.SsaRead)
	require.True(t, ok)
	assert.Equal(t, 2, read.Def.Version)
}
