package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssaopt/internal/ast"
	"ssaopt/internal/ir"
	"ssaopt/token"
)

func scalarProgram(x *ast.ScalarDecl, body *ast.CodeBlock) *ast.Program {
	return &ast.Program{
		Title:   "t",
		Scalars: []*ast.ScalarDecl{x},
		Body:    body,
	}
}

// Straight-line: let x := 1, print x, end. Exactly one block, Halt
// terminator, no predecessors/successors. A default-initializing "let x :=
// 0" is always seeded at the front of the entry block.
func TestBuildStraightLine(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 1}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: x}})
	body.Add(&ast.End{})

	prog, err := Build(scalarProgram(x, body), ir.NewArena())
	require.NoError(t, err)
	require.Len(t, prog.Blocks, 1)

	b := prog.Blocks[0]
	assert.Len(t, b.Stmts, 3) // seeded default-init + the two written statements
	assert.IsType(t, &ir.Halt{}, b.Term)
	assert.Empty(t, b.Succs)
	assert.Empty(t, b.Preds)
}

// A goto to a label defined later must resolve and produce a predecessor
// edge from the jump's block to the label's block.
func TestBuildForwardGoto(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Goto{Label: "skip", Pos: ast.NoPos})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 99}})
	body.Add(&ast.Label{Name: "skip", Pos: ast.NoPos})
	body.Add(&ast.End{})

	prog, err := Build(scalarProgram(x, body), ir.NewArena())
	require.NoError(t, err)
	// block0: the seeded default-init plus the goto itself. block1: the
	// unreachable "let x := 99" that falls through to the label. block2: the
	// "skip" label, ending in Halt.
	require.Len(t, prog.Blocks, 3)

	first := prog.Blocks[0]
	unreachable := prog.Blocks[1]
	skip := prog.Blocks[2]
	assert.Equal(t, "skip", skip.Label)
	assert.IsType(t, &ir.Jump{}, first.Term)
	assert.Equal(t, skip, first.Term.(*ir.Jump).Target)
	assert.Contains(t, skip.Preds, first)
	assert.Contains(t, skip.Preds, unreachable)
	assert.Len(t, first.Stmts, 1) // the seeded default-init
	assert.Len(t, unreachable.Stmts, 1)
	assert.Empty(t, skip.Stmts)
	assert.IsType(t, &ir.Halt{}, skip.Term)
}

// An If whose body is a bare Goto needs no flattening: exactly one extra
// fallthrough block is created and both branch targets resolve.
func TestBuildIfGoto(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	cond := &ast.Binary{Op: token.GT, Left: &ast.VarRead{Decl: x}, Right: &ast.Literal{Value: 0}}
	body := &ast.CodeBlock{}
	body.Add(&ast.If{Cond: cond, Body: &ast.Goto{Label: "positive", Pos: ast.NoPos}, Pos: ast.NoPos})
	body.Add(&ast.Print{Value: &ast.Literal{Value: 0}})
	body.Add(&ast.Goto{Label: "done", Pos: ast.NoPos})
	body.Add(&ast.Label{Name: "positive", Pos: ast.NoPos})
	body.Add(&ast.Print{Value: &ast.Literal{Value: 1}})
	body.Add(&ast.Label{Name: "done", Pos: ast.NoPos})
	body.Add(&ast.End{})

	prog, err := Build(scalarProgram(x, body), ir.NewArena())
	require.NoError(t, err)

	entry := prog.Entry
	br, ok := entry.Term.(*ir.Branch)
	require.True(t, ok)
	assert.NotNil(t, br.Then)
	assert.NotNil(t, br.Else)
	assert.Equal(t, "positive", br.Then.Label)
}

// An If with a non-Goto body gets flattened by linearize into an inverted
// condition plus a synthetic after-label, and still produces a valid CFG.
func TestBuildIfWithBlockBody(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	cond := &ast.Binary{Op: token.GT, Left: &ast.VarRead{Decl: x}, Right: &ast.Literal{Value: 0}}
	inner := &ast.CodeBlock{}
	inner.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 0}})

	body := &ast.CodeBlock{}
	body.Add(&ast.If{Cond: cond, Body: inner, Pos: ast.NoPos})
	body.Add(&ast.End{})

	prog, err := Build(scalarProgram(x, body), ir.NewArena())
	require.NoError(t, err)

	entry := prog.Entry
	br, ok := entry.Term.(*ir.Branch)
	require.True(t, ok)
	binExpr, ok := br.Cond.(*ir.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, string(token.LE), binExpr.Op) // inverted GT
}

// A goto to an undefined label surfaces the unresolved-label diagnostic.
func TestBuildUnresolvedLabel(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Goto{Label: "nowhere", Pos: ast.Position{Line: 3, Column: 1}})
	body.Add(&ast.End{})

	_, err := Build(scalarProgram(x, body), ir.NewArena())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
}

// An If whose condition is not a comparison (and whose body isn't a bare
// Goto) cannot be inverted, and must surface NonInvertibleCondition.
func TestBuildNonInvertibleCondition(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	inner := &ast.CodeBlock{}
	inner.Add(&ast.Print{Value: &ast.Literal{Value: 1}})

	body := &ast.CodeBlock{}
	body.Add(&ast.If{Cond: &ast.VarRead{Decl: x}, Body: inner, Pos: ast.Position{Line: 5, Column: 2}})
	body.Add(&ast.End{})

	_, err := Build(scalarProgram(x, body), ir.NewArena())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E0101")
}

// Every block in a built program must satisfy basic edge consistency: every
// successor lists this block as a predecessor, and vice versa.
func TestEdgeConsistency(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	cond := &ast.Binary{Op: token.GT, Left: &ast.VarRead{Decl: x}, Right: &ast.Literal{Value: 0}}
	body := &ast.CodeBlock{}
	body.Add(&ast.If{Cond: cond, Body: &ast.Goto{Label: "positive", Pos: ast.NoPos}, Pos: ast.NoPos})
	body.Add(&ast.Goto{Label: "done", Pos: ast.NoPos})
	body.Add(&ast.Label{Name: "positive", Pos: ast.NoPos})
	body.Add(&ast.Label{Name: "done", Pos: ast.NoPos})
	body.Add(&ast.End{})

	prog, err := Build(scalarProgram(x, body), ir.NewArena())
	require.NoError(t, err)

	for _, b := range prog.Blocks {
		for _, s := range b.Succs {
			assert.Contains(t, s.Preds, b)
		}
		for _, p := range b.Preds {
			assert.Contains(t, p.Succs, b)
		}
	}
}
