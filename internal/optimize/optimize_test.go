package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssaopt/internal/ast"
	"ssaopt/internal/cfg"
	"ssaopt/internal/ir"
	"ssaopt/internal/phi"
	"ssaopt/internal/ssa"
	"ssaopt/token"
)

// compile runs the full front half of the pipeline (CFG, SSA, phi) and then
// the optimizer loop, returning the final program.
func compile(t *testing.T, scalars []*ast.ScalarDecl, body *ast.CodeBlock) *ir.Program {
	t.Helper()
	arena := ir.NewArena()
	prog, err := cfg.Build(&ast.Program{Title: "t", Scalars: scalars, Body: body}, arena)
	require.NoError(t, err)
	res, err := ssa.Build(prog, arena)
	require.NoError(t, err)
	require.NoError(t, phi.Build(prog, res, arena))
	Run(prog)
	return prog
}

// Constant propagation: let x := 2+3; let y := x*4; print y folds all
// the way down to print 20, and both x and y end up eliminated.
func TestScenarioConstantPropagation(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	y := &ast.ScalarDecl{Name: "y"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Binary{Op: token.ADD, Left: &ast.Literal{Value: 2}, Right: &ast.Literal{Value: 3}}})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: y}, RHS: &ast.Binary{Op: token.MUL, Left: &ast.VarRead{Decl: x}, Right: &ast.Literal{Value: 4}}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: y}})
	body.Add(&ast.End{})

	prog := compile(t, []*ast.ScalarDecl{x, y}, body)

	out := ir.Dump(prog)
	assert.Contains(t, out, "print 20")
	assert.True(t, x.Eliminated)
	assert.True(t, y.Eliminated)
}

// Simple loop: the loop variable's phi must survive with exactly two
// arguments, and the comparison inside the loop stays unfolded because the
// phi result is never constant.
func TestScenarioSimpleLoop(t *testing.T) {
	i := &ast.ScalarDecl{Name: "i"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: i}, RHS: &ast.Literal{Value: 0}})
	body.Add(&ast.Label{Name: "top", Pos: ast.NoPos})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: i}})
	body.Add(&ast.Let{
		LHS: &ast.ScalarLValue{Decl: i},
		RHS: &ast.Binary{Op: token.ADD, Left: &ast.VarRead{Decl: i}, Right: &ast.Literal{Value: 1}},
	})
	body.Add(&ast.If{
		Cond: &ast.Binary{Op: token.LT, Left: &ast.VarRead{Decl: i}, Right: &ast.Literal{Value: 3}},
		Body: &ast.Goto{Label: "top", Pos: ast.NoPos},
		Pos:  ast.NoPos,
	})
	body.Add(&ast.End{})

	prog := compile(t, []*ast.ScalarDecl{i}, body)

	var top *ir.BasicBlock
	for _, b := range prog.Blocks {
		if b.Label == "top" {
			top = b
		}
	}
	require.NotNil(t, top)
	require.Len(t, top.Phis, 1)
	assert.Len(t, top.Phis[0].Args, 2)

	br, ok := top.Term.(*ir.Branch)
	require.True(t, ok)
	assert.IsType(t, &ir.BinaryExpr{}, br.Cond)
}

// Dead store: the first write to a is fully shadowed by the second
// before any read, so it is eliminated, and folding then reduces the
// survivor to print 2 and eliminates a entirely.
func TestScenarioDeadStore(t *testing.T) {
	a := &ast.ScalarDecl{Name: "a"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: a}, RHS: &ast.Literal{Value: 1}})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: a}, RHS: &ast.Literal{Value: 2}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: a}})
	body.Add(&ast.End{})

	prog := compile(t, []*ast.ScalarDecl{a}, body)

	out := ir.Dump(prog)
	assert.Contains(t, out, "print 2")
	assert.True(t, a.Eliminated)
}

// Copy chain: input a; let b := a; let c := b; print c collapses down
// to input a; print a, eliminating b and c.
func TestScenarioCopyChain(t *testing.T) {
	a := &ast.ScalarDecl{Name: "a"}
	b := &ast.ScalarDecl{Name: "b"}
	c := &ast.ScalarDecl{Name: "c"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Input{Dest: &ast.ScalarLValue{Decl: a}})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: b}, RHS: &ast.VarRead{Decl: a}})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: c}, RHS: &ast.VarRead{Decl: b}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: c}})
	body.Add(&ast.End{})

	prog := compile(t, []*ast.ScalarDecl{a, b, c}, body)

	out := ir.Dump(prog)
	assert.Contains(t, out, "input ->")
	assert.True(t, b.Eliminated)
	assert.True(t, c.Eliminated)
	assert.False(t, a.Eliminated)

	entry := prog.Entry
	var printStmt *ir.Print
	for _, s := range entry.Stmts {
		if s.Dead() {
			continue
		}
		if p, ok := s.(*ir.Print); ok {
			printStmt = p
		}
	}
	require.NotNil(t, printStmt)
	read, ok := printStmt.Value.(*ir.SsaRead)
	require.True(t, ok)
	assert.Equal(t, a, read.Def.Var)
}

// Unreachable block: the block holding "print 1" can never be reached
// and must be deleted entirely, leaving only "print 2".
func TestScenarioUnreachableBlock(t *testing.T) {
	body := &ast.CodeBlock{}
	body.Add(&ast.Goto{Label: "skip", Pos: ast.NoPos})
	body.Add(&ast.Print{Value: &ast.Literal{Value: 1}})
	body.Add(&ast.Label{Name: "skip", Pos: ast.NoPos})
	body.Add(&ast.Print{Value: &ast.Literal{Value: 2}})
	body.Add(&ast.End{})

	prog := compile(t, nil, body)

	out := ir.Dump(prog)
	assert.NotContains(t, out, "print 1")
	assert.Contains(t, out, "print 2")
}

// Phi collapse: a branch whose condition folds to a compile-time
// constant leaves a single live predecessor reaching the join, so whatever
// phi would have formed there collapses to the one definite value.
func TestScenarioPhiCollapse(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	cond := &ast.Binary{Op: token.EQ, Left: &ast.Literal{Value: 1}, Right: &ast.Literal{Value: 1}}
	body := &ast.CodeBlock{}
	body.Add(&ast.If{Cond: cond, Body: &ast.Goto{Label: "t", Pos: ast.NoPos}, Pos: ast.NoPos})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 5}})
	body.Add(&ast.Label{Name: "t", Pos: ast.NoPos})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 5}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: x}})
	body.Add(&ast.End{})

	prog := compile(t, []*ast.ScalarDecl{x}, body)

	out := ir.Dump(prog)
	assert.Contains(t, out, "print 5")
	for _, b := range prog.Blocks {
		assert.Empty(t, b.Phis)
	}
}

// Optimizer idempotence: a second run over an already stable program
// changes nothing further.
func TestOptimizerIdempotent(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	y := &ast.ScalarDecl{Name: "y"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Literal{Value: 7}})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: y}, RHS: &ast.Binary{Op: token.ADD, Left: &ast.VarRead{Decl: x}, Right: &ast.Literal{Value: 1}}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: y}})
	body.Add(&ast.End{})

	prog := compile(t, []*ast.ScalarDecl{x, y}, body)
	before := ir.Dump(prog)

	changed := false
	changed = FoldPass(prog) || changed
	changed = DeadCodeEliminationPass(prog) || changed
	changed = CopyPropagationPass(prog) || changed
	changed = RedundantVariableRemovalPass(prog) || changed

	assert.False(t, changed)
	assert.Equal(t, before, ir.Dump(prog))
}

// Copy propagation + DCE collapses a := k; b := a; print b into print k.
func TestCopyPropagationCollapsesChain(t *testing.T) {
	a := &ast.ScalarDecl{Name: "a"}
	b := &ast.ScalarDecl{Name: "b"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: a}, RHS: &ast.Literal{Value: 42}})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: b}, RHS: &ast.VarRead{Decl: a}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: b}})
	body.Add(&ast.End{})

	prog := compile(t, []*ast.ScalarDecl{a, b}, body)

	out := ir.Dump(prog)
	assert.Contains(t, out, "print 42")
	assert.True(t, a.Eliminated)
	assert.True(t, b.Eliminated)
}

// Expression folding must truncate toward zero / take the dividend's sign,
// matching Go's native / and %.
func TestDivisionAndModulusTruncation(t *testing.T) {
	x := &ast.ScalarDecl{Name: "x"}
	y := &ast.ScalarDecl{Name: "y"}
	body := &ast.CodeBlock{}
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: x}, RHS: &ast.Binary{Op: token.DIV, Left: &ast.Literal{Value: -7}, Right: &ast.Literal{Value: 2}}})
	body.Add(&ast.Let{LHS: &ast.ScalarLValue{Decl: y}, RHS: &ast.Binary{Op: token.MOD, Left: &ast.Literal{Value: -7}, Right: &ast.Literal{Value: 2}}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: x}})
	body.Add(&ast.Print{Value: &ast.VarRead{Decl: y}})
	body.Add(&ast.End{})

	prog := compile(t, []*ast.ScalarDecl{x, y}, body)

	out := ir.Dump(prog)
	assert.Contains(t, out, "print -3")
	assert.Contains(t, out, "print -1")
}
