package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssaopt/token"
)

func TestDesugarForShape(t *testing.T) {
	v := &ScalarDecl{Name: "i"}
	gen := &LabelGen{}
	f := &For{
		Var:  &ScalarLValue{Decl: v},
		Lo:   &Literal{Value: 1},
		Hi:   &Literal{Value: 10},
		Step: &Literal{Value: 1},
		Body: &CodeBlock{},
	}

	block := DesugarFor(f, gen)
	require.Len(t, block.Stmts, 5)

	_, ok := block.Stmts[0].(*Let)
	assert.True(t, ok, "first statement initializes the loop variable")

	label, ok := block.Stmts[1].(*Label)
	require.True(t, ok)

	body := block.Stmts[2]
	assert.Same(t, f.Body, body)

	cond, ok := block.Stmts[4].(*If)
	require.True(t, ok)
	goto_, ok := cond.Body.(*Goto)
	require.True(t, ok)
	assert.Equal(t, label.Name, goto_.Label)

	bin, ok := cond.Cond.(*Binary)
	require.True(t, ok)
	assert.Equal(t, token.LE, bin.Op)
}

func TestDesugarWhileShape(t *testing.T) {
	v := &ScalarDecl{Name: "x"}
	cond := &Binary{Op: token.GT, Left: &VarRead{Decl: v}, Right: &Literal{Value: 0}}
	w := &While{Cond: cond, Body: &CodeBlock{}}
	gen := &LabelGen{}

	block := DesugarWhile(w, gen)
	require.Len(t, block.Stmts, 5)

	top, ok := block.Stmts[0].(*Label)
	require.True(t, ok)

	guard, ok := block.Stmts[1].(*If)
	require.True(t, ok)
	guardGoto, ok := guard.Body.(*Goto)
	require.True(t, ok)

	after, ok := block.Stmts[4].(*Label)
	require.True(t, ok)
	assert.Equal(t, after.Name, guardGoto.Label)

	loopBack, ok := block.Stmts[3].(*Goto)
	require.True(t, ok)
	assert.Equal(t, top.Name, loopBack.Label)

	invertedCond, ok := guard.Cond.(*Binary)
	require.True(t, ok)
	assert.Equal(t, token.LE, invertedCond.Op) // inverted GT
}

func TestNegateConditionFallsBackForNonComparison(t *testing.T) {
	v := &ScalarDecl{Name: "x"}
	negated := negateCondition(&VarRead{Decl: v})
	bin, ok := negated.(*Binary)
	require.True(t, ok)
	assert.Equal(t, token.EQ, bin.Op)
	lit, ok := bin.Right.(*Literal)
	require.True(t, ok)
	assert.Equal(t, int64(0), lit.Value)
}

func TestInvertComparisonRejectsNonComparison(t *testing.T) {
	v := &ScalarDecl{Name: "x"}
	_, err := InvertComparison(&VarRead{Decl: v}, Position{Line: 1, Column: 1})
	require.Error(t, err)
	var nie *NonInvertibleError
	assert.ErrorAs(t, err, &nie)
}

func TestInvertComparisonSucceedsOnComparison(t *testing.T) {
	v := &ScalarDecl{Name: "x"}
	cond := &Binary{Op: token.EQ, Left: &VarRead{Decl: v}, Right: &Literal{Value: 5}}
	inverted, err := InvertComparison(cond, NoPos)
	require.NoError(t, err)
	bin := inverted.(*Binary)
	assert.Equal(t, token.NE, bin.Op)
}

func TestLabelGenProducesUniqueNames(t *testing.T) {
	gen := &LabelGen{}
	a := gen.NewLabel()
	b := gen.NewLabel()
	assert.NotEqual(t, a, b)
}
