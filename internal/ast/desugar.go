package ast

import (
	"fmt"

	"ssaopt/token"
)

// LabelGen hands out unique synthetic label names. It is a field owned by
// whoever is desugaring (the parser for while/for, and cfg.Build for If
// flattening, in this repo), not a process-wide
// counter, so that desugaring stays safe to run concurrently across
// independent programs.
type LabelGen struct {
	next int
}

// NewLabel returns a fresh label name guaranteed not to collide with any
// label a programmer could type (the "$" prefix is not a legal identifier
// character in the source language).
func (g *LabelGen) NewLabel() string {
	name := fmt.Sprintf("$L%d", g.next)
	g.next++
	return name
}

// DesugarFor expands a for-loop into its Label/If/Goto primitive form,
// following the original Parser::transformForLoop exactly:
//
//	let Var := Lo
//	label L
//	<Body>
//	let Var := Var + Step
//	if (Var <= Hi) goto L
//
// The returned CodeBlock is what should appear in place of the For
// statement in the enclosing block.
func DesugarFor(f *For, gen *LabelGen) *CodeBlock {
	block := &CodeBlock{}

	block.Add(&Let{LHS: f.Var, RHS: f.Lo})

	loopLabel := gen.NewLabel()
	block.Add(&Label{Name: loopLabel, Pos: NoPos})

	block.Add(f.Body)

	block.Add(&Let{
		LHS: f.Var,
		RHS: &Binary{Op: token.ADD, Left: lvalueToExpr(f.Var), Right: f.Step},
	})

	block.Add(&If{
		Cond: &Binary{Op: token.LE, Left: lvalueToExpr(f.Var), Right: f.Hi},
		Body: &Goto{Label: loopLabel, Pos: NoPos},
		Pos:  NoPos,
	})

	return block
}

// DesugarWhile expands a while-loop into its label/branch/goto form before
// the CFG builder ever sees it:
//
//	label L
//	if (!Cond) goto After
//	<Body>
//	goto L
//	label After
func DesugarWhile(w *While, gen *LabelGen) *CodeBlock {
	block := &CodeBlock{}

	topLabel := gen.NewLabel()
	afterLabel := gen.NewLabel()

	block.Add(&Label{Name: topLabel, Pos: NoPos})
	block.Add(&If{
		Cond: negateCondition(w.Cond),
		Body: &Goto{Label: afterLabel, Pos: NoPos},
		Pos:  NoPos,
	})
	block.Add(w.Body)
	block.Add(&Goto{Label: topLabel, Pos: NoPos})
	block.Add(&Label{Name: afterLabel, Pos: NoPos})

	return block
}

// negateCondition inverts a comparison in place when possible (reusing the
// same six-entry table as the CFG builder's general-If flattening), falling
// back to "0 = Cond" (Cond is false) for a non-comparison condition such as a
// bare variable or literal.
func negateCondition(cond Expr) Expr {
	if b, ok := cond.(*Binary); ok {
		if inverted, ok := token.Invert(b.Op); ok {
			return &Binary{Op: inverted, Left: b.Left, Right: b.Right}
		}
	}
	return &Binary{Op: token.EQ, Left: cond, Right: &Literal{Value: 0}}
}

// NonInvertibleError reports an If/While condition that isn't one of the six
// comparison operators at a point where the CFG builder must invert it to
// flatten a structured conditional.
type NonInvertibleError struct {
	Pos Position
}

func (e *NonInvertibleError) Error() string {
	return "condition is not invertible: " + e.Pos.String()
}

// InvertComparison applies the same six-entry table as negateCondition, but
// strictly: it never falls back to a synthesized "cond = 0" comparison, so a
// non-comparison condition surfaces as NonInvertibleError. Used by the CFG
// builder when flattening a user-written If whose body is not a bare Goto;
// the while/for desugaring above instead uses the always-succeeds
// negateCondition, since it generates its own conditions.
func InvertComparison(cond Expr, pos Position) (Expr, error) {
	b, ok := cond.(*Binary)
	if !ok {
		return nil, &NonInvertibleError{Pos: pos}
	}
	inverted, ok := token.Invert(b.Op)
	if !ok {
		return nil, &NonInvertibleError{Pos: pos}
	}
	return &Binary{Op: inverted, Left: b.Left, Right: b.Right}, nil
}

func lvalueToExpr(lv LValue) Expr {
	switch v := lv.(type) {
	case *ScalarLValue:
		return &VarRead{Decl: v.Decl}
	case *ArrayLValue:
		return &ArrayRead{Decl: v.Decl, Index: v.Index}
	default:
		panic("unhandled LValue variant")
	}
}
