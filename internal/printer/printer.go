// Package printer renders an optimized ir.Program back into the toy
// language's own surface syntax: the downstream pretty-printer contract
// distinct from ir.Dump's internal block-by-block debugging view. Every
// SSA definition of a scalar is printed as a read or write of its original
// declared name — SSA versions and phi nodes are compiler-internal
// bookkeeping with no surface-syntax equivalent, since the source language
// only ever had one mutable slot per declared variable.
package printer

import (
	"fmt"
	"strings"

	"ssaopt/internal/ir"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

// Print renders prog as a sequence of labeled basic blocks in source-like
// syntax: a jump or branch target that falls straight into program order is
// left as an implicit fallthrough rather than a redundant goto.
func Print(prog *ir.Program) string {
	var b strings.Builder

	if prog.Title != "" {
		fmt.Fprintf(&b, "title %q\n", prog.Title)
	}
	if len(prog.Scalars) > 0 || len(prog.Arrays) > 0 {
		b.WriteString("var\n")
		for _, d := range prog.Scalars {
			fmt.Fprintf(&b, "%sint %s\n", indent(1), d.Name)
		}
		for _, d := range prog.Arrays {
			fmt.Fprintf(&b, "%slist%s %s\n", indent(1), dimsString(d.Dims), d.Name)
		}
	}

	b.WriteString("begin\n")
	for i, blk := range prog.Blocks {
		fmt.Fprintf(&b, "%slabel %s\n", indent(1), blockName(blk))
		for _, s := range blk.Stmts {
			if s.Dead() {
				continue
			}
			fmt.Fprintf(&b, "%s%s\n", indent(1), stmtString(s))
		}
		writeTerm(&b, blk, prog.Blocks, i)
	}
	b.WriteString("end\n")

	return b.String()
}

func blockName(b *ir.BasicBlock) string {
	if b.Label != "" {
		return b.Label
	}
	return fmt.Sprintf("$block%d", b.ID)
}

func writeTerm(b *strings.Builder, blk *ir.BasicBlock, blocks []*ir.BasicBlock, i int) {
	var next *ir.BasicBlock
	if i+1 < len(blocks) {
		next = blocks[i+1]
	}

	switch t := blk.Term.(type) {
	case *ir.Halt:
		fmt.Fprintf(b, "%send\n", indent(1))
	case *ir.Jump:
		if t.Target != next {
			fmt.Fprintf(b, "%sgoto %s\n", indent(1), blockName(t.Target))
		}
	case *ir.Branch:
		fmt.Fprintf(b, "%sif (%s) then goto %s\n", indent(1), exprString(t.Cond), blockName(t.Then))
		if t.Else != next {
			fmt.Fprintf(b, "%sgoto %s\n", indent(1), blockName(t.Else))
		}
	}
}

func dimsString(dims []int) string {
	var b strings.Builder
	for _, d := range dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}

func stmtString(s ir.Stmt) string {
	switch n := s.(type) {
	case *ir.Let:
		return fmt.Sprintf("let %s := %s", targetString(n.Scalar, n.ArrayLHS), exprString(n.RHS))
	case *ir.Print:
		return fmt.Sprintf("print %s", exprString(n.Value))
	case *ir.Prompt:
		return fmt.Sprintf("prompt %q", n.Text)
	case *ir.Input:
		return fmt.Sprintf("input %s", targetString(n.Scalar, n.ArrayLHS))
	case *ir.Rem:
		return fmt.Sprintf("rem %s", n.Text)
	default:
		return "<?stmt>"
	}
}

func targetString(scalar *ir.ScalarTarget, array *ir.ArrayLValue) string {
	if scalar != nil {
		return scalar.Decl.Name
	}
	return array.Decl.Name + indexString(array.Index)
}

func indexString(idx []ir.Expr) string {
	var b strings.Builder
	for _, e := range idx {
		fmt.Fprintf(&b, "[%s]", exprString(e))
	}
	return b.String()
}

func exprString(e ir.Expr) string {
	switch x := e.(type) {
	case *ir.ConstExpr:
		return fmt.Sprintf("%d", x.Value)
	case *ir.PolyExpr:
		return x.P.String()
	case *ir.SsaRead:
		return x.Def.Var.Name
	case *ir.ScalarRead:
		return x.Decl.Name
	case *ir.ArrayRead:
		return x.Decl.Name + indexString(x.Index)
	case *ir.InputIntExpr:
		return "input()"
	case *ir.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", exprString(x.Left), x.Op, exprString(x.Right))
	default:
		return "<?expr>"
	}
}
