package ir

import (
	"fmt"
	"strings"
)

// Dump renders a Program as a sequence of labeled basic blocks, one
// instruction per line. It is this repository's internal debugging view of
// the optimized CFG, not the downstream pretty-printer contract (that lives
// in internal/printer and runs on the same Program).
func Dump(program *Program) string {
	var b strings.Builder
	for _, blk := range program.Blocks {
		b.WriteString(blk.String() + ":\n")
		for _, phi := range blk.Phis {
			fmt.Fprintf(&b, "    %s\n", phi.String())
		}
		for _, s := range blk.Stmts {
			if s.Dead() {
				continue
			}
			fmt.Fprintf(&b, "    %s\n", stmtString(s))
		}
		fmt.Fprintf(&b, "    %s\n", termString(blk.Term))
	}
	return b.String()
}

func (p *Program) String() string { return Dump(p) }

func (b *BasicBlock) String() string {
	if b.Label != "" {
		return fmt.Sprintf("block%d[%s]", b.ID, b.Label)
	}
	return fmt.Sprintf("block%d", b.ID)
}

func (d *SsaDef) String() string {
	if d.Const != nil {
		return fmt.Sprintf("%%%s.%d=%d", d.Var.Name, d.Version, *d.Const)
	}
	return fmt.Sprintf("%%%s.%d", d.Var.Name, d.Version)
}

func (p *PhiDef) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		if a == nil {
			args[i] = "<undef>"
			continue
		}
		args[i] = a.String()
	}
	return fmt.Sprintf("%s = phi(%s)", p.Result.String(), strings.Join(args, ", "))
}

func stmtString(s Stmt) string {
	switch n := s.(type) {
	case *Let:
		if n.Scalar != nil {
			return fmt.Sprintf("%s = %s", scalarTargetString(n.Scalar), exprString(n.RHS))
		}
		return fmt.Sprintf("%s = %s", arrayLHSString(n.ArrayLHS), exprString(n.RHS))
	case *Print:
		return fmt.Sprintf("print %s", exprString(n.Value))
	case *Prompt:
		return fmt.Sprintf("prompt %q", n.Text)
	case *Input:
		if n.Scalar != nil {
			return fmt.Sprintf("input -> %s", scalarTargetString(n.Scalar))
		}
		return fmt.Sprintf("input -> %s", arrayLHSString(n.ArrayLHS))
	case *Rem:
		return fmt.Sprintf("rem %s", n.Text)
	default:
		return "<?stmt>"
	}
}

func arrayLHSString(a *ArrayLValue) string {
	return a.Decl.Name + indexString(a.Index)
}

func scalarTargetString(t *ScalarTarget) string {
	if t.SSA != nil {
		return t.SSA.String()
	}
	return t.Decl.Name
}

func indexString(idx []Expr) string {
	var b strings.Builder
	for _, e := range idx {
		fmt.Fprintf(&b, "[%s]", exprString(e))
	}
	return b.String()
}

func exprString(e Expr) string {
	switch x := e.(type) {
	case *ConstExpr:
		return fmt.Sprintf("%d", x.Value)
	case *PolyExpr:
		return x.P.String()
	case *SsaRead:
		return x.Def.String()
	case *ScalarRead:
		return x.Decl.Name
	case *ArrayRead:
		return x.Decl.Name + indexString(x.Index)
	case *InputIntExpr:
		return "input()"
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", exprString(x.Left), x.Op, exprString(x.Right))
	default:
		return "<?expr>"
	}
}

func termString(t Terminator) string {
	switch n := t.(type) {
	case *Jump:
		return fmt.Sprintf("jump %s", n.Target.String())
	case *Branch:
		return fmt.Sprintf("branch %s ? %s : %s", exprString(n.Cond), n.Then.String(), n.Else.String())
	case *Halt:
		return "halt"
	default:
		return "<?term>"
	}
}
