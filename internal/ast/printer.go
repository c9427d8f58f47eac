package ast

import (
	"fmt"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

// String renders a Program back to source-like text. It exists for
// debugging and for round-tripping the title and rem comments — it is not the
// downstream pretty-printer contract, which runs on the optimized core IR
// instead (internal/printer).
func (p *Program) String() string {
	var b strings.Builder
	if p.Title != "" {
		fmt.Fprintf(&b, "title %q\n", p.Title)
	}
	if len(p.Scalars) > 0 || len(p.Arrays) > 0 {
		b.WriteString("var\n")
		for _, d := range p.Scalars {
			fmt.Fprintf(&b, "%sint %s\n", indent(1), d.Name)
		}
		for _, d := range p.Arrays {
			fmt.Fprintf(&b, "%slist%s %s\n", indent(1), dimsString(d.Dims), d.Name)
		}
	}
	b.WriteString("begin\n")
	if p.Body != nil {
		for _, s := range p.Body.Stmts {
			b.WriteString(s.StringWithIndent(1))
		}
	}
	return b.String()
}

func dimsString(dims []int) string {
	var b strings.Builder
	for _, d := range dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}

// StringWithIndent renders a statement and, for compound statements, its
// nested body at one indent level deeper.
func (s *base) StringWithIndent(int) string { return "" }

func (l *Let) StringWithIndent(level int) string {
	return fmt.Sprintf("%s%s := %s\n", indent(level), lvalueString(l.LHS), exprString(l.RHS))
}

func (g *Goto) StringWithIndent(level int) string {
	return fmt.Sprintf("%sgoto %s\n", indent(level), g.Label)
}

func (l *Label) StringWithIndent(level int) string {
	return fmt.Sprintf("%slabel %s\n", indent(level), l.Name)
}

func (n *If) StringWithIndent(level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sif (%s) then\n", indent(level), exprString(n.Cond))
	b.WriteString(n.Body.StringWithIndent(level + 1))
	return b.String()
}

func (w *While) StringWithIndent(level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%swhile (%s)\n", indent(level), exprString(w.Cond))
	for _, stmt := range w.Body.Stmts {
		b.WriteString(stmt.StringWithIndent(level + 1))
	}
	fmt.Fprintf(&b, "%sendwhile\n", indent(level))
	return b.String()
}

func (f *For) StringWithIndent(level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sfor %s := %s to %s by %s\n",
		indent(level), lvalueString(f.Var), exprString(f.Lo), exprString(f.Hi), exprString(f.Step))
	for _, stmt := range f.Body.Stmts {
		b.WriteString(stmt.StringWithIndent(level + 1))
	}
	fmt.Fprintf(&b, "%sendfor\n", indent(level))
	return b.String()
}

func (p *Print) StringWithIndent(level int) string {
	return fmt.Sprintf("%sprint %s\n", indent(level), exprString(p.Value))
}

func (p *Prompt) StringWithIndent(level int) string {
	return fmt.Sprintf("%sprompt %q\n", indent(level), p.Text)
}

func (i *Input) StringWithIndent(level int) string {
	return fmt.Sprintf("%sinput %s\n", indent(level), lvalueString(i.Dest))
}

func (e *End) StringWithIndent(level int) string {
	return fmt.Sprintf("%send\n", indent(level))
}

func (r *Rem) StringWithIndent(level int) string {
	return fmt.Sprintf("%srem %s\n", indent(level), r.Text)
}

func (c *CodeBlock) StringWithIndent(level int) string {
	var b strings.Builder
	for _, s := range c.Stmts {
		b.WriteString(s.StringWithIndent(level))
	}
	return b.String()
}

func lvalueString(lv LValue) string {
	switch v := lv.(type) {
	case *ScalarLValue:
		return v.Decl.Name
	case *ArrayLValue:
		return v.Decl.Name + indexString(v.Index)
	default:
		return "<?lvalue>"
	}
}

func indexString(idx []Expr) string {
	var b strings.Builder
	for _, e := range idx {
		fmt.Fprintf(&b, "[%s]", exprString(e))
	}
	return b.String()
}

func exprString(x Expr) string {
	switch e := x.(type) {
	case *Literal:
		return fmt.Sprintf("%d", e.Value)
	case *VarRead:
		return e.Decl.Name
	case *ArrayRead:
		return e.Decl.Name + indexString(e.Index)
	case *InputInt:
		return "input()"
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", exprString(e.Left), e.Op, exprString(e.Right))
	case *Unary:
		return fmt.Sprintf("(%s%s)", e.Op, exprString(e.X))
	default:
		return "<?expr>"
	}
}
