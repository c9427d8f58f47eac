package grammar

import (
	"fmt"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("    ", level)
}

// String renders a parsed Program back to source-like text. Exists for
// debugging the grammar itself; internal/parser is what converts a Program
// into ast.Program for the rest of the compiler.
func (p *Program) String() string {
	var b strings.Builder
	if p.Title != nil {
		fmt.Fprintf(&b, "title %s\n", *p.Title)
	}
	if len(p.Vars) > 0 {
		b.WriteString("var\n")
		for _, v := range p.Vars {
			b.WriteString(indent(1) + v.String() + "\n")
		}
	}
	b.WriteString("begin\n")
	for _, s := range p.Stmts {
		b.WriteString(s.StringWithIndent(1))
	}
	return b.String()
}

func (v *VarDecl) String() string {
	if v.Scalar != nil {
		return "int " + v.Scalar.Value
	}
	return "list " + v.Array.String()
}

func (a *ArrayVarDecl) String() string {
	var b strings.Builder
	b.WriteString(a.Name)
	for _, d := range a.Dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}

func (s *Stmt) StringWithIndent(level int) string {
	switch {
	case s.Label != nil:
		return indent(level) + s.Label.String() + "\n"
	case s.Goto != nil:
		return indent(level) + s.Goto.String() + "\n"
	case s.If != nil:
		return s.If.StringWithIndent(level)
	case s.While != nil:
		return s.While.StringWithIndent(level)
	case s.For != nil:
		return s.For.StringWithIndent(level)
	case s.Print != nil:
		return indent(level) + s.Print.String() + "\n"
	case s.Prompt != nil:
		return indent(level) + s.Prompt.String() + "\n"
	case s.Input != nil:
		return indent(level) + s.Input.String() + "\n"
	case s.Rem != nil:
		return indent(level) + s.Rem.Text + "\n"
	case s.End != nil:
		return indent(level) + "end\n"
	case s.Let != nil:
		return indent(level) + s.Let.String() + "\n"
	}
	return ""
}

func (l *LetStmt) String() string {
	return fmt.Sprintf("let %s := %s", l.LHS.String(), l.RHS.String())
}

func (g *GotoStmt) String() string {
	return "goto " + g.Label
}

func (l *LabelStmt) String() string {
	return "label " + l.Name
}

func (n *IfStmt) StringWithIndent(level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sif (%s) then\n", indent(level), n.Cond.String())
	b.WriteString(n.Body.StringWithIndent(level + 1))
	return b.String()
}

func (w *WhileStmt) StringWithIndent(level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%swhile (%s)\n", indent(level), w.Cond.String())
	for _, s := range w.Body {
		b.WriteString(s.StringWithIndent(level + 1))
	}
	fmt.Fprintf(&b, "%sendwhile\n", indent(level))
	return b.String()
}

func (f *ForStmt) StringWithIndent(level int) string {
	var b strings.Builder
	step := "1"
	if f.Step != nil {
		step = f.Step.String()
	}
	fmt.Fprintf(&b, "%sfor %s := %s to %s by %s\n",
		indent(level), f.Var.String(), f.Lo.String(), f.Hi.String(), step)
	for _, s := range f.Body {
		b.WriteString(s.StringWithIndent(level + 1))
	}
	fmt.Fprintf(&b, "%sendfor\n", indent(level))
	return b.String()
}

func (p *PrintStmt) String() string {
	return "print " + p.Value.String()
}

func (p *PromptStmt) String() string {
	return fmt.Sprintf("prompt %s", p.Text)
}

func (i *InputStmt) String() string {
	return "input " + i.Dest.String()
}

func (l *LValue) String() string {
	var b strings.Builder
	b.WriteString(l.Name)
	for _, idx := range l.Index {
		fmt.Fprintf(&b, "[%s]", idx.String())
	}
	return b.String()
}

func (e *Expr) String() string {
	if e.Op == nil {
		return e.Left.String()
	}
	return fmt.Sprintf("%s %s %s", e.Left.String(), *e.Op, e.Right.String())
}

func (a *Additive) String() string {
	s := a.Left.String()
	for _, op := range a.Ops {
		s += " " + op.String()
	}
	return s
}

func (o *AddOp) String() string {
	return fmt.Sprintf("%s %s", o.Op, o.Right.String())
}

func (m *Multiplicative) String() string {
	s := m.Left.String()
	for _, op := range m.Ops {
		s += " " + op.String()
	}
	return s
}

func (o *MulOp) String() string {
	return fmt.Sprintf("%s %s", o.Op, o.Right.String())
}

func (u *Unary) String() string {
	if u.Minus {
		return "-" + u.Value.String()
	}
	return u.Value.String()
}

func (p *Primary) String() string {
	switch {
	case p.Number != nil:
		return fmt.Sprintf("%d", *p.Number)
	case p.Input:
		return "input()"
	case p.Ref != nil:
		return p.Ref.String()
	case p.Paren != nil:
		return "(" + p.Paren.String() + ")"
	}
	return "<?expr>"
}
