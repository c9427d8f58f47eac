package optimize

import (
	"fmt"

	"ssaopt/internal/ir"
	"ssaopt/internal/poly"
	"ssaopt/token"
)

// FoldPass is the expression folder: a bottom-up visit folding literal
// arithmetic, constant SSA reads, and arithmetic subtrees into normalized
// polynomials, plus folding a block's Branch condition when it reduces to a
// constant. Returns true if it replaced anything.
func FoldPass(prog *ir.Program) bool {
	changed := false
	for _, b := range prog.Blocks {
		for _, s := range b.Stmts {
			if s.Dead() {
				continue
			}
			if foldStmt(s) {
				changed = true
			}
		}
		if foldTerminator(b) {
			changed = true
		}
	}
	return changed
}

func foldStmt(s ir.Stmt) bool {
	changed := false
	switch n := s.(type) {
	case *ir.Let:
		if newRHS, ch := foldExpr(n.RHS); ch {
			n.RHS = newRHS
			changed = true
		}
		if n.ArrayLHS != nil {
			changed = foldIndices(n.ArrayLHS.Index) || changed
		}
		if c, ok := n.RHS.(*ir.ConstExpr); ok && n.Scalar != nil && n.Scalar.SSA.Const == nil {
			v := c.Value
			n.Scalar.SSA.Const = &v
			changed = true
		}
	case *ir.Print:
		if newV, ch := foldExpr(n.Value); ch {
			n.Value = newV
			changed = true
		}
	case *ir.Input:
		if n.ArrayLHS != nil {
			changed = foldIndices(n.ArrayLHS.Index) || changed
		}
	}
	return changed
}

func foldIndices(idx []ir.Expr) bool {
	changed := false
	for i, e := range idx {
		if ne, ch := foldExpr(e); ch {
			idx[i] = ne
			changed = true
		}
	}
	return changed
}

// foldTerminator folds a block's Branch condition and, once it reduces to a
// constant, rewrites the Branch into an unconditional Jump, dropping the
// now-unreachable edge.
func foldTerminator(b *ir.BasicBlock) bool {
	br, ok := b.Term.(*ir.Branch)
	if !ok {
		return false
	}
	newCond, changed := foldExpr(br.Cond)
	br.Cond = newCond

	c, ok := newCond.(*ir.ConstExpr)
	if !ok {
		return changed
	}

	taken, dropped := br.Else, br.Then
	if c.Value != 0 {
		taken, dropped = br.Then, br.Else
	}
	b.Term = &ir.Jump{Target: taken}
	if taken != dropped {
		removeEdge(b, dropped)
	}
	return true
}

func removeEdge(b, target *ir.BasicBlock) {
	for i, s := range b.Succs {
		if s == target {
			b.Succs = append(b.Succs[:i], b.Succs[i+1:]...)
			break
		}
	}
	for i, p := range target.Preds {
		if p == b {
			target.Preds = append(target.Preds[:i], target.Preds[i+1:]...)
			// Keep every phi's Args aligned with Preds: the argument that
			// arrived along the removed edge loses its read.
			for _, pd := range target.Phis {
				if i < len(pd.Args) {
					if pd.Args[i] != nil {
						pd.Args[i].RefCount--
					}
					pd.Args = append(pd.Args[:i], pd.Args[i+1:]...)
				}
			}
			break
		}
	}
}

// foldExpr recursively folds e, returning the (possibly replaced) expression
// and whether anything changed.
func foldExpr(e ir.Expr) (ir.Expr, bool) {
	switch x := e.(type) {
	case *ir.SsaRead:
		if x.Def.Const != nil {
			x.Def.RefCount--
			return &ir.ConstExpr{Value: *x.Def.Const}, true
		}
		return x, false
	case *ir.ArrayRead:
		changed := foldIndices(x.Index)
		return x, changed
	case *ir.BinaryExpr:
		return foldBinary(x)
	default: // ConstExpr, PolyExpr, ScalarRead, InputIntExpr: already terminal
		return e, false
	}
}

func foldBinary(x *ir.BinaryExpr) (ir.Expr, bool) {
	left, lch := foldExpr(x.Left)
	right, rch := foldExpr(x.Right)
	x.Left, x.Right = left, right
	changed := lch || rch

	switch token.TokenType(x.Op) {
	case token.ADD, token.SUB, token.MUL:
		if result, ok := foldArithmetic(x.Op, left, right); ok {
			return result, true
		}
		return x, changed

	case token.DIV, token.MOD:
		lc, lok := left.(*ir.ConstExpr)
		rc, rok := right.(*ir.ConstExpr)
		if lok && rok && rc.Value != 0 {
			if token.TokenType(x.Op) == token.DIV {
				return &ir.ConstExpr{Value: lc.Value / rc.Value}, true
			}
			return &ir.ConstExpr{Value: lc.Value % rc.Value}, true
		}
		return x, changed

	default: // comparisons
		lc, lok := left.(*ir.ConstExpr)
		rc, rok := right.(*ir.ConstExpr)
		if lok && rok {
			return &ir.ConstExpr{Value: boolToInt(evalCompare(x.Op, lc.Value, rc.Value))}, true
		}
		return x, changed
	}
}

// foldArithmetic builds a normalized polynomial from left and right when
// both reduce to a polynomial-representable shape (literal, SSA read, or an
// already-folded polynomial), combining them algebraically. It leaves the
// BinaryExpr alone (ok == false) whenever an operand
// still contains something a polynomial cannot represent, such as an
// unresolved array read or input call.
func foldArithmetic(op string, left, right ir.Expr) (ir.Expr, bool) {
	lp, lVars, lok := toPoly(left)
	if !lok {
		return nil, false
	}
	rp, rVars, rok := toPoly(right)
	if !rok {
		return nil, false
	}

	var result poly.Polynomial
	switch token.TokenType(op) {
	case token.ADD:
		result = poly.Add(lp, rp)
	case token.SUB:
		result = poly.Sub(lp, rp)
	case token.MUL:
		result = poly.Mul(lp, rp)
	default:
		return nil, false
	}

	if c, isConst := result.ConstValue(); isConst {
		return &ir.ConstExpr{Value: c}, true
	}

	vars := map[string]*ir.SsaDef{}
	for k, d := range lVars {
		vars[k] = d
	}
	for k, d := range rVars {
		vars[k] = d
	}
	return &ir.PolyExpr{P: result, Vars: vars}, true
}

func toPoly(e ir.Expr) (poly.Polynomial, map[string]*ir.SsaDef, bool) {
	switch x := e.(type) {
	case *ir.ConstExpr:
		return poly.Const(x.Value), nil, true
	case *ir.PolyExpr:
		return x.P, x.Vars, true
	case *ir.SsaRead:
		key := ssaDefKey(x.Def)
		return poly.Var(key), map[string]*ir.SsaDef{key: x.Def}, true
	default:
		return poly.Polynomial{}, nil, false
	}
}

func ssaDefKey(def *ir.SsaDef) string {
	return fmt.Sprintf("%s.%d", def.Var.Name, def.Version)
}

func evalCompare(op string, l, r int64) bool {
	switch token.TokenType(op) {
	case token.EQ:
		return l == r
	case token.NE:
		return l != r
	case token.LT:
		return l < r
	case token.LE:
		return l <= r
	case token.GT:
		return l > r
	case token.GE:
		return l >= r
	default:
		return false
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
