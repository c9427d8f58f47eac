package optimize

import (
	"ssaopt/internal/ir"
	"ssaopt/internal/poly"
)

// CopyPropagationPass is the copy propagator: for every Let of the shape
// `d := s` (RHS is a bare SsaRead), every other read of d anywhere in the
// program — including phi arguments — is rewritten to read s directly.
// Once every read has moved, d's RefCount reaches zero and the next
// dead-code pass removes the now-redundant Let. Phi results are never
// treated as copy sources here; collapsing a single-argument phi is
// RedundantVariableRemovalPass's job.
func CopyPropagationPass(prog *ir.Program) bool {
	changed := false
	for _, b := range prog.Blocks {
		for _, s := range b.Stmts {
			let, ok := s.(*ir.Let)
			if !ok || let.Dead() || let.Scalar == nil || let.Scalar.SSA == nil {
				continue
			}
			src, ok := let.RHS.(*ir.SsaRead)
			if !ok {
				continue
			}
			target := let.Scalar.SSA
			if target == src.Def {
				continue
			}
			if replaceAllReads(prog, target, src.Def, s) {
				changed = true
			}
		}
	}
	return changed
}

// replaceAllReads rewrites every SsaRead of target, anywhere in prog except
// inside skip (the copy statement that introduced the propagation), to read
// source instead.
func replaceAllReads(prog *ir.Program, target, source *ir.SsaDef, skip ir.Stmt) bool {
	changed := false
	for _, b := range prog.Blocks {
		for _, s := range b.Stmts {
			if s == skip || s.Dead() {
				continue
			}
			if rewriteStmtReads(s, target, source) {
				changed = true
			}
		}
		if br, ok := b.Term.(*ir.Branch); ok {
			if ne, ch := rewriteExprReads(br.Cond, target, source); ch {
				br.Cond = ne
				changed = true
			}
		}
		for _, pd := range b.Phis {
			for i, arg := range pd.Args {
				if arg == target {
					pd.Args[i] = source
					target.RefCount--
					source.RefCount++
					changed = true
				}
			}
		}
	}
	return changed
}

func rewriteStmtReads(s ir.Stmt, target, source *ir.SsaDef) bool {
	changed := false
	switch n := s.(type) {
	case *ir.Let:
		if ne, ch := rewriteExprReads(n.RHS, target, source); ch {
			n.RHS = ne
			changed = true
		}
		if n.ArrayLHS != nil {
			changed = rewriteIndices(n.ArrayLHS.Index, target, source) || changed
		}
	case *ir.Print:
		if ne, ch := rewriteExprReads(n.Value, target, source); ch {
			n.Value = ne
			changed = true
		}
	case *ir.Input:
		if n.ArrayLHS != nil {
			changed = rewriteIndices(n.ArrayLHS.Index, target, source) || changed
		}
	}
	return changed
}

func rewriteIndices(idx []ir.Expr, target, source *ir.SsaDef) bool {
	changed := false
	for i, e := range idx {
		if ne, ch := rewriteExprReads(e, target, source); ch {
			idx[i] = ne
			changed = true
		}
	}
	return changed
}

func rewriteExprReads(e ir.Expr, target, source *ir.SsaDef) (ir.Expr, bool) {
	switch x := e.(type) {
	case *ir.SsaRead:
		if x.Def == target {
			target.RefCount--
			source.RefCount++
			return &ir.SsaRead{Def: source}, true
		}
		return x, false
	case *ir.PolyExpr:
		targetKey := ssaDefKey(target)
		if def, ok := x.Vars[targetKey]; !ok || def != target {
			return x, false
		}
		sourceKey := ssaDefKey(source)
		x.P = poly.Substitute(x.P, map[string]poly.Polynomial{targetKey: poly.Var(sourceKey)})
		delete(x.Vars, targetKey)
		x.Vars[sourceKey] = source
		target.RefCount--
		source.RefCount++
		return x, true
	case *ir.ArrayRead:
		return x, rewriteIndices(x.Index, target, source)
	case *ir.BinaryExpr:
		lch := false
		if ne, ch := rewriteExprReads(x.Left, target, source); ch {
			x.Left = ne
			lch = true
		}
		rch := false
		if ne, ch := rewriteExprReads(x.Right, target, source); ch {
			x.Right = ne
			rch = true
		}
		return x, lch || rch
	default:
		return e, false
	}
}
