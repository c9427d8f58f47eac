package optimize

import "ssaopt/internal/ir"

// DeadCodeEliminationPass is the dead-code eliminator: it deletes
// unreachable blocks, marks zero-ref-count pure Lets dead, and
// physically sweeps every statement already marked dead from its block,
// adjusting ref/definition counts for whatever it removes. Returns true if
// it removed anything.
func DeadCodeEliminationPass(prog *ir.Program) bool {
	changed := removeUnreachableBlocks(prog)

	for _, b := range prog.Blocks {
		for _, s := range b.Stmts {
			let, ok := s.(*ir.Let)
			if !ok || let.Dead() {
				continue
			}
			if letIsDead(let) {
				let.MarkDead()
				decrementRefsIn(let.RHS)
				if let.ArrayLHS != nil {
					for _, idx := range let.ArrayLHS.Index {
						decrementRefsIn(idx)
					}
				}
				if let.Scalar != nil {
					let.Scalar.Decl.RemoveDefinition()
				}
				changed = true
			}
		}
	}

	if removeDeadPhis(prog) {
		changed = true
	}

	if sweepDeadStmts(prog) {
		changed = true
	}

	return changed
}

// removeDeadPhis drops every phi whose result has no remaining readers: a
// phi has no side effect of its own, so a zero ref count makes it dead the
// same way a zero-ref-count Let is, even though it never reduced to a
// single argument (the case RedundantVariableRemovalPass handles). A
// dropped phi's own arguments lose the read it represented.
func removeDeadPhis(prog *ir.Program) bool {
	changed := false
	for _, b := range prog.Blocks {
		kept := b.Phis[:0]
		for _, pd := range b.Phis {
			if pd.Result.RefCount != 0 {
				kept = append(kept, pd)
				continue
			}
			for _, arg := range pd.Args {
				if arg != nil {
					arg.RefCount--
				}
			}
			if pd.Result.Var != nil {
				pd.Result.Var.RemoveDefinition()
			}
			changed = true
		}
		b.Phis = kept
	}
	return changed
}

// letIsDead reports whether let's definition has no remaining readers and
// its RHS has no side effect worth preserving anyway.
func letIsDead(let *ir.Let) bool {
	if let.Scalar == nil || let.Scalar.SSA == nil {
		return false
	}
	if let.Scalar.SSA.RefCount != 0 {
		return false
	}
	return !hasSideEffect(let.RHS)
}

// hasSideEffect reports whether e reads terminal input or an array element.
// Array reads are conservatively treated as side-effecting too, since this
// compiler does not prove subscripts in range.
func hasSideEffect(e ir.Expr) bool {
	switch x := e.(type) {
	case *ir.InputIntExpr:
		return true
	case *ir.ArrayRead:
		return true
	case *ir.BinaryExpr:
		return hasSideEffect(x.Left) || hasSideEffect(x.Right)
	default:
		return false
	}
}

// decrementRefsIn decrements the RefCount of every SsaDef reachable from e,
// including definitions folded into a PolyExpr's Vars map.
func decrementRefsIn(e ir.Expr) {
	switch x := e.(type) {
	case *ir.SsaRead:
		x.Def.RefCount--
	case *ir.PolyExpr:
		for _, d := range x.Vars {
			d.RefCount--
		}
	case *ir.BinaryExpr:
		decrementRefsIn(x.Left)
		decrementRefsIn(x.Right)
	case *ir.ArrayRead:
		for _, idx := range x.Index {
			decrementRefsIn(idx)
		}
	}
}

// removeUnreachableBlocks finds every block not reachable from the entry
// block via a forward BFS over Succs, marks its statements dead, and strips
// its edges. Such a block is either the block the CFG builder opens right
// after an unconditional goto, or an arm of a Branch that condition folding
// has turned into an unconditional Jump.
func removeUnreachableBlocks(prog *ir.Program) bool {
	reachable := map[*ir.BasicBlock]bool{prog.Entry: true}
	queue := []*ir.BasicBlock{prog.Entry}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		for _, s := range b.Succs {
			if !reachable[s] {
				reachable[s] = true
				queue = append(queue, s)
			}
		}
	}

	changed := false
	for _, b := range prog.Blocks {
		if reachable[b] {
			continue
		}
		for _, s := range b.Stmts {
			if s.Dead() {
				continue
			}
			s.MarkDead()
			changed = true
			if let, ok := s.(*ir.Let); ok {
				decrementRefsIn(let.RHS)
				if let.ArrayLHS != nil {
					for _, idx := range let.ArrayLHS.Index {
						decrementRefsIn(idx)
					}
				}
				if let.Scalar != nil {
					let.Scalar.Decl.RemoveDefinition()
				}
			}
		}
		for _, pd := range b.Phis {
			for _, arg := range pd.Args {
				if arg != nil {
					arg.RefCount--
				}
			}
			if pd.Result.Var != nil {
				pd.Result.Var.RemoveDefinition()
			}
		}
		b.Phis = nil
		for _, succ := range append([]*ir.BasicBlock{}, b.Succs...) {
			removeEdge(b, succ)
		}
		for _, pred := range append([]*ir.BasicBlock{}, b.Preds...) {
			removeEdge(pred, b)
		}
	}
	return changed
}

// sweepDeadStmts physically removes every dead statement from every
// block's list. Ref/definition-count bookkeeping has already happened at
// the point each statement was marked dead, so this step is purely
// structural.
func sweepDeadStmts(prog *ir.Program) bool {
	changed := false
	for _, b := range prog.Blocks {
		kept := b.Stmts[:0]
		for _, s := range b.Stmts {
			if s.Dead() {
				changed = true
				continue
			}
			kept = append(kept, s)
		}
		b.Stmts = kept
	}
	return changed
}
