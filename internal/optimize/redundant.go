package optimize

import "ssaopt/internal/ir"

// RedundantVariableRemovalPass is the redundant-variable remover: a phi node
// whose every argument resolves to the very same underlying definition
// carries no real ambiguity — every predecessor agrees on the value — so it
// is collapsed away. Every read of the phi's result is rewritten to read
// that shared definition directly, the phi is dropped from its block, and
// the definition it pretended to introduce is retired.
// Returns true if it collapsed anything.
func RedundantVariableRemovalPass(prog *ir.Program) bool {
	changed := false
	for _, b := range prog.Blocks {
		kept := b.Phis[:0]
		for _, pd := range b.Phis {
			source, ok := singleSource(pd.Args)
			if !ok {
				kept = append(kept, pd)
				continue
			}
			collapsePhi(prog, pd, source)
			changed = true
		}
		b.Phis = kept
	}
	return changed
}

// singleSource reports whether every phi argument is the same SsaDef, and
// if so returns it.
func singleSource(args []*ir.SsaDef) (*ir.SsaDef, bool) {
	if len(args) == 0 {
		return nil, false
	}
	first := args[0]
	for _, a := range args[1:] {
		if a != first {
			return nil, false
		}
	}
	return first, true
}

// collapsePhi rewrites every read of pd.Result (ordinary statements, branch
// conditions, and other phis' arguments) to read source instead, then
// retires pd.Result's definition. Each of pd's own arguments counted as one
// read of source when phi.Build resolved it; those reads vanish along with
// the phi itself rather than surviving as a rewritten use.
func collapsePhi(prog *ir.Program, pd *ir.PhiDef, source *ir.SsaDef) {
	source.RefCount -= len(pd.Args)

	for _, b := range prog.Blocks {
		for _, s := range b.Stmts {
			if s.Dead() {
				continue
			}
			rewriteStmtReads(s, pd.Result, source)
		}
		if br, ok := b.Term.(*ir.Branch); ok {
			if ne, ch := rewriteExprReads(br.Cond, pd.Result, source); ch {
				br.Cond = ne
			}
		}
		for _, other := range b.Phis {
			if other == pd {
				continue
			}
			for i, arg := range other.Args {
				if arg == pd.Result {
					other.Args[i] = source
					pd.Result.RefCount--
					source.RefCount++
				}
			}
		}
	}

	if pd.Result.Var != nil {
		pd.Result.Var.RemoveDefinition()
	}
}
