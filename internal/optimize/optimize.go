// Package optimize implements the multi-pass iterative optimizer:
// constant/expression folding, dead-code elimination, copy propagation and
// redundant-variable removal, run to a fixed point over an SSA-form CFG,
// followed by unused-variable pruning.
package optimize

import "ssaopt/internal/ir"

// maxIterationsPerBlock bounds the optimizer loop the same way ssa.Build
// bounds its own fixed point: both are monotonic on a finite lattice, so a
// bound this generous (10x the block count) is only ever a safety net
// against a pass that isn't actually monotonic.
const maxIterationsPerBlock = 10

// Run drives the fold, dead-code, copy-propagation and redundant-variable
// passes to a fixed point: each pass reports whether it did any work, and
// the loop repeats until a full round changes nothing. Once stable, it
// sweeps the variable table for scalars that ended up with no remaining
// definition, marking them eliminated.
func Run(prog *ir.Program) {
	limit := maxIterationsPerBlock * max(1, len(prog.Blocks))
	for i := 0; i < limit; i++ {
		changed := false
		changed = FoldPass(prog) || changed
		changed = DeadCodeEliminationPass(prog) || changed
		changed = CopyPropagationPass(prog) || changed
		changed = RedundantVariableRemovalPass(prog) || changed
		if !changed {
			break
		}
	}
	eliminateUnusedVars(prog)
}

// eliminateUnusedVars marks every scalar decl whose definition count has
// been driven to zero as eliminated, so later code generation skips it: a
// decl with zero definitions can have no surviving SsaRead, since every
// read is keyed to a specific definition.
func eliminateUnusedVars(prog *ir.Program) {
	for _, decl := range prog.Scalars {
		if decl.DefinitionCount == 0 {
			decl.Eliminated = true
		}
	}
}
