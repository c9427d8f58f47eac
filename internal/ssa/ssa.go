// Package ssa computes reaching scalar definitions over a built CFG via an
// iterative work-queue fixed point: every block is processed repeatedly,
// recomputing its reaching-definition set from its predecessors' out-sets,
// until a full pass produces no change. A reaching set may legitimately
// contain more than one definition at a block's entry — collapsing those
// into a single phi-backed value is internal/phi's job, which runs once
// this fixed point has stabilized.
package ssa

import (
	"sort"

	"ssaopt/internal/ast"
	"ssaopt/internal/errors"
	"ssaopt/internal/ir"
)

// maxIterationsPerBlock bounds the fixed point so a malformed or
// pathological CFG fails loudly instead of looping forever (Design Notes:
// "hard iteration-bound safety net").
const maxIterationsPerBlock = 64

// Result is the stabilized reaching-definition sets for every block, keyed
// by scalar declaration. DefIn/DefOut entries may hold more than one
// *ir.SsaDef when more than one definition reaches that point live.
type Result struct {
	DefIn  map[*ir.BasicBlock]map[*ast.ScalarDecl][]*ir.SsaDef
	DefOut map[*ir.BasicBlock]map[*ast.ScalarDecl][]*ir.SsaDef
}

// Build assigns one fresh SSA definition to every static scalar write (Let
// or Input), then runs the reaching-definition fixed point to compute, for
// every block, which definitions are live on entry and on exit.
func Build(prog *ir.Program, arena *ir.Arena) (*Result, error) {
	assignDefinitions(prog, arena)

	res := &Result{
		DefIn:  map[*ir.BasicBlock]map[*ast.ScalarDecl][]*ir.SsaDef{},
		DefOut: map[*ir.BasicBlock]map[*ast.ScalarDecl][]*ir.SsaDef{},
	}
	for _, b := range prog.Blocks {
		res.DefIn[b] = map[*ast.ScalarDecl][]*ir.SsaDef{}
		res.DefOut[b] = map[*ast.ScalarDecl][]*ir.SsaDef{}
	}

	queue := make([]*ir.BasicBlock, len(prog.Blocks))
	copy(queue, prog.Blocks)
	iterations := map[*ir.BasicBlock]int{}

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]

		iterations[b]++
		if iterations[b] > maxIterationsPerBlock*(len(prog.Blocks)+1) {
			return nil, errors.InvariantViolation("SSA reaching-definition fixed point did not converge")
		}

		newIn := mergeFromPreds(b, res.DefOut)
		res.DefIn[b] = newIn

		newOut := localOut(b, newIn)
		if !sameDefs(res.DefOut[b], newOut) {
			res.DefOut[b] = newOut
			queue = append(queue, b.Succs...)
		}
	}

	return res, nil
}

// assignDefinitions walks every block in order and gives each scalar-target
// statement a fresh SsaDef, mirroring the original's per-assignment version
// counter (ScalarDecl.AddDefinition increments the same way
// IntDeclNode::addSsaDefinition did).
func assignDefinitions(prog *ir.Program, arena *ir.Arena) {
	for _, b := range prog.Blocks {
		for _, s := range b.Stmts {
			var target **ir.ScalarTarget
			switch n := s.(type) {
			case *ir.Let:
				if n.Scalar != nil {
					target = &n.Scalar
				}
			case *ir.Input:
				if n.Scalar != nil {
					target = &n.Scalar
				}
			}
			if target == nil {
				continue
			}
			t := *target
			t.Decl.AddDefinition()
			t.SSA = arena.NewDef(t.Decl, b, t.Decl.DefinitionCount)
		}
	}
}

func mergeFromPreds(b *ir.BasicBlock, defOut map[*ir.BasicBlock]map[*ast.ScalarDecl][]*ir.SsaDef) map[*ast.ScalarDecl][]*ir.SsaDef {
	merged := map[*ast.ScalarDecl][]*ir.SsaDef{}
	for _, p := range b.Preds {
		for decl, defs := range defOut[p] {
			merged[decl] = unionDefs(merged[decl], defs)
		}
	}
	return merged
}

func localOut(b *ir.BasicBlock, in map[*ast.ScalarDecl][]*ir.SsaDef) map[*ast.ScalarDecl][]*ir.SsaDef {
	out := map[*ast.ScalarDecl][]*ir.SsaDef{}
	for decl, defs := range in {
		out[decl] = defs
	}
	for _, s := range b.Stmts {
		var t *ir.ScalarTarget
		switch n := s.(type) {
		case *ir.Let:
			t = n.Scalar
		case *ir.Input:
			t = n.Scalar
		}
		if t == nil {
			continue
		}
		out[t.Decl] = []*ir.SsaDef{t.SSA}
	}
	return out
}

func unionDefs(a, b []*ir.SsaDef) []*ir.SsaDef {
	seen := map[*ir.SsaDef]bool{}
	var out []*ir.SsaDef
	for _, d := range append(append([]*ir.SsaDef{}, a...), b...) {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sameDefs(a, b map[*ast.ScalarDecl][]*ir.SsaDef) bool {
	if len(a) != len(b) {
		return false
	}
	for decl, defsA := range a {
		defsB, ok := b[decl]
		if !ok || len(defsA) != len(defsB) {
			return false
		}
		for i := range defsA {
			if defsA[i] != defsB[i] {
				return false
			}
		}
	}
	return true
}
