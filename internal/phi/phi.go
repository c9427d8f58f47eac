// Package phi inserts phi nodes at every CFG join point where more than one
// SSA definition of a scalar variable reaches, then resolves every
// remaining ir.ScalarRead to a concrete ir.SsaRead now that each program
// point has exactly one reaching definition per variable. It runs once,
// after internal/ssa's reaching-definition fixed point has fully
// stabilized, as a separate sequential pass rather than interleaving the
// two.
package phi

import (
	"ssaopt/internal/ast"
	"ssaopt/internal/errors"
	"ssaopt/internal/ir"
	"ssaopt/internal/ssa"
)

// Build inserts phi nodes and resolves every scalar read in prog. res must
// come from a completed ssa.Build over the same program.
func Build(prog *ir.Program, res *ssa.Result, arena *ir.Arena) error {
	phiOf := map[*ir.BasicBlock]map[*ast.ScalarDecl]*ir.PhiDef{}

	for _, b := range prog.Blocks {
		phiOf[b] = map[*ast.ScalarDecl]*ir.PhiDef{}
		for decl, defs := range res.DefIn[b] {
			if len(defs) <= 1 {
				continue
			}
			result := arena.NewDef(decl, b, decl.DefinitionCount+1)
			decl.AddDefinition()
			pd := &ir.PhiDef{Result: result, Args: make([]*ir.SsaDef, len(b.Preds))}
			b.Phis = append(b.Phis, pd)
			phiOf[b][decl] = pd
		}
	}

	for _, b := range prog.Blocks {
		for decl, pd := range phiOf[b] {
			for i, pred := range b.Preds {
				// A predecessor that writes decl leaves exactly that one
				// definition on its out edge; only a predecessor that passes
				// decl through unwritten hands on its own phi's result.
				defs := res.DefOut[pred][decl]
				if len(defs) == 1 {
					pd.Args[i] = defs[0]
					defs[0].RefCount++
					continue
				}
				predPhi, ok := phiOf[pred][decl]
				if !ok {
					return errors.InvariantViolation("phi argument for " + decl.Name + " did not resolve to a single definition")
				}
				pd.Args[i] = predPhi.Result
				predPhi.Result.RefCount++
			}
		}
	}

	entryDef := func(b *ir.BasicBlock, decl *ast.ScalarDecl) *ir.SsaDef {
		if pd, ok := phiOf[b][decl]; ok {
			return pd.Result
		}
		defs := res.DefIn[b][decl]
		if len(defs) == 1 {
			return defs[0]
		}
		return nil
	}

	for _, b := range prog.Blocks {
		current := map[*ast.ScalarDecl]*ir.SsaDef{}
		for _, decl := range prog.Scalars {
			current[decl] = entryDef(b, decl)
		}

		for _, s := range b.Stmts {
			resolveReads(s, current)
			recordWrite(s, current)
		}
		resolveTermReads(b.Term, current)
	}

	return nil
}

func resolveReads(s ir.Stmt, current map[*ast.ScalarDecl]*ir.SsaDef) {
	switch n := s.(type) {
	case *ir.Let:
		n.RHS = resolveExpr(n.RHS, current)
		if n.ArrayLHS != nil {
			for i, idx := range n.ArrayLHS.Index {
				n.ArrayLHS.Index[i] = resolveExpr(idx, current)
			}
		}
	case *ir.Print:
		n.Value = resolveExpr(n.Value, current)
	case *ir.Input:
		if n.ArrayLHS != nil {
			for i, idx := range n.ArrayLHS.Index {
				n.ArrayLHS.Index[i] = resolveExpr(idx, current)
			}
		}
	}
}

func recordWrite(s ir.Stmt, current map[*ast.ScalarDecl]*ir.SsaDef) {
	var t *ir.ScalarTarget
	switch n := s.(type) {
	case *ir.Let:
		t = n.Scalar
	case *ir.Input:
		t = n.Scalar
	}
	if t == nil {
		return
	}
	current[t.Decl] = t.SSA
}

func resolveTermReads(term ir.Terminator, current map[*ast.ScalarDecl]*ir.SsaDef) {
	br, ok := term.(*ir.Branch)
	if !ok {
		return
	}
	br.Cond = resolveExpr(br.Cond, current)
}

// resolveExpr replaces every ir.ScalarRead reachable from e with the SsaRead
// naming its current reaching definition, incrementing that definition's
// RefCount for each use created.
func resolveExpr(e ir.Expr, current map[*ast.ScalarDecl]*ir.SsaDef) ir.Expr {
	switch x := e.(type) {
	case *ir.ScalarRead:
		def := current[x.Decl]
		if def == nil {
			return &ir.ConstExpr{Value: 0}
		}
		def.RefCount++
		return &ir.SsaRead{Def: def}
	case *ir.ArrayRead:
		for i, idx := range x.Index {
			x.Index[i] = resolveExpr(idx, current)
		}
		return x
	case *ir.BinaryExpr:
		x.Left = resolveExpr(x.Left, current)
		x.Right = resolveExpr(x.Right, current)
		return x
	default:
		return e
	}
}
