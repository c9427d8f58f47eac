package cfg

import (
	"ssaopt/internal/ast"
	"ssaopt/internal/errors"
	"ssaopt/internal/ir"
)

// builder accumulates the blocks, label namespace and deferred jump targets
// while walking the flattened statement stream once.
type builder struct {
	arena  *ir.Arena
	labels map[string]*ir.BasicBlock

	// fixups record every Jump/Branch target still to be resolved by name
	// once every block and label exists, since a Goto may reference a label
	// defined later in program order.
	jumpFixups   []jumpFixup
	branchFixups []branchFixup
}

type jumpFixup struct {
	owner *ir.BasicBlock
	term  *ir.Jump
	label string
	pos   ast.Position
}

type branchFixup struct {
	owner *ir.BasicBlock
	term  *ir.Branch
	label string
	pos   ast.Position
}

// Build lowers a fully-desugared ast.Program into an ir.Program: a CFG of
// basic blocks with every Let's RHS expression converted to ir.Expr (scalar
// reads left as the pre-SSA ir.ScalarRead placeholder), labels resolved
// against a whole-program namespace, and predecessor sets built by
// inverting every successor edge.
func Build(prog *ast.Program, arena *ir.Arena) (*ir.Program, error) {
	// The parser's own LabelGen has already named its while/for labels
	// $L0, $L1, ...; drawing one name per label already in the body starts
	// the labels minted here for If flattening past all of them.
	gen := &ast.LabelGen{}
	ast.Walk(prog.Body, func(s ast.Stmt) bool {
		if _, ok := s.(*ast.Label); ok {
			gen.NewLabel()
		}
		return true
	})
	flat, err := linearize(prog.Body, gen)
	if err != nil {
		return nil, err
	}
	flat = append(defaultInitStmts(prog.Scalars), flat...)

	b := &builder{arena: arena, labels: map[string]*ir.BasicBlock{}}
	blocks, err := b.buildBlocks(flat)
	if err != nil {
		return nil, err
	}

	if err := b.resolveFixups(); err != nil {
		return nil, err
	}

	return &ir.Program{
		Title:   prog.Title,
		Scalars: prog.Scalars,
		Arrays:  prog.Arrays,
		Entry:   blocks[0],
		Blocks:  blocks,
	}, nil
}

// defaultInitStmts seeds every declared scalar with a `let v := 0` at the
// very front of the program. Seeding unconditionally here, rather than
// deciding per-variable after optimization, is equivalent in the end: the
// dead-code eliminator removes a seed's Let the moment every reaching use of
// it has been replaced by a later, definite assignment — the seed only
// survives where a real path could read the variable before any explicit
// Let reaches it.
func defaultInitStmts(scalars []*ast.ScalarDecl) []ast.Stmt {
	out := make([]ast.Stmt, len(scalars))
	for i, decl := range scalars {
		out[i] = &ast.Let{LHS: &ast.ScalarLValue{Decl: decl}, RHS: &ast.Literal{Value: 0}}
	}
	return out
}

func (b *builder) buildBlocks(flat []ast.Stmt) ([]*ir.BasicBlock, error) {
	var blocks []*ir.BasicBlock

	cur := b.arena.NewBlock("")
	blocks = append(blocks, cur)

	for _, s := range flat {
		switch n := s.(type) {
		case *ast.Label:
			next := b.arena.NewBlock(n.Name)
			if cur.Term == nil {
				cur.Term = &ir.Jump{Target: next}
				cur.AddSucc(next)
			}
			blocks = append(blocks, next)
			cur = next

			if _, dup := b.labels[n.Name]; dup {
				return nil, errors.InvariantViolation("duplicate label reached the CFG builder: " + n.Name)
			}
			b.labels[n.Name] = cur

		case *ast.Goto:
			jmp := &ir.Jump{}
			cur.Term = jmp
			b.jumpFixups = append(b.jumpFixups, jumpFixup{owner: cur, term: jmp, label: n.Label, pos: n.Pos})
			cur = b.arena.NewBlock("")
			blocks = append(blocks, cur)

		case *ast.If:
			g, ok := n.Body.(*ast.Goto)
			if !ok {
				return nil, errors.InvariantViolation("If reached the CFG builder with a non-Goto body")
			}
			owner := cur
			fallthroughBlock := b.arena.NewBlock("")
			br := &ir.Branch{Cond: lowerExpr(n.Cond), Else: fallthroughBlock}
			owner.Term = br
			owner.AddSucc(fallthroughBlock)
			b.branchFixups = append(b.branchFixups, branchFixup{owner: owner, term: br, label: g.Label, pos: g.Pos})
			blocks = append(blocks, fallthroughBlock)
			cur = fallthroughBlock

		case *ast.End:
			cur.Term = &ir.Halt{}
			cur = b.arena.NewBlock("")
			blocks = append(blocks, cur)

		default:
			stmt, err := lowerStmt(s)
			if err != nil {
				return nil, err
			}
			if stmt != nil {
				cur.Stmts = append(cur.Stmts, stmt)
			}
		}
	}

	// Prune a final block buildBlocks opened speculatively (after a
	// Goto/If/End) but that never received a Label or any statements, before
	// deciding whether the new last block still needs a fallback Halt — this
	// must run first, since that speculative block's Term is only ever nil
	// prior to the fallback below.
	blocks = pruneEmptyTrailingBlock(blocks)

	// The program may end without an explicit End; terminate whatever is
	// left open so every block satisfies "exactly one Terminator."
	last := blocks[len(blocks)-1]
	if last.Term == nil {
		last.Term = &ir.Halt{}
	}

	return blocks, nil
}

// pruneEmptyTrailingBlock drops a final block that buildBlocks opened
// speculatively (after a Goto/If/End) but that never received a Label or any
// statements, so the CFG doesn't carry a dangling unreachable block for
// every control transfer.
func pruneEmptyTrailingBlock(blocks []*ir.BasicBlock) []*ir.BasicBlock {
	if len(blocks) == 0 {
		return blocks
	}
	last := blocks[len(blocks)-1]
	if last.Label == "" && len(last.Stmts) == 0 && last.Term == nil && len(last.Preds) == 0 {
		return blocks[:len(blocks)-1]
	}
	return blocks
}

func (b *builder) resolveFixups() error {
	for _, f := range b.jumpFixups {
		target, ok := b.labels[f.label]
		if !ok {
			return errors.UnresolvedLabel(f.label, f.pos)
		}
		f.term.Target = target
		f.owner.AddSucc(target)
	}
	for _, f := range b.branchFixups {
		target, ok := b.labels[f.label]
		if !ok {
			return errors.UnresolvedLabel(f.label, f.pos)
		}
		f.term.Then = target
		f.owner.AddSucc(target)
	}
	return nil
}
