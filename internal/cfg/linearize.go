// Package cfg builds the basic-block control-flow graph from a structured,
// already-desugared AST: for/while loops must already be gone
// (internal/ast.DesugarFor/DesugarWhile, run by the parser) by the time
// Build is called — only Let, Goto, Label, If, Print, Prompt, Input, End and
// Rem, nested in CodeBlocks, are expected here.
package cfg

import (
	"ssaopt/internal/ast"
	"ssaopt/internal/errors"
)

// linearize flattens a structured body into a flat statement stream with no
// nested CodeBlocks and every If's body reduced to a bare Goto: an If(cond)
// goto T becomes a conditional branch directly, and any other If body is
// lowered by introducing a synthetic label and reusing that flattening.
func linearize(body *ast.CodeBlock, gen *ast.LabelGen) ([]ast.Stmt, error) {
	return linearizeBlock(body, gen)
}

func linearizeBlock(block *ast.CodeBlock, gen *ast.LabelGen) ([]ast.Stmt, error) {
	var out []ast.Stmt
	for _, s := range block.Stmts {
		expanded, err := linearizeStmt(s, gen)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func linearizeStmt(s ast.Stmt, gen *ast.LabelGen) ([]ast.Stmt, error) {
	switch n := s.(type) {
	case *ast.CodeBlock:
		return linearizeBlock(n, gen)
	case *ast.If:
		return linearizeIf(n, gen)
	case *ast.While, *ast.For:
		return nil, errors.InvariantViolation("while/for reached the CFG builder undesugared")
	default:
		return []ast.Stmt{s}, nil
	}
}

func linearizeIf(n *ast.If, gen *ast.LabelGen) ([]ast.Stmt, error) {
	// Already in canonical "if cond goto T" shape: no flattening needed,
	// resolution happens in the block builder.
	if g, ok := n.Body.(*ast.Goto); ok {
		return []ast.Stmt{&ast.If{Cond: n.Cond, Body: g}}, nil
	}

	inverted, err := ast.InvertComparison(n.Cond, n.Pos)
	if err != nil {
		return nil, errors.NonInvertibleCondition(n.Pos)
	}

	bodyStmts, err := linearizeStmt(n.Body, gen)
	if err != nil {
		return nil, err
	}

	afterLabel := gen.NewLabel()

	out := make([]ast.Stmt, 0, len(bodyStmts)+2)
	out = append(out, &ast.If{Cond: inverted, Body: &ast.Goto{Label: afterLabel, Pos: ast.NoPos}})
	out = append(out, bodyStmts...)
	out = append(out, &ast.Label{Name: afterLabel, Pos: ast.NoPos})
	return out, nil
}
