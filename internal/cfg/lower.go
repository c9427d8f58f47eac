package cfg

import (
	"ssaopt/internal/ast"
	"ssaopt/internal/ir"
)

// lowerStmt converts one already-linearized, non-control-transfer ast.Stmt
// into its ir.Stmt shape. Let/Input targets are left pre-SSA (ir.ScalarTarget
// with SSA == nil); internal/ssa fills SSA in later. Dead statements (marked
// by an earlier pass — never true at this stage, since the CFG builder runs
// before the optimizer) are dropped defensively.
func lowerStmt(s ast.Stmt) (ir.Stmt, error) {
	if s.Dead() {
		return nil, nil
	}
	switch n := s.(type) {
	case *ast.Let:
		lhs, err := lowerLValueTarget(n.LHS)
		if err != nil {
			return nil, err
		}
		let := &ir.Let{RHS: lowerExpr(n.RHS)}
		switch t := lhs.(type) {
		case *ir.ScalarTarget:
			let.Scalar = t
		case *ir.ArrayLValue:
			let.ArrayLHS = t
		}
		return let, nil

	case *ast.Print:
		return &ir.Print{Value: lowerExpr(n.Value)}, nil

	case *ast.Prompt:
		return &ir.Prompt{Text: n.Text}, nil

	case *ast.Input:
		lhs, err := lowerLValueTarget(n.Dest)
		if err != nil {
			return nil, err
		}
		in := &ir.Input{}
		switch t := lhs.(type) {
		case *ir.ScalarTarget:
			in.Scalar = t
		case *ir.ArrayLValue:
			in.ArrayLHS = t
		}
		return in, nil

	case *ast.Rem:
		return &ir.Rem{Text: n.Text}, nil

	default:
		return nil, nil
	}
}

// lowerLValueTarget converts an ast.LValue to either an *ir.ScalarTarget
// (SSA unset) or an *ir.ArrayLValue, returned as interface{} so the two
// call sites above can type-switch into the right Let/Input field.
func lowerLValueTarget(lv ast.LValue) (interface{}, error) {
	switch v := lv.(type) {
	case *ast.ScalarLValue:
		return &ir.ScalarTarget{Decl: v.Decl}, nil
	case *ast.ArrayLValue:
		return &ir.ArrayLValue{Decl: v.Decl, Index: lowerExprs(v.Index)}, nil
	default:
		return nil, nil
	}
}

func lowerExprs(in []ast.Expr) []ir.Expr {
	out := make([]ir.Expr, len(in))
	for i, e := range in {
		out[i] = lowerExpr(e)
	}
	return out
}

// lowerExpr converts an ast.Expr into its ir.Expr shape. Scalar reads become
// the pre-SSA ir.ScalarRead placeholder; every other shape is a direct,
// structural translation (no folding happens here — that is the optimizer's
// job).
func lowerExpr(e ast.Expr) ir.Expr {
	switch x := e.(type) {
	case *ast.Literal:
		return &ir.ConstExpr{Value: x.Value}
	case *ast.VarRead:
		return &ir.ScalarRead{Decl: x.Decl}
	case *ast.ArrayRead:
		return &ir.ArrayRead{Decl: x.Decl, Index: lowerExprs(x.Index)}
	case *ast.InputInt:
		return &ir.InputIntExpr{}
	case *ast.Binary:
		return &ir.BinaryExpr{Op: string(x.Op), Left: lowerExpr(x.Left), Right: lowerExpr(x.Right)}
	case *ast.Unary:
		// Unary +/- desugars to a binary 0 op x, so every later pass
		// (folding, printing) only ever has to handle BinaryExpr.
		zero := &ir.ConstExpr{Value: 0}
		return &ir.BinaryExpr{Op: string(x.Op), Left: zero, Right: lowerExpr(x.X)}
	default:
		return nil
	}
}
