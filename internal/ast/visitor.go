package ast

// Walk calls fn for s and, for compound statements, recursively for every
// statement it contains. fn is called on the way down (pre-order); returning
// false from fn skips that statement's children without stopping the walk
// entirely.
func Walk(s Stmt, fn func(Stmt) bool) {
	if s == nil || !fn(s) {
		return
	}
	switch n := s.(type) {
	case *If:
		Walk(n.Body, fn)
	case *While:
		Walk(n.Body, fn)
	case *For:
		Walk(n.Body, fn)
	case *CodeBlock:
		for _, child := range n.Stmts {
			Walk(child, fn)
		}
	}
}

// WalkExpr calls fn for x and every subexpression it contains, pre-order.
func WalkExpr(x Expr, fn func(Expr)) {
	if x == nil {
		return
	}
	fn(x)
	switch n := x.(type) {
	case *ArrayRead:
		for _, idx := range n.Index {
			WalkExpr(idx, fn)
		}
	case *Binary:
		WalkExpr(n.Left, fn)
		WalkExpr(n.Right, fn)
	case *Unary:
		WalkExpr(n.X, fn)
	}
}

// Exprs returns the immediate subexpressions referenced by a statement
// (its RHS/condition/bounds), not recursing into nested statements, so a
// caller can visit one ast.Stmt's expressions without having to know every
// variant's field layout.
func Exprs(s Stmt) []Expr {
	switch n := s.(type) {
	case *Let:
		exprs := []Expr{n.RHS}
		if al, ok := n.LHS.(*ArrayLValue); ok {
			exprs = append(exprs, al.Index...)
		}
		return exprs
	case *If:
		return []Expr{n.Cond}
	case *Print:
		return []Expr{n.Value}
	case *Input:
		if al, ok := n.Dest.(*ArrayLValue); ok {
			return al.Index
		}
		return nil
	default:
		return nil
	}
}
