package ast

import "ssaopt/token"

// Expr is a tagged-variant expression node. Only the pre-SSA, pre-CFG
// shapes live here; the core's IR model (internal/ir) adds the SSA-only
// variants (SsaRead, PolyExpr) and phi nodes (PhiDef) once the CFG/SSA
// passes run — the
// conversion from ast.Expr to ir.Expr happens once, in the CFG builder.
type Expr interface {
	isExpr()
}

// Literal is a constant integer.
type Literal struct {
	Value int64
}

func (*Literal) isExpr() {}

// VarRead reads the current value of a scalar variable (pre-SSA: just names
// the decl, with no notion of which definition reaches this point).
type VarRead struct {
	Decl *ScalarDecl
}

func (*VarRead) isExpr() {}

// ArrayRead reads one element of a 1-3 dimensional array.
type ArrayRead struct {
	Decl  *ArrayDecl
	Index []Expr // len(Index) == Decl.Rank()
}

func (*ArrayRead) isExpr() {}

// InputInt is a terminal read of a decimal integer (side-effecting; never
// folded).
type InputInt struct{}

func (*InputInt) isExpr() {}

// Binary is a two-operand operator expression.
type Binary struct {
	Op    token.TokenType // one of + - * / % = != < <= > >=
	Left  Expr
	Right Expr
}

func (*Binary) isExpr() {}

// Unary is a single-operand sign expression (+ or -).
type Unary struct {
	Op token.TokenType
	X  Expr
}

func (*Unary) isExpr() {}
