// Package ir is the core intermediate representation: a basic-block control
// flow graph, in SSA form for scalars once the SSA builder and phi builder
// have run, and the target of the optimizer passes. Arrays are never
// SSA-renamed and keep referencing their ast.ArrayDecl directly throughout.
package ir

import (
	"ssaopt/internal/ast"
	"ssaopt/internal/poly"
)

// Program is a whole compiled unit: every basic block plus the declarations
// carried over unchanged from the structured AST.
type Program struct {
	Title   string
	Scalars []*ast.ScalarDecl
	Arrays  []*ast.ArrayDecl
	Entry   *BasicBlock
	Blocks  []*BasicBlock
}

// BasicBlock is a maximal straight-line sequence of statements ending in
// exactly one Terminator. Label is non-empty only for blocks that
// were a goto/branch target in source; synthetic blocks (e.g. the fallthrough
// continuation of a flattened If) get an empty Label and are identified by ID
// alone.
type BasicBlock struct {
	ID    int
	Label string

	Stmts []Stmt
	Term  Terminator

	Preds []*BasicBlock
	Succs []*BasicBlock

	// Phis holds one PhiDef per scalar variable with more than one reaching
	// definition live on entry to this block. Populated by internal/phi,
	// consumed by reads of SsaRead inside this block and by every optimizer
	// pass.
	Phis []*PhiDef
}

// AddSucc records a CFG edge b -> s in both directions, skipping the
// operation if the edge already exists (mirrors BasicBlockNode's use of
// std::set for successors/predecessors: the edge set has no duplicates).
func (b *BasicBlock) AddSucc(s *BasicBlock) {
	for _, existing := range b.Succs {
		if existing == s {
			return
		}
	}
	b.Succs = append(b.Succs, s)
	s.Preds = append(s.Preds, b)
}

// SsaDef is one SSA definition of a scalar variable: the value produced by
// exactly one Let (or PhiDef) in exactly one block. Arrays have no SsaDef;
// an ArrayLValue store always targets the ast.ArrayDecl directly.
type SsaDef struct {
	ID      int
	Var     *ast.ScalarDecl
	Version int
	Block   *BasicBlock

	// RefCount is the number of remaining uses of this definition; the
	// dead-code and redundant-variable passes decrement it as they delete
	// uses, and delete the defining Let once it reaches zero.
	RefCount int

	// Const holds the folded constant value once expression folding proves
	// this definition is always the same integer. Later folds substitute
	// uses of this SsaDef with ConstExpr(*Const) directly.
	Const *int64
}

// PhiDef is an SSA phi node: the value of a variable at a CFG join point,
// selecting among the definitions reaching each predecessor edge in order.
type PhiDef struct {
	Result *SsaDef
	Args   []*SsaDef // Args[i] corresponds to Block.Preds[i]
}

// Stmt is a tagged-variant IR statement: post-flattening, If/While/For no
// longer exist at this level, only Let/Print/Prompt/Input/Rem survive
// inside a block body.
type Stmt interface {
	isIRStmt()
	Dead() bool
	MarkDead()
}

type stmtBase struct{ dead bool }

func (s *stmtBase) Dead() bool  { return s.dead }
func (s *stmtBase) MarkDead()   { s.dead = true }
func (s *stmtBase) isIRStmt()   {}

// Let assigns RHS to a scalar variable or to one array element. Exactly one
// of Scalar/ArrayLHS is set. Before the SSA builder runs, Scalar.SSA is nil
// (the CFG builder knows only which decl is being written); the SSA builder
// mutates it in place to the fresh definition this Let produces, the same
// way the original's transformLetStatementToSsa replaced an IntLValueNode
// pointer with a freshly-allocated SsaIntLValueNode without rebuilding the
// statement.
type Let struct {
	stmtBase
	Scalar   *ScalarTarget
	ArrayLHS *ArrayLValue
	RHS      Expr
}

// ScalarTarget names a scalar write site. SSA starts nil and is filled in by
// the SSA builder; every pass downstream of SSA construction may assume it
// is non-nil.
type ScalarTarget struct {
	Decl *ast.ScalarDecl
	SSA  *SsaDef
}

// ArrayLValue mirrors ast.ArrayLValue but with index expressions already
// lowered to ir.Expr.
type ArrayLValue struct {
	Decl  *ast.ArrayDecl
	Index []Expr
}

// Print emits an integer followed by a newline.
type Print struct {
	stmtBase
	Value Expr
}

// Prompt emits a string literal with no trailing newline.
type Prompt struct {
	stmtBase
	Text string
}

// Input reads an integer into a scalar variable or an array element, with
// the same pre/post-SSA shape as Let.
type Input struct {
	stmtBase
	Scalar   *ScalarTarget
	ArrayLHS *ArrayLValue
}

// Rem is a retained no-op comment (never touched by any optimizer pass).
type Rem struct {
	stmtBase
	Text string
}

// Terminator ends every basic block; a Block's Succs must mirror exactly
// the blocks the Terminator can transfer control to.
type Terminator interface {
	isTerminator()
	Targets() []*BasicBlock
}

// Jump is an unconditional transfer, used for plain fallthrough and for a
// flattened goto.
type Jump struct {
	Target *BasicBlock
}

func (*Jump) isTerminator()            {}
func (j *Jump) Targets() []*BasicBlock { return []*BasicBlock{j.Target} }

// Branch is a two-way conditional transfer, the flattened form of If. Cond
// is the If's condition as lowered (an inverted comparison when the If's
// body was not a bare goto, otherwise whatever expression the source wrote)
// or a folded constant; a non-zero value takes Then.
type Branch struct {
	Cond Expr
	Then *BasicBlock
	Else *BasicBlock
}

func (*Branch) isTerminator() {}
func (b *Branch) Targets() []*BasicBlock {
	return []*BasicBlock{b.Then, b.Else}
}

// Halt is a program exit point (from ast.End); a block ending in Halt has
// no successors.
type Halt struct{}

func (*Halt) isTerminator()            {}
func (*Halt) Targets() []*BasicBlock { return nil }

// Expr is a tagged-variant IR expression.
type Expr interface {
	isIRExpr()
}

// ConstExpr is a folded or literal constant.
type ConstExpr struct{ Value int64 }

func (*ConstExpr) isIRExpr() {}

// PolyExpr carries a normalized polynomial over SsaRead-named variables,
// produced by expression folding whenever an arithmetic subtree doesn't
// reduce all the way to a single constant. Vars maps every
// monomial variable key appearing in P back to the SsaDef it folded from, so
// a later pass deleting this expression (dead-code elimination) can still
// decrement the right definitions' ref counts even though the polynomial
// itself only carries string keys.
type PolyExpr struct {
	P    poly.Polynomial
	Vars map[string]*SsaDef
}

func (*PolyExpr) isIRExpr() {}

// SsaRead reads the value produced by one SSA definition (scalar or phi
// result).
type SsaRead struct{ Def *SsaDef }

func (*SsaRead) isIRExpr() {}

// ScalarRead is the pre-SSA placeholder for a scalar read: the CFG builder
// knows only which decl is being read, not which definition reaches this
// point. The SSA builder replaces every ScalarRead with an SsaRead once it
// has computed reaching definitions; no ScalarRead should remain once that
// pass completes.
type ScalarRead struct{ Decl *ast.ScalarDecl }

func (*ScalarRead) isIRExpr() {}

// ArrayRead reads one element of an array; arrays are never SSA-renamed, so
// this always refers to the decl directly rather than to a definition.
type ArrayRead struct {
	Decl  *ast.ArrayDecl
	Index []Expr
}

func (*ArrayRead) isIRExpr() {}

// InputIntExpr is a terminal read of a decimal integer: never folded, never
// deduplicated, since it has a side effect each time it runs.
type InputIntExpr struct{}

func (*InputIntExpr) isIRExpr() {}

// BinaryExpr is a two-operand operator expression as the CFG builder
// produces it, before expression folding has run. Folding rewrites a +, -
// or * subtree over constants, SSA reads and polynomials into a PolyExpr
// (or a ConstExpr when it reduces to one); comparisons, / and % fold only
// when both operands are already constants, and any operator with an
// ArrayRead or InputIntExpr operand keeps this shape.
type BinaryExpr struct {
	Op    string // one of + - * / % = != < <= > >=
	Left  Expr
	Right Expr
}

func (*BinaryExpr) isIRExpr() {}
