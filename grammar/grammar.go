package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is a whole parsed source file: an optional title, an optional
// var section declaring every scalar and array, and the begin body's
// statements. An end statement is parsed like any other statement; the
// grammar does not require the body to finish with one.
type Program struct {
	Pos    lexer.Position
	Title  *string    `("title" @String)?`
	Vars   []*VarDecl `("var" @@+)?`
	Stmts  []*Stmt    `"begin" @@*`
	EndPos lexer.Position
}

// VarDecl is one declaration inside the var section: either a scalar
// "int x" or an array "list a[3]" / "list m[3][4]".
type VarDecl struct {
	Pos    lexer.Position
	Scalar *PosIdent     `(  "int" @@`
	Array  *ArrayVarDecl ` | "list" @@ )`
	EndPos lexer.Position
}

// ArrayVarDecl names an array and its 1-3 bracketed dimension extents.
type ArrayVarDecl struct {
	Pos    lexer.Position
	Name   string `@Ident`
	Dims   []int  `("[" @Integer "]")+`
	EndPos lexer.Position
}

// Stmt is one statement inside a begin/end body or a loop body. Exactly one
// field is populated; Let is tried last since, unlike every other
// alternative, it has no leading keyword to disambiguate on.
type Stmt struct {
	Pos    lexer.Position
	Label  *LabelStmt  `(  @@`
	Goto   *GotoStmt   ` | @@`
	If     *IfStmt     ` | @@`
	While  *WhileStmt  ` | @@`
	For    *ForStmt    ` | @@`
	Print  *PrintStmt  ` | @@`
	Prompt *PromptStmt ` | @@`
	Input  *InputStmt  ` | @@`
	Rem    *RemStmt    ` | @@`
	End    *EndStmt    ` | @@`
	Let    *LetStmt    ` | @@ )`
	EndPos lexer.Position
}

// LetStmt assigns the value of Expr to LValue: "let x := expr".
type LetStmt struct {
	Pos    lexer.Position
	LHS    *LValue `"let" @@`
	RHS    *Expr   `":=" @@`
	EndPos lexer.Position
}

// GotoStmt unconditionally transfers control to a label: "goto L".
type GotoStmt struct {
	Pos    lexer.Position
	Label  string `"goto" @Ident`
	EndPos lexer.Position
}

// LabelStmt marks a jump target: "label L".
type LabelStmt struct {
	Pos    lexer.Position
	Name   string `"label" @Ident`
	EndPos lexer.Position
}

// IfStmt is a single-statement-body conditional with no else:
// "if (cond) then <stmt>".
type IfStmt struct {
	Pos    lexer.Position
	Cond   *Expr `"if" "(" @@ ")"`
	Body   *Stmt `"then" @@`
	EndPos lexer.Position
}

// WhileStmt loops its body while Cond is non-zero: "while (cond) ... endwhile".
type WhileStmt struct {
	Pos    lexer.Position
	Cond   *Expr   `"while" "(" @@ ")"`
	Body   []*Stmt `@@* "endwhile"`
	EndPos lexer.Position
}

// ForStmt counts Var from Lo to Hi, stepping by Step (default 1 when the
// optional "by" clause is absent): "for v := lo to hi by step ... endfor".
type ForStmt struct {
	Pos    lexer.Position
	Var    *LValue `"for" @@`
	Lo     *Expr   `":=" @@`
	Hi     *Expr   `"to" @@`
	Step   *Expr   `("by" @@)?`
	Body   []*Stmt `@@* "endfor"`
	EndPos lexer.Position
}

// PrintStmt emits an integer followed by a newline: "print expr".
type PrintStmt struct {
	Pos    lexer.Position
	Value  *Expr `"print" @@`
	EndPos lexer.Position
}

// PromptStmt emits a string literal with no trailing newline: prompt "...".
type PromptStmt struct {
	Pos    lexer.Position
	Text   string `"prompt" @String`
	EndPos lexer.Position
}

// InputStmt reads a decimal integer into LValue: "input x".
type InputStmt struct {
	Pos    lexer.Position
	Dest   *LValue `"input" @@`
	EndPos lexer.Position
}

// RemStmt is a retained no-op comment statement: "rem any text to end of line".
type RemStmt struct {
	Pos    lexer.Position
	Text   string `@Rem`
	EndPos lexer.Position
}

// EndStmt is the program's explicit terminator.
type EndStmt struct {
	Pos    lexer.Position
	Marker string `"end"`
	EndPos lexer.Position
}

// LValue is an assignment target: a bare scalar name, or an array name with
// 1-3 bracketed index expressions.
type LValue struct {
	Pos    lexer.Position
	Name   string  `@Ident`
	Index  []*Expr `("[" @@ "]")*`
	EndPos lexer.Position
}

// Expr is the lowest-precedence expression production: an optional single
// comparison over two additive expressions.
type Expr struct {
	Pos    lexer.Position
	Left   *Additive `@@`
	Op     *string   `( @("=" | "!=" | "<=" | ">=" | "<" | ">")`
	Right  *Additive `  @@ )?`
	EndPos lexer.Position
}

// Additive is a left-associative chain of + and - over Multiplicative terms.
type Additive struct {
	Pos    lexer.Position
	Left   *Multiplicative `@@`
	Ops    []*AddOp        `@@*`
	EndPos lexer.Position
}

type AddOp struct {
	Pos    lexer.Position
	Op     string          `@("+" | "-")`
	Right  *Multiplicative `@@`
	EndPos lexer.Position
}

// Multiplicative is a left-associative chain of * / % over Unary terms.
type Multiplicative struct {
	Pos    lexer.Position
	Left   *Unary   `@@`
	Ops    []*MulOp `@@*`
	EndPos lexer.Position
}

type MulOp struct {
	Pos    lexer.Position
	Op     string `@("*" | "/" | "%")`
	Right  *Unary `@@`
	EndPos lexer.Position
}

// Unary is an optionally negated Primary: "-x".
type Unary struct {
	Pos    lexer.Position
	Minus  bool     `@"-"?`
	Value  *Primary `@@`
	EndPos lexer.Position
}

// Primary is a terminal expression: an integer literal, a terminal read of
// input, a variable/array read, or a fully parenthesized sub-expression.
type Primary struct {
	Pos    lexer.Position
	Number *int64  `(  @Integer`
	Input  bool    ` | @"input" "(" ")"`
	Ref    *LValue ` | @@`
	Paren  *Expr   ` | "(" @@ ")" )`
	EndPos lexer.Position
}
