package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// PosIdent captures a bare identifier together with its source span, used
// anywhere a name needs its own position tracked independently of its
// enclosing node (the scalar name in a VarDecl, for instance).
type PosIdent struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}
