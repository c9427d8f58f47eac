package parser

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"ssaopt/grammar"
	"ssaopt/internal/ast"
	"ssaopt/internal/errors"
	"ssaopt/token"
)

// converter threads the declaration namespace and the shared synthetic
// label generator through a single pass over a grammar.Program.
type converter struct {
	scalars     map[string]*ast.ScalarDecl
	arrays      map[string]*ast.ArrayDecl
	scalarOrder []*ast.ScalarDecl
	arrayOrder  []*ast.ArrayDecl
	labels      map[string]ast.Position
	gen         ast.LabelGen
}

func convert(cst *grammar.Program) (*ast.Program, error) {
	c := &converter{
		scalars: map[string]*ast.ScalarDecl{},
		arrays:  map[string]*ast.ArrayDecl{},
		labels:  map[string]ast.Position{},
	}

	for _, v := range cst.Vars {
		if err := c.declareVar(v); err != nil {
			return nil, err
		}
	}

	body, err := c.convertBlock(cst.Stmts)
	if err != nil {
		return nil, err
	}

	title := ""
	if cst.Title != nil {
		title, err = unquote(*cst.Title)
		if err != nil {
			return nil, err
		}
	}

	return &ast.Program{
		Title:   title,
		Scalars: c.scalarOrder,
		Arrays:  c.arrayOrder,
		Body:    body,
	}, nil
}

func (c *converter) declareVar(v *grammar.VarDecl) error {
	switch {
	case v.Scalar != nil:
		name := v.Scalar.Value
		pos := posOf(v.Scalar.Pos)
		if prior, ok := c.declPos(name); ok {
			return errors.DuplicateDeclaration(name, pos, prior)
		}
		d := &ast.ScalarDecl{Name: name, Pos: pos}
		c.scalars[name] = d
		c.scalarOrder = append(c.scalarOrder, d)
		return nil
	case v.Array != nil:
		name := v.Array.Name
		pos := posOf(v.Array.Pos)
		if prior, ok := c.declPos(name); ok {
			return errors.DuplicateDeclaration(name, pos, prior)
		}
		if len(v.Array.Dims) > 3 {
			return errors.NewError(errors.ErrorArityMismatch,
				"array '"+name+"' declares more than 3 dimensions", pos).Build()
		}
		d := &ast.ArrayDecl{Name: name, Pos: pos, Dims: v.Array.Dims}
		c.arrays[name] = d
		c.arrayOrder = append(c.arrayOrder, d)
		return nil
	default:
		return errors.InvariantViolation("VarDecl with neither Scalar nor Array populated")
	}
}

func (c *converter) declPos(name string) (ast.Position, bool) {
	if d, ok := c.scalars[name]; ok {
		return d.Pos, true
	}
	if d, ok := c.arrays[name]; ok {
		return d.Pos, true
	}
	return ast.Position{}, false
}

func (c *converter) convertBlock(stmts []*grammar.Stmt) (*ast.CodeBlock, error) {
	block := &ast.CodeBlock{}
	for _, s := range stmts {
		stmt, err := c.convertStmt(s)
		if err != nil {
			return nil, err
		}
		block.Add(stmt)
	}
	return block, nil
}

func (c *converter) convertStmt(s *grammar.Stmt) (ast.Stmt, error) {
	switch {
	case s.Let != nil:
		lhs, err := c.convertLValue(s.Let.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := c.convertExpr(s.Let.RHS)
		if err != nil {
			return nil, err
		}
		return &ast.Let{LHS: lhs, RHS: rhs}, nil

	case s.Goto != nil:
		return &ast.Goto{Label: s.Goto.Label, Pos: posOf(s.Goto.Pos)}, nil

	case s.Label != nil:
		name := s.Label.Name
		pos := posOf(s.Label.Pos)
		if prior, ok := c.labels[name]; ok {
			return nil, errors.DuplicateDeclaration(name, pos, prior)
		}
		c.labels[name] = pos
		return &ast.Label{Name: name, Pos: pos}, nil

	case s.If != nil:
		cond, err := c.convertExpr(s.If.Cond)
		if err != nil {
			return nil, err
		}
		body, err := c.convertStmt(s.If.Body)
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Body: body, Pos: posOf(s.If.Pos)}, nil

	case s.While != nil:
		cond, err := c.convertExpr(s.While.Cond)
		if err != nil {
			return nil, err
		}
		body, err := c.convertBlock(s.While.Body)
		if err != nil {
			return nil, err
		}
		return ast.DesugarWhile(&ast.While{Cond: cond, Body: body}, &c.gen), nil

	case s.For != nil:
		v, err := c.convertLValue(s.For.Var)
		if err != nil {
			return nil, err
		}
		lo, err := c.convertExpr(s.For.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := c.convertExpr(s.For.Hi)
		if err != nil {
			return nil, err
		}
		step := ast.Expr(&ast.Literal{Value: 1})
		if s.For.Step != nil {
			step, err = c.convertExpr(s.For.Step)
			if err != nil {
				return nil, err
			}
		}
		body, err := c.convertBlock(s.For.Body)
		if err != nil {
			return nil, err
		}
		return ast.DesugarFor(&ast.For{Var: v, Lo: lo, Hi: hi, Step: step, Body: body}, &c.gen), nil

	case s.Print != nil:
		value, err := c.convertExpr(s.Print.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Print{Value: value}, nil

	case s.Prompt != nil:
		text, err := unquote(s.Prompt.Text)
		if err != nil {
			return nil, err
		}
		return &ast.Prompt{Text: text}, nil

	case s.Input != nil:
		dest, err := c.convertLValue(s.Input.Dest)
		if err != nil {
			return nil, err
		}
		return &ast.Input{Dest: dest}, nil

	case s.Rem != nil:
		return &ast.Rem{Text: remText(s.Rem.Text)}, nil

	case s.End != nil:
		return &ast.End{}, nil

	default:
		return nil, errors.InvariantViolation("Stmt with no alternative populated")
	}
}

// convertLValue resolves a grammar.LValue's name against the declared
// scalars/arrays and checks its subscript count matches the decl's kind.
func (c *converter) convertLValue(lv *grammar.LValue) (ast.LValue, error) {
	pos := posOf(lv.Pos)
	scalar, array, err := c.resolve(lv.Name, len(lv.Index), pos)
	if err != nil {
		return nil, err
	}
	if array != nil {
		idx, err := c.convertExprs(lv.Index)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLValue{Decl: array, Index: idx}, nil
	}
	return &ast.ScalarLValue{Decl: scalar}, nil
}

func (c *converter) resolve(name string, indexCount int, pos ast.Position) (*ast.ScalarDecl, *ast.ArrayDecl, error) {
	scalar, hasScalar := c.scalars[name]
	array, hasArray := c.arrays[name]

	if !hasScalar && !hasArray {
		candidates := make([]string, 0, len(c.scalars)+len(c.arrays))
		for n := range c.scalars {
			candidates = append(candidates, n)
		}
		for n := range c.arrays {
			candidates = append(candidates, n)
		}
		return nil, nil, errors.UndefinedVariable(name, pos, errors.FindSimilarNames(name, candidates))
	}

	if hasScalar {
		if indexCount != 0 {
			return nil, nil, errors.ArityMismatch(name, 0, indexCount, pos)
		}
		return scalar, nil, nil
	}

	if indexCount != array.Rank() {
		return nil, nil, errors.ArityMismatch(name, array.Rank(), indexCount, pos)
	}
	return nil, array, nil
}

func (c *converter) convertExprs(exprs []*grammar.Expr) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(exprs))
	for i, e := range exprs {
		conv, err := c.convertExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = conv
	}
	return out, nil
}

func (c *converter) convertExpr(e *grammar.Expr) (ast.Expr, error) {
	left, err := c.convertAdditive(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == nil {
		return left, nil
	}
	right, err := c.convertAdditive(e.Right)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: token.TokenType(*e.Op), Left: left, Right: right}, nil
}

func (c *converter) convertAdditive(a *grammar.Additive) (ast.Expr, error) {
	left, err := c.convertMultiplicative(a.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range a.Ops {
		right, err := c.convertMultiplicative(op.Right)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: token.TokenType(op.Op), Left: left, Right: right}
	}
	return left, nil
}

func (c *converter) convertMultiplicative(m *grammar.Multiplicative) (ast.Expr, error) {
	left, err := c.convertUnary(m.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range m.Ops {
		right, err := c.convertUnary(op.Right)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: token.TokenType(op.Op), Left: left, Right: right}
	}
	return left, nil
}

func (c *converter) convertUnary(u *grammar.Unary) (ast.Expr, error) {
	value, err := c.convertPrimary(u.Value)
	if err != nil {
		return nil, err
	}
	if u.Minus {
		return &ast.Unary{Op: token.SUB, X: value}, nil
	}
	return value, nil
}

func (c *converter) convertPrimary(p *grammar.Primary) (ast.Expr, error) {
	switch {
	case p.Number != nil:
		return &ast.Literal{Value: *p.Number}, nil
	case p.Input:
		return &ast.InputInt{}, nil
	case p.Ref != nil:
		return c.convertRef(p.Ref)
	case p.Paren != nil:
		return c.convertExpr(p.Paren)
	default:
		return nil, errors.InvariantViolation("Primary with no alternative populated")
	}
}

// convertRef resolves a read of an lvalue-shaped reference inside an
// expression into a VarRead or ArrayRead.
func (c *converter) convertRef(lv *grammar.LValue) (ast.Expr, error) {
	pos := posOf(lv.Pos)
	scalar, array, err := c.resolve(lv.Name, len(lv.Index), pos)
	if err != nil {
		return nil, err
	}
	if array != nil {
		idx, err := c.convertExprs(lv.Index)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayRead{Decl: array, Index: idx}, nil
	}
	return &ast.VarRead{Decl: scalar}, nil
}

func posOf(p lexer.Position) ast.Position {
	return ast.Position{Line: p.Line, Column: p.Column}
}

// unquote strips the surrounding quotes and escapes from a grammar string
// literal, which the lexer captures verbatim including its quote marks.
func unquote(s string) (string, error) {
	return strconv.Unquote(s)
}

// remText strips the leading "rem" keyword and following whitespace from a
// RemStmt's raw matched text, leaving just the comment body.
func remText(raw string) string {
	rest := strings.TrimPrefix(raw, "rem")
	return strings.TrimLeft(rest, " \t")
}
