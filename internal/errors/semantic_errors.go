package errors

import (
	"fmt"
	"strings"

	"ssaopt/internal/ast"
)

// CompilerErrorBuilder provides a fluent interface for constructing errors
// with suggestions, notes, and help text.
type CompilerErrorBuilder struct {
	err CompilerError
}

// NewError starts a new hard-error builder.
func NewError(code, message string, pos ast.Position) *CompilerErrorBuilder {
	return &CompilerErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning starts a new warning builder.
func NewWarning(code, message string, pos ast.Position) *CompilerErrorBuilder {
	return &CompilerErrorBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

func (b *CompilerErrorBuilder) WithLength(length int) *CompilerErrorBuilder {
	b.err.Length = length
	return b
}

func (b *CompilerErrorBuilder) WithSuggestion(message string) *CompilerErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

func (b *CompilerErrorBuilder) WithNote(note string) *CompilerErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *CompilerErrorBuilder) WithHelp(help string) *CompilerErrorBuilder {
	b.err.HelpText = help
	return b
}

func (b *CompilerErrorBuilder) Build() CompilerError {
	return b.err
}

// Error kind constructors

// UndefinedVariable reports a name used but never declared.
func UndefinedVariable(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewError(ErrorUndefinedVariable, fmt.Sprintf("undefined name '%s'", name), pos).
		WithLength(len(name))

	if len(similarNames) == 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	} else if len(similarNames) > 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similarNames, "', '")))
	} else {
		builder = builder.WithNote("names must appear in the 'var' block before use")
	}

	return builder.Build()
}

// DuplicateDeclaration reports a var or label name declared more than once.
func DuplicateDeclaration(name string, pos, firstPos ast.Position) CompilerError {
	return NewError(ErrorDuplicateDeclaration, fmt.Sprintf("'%s' is already declared", name), pos).
		WithLength(len(name)).
		WithNote(fmt.Sprintf("first declared at %s", firstPos.String())).
		Build()
}

// ArityMismatch reports an array reference with the wrong subscript count,
// or a scalar/array used in the other's context.
func ArityMismatch(name string, want, got int, pos ast.Position) CompilerError {
	return NewError(ErrorArityMismatch, fmt.Sprintf("'%s' takes %d subscript(s), found %d", name, want, got), pos).
		WithLength(len(name)).
		Build()
}

// MalTypedIR reports a declaration used in a context its kind cannot
// satisfy — caught by the parser in ordinary use, or raised directly
// against a hand-constructed IR.
func MalTypedIR(detail string, pos ast.Position) CompilerError {
	return NewError(ErrorMalTypedIR, fmt.Sprintf("mal-typed IR: %s", detail), pos).Build()
}

// UnresolvedLabel reports a Goto whose target label has no matching Label
// anywhere in the program.
func UnresolvedLabel(label string, pos ast.Position) CompilerError {
	return NewError(ErrorUnresolvedLabel, fmt.Sprintf("goto target '%s' is not defined", label), pos).
		WithLength(len(label)).
		WithNote("labels are resolved against the whole program, not just the enclosing block").
		Build()
}

// NonInvertibleCondition reports an If whose condition is not one of the six
// comparison operators at a point where the CFG builder must invert it.
func NonInvertibleCondition(pos ast.Position) CompilerError {
	return NewError(ErrorNonInvertibleCondition, "condition is not a comparison and cannot be inverted", pos).
		WithHelp("rewrite the condition as a comparison, e.g. 'x != 0' instead of a bare variable").
		Build()
}

// PolynomialDegeneracy reports an attempt to read the constant value of a
// polynomial that is not in fact constant. This is always an
// internal-caller error, never a user diagnostic, but still carries a
// position when one is available for the expression being folded.
func PolynomialDegeneracy(expr string, pos ast.Position) CompilerError {
	return NewError(ErrorPolynomialDegeneracy, fmt.Sprintf("'%s' is not constant", expr), pos).Build()
}

// InvariantViolation reports a consistency check that a prior pass should
// have guaranteed but didn't: edge inconsistency, an orphaned SSA
// definition, or a similar internal contract break. Fatal; indicates a bug
// in this compiler, not in the input program.
func InvariantViolation(detail string) CompilerError {
	return NewError(ErrorInvariantViolation, fmt.Sprintf("invariant violation: %s", detail), ast.NoPos).Build()
}

// UnusedVariable builds the W0001 warning for a declared scalar that is
// never read after optimization.
func UnusedVariable(name string, pos ast.Position) CompilerError {
	return NewWarning(WarningUnusedVariable, fmt.Sprintf("variable '%s' is declared but never read", name), pos).
		WithLength(len(name)).
		Build()
}

// FindSimilarNames returns every candidate within edit distance 2 of name,
// for "did you mean" suggestions.
func FindSimilarNames(name string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if editDistance(name, c) <= 2 {
			out = append(out, c)
		}
	}
	return out
}

func editDistance(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
