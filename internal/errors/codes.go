package errors

// Error codes used across the front-end and core.
//
// Error code ranges:
// E0001-E0099: Parser/front-end errors (unresolved names, arity mismatches)
// E0100-E0199: Core invariants and construction errors

const (
	// E0001: Name resolution errors (variable or array used before declaration)
	ErrorUndefinedVariable = "E0001"

	// E0002: Duplicate declaration of a variable or label
	ErrorDuplicateDeclaration = "E0002"

	// E0003: Array used with the wrong number of subscripts, or a scalar
	// used where an array was expected (or vice versa)
	ErrorArityMismatch = "E0003"

	// E0004: Mal-typed IR: a declaration used in a context its kind
	// (scalar/array) cannot satisfy. Caught by the parser in ordinary use;
	// can also be raised directly against a hand-constructed IR.
	ErrorMalTypedIR = "E0004"

	// E0100: Unresolved label during CFG wire-up
	ErrorUnresolvedLabel = "E0100"

	// E0101: Non-invertible condition — an If whose condition is not a
	// comparison when the CFG builder must invert it
	ErrorNonInvertibleCondition = "E0101"

	// E0102: Polynomial degeneracy — evaluating a non-constant polynomial
	// as if it were constant
	ErrorPolynomialDegeneracy = "E0102"

	// E0103: Invariant violation — edge inconsistency, orphaned SSA def,
	// or any other internal contract a prior pass should have guaranteed
	ErrorInvariantViolation = "E0103"

	// W0001: Unused variable warning (diagnostic only; not a compile error)
	WarningUnusedVariable = "W0001"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedVariable:
		return "name is used but not declared"
	case ErrorDuplicateDeclaration:
		return "name is already declared in this program"
	case ErrorArityMismatch:
		return "array reference has the wrong number of subscripts"
	case ErrorMalTypedIR:
		return "declaration used in a context its kind cannot satisfy"
	case ErrorUnresolvedLabel:
		return "goto target does not name any label in this program"
	case ErrorNonInvertibleCondition:
		return "condition is not a comparison and cannot be inverted"
	case ErrorPolynomialDegeneracy:
		return "polynomial is not constant but was evaluated as one"
	case ErrorInvariantViolation:
		return "internal consistency invariant violated"
	case WarningUnusedVariable:
		return "variable is declared but never read"
	default:
		return "unknown error code"
	}
}

// IsWarning reports whether code names a warning rather than a hard error.
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the broad phase an error code belongs to.
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Front-end"
	case code >= "E0100" && code < "E0200":
		return "Core"
	case len(code) > 0 && code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
