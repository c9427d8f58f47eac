package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"ssaopt/internal/ast"
)

func TestErrorReporter(t *testing.T) {
	source := `var
    int x
begin
    print x
end`

	reporter := NewErrorReporter("test.ssa", source)

	err := UndefinedVariable("y", ast.Position{Line: 4, Column: 11}, []string{"x"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedVariable+"]")
	assert.Contains(t, formatted, "undefined name")
	assert.Contains(t, formatted, "'y'")
	assert.Contains(t, formatted, "test.ssa:4:11")
	assert.Contains(t, formatted, "did you mean")
	assert.Contains(t, formatted, "'x'")
}

func TestUndefinedVariableError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := UndefinedVariable("totl", pos, []string{"total"})
	assert.Equal(t, ErrorUndefinedVariable, err.Code)
	assert.Contains(t, err.Message, "totl")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'total'")

	err = UndefinedVariable("xyz", pos, nil)
	assert.Len(t, err.Suggestions, 0)
	assert.Len(t, err.Notes, 1)
}

func TestUnresolvedLabelError(t *testing.T) {
	pos := ast.Position{Line: 10, Column: 5}
	err := UnresolvedLabel("loop", pos)
	assert.Equal(t, ErrorUnresolvedLabel, err.Code)
	assert.Contains(t, err.Message, "'loop'")
	assert.Len(t, err.Notes, 1)
}

func TestNonInvertibleConditionError(t *testing.T) {
	pos := ast.Position{Line: 2, Column: 4}
	err := NonInvertibleCondition(pos)
	assert.Equal(t, ErrorNonInvertibleCondition, err.Code)
	assert.NotEmpty(t, err.HelpText)
}

func TestInvariantViolationHasNoPos(t *testing.T) {
	err := InvariantViolation("dangling predecessor edge")
	assert.Equal(t, ErrorInvariantViolation, err.Code)
	assert.Equal(t, ast.NoPos, err.Position)
}

func TestWarningFormatting(t *testing.T) {
	source := `let unused := 42`
	reporter := NewErrorReporter("test.ssa", source)

	err := UnusedVariable("unused", ast.Position{Line: 1, Column: 5})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning[W0001]")
	assert.Contains(t, formatted, "never read")
}

func TestErrorMarkerCreation(t *testing.T) {
	source := `let variable := value`
	reporter := NewErrorReporter("test.ssa", source)

	marker := reporter.createMarker(5, 8, Error)

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces)
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets)
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("hello", "hello"))
	assert.Equal(t, 1, editDistance("hello", "hallo"))
	assert.Equal(t, 1, editDistance("hello", "helo"))
	assert.Equal(t, 5, editDistance("hello", ""))
	assert.Equal(t, 3, editDistance("kitten", "sitting"))
}

func TestFindSimilarNames(t *testing.T) {
	candidates := []string{"balance", "amount", "total", "balanceOf", "xyz"}

	similar := FindSimilarNames("balace", candidates)
	assert.Contains(t, similar, "balance")
	assert.NotContains(t, similar, "xyz")

	similar = FindSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewErrorReporter("test.ssa", source)
	pos := ast.Position{Line: 1, Column: 1}

	errorErr := CompilerError{Level: Error, Message: "test error", Position: pos}
	warningErr := CompilerError{Level: Warning, Message: "test warning", Position: pos}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}
