package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssaopt/internal/cfg"
	"ssaopt/internal/ir"
	"ssaopt/internal/optimize"
	"ssaopt/internal/parser"
	"ssaopt/internal/phi"
	"ssaopt/internal/ssa"
)

func compile(t *testing.T, src string) *ir.Program {
	t.Helper()

	prog, err := parser.ParseString("test", src)
	require.NoError(t, err)

	arena := ir.NewArena()
	core, err := cfg.Build(prog, arena)
	require.NoError(t, err)

	res, err := ssa.Build(core, arena)
	require.NoError(t, err)

	require.NoError(t, phi.Build(core, res, arena))

	optimize.Run(core)
	return core
}

func TestPrintConstantFoldedStraightLine(t *testing.T) {
	core := compile(t, `var
    int x
begin
    let x := 2 + 3
    print x
    end
`)
	out := Print(core)
	assert.Contains(t, out, "var")
	assert.Contains(t, out, "int x")
	assert.Contains(t, out, "print 5")
	assert.Contains(t, out, "end")
}

func TestPrintLoopHasGotoAndLabel(t *testing.T) {
	core := compile(t, `var
    int n
begin
    while (n > 0)
        let n := n - 1
    endwhile
    print n
    end
`)
	out := Print(core)
	assert.Contains(t, out, "label")
	assert.Contains(t, out, "goto")
}

func TestPrintArrayAndInput(t *testing.T) {
	core := compile(t, `var
    int n
    list a[3]
begin
    input n
    let a[0] := n
    print a[0]
    end
`)
	out := Print(core)
	assert.Contains(t, out, "list[3] a")
	assert.Contains(t, out, "input n")
	assert.Contains(t, out, "a[0]")
}
