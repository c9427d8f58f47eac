package ast

// Decl is a variable declaration: a scalar integer or a fixed-size integer
// array of 1-3 dimensions. Declarations are allocated once by the parser
// and then shared by pointer identity across every reference to that
// variable.
type Decl interface {
	declName() string
	NodePos() Position
}

// ScalarDecl is a single-integer variable declaration.
//
// DefinitionCount and Eliminated are populated by the SSA builder and the
// optimizer respectively; they live on the decl itself rather than on some
// side table.
type ScalarDecl struct {
	Name            string
	Pos             Position
	DefinitionCount int
	Eliminated      bool
}

func (d *ScalarDecl) declName() string  { return d.Name }
func (d *ScalarDecl) NodePos() Position { return d.Pos }

// AddDefinition records that a new SsaDef now exists for this variable.
func (d *ScalarDecl) AddDefinition() { d.DefinitionCount++ }

// RemoveDefinition records that an SsaDef for this variable was eliminated.
func (d *ScalarDecl) RemoveDefinition() { d.DefinitionCount-- }

// ArrayDecl is a 1-, 2- or 3-dimensional fixed-size integer array. Array
// elements are never SSA-renamed: the decl carries no definition count.
type ArrayDecl struct {
	Name string
	Pos  Position
	Dims []int // len(Dims) in {1, 2, 3}, each a positive extent
}

func (d *ArrayDecl) declName() string  { return d.Name }
func (d *ArrayDecl) NodePos() Position { return d.Pos }

// Rank returns the number of dimensions (1, 2 or 3).
func (d *ArrayDecl) Rank() int { return len(d.Dims) }
