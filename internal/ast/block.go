package ast

// CoordType selects an address's coordinate interpretation in a block
// (spec.md §3's "coord-type" field).
type CoordType int

const (
	DEFAULT CoordType = iota // follow modal G90/G91
	AC                       // absolute, this block only
	IC                       // incremental, this block only
)

// Node is any block-content node (spec.md §3's AST node kinds table).
// Like Expr, this is a closed tagged union of plain structs.
type Node interface {
	nodeKind()
}

// AddressAssign assigns an expression to one axis/address letter, with
// an optional per-block coordinate-type override.
type AddressAssign struct {
	Letter    byte
	Value     Expr
	CoordType CoordType
}

func (*AddressAssign) nodeKind() {}

// ExtAddressAssign is the extended form G[n]=v / D[n]=v: an address whose
// extension (group/tool number, ...) is itself an expression.
type ExtAddressAssign struct {
	Letter    byte
	Extension Expr
	Value     Expr
}

func (*ExtAddressAssign) nodeKind() {}

// LValue is the target of an LValueAssign: a plain variable or one
// element of an array.
type LValue struct {
	Name    string
	Indices []Expr // nil for a scalar target
}

// LValueAssign assigns an expression's value to a variable or array
// element (R1=5, POS[X]=10, ...).
type LValueAssign struct {
	Target LValue
	Value  Expr
}

func (*LValueAssign) nodeKind() {}

// GCommandKind enumerates the named G-commands that are not plain
// numeric G-codes (TRANS, ROT, CIP, the SPLINE family, ...).
type GCommandKind int

const (
	GCTrans GCommandKind = iota
	GCATrans
	GCRot
	GCARot
	GCScale
	GCAScale
	GCMirror
	GCAMirror
	GCCip
	GCSpline
	GCASpline
	GCBSpline
	GCCSpline
)

// GCommand is a named G-command block-content node; it writes to a
// specific modal group (frame group 3 for TRANS/ROT/..., motion group 1
// for CIP/splines).
type GCommand struct {
	Kind GCommandKind
}

func (*GCommand) nodeKind() {}

// TurnSpec is the "TURN=n" extension on a G2/G3 block: the number of full
// revolutions to trace before the helix's or arc's closing partial turn
// (spec.md §4.6's arc/helix construction step).
type TurnSpec struct {
	Value Expr
}

func (*TurnSpec) nodeKind() {}

// RadiusSpec is the "CR=r" extension on a G2/G3 block: build the arc from
// its radius instead of from an I/J/K center (spec.md §4.6's arc
// construction step).
type RadiusSpec struct {
	Value Expr
}

func (*RadiusSpec) nodeKind() {}

// GotoKind enumerates the four GOTO forms of spec.md §4.6.
type GotoKind int

const (
	Goto GotoKind = iota
	GotoB
	GotoF
	GotoC
)

// GotoStmt is an unconditional jump to a label or block number.
type GotoStmt struct {
	Kind   GotoKind
	Target Expr // STRING literal/expression naming the label or block number
}

func (*GotoStmt) nodeKind() {}

// ConditionalGotoStmt is "IF <expr> GOTOx <target>", optionally chained
// to a following conditional GOTO evaluated only if this one's condition
// is false (spec.md §4.6's conditional GOTO chain).
type ConditionalGotoStmt struct {
	Condition Expr
	Goto      *GotoStmt
	Next      *ConditionalGotoStmt
}

func (*ConditionalGotoStmt) nodeKind() {}

// ForStmt opens a FOR loop: "FOR <var>=<init> TO <bound>". Var is an
// LValue rather than a bare name so that the R-parameter shorthand
// (FOR R1=1 TO 3, sugar for the R array's element 1) uses the same
// target shape as LValueAssign.
type ForStmt struct {
	Var   LValue
	Init  Expr
	Bound Expr
}

func (*ForStmt) nodeKind() {}

// EndForStmt closes the matching FOR at the same nesting level.
type EndForStmt struct{}

func (*EndForStmt) nodeKind() {}

// IfStmt opens a conditional: "IF <expr>".
type IfStmt struct {
	Condition Expr
}

func (*IfStmt) nodeKind() {}

// ElseStmt marks the else branch of the innermost open IfStmt.
type ElseStmt struct{}

func (*ElseStmt) nodeKind() {}

// EndIfStmt closes the matching IfStmt/ElseStmt at the same nesting level.
type EndIfStmt struct{}

func (*EndIfStmt) nodeKind() {}

// ScalarDef is one scalar declared within a DEF statement, with an
// optional initializer.
type ScalarDef struct {
	Name string
	Init Expr // nil if uninitialized
}

// ArrayDef is one array declared within a DEF statement.
type ArrayDef struct {
	Name string
	Dims []Expr // 1-3 dimension-size expressions
}

// DefStmt declares one or more scalars and/or arrays of a single element
// type (spec.md §3's DefStmt).
type DefStmt struct {
	ElementType byte // 'I' INT, 'R' REAL, 'B' BOOL, 'C' CHAR, 'S' STRING, per S840D DEF keywords
	Scalars     []ScalarDef
	Arrays      []ArrayDef
}

func (*DefStmt) nodeKind() {}

// BlockNumberKind distinguishes ':' main blocks from 'N' regular blocks.
type BlockNumberKind int

const (
	Regular BlockNumberKind = iota
	Main
)

// BlockNumber is a block's optional leading number (spec.md §3).
type BlockNumber struct {
	Digits string
	Kind   BlockNumberKind
}

// Block is one fully parsed source line: its content nodes plus the
// lexical metadata the pre-pass extracts (spec.md §3's "Parsed block").
// skipLevel and nestingLevel share storage conceptually but are kept as
// separate fields here for clarity; exactly one is meaningful per the
// IsControlStructure rule below.
type Block struct {
	Source      string // original source line, for diagnostics
	Content     []Node
	Number      *BlockNumber
	Label       string
	SkipLevel   int // -1 if none, >=0 if "/n"
	IsControl   bool
	NestingLevel int
}

// IsControlStructure reports whether this block is one of the control
// nodes that carries a nesting level rather than a skip level (IF, ELSE,
// ENDIF, FOR, ENDFOR): labels and skip levels are not allowed on these
// blocks (alarm 12630).
func (b *Block) IsControlStructure() bool {
	return b.IsControl
}
