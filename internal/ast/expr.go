// Package ast defines the per-block abstract syntax: expression nodes and
// block-content node kinds (spec.md §3), generalized from the teacher's
// expression/command/unary/binary/call node shapes (leftmike-gcode's
// parser.go) and from leftmike-basic__basic.go's Stmt-interface
// control-flow nodes (other_examples, same author's BASIC interpreter).
package ast

import "github.com/leftmike/s840d/internal/value"

// Expr is any expression node. Per spec.md §9's design note, nodes are a
// tagged union of plain structs rather than a class hierarchy; Kind lets
// the evaluator switch on node shape without type assertions on every
// node kind.
type Expr interface {
	exprNode()
}

// Literal is a constant value baked into the AST by the parser.
type Literal struct {
	Value value.Value
}

func (*Literal) exprNode() {}

// VarRef references a scalar variable by name.
type VarRef struct {
	Name string
}

func (*VarRef) exprNode() {}

// ArrayRef references one element of an array variable.
type ArrayRef struct {
	Name    string
	Indices []Expr
}

func (*ArrayRef) exprNode() {}

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBNot
)

// UnaryExpr is a unary operator applied to an operand.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv   // floating /
	OpIDiv  // DIV, integer-truncating
	OpMod   // MOD
	OpAnd   // AND
	OpOr    // OR
	OpXor   // XOR
	OpBAnd  // B_AND
	OpBOr   // B_OR
	OpBXor  // B_XOR
	OpEQ
	OpNE
	OpGT
	OpLT
	OpGE
	OpLE
)

// BinaryExpr is a binary operator applied to two operands.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// Func identifies a built-in arithmetic function.
type Func int

const (
	FnSin Func = iota
	FnCos
	FnTan
	FnAsin
	FnAcos
	FnSqrt
	FnAbs
	FnPot
	FnTrunc
	FnRound
	FnLn
	FnExp
	FnAtan2
	FnMinval
	FnMaxval
)

// CallExpr invokes a 1- or 2-argument built-in function.
type CallExpr struct {
	Fn   Func
	Args []Expr // length 1 or 2
}

func (*CallExpr) exprNode() {}
