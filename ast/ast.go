// Package ast defines TinyLang's abstract syntax tree. Every node below
// Program carries the source position of its first token, except a
// BinaryExpr, which carries the position of its operator token; Program
// itself carries no position. A parent exclusively owns its
// children, there are no back-pointers, and nodes are mutated only by the
// semantic analyzer (type/initialization bookkeeping kept in the symbol
// table, not on the tree) and the optimizer (constant-fold annotations).
package ast

import "github.com/tinylang/tlc/source"

// Node is implemented by every AST node.
type Node interface {
	Pos() source.Pos
}

// Expr is a node that yields a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a node that does not necessarily yield a value.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a top-level function declaration. A "global" statement used in
// script mode is represented directly as a Stmt in Program.Decls instead.
type Decl interface {
	Node
}

// node is embedded in every concrete node type to provide Pos().
type node struct {
	At source.Pos
}

func (n node) Pos() source.Pos { return n.At }

type exprBase struct{ node }

func (exprBase) exprNode() {}

type stmtBase struct{ node }

func (stmtBase) stmtNode() {}

// Program is the root of the tree and exclusively owns every top-level
// declaration, in source order.
type Program struct {
	node
	Decls []Decl
}

// Type is the closed set of TinyLang types.
type Type string

const (
	Int     Type = "Int"
	Float   Type = "Float"
	String  Type = "String"
	Void    Type = "Void"
	Unknown Type = "Unknown"
)

// ---- Expressions -----------------------------------------------------

// IntegerLiteral is a whole-number literal.
type IntegerLiteral struct {
	exprBase
	Value int64
}

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	exprBase
	Value float64
}

// StringLiteral is a double-quoted string literal with escapes already
// resolved by the lexer.
type StringLiteral struct {
	exprBase
	Value string
}

// Variable is a reference to a named binding.
type Variable struct {
	exprBase
	Name string
}

// UnaryExpr applies a prefix operator ("-" or "!") to Operand.
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expr
}

// BinaryExpr applies an infix operator to Left and Right. Folded, when
// non-nil, holds the optimizer's constant-folded integer result; the
// emitter must prefer it over re-emitting Left/Op/Right.
type BinaryExpr struct {
	exprBase
	Op     string
	Left   Expr
	Right  Expr
	Folded *int64
}

// CallExpr invokes a built-in or user-defined function by name.
type CallExpr struct {
	exprBase
	Callee string
	Args   []Expr
}

// ArrayAccess reads a single element of an array variable.
type ArrayAccess struct {
	exprBase
	Name  string
	Index Expr
}

// ---- Statements -------------------------------------------------------

// VarDecl is an inferred binding: "let name = expr;"
type VarDecl struct {
	stmtBase
	Name        string
	Initializer Expr
}

// TypedVarDecl is an explicitly-typed binding, optionally sized as an
// array and optionally initialized: "TYPE [ [ size ] ] name [ = init ];"
type TypedVarDecl struct {
	stmtBase
	Name        string
	Type        Type
	IsArray     bool
	ArraySize   Expr // nil if absent, even when IsArray is true
	Initializer Expr
}

// AssignStmt assigns Value to Target, or to Target[Index] when Index is
// non-nil.
type AssignStmt struct {
	stmtBase
	Target string
	Index  Expr // nil for a plain variable assignment
	Value  Expr
}

// PrintStmt emits Expr's value; Newline selects print vs. println.
type PrintStmt struct {
	stmtBase
	Expr    Expr
	Newline bool
}

// ExprStmt evaluates an expression for its side effects and discards the
// result.
type ExprStmt struct {
	stmtBase
	Expr Expr
}

// Block is an ordered sequence of statements that introduces a lexical
// scope.
type Block struct {
	stmtBase
	Stmts []Stmt
}

// IfStmt is a conditional. Else may be either a *Block or, when the source
// wrote "else if", another *IfStmt (see DESIGN.md open question #2).
type IfStmt struct {
	stmtBase
	Cond Expr
	Then *Block
	Else Stmt // *Block, *IfStmt, or nil
}

// ForStmt is a counted loop. Init, Cond and Update are each optional.
type ForStmt struct {
	stmtBase
	Init   Stmt // *VarDecl, *TypedVarDecl, *AssignStmt, or nil
	Cond   Expr
	Update *AssignStmt
	Body   *Block
}

// ReturnStmt optionally carries a value back from the enclosing function.
type ReturnStmt struct {
	stmtBase
	Value Expr
}

// ---- Top level ---------------------------------------------------------

// Param is a single function parameter. Type is Unknown when the source
// left it untyped, in which case it is inferred at the call site.
type Param struct {
	Type Type
	Name string
}

// FuncDecl is a named function definition with ordered parameters and an
// optional declared return type (Unknown when omitted).
type FuncDecl struct {
	node
	Name       string
	Params     []Param
	ReturnType Type
	Body       *Block
}

func (FuncDecl) stmtNode() {}
