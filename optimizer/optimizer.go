// Package optimizer performs TinyLang's one optimization pass: local
// constant folding of integer arithmetic.
//
// The original C++ implementation tried to fold constants by mutating the
// BinaryExpr node a visit() method was called on, then got stuck: a
// void-returning double-dispatch visit has no way to hand a *replacement*
// node back to whichever field pointed at the old one, and the author's
// comments trail off mid-proposal rather than solve it. This package
// avoids the problem entirely by never replacing a node. Optimize walks
// the tree bottom-up and, when both operands of an integer BinaryExpr are
// themselves constant, records the folded result on that same node's
// Folded field. The tree shape is untouched; ast.BinaryExpr.Folded is the
// contract the emitter reads to skip re-emitting Left/Op/Right.
package optimizer

import "github.com/tinylang/tlc/ast"

// Optimize folds constant integer subexpressions throughout prog in
// place.
func Optimize(prog *ast.Program) {
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			optimizeBlock(d.Body)
		case ast.Stmt:
			optimizeStmt(d)
		}
	}
}

func optimizeBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Stmts {
		optimizeStmt(stmt)
	}
}

func optimizeStmt(stmt ast.Stmt) {
	switch st := stmt.(type) {
	case *ast.VarDecl:
		optimizeExpr(st.Initializer)
	case *ast.TypedVarDecl:
		if st.ArraySize != nil {
			optimizeExpr(st.ArraySize)
		}
		if st.Initializer != nil {
			optimizeExpr(st.Initializer)
		}
	case *ast.AssignStmt:
		if st.Index != nil {
			optimizeExpr(st.Index)
		}
		optimizeExpr(st.Value)
	case *ast.PrintStmt:
		optimizeExpr(st.Expr)
	case *ast.ExprStmt:
		optimizeExpr(st.Expr)
	case *ast.Block:
		optimizeBlock(st)
	case *ast.IfStmt:
		optimizeExpr(st.Cond)
		optimizeBlock(st.Then)
		if st.Else != nil {
			optimizeStmt(st.Else)
		}
	case *ast.ForStmt:
		if st.Init != nil {
			optimizeStmt(st.Init)
		}
		if st.Cond != nil {
			optimizeExpr(st.Cond)
		}
		if st.Update != nil {
			optimizeStmt(st.Update)
		}
		optimizeBlock(st.Body)
	case *ast.ReturnStmt:
		if st.Value != nil {
			optimizeExpr(st.Value)
		}
	}
}

// optimizeExpr recurses into expr's subexpressions and, for an integer
// BinaryExpr whose operands are both constant after folding, annotates
// Folded with the computed result. Division and modulo by a literal zero
// are left unfolded: that's a runtime error in the generated program, not
// a compile-time one, and folding it would move when it is reported.
func optimizeExpr(expr ast.Expr) {
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok {
		if un, ok := expr.(*ast.UnaryExpr); ok {
			optimizeExpr(un.Operand)
		}
		if call, ok := expr.(*ast.CallExpr); ok {
			for _, arg := range call.Args {
				optimizeExpr(arg)
			}
		}
		if access, ok := expr.(*ast.ArrayAccess); ok {
			optimizeExpr(access.Index)
		}
		return
	}

	optimizeExpr(bin.Left)
	optimizeExpr(bin.Right)

	left, ok := constantInt(bin.Left)
	if !ok {
		return
	}
	right, ok := constantInt(bin.Right)
	if !ok {
		return
	}

	var result int64
	switch bin.Op {
	case "+":
		result = left + right
	case "-":
		result = left - right
	case "*":
		result = left * right
	case "/":
		if right == 0 {
			return
		}
		result = left / right
	case "%":
		if right == 0 {
			return
		}
		result = left % right
	default:
		return
	}

	bin.Folded = &result
}

// constantInt reports the integer value of expr if it is either a literal
// or a previously folded BinaryExpr.
func constantInt(expr ast.Expr) (int64, bool) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return e.Value, true
	case *ast.BinaryExpr:
		if e.Folded != nil {
			return *e.Folded, true
		}
	}
	return 0, false
}
