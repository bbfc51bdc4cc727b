// Package sema type-checks a TinyLang ast.Program in two passes: the first
// collects every function's signature so mutually recursive calls resolve
// regardless of declaration order, and the second walks each body (plus
// any top-level script statements) checking types and scoping against
// those signatures.
package sema

import (
	"fmt"

	"github.com/tinylang/tlc/ast"
	"github.com/tinylang/tlc/feedback"
	"github.com/tinylang/tlc/source"
)

// funcSig is a user-defined function's resolved signature.
type funcSig struct {
	Params []ast.Param
	Return ast.Type
}

// Result carries the non-fatal diagnostics produced by a successful check.
type Result struct {
	Warnings []feedback.Warning
}

// checker holds the state threaded through a single Check call.
type checker struct {
	file     *source.File
	funcs    map[string]funcSig
	curFunc  *funcSig // nil at global scope
	warnings []feedback.Warning
}

// Check type-checks prog and returns the collected warnings, or the first
// fatal semantic error.
func Check(file *source.File, prog *ast.Program) (*Result, *feedback.Error) {
	c := &checker{file: file, funcs: make(map[string]funcSig)}

	if err := c.collectSignatures(prog); err != nil {
		return nil, err
	}

	global := newScope(nil)
	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			if err := c.checkFuncBody(fn); err != nil {
				return nil, err
			}
			continue
		}
		stmt := decl.(ast.Stmt)
		if err := c.checkStmt(stmt, global); err != nil {
			return nil, err
		}
	}

	return &Result{Warnings: c.warnings}, nil
}

// collectSignatures is the analyzer's first pass: it walks every top-level
// FuncDecl and records its parameter and return types, rejecting
// redefinitions, before any body is examined. Unlike the original
// implementation this records the function's actual declared return type
// rather than always assuming Int (see DESIGN.md open question #3).
func (c *checker) collectSignatures(prog *ast.Program) *feedback.Error {
	for _, decl := range prog.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if isBuiltin(fn.Name) {
			return c.errorf(fn.Pos(), "function %q shadows a built-in function", fn.Name)
		}
		if _, exists := c.funcs[fn.Name]; exists {
			return c.errorf(fn.Pos(), "function %q is already defined", fn.Name)
		}
		// An unspecified return type defaults to Int (spec §4.3 signature
		// pass rule #1), not Unknown: Unknown would make assignable() treat
		// every call to this function as compatible with anything.
		returnType := fn.ReturnType
		if returnType == ast.Unknown {
			returnType = ast.Int
		}
		c.funcs[fn.Name] = funcSig{Params: fn.Params, Return: returnType}
	}
	return nil
}

func (c *checker) checkFuncBody(fn *ast.FuncDecl) *feedback.Error {
	sig := c.funcs[fn.Name]
	c.curFunc = &sig
	defer func() { c.curFunc = nil }()

	fnScope := newScope(nil)
	for _, param := range fn.Params {
		fnScope.declare(param.Name, &binding{Type: param.Type, Initialized: true})
	}

	for _, stmt := range fn.Body.Stmts {
		if err := c.checkStmt(stmt, fnScope); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) checkStmt(stmt ast.Stmt, s *scope) *feedback.Error {
	switch st := stmt.(type) {
	case *ast.VarDecl:
		return c.checkVarDecl(st, s)
	case *ast.TypedVarDecl:
		return c.checkTypedVarDecl(st, s)
	case *ast.AssignStmt:
		return c.checkAssignStmt(st, s)
	case *ast.PrintStmt:
		_, err := c.checkExpr(st.Expr, s)
		return err
	case *ast.ExprStmt:
		_, err := c.checkExpr(st.Expr, s)
		return err
	case *ast.Block:
		inner := newScope(s)
		for _, innerStmt := range st.Stmts {
			if err := c.checkStmt(innerStmt, inner); err != nil {
				return err
			}
		}
		return nil
	case *ast.IfStmt:
		return c.checkIfStmt(st, s)
	case *ast.ForStmt:
		return c.checkForStmt(st, s)
	case *ast.ReturnStmt:
		return c.checkReturnStmt(st, s)
	default:
		return c.errorf(stmt.Pos(), "internal: unhandled statement %T", stmt)
	}
}

func (c *checker) checkVarDecl(decl *ast.VarDecl, s *scope) *feedback.Error {
	typ, err := c.checkExpr(decl.Initializer, s)
	if err != nil {
		return err
	}
	if redeclared := s.declare(decl.Name, &binding{Type: typ, Initialized: true}); redeclared {
		return c.errorf(decl.Pos(), "%q is already declared in this scope", decl.Name)
	}
	return nil
}

func (c *checker) checkTypedVarDecl(decl *ast.TypedVarDecl, s *scope) *feedback.Error {
	initialized := false
	if decl.Initializer != nil {
		valType, err := c.checkExpr(decl.Initializer, s)
		if err != nil {
			return err
		}
		if !assignable(decl.Type, valType) {
			return c.errorf(decl.Pos(), "cannot initialize %s %q with a value of type %s", decl.Type, decl.Name, valType)
		}
		initialized = true
	}
	if decl.IsArray && decl.ArraySize != nil {
		sizeType, err := c.checkExpr(decl.ArraySize, s)
		if err != nil {
			return err
		}
		if sizeType != ast.Int && sizeType != ast.Unknown {
			return c.errorf(decl.ArraySize.Pos(), "array size must be Int, found %s", sizeType)
		}
	}
	if redeclared := s.declare(decl.Name, &binding{Type: decl.Type, IsArray: decl.IsArray, Initialized: initialized}); redeclared {
		return c.errorf(decl.Pos(), "%q is already declared in this scope", decl.Name)
	}
	return nil
}

func (c *checker) checkAssignStmt(stmt *ast.AssignStmt, s *scope) *feedback.Error {
	b, ok := s.lookup(stmt.Target)
	if !ok {
		return c.errorf(stmt.Pos(), "undefined variable %q", stmt.Target)
	}

	if stmt.Index != nil {
		if !b.IsArray {
			return c.errorf(stmt.Pos(), "%q is not an array", stmt.Target)
		}
		idxType, err := c.checkExpr(stmt.Index, s)
		if err != nil {
			return err
		}
		if idxType != ast.Int && idxType != ast.Unknown {
			return c.errorf(stmt.Index.Pos(), "array index must be Int, found %s", idxType)
		}
	}

	valType, err := c.checkExpr(stmt.Value, s)
	if err != nil {
		return err
	}
	if !assignable(b.Type, valType) {
		return c.errorf(stmt.Pos(), "cannot assign a value of type %s to %q of type %s", valType, stmt.Target, b.Type)
	}
	b.Initialized = true
	return nil
}

func (c *checker) checkIfStmt(stmt *ast.IfStmt, s *scope) *feedback.Error {
	if _, err := c.checkExpr(stmt.Cond, s); err != nil {
		return err
	}
	if err := c.checkStmt(stmt.Then, s); err != nil {
		return err
	}
	if stmt.Else != nil {
		if err := c.checkStmt(stmt.Else, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) checkForStmt(stmt *ast.ForStmt, s *scope) *feedback.Error {
	loopScope := newScope(s)

	if stmt.Init != nil {
		if err := c.checkStmt(stmt.Init, loopScope); err != nil {
			return err
		}
	}
	if stmt.Cond != nil {
		if _, err := c.checkExpr(stmt.Cond, loopScope); err != nil {
			return err
		}
	}
	if stmt.Update != nil {
		if err := c.checkAssignStmt(stmt.Update, loopScope); err != nil {
			return err
		}
	}

	bodyScope := newScope(loopScope)
	for _, inner := range stmt.Body.Stmts {
		if err := c.checkStmt(inner, bodyScope); err != nil {
			return err
		}
	}
	return nil
}

// checkReturnStmt enforces the function's declared return type (open
// question #3): the original analyzer resolved a ReturnStmt's expression
// type but never compared it against anything.
func (c *checker) checkReturnStmt(stmt *ast.ReturnStmt, s *scope) *feedback.Error {
	if c.curFunc == nil {
		return c.errorf(stmt.Pos(), "return statement outside of a function")
	}

	if stmt.Value == nil {
		if c.curFunc.Return != ast.Void {
			return c.errorf(stmt.Pos(), "missing return value, function returns %s", c.curFunc.Return)
		}
		return nil
	}

	valType, err := c.checkExpr(stmt.Value, s)
	if err != nil {
		return err
	}

	if c.curFunc.Return == ast.Void {
		return c.errorf(stmt.Pos(), "function returns Void but a value was returned")
	}
	if !assignable(c.curFunc.Return, valType) {
		return c.errorf(stmt.Pos(), "function declared to return %s, found %s", c.curFunc.Return, valType)
	}
	return nil
}

// checkExpr resolves expr's type, recursively checking its subexpressions
// along the way.
func (c *checker) checkExpr(expr ast.Expr, s *scope) (ast.Type, *feedback.Error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return ast.Int, nil
	case *ast.FloatLiteral:
		return ast.Float, nil
	case *ast.StringLiteral:
		return ast.String, nil

	case *ast.Variable:
		b, ok := s.lookup(e.Name)
		if !ok {
			return ast.Unknown, c.errorf(e.Pos(), "undefined variable %q", e.Name)
		}
		return b.Type, nil

	case *ast.ArrayAccess:
		b, ok := s.lookup(e.Name)
		if !ok {
			return ast.Unknown, c.errorf(e.Pos(), "undefined variable %q", e.Name)
		}
		if !b.IsArray {
			return ast.Unknown, c.errorf(e.Pos(), "%q is not an array", e.Name)
		}
		idxType, err := c.checkExpr(e.Index, s)
		if err != nil {
			return ast.Unknown, err
		}
		if idxType != ast.Int && idxType != ast.Unknown {
			return ast.Unknown, c.errorf(e.Index.Pos(), "array index must be Int, found %s", idxType)
		}
		if !b.Initialized {
			c.warnings = append(c.warnings, feedback.Warning{
				Phase:   feedback.PhaseSemantic,
				File:    c.file,
				At:      e.Pos(),
				Summary: fmt.Sprintf("array %q may be read before any element is assigned", e.Name),
			})
		}
		return b.Type, nil

	case *ast.UnaryExpr:
		operandType, err := c.checkExpr(e.Operand, s)
		if err != nil {
			return ast.Unknown, err
		}
		return operandType, nil

	case *ast.BinaryExpr:
		return c.checkBinaryExpr(e, s)

	case *ast.CallExpr:
		return c.checkCallExpr(e, s)

	default:
		return ast.Unknown, c.errorf(expr.Pos(), "internal: unhandled expression %T", expr)
	}
}

// checkBinaryExpr derives a BinaryExpr's result type. String concatenation
// via "+" and numeric promotion (Float wins over Int) are checked
// strictly; comparisons always yield Int regardless of operand types,
// matching the original analyzer's permissive behavior for that operator
// class.
func (c *checker) checkBinaryExpr(e *ast.BinaryExpr, s *scope) (ast.Type, *feedback.Error) {
	leftType, err := c.checkExpr(e.Left, s)
	if err != nil {
		return ast.Unknown, err
	}
	rightType, err := c.checkExpr(e.Right, s)
	if err != nil {
		return ast.Unknown, err
	}

	switch e.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return ast.Int, nil

	case "+":
		if leftType == ast.String || rightType == ast.String {
			if leftType == ast.String && rightType == ast.String {
				return ast.String, nil
			}
			return ast.Unknown, c.errorf(e.Pos(), "operator + requires both operands to be String when either is a String")
		}
		return numericResult(leftType, rightType, e.Pos(), c)

	default: // "-", "*", "/", "%"
		if leftType == ast.String || rightType == ast.String {
			return ast.Unknown, c.errorf(e.Pos(), "operator %s does not support String operands", e.Op)
		}
		return numericResult(leftType, rightType, e.Pos(), c)
	}
}

func numericResult(left, right ast.Type, pos source.Pos, c *checker) (ast.Type, *feedback.Error) {
	if left == ast.Unknown || right == ast.Unknown {
		return ast.Unknown, nil
	}
	if left != ast.Int && left != ast.Float {
		return ast.Unknown, c.errorf(pos, "expected a numeric operand, found %s", left)
	}
	if right != ast.Int && right != ast.Float {
		return ast.Unknown, c.errorf(pos, "expected a numeric operand, found %s", right)
	}
	if left == ast.Float || right == ast.Float {
		return ast.Float, nil
	}
	return ast.Int, nil
}

func (c *checker) checkCallExpr(e *ast.CallExpr, s *scope) (ast.Type, *feedback.Error) {
	if isBuiltin(e.Callee) {
		return c.checkBuiltinCall(e, s)
	}

	sig, ok := c.funcs[e.Callee]
	if !ok {
		return ast.Unknown, c.errorf(e.Pos(), "undefined function %q", e.Callee)
	}
	if len(e.Args) != len(sig.Params) {
		return ast.Unknown, c.errorf(e.Pos(), "%q expects %d argument(s), found %d", e.Callee, len(sig.Params), len(e.Args))
	}
	for i, arg := range e.Args {
		argType, err := c.checkExpr(arg, s)
		if err != nil {
			return ast.Unknown, err
		}
		// Int -> Float promotion applies to call arguments the same way
		// it applies to assignment (DESIGN.md open question #6).
		if !assignable(sig.Params[i].Type, argType) {
			return ast.Unknown, c.errorf(arg.Pos(), "argument %d to %q: cannot use %s as %s", i+1, e.Callee, argType, sig.Params[i].Type)
		}
	}
	return sig.Return, nil
}

func (c *checker) checkBuiltinCall(e *ast.CallExpr, s *scope) (ast.Type, *feedback.Error) {
	sig := builtins[e.Callee]
	if len(e.Args) != len(sig.Params) {
		return ast.Unknown, c.errorf(e.Pos(), "%q expects %d argument(s), found %d", e.Callee, len(sig.Params), len(e.Args))
	}
	for i, arg := range e.Args {
		argType, err := c.checkExpr(arg, s)
		if err != nil {
			return ast.Unknown, err
		}
		want := sig.Params[i]
		if want != ast.Unknown && !assignable(want, argType) {
			return ast.Unknown, c.errorf(arg.Pos(), "argument %d to %q: cannot use %s as %s", i+1, e.Callee, argType, want)
		}
	}
	return sig.Return, nil
}

// assignable reports whether a value of type from may be stored into a
// binding declared as type to. Int widens to Float; Unknown is compatible
// with everything since it marks an untyped parameter.
func assignable(to, from ast.Type) bool {
	if to == from || to == ast.Unknown || from == ast.Unknown {
		return true
	}
	return to == ast.Float && from == ast.Int
}

func (c *checker) errorf(pos source.Pos, format string, args ...any) *feedback.Error {
	return &feedback.Error{
		Phase:   feedback.PhaseSemantic,
		File:    c.file,
		At:      pos,
		Summary: fmt.Sprintf(format, args...),
	}
}
