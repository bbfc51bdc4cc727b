// Package emitter renders a checked, optimized ast.Program as C++ source
// text for the native compiler the driver shells out to. Emission is
// deterministic and purely textual: no symbol table is consulted here, so
// every fact the emitter needs (a BinaryExpr's folded value, a variable's
// concrete type) must already be sitting on the tree or taken from the
// declaration in scope.
package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tinylang/tlc/ast"
)

const preamble = `#include <iostream>
#include <string>
#include <vector>
#include <algorithm>

static std::string _tl_input() {
    std::string s;
    std::cin >> s;
    return s;
}

static int _tl_len(const std::string& s) { return static_cast<int>(s.size()); }

static std::string _tl_substr(const std::string& s, int start, int length) {
    if (start < 0 || start >= static_cast<int>(s.size())) return "";
    return s.substr(start, length);
}

static int _tl_to_int(const std::string& s) {
    try { return std::stoi(s); } catch (...) { return 0; }
}

static double _tl_to_float(const std::string& s) {
    try { return std::stod(s); } catch (...) { return 0.0; }
}

`

// Emitter accumulates generated C++ source in a single pass.
type Emitter struct {
	out    strings.Builder
	indent int
}

// New returns an Emitter ready to render a program.
func New() *Emitter {
	return &Emitter{}
}

// Emit renders prog and returns the complete C++ translation unit.
func Emit(prog *ast.Program) string {
	e := New()
	e.out.WriteString(preamble)

	hasMain := false
	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name == "main" {
			hasMain = true
		}
	}

	// Script mode: without a func main, the top-level statements become
	// the body of a synthesized main that returns 0.
	var script []ast.Stmt
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			e.emitFuncDecl(d)
			e.out.WriteByte('\n')
		case ast.Stmt:
			if hasMain {
				e.emitStmt(d)
			} else {
				script = append(script, d)
			}
		}
	}
	if !hasMain {
		e.emitFuncDecl(&ast.FuncDecl{Name: "main", Body: &ast.Block{Stmts: script}})
	}

	return e.out.String()
}

func (e *Emitter) line(format string, args ...any) {
	e.out.WriteString(strings.Repeat("    ", e.indent))
	fmt.Fprintf(&e.out, format, args...)
	e.out.WriteByte('\n')
}

func cppType(t ast.Type) string {
	switch t {
	case ast.Int:
		return "int"
	case ast.Float:
		return "double"
	case ast.String:
		return "std::string"
	case ast.Void:
		return "void"
	default:
		return "auto"
	}
}

func (e *Emitter) emitFuncDecl(fn *ast.FuncDecl) {
	isMain := fn.Name == "main"

	retType := cppType(fn.ReturnType)
	if isMain {
		retType = "int" // a C++ program's entry point must return int
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", cppType(p.Type), p.Name)
	}

	e.line("%s %s(%s) {", retType, fn.Name, strings.Join(params, ", "))
	e.indent++
	for _, stmt := range fn.Body.Stmts {
		e.emitStmt(stmt)
	}
	if isMain && !endsInReturn(fn.Body) {
		e.line("return 0;")
	}
	e.indent--
	e.line("}")
}

func endsInReturn(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	_, ok := b.Stmts[len(b.Stmts)-1].(*ast.ReturnStmt)
	return ok
}

func (e *Emitter) emitStmt(stmt ast.Stmt) {
	switch st := stmt.(type) {
	case *ast.VarDecl:
		e.line("auto %s = %s;", st.Name, e.expr(st.Initializer))

	case *ast.TypedVarDecl:
		e.emitTypedVarDecl(st)

	case *ast.AssignStmt:
		if st.Index != nil {
			e.line("%s[%s] = %s;", st.Target, e.expr(st.Index), e.expr(st.Value))
		} else {
			e.line("%s = %s;", st.Target, e.expr(st.Value))
		}

	case *ast.PrintStmt:
		if st.Newline {
			e.line("std::cout << %s << std::endl;", e.expr(st.Expr))
		} else {
			e.line("std::cout << %s;", e.expr(st.Expr))
		}

	case *ast.ExprStmt:
		e.line("%s;", e.expr(st.Expr))

	case *ast.Block:
		e.line("{")
		e.indent++
		for _, inner := range st.Stmts {
			e.emitStmt(inner)
		}
		e.indent--
		e.line("}")

	case *ast.IfStmt:
		e.emitIfStmt(st, false)

	case *ast.ForStmt:
		e.emitForStmt(st)

	case *ast.ReturnStmt:
		if st.Value == nil {
			e.line("return;")
		} else {
			e.line("return %s;", e.expr(st.Value))
		}
	}
}

func (e *Emitter) emitTypedVarDecl(st *ast.TypedVarDecl) {
	base := cppType(st.Type)

	if st.IsArray {
		if st.ArraySize != nil {
			e.line("std::vector<%s> %s(%s);", base, st.Name, e.expr(st.ArraySize))
		} else {
			e.line("std::vector<%s> %s;", base, st.Name)
		}
		return
	}

	if st.Initializer != nil {
		e.line("%s %s = %s;", base, st.Name, e.expr(st.Initializer))
	} else {
		e.line("%s %s{};", base, st.Name)
	}
}

// emitIfStmt writes "if (cond) { ... }", and for an "else if" chain keeps
// the chain on a single flowing line rather than nesting a block inside a
// block, matching how a human would format it.
func (e *Emitter) emitIfStmt(st *ast.IfStmt, isElseIf bool) {
	header := fmt.Sprintf("if (%s) {", e.expr(st.Cond))
	if isElseIf {
		e.out.WriteString(" " + header + "\n")
	} else {
		e.line(header)
	}

	e.indent++
	for _, inner := range st.Then.Stmts {
		e.emitStmt(inner)
	}
	e.indent--

	switch elseBranch := st.Else.(type) {
	case nil:
		e.line("}")
	case *ast.IfStmt:
		e.out.WriteString(strings.Repeat("    ", e.indent) + "} else")
		e.emitIfStmt(elseBranch, true)
	case *ast.Block:
		e.line("} else {")
		e.indent++
		for _, inner := range elseBranch.Stmts {
			e.emitStmt(inner)
		}
		e.indent--
		e.line("}")
	}
}

// emitForStmt builds the "for (init; cond; update)" header out of the same
// statement emitters used everywhere else, just rendered without their own
// trailing newline or block indentation. The original C++ codegen needed a
// hand-rolled dynamic_cast workaround to avoid its statement visitor
// forcing a newline here; a plain function call sidesteps that.
func (e *Emitter) emitForStmt(st *ast.ForStmt) {
	initStr := ""
	if st.Init != nil {
		initStr = strings.TrimSuffix(strings.TrimSpace(e.inlineStmt(st.Init)), ";")
	}
	condStr := ""
	if st.Cond != nil {
		condStr = e.expr(st.Cond)
	}
	updateStr := ""
	if st.Update != nil {
		updateStr = strings.TrimSuffix(strings.TrimSpace(e.inlineStmt(st.Update)), ";")
	}

	e.line("for (%s; %s; %s) {", initStr, condStr, updateStr)
	e.indent++
	for _, inner := range st.Body.Stmts {
		e.emitStmt(inner)
	}
	e.indent--
	e.line("}")
}

// inlineStmt renders a single statement with no indentation, for use inside
// a for-loop header. The result still ends in ";\n"; the caller trims both.
func (e *Emitter) inlineStmt(stmt ast.Stmt) string {
	var sub Emitter
	sub.emitStmt(stmt)
	return sub.out.String()
}

func (e *Emitter) expr(expr ast.Expr) string {
	switch ex := expr.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(ex.Value, 10)

	case *ast.FloatLiteral:
		s := strconv.FormatFloat(ex.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s

	case *ast.StringLiteral:
		return quoteCppString(ex.Value)

	case *ast.Variable:
		return ex.Name

	case *ast.ArrayAccess:
		return fmt.Sprintf("%s[%s]", ex.Name, e.expr(ex.Index))

	case *ast.UnaryExpr:
		return fmt.Sprintf("(%s%s)", ex.Op, e.expr(ex.Operand))

	case *ast.BinaryExpr:
		if ex.Folded != nil {
			return strconv.FormatInt(*ex.Folded, 10)
		}
		return fmt.Sprintf("(%s %s %s)", e.expr(ex.Left), ex.Op, e.expr(ex.Right))

	case *ast.CallExpr:
		return e.callExpr(ex)

	default:
		return ""
	}
}

var builtinTarget = map[string]string{
	"input":  "_tl_input",
	"len":    "_tl_len",
	"substr": "_tl_substr",
	"int":    "_tl_to_int",
	"float":  "_tl_to_float",
}

func (e *Emitter) callExpr(ex *ast.CallExpr) string {
	name := ex.Callee
	if target, ok := builtinTarget[name]; ok {
		name = target
	}

	args := make([]string, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = e.expr(a)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}

// quoteCppString reverses the lexer's escape decoding (DESIGN.md open
// question #5): the value a StringLiteral carries is the program's actual
// text, which must be re-escaped to round-trip through a C++ string
// literal.
func quoteCppString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
