package parser

import (
	"testing"

	"github.com/tinylang/tlc/ast"
	"github.com/tinylang/tlc/lexer"
	"github.com/tinylang/tlc/source"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	file := source.NewFile("<test>", src)
	prog, err := New(file, lexer.New(file)).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Summary)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parse(t, `
		func main() {
			let x = 1 + 2;
		}
	`)

	fn := prog.Decls[0].(*ast.FuncDecl)
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	if decl.Name != "x" {
		t.Errorf("got name %q, want x", decl.Name)
	}
	bin, ok := decl.Initializer.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("initializer is %T, want *ast.BinaryExpr", decl.Initializer)
	}
	if bin.Op != "+" {
		t.Errorf("got op %q, want +", bin.Op)
	}
}

func TestParseElseIfChain(t *testing.T) {
	prog := parse(t, `
		func main() {
			if (1 < 2) {
				return;
			} else if (2 < 3) {
				return;
			} else {
				return;
			}
		}
	`)

	fn := prog.Decls[0].(*ast.FuncDecl)
	outer := fn.Body.Stmts[0].(*ast.IfStmt)

	chained, ok := outer.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("outer.Else is %T, want *ast.IfStmt (else-if chaining)", outer.Else)
	}
	if _, ok := chained.Else.(*ast.Block); !ok {
		t.Fatalf("chained.Else is %T, want *ast.Block", chained.Else)
	}
}

func TestParseForStmt(t *testing.T) {
	prog := parse(t, `
		func main() {
			for (let i = 0; i < 10; i = i + 1) {
				print i;
			}
		}
	`)

	fn := prog.Decls[0].(*ast.FuncDecl)
	forStmt := fn.Body.Stmts[0].(*ast.ForStmt)

	if _, ok := forStmt.Init.(*ast.VarDecl); !ok {
		t.Fatalf("Init is %T, want *ast.VarDecl", forStmt.Init)
	}
	if forStmt.Cond == nil {
		t.Fatal("expected a loop condition")
	}
	if forStmt.Update == nil {
		t.Fatal("expected a loop update")
	}
}

func TestParseAssignmentTargetRewrite(t *testing.T) {
	prog := parse(t, `
		func main() {
			let x = 1;
			x = 2;
		}
	`)

	fn := prog.Decls[0].(*ast.FuncDecl)
	assign, ok := fn.Body.Stmts[1].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.AssignStmt", fn.Body.Stmts[1])
	}
	if assign.Target != "x" {
		t.Errorf("got target %q, want x", assign.Target)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	file := source.NewFile("<test>", `
		func main() {
			1 + 2 = 3;
		}
	`)
	_, err := New(file, lexer.New(file)).Parse()
	if err == nil {
		t.Fatal("expected a parse error for an invalid assignment target")
	}
}

func TestParseStatementAfterMainIsError(t *testing.T) {
	file := source.NewFile("<test>", `
		func main() {
		}
		let x = 1;
	`)
	_, err := New(file, lexer.New(file)).Parse()
	if err == nil {
		t.Fatal("expected a parse error for a top-level statement after func main")
	}
}

func TestParseFuncDeclWithTypesAndArrow(t *testing.T) {
	prog := parse(t, `
		func add(int a, int b) -> int {
			return a + b;
		}
	`)

	fn := prog.Decls[0].(*ast.FuncDecl)
	if fn.ReturnType != ast.Int {
		t.Errorf("got return type %s, want Int", fn.ReturnType)
	}
	if len(fn.Params) != 2 || fn.Params[0].Type != ast.Int {
		t.Errorf("got params %+v, want two Int params", fn.Params)
	}
}
