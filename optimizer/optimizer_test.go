package optimizer

import (
	"testing"

	"github.com/tinylang/tlc/ast"
	"github.com/tinylang/tlc/lexer"
	"github.com/tinylang/tlc/parser"
	"github.com/tinylang/tlc/source"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	file := source.NewFile("<test>", src)
	prog, err := parser.New(file, lexer.New(file)).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Summary)
	}
	return prog
}

func TestOptimizeFoldsConstantArithmetic(t *testing.T) {
	prog := parseProgram(t, `
		func main() {
			let x = 2 + 3 * 4;
		}
	`)
	Optimize(prog)

	fn := prog.Decls[0].(*ast.FuncDecl)
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	bin := decl.Initializer.(*ast.BinaryExpr)

	if bin.Folded == nil {
		t.Fatal("expected the top-level + to be folded")
	}
	if *bin.Folded != 14 {
		t.Errorf("got folded value %d, want 14", *bin.Folded)
	}
}

func TestOptimizeLeavesNonConstantExprsAlone(t *testing.T) {
	prog := parseProgram(t, `
		func main(int n) {
			let x = n + 1;
		}
	`)
	Optimize(prog)

	fn := prog.Decls[0].(*ast.FuncDecl)
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	bin := decl.Initializer.(*ast.BinaryExpr)

	if bin.Folded != nil {
		t.Error("expression referencing a variable must not be folded")
	}
}

func TestOptimizeDoesNotFoldDivisionByZero(t *testing.T) {
	prog := parseProgram(t, `
		func main() {
			let x = 1 / 0;
		}
	`)
	Optimize(prog)

	fn := prog.Decls[0].(*ast.FuncDecl)
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	bin := decl.Initializer.(*ast.BinaryExpr)

	if bin.Folded != nil {
		t.Error("division by a literal zero must be left for the runtime to report")
	}
}
