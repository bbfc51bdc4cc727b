package sema

import (
	"testing"

	"github.com/tinylang/tlc/lexer"
	"github.com/tinylang/tlc/parser"
	"github.com/tinylang/tlc/source"
)

func checkSource(t *testing.T, src string) (*Result, error) {
	t.Helper()
	file := source.NewFile("<test>", src)
	prog, parseErr := parser.New(file, lexer.New(file)).Parse()
	if parseErr != nil {
		t.Fatalf("unexpected parse error: %s", parseErr.Summary)
	}
	result, checkErr := Check(file, prog)
	if checkErr != nil {
		return nil, checkErr
	}
	return result, nil
}

func TestCheckValidProgram(t *testing.T) {
	_, err := checkSource(t, `
		func add(int a, int b) -> int {
			return a + b;
		}
		func main() {
			let x = add(1, 2);
			println x;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	_, err := checkSource(t, `
		func main() {
			println missing;
		}
	`)
	if err == nil {
		t.Fatal("expected an undefined-variable error")
	}
}

func TestCheckDuplicateFunction(t *testing.T) {
	_, err := checkSource(t, `
		func f() -> int { return 1; }
		func f() -> int { return 2; }
		func main() {}
	`)
	if err == nil {
		t.Fatal("expected a duplicate-function error")
	}
}

func TestCheckReturnTypeMismatch(t *testing.T) {
	_, err := checkSource(t, `
		func f() -> int {
			return "not an int";
		}
		func main() {}
	`)
	if err == nil {
		t.Fatal("expected a return-type mismatch error")
	}
}

func TestCheckIntPromotesToFloatOnAssignment(t *testing.T) {
	_, err := checkSource(t, `
		func main() {
			float x = 1;
		}
	`)
	if err != nil {
		t.Fatalf("Int should promote to Float on assignment, got: %v", err)
	}
}

func TestCheckIntPromotesToFloatAsCallArgument(t *testing.T) {
	_, err := checkSource(t, `
		func takesFloat(float x) -> float {
			return x;
		}
		func main() {
			let y = takesFloat(1);
		}
	`)
	if err != nil {
		t.Fatalf("Int should promote to Float as a call argument, got: %v", err)
	}
}

func TestCheckArrayAccessWarnsOnUninitializedRead(t *testing.T) {
	result, err := checkSource(t, `
		func main() {
			int[5] xs;
			println xs[0];
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for reading an uninitialized array element")
	}
}

func TestCheckStringArithmeticIsRejected(t *testing.T) {
	_, err := checkSource(t, `
		func main() {
			let x = "a" - "b";
		}
	`)
	if err == nil {
		t.Fatal("expected an error for subtracting strings")
	}
}

func TestCheckMutualRecursionResolvesAcrossSignaturePass(t *testing.T) {
	_, err := checkSource(t, `
		func isEven(int n) -> int {
			if (n == 0) {
				return 1;
			}
			return isOdd(n - 1);
		}
		func isOdd(int n) -> int {
			if (n == 0) {
				return 0;
			}
			return isEven(n - 1);
		}
		func main() {}
	`)
	if err != nil {
		t.Fatalf("mutual recursion should resolve regardless of declaration order, got: %v", err)
	}
}
