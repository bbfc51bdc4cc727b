package emitter

import (
	"strings"
	"testing"

	"github.com/tinylang/tlc/lexer"
	"github.com/tinylang/tlc/optimizer"
	"github.com/tinylang/tlc/parser"
	"github.com/tinylang/tlc/source"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	file := source.NewFile("<test>", src)
	prog, err := parser.New(file, lexer.New(file)).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err.Summary)
	}
	optimizer.Optimize(prog)
	return Emit(prog)
}

func TestEmitIncludesPreambleHelpers(t *testing.T) {
	out := emit(t, `func main() {}`)
	for _, want := range []string{"_tl_input", "_tl_len", "_tl_substr", "_tl_to_int", "_tl_to_float"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing preamble helper %q", want)
		}
	}
}

func TestEmitMainAlwaysReturnsInt(t *testing.T) {
	out := emit(t, `func main() {}`)
	if !strings.Contains(out, "int main() {") {
		t.Errorf("expected main to be emitted returning int, got:\n%s", out)
	}
	if !strings.Contains(out, "return 0;") {
		t.Errorf("expected an implicit return 0 in main, got:\n%s", out)
	}
}

func TestEmitFoldedBinaryExprEmitsLiteral(t *testing.T) {
	out := emit(t, `
		func main() {
			let x = 2 + 3 * 4;
		}
	`)
	if !strings.Contains(out, "auto x = 14;") {
		t.Errorf("expected folded constant 14 in output, got:\n%s", out)
	}
}

func TestEmitStringLiteralEscaping(t *testing.T) {
	out := emit(t, `
		func main() {
			println "line\nbreak";
		}
	`)
	if !strings.Contains(out, `"line\nbreak"`) {
		t.Errorf("expected a re-escaped string literal, got:\n%s", out)
	}
}

func TestEmitForLoopCompactHeader(t *testing.T) {
	out := emit(t, `
		func main() {
			for (let i = 0; i < 10; i = i + 1) {
				println i;
			}
		}
	`)
	if !strings.Contains(out, "for (auto i = 0; (i < 10); i = (i + 1)) {") {
		t.Errorf("expected a single-line for-loop header, got:\n%s", out)
	}
}

func TestEmitElseIfChain(t *testing.T) {
	out := emit(t, `
		func main() {
			let x = 1;
			if (x == 1) {
				println 1;
			} else if (x == 2) {
				println 2;
			} else {
				println 3;
			}
		}
	`)
	if !strings.Contains(out, "} else if (") {
		t.Errorf("expected an 'else if' on one line, got:\n%s", out)
	}
}

func TestEmitArrayDecl(t *testing.T) {
	out := emit(t, `
		func main() {
			int[5] xs;
		}
	`)
	if !strings.Contains(out, "std::vector<int> xs(5);") {
		t.Errorf("expected a std::vector array declaration, got:\n%s", out)
	}
}

func TestEmitBuiltinCallsMapToHelpers(t *testing.T) {
	out := emit(t, `
		func main() {
			let x = len("hi");
		}
	`)
	if !strings.Contains(out, "_tl_len(") {
		t.Errorf("expected len() to map to _tl_len, got:\n%s", out)
	}
}
