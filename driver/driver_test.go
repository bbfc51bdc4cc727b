package driver

import (
	"os/exec"
	"testing"

	"github.com/tinylang/tlc/source"
)

func TestCompileReportsParseErrorPhase(t *testing.T) {
	file := source.NewFile("<test>", `func main() { let x = ; }`)
	result := Compile(file, Options{})

	if result.Success {
		t.Fatal("expected compilation to fail on a parse error")
	}
	if len(result.CompileErrors) != 1 {
		t.Fatalf("got %d compile errors, want 1", len(result.CompileErrors))
	}
	if result.CompileErrors[0].Phase != PhaseParser {
		t.Errorf("got phase %s, want parser", result.CompileErrors[0].Phase)
	}
}

func TestCompileReportsSemanticErrorPhase(t *testing.T) {
	file := source.NewFile("<test>", `func main() { println missing; }`)
	result := Compile(file, Options{})

	if result.Success {
		t.Fatal("expected compilation to fail on a semantic error")
	}
	if result.CompileErrors[0].Phase != PhaseSemantic {
		t.Errorf("got phase %s, want semantic", result.CompileErrors[0].Phase)
	}
}

func TestCompileAndRunProducesStdout(t *testing.T) {
	if _, err := exec.LookPath("g++"); err != nil {
		t.Skip("g++ not available")
	}

	file := source.NewFile("<test>", `
		func main() {
			println "hello";
		}
	`)
	result := Compile(file, Options{Run: true})

	if !result.Success {
		t.Fatalf("expected successful compile+run, got errors: %+v", result.CompileErrors)
	}
	if result.Stdout != "hello\n" {
		t.Errorf("got stdout %q, want %q", result.Stdout, "hello\n")
	}
	if result.ExitCode != 0 {
		t.Errorf("got exit code %d, want 0", result.ExitCode)
	}
}
