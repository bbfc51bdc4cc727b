// Package driver orchestrates the full TinyLang pipeline: lex, parse,
// check, optimize, emit, hand the emitted C++ to a native compiler, and
// optionally run the resulting binary — producing the single Result
// record the cmd/tinylangc front end prints as JSON.
package driver

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tinylang/tlc/emitter"
	"github.com/tinylang/tlc/feedback"
	"github.com/tinylang/tlc/lexer"
	"github.com/tinylang/tlc/optimizer"
	"github.com/tinylang/tlc/parser"
	"github.com/tinylang/tlc/sema"
	"github.com/tinylang/tlc/source"
)

// Options configures a single Compile invocation.
type Options struct {
	// Run, when true, executes the compiled binary after a successful
	// build and feeds it Stdin.
	Run   bool
	Stdin string

	// CXX overrides the native compiler invoked to build the emitted
	// C++; it defaults to "g++" when empty.
	CXX string

	// Timeout bounds how long the compiled program may run before it is
	// killed and reported as a runtime error.
	Timeout time.Duration
}

const defaultTimeout = 5 * time.Second

// Compile runs the full pipeline over file and returns the result record.
// It never returns a Go error: every failure mode is folded into the
// returned Result so the caller can always marshal and print it.
func Compile(file *source.File, opts Options) *Result {
	lx := lexer.New(file)
	p := parser.New(file, lx)

	prog, err := p.Parse()
	if err != nil {
		return errorResult(err)
	}

	checkResult, err := sema.Check(file, prog)
	if err != nil {
		return errorResult(err)
	}
	for _, w := range checkResult.Warnings {
		os.Stderr.WriteString(w.Render(true))
	}

	optimizer.Optimize(prog)

	cpp := emitter.Emit(prog)

	return build(cpp, opts)
}

func errorResult(err *feedback.Error) *Result {
	return &Result{
		Success: false,
		CompileErrors: []CompileError{{
			Phase:   Phase(err.Phase),
			Message: err.Summary,
			Line:    err.At.Line,
			Col:     err.At.Col,
		}},
	}
}

func build(cppSource string, opts Options) *Result {
	workDir, err := os.MkdirTemp("", "tinylangc-")
	if err != nil {
		return codegenErrorResult(err)
	}
	defer os.RemoveAll(workDir)

	cppPath := filepath.Join(workDir, "tinylang_gen.cpp")
	if err := os.WriteFile(cppPath, []byte(cppSource), 0o644); err != nil {
		return codegenErrorResult(err)
	}

	binPath := filepath.Join(workDir, "tinylang_run")
	cxx := opts.CXX
	if cxx == "" {
		cxx = "g++"
	}

	compileCmd := exec.Command(cxx, "-O2", "-std=c++20", "-o", binPath, cppPath)
	var compileOutput bytes.Buffer
	compileCmd.Stdout = &compileOutput
	compileCmd.Stderr = &compileOutput
	if err := compileCmd.Run(); err != nil {
		return &Result{
			Success: false,
			CompileErrors: []CompileError{{
				Phase:   PhaseCodegen,
				Message: compileOutput.String(),
			}},
		}
	}

	if !opts.Run {
		return &Result{Success: true}
	}

	return execute(binPath, opts)
}

func execute(binPath string, opts Options) *Result {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdin = bytes.NewBufferString(opts.Stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	runErr := withChildRlimits(cmd.Start)
	if runErr == nil {
		runErr = cmd.Wait()
	}
	elapsed := time.Since(started)

	exitCode := 0
	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return &Result{
				Success: false,
				CompileErrors: []CompileError{{
					Phase:   PhaseRuntime,
					Message: "program timed out",
				}},
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: -1,
				TimeMs:   elapsed.Milliseconds(),
			}
		}
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return &Result{
				Success: false,
				CompileErrors: []CompileError{{
					Phase:   PhaseRuntime,
					Message: runErr.Error(),
				}},
				Stdout: stdout.String(),
				Stderr: stderr.String(),
				TimeMs: elapsed.Milliseconds(),
			}
		}
	}

	result := &Result{
		Success:  exitCode == 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		TimeMs:   elapsed.Milliseconds(),
	}
	if exitCode != 0 {
		result.CompileErrors = []CompileError{{
			Phase:   PhaseRuntime,
			Message: "program exited with a non-zero status",
		}}
	}
	return result
}

func codegenErrorResult(err error) *Result {
	return &Result{
		Success: false,
		CompileErrors: []CompileError{{
			Phase:   PhaseCodegen,
			Message: err.Error(),
		}},
	}
}
