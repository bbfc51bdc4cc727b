// Package feedback renders compiler diagnostics: a single Error stops the
// pipeline that produced it, while Warnings accumulate without stopping
// anything. Both know how to render themselves as a terminal message with an
// optional one-line source excerpt, and both carry the phase that produced
// them. The driver folds an Error into the result record; Warnings are only
// rendered to standard error.
package feedback

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/tinylang/tlc/source"
)

// Phase identifies which compiler stage raised a diagnostic. This is the
// closed set the driver reports in its result record.
type Phase string

const (
	PhaseFile     Phase = "file"
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseSemantic Phase = "semantic"
	PhaseCodegen  Phase = "codegen"
	PhaseRuntime  Phase = "runtime"
	PhaseUnknown  Phase = "unknown"
)

// Message is the interface shared by Error and Warning so the driver can
// treat both uniformly when deciding what to print to the terminal.
type Message interface {
	Render(withColor bool) string
	Pos() source.Pos
}

// Error is fatal to the pass that raised it. The pipeline stops at the
// first Error it collects; there is no recovery or multi-error collection.
type Error struct {
	Phase   Phase
	File    *source.File
	At      source.Pos
	Summary string
}

func (e Error) Pos() source.Pos { return e.At }

func (e Error) Error() string { return e.Summary }

func (e Error) Render(withColor bool) string {
	return render("error", color.FgRed, e.Phase, e.File, e.At, e.Summary, withColor)
}

// Warning never stops compilation. TinyLang's only warning today is a
// possible read of an uninitialized array element.
type Warning struct {
	Phase   Phase
	File    *source.File
	At      source.Pos
	Summary string
}

func (w Warning) Pos() source.Pos { return w.At }

func (w Warning) Render(withColor bool) string {
	return render("warning", color.FgYellow, w.Phase, w.File, w.At, w.Summary, withColor)
}

func render(header string, mainColor color.Attribute, phase Phase, file *source.File, at source.Pos, summary string, withColor bool) string {
	color.NoColor = !withColor

	bold := color.New(mainColor, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()
	main := color.New(mainColor).SprintFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", bold(header+":"), summary)

	name := "<source>"
	if file != nil {
		name = file.Name
	}
	fmt.Fprintf(&b, " %s %s:%s (%s)\n", blue("-->"), name, at.String(), phase)

	if file == nil || at.IsZero() {
		return b.String()
	}

	line := file.Line(at.Line)
	if line == "" {
		return b.String()
	}

	lineNumFmt := fmt.Sprintf("%d", at.Line)
	pad := strings.Repeat(" ", utf8.RuneCountInString(lineNumFmt))

	fmt.Fprintf(&b, " %s %s\n", pad, blue("|"))
	fmt.Fprintf(&b, " %s %s %s\n", blue(lineNumFmt), blue("|"), line)

	col := at.Col
	if col < 1 {
		col = 1
	}
	leftPad := strings.Repeat(" ", col-1)
	fmt.Fprintf(&b, " %s %s %s%s\n", pad, blue("|"), leftPad, main("^"))

	return b.String()
}
