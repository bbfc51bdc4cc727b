package source

import "fmt"

// Pos holds the one-based line/column of a single character in a source file.
// A zero Pos (Line == 0) means "no position is available", which the driver
// reports as 0/0 per the result record contract.
type Pos struct {
	Line int
	Col  int
}

// String renders a position as "line:col" for use in diagnostics.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// IsZero reports whether p carries no position information.
func (p Pos) IsZero() bool {
	return p.Line == 0 && p.Col == 0
}

// Span holds a Start and End position spanning a token or node.
type Span struct {
	Start Pos
	End   Pos
}
