package source

import "strings"

// File represents a single TinyLang compilation unit as handed to the
// front-end. Contents is the raw program text; Lines is a cached split on
// '\n' so diagnostics don't repeatedly re-split the same buffer.
type File struct {
	Name     string
	Contents string
	Lines    []string
}

// NewFile builds a File from raw program text, caching its line slice.
func NewFile(name, contents string) *File {
	return &File{
		Name:     name,
		Contents: contents,
		Lines:    strings.Split(contents, "\n"),
	}
}

// Line returns the 1-indexed source line, or "" if out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.Lines) {
		return ""
	}
	return f.Lines[n-1]
}
