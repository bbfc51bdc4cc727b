package sema

import "github.com/tinylang/tlc/ast"

// binding records everything the analyzer tracks about a single name: its
// declared type, whether it is an array, and whether it has been assigned a
// value yet (read-before-init is a warning, not an error, matching the
// original runtime's behavior for array elements).
type binding struct {
	Type        ast.Type
	IsArray     bool
	Initialized bool
}

// scope is one level of lexical nesting. Parent is nil for the global
// scope and for each function's outermost scope. Unlike the teacher's Scope, there is no separate upvalue
// bookkeeping: TinyLang functions do not close over enclosing locals, only
// over other top-level functions, so a plain parent-chain lookup suffices.
type scope struct {
	parent   *scope
	bindings map[string]*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, bindings: make(map[string]*binding)}
}

// declare registers name as freshly bound in this scope. It reports
// whether name was already declared in this exact scope (shadowing an
// outer scope's binding of the same name is allowed).
func (s *scope) declare(name string, b *binding) (redeclared bool) {
	if _, exists := s.bindings[name]; exists {
		return true
	}
	s.bindings[name] = b
	return false
}

// lookup walks outward from s and returns the nearest binding for name.
func (s *scope) lookup(name string) (*binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}
