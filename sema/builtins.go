package sema

import "github.com/tinylang/tlc/ast"

// builtinSig describes a built-in function's fixed arity and parameter
// types, mirroring the signature table the analyzer keeps for
// user-defined functions. ast.Unknown in Params means "accept anything".
type builtinSig struct {
	Params []ast.Type
	Return ast.Type
}

// builtins is the closed set of functions the emitter's preamble provides
// (see spec §6's External Interfaces / built-ins list).
var builtins = map[string]builtinSig{
	"input":  {Params: nil, Return: ast.String},
	"len":    {Params: []ast.Type{ast.String}, Return: ast.Int},
	"substr": {Params: []ast.Type{ast.String, ast.Int, ast.Int}, Return: ast.String},
	"int":    {Params: []ast.Type{ast.Unknown}, Return: ast.Int},
	"float":  {Params: []ast.Type{ast.Unknown}, Return: ast.Float},
}

func isBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}
