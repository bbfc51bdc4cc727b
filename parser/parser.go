// Package parser builds an ast.Program from a token stream by recursive
// descent. Precedence among binary operators is encoded directly in the
// call chain (equality -> comparison -> term -> factor -> unary -> primary)
// rather than through a Pratt/precedence-climbing table, since TinyLang's
// operator set is small and fixed.
package parser

import (
	"fmt"
	"strconv"

	"github.com/tinylang/tlc/ast"
	"github.com/tinylang/tlc/feedback"
	"github.com/tinylang/tlc/lexer"
	"github.com/tinylang/tlc/source"
)

// Parser consumes tokens from a lexer.Lexer and builds an ast.Program. A
// Parser is single-use: construct one per file with New and call Parse
// exactly once.
type Parser struct {
	file *source.File
	lex  *lexer.Lexer

	// sawMain records whether a "func main" declaration has been parsed,
	// so a later top-level statement can be rejected (see DESIGN.md open
	// question #4).
	sawMain bool
}

// New returns a Parser ready to parse file's token stream.
func New(file *source.File, lex *lexer.Lexer) *Parser {
	return &Parser{file: file, lex: lex}
}

// Parse consumes the entire token stream and returns the resulting
// program, or the first parse error encountered.
func (p *Parser) Parse() (*ast.Program, *feedback.Error) {
	var decls []ast.Decl

	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.EndOfFile {
			break
		}

		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	return &ast.Program{Decls: decls}, nil
}

func (p *Parser) parseDecl() (ast.Decl, *feedback.Error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == lexer.Func {
		fn, err := p.parseFuncDecl()
		if err != nil {
			return nil, err
		}
		if fn.Name == "main" {
			p.sawMain = true
		}
		return fn, nil
	}

	if p.sawMain {
		return nil, p.errorf(tok.Pos, feedback.PhaseParser,
			"top-level statement after func main is not allowed; move it inside main")
	}

	return p.parseStmt()
}

func (p *Parser) parseFuncDecl() (*ast.FuncDecl, *feedback.Error) {
	start, err := p.expect(lexer.Func)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	var params []ast.Param
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.RParen {
			break
		}

		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		tok, err = p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.Comma {
			p.lex.Next()
			continue
		}
		break
	}

	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}

	retType := ast.Unknown
	if tok, _ := p.lex.Peek(); tok.Kind == lexer.Arrow {
		p.lex.Next()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		retType = t
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	fn := &ast.FuncDecl{
		Name:       name.Lexeme,
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}
	fn.At = start.Pos
	return fn, nil
}

// parseParam parses a single parameter, which may optionally be preceded
// by a type keyword; an untyped parameter's type is ast.Unknown, which the
// semantic analyzer accepts for an argument of any type.
func (p *Parser) parseParam() (ast.Param, *feedback.Error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return ast.Param{}, err
	}

	typ := ast.Unknown
	if isTypeKeyword(tok.Kind) {
		typ, err = p.parseType()
		if err != nil {
			return ast.Param{}, err
		}
	}

	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return ast.Param{}, err
	}

	return ast.Param{Type: typ, Name: name.Lexeme}, nil
}

func isTypeKeyword(k lexer.Kind) bool {
	switch k {
	case lexer.TypeInt, lexer.TypeFloat, lexer.TypeString, lexer.TypeVoid:
		return true
	}
	return false
}

func (p *Parser) parseType() (ast.Type, *feedback.Error) {
	tok, err := p.lex.Next()
	if err != nil {
		return "", err
	}
	switch tok.Kind {
	case lexer.TypeInt:
		return ast.Int, nil
	case lexer.TypeFloat:
		return ast.Float, nil
	case lexer.TypeString:
		return ast.String, nil
	case lexer.TypeVoid:
		return ast.Void, nil
	default:
		return "", p.errorf(tok.Pos, feedback.PhaseParser, "expected a type, found %q", tok.Lexeme)
	}
}

func (p *Parser) parseBlock() (*ast.Block, *feedback.Error) {
	open, err := p.expect(lexer.LBrace)
	if err != nil {
		return nil, err
	}

	var stmts []ast.Stmt
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.RBrace || tok.Kind == lexer.EndOfFile {
			break
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}

	blk := &ast.Block{Stmts: stmts}
	blk.At = open.Pos
	return blk, nil
}

func (p *Parser) parseStmt() (ast.Stmt, *feedback.Error) {
	tok, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.Let:
		return p.parseVarDecl()
	case lexer.TypeInt, lexer.TypeFloat, lexer.TypeString, lexer.TypeVoid:
		return p.parseTypedVarDecl()
	case lexer.Print, lexer.Println:
		return p.parsePrintStmt()
	case lexer.If:
		return p.parseIfStmt()
	case lexer.For:
		return p.parseForStmt()
	case lexer.Return:
		return p.parseReturnStmt()
	case lexer.LBrace:
		return p.parseBlock()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, *feedback.Error) {
	start, err := p.expect(lexer.Let)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Name: name.Lexeme, Initializer: init}
	decl.At = start.Pos
	return decl, nil
}

func (p *Parser) parseTypedVarDecl() (*ast.TypedVarDecl, *feedback.Error) {
	start, _ := p.lex.Peek()
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	isArray := false
	var size ast.Expr
	if tok, _ := p.lex.Peek(); tok.Kind == lexer.LBracket {
		p.lex.Next()
		isArray = true
		if tok, _ := p.lex.Peek(); tok.Kind != lexer.RBracket {
			size, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
	}

	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if tok, _ := p.lex.Peek(); tok.Kind == lexer.Assign {
		p.lex.Next()
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	decl := &ast.TypedVarDecl{
		Name:        name.Lexeme,
		Type:        typ,
		IsArray:     isArray,
		ArraySize:   size,
		Initializer: init,
	}
	decl.At = start.Pos
	return decl, nil
}

func (p *Parser) parsePrintStmt() (*ast.PrintStmt, *feedback.Error) {
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	stmt := &ast.PrintStmt{Expr: expr, Newline: tok.Kind == lexer.Println}
	stmt.At = tok.Pos
	return stmt, nil
}

// parseIfStmt allows "else if", chaining by letting Else hold another
// *ast.IfStmt instead of requiring it to be a block (see DESIGN.md open
// question #2).
func (p *Parser) parseIfStmt() (*ast.IfStmt, *feedback.Error) {
	start, err := p.expect(lexer.If)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if tok, _ := p.lex.Peek(); tok.Kind == lexer.Else {
		p.lex.Next()
		if tok, _ := p.lex.Peek(); tok.Kind == lexer.If {
			elseBranch, err = p.parseIfStmt()
		} else {
			elseBranch, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}

	stmt := &ast.IfStmt{Cond: cond, Then: then, Else: elseBranch}
	stmt.At = start.Pos
	return stmt, nil
}

func (p *Parser) parseForStmt() (*ast.ForStmt, *feedback.Error) {
	start, err := p.expect(lexer.For)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	var init ast.Stmt
	if tok, _ := p.lex.Peek(); tok.Kind != lexer.Semicolon {
		var err *feedback.Error
		switch tok.Kind {
		case lexer.Let:
			init, err = p.parseVarDeclNoTerm()
		case lexer.TypeInt, lexer.TypeFloat, lexer.TypeString, lexer.TypeVoid:
			init, err = p.parseTypedVarDeclNoTerm()
		default:
			init, err = p.parseAssignNoTerm()
		}
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	var cond ast.Expr
	if tok, _ := p.lex.Peek(); tok.Kind != lexer.Semicolon {
		var err *feedback.Error
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	var update *ast.AssignStmt
	if tok, _ := p.lex.Peek(); tok.Kind != lexer.RParen {
		a, err := p.parseAssignNoTerm()
		if err != nil {
			return nil, err
		}
		update = a
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body}
	stmt.At = start.Pos
	return stmt, nil
}

func (p *Parser) parseVarDeclNoTerm() (*ast.VarDecl, *feedback.Error) {
	start, err := p.expect(lexer.Let)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Name: name.Lexeme, Initializer: init}
	decl.At = start.Pos
	return decl, nil
}

func (p *Parser) parseTypedVarDeclNoTerm() (*ast.TypedVarDecl, *feedback.Error) {
	start, _ := p.lex.Peek()
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if tok, _ := p.lex.Peek(); tok.Kind == lexer.Assign {
		p.lex.Next()
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	decl := &ast.TypedVarDecl{Name: name.Lexeme, Type: typ, Initializer: init}
	decl.At = start.Pos
	return decl, nil
}

func (p *Parser) parseAssignNoTerm() (*ast.AssignStmt, *feedback.Error) {
	start, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	name := start

	var index ast.Expr
	if tok, _ := p.lex.Peek(); tok.Kind == lexer.LBracket {
		p.lex.Next()
		index, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	stmt := &ast.AssignStmt{Target: name.Lexeme, Index: index, Value: value}
	stmt.At = start.Pos
	return stmt, nil
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, *feedback.Error) {
	start, err := p.expect(lexer.Return)
	if err != nil {
		return nil, err
	}

	var value ast.Expr
	if tok, _ := p.lex.Peek(); tok.Kind != lexer.Semicolon {
		var err *feedback.Error
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	stmt := &ast.ReturnStmt{Value: value}
	stmt.At = start.Pos
	return stmt, nil
}

// parseExprOrAssignStmt parses a bare expression statement, rewriting it
// into an AssignStmt when it turns out to be an assignment target followed
// by "=". This mirrors the original's post-hoc rewrite in its
// expressionStmt rule rather than looking ahead with backtracking.
func (p *Parser) parseExprOrAssignStmt() (ast.Stmt, *feedback.Error) {
	start, err := p.lex.Peek()
	if err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if tok, _ := p.lex.Peek(); tok.Kind == lexer.Assign {
		p.lex.Next()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}

		var stmt *ast.AssignStmt
		switch target := expr.(type) {
		case *ast.Variable:
			stmt = &ast.AssignStmt{Target: target.Name, Value: value}
		case *ast.ArrayAccess:
			stmt = &ast.AssignStmt{Target: target.Name, Index: target.Index, Value: value}
		default:
			return nil, p.errorf(start.Pos, feedback.PhaseParser, "invalid assignment target")
		}
		stmt.At = start.Pos
		return stmt, nil
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	exprStmt := &ast.ExprStmt{Expr: expr}
	exprStmt.At = start.Pos
	return exprStmt, nil
}

// ---- Expressions, by ascending precedence -----------------------------

func (p *Parser) parseExpr() (ast.Expr, *feedback.Error) {
	return p.parseEquality()
}

func (p *Parser) parseEquality() (ast.Expr, *feedback.Error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		tok, _ := p.lex.Peek()
		if tok.Kind != lexer.EqEq && tok.Kind != lexer.NotEq {
			return left, nil
		}
		p.lex.Next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		bin := &ast.BinaryExpr{Op: string(tok.Kind), Left: left, Right: right}
		bin.At = tok.Pos
		left = bin
	}
}

func (p *Parser) parseComparison() (ast.Expr, *feedback.Error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok, _ := p.lex.Peek()
		switch tok.Kind {
		case lexer.Lt, lexer.LtEq, lexer.Gt, lexer.GtEq:
			p.lex.Next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			bin := &ast.BinaryExpr{Op: string(tok.Kind), Left: left, Right: right}
			bin.At = tok.Pos
			left = bin
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseTerm() (ast.Expr, *feedback.Error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		tok, _ := p.lex.Peek()
		if tok.Kind != lexer.Plus && tok.Kind != lexer.Minus {
			return left, nil
		}
		p.lex.Next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		bin := &ast.BinaryExpr{Op: string(tok.Kind), Left: left, Right: right}
		bin.At = tok.Pos
		left = bin
	}
}

func (p *Parser) parseFactor() (ast.Expr, *feedback.Error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, _ := p.lex.Peek()
		if tok.Kind != lexer.Star && tok.Kind != lexer.Slash && tok.Kind != lexer.Percent {
			return left, nil
		}
		p.lex.Next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		bin := &ast.BinaryExpr{Op: string(tok.Kind), Left: left, Right: right}
		bin.At = tok.Pos
		left = bin
	}
}

func (p *Parser) parseUnary() (ast.Expr, *feedback.Error) {
	tok, _ := p.lex.Peek()
	if tok.Kind == lexer.Minus || tok.Kind == lexer.Not {
		p.lex.Next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		u := &ast.UnaryExpr{Op: string(tok.Kind), Operand: operand}
		u.At = tok.Pos
		return u, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, *feedback.Error) {
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case lexer.IntegerLiteral:
		v, parseErr := strconv.ParseInt(tok.Lexeme, 10, 64)
		if parseErr != nil {
			return nil, p.errorf(tok.Pos, feedback.PhaseParser, "invalid integer literal %q", tok.Lexeme)
		}
		lit := &ast.IntegerLiteral{Value: v}
		lit.At = tok.Pos
		return lit, nil

	case lexer.FloatLiteral:
		v, parseErr := strconv.ParseFloat(tok.Lexeme, 64)
		if parseErr != nil {
			return nil, p.errorf(tok.Pos, feedback.PhaseParser, "invalid float literal %q", tok.Lexeme)
		}
		lit := &ast.FloatLiteral{Value: v}
		lit.At = tok.Pos
		return lit, nil

	case lexer.StringLiteral:
		lit := &ast.StringLiteral{Value: tok.Lexeme}
		lit.At = tok.Pos
		return lit, nil

	case lexer.Identifier:
		if next, _ := p.lex.Peek(); next.Kind == lexer.LParen {
			return p.parseCallExpr(tok.Lexeme, tok.Pos)
		}
		if next, _ := p.lex.Peek(); next.Kind == lexer.LBracket {
			p.lex.Next()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			access := &ast.ArrayAccess{Name: tok.Lexeme, Index: index}
			access.At = tok.Pos
			return access, nil
		}
		v := &ast.Variable{Name: tok.Lexeme}
		v.At = tok.Pos
		return v, nil

	case lexer.TypeInt, lexer.TypeFloat:
		// "int" and "float" are type keywords, but followed by "(" they
		// name the int()/float() conversion built-ins.
		if next, _ := p.lex.Peek(); next.Kind == lexer.LParen {
			return p.parseCallExpr(tok.Lexeme, tok.Pos)
		}
		return nil, p.errorf(tok.Pos, feedback.PhaseParser, "unexpected token %q", tok.Lexeme)

	case lexer.LParen:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.errorf(tok.Pos, feedback.PhaseParser, "unexpected token %q", tok.Lexeme)
	}
}

func (p *Parser) parseCallExpr(callee string, at source.Pos) (ast.Expr, *feedback.Error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	var args []ast.Expr
	for {
		tok, err := p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.RParen {
			break
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok, err = p.lex.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.Comma {
			p.lex.Next()
			continue
		}
		break
	}

	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}

	call := &ast.CallExpr{Callee: callee, Args: args}
	call.At = at
	return call, nil
}

// ---- helpers ------------------------------------------------------------

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, *feedback.Error) {
	tok, err := p.lex.Next()
	if err != nil {
		return tok, err
	}
	if tok.Kind != kind {
		return tok, p.errorf(tok.Pos, feedback.PhaseParser, "expected %q, found %q", kind, tok.Lexeme)
	}
	return tok, nil
}

func (p *Parser) errorf(pos source.Pos, phase feedback.Phase, format string, args ...any) *feedback.Error {
	return &feedback.Error{
		Phase:   phase,
		File:    p.file,
		At:      pos,
		Summary: fmt.Sprintf(format, args...),
	}
}
