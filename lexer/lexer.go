package lexer

import (
	"strings"

	"github.com/tinylang/tlc/feedback"
	"github.com/tinylang/tlc/source"
)

// Lexer digests a source.File into a sequence of Tokens, one rune-run at a
// time, with at most one token of lookahead buffered for the parser's
// benefit.
type Lexer struct {
	file    *source.File
	scanner *scanner
	peeked  *Token
	emitted bool // true once an EndOfFile token has been produced
}

// New returns a Lexer ready to scan file.
func New(file *source.File) *Lexer {
	return &Lexer{file: file, scanner: newScanner(file)}
}

// Peek returns the upcoming token without consuming it. Repeated calls
// return the same token until Next is called.
func (l *Lexer) Peek() (Token, *feedback.Error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}

	tok, err := l.readToken()
	if err != nil {
		return tok, err
	}
	l.peeked = &tok
	return tok, nil
}

// Next returns the upcoming token and advances past it.
func (l *Lexer) Next() (Token, *feedback.Error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	return l.readToken()
}

func (l *Lexer) readToken() (Token, *feedback.Error) {
	if l.emitted {
		return Token{Kind: EndOfFile, Lexeme: "", Pos: l.scanner.pos()}, nil
	}

	l.skipWhitespaceAndComments()

	start := l.scanner.pos()

	r, ok := l.scanner.peek(0)
	if !ok {
		l.emitted = true
		return Token{Kind: EndOfFile, Lexeme: "", Pos: start}, nil
	}

	switch {
	case isDigit(r):
		return l.lexNumber(), nil
	case r == '"':
		return l.lexString()
	case isIdentStart(r):
		return l.lexWord(), nil
	default:
		return l.lexOperator()
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		if r, ok := l.scanner.peek(0); ok && isWhitespace(r) {
			l.scanner.next()
			continue
		}

		if r, ok := l.scanner.peek(0); ok && r == '/' {
			if r2, ok2 := l.scanner.peek(1); ok2 && r2 == '/' {
				for {
					r, ok := l.scanner.peek(0)
					if !ok || r == '\n' {
						break
					}
					l.scanner.next()
				}
				continue
			}
		}

		break
	}
}

func (l *Lexer) lexNumber() Token {
	start := l.scanner.pos()
	var b strings.Builder

	for {
		r, ok := l.scanner.peek(0)
		if !ok || !isDigit(r) {
			break
		}
		r, _ = l.scanner.next()
		b.WriteRune(r)
	}

	kind := IntegerLiteral

	if r, ok := l.scanner.peek(0); ok && r == '.' {
		if r2, ok2 := l.scanner.peek(1); ok2 && isDigit(r2) {
			kind = FloatLiteral
			dot, _ := l.scanner.next()
			b.WriteRune(dot)
			for {
				r, ok := l.scanner.peek(0)
				if !ok || !isDigit(r) {
					break
				}
				r, _ = l.scanner.next()
				b.WriteRune(r)
			}
		}
	}

	return Token{Kind: kind, Lexeme: b.String(), Pos: start}
}

// lexString scans a double-quoted string literal, recognizing the escape
// sequences \n, \t, \\ and \" (open question #5). A literal that reaches
// end-of-input before a closing quote is a fatal lexical error (open
// question #1) rather than the silently-truncated token the original
// scanner produced.
func (l *Lexer) lexString() (Token, *feedback.Error) {
	start := l.scanner.pos()
	l.scanner.next() // opening quote

	var b strings.Builder

	for {
		r, ok := l.scanner.peek(0)
		if !ok || r == '\n' {
			return Token{Kind: Error, Lexeme: b.String(), Pos: start}, &feedback.Error{
				Phase:   feedback.PhaseLexer,
				File:    l.file,
				At:      start,
				Summary: "unterminated string literal",
			}
		}

		if r == '"' {
			l.scanner.next()
			return Token{Kind: StringLiteral, Lexeme: b.String(), Pos: start}, nil
		}

		if r == '\\' {
			l.scanner.next()
			esc, ok := l.scanner.peek(0)
			if !ok {
				return Token{Kind: Error, Lexeme: b.String(), Pos: start}, &feedback.Error{
					Phase:   feedback.PhaseLexer,
					File:    l.file,
					At:      start,
					Summary: "unterminated string literal",
				}
			}
			l.scanner.next()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}
			continue
		}

		l.scanner.next()
		b.WriteRune(r)
	}
}

func (l *Lexer) lexWord() Token {
	start := l.scanner.pos()
	var b strings.Builder

	for {
		r, ok := l.scanner.peek(0)
		if !ok || !isIdentPart(r) {
			break
		}
		r, _ = l.scanner.next()
		b.WriteRune(r)
	}

	word := b.String()
	if kind, isKeyword := keywords[word]; isKeyword {
		return Token{Kind: kind, Lexeme: word, Pos: start}
	}
	return Token{Kind: Identifier, Lexeme: word, Pos: start}
}

// twoCharOps lists the operators for which a two-character spelling must be
// preferred over its single-character prefix.
var twoCharOps = map[string]Kind{
	"==": EqEq,
	"!=": NotEq,
	"<=": LtEq,
	">=": GtEq,
	"->": Arrow,
}

var oneCharOps = map[rune]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'%': Percent,
	'<': Lt,
	'>': Gt,
	'=': Assign,
	'!': Not,
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
	'[': LBracket,
	']': RBracket,
	',': Comma,
	';': Semicolon,
}

func (l *Lexer) lexOperator() (Token, *feedback.Error) {
	start := l.scanner.pos()
	r, _ := l.scanner.next()

	if r2, ok := l.scanner.peek(0); ok {
		two := string(r) + string(r2)
		if kind, isTwo := twoCharOps[two]; isTwo {
			l.scanner.next()
			return Token{Kind: kind, Lexeme: two, Pos: start}, nil
		}
	}

	if kind, ok := oneCharOps[r]; ok {
		return Token{Kind: kind, Lexeme: string(r), Pos: start}, nil
	}

	return Token{Kind: Error, Lexeme: string(r), Pos: start}, nil
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
