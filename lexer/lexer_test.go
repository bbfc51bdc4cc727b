package lexer

import (
	"testing"

	"github.com/tinylang/tlc/source"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	file := source.NewFile("<test>", input)
	lx := New(file)

	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %s", err.Summary)
		}
		toks = append(toks, tok)
		if tok.Kind == EndOfFile {
			return toks
		}
	}
}

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Kind
	}{
		{
			name:     "empty",
			input:    "",
			expected: []Kind{EndOfFile},
		},
		{
			name:     "operators and punctuation",
			input:    "+ - * / % == != <= >= -> = ! < > ( ) { } [ ] , ;",
			expected: []Kind{Plus, Minus, Star, Slash, Percent, EqEq, NotEq, LtEq, GtEq, Arrow, Assign, Not, Lt, Gt, LParen, RParen, LBrace, RBrace, LBracket, RBracket, Comma, Semicolon, EndOfFile},
		},
		{
			name:     "keywords and identifiers",
			input:    "func let print println for if else return foo_bar",
			expected: []Kind{Func, Let, Print, Println, For, If, Else, Return, Identifier, EndOfFile},
		},
		{
			name:     "type keywords",
			input:    "int float string void",
			expected: []Kind{TypeInt, TypeFloat, TypeString, TypeVoid, EndOfFile},
		},
		{
			name:     "numbers",
			input:    "42 3.14 0",
			expected: []Kind{IntegerLiteral, FloatLiteral, IntegerLiteral, EndOfFile},
		},
		{
			name:     "line comment",
			input:    "1 // trailing comment\n2",
			expected: []Kind{IntegerLiteral, IntegerLiteral, EndOfFile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(t, tt.input)
			if len(toks) != len(tt.expected) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.expected), toks)
			}
			for i, want := range tt.expected {
				if toks[i].Kind != want {
					t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, want)
				}
			}
		})
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\t\"c\\d"`)
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2", len(toks))
	}
	want := "a\nb\t\"c\\d"
	if toks[0].Lexeme != want {
		t.Errorf("got lexeme %q, want %q", toks[0].Lexeme, want)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	file := source.NewFile("<test>", `"unterminated`)
	lx := New(file)

	_, err := lx.Next()
	if err == nil {
		t.Fatal("expected a lexical error for an unterminated string literal")
	}
	if err.Phase != "lexer" {
		t.Errorf("got phase %s, want lexer", err.Phase)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	file := source.NewFile("<test>", "foo")
	lx := New(file)

	first, err := lx.Peek()
	if err != nil {
		t.Fatal(err)
	}
	second, err := lx.Peek()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("repeated Peek calls returned different tokens: %v != %v", first, second)
	}

	next, err := lx.Next()
	if err != nil {
		t.Fatal(err)
	}
	if next != first {
		t.Errorf("Next after Peek returned %v, want %v", next, first)
	}
}
