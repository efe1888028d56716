package lexer

import (
	"testing"

	"nilan/token"
)

func tokenTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.TokenType
	}
	return types
}

func assertTypes(t *testing.T, got []token.Token, want ...token.TokenType) {
	t.Helper()
	gotTypes := tokenTypes(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("wrong token count - got: %v, want: %v", gotTypes, want)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Fatalf("token %d - got: %s, want: %s (all: %v)", i, gotTypes[i], want[i], gotTypes)
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	tokens, err := New("(){},.;-+*/ != == <= >= < > = !").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, tokens,
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.COMMA, token.DOT, token.SEMICOLON,
		token.MINUS, token.PLUS, token.STAR, token.SLASH,
		token.BANG_EQUAL, token.EQUAL_EQUAL, token.LESS_EQUAL, token.LARGER_EQUAL,
		token.LESS, token.LARGER, token.ASSIGN, token.BANG,
		token.EOF,
	)
}

func TestScanLineComment(t *testing.T) {
	tokens, err := New("1 // this is a comment\n2").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, tokens, token.NUMBER, token.NUMBER, token.EOF)
	if tokens[0].Literal != float64(1) || tokens[1].Literal != float64(2) {
		t.Errorf("wrong literals - got: %v, %v", tokens[0].Literal, tokens[1].Literal)
	}
	if tokens[1].Line != 2 {
		t.Errorf("wrong line for second number - got: %d, want: 2", tokens[1].Line)
	}
}

func TestScanNumber(t *testing.T) {
	tokens, err := New("123 45.67").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, tokens, token.NUMBER, token.NUMBER, token.EOF)
	if tokens[0].Literal != float64(123) {
		t.Errorf("wrong literal - got: %v, want: 123", tokens[0].Literal)
	}
	if tokens[1].Literal != float64(45.67) {
		t.Errorf("wrong literal - got: %v, want: 45.67", tokens[1].Literal)
	}
}

func TestScanNumberTrailingDotIsSeparateToken(t *testing.T) {
	tokens, err := New("1.").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, tokens, token.NUMBER, token.DOT, token.EOF)
}

func TestScanString(t *testing.T) {
	tokens, err := New(`"hello world"`).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, tokens, token.STRING, token.EOF)
	if tokens[0].Literal != "hello world" {
		t.Errorf("wrong literal - got: %q, want: %q", tokens[0].Literal, "hello world")
	}
}

func TestScanMultilineString(t *testing.T) {
	tokens, err := New("\"line one\nline two\"\n1").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, tokens, token.STRING, token.NUMBER, token.EOF)
	if tokens[1].Line != 3 {
		t.Errorf("a two-line string followed by a newline should leave the next token on line 3 - got: %d", tokens[1].Line)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	lex := New(`"unterminated`)
	_, err := lex.Scan()
	if err == nil {
		t.Fatal("expected an unterminated string error")
	}
	if !lex.HadError() {
		t.Error("HadError should be true after an unterminated string")
	}
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	tokens, err := New("var x = foo and true or false").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, tokens,
		token.VAR, token.IDENTIFIER, token.ASSIGN, token.IDENTIFIER,
		token.AND, token.TRUE, token.OR, token.FALSE, token.EOF,
	)
	if tokens[5].Literal != true {
		t.Errorf("true keyword should carry a bool literal - got: %v", tokens[5].Literal)
	}
	if tokens[7].Literal != false {
		t.Errorf("false keyword should carry a bool literal - got: %v", tokens[7].Literal)
	}
}

func TestScanUnexpectedCharacter(t *testing.T) {
	lex := New("@")
	_, err := lex.Scan()
	if err == nil {
		t.Fatal("expected an unexpected-character error")
	}
	if !lex.HadError() {
		t.Error("HadError should be true after an unexpected character")
	}
}

func TestScanEmptyInputYieldsOnlyEOF(t *testing.T) {
	tokens, err := New("").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, tokens, token.EOF)
}
