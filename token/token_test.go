package token

import "testing"

func TestCreateToken(t *testing.T) {
	tok := CreateToken(LPA, 3, 4)
	if tok.TokenType != LPA {
		t.Errorf("wrong TokenType - got: %s, want: %s", tok.TokenType, LPA)
	}
	if tok.Lexeme != "(" {
		t.Errorf("wrong Lexeme - got: %q, want: %q", tok.Lexeme, "(")
	}
	if tok.Line != 3 || tok.Column != 4 {
		t.Errorf("wrong position - got: (%d,%d), want: (3,4)", tok.Line, tok.Column)
	}
}

func TestCreateLiteralToken(t *testing.T) {
	tok := CreateLiteralToken(NUMBER, float64(42), "42", 1, 0)
	if tok.Literal != float64(42) {
		t.Errorf("wrong Literal - got: %v, want: %v", tok.Literal, float64(42))
	}
	if tok.Lexeme != "42" {
		t.Errorf("wrong Lexeme - got: %q, want: %q", tok.Lexeme, "42")
	}
}

func TestKeyWords(t *testing.T) {
	tests := []struct {
		lexeme   string
		expected TokenType
	}{
		{"and", AND},
		{"class", CLASS},
		{"else", ELSE},
		{"false", FALSE},
		{"for", FOR},
		{"fun", FUN},
		{"if", IF},
		{"nil", NIL},
		{"or", OR},
		{"print", PRINT},
		{"return", RETURN},
		{"super", SUPER},
		{"this", THIS},
		{"true", TRUE},
		{"var", VAR},
		{"while", WHILE},
	}

	for _, tt := range tests {
		tokenType, ok := KeyWords[tt.lexeme]
		if !ok {
			t.Errorf("missing keyword: %s", tt.lexeme)
			continue
		}
		if tokenType != tt.expected {
			t.Errorf("keyword %s - got: %s, want: %s", tt.lexeme, tokenType, tt.expected)
		}
	}

	if _, ok := KeyWords["notAKeyword"]; ok {
		t.Error("notAKeyword should not resolve to a keyword")
	}
}

func TestDisplayLexemeAtEOF(t *testing.T) {
	tok := CreateToken(EOF, 5, 0)
	if tok.DisplayLexeme() != "end" {
		t.Errorf("EOF should display as 'end' - got: %q", tok.DisplayLexeme())
	}
}
