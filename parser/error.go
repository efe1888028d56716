package parser

import (
	"fmt"

	"nilan/token"
)

// SyntaxError is a single parse-time diagnostic, reported against the
// offending token per the driver's diagnostic format: "[line L] Error at
// 'lexeme': message".
type SyntaxError struct {
	Line    int32
	Lexeme  string
	Message string
}

// NewSyntaxError builds a SyntaxError positioned at tok. tok.DisplayLexeme()
// already renders "end" for an EOF token, matching the required format.
func NewSyntaxError(tok token.Token, message string) SyntaxError {
	return SyntaxError{
		Line:    tok.Line,
		Lexeme:  tok.DisplayLexeme(),
		Message: message,
	}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Lexeme, e.Message)
}
