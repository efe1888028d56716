package compiler

import "fmt"

// CompileError reports a problem turning tokens into bytecode. Its format
// mirrors the front end's parser.SyntaxError, since both describe a
// static problem located at a token.
type CompileError struct {
	Line    int32
	Lexeme  string
	Message string
}

func (e *CompileError) Error() string {
	if e.Lexeme == "" {
		return e.Message
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Lexeme, e.Message)
}
