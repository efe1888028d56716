package main

import (
	"fmt"
	"io"
	"os"

	"nilan/interpreter"
	"nilan/lexer"
	"nilan/parser"
	"nilan/resolver"
)

// Exit codes per the driver's external interface: 0 success, 64 CLI
// misuse, 65 static error (scanner, parser, resolver), 70 runtime error,
// 74 file I/O failure.
const (
	exitSuccess  = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

// Session is one long-lived tree-walking evaluator plus the expression-id
// cursor that keeps every pass's ids unique across the session's
// lifetime. A single run of a script file uses a Session of one call;
// the REPL uses one Session across every line so that top-level var,
// fun, and class declarations persist and closures captured on one line
// still resolve correctly when invoked from a later line.
type Session struct {
	interp *interpreter.Interpreter
	nextId int
}

// NewSession constructs a Session. out is where `print` output goes;
// nil defaults to os.Stdout.
func NewSession(out io.Writer) *Session {
	return &Session{interp: interpreter.New(map[int]int{}, out)}
}

// Run scans, parses, resolves, and evaluates source, writing diagnostics
// to stderr. It returns the exit code the pipeline earned; a static or
// runtime error never panics out to the caller.
func (s *Session) Run(source string, stderr io.Writer) int {
	tokens, scanErr := lexer.New(source).Scan()
	if scanErr != nil {
		fmt.Fprintln(stderr, scanErr)
		return exitDataErr
	}

	p := parser.MakeFrom(tokens, s.nextId)
	statements, parseErrs := p.Parse()
	s.nextId = p.NextId()
	if len(parseErrs) > 0 {
		for _, parseErr := range parseErrs {
			fmt.Fprintln(stderr, parseErr)
		}
		return exitDataErr
	}

	r := resolver.New()
	if err := r.Resolve(statements); err != nil {
		fmt.Fprintln(stderr, err)
		return exitDataErr
	}
	s.interp.MergeLocals(r.Locals)

	if err := s.interp.Interpret(statements); err != nil {
		fmt.Fprintln(stderr, err)
		return exitSoftware
	}
	return exitSuccess
}

// GlobalNames reports the session's current top-level bindings, sorted,
// for the REPL's `:env` inspector.
func (s *Session) GlobalNames() []string {
	return s.interp.GlobalNames()
}

// readSourceFile reads a script file, mapping any failure to the file
// I/O exit code.
func readSourceFile(path string) (string, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		return "", exitIOErr
	}
	return string(data), exitSuccess
}
