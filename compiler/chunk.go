// Package compiler implements the alternative bytecode backend: a Pratt
// parser that compiles a single expression (see the package doc on
// Compiler for why the scope is deliberately partial) directly to a Chunk,
// bypassing the AST entirely.
package compiler

// Chunk is a contiguous buffer of opcodes and inline operands, a constants
// pool, and a parallel line-number array (one entry per byte of Code, used
// for diagnostics; disassembly collapses runs from the same line).
type Chunk struct {
	Code      []byte
	Constants []float64
	Lines     []int32
}

// Write appends a single byte of compiled code, recording the source line
// it came from.
func (c *Chunk) Write(b byte, line int32) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// AddConstant appends value to the constants pool and returns its index.
func (c *Chunk) AddConstant(value float64) int {
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}
