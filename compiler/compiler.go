package compiler

import (
	"fmt"

	"nilan/token"
)

// Compiler is a Pratt parser that compiles a single expression straight to
// a Chunk of bytecode, without ever building an AST. It exists alongside
// the tree-walking interpreter to show the other half of the story: the
// same grammar, compiled instead of walked. It deliberately stops at a
// single expression rather than growing into a full statement/program
// compiler (globals, control flow, functions) - OpDefineGlobal, OpJump
// and friends are declared in code.go for a future compiler to use, but
// nothing here emits them yet.
type Compiler struct {
	tokens   []token.Token
	position int
	chunk    *Chunk
	errs     []error
}

type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseRule struct {
	prefix     func(*Compiler)
	infix      func(*Compiler)
	precedence precedence
}

var rules map[token.TokenType]parseRule

func init() {
	rules = map[token.TokenType]parseRule{
		token.LPA:          {(*Compiler).grouping, nil, precNone},
		token.MINUS:        {(*Compiler).unary, (*Compiler).binary, precTerm},
		token.PLUS:         {nil, (*Compiler).binary, precTerm},
		token.SLASH:        {nil, (*Compiler).binary, precFactor},
		token.STAR:         {nil, (*Compiler).binary, precFactor},
		token.BANG:         {(*Compiler).unary, nil, precNone},
		token.BANG_EQUAL:   {nil, (*Compiler).binary, precEquality},
		token.EQUAL_EQUAL:  {nil, (*Compiler).binary, precEquality},
		token.LESS:         {nil, (*Compiler).binary, precComparison},
		token.LESS_EQUAL:   {nil, (*Compiler).binary, precComparison},
		token.LARGER:       {nil, (*Compiler).binary, precComparison},
		token.LARGER_EQUAL: {nil, (*Compiler).binary, precComparison},
		token.NUMBER:       {(*Compiler).number, nil, precNone},
		token.TRUE:         {(*Compiler).literal, nil, precNone},
		token.FALSE:        {(*Compiler).literal, nil, precNone},
		token.NIL:          {(*Compiler).literal, nil, precNone},
	}
}

func ruleFor(t token.TokenType) parseRule {
	if r, ok := rules[t]; ok {
		return r
	}
	return parseRule{nil, nil, precNone}
}

// Compile compiles a single expression (tokens with a trailing EOF, as
// produced by lexer.Scan) into a Chunk.
func Compile(tokens []token.Token) (*Chunk, error) {
	c := &Compiler{tokens: tokens, chunk: &Chunk{}}
	c.parsePrecedence(precAssignment)
	c.emit(byte(OpReturn))

	if len(c.errs) > 0 {
		return nil, c.errs[0]
	}
	return c.chunk, nil
}

func (c *Compiler) peek() token.Token  { return c.tokens[c.position] }
func (c *Compiler) previous() token.Token {
	return c.tokens[c.position-1]
}

func (c *Compiler) advance() token.Token {
	if c.peek().TokenType != token.EOF {
		c.position++
	}
	return c.previous()
}

func (c *Compiler) errorAt(tok token.Token, message string) {
	c.errs = append(c.errs, &CompileError{Line: tok.Line, Lexeme: tok.Lexeme, Message: message})
}

func (c *Compiler) line() int32 {
	if c.position == 0 {
		return c.tokens[0].Line
	}
	return c.previous().Line
}

func (c *Compiler) emit(bytes ...byte) {
	for _, b := range bytes {
		c.chunk.Write(b, c.line())
	}
}

func (c *Compiler) parsePrecedence(prec precedence) {
	tok := c.advance()
	rule := ruleFor(tok.TokenType)
	if rule.prefix == nil {
		c.errorAt(tok, "Expect expression.")
		return
	}
	rule.prefix(c)

	for prec <= ruleFor(c.peek().TokenType).precedence {
		tok = c.advance()
		infix := ruleFor(tok.TokenType).infix
		infix(c)
	}
}

func (c *Compiler) number() {
	tok := c.previous()
	value, ok := tok.Literal.(float64)
	if !ok {
		c.errorAt(tok, "Invalid number literal.")
		return
	}
	index := c.chunk.AddConstant(value)
	c.emit(MakeInstruction(OpConstant, index)...)
}

func (c *Compiler) literal() {
	switch c.previous().TokenType {
	case token.TRUE:
		c.emit(byte(OpTrue))
	case token.FALSE:
		c.emit(byte(OpFalse))
	case token.NIL:
		c.emit(byte(OpNil))
	}
}

func (c *Compiler) grouping() {
	c.parsePrecedence(precAssignment)
	c.consume(token.RPA, "Expect ')' after expression.")
}

func (c *Compiler) unary() {
	operator := c.previous()
	c.parsePrecedence(precUnary)
	switch operator.TokenType {
	case token.MINUS:
		c.emit(byte(OpNegate))
	case token.BANG:
		c.emit(byte(OpNot))
	}
}

// compoundRule records the two opcodes that together implement an
// operator the VM has no single instruction for: != is "equal, then
// negate", >= is "less, then negate", <= is "greater, then negate".
var compoundRule = map[token.TokenType][2]Opcode{
	token.BANG_EQUAL:   {OpEqual, OpNot},
	token.LARGER_EQUAL: {OpLess, OpNot},
	token.LESS_EQUAL:   {OpGreater, OpNot},
}

func (c *Compiler) binary() {
	operator := c.previous()
	rule := ruleFor(operator.TokenType)
	c.parsePrecedence(rule.precedence + 1)

	if pair, ok := compoundRule[operator.TokenType]; ok {
		c.emit(byte(pair[0]), byte(pair[1]))
		return
	}

	switch operator.TokenType {
	case token.PLUS:
		c.emit(byte(OpAdd))
	case token.MINUS:
		c.emit(byte(OpSubtract))
	case token.STAR:
		c.emit(byte(OpMultiply))
	case token.SLASH:
		c.emit(byte(OpDivide))
	case token.EQUAL_EQUAL:
		c.emit(byte(OpEqual))
	case token.LESS:
		c.emit(byte(OpLess))
	case token.LARGER:
		c.emit(byte(OpGreater))
	default:
		c.errorAt(operator, fmt.Sprintf("Unsupported binary operator '%s'.", operator.Lexeme))
	}
}

func (c *Compiler) consume(t token.TokenType, message string) {
	if c.peek().TokenType == t {
		c.advance()
		return
	}
	c.errorAt(c.peek(), message)
}
