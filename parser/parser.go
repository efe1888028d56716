// Package parser implements a recursive-descent parser with Pratt-style
// precedence climbing for expressions. It turns a token stream into a tree
// of ast.Stmt nodes, assigning every ast.Expression a stable id in creation
// order as it goes.
package parser

import (
	"nilan/ast"
	"nilan/token"
)

var equalityTokenTypes = []token.TokenType{token.BANG_EQUAL, token.EQUAL_EQUAL}
var comparisonTokenTypes = []token.TokenType{token.LARGER, token.LARGER_EQUAL, token.LESS, token.LESS_EQUAL}
var termTokenTypes = []token.TokenType{token.MINUS, token.PLUS}
var factorTokenTypes = []token.TokenType{token.STAR, token.SLASH}

const maxArgs = 255

// statementStartTokens are the token kinds synchronize() treats as the
// start of a new statement after a syntax error.
var statementStartTokens = map[token.TokenType]bool{
	token.CLASS:  true,
	token.FUN:    true,
	token.VAR:    true,
	token.FOR:    true,
	token.IF:     true,
	token.WHILE:  true,
	token.PRINT:  true,
	token.RETURN: true,
}

// Parser is one pass over a fixed token slice. It never looks behind its
// start position nor re-scans; position always refers to the next
// unconsumed token.
type Parser struct {
	tokens   []token.Token
	position int
	nextId   int
}

// Make constructs a Parser over the full token stream produced by the
// scanner (including its terminating EOF).
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// MakeFrom is Make, but expression ids start at startId rather than 0.
// The REPL uses this so that expressions parsed on later lines never
// reuse an id a resolver has already recorded a scope depth for.
func MakeFrom(tokens []token.Token, startId int) *Parser {
	return &Parser{tokens: tokens, nextId: startId}
}

// NextId reports the id the next parsed expression would receive,
// letting a caller that parses multiple token streams in sequence keep
// ids globally unique across calls.
func (parser *Parser) NextId() int {
	return parser.nextId
}

func (parser *Parser) newId() int {
	id := parser.nextId
	parser.nextId++
	return id
}

func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

func (parser *Parser) isFinished() bool {
	return parser.peek().TokenType == token.EOF
}

func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

func (parser *Parser) checkType(tokenType token.TokenType) bool {
	if parser.isFinished() {
		return tokenType == token.EOF
	}
	return parser.peek().TokenType == tokenType
}

func (parser *Parser) isMatch(tokenTypes ...token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

func (parser *Parser) consume(tokenType token.TokenType, message string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	return token.Token{}, NewSyntaxError(parser.peek(), message)
}

// synchronize discards tokens until it reaches a likely statement boundary,
// so a single syntax error does not cascade into spurious follow-on errors.
func (parser *Parser) synchronize() {
	parser.advance()
	for !parser.isFinished() {
		if parser.previous().TokenType == token.SEMICOLON {
			return
		}
		if statementStartTokens[parser.peek().TokenType] {
			return
		}
		parser.advance()
	}
}

// Parse consumes the entire token stream, returning every top-level
// statement successfully parsed and every syntax error encountered. Parsing
// continues past an error (after synchronizing) so multiple independent
// mistakes are all reported in one pass.
func (parser *Parser) Parse() ([]ast.Stmt, []error) {
	var statements []ast.Stmt
	var errs []error

	for !parser.isFinished() {
		stmt, err := parser.declaration()
		if err != nil {
			errs = append(errs, err)
			parser.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	return statements, errs
}

// declaration = classDecl | funDecl | varDecl | statement
func (parser *Parser) declaration() (ast.Stmt, error) {
	if parser.isMatch(token.CLASS) {
		return parser.classDeclaration()
	}
	if parser.isMatch(token.FUN) {
		return parser.function("function")
	}
	if parser.isMatch(token.VAR) {
		return parser.varDeclaration()
	}
	return parser.statement()
}

// classDecl = "class" IDENT ("<" IDENT)? "{" function* "}"
func (parser *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if parser.isMatch(token.LESS) {
		superName, err := parser.consume(token.IDENTIFIER, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Variable{Id: parser.newId(), Name: superName}
	}

	if _, err := parser.consume(token.LCUR, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	var methods []ast.FunctionStmt
	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		method, err := parser.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method.(ast.FunctionStmt))
	}

	if _, err := parser.consume(token.RCUR, "Expect '}' after class body."); err != nil {
		return nil, err
	}

	return ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

// function = IDENT "(" params? ")" block
// kind is "function" or "method", used only in diagnostic messages.
func (parser *Parser) function(kind string) (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}

	if _, err := parser.consume(token.LPA, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}

	var params []token.Token
	if !parser.checkType(token.RPA) {
		for {
			if len(params) >= maxArgs {
				return nil, NewSyntaxError(parser.peek(), "Can't have more than 255 parameters.")
			}
			param, err := parser.consume(token.IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !parser.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := parser.consume(token.RPA, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := parser.consume(token.LCUR, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := parser.block()
	if err != nil {
		return nil, err
	}

	return ast.FunctionStmt{Name: name, Params: params, Body: body}, nil
}

// varDecl = "var" IDENT ("=" expression)? ";"
func (parser *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	if parser.isMatch(token.ASSIGN) {
		initializer, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := parser.consume(token.SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.VarStmt{Name: name, Initializer: initializer}, nil
}

// statement = exprStmt | forStmt | ifStmt | printStmt
//           | returnStmt | whileStmt | block
func (parser *Parser) statement() (ast.Stmt, error) {
	switch {
	case parser.isMatch(token.FOR):
		return parser.forStatement()
	case parser.isMatch(token.IF):
		return parser.ifStatement()
	case parser.isMatch(token.PRINT):
		return parser.printStatement()
	case parser.isMatch(token.RETURN):
		return parser.returnStatement()
	case parser.isMatch(token.WHILE):
		return parser.whileStatement()
	case parser.isMatch(token.LCUR):
		statements, err := parser.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: statements}, nil
	default:
		return parser.expressionStatement()
	}
}

// forStmt = "for" "(" (varDecl | exprStmt | ";")
//                     expression? ";"
//                     expression? ")" statement
//
// Desugars at parse time into:
//   Block { initializer?; While(cond ?? true, Block { body; increment? }) }
func (parser *Parser) forStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case parser.isMatch(token.SEMICOLON):
		initializer = nil
	case parser.checkType(token.VAR):
		parser.advance()
		initializer, err = parser.varDeclaration()
		if err != nil {
			return nil, err
		}
	default:
		initializer, err = parser.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		condition, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !parser.checkType(token.RPA) {
		increment, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.RPA, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := parser.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = ast.BlockStmt{Statements: []ast.Stmt{body, ast.ExpressionStmt{Expression: increment}}}
	}

	if condition == nil {
		condition = ast.Literal{Id: parser.newId(), Value: true}
	}
	body = ast.WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = ast.BlockStmt{Statements: []ast.Stmt{initializer, body}}
	}
	return body, nil
}

func (parser *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	thenBranch, err := parser.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if parser.isMatch(token.ELSE) {
		elseBranch, err = parser.statement()
		if err != nil {
			return nil, err
		}
	}

	return ast.IfStmt{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}, nil
}

func (parser *Parser) printStatement() (ast.Stmt, error) {
	value, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return ast.PrintStmt{Expression: value}, nil
}

func (parser *Parser) returnStatement() (ast.Stmt, error) {
	keyword := parser.previous()

	var value ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		var err error
		value, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (parser *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := parser.consume(token.LPA, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := parser.statement()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Condition: condition, Body: body}, nil
}

func (parser *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expr}, nil
}

// block consumes statements up to (and including) the closing '}'. The
// leading '{' must already have been consumed by the caller.
func (parser *Parser) block() ([]ast.Stmt, error) {
	var statements []ast.Stmt
	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		stmt, err := parser.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	if _, err := parser.consume(token.RCUR, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

// expression is the entry point into the precedence ladder.
func (parser *Parser) expression() (ast.Expression, error) {
	return parser.assignment()
}

// assignment is right-associative and sits below every other operator: it
// parses its left side at "or" precedence, then if an '=' follows,
// re-validates that left side as an assignment target.
func (parser *Parser) assignment() (ast.Expression, error) {
	expr, err := parser.or()
	if err != nil {
		return nil, err
	}

	if parser.isMatch(token.ASSIGN) {
		equals := parser.previous()
		value, err := parser.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case ast.Variable:
			return ast.Assign{Id: parser.newId(), Name: target.Name, Value: value}, nil
		case ast.Get:
			return ast.Set{Id: parser.newId(), Object: target.Object, Name: target.Name, Value: value}, nil
		default:
			return nil, NewSyntaxError(equals, "Invalid assignment target.")
		}
	}
	return expr, nil
}

func (parser *Parser) or() (ast.Expression, error) {
	expr, err := parser.and()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(token.OR) {
		operator := parser.previous()
		right, err := parser.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Id: parser.newId(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) and() (ast.Expression, error) {
	expr, err := parser.equality()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(token.AND) {
		operator := parser.previous()
		right, err := parser.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Id: parser.newId(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) equality() (ast.Expression, error) {
	expr, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(equalityTokenTypes...) {
		operator := parser.previous()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Id: parser.newId(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) comparison() (ast.Expression, error) {
	expr, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(comparisonTokenTypes...) {
		operator := parser.previous()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Id: parser.newId(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) term() (ast.Expression, error) {
	expr, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(termTokenTypes...) {
		operator := parser.previous()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Id: parser.newId(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) factor() (ast.Expression, error) {
	expr, err := parser.unary()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(factorTokenTypes...) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Id: parser.newId(), Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch(token.BANG, token.MINUS) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Id: parser.newId(), Operator: operator, Right: right}, nil
	}
	return parser.call()
}

// call = primary ( "(" args? ")" | "." IDENT )*
func (parser *Parser) call() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case parser.isMatch(token.LPA):
			expr, err = parser.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case parser.isMatch(token.DOT):
			name, err := parser.consume(token.IDENTIFIER, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = ast.Get{Id: parser.newId(), Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (parser *Parser) finishCall(callee ast.Expression) (ast.Expression, error) {
	var args []ast.Expression
	if !parser.checkType(token.RPA) {
		for {
			if len(args) >= maxArgs {
				return nil, NewSyntaxError(parser.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := parser.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !parser.isMatch(token.COMMA) {
				break
			}
		}
	}
	paren, err := parser.consume(token.RPA, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.Call{Id: parser.newId(), Callee: callee, Paren: paren, Args: args}, nil
}

// primary = NUMBER | STRING | "true" | "false" | "nil" | "this"
//         | IDENT | "(" expression ")" | "super" "." IDENT
func (parser *Parser) primary() (ast.Expression, error) {
	switch {
	case parser.isMatch(token.FALSE):
		return ast.Literal{Id: parser.newId(), Value: false}, nil
	case parser.isMatch(token.TRUE):
		return ast.Literal{Id: parser.newId(), Value: true}, nil
	case parser.isMatch(token.NIL):
		return ast.Literal{Id: parser.newId(), Value: nil}, nil
	case parser.isMatch(token.NUMBER, token.STRING):
		return ast.Literal{Id: parser.newId(), Value: parser.previous().Literal}, nil
	case parser.isMatch(token.SUPER):
		keyword := parser.previous()
		if _, err := parser.consume(token.DOT, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := parser.consume(token.IDENTIFIER, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return ast.Super{Id: parser.newId(), Keyword: keyword, Method: method}, nil
	case parser.isMatch(token.THIS):
		return ast.This{Id: parser.newId(), Keyword: parser.previous()}, nil
	case parser.isMatch(token.IDENTIFIER):
		return ast.Variable{Id: parser.newId(), Name: parser.previous()}, nil
	case parser.isMatch(token.LPA):
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RPA, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.Grouping{Id: parser.newId(), Expression: expr}, nil
	default:
		return nil, NewSyntaxError(parser.peek(), "Expect expression.")
	}
}
