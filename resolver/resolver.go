// Package resolver implements the static pass that runs between parsing and
// evaluation. It walks the AST once, computing how many enclosing scopes
// separate each variable reference from its declaration, and flags a fixed
// set of static errors (bad own-initializer reads, duplicate locals,
// misplaced return/this/super, self-inheriting classes) before the
// evaluator ever runs.
package resolver

import (
	"fmt"
	"strings"

	"nilan/ast"
	"nilan/token"
)

// FunctionType tracks the kind of function enclosing the node currently
// being resolved, used to validate `return`.
type FunctionType int

const (
	FunctionNone FunctionType = iota
	FunctionFunction
	FunctionMethod
	FunctionInitializer
)

// ClassType tracks the kind of class enclosing the node currently being
// resolved, used to validate `this` and `super`.
type ClassType int

const (
	ClassNone ClassType = iota
	ClassClass
	ClassSubclass
)

// scope maps a declared name to whether its initializer has finished
// resolving. A name present with value false is mid-declaration: reading it
// now would observe its own, not-yet-initialized slot.
type scope map[string]bool

// ResolutionError is a single static error surfaced by the resolver,
// reported against the offending token.
type ResolutionError struct {
	Line    int32
	Lexeme  string
	Message string
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Lexeme, e.Message)
}

// Resolver performs the static pass. Locals, once Resolve returns
// successfully, is the side-table the evaluator consults: expression id ->
// number of enclosing scopes to walk to find the binding.
type Resolver struct {
	scopes          []scope
	Locals          map[int]int
	currentFunction FunctionType
	currentClass    ClassType
	errors          []error
}

// New constructs a Resolver ready to resolve a program's top-level
// statements.
func New() *Resolver {
	return &Resolver{
		Locals:          map[int]int{},
		currentFunction: FunctionNone,
		currentClass:    ClassNone,
	}
}

// Resolve walks statements, populating Locals. On any static error, it
// returns an aggregate error joining every message found during the pass,
// newline-separated; the side-table should not be trusted in that case.
func (r *Resolver) Resolve(statements []ast.Stmt) error {
	r.resolveStatements(statements)
	if len(r.errors) == 0 {
		return nil
	}
	messages := make([]string, len(r.errors))
	for i, err := range r.errors {
		messages[i] = err.Error()
	}
	return fmt.Errorf("%s", strings.Join(messages, "\n"))
}

func (r *Resolver) report(tok token.Token, message string) {
	r.errors = append(r.errors, ResolutionError{Line: tok.Line, Lexeme: tok.DisplayLexeme(), Message: message})
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) currentScope() scope {
	return r.scopes[len(r.scopes)-1]
}

// declare inserts name into the innermost scope as not-yet-defined. A
// collision within that same scope is a static error; shadowing an outer
// scope is fine.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.currentScope()
	if _, exists := s[name.Lexeme]; exists {
		r.report(name, "Already a variable with this name in this scope.")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.currentScope()[name.Lexeme] = true
}

// resolveLocal searches scopes innermost-first; on a match at stack index i
// (of n scopes), it records depth = n-1-i keyed by the expression's id. No
// match leaves no entry, meaning the evaluator treats the reference as
// global.
func (r *Resolver) resolveLocal(expr ast.Expression, name token.Token) {
	n := len(r.scopes)
	for i := n - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.Locals[expr.ExprId()] = n - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveStatements(statements []ast.Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	if stmt == nil {
		return
	}
	stmt.Accept(r)
}

func (r *Resolver) resolveExpr(expr ast.Expression) {
	if expr == nil {
		return
	}
	expr.Accept(r)
}

func (r *Resolver) resolveFunction(stmt ast.FunctionStmt, kind FunctionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	defer r.endScope()

	for _, param := range stmt.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(stmt.Body)
}

// --- ast.StmtVisitor ---

func (r *Resolver) VisitExpressionStmt(stmt ast.ExpressionStmt) any {
	r.resolveExpr(stmt.Expression)
	return nil
}

func (r *Resolver) VisitPrintStmt(stmt ast.PrintStmt) any {
	r.resolveExpr(stmt.Expression)
	return nil
}

func (r *Resolver) VisitVarStmt(stmt ast.VarStmt) any {
	r.declare(stmt.Name)
	if stmt.Initializer != nil {
		r.resolveExpr(stmt.Initializer)
	}
	r.define(stmt.Name)
	return nil
}

func (r *Resolver) VisitBlockStmt(stmt ast.BlockStmt) any {
	r.beginScope()
	r.resolveStatements(stmt.Statements)
	r.endScope()
	return nil
}

func (r *Resolver) VisitIfStmt(stmt ast.IfStmt) any {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.ThenBranch)
	if stmt.ElseBranch != nil {
		r.resolveStmt(stmt.ElseBranch)
	}
	return nil
}

func (r *Resolver) VisitWhileStmt(stmt ast.WhileStmt) any {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Body)
	return nil
}

func (r *Resolver) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	r.declare(stmt.Name)
	r.define(stmt.Name)
	r.resolveFunction(stmt, FunctionFunction)
	return nil
}

func (r *Resolver) VisitReturnStmt(stmt ast.ReturnStmt) any {
	if r.currentFunction == FunctionNone {
		r.report(stmt.Keyword, "Can't return from top-level code.")
	}
	if stmt.Value != nil {
		if r.currentFunction == FunctionInitializer {
			r.report(stmt.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(stmt.Value)
	}
	return nil
}

func (r *Resolver) VisitClassStmt(stmt ast.ClassStmt) any {
	enclosingClass := r.currentClass
	r.currentClass = ClassClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.report(stmt.Superclass.Name, "A class can't inherit from itself.")
		} else {
			r.currentClass = ClassSubclass
			r.resolveExpr(*stmt.Superclass)
		}
		r.beginScope()
		r.currentScope()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.currentScope()["this"] = true
	defer r.endScope()

	for _, method := range stmt.Methods {
		kind := FunctionMethod
		if method.Name.Lexeme == "init" {
			kind = FunctionInitializer
		}
		r.resolveFunction(method, kind)
	}
	return nil
}

// --- ast.ExpressionVisitor ---

func (r *Resolver) VisitVariableExpression(expr ast.Variable) any {
	if len(r.scopes) > 0 {
		if defined, ok := r.currentScope()[expr.Name.Lexeme]; ok && !defined {
			r.report(expr.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(expr, expr.Name)
	return nil
}

func (r *Resolver) VisitAssignExpression(expr ast.Assign) any {
	r.resolveExpr(expr.Value)
	r.resolveLocal(expr, expr.Name)
	return nil
}

func (r *Resolver) VisitBinary(expr ast.Binary) any {
	r.resolveExpr(expr.Left)
	r.resolveExpr(expr.Right)
	return nil
}

func (r *Resolver) VisitUnary(expr ast.Unary) any {
	r.resolveExpr(expr.Right)
	return nil
}

func (r *Resolver) VisitLiteral(expr ast.Literal) any {
	return nil
}

func (r *Resolver) VisitGrouping(expr ast.Grouping) any {
	r.resolveExpr(expr.Expression)
	return nil
}

func (r *Resolver) VisitLogicalExpression(expr ast.Logical) any {
	r.resolveExpr(expr.Left)
	r.resolveExpr(expr.Right)
	return nil
}

func (r *Resolver) VisitCallExpression(expr ast.Call) any {
	r.resolveExpr(expr.Callee)
	for _, arg := range expr.Args {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *Resolver) VisitGetExpression(expr ast.Get) any {
	r.resolveExpr(expr.Object)
	return nil
}

func (r *Resolver) VisitSetExpression(expr ast.Set) any {
	r.resolveExpr(expr.Value)
	r.resolveExpr(expr.Object)
	return nil
}

func (r *Resolver) VisitThisExpression(expr ast.This) any {
	if r.currentClass == ClassNone {
		r.report(expr.Keyword, "Can't use 'this' outside of a class.")
		return nil
	}
	r.resolveLocal(expr, expr.Keyword)
	return nil
}

func (r *Resolver) VisitSuperExpression(expr ast.Super) any {
	switch r.currentClass {
	case ClassNone:
		r.report(expr.Keyword, "Can't use 'super' outside of a class.")
	case ClassClass:
		r.report(expr.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	r.resolveLocal(expr, expr.Keyword)
	return nil
}
