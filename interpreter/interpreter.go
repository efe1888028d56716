// Package interpreter implements the tree-walking evaluator: the
// Environment scope chain, the runtime value types (user functions,
// classes, instances), and the Interpreter that walks a resolved AST to
// execute it.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"time"

	"nilan/ast"
	"nilan/token"
)

// Interpreter executes parsed, resolved statements. Globals is the root
// environment, prepopulated with the `clock` builtin; environment is the
// current scope pointer (initially Globals); locals is the resolver's
// expr-id -> depth side-table; Out is where `print` writes.
type Interpreter struct {
	Globals     *Environment
	environment *Environment
	locals      map[int]int
	Out         io.Writer
}

// New constructs an Interpreter. locals is the side-table produced by the
// resolver; out defaults to os.Stdout when nil.
func New(locals map[int]int, out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	globals := NewEnvironment(nil)
	globals.Define("clock", &NativeFn{
		NameValue:  "clock",
		ArityValue: 0,
		Fn: func(interp *Interpreter, args []any) (any, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	})
	return &Interpreter{
		Globals:     globals,
		environment: globals,
		locals:      locals,
		Out:         out,
	}
}

// Interpret executes statements, recovering a RuntimeError panic into a
// returned error so the driver can report it and choose an exit code. Any
// other panic (a returnSignal escaping top-level code, which the resolver
// should have already rejected) is allowed to propagate as a bug.
func (interp *Interpreter) Interpret(statements []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if runtimeErr, ok := r.(RuntimeError); ok {
				err = runtimeErr
				return
			}
			panic(r)
		}
	}()
	for _, stmt := range statements {
		interp.execute(stmt)
	}
	return nil
}

// MergeLocals folds a fresh resolver pass's expr-id -> depth table into
// the interpreter's own. A driver that keeps one Interpreter alive
// across many separate resolve passes (the REPL, one pass per line)
// needs this rather than a plain replace: earlier lines' closures still
// look up their captured expression ids in this same table.
func (interp *Interpreter) MergeLocals(locals map[int]int) {
	for id, depth := range locals {
		interp.locals[id] = depth
	}
}

// GlobalNames reports the names currently bound in the global scope,
// sorted, for the REPL's `:env` inspector.
func (interp *Interpreter) GlobalNames() []string {
	return interp.Globals.Names()
}

func (interp *Interpreter) execute(stmt ast.Stmt) {
	stmt.Accept(interp)
}

func (interp *Interpreter) evaluate(expr ast.Expression) any {
	return expr.Accept(interp)
}

func (interp *Interpreter) executeBlock(statements []ast.Stmt, env *Environment) {
	previous := interp.environment
	interp.environment = env
	defer func() { interp.environment = previous }()

	for _, stmt := range statements {
		interp.execute(stmt)
	}
}

func (interp *Interpreter) lookUpVariable(name token.Token, expr ast.Expression) any {
	if depth, ok := interp.locals[expr.ExprId()]; ok {
		return interp.environment.GetAt(depth, name.Lexeme)
	}
	value, err := interp.Globals.Get(name)
	if err != nil {
		panic(err)
	}
	return value
}

// --- ast.StmtVisitor ---

func (interp *Interpreter) VisitExpressionStmt(stmt ast.ExpressionStmt) any {
	interp.evaluate(stmt.Expression)
	return nil
}

func (interp *Interpreter) VisitPrintStmt(stmt ast.PrintStmt) any {
	value := interp.evaluate(stmt.Expression)
	fmt.Fprintln(interp.Out, stringify(value))
	return nil
}

func (interp *Interpreter) VisitVarStmt(stmt ast.VarStmt) any {
	var value any
	if stmt.Initializer != nil {
		value = interp.evaluate(stmt.Initializer)
	}
	interp.environment.Define(stmt.Name.Lexeme, value)
	return nil
}

func (interp *Interpreter) VisitBlockStmt(stmt ast.BlockStmt) any {
	interp.executeBlock(stmt.Statements, NewEnvironment(interp.environment))
	return nil
}

func (interp *Interpreter) VisitIfStmt(stmt ast.IfStmt) any {
	if isTruthy(interp.evaluate(stmt.Condition)) {
		interp.execute(stmt.ThenBranch)
	} else if stmt.ElseBranch != nil {
		interp.execute(stmt.ElseBranch)
	}
	return nil
}

func (interp *Interpreter) VisitWhileStmt(stmt ast.WhileStmt) any {
	for isTruthy(interp.evaluate(stmt.Condition)) {
		interp.execute(stmt.Body)
	}
	return nil
}

func (interp *Interpreter) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	fn := &UserFn{Declaration: stmt, Closure: interp.environment}
	interp.environment.Define(stmt.Name.Lexeme, fn)
	return nil
}

func (interp *Interpreter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	var value any
	if stmt.Value != nil {
		value = interp.evaluate(stmt.Value)
	}
	panic(returnSignal{value: value})
}

func (interp *Interpreter) VisitClassStmt(stmt ast.ClassStmt) any {
	interp.environment.Define(stmt.Name.Lexeme, nil)

	var superclass *ClassDef
	if stmt.Superclass != nil {
		superValue := interp.evaluate(*stmt.Superclass)
		sc, ok := superValue.(*ClassDef)
		if !ok {
			panic(NewRuntimeError(stmt.Superclass.Name.Line, "Superclass must be a class."))
		}
		superclass = sc
		interp.environment = NewEnvironment(interp.environment)
		interp.environment.Define("super", superclass)
	}

	methods := make(map[string]*UserFn, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods[method.Name.Lexeme] = &UserFn{
			Declaration:   method,
			Closure:       interp.environment,
			IsInitializer: method.Name.Lexeme == "init",
		}
	}

	class := &ClassDef{Name: stmt.Name.Lexeme, Superclass: superclass, Methods: methods}

	if superclass != nil {
		interp.environment = interp.environment.enclosing
	}

	if err := interp.environment.Assign(stmt.Name, class); err != nil {
		panic(err)
	}
	return nil
}

// --- ast.ExpressionVisitor ---

func (interp *Interpreter) VisitLiteral(expr ast.Literal) any {
	return expr.Value
}

func (interp *Interpreter) VisitGrouping(expr ast.Grouping) any {
	return interp.evaluate(expr.Expression)
}

func (interp *Interpreter) VisitVariableExpression(expr ast.Variable) any {
	return interp.lookUpVariable(expr.Name, expr)
}

func (interp *Interpreter) VisitAssignExpression(expr ast.Assign) any {
	value := interp.evaluate(expr.Value)
	if depth, ok := interp.locals[expr.ExprId()]; ok {
		interp.environment.AssignAt(depth, expr.Name.Lexeme, value)
	} else if err := interp.Globals.Assign(expr.Name, value); err != nil {
		panic(err)
	}
	return value
}

func (interp *Interpreter) VisitLogicalExpression(expr ast.Logical) any {
	left := interp.evaluate(expr.Left)
	if expr.Operator.TokenType == token.OR {
		if isTruthy(left) {
			return left
		}
	} else if !isTruthy(left) {
		return left
	}
	return interp.evaluate(expr.Right)
}

func (interp *Interpreter) VisitUnary(expr ast.Unary) any {
	right := interp.evaluate(expr.Right)
	switch expr.Operator.TokenType {
	case token.BANG:
		return !isTruthy(right)
	case token.MINUS:
		value, ok := right.(float64)
		if !ok {
			panic(NewRuntimeError(expr.Operator.Line, "Operand must be a number."))
		}
		return -value
	default:
		panic(NewRuntimeError(expr.Operator.Line, fmt.Sprintf("Unsupported unary operator '%s'.", expr.Operator.Lexeme)))
	}
}

func (interp *Interpreter) VisitBinary(expr ast.Binary) any {
	left := interp.evaluate(expr.Left)
	right := interp.evaluate(expr.Right)

	switch expr.Operator.TokenType {
	case token.EQUAL_EQUAL:
		return isEqual(left, right)
	case token.BANG_EQUAL:
		return !isEqual(left, right)
	case token.PLUS:
		if lNum, ok := left.(float64); ok {
			if rNum, ok := right.(float64); ok {
				return lNum + rNum
			}
		}
		if lStr, ok := left.(string); ok {
			if rStr, ok := right.(string); ok {
				return lStr + rStr
			}
		}
		panic(NewRuntimeError(expr.Operator.Line, "Operands must be two numbers or two strings."))
	case token.MINUS:
		l, r := interp.numberOperands(expr.Operator, left, right)
		return l - r
	case token.STAR:
		l, r := interp.numberOperands(expr.Operator, left, right)
		return l * r
	case token.SLASH:
		l, r := interp.numberOperands(expr.Operator, left, right)
		return l / r
	case token.LARGER:
		l, r := interp.numberOperands(expr.Operator, left, right)
		return l > r
	case token.LARGER_EQUAL:
		l, r := interp.numberOperands(expr.Operator, left, right)
		return l >= r
	case token.LESS:
		l, r := interp.numberOperands(expr.Operator, left, right)
		return l < r
	case token.LESS_EQUAL:
		l, r := interp.numberOperands(expr.Operator, left, right)
		return l <= r
	default:
		panic(NewRuntimeError(expr.Operator.Line, fmt.Sprintf("Unsupported binary operator '%s'.", expr.Operator.Lexeme)))
	}
}

func (interp *Interpreter) numberOperands(operator token.Token, left, right any) (float64, float64) {
	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		panic(NewRuntimeError(operator.Line, "Operands must be numbers."))
	}
	return l, r
}

func (interp *Interpreter) VisitCallExpression(expr ast.Call) any {
	callee := interp.evaluate(expr.Callee)

	args := make([]any, len(expr.Args))
	for i, arg := range expr.Args {
		args[i] = interp.evaluate(arg)
	}

	callable, ok := callee.(Callable)
	if !ok {
		panic(NewRuntimeError(expr.Paren.Line, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		panic(NewRuntimeError(expr.Paren.Line, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args))))
	}

	result, err := callable.Call(interp, args)
	if err != nil {
		panic(err)
	}
	return result
}

func (interp *Interpreter) VisitGetExpression(expr ast.Get) any {
	object := interp.evaluate(expr.Object)
	instance, ok := object.(*Instance)
	if !ok {
		panic(NewRuntimeError(expr.Name.Line, "Only instances have properties."))
	}
	value, ok := instance.Get(expr.Name.Lexeme)
	if !ok {
		panic(NewRuntimeError(expr.Name.Line, fmt.Sprintf("Undefined property '%s'.", expr.Name.Lexeme)))
	}
	return value
}

func (interp *Interpreter) VisitSetExpression(expr ast.Set) any {
	object := interp.evaluate(expr.Object)
	instance, ok := object.(*Instance)
	if !ok {
		panic(NewRuntimeError(expr.Name.Line, "Only instances have fields."))
	}
	value := interp.evaluate(expr.Value)
	instance.Set(expr.Name.Lexeme, value)
	return value
}

func (interp *Interpreter) VisitThisExpression(expr ast.This) any {
	return interp.lookUpVariable(expr.Keyword, expr)
}

func (interp *Interpreter) VisitSuperExpression(expr ast.Super) any {
	depth := interp.locals[expr.ExprId()]
	superclass := interp.environment.GetAt(depth, "super").(*ClassDef)
	instance := interp.environment.GetAt(depth-1, "this").(*Instance)

	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		panic(NewRuntimeError(expr.Method.Line, fmt.Sprintf("Undefined property '%s'.", expr.Method.Lexeme)))
	}
	return method.Bind(instance)
}
