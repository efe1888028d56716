package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"nilan/ast"
)

// astPrinter implements both visitor interfaces, building a JSON-friendly
// representation of the AST out of maps and slices. Each Visit method
// returns a value that marshals cleanly with encoding/json.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(stmt ast.ExpressionStmt) any {
	return map[string]any{
		"type":       "ExpressionStmt",
		"expression": stmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitPrintStmt(stmt ast.PrintStmt) any {
	return map[string]any{
		"type":       "PrintStmt",
		"expression": stmt.Expression.Accept(p),
	}
}

func (p astPrinter) VisitVarStmt(stmt ast.VarStmt) any {
	return map[string]any{
		"type":        "VarStmt",
		"name":        stmt.Name.Lexeme,
		"initializer": nilOrAcceptExpr(stmt.Initializer, p),
	}
}

func (p astPrinter) VisitBlockStmt(stmt ast.BlockStmt) any {
	statements := make([]any, 0, len(stmt.Statements))
	for _, s := range stmt.Statements {
		statements = append(statements, s.Accept(p))
	}
	return map[string]any{
		"type":       "BlockStmt",
		"statements": statements,
	}
}

func (p astPrinter) VisitIfStmt(stmt ast.IfStmt) any {
	return map[string]any{
		"type":      "IfStmt",
		"condition": stmt.Condition.Accept(p),
		"then":      stmt.ThenBranch.Accept(p),
		"else":      nilOrAcceptStmt(stmt.ElseBranch, p),
	}
}

func (p astPrinter) VisitWhileStmt(stmt ast.WhileStmt) any {
	return map[string]any{
		"type":      "WhileStmt",
		"condition": stmt.Condition.Accept(p),
		"body":      stmt.Body.Accept(p),
	}
}

func (p astPrinter) VisitFunctionStmt(stmt ast.FunctionStmt) any {
	params := make([]string, 0, len(stmt.Params))
	for _, param := range stmt.Params {
		params = append(params, param.Lexeme)
	}
	body := make([]any, 0, len(stmt.Body))
	for _, s := range stmt.Body {
		body = append(body, s.Accept(p))
	}
	return map[string]any{
		"type":   "FunctionStmt",
		"name":   stmt.Name.Lexeme,
		"params": params,
		"body":   body,
	}
}

func (p astPrinter) VisitReturnStmt(stmt ast.ReturnStmt) any {
	return map[string]any{
		"type":  "ReturnStmt",
		"value": nilOrAcceptExpr(stmt.Value, p),
	}
}

func (p astPrinter) VisitClassStmt(stmt ast.ClassStmt) any {
	var superclass any
	if stmt.Superclass != nil {
		superclass = stmt.Superclass.Name.Lexeme
	}
	methods := make([]any, 0, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods = append(methods, method.Accept(p))
	}
	return map[string]any{
		"type":       "ClassStmt",
		"name":       stmt.Name.Lexeme,
		"superclass": superclass,
		"methods":    methods,
	}
}

func (p astPrinter) VisitLogicalExpression(expr ast.Logical) any {
	return map[string]any{
		"type":     "Logical",
		"operator": expr.Operator.Lexeme,
		"left":     expr.Left.Accept(p),
		"right":    expr.Right.Accept(p),
	}
}

func (p astPrinter) VisitAssignExpression(expr ast.Assign) any {
	return map[string]any{
		"type":  "Assign",
		"name":  expr.Name.Lexeme,
		"value": expr.Value.Accept(p),
	}
}

func (p astPrinter) VisitVariableExpression(expr ast.Variable) any {
	return map[string]any{
		"type": "Variable",
		"name": expr.Name.Lexeme,
	}
}

func (p astPrinter) VisitBinary(expr ast.Binary) any {
	return map[string]any{
		"type":     "Binary",
		"operator": expr.Operator.Lexeme,
		"left":     expr.Left.Accept(p),
		"right":    expr.Right.Accept(p),
	}
}

func (p astPrinter) VisitUnary(expr ast.Unary) any {
	return map[string]any{
		"type":     "Unary",
		"operator": expr.Operator.Lexeme,
		"right":    expr.Right.Accept(p),
	}
}

func (p astPrinter) VisitLiteral(expr ast.Literal) any {
	// literals are terminal values and can be used directly in JSON
	return expr.Value
}

func (p astPrinter) VisitGrouping(expr ast.Grouping) any {
	return map[string]any{
		"type":       "Grouping",
		"expression": expr.Expression.Accept(p),
	}
}

func (p astPrinter) VisitCallExpression(expr ast.Call) any {
	args := make([]any, 0, len(expr.Args))
	for _, arg := range expr.Args {
		args = append(args, arg.Accept(p))
	}
	return map[string]any{
		"type":   "Call",
		"callee": expr.Callee.Accept(p),
		"args":   args,
	}
}

func (p astPrinter) VisitGetExpression(expr ast.Get) any {
	return map[string]any{
		"type":   "Get",
		"object": expr.Object.Accept(p),
		"name":   expr.Name.Lexeme,
	}
}

func (p astPrinter) VisitSetExpression(expr ast.Set) any {
	return map[string]any{
		"type":   "Set",
		"object": expr.Object.Accept(p),
		"name":   expr.Name.Lexeme,
		"value":  expr.Value.Accept(p),
	}
}

func (p astPrinter) VisitThisExpression(expr ast.This) any {
	return map[string]any{"type": "This"}
}

func (p astPrinter) VisitSuperExpression(expr ast.Super) any {
	return map[string]any{
		"type":   "Super",
		"method": expr.Method.Lexeme,
	}
}

func nilOrAcceptExpr(expr ast.Expression, p ast.ExpressionVisitor) any {
	if expr == nil {
		return nil
	}
	return expr.Accept(p)
}

func nilOrAcceptStmt(stmt ast.Stmt, p ast.StmtVisitor) any {
	if stmt == nil {
		return nil
	}
	return stmt.Accept(p)
}

// PrintASTJSON renders a slice of statements as prettified JSON.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	out := make([]any, 0, len(statements))
	for _, stmt := range statements {
		out = append(out, stmt.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// WriteASTJSONToFile writes the AST JSON for statements to path.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	jsonStr, err := PrintASTJSON(statements)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(jsonStr); err != nil {
		return fmt.Errorf("error writing AST to file: %w", err)
	}
	return nil
}

// Print renders statements as AST JSON directly to standard output. None of
// the driver's commands call it; `compile` disassembles bytecode instead.
func Print(statements []ast.Stmt) {
	jsonStr, err := PrintASTJSON(statements)
	if err != nil {
		fmt.Println("error producing AST JSON:", err)
		return
	}
	fmt.Println(jsonStr)
}
