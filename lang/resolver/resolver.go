// Package resolver performs the static scope-resolution pass over a parsed
// Lox program: for each variable reference it records the number of
// enclosing scopes between the use site and its declaration, and it
// enforces the scoping rules invalid at parse time (duplicate locals,
// self-referential initializers, return/this/super misuse).
package resolver

import (
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/token"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

type binding struct {
	defined bool
}

// Resolve walks stmts and returns the expression-identity → scope-depth
// side table the interpreter uses to resolve variable lookups. Scoping
// diagnostics are reported to bag; stmts may contain nil entries (parser
// error recovery) which are skipped.
func Resolve(stmts []ast.Stmt, bag *diag.Bag) map[ast.Expr]int {
	r := &resolver{bag: bag, locals: make(map[ast.Expr]int)}
	r.resolveStmts(stmts)
	return r.locals
}

type resolver struct {
	bag             *diag.Bag
	scopes          []map[string]*binding
	locals          map[ast.Expr]int
	currentFunction functionType
	currentClass    classType
}

func (r *resolver) beginScope() { r.scopes = append(r.scopes, make(map[string]*binding)) }
func (r *resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.bag.AddToken(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = &binding{defined: false}
}

func (r *resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = &binding{defined: true}
}

func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: treated as global, left out of the table.
}

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	// error is always nil: StmtVisitor methods below never return one.
	_ = s.Accept(r)
}

func (r *resolver) resolveExpr(e ast.Expr) {
	if e == nil {
		return
	}
	_, _ = e.Accept(r)
}

func (r *resolver) resolveFunction(fn *ast.FunctionStmt, typ functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

// --- StmtVisitor ---

func (r *resolver) VisitBlockStmt(s *ast.BlockStmt) error {
	r.beginScope()
	r.resolveStmts(s.Statements)
	r.endScope()
	return nil
}

func (r *resolver) VisitVarStmt(s *ast.VarStmt) error {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	r.define(s.Name)
	return nil
}

func (r *resolver) VisitFunctionStmt(s *ast.FunctionStmt) error {
	r.declare(s.Name)
	r.define(s.Name)
	r.resolveFunction(s, fnFunction)
	return nil
}

func (r *resolver) VisitExprStmt(s *ast.ExprStmt) error {
	r.resolveExpr(s.Expression)
	return nil
}

func (r *resolver) VisitIfStmt(s *ast.IfStmt) error {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Then)
	if s.Else != nil {
		r.resolveStmt(s.Else)
	}
	return nil
}

func (r *resolver) VisitPrintStmt(s *ast.PrintStmt) error {
	r.resolveExpr(s.Expression)
	return nil
}

func (r *resolver) VisitReturnStmt(s *ast.ReturnStmt) error {
	if r.currentFunction == fnNone {
		r.bag.AddToken(s.Keyword, "Can't return from top-level code.")
	}
	if s.Value != nil {
		if r.currentFunction == fnInitializer {
			r.bag.AddToken(s.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}
	return nil
}

func (r *resolver) VisitWhileStmt(s *ast.WhileStmt) error {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
	return nil
}

func (r *resolver) VisitClassStmt(s *ast.ClassStmt) error {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.bag.AddToken(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = &binding{defined: true}
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = &binding{defined: true}

	for _, m := range s.Methods {
		declType := fnMethod
		if m.Name.Lexeme == "init" {
			declType = fnInitializer
		}
		r.resolveFunction(m, declType)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
	return nil
}

// --- ExprVisitor ---

func (r *resolver) VisitVariableExpr(e *ast.VariableExpr) (any, error) {
	if len(r.scopes) > 0 {
		if b, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !b.defined {
			r.bag.AddToken(e.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(e, e.Name)
	return nil, nil
}

func (r *resolver) VisitAssignExpr(e *ast.AssignExpr) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveLocal(e, e.Name)
	return nil, nil
}

func (r *resolver) VisitBinaryExpr(e *ast.BinaryExpr) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *resolver) VisitCallExpr(e *ast.CallExpr) (any, error) {
	r.resolveExpr(e.Callee)
	for _, a := range e.Arguments {
		r.resolveExpr(a)
	}
	return nil, nil
}

func (r *resolver) VisitGetExpr(e *ast.GetExpr) (any, error) {
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *resolver) VisitGroupingExpr(e *ast.GroupingExpr) (any, error) {
	r.resolveExpr(e.Expression)
	return nil, nil
}

func (r *resolver) VisitLiteralExpr(*ast.LiteralExpr) (any, error) {
	return nil, nil
}

func (r *resolver) VisitLogicalExpr(e *ast.LogicalExpr) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *resolver) VisitSetExpr(e *ast.SetExpr) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *resolver) VisitSuperExpr(e *ast.SuperExpr) (any, error) {
	switch r.currentClass {
	case classNone:
		r.bag.AddToken(e.Keyword, "Can't use 'super' outside of a class.")
	case classClass:
		r.bag.AddToken(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	r.resolveLocal(e, e.Keyword)
	return nil, nil
}

func (r *resolver) VisitThisExpr(e *ast.ThisExpr) (any, error) {
	if r.currentClass == classNone {
		r.bag.AddToken(e.Keyword, "Can't use 'this' outside of a class.")
	}
	r.resolveLocal(e, e.Keyword)
	return nil, nil
}

func (r *resolver) VisitUnaryExpr(e *ast.UnaryExpr) (any, error) {
	r.resolveExpr(e.Right)
	return nil, nil
}
