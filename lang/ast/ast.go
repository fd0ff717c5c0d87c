// Package ast defines the Lox abstract syntax tree: expression and
// statement node types, and the visitor interfaces used to dispatch over
// them.
package ast

import "github.com/mna/lox/lang/token"

// Expr is implemented by every expression node. Each concrete Expr is
// always used behind a pointer, so Go pointer identity doubles as the
// stable node identity the resolver's depth side-table is keyed on.
type Expr interface {
	Accept(v ExprVisitor) (any, error)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Accept(v StmtVisitor) error
}

// ExprVisitor dispatches over every Expr variant. The interpreter
// (lang/interpreter) and the resolver (lang/resolver) each implement it.
type ExprVisitor interface {
	VisitLiteralExpr(*LiteralExpr) (any, error)
	VisitGroupingExpr(*GroupingExpr) (any, error)
	VisitUnaryExpr(*UnaryExpr) (any, error)
	VisitBinaryExpr(*BinaryExpr) (any, error)
	VisitLogicalExpr(*LogicalExpr) (any, error)
	VisitVariableExpr(*VariableExpr) (any, error)
	VisitAssignExpr(*AssignExpr) (any, error)
	VisitCallExpr(*CallExpr) (any, error)
	VisitGetExpr(*GetExpr) (any, error)
	VisitSetExpr(*SetExpr) (any, error)
	VisitThisExpr(*ThisExpr) (any, error)
	VisitSuperExpr(*SuperExpr) (any, error)
}

// StmtVisitor dispatches over every Stmt variant.
type StmtVisitor interface {
	VisitExprStmt(*ExprStmt) error
	VisitPrintStmt(*PrintStmt) error
	VisitVarStmt(*VarStmt) error
	VisitBlockStmt(*BlockStmt) error
	VisitIfStmt(*IfStmt) error
	VisitWhileStmt(*WhileStmt) error
	VisitFunctionStmt(*FunctionStmt) error
	VisitReturnStmt(*ReturnStmt) error
	VisitClassStmt(*ClassStmt) error
}

// Literal is the Go-side value of a Literal expression: nil, bool, float64,
// or string.
type Literal = any

// LiteralExpr is a literal nil/bool/number/string value.
type LiteralExpr struct {
	Value Literal
}

func (e *LiteralExpr) Accept(v ExprVisitor) (any, error) { return v.VisitLiteralExpr(e) }

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Expression Expr
}

func (e *GroupingExpr) Accept(v ExprVisitor) (any, error) { return v.VisitGroupingExpr(e) }

// UnaryExpr is a prefix "!" or "-" applied to Right.
type UnaryExpr struct {
	Op    token.Token
	Right Expr
}

func (e *UnaryExpr) Accept(v ExprVisitor) (any, error) { return v.VisitUnaryExpr(e) }

// BinaryExpr is an arithmetic, comparison, or equality operator applied to
// two operands.
type BinaryExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (e *BinaryExpr) Accept(v ExprVisitor) (any, error) { return v.VisitBinaryExpr(e) }

// LogicalExpr is a short-circuiting "and"/"or" expression.
type LogicalExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (e *LogicalExpr) Accept(v ExprVisitor) (any, error) { return v.VisitLogicalExpr(e) }

// VariableExpr reads the value bound to Name.
type VariableExpr struct {
	Name token.Token
}

func (e *VariableExpr) Accept(v ExprVisitor) (any, error) { return v.VisitVariableExpr(e) }

// AssignExpr assigns Value to the variable bound to Name.
type AssignExpr struct {
	Name  token.Token
	Value Expr
}

func (e *AssignExpr) Accept(v ExprVisitor) (any, error) { return v.VisitAssignExpr(e) }

// CallExpr invokes Callee with Arguments. Paren is the closing ")" token,
// kept for error-reporting line information.
type CallExpr struct {
	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

func (e *CallExpr) Accept(v ExprVisitor) (any, error) { return v.VisitCallExpr(e) }

// GetExpr reads a property (field or method) named Name off Object.
type GetExpr struct {
	Object Expr
	Name   token.Token
}

func (e *GetExpr) Accept(v ExprVisitor) (any, error) { return v.VisitGetExpr(e) }

// SetExpr assigns Value to the property named Name on Object.
type SetExpr struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (e *SetExpr) Accept(v ExprVisitor) (any, error) { return v.VisitSetExpr(e) }

// ThisExpr is a "this" reference inside a method body.
type ThisExpr struct {
	Keyword token.Token
}

func (e *ThisExpr) Accept(v ExprVisitor) (any, error) { return v.VisitThisExpr(e) }

// SuperExpr is a "super.Method" reference inside a subclass method body.
type SuperExpr struct {
	Keyword token.Token
	Method  token.Token
}

func (e *SuperExpr) Accept(v ExprVisitor) (any, error) { return v.VisitSuperExpr(e) }

// ExprStmt evaluates Expression for its side effects and discards the
// result.
type ExprStmt struct {
	Expression Expr
}

func (s *ExprStmt) Accept(v StmtVisitor) error { return v.VisitExprStmt(s) }

// PrintStmt evaluates Expression and writes its display form to stdout.
type PrintStmt struct {
	Expression Expr
}

func (s *PrintStmt) Accept(v StmtVisitor) error { return v.VisitPrintStmt(s) }

// VarStmt declares Name in the current environment, bound to the result of
// Initializer (nil if absent).
type VarStmt struct {
	Name        token.Token
	Initializer Expr // nil if no initializer
}

func (s *VarStmt) Accept(v StmtVisitor) error { return v.VisitVarStmt(s) }

// BlockStmt executes Statements in a fresh child environment. Statements
// may contain nil entries produced by parser error recovery; executors
// must skip them.
type BlockStmt struct {
	Statements []Stmt
}

func (s *BlockStmt) Accept(v StmtVisitor) error { return v.VisitBlockStmt(s) }

// IfStmt executes Then if Condition is truthy, else Else (which may be
// nil).
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil if no else branch
}

func (s *IfStmt) Accept(v StmtVisitor) error { return v.VisitIfStmt(s) }

// WhileStmt executes Body repeatedly while Condition is truthy.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (s *WhileStmt) Accept(v StmtVisitor) error { return v.VisitWhileStmt(s) }

// FunctionStmt declares a named function (or, as a methods-list element of
// ClassStmt, a method) with Params and Body.
type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (s *FunctionStmt) Accept(v StmtVisitor) error { return v.VisitFunctionStmt(s) }

// ReturnStmt unwinds to the nearest enclosing function call, carrying the
// result of Value (nil if absent). Keyword is the "return" token, kept for
// error-reporting line information.
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr // nil if no value
}

func (s *ReturnStmt) Accept(v StmtVisitor) error { return v.VisitReturnStmt(s) }

// ClassStmt declares a class named Name, optionally inheriting from
// Superclass (a VariableExpr, or nil), with the given Methods.
type ClassStmt struct {
	Name       token.Token
	Superclass *VariableExpr // nil if no superclass
	Methods    []*FunctionStmt
}

func (s *ClassStmt) Accept(v StmtVisitor) error { return v.VisitClassStmt(s) }
