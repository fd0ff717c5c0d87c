// Package interpreter evaluates a resolved Lox AST: the tree-walking
// evaluator, environment-chain scoping, function/class/instance semantics,
// and the non-local return protocol.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dolthub/swiss"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/environment"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/types"
)

// Interpreter walks a resolved AST, evaluating expressions and executing
// statements against a chain of environments rooted at Globals.
type Interpreter struct {
	Globals *environment.Environment
	env     *environment.Environment
	locals  map[ast.Expr]int
	stdout  io.Writer
	bag     *diag.Bag
}

// New returns an Interpreter with a fresh global environment seeded with
// the clock() built-in, writing `print` output to stdout.
func New(stdout io.Writer) *Interpreter {
	globals := environment.New()
	globals.Define("clock", &NativeFunction{
		NameStr: "clock",
		ArityN:  0,
		Fn: func([]types.Value) (types.Value, error) {
			return types.Number(float64(time.Now().UnixNano()) / 1e9), nil
		},
	})
	return &Interpreter{Globals: globals, env: globals, stdout: stdout}
}

// NewDefault returns an Interpreter writing to os.Stdout.
func NewDefault() *Interpreter { return New(os.Stdout) }

// Resolve adds the expression-identity → scope-depth side table produced by
// lang/resolver.Resolve to the interpreter's own table. It must be called
// before Interpret runs the resolved statements. Entries from earlier calls
// are kept, so functions declared on an earlier REPL line still resolve
// their locals when called from a later one.
func (in *Interpreter) Resolve(locals map[ast.Expr]int) {
	if in.locals == nil {
		in.locals = make(map[ast.Expr]int, len(locals))
	}
	for e, d := range locals {
		in.locals[e] = d
	}
}

// Interpret executes stmts against the interpreter's current global
// environment. On the first runtime error, it is reported to bag and
// execution of the program stops; a nil entry in stmts (parser error
// recovery) is skipped. Only the runtime error is recorded in bag.
func (in *Interpreter) Interpret(stmts []ast.Stmt, bag *diag.Bag) {
	in.bag = bag
	for _, s := range stmts {
		if s == nil {
			continue
		}
		if err := in.execute(s); err != nil {
			in.reportRuntimeError(err)
			return
		}
	}
}

func (in *Interpreter) reportRuntimeError(err error) {
	if rerr, ok := err.(*diag.RuntimeError); ok {
		in.bag.SetRuntimeError(rerr.Token, rerr.Message)
		return
	}
	in.bag.SetRuntimeError(token.Token{}, err.Error())
}

func (in *Interpreter) execute(s ast.Stmt) error {
	if s == nil {
		return nil
	}
	return s.Accept(in)
}

// executeBlock runs stmts in a fresh environment enclosed by the
// interpreter's current environment, restoring the previous environment on
// exit (even when a return signal panics through it, so the deferred
// restore in callers composes correctly with Function.Call's recover).
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *environment.Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range stmts {
		if s == nil {
			continue
		}
		if err := in.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) evaluate(e ast.Expr) (types.Value, error) {
	v, err := e.Accept(in)
	if err != nil {
		return nil, err
	}
	return v.(types.Value), nil
}

func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (types.Value, error) {
	if distance, ok := in.locals[expr]; ok {
		v, err := in.env.GetAt(distance, name.Lexeme)
		if err != nil {
			return nil, &diag.RuntimeError{Token: name, Message: "Undefined variable '" + name.Lexeme + "'."}
		}
		return v, nil
	}
	v, err := in.Globals.Get(name.Lexeme)
	if err != nil {
		return nil, &diag.RuntimeError{Token: name, Message: "Undefined variable '" + name.Lexeme + "'."}
	}
	return v, nil
}

// toValue converts a parser-produced Go literal (nil, bool, float64,
// string) into the corresponding types.Value.
func toValue(lit any) types.Value {
	switch v := lit.(type) {
	case nil:
		return types.Nil{}
	case bool:
		return types.Bool(v)
	case float64:
		return types.Number(v)
	case string:
		return types.String(v)
	default:
		panic(fmt.Sprintf("unreachable: literal of type %T", lit))
	}
}

// --- StmtVisitor ---

func (in *Interpreter) VisitExprStmt(s *ast.ExprStmt) error {
	_, err := in.evaluate(s.Expression)
	return err
}

func (in *Interpreter) VisitPrintStmt(s *ast.PrintStmt) error {
	v, err := in.evaluate(s.Expression)
	if err != nil {
		return err
	}
	fmt.Fprintln(in.stdout, v.String())
	return nil
}

func (in *Interpreter) VisitVarStmt(s *ast.VarStmt) error {
	var value types.Value = types.Nil{}
	if s.Initializer != nil {
		v, err := in.evaluate(s.Initializer)
		if err != nil {
			return err
		}
		value = v
	}
	in.env.Define(s.Name.Lexeme, value)
	return nil
}

func (in *Interpreter) VisitBlockStmt(s *ast.BlockStmt) error {
	return in.executeBlock(s.Statements, environment.NewChild(in.env))
}

func (in *Interpreter) VisitIfStmt(s *ast.IfStmt) error {
	cond, err := in.evaluate(s.Condition)
	if err != nil {
		return err
	}
	switch {
	case cond.Truth():
		return in.execute(s.Then)
	case s.Else != nil:
		return in.execute(s.Else)
	}
	return nil
}

func (in *Interpreter) VisitWhileStmt(s *ast.WhileStmt) error {
	for {
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if !cond.Truth() {
			return nil
		}
		if err := in.execute(s.Body); err != nil {
			return err
		}
	}
}

func (in *Interpreter) VisitFunctionStmt(s *ast.FunctionStmt) error {
	fn := &Function{Declaration: s, Closure: in.env}
	in.env.Define(s.Name.Lexeme, fn)
	return nil
}

func (in *Interpreter) VisitReturnStmt(s *ast.ReturnStmt) error {
	var value types.Value = types.Nil{}
	if s.Value != nil {
		v, err := in.evaluate(s.Value)
		if err != nil {
			return err
		}
		value = v
	}
	panic(returnSignal{value: value})
}

func (in *Interpreter) VisitClassStmt(s *ast.ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := in.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &diag.RuntimeError{Token: s.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	in.env.Define(s.Name.Lexeme, types.Nil{})

	classEnv := in.env
	if superclass != nil {
		classEnv = environment.NewChild(in.env)
		classEnv.Define("super", superclass)
	}

	methods := swiss.NewMap[string, *Function](uint32(len(s.Methods)))
	for _, m := range s.Methods {
		fn := &Function{Declaration: m, Closure: classEnv, IsInitializer: m.Name.Lexeme == "init"}
		methods.Put(m.Name.Lexeme, fn)
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	return in.env.Assign(s.Name.Lexeme, class)
}

// --- ExprVisitor ---

func (in *Interpreter) VisitLiteralExpr(e *ast.LiteralExpr) (any, error) {
	return toValue(e.Value), nil
}

func (in *Interpreter) VisitGroupingExpr(e *ast.GroupingExpr) (any, error) {
	return in.evaluate(e.Expression)
}

func (in *Interpreter) VisitUnaryExpr(e *ast.UnaryExpr) (any, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.BANG:
		return types.Bool(!right.Truth()), nil
	case token.MINUS:
		n, ok := right.(types.Number)
		if !ok {
			return nil, &diag.RuntimeError{Token: e.Op, Message: "Operand must be a number."}
		}
		return -n, nil
	}
	panic("unreachable unary operator")
}

func (in *Interpreter) VisitBinaryExpr(e *ast.BinaryExpr) (any, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.MINUS:
		return numericOp(e.Op, left, right, func(a, b float64) float64 { return a - b })
	case token.STAR:
		return numericOp(e.Op, left, right, func(a, b float64) float64 { return a * b })
	case token.SLASH:
		rn, ok := right.(types.Number)
		if ok && rn == 0 {
			return nil, &diag.RuntimeError{Token: e.Op, Message: "Cannot divide by zero."}
		}
		return numericOp(e.Op, left, right, func(a, b float64) float64 { return a / b })
	case token.PLUS:
		return add(e.Op, left, right)
	case token.GT:
		return numericCmp(e.Op, left, right, func(a, b float64) bool { return a > b })
	case token.GE:
		return numericCmp(e.Op, left, right, func(a, b float64) bool { return a >= b })
	case token.LT:
		return numericCmp(e.Op, left, right, func(a, b float64) bool { return a < b })
	case token.LE:
		return numericCmp(e.Op, left, right, func(a, b float64) bool { return a <= b })
	case token.EQEQ:
		return types.Bool(types.Equal(left, right)), nil
	case token.BANGEQ:
		return types.Bool(!types.Equal(left, right)), nil
	}
	panic("unreachable binary operator")
}

func numericOp(op token.Token, left, right types.Value, f func(a, b float64) float64) (types.Value, error) {
	ln, lok := left.(types.Number)
	rn, rok := right.(types.Number)
	if !lok || !rok {
		return nil, &diag.RuntimeError{Token: op, Message: "Operands must be numbers."}
	}
	return types.Number(f(float64(ln), float64(rn))), nil
}

func numericCmp(op token.Token, left, right types.Value, f func(a, b float64) bool) (types.Value, error) {
	ln, lok := left.(types.Number)
	rn, rok := right.(types.Number)
	if !lok || !rok {
		return nil, &diag.RuntimeError{Token: op, Message: "Operands must be numbers."}
	}
	return types.Bool(f(float64(ln), float64(rn))), nil
}

// add implements "+", overloaded over numbers (arithmetic) and strings
// (concatenation of both operands' display form) per SPEC_FULL.md §4.4.
// Concatenation applies only when the left operand is a string; a number
// on the left with a non-number on the right is a runtime error.
func add(op token.Token, left, right types.Value) (types.Value, error) {
	ln, lok := left.(types.Number)
	rn, rok := right.(types.Number)
	if lok && rok {
		return ln + rn, nil
	}
	if _, lstr := left.(types.String); lstr {
		return types.String(left.String() + right.String()), nil
	}
	return nil, &diag.RuntimeError{Token: op, Message: "Operands must be two numbers or two strings."}
}

func (in *Interpreter) VisitLogicalExpr(e *ast.LogicalExpr) (any, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.OR {
		if left.Truth() {
			return left, nil
		}
	} else {
		if !left.Truth() {
			return left, nil
		}
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) VisitVariableExpr(e *ast.VariableExpr) (any, error) {
	return in.lookUpVariable(e.Name, e)
}

func (in *Interpreter) VisitAssignExpr(e *ast.AssignExpr) (any, error) {
	value, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := in.locals[e]; ok {
		in.env.AssignAt(distance, e.Name.Lexeme, value)
	} else if err := in.Globals.Assign(e.Name.Lexeme, value); err != nil {
		return nil, &diag.RuntimeError{Token: e.Name, Message: "Undefined variable '" + e.Name.Lexeme + "'."}
	}
	return value, nil
}

func (in *Interpreter) VisitCallExpr(e *ast.CallExpr) (any, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]types.Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &diag.RuntimeError{Token: e.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &diag.RuntimeError{Token: e.Paren, Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args))}
	}
	return fn.Call(in, args)
}

func (in *Interpreter) VisitGetExpr(e *ast.GetExpr) (any, error) {
	obj, err := in.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, &diag.RuntimeError{Token: e.Name, Message: "Only instances have properties."}
	}
	return inst.Get(e.Name)
}

func (in *Interpreter) VisitSetExpr(e *ast.SetExpr) (any, error) {
	obj, err := in.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, &diag.RuntimeError{Token: e.Name, Message: "Only instances have fields."}
	}
	value, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name, value)
	return value, nil
}

func (in *Interpreter) VisitThisExpr(e *ast.ThisExpr) (any, error) {
	return in.lookUpVariable(e.Keyword, e)
}

func (in *Interpreter) VisitSuperExpr(e *ast.SuperExpr) (any, error) {
	distance := in.locals[e]
	superVal, err := in.env.GetAt(distance, "super")
	if err != nil {
		return nil, &diag.RuntimeError{Token: e.Keyword, Message: "Undefined variable 'super'."}
	}
	super := superVal.(*Class)

	thisVal, err := in.env.GetAt(distance-1, "this")
	if err != nil {
		return nil, &diag.RuntimeError{Token: e.Keyword, Message: "Undefined variable 'this'."}
	}
	instance := thisVal.(*Instance)

	method, ok := super.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, &diag.RuntimeError{Token: e.Method, Message: "Undefined property '" + e.Method.Lexeme + "'."}
	}
	return method.Bind(instance), nil
}
