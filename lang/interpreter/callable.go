package interpreter

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/environment"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/types"
)

// Callable is implemented by every value that can appear as the callee of
// a Call expression: native functions, user functions, and classes (whose
// call constructs an instance).
type Callable interface {
	types.Value
	Arity() int
	Call(interp *Interpreter, args []types.Value) (types.Value, error)
}

// returnSignal is panicked by executing a Return statement and recovered
// exactly at the call boundary in Function.Call, realizing the non-local
// return protocol without threading a control-flow result through every
// statement executor.
type returnSignal struct {
	value types.Value
}

// NativeFunction wraps a host-provided function (currently only the
// built-in clock) as a Callable.
type NativeFunction struct {
	NameStr string
	ArityN  int
	Fn      func(args []types.Value) (types.Value, error)
}

func (n *NativeFunction) String() string { return "<native fn>" }
func (n *NativeFunction) Type() string   { return "function" }
func (n *NativeFunction) Truth() bool    { return true }
func (n *NativeFunction) Arity() int     { return n.ArityN }
func (n *NativeFunction) Call(_ *Interpreter, args []types.Value) (types.Value, error) {
	return n.Fn(args)
}

// Function is a user-declared function or method: the AST declaration plus
// the environment captured at the point the function was declared
// (enabling closures).
type Function struct {
	Declaration   *ast.FunctionStmt
	Closure       *environment.Environment
	IsInitializer bool
}

func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme) }
func (f *Function) Type() string   { return "function" }
func (f *Function) Truth() bool    { return true }
func (f *Function) Arity() int     { return len(f.Declaration.Params) }

// Bind returns a new Function identical to f but whose closure is a fresh
// environment, enclosed by f's own closure, that defines "this" to
// instance. This is how a method looked up through an instance gets access
// to that instance.
func (f *Function) Bind(instance *Instance) *Function {
	env := environment.NewChild(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Call implements the function call protocol from SPEC_FULL.md §4.4: a
// fresh environment parented on the closure, parameters bound to
// arguments, the body executed in that environment, and a return signal
// (if any) recovered here. An initializer always returns the closure's
// "this" regardless of what its body returns.
func (f *Function) Call(interp *Interpreter, args []types.Value) (result types.Value, err error) {
	env := environment.NewChild(f.Closure)
	for i, p := range f.Declaration.Params {
		env.Define(p.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			if f.IsInitializer {
				result, _ = f.Closure.GetAt(0, "this")
				return
			}
			result = sig.value
		}
	}()

	if err := interp.executeBlock(f.Declaration.Body, env); err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this")
	}
	return types.Nil{}, nil
}

// Class is a Lox class descriptor: a name, an optional superclass, and a
// method table shared by every instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    *swiss.Map[string, *Function]
}

func (c *Class) String() string { return c.Name }
func (c *Class) Type() string   { return "class" }
func (c *Class) Truth() bool    { return true }

// FindMethod looks up name on c, then (if absent) walks the superclass
// chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if fn, ok := c.Methods.Get(name); ok {
		return fn, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of the "init" method, or 0 if the class defines none.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance of c and, if c defines "init", invokes it
// bound to that instance with args. The result is always the new instance.
func (c *Class) Call(interp *Interpreter, args []types.Value) (types.Value, error) {
	instance := &Instance{Class: c, Fields: swiss.NewMap[string, types.Value](4)}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime object produced by calling a Class: a reference to
// its class and a mutable field table.
type Instance struct {
	Class  *Class
	Fields *swiss.Map[string, types.Value]
}

func (i *Instance) String() string { return i.Class.Name + " instance" }
func (i *Instance) Type() string   { return "instance" }
func (i *Instance) Truth() bool    { return true }

// Get reads a property named name off the instance: fields shadow methods.
// A bound method is constructed fresh on each successful method lookup.
func (i *Instance) Get(name token.Token) (types.Value, error) {
	if v, ok := i.Fields.Get(name.Lexeme); ok {
		return v, nil
	}
	if method, ok := i.Class.FindMethod(name.Lexeme); ok {
		return method.Bind(i), nil
	}
	return nil, &diag.RuntimeError{Token: name, Message: "Undefined property '" + name.Lexeme + "'."}
}

// Set stores value in the instance's field named name.
func (i *Instance) Set(name token.Token, value types.Value) {
	i.Fields.Put(name.Lexeme, value)
}
