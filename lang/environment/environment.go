// Package environment implements the Lox variable scope chain: a mutable
// name→value mapping with a link to an enclosing (outer) scope.
package environment

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/lox/lang/types"
)

// Environment is a single lexical scope. Environments form a tree whose
// edges point toward an enclosing (outer) scope; an Environment is shared
// by reference (always used through a pointer) so that closures capturing
// the same scope observe each other's assignments.
type Environment struct {
	values    *swiss.Map[string, types.Value]
	enclosing *Environment
}

// New returns a fresh global (no enclosing scope) environment.
func New() *Environment {
	return &Environment{values: swiss.NewMap[string, types.Value](8)}
}

// NewChild returns a fresh environment enclosed by parent.
func NewChild(parent *Environment) *Environment {
	return &Environment{values: swiss.NewMap[string, types.Value](8), enclosing: parent}
}

// Define binds name to value in this environment, shadowing any binding of
// the same name in an enclosing scope. Redefining an existing local name is
// permitted (the resolver rejects redeclaration statically; Define itself
// is unconditional, matching a fresh block re-entered by a loop).
func (e *Environment) Define(name string, value types.Value) {
	e.values.Put(name, value)
}

// Get returns the value bound to name, walking enclosing scopes outward.
func (e *Environment) Get(name string) (types.Value, error) {
	if v, ok := e.values.Get(name); ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, fmt.Errorf("undefined variable '%s'", name)
}

// Assign stores value for the existing binding of name, walking enclosing
// scopes outward. It is an error to assign to a name with no existing
// binding anywhere in the chain.
func (e *Environment) Assign(name string, value types.Value) error {
	if _, ok := e.values.Get(name); ok {
		e.values.Put(name, value)
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return fmt.Errorf("undefined variable '%s'", name)
}

// Ancestor walks distance enclosing links outward and returns that
// environment.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt returns the value bound to name in the environment distance scopes
// outward. The caller (the interpreter, driven by the resolver's depth
// table) guarantees the binding exists there.
func (e *Environment) GetAt(distance int, name string) (types.Value, error) {
	v, ok := e.Ancestor(distance).values.Get(name)
	if !ok {
		return nil, fmt.Errorf("undefined variable '%s'", name)
	}
	return v, nil
}

// AssignAt stores value for name in the environment distance scopes
// outward.
func (e *Environment) AssignAt(distance int, name string, value types.Value) {
	e.Ancestor(distance).values.Put(name, value)
}
