package resolver

import (
	"testing"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/scanner"
	"github.com/stretchr/testify/require"
)

func resolveSrc(t *testing.T, src string) (map[ast.Expr]int, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag()
	toks := scanner.Scan(src, bag)
	stmts := parser.Parse(toks, bag)
	require.False(t, bag.HadError(), "parse errors: %s", bag.Error())
	return Resolve(stmts, bag), bag
}

func TestResolveLocalDepth(t *testing.T) {
	locals, bag := resolveSrc(t, `
		var a = 1;
		{
			var a = 2;
			print a;
		}
		print a;
	`)
	require.False(t, bag.HadError())
	// exactly one VariableExpr ("a" inside the block) should resolve to
	// depth 0; the outer "print a" refers to the global and is absent from
	// the table.
	var found int
	for _, d := range locals {
		if d == 0 {
			found++
		}
	}
	require.Equal(t, 1, found)
}

func TestResolveClosureDepth(t *testing.T) {
	locals, bag := resolveSrc(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
	`)
	require.False(t, bag.HadError())
	// "i" is read twice and assigned once inside count(), one scope out
	// (count's own scope is depth 0, makeCounter's is depth 1).
	depths := make([]int, 0, len(locals))
	for _, d := range locals {
		depths = append(depths, d)
	}
	require.Contains(t, depths, 1)
}

func TestResolveReadInOwnInitializerIsError(t *testing.T) {
	_, bag := resolveSrc(t, "{ var a = a; }")
	require.True(t, bag.HadError())
	require.Contains(t, bag.Error(), "own initializer")
}

func TestResolveDuplicateLocalIsError(t *testing.T) {
	_, bag := resolveSrc(t, "{ var a = 1; var a = 2; }")
	require.True(t, bag.HadError())
	require.Contains(t, bag.Error(), "Already a variable")
}

func TestResolveReturnAtTopLevelIsError(t *testing.T) {
	_, bag := resolveSrc(t, "return 1;")
	require.True(t, bag.HadError())
	require.Contains(t, bag.Error(), "top-level")
}

func TestResolveReturnValueFromInitializerIsError(t *testing.T) {
	_, bag := resolveSrc(t, "class A { init() { return 1; } }")
	require.True(t, bag.HadError())
	require.Contains(t, bag.Error(), "initializer")
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	_, bag := resolveSrc(t, "print this;")
	require.True(t, bag.HadError())
	require.Contains(t, bag.Error(), "this")
}

func TestResolveSuperOutsideSubclassIsError(t *testing.T) {
	_, bag := resolveSrc(t, "class A { m() { super.m(); } }")
	require.True(t, bag.HadError())
	require.Contains(t, bag.Error(), "superclass")
}

func TestResolveSuperOutsideClassIsError(t *testing.T) {
	_, bag := resolveSrc(t, "super.m();")
	require.True(t, bag.HadError())
	require.Contains(t, bag.Error(), "outside of a class")
}

func TestResolveClassInheritingFromItselfIsError(t *testing.T) {
	_, bag := resolveSrc(t, "class A < A {}")
	require.True(t, bag.HadError())
	require.Contains(t, bag.Error(), "inherit from itself")
}

func TestResolveSkipsNilStatements(t *testing.T) {
	bag := diag.NewBag()
	require.NotPanics(t, func() {
		Resolve([]ast.Stmt{nil}, bag)
	})
}
