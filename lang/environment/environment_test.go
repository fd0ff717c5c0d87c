package environment

import (
	"testing"

	"github.com/mna/lox/lang/types"
	"github.com/stretchr/testify/require"
)

func TestDefineGet(t *testing.T) {
	env := New()
	env.Define("a", types.Number(1))
	v, err := env.Get("a")
	require.NoError(t, err)
	require.Equal(t, types.Number(1), v)
}

func TestGetUndefinedErrors(t *testing.T) {
	env := New()
	_, err := env.Get("missing")
	require.Error(t, err)
}

func TestGetWalksEnclosing(t *testing.T) {
	outer := New()
	outer.Define("a", types.Number(1))
	inner := NewChild(outer)
	v, err := inner.Get("a")
	require.NoError(t, err)
	require.Equal(t, types.Number(1), v)
}

func TestAssignSharedAcrossHolders(t *testing.T) {
	outer := New()
	outer.Define("i", types.Number(0))
	closureA := NewChild(outer)
	closureB := NewChild(outer)

	require.NoError(t, closureA.Assign("i", types.Number(1)))
	v, err := closureB.Get("i")
	require.NoError(t, err)
	require.Equal(t, types.Number(1), v, "assignment through one closure must be visible through another sharing the environment")
}

func TestAssignUndefinedErrors(t *testing.T) {
	env := New()
	err := env.Assign("missing", types.Number(1))
	require.Error(t, err)
}

func TestAssignPrefersInnermostShadowedBinding(t *testing.T) {
	outer := New()
	outer.Define("a", types.Number(1))
	inner := NewChild(outer)
	inner.Define("a", types.Number(2))

	require.NoError(t, inner.Assign("a", types.Number(3)))

	innerVal, err := inner.Get("a")
	require.NoError(t, err)
	require.Equal(t, types.Number(3), innerVal)

	outerVal, err := outer.Get("a")
	require.NoError(t, err)
	require.Equal(t, types.Number(1), outerVal, "assigning the shadowing local must not touch the outer binding")
}

func TestAncestorGetAtAssignAt(t *testing.T) {
	g := New()
	g.Define("a", types.Number(1))
	l1 := NewChild(g)
	l2 := NewChild(l1)

	require.Same(t, g, l2.Ancestor(2))

	v, err := l2.GetAt(2, "a")
	require.NoError(t, err)
	require.Equal(t, types.Number(1), v)

	l2.AssignAt(2, "a", types.Number(9))
	v2, err := g.Get("a")
	require.NoError(t, err)
	require.Equal(t, types.Number(9), v2)
}
