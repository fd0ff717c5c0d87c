package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil{}, "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(7), "7"},
		{Number(7.5), "7.5"},
		{Number(-3), "-3"},
		{String("hi"), "hi"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.v.String())
	}
}

func TestTruth(t *testing.T) {
	require.False(t, Nil{}.Truth())
	require.False(t, Bool(false).Truth())
	require.True(t, Bool(true).Truth())
	require.True(t, Number(0).Truth())
	require.True(t, String("").Truth())
}

func TestEqual(t *testing.T) {
	require.True(t, Equal(Nil{}, Nil{}))
	require.False(t, Equal(Nil{}, Bool(false)))
	require.False(t, Equal(Bool(false), Nil{}))
	require.True(t, Equal(Number(1), Number(1)))
	require.False(t, Equal(Number(1), Number(2)))
	require.False(t, Equal(Number(1), String("1")))
	require.True(t, Equal(String("a"), String("a")))
	require.True(t, Equal(Bool(true), Bool(true)))
}
