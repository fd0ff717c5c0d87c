package diag

import (
	"testing"

	"github.com/mna/lox/lang/token"
	"github.com/stretchr/testify/require"
)

func TestAddFormatsLineOnly(t *testing.T) {
	b := NewBag()
	b.Add(3, "Unexpected character.")
	require.True(t, b.HadError())
	require.Equal(t, "[line 3] Error: Unexpected character.", b.Error())
}

func TestAddTokenFormatsLexemeOrEnd(t *testing.T) {
	b := NewBag()
	b.AddToken(token.Token{Kind: token.PLUS, Lexeme: "+", Line: 2}, "Expect expression.")
	require.Equal(t, "[line 2] Error at '+': Expect expression.", b.Error())

	b2 := NewBag()
	b2.AddToken(token.Token{Kind: token.EOF, Line: 5}, "Expect ';' after value.")
	require.Equal(t, "[line 5] Error at end: Expect ';' after value.", b2.Error())
}

func TestSetRuntimeErrorKeepsFirst(t *testing.T) {
	b := NewBag()
	require.False(t, b.HadRuntimeError())
	b.SetRuntimeError(token.Token{Line: 1}, "first")
	b.SetRuntimeError(token.Token{Line: 2}, "second")
	require.True(t, b.HadRuntimeError())
	require.Equal(t, "first", b.RuntimeErr().Message)
	require.Equal(t, "[line 1] first", b.RuntimeErr().Error())
}

func TestHadErrorFalseWhenEmpty(t *testing.T) {
	b := NewBag()
	require.False(t, b.HadError())
	require.Empty(t, b.Error())
}
