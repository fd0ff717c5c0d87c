package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := ILLEGAL; k < maxKind; k++ {
		require.NotEmpty(t, k.String(), "kind %d missing a String()", k)
	}
}

func TestKindGoString(t *testing.T) {
	require.Equal(t, "'+'", PLUS.GoString())
	require.Equal(t, "'<='", LE.GoString())
	require.Equal(t, "identifier", IDENT.GoString())
	require.Equal(t, "class", CLASS.GoString())
}

func TestLookupIdent(t *testing.T) {
	cases := map[string]Kind{
		"and":    AND,
		"class":  CLASS,
		"else":   ELSE,
		"false":  FALSE,
		"fun":    FUN,
		"for":    FOR,
		"if":     IF,
		"nil":    NIL,
		"or":     OR,
		"print":  PRINT,
		"return": RETURN,
		"super":  SUPER,
		"this":   THIS,
		"true":   TRUE,
		"var":    VAR,
		"while":  WHILE,
		"IF":     IDENT, // lowercase-only keyword spelling, per the applied REDESIGN FLAG
		"foobar":  IDENT,
		"_under":  IDENT,
	}
	for lit, want := range cases {
		require.Equal(t, want, LookupIdent(lit), "lexeme %q", lit)
	}
}
