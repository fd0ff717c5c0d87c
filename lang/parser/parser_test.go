package parser

import (
	"testing"

	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/scanner"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) ([]ast.Stmt, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag()
	toks := scanner.Scan(src, bag)
	require.False(t, bag.HadError(), "scan errors: %s", bag.Error())
	return Parse(toks, bag), bag
}

func TestParsePrecedence(t *testing.T) {
	stmts, bag := parse(t, "1 + 2 * 3;")
	require.False(t, bag.HadError())
	require.Len(t, stmts, 1)
	es := stmts[0].(*ast.ExprStmt)
	bin := es.Expression.(*ast.BinaryExpr)
	require.Equal(t, "+", bin.Op.Lexeme)
	require.IsType(t, &ast.LiteralExpr{}, bin.Left)
	rhs := bin.Right.(*ast.BinaryExpr)
	require.Equal(t, "*", rhs.Op.Lexeme)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, bag := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, bag.HadError())
	require.Len(t, stmts, 1)

	outer := stmts[0].(*ast.BlockStmt)
	require.Len(t, outer.Statements, 2)
	require.IsType(t, &ast.VarStmt{}, outer.Statements[0])

	while := outer.Statements[1].(*ast.WhileStmt)
	require.IsType(t, &ast.BinaryExpr{}, while.Condition)

	body := while.Body.(*ast.BlockStmt)
	require.Len(t, body.Statements, 2)
	require.IsType(t, &ast.PrintStmt{}, body.Statements[0])
	require.IsType(t, &ast.ExprStmt{}, body.Statements[1])
}

func TestParseForOmittedConditionIsTrue(t *testing.T) {
	stmts, bag := parse(t, "for (;;) 1;")
	require.False(t, bag.HadError())
	outer := stmts[0].(*ast.WhileStmt)
	lit := outer.Condition.(*ast.LiteralExpr)
	require.Equal(t, true, lit.Value)
}

func TestParseIfConstructsBothBranches(t *testing.T) {
	stmts, bag := parse(t, "if (true) 1; else 2;")
	require.False(t, bag.HadError())
	ifs := stmts[0].(*ast.IfStmt)
	require.NotNil(t, ifs.Then)
	require.NotNil(t, ifs.Else)
}

func TestParseAssignmentTargets(t *testing.T) {
	stmts, bag := parse(t, "a = 1; a.b = 2;")
	require.False(t, bag.HadError())
	require.IsType(t, &ast.AssignExpr{}, stmts[0].(*ast.ExprStmt).Expression)
	require.IsType(t, &ast.SetExpr{}, stmts[1].(*ast.ExprStmt).Expression)
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, bag := parse(t, "1 = 2;")
	require.True(t, bag.HadError())
}

func TestParseClassWithSuperclass(t *testing.T) {
	stmts, bag := parse(t, "class B < A { hello() { print 1; } }")
	require.False(t, bag.HadError())
	cls := stmts[0].(*ast.ClassStmt)
	require.Equal(t, "B", cls.Name.Lexeme)
	require.NotNil(t, cls.Superclass)
	require.Equal(t, "A", cls.Superclass.Name.Lexeme)
	require.Len(t, cls.Methods, 1)
	require.Equal(t, "hello", cls.Methods[0].Name.Lexeme)
}

func TestParseCallAndGetChain(t *testing.T) {
	stmts, bag := parse(t, "a.b.c(1, 2);")
	require.False(t, bag.HadError())
	call := stmts[0].(*ast.ExprStmt).Expression.(*ast.CallExpr)
	require.Len(t, call.Arguments, 2)
	get := call.Callee.(*ast.GetExpr)
	require.Equal(t, "c", get.Name.Lexeme)
}

func TestParseSuperExpr(t *testing.T) {
	stmts, bag := parse(t, "class B < A { m() { super.hello(); } }")
	require.False(t, bag.HadError())
	cls := stmts[0].(*ast.ClassStmt)
	call := cls.Methods[0].Body[0].(*ast.ExprStmt).Expression.(*ast.CallExpr)
	sup := call.Callee.(*ast.SuperExpr)
	require.Equal(t, "hello", sup.Method.Lexeme)
}

func TestParseSynchronizesAfterError(t *testing.T) {
	stmts, bag := parse(t, "var = 1; var b = 2;")
	require.True(t, bag.HadError())
	require.Len(t, stmts, 2)
	require.Nil(t, stmts[0])
	require.IsType(t, &ast.VarStmt{}, stmts[1])
}

func TestParseMaxParams(t *testing.T) {
	src := "fun f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "p" + itoa(i)
	}
	src += ") {}"

	_, bag := parse(t, src)
	require.True(t, bag.HadError())
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}
