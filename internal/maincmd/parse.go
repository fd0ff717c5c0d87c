package maincmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"
	"github.com/mna/lox/lang/ast"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/scanner"
)

// Parse runs the scanner and parser phases and prints a parenthesized
// s-expression dump of the resulting statement list. This is a debug
// convenience for the CLI, not the general-purpose AST printer that
// spec.md places out of scope for the core subsystems.
func (c *Cmd) Parse(_ context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("parse: expects exactly one file argument")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	bag := diag.NewBag()
	tokens := scanner.Scan(string(src), bag)
	stmts := parser.Parse(tokens, bag)

	for _, s := range stmts {
		fmt.Fprintln(stdio.Stdout, dumpStmt(s))
	}
	if bag.HadError() {
		bag.WriteTo(stdio.Stderr)
		return &codedError{code: mainer.ExitCode(65)}
	}
	return nil
}

func dumpStmt(s ast.Stmt) string {
	switch s := s.(type) {
	case nil:
		return "<error>"
	case *ast.ExprStmt:
		return dumpExpr(s.Expression)
	case *ast.PrintStmt:
		return paren("print", dumpExpr(s.Expression))
	case *ast.VarStmt:
		if s.Initializer == nil {
			return paren("var", s.Name.Lexeme)
		}
		return paren("var", s.Name.Lexeme, dumpExpr(s.Initializer))
	case *ast.BlockStmt:
		parts := make([]string, len(s.Statements))
		for i, st := range s.Statements {
			parts[i] = dumpStmt(st)
		}
		return paren("block", parts...)
	case *ast.IfStmt:
		if s.Else == nil {
			return paren("if", dumpExpr(s.Condition), dumpStmt(s.Then))
		}
		return paren("if", dumpExpr(s.Condition), dumpStmt(s.Then), dumpStmt(s.Else))
	case *ast.WhileStmt:
		return paren("while", dumpExpr(s.Condition), dumpStmt(s.Body))
	case *ast.FunctionStmt:
		return paren("fun", s.Name.Lexeme)
	case *ast.ReturnStmt:
		if s.Value == nil {
			return "(return)"
		}
		return paren("return", dumpExpr(s.Value))
	case *ast.ClassStmt:
		return paren("class", s.Name.Lexeme)
	default:
		return fmt.Sprintf("<unknown stmt %T>", s)
	}
}

func dumpExpr(e ast.Expr) string {
	switch e := e.(type) {
	case nil:
		return "<error>"
	case *ast.LiteralExpr:
		return fmt.Sprintf("%v", e.Value)
	case *ast.GroupingExpr:
		return paren("group", dumpExpr(e.Expression))
	case *ast.UnaryExpr:
		return paren(e.Op.Lexeme, dumpExpr(e.Right))
	case *ast.BinaryExpr:
		return paren(e.Op.Lexeme, dumpExpr(e.Left), dumpExpr(e.Right))
	case *ast.LogicalExpr:
		return paren(e.Op.Lexeme, dumpExpr(e.Left), dumpExpr(e.Right))
	case *ast.VariableExpr:
		return e.Name.Lexeme
	case *ast.AssignExpr:
		return paren("=", e.Name.Lexeme, dumpExpr(e.Value))
	case *ast.CallExpr:
		parts := make([]string, 0, len(e.Arguments)+1)
		parts = append(parts, dumpExpr(e.Callee))
		for _, a := range e.Arguments {
			parts = append(parts, dumpExpr(a))
		}
		return paren("call", parts...)
	case *ast.GetExpr:
		return paren(".", dumpExpr(e.Object), e.Name.Lexeme)
	case *ast.SetExpr:
		return paren("=.", dumpExpr(e.Object), e.Name.Lexeme, dumpExpr(e.Value))
	case *ast.ThisExpr:
		return "this"
	case *ast.SuperExpr:
		return paren("super", e.Method.Lexeme)
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func paren(name string, parts ...string) string {
	return "(" + name + " " + strings.Join(parts, " ") + ")"
}
