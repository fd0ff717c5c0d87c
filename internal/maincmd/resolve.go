package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/resolver"
	"github.com/mna/lox/lang/scanner"
)

// Resolve runs the scanner, parser and resolver phases and prints the
// number of variable references the resolver bound to a local scope depth.
func (c *Cmd) Resolve(_ context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("resolve: expects exactly one file argument")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	bag := diag.NewBag()
	tokens := scanner.Scan(string(src), bag)
	stmts := parser.Parse(tokens, bag)
	if bag.HadError() {
		bag.WriteTo(stdio.Stderr)
		return &codedError{code: mainer.ExitCode(65)}
	}

	locals := resolver.Resolve(stmts, bag)
	fmt.Fprintf(stdio.Stdout, "%d local variable reference(s) resolved\n", len(locals))
	if bag.HadError() {
		bag.WriteTo(stdio.Stderr)
		return &codedError{code: mainer.ExitCode(65)}
	}
	return nil
}
