package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/scanner"
)

// Tokenize runs only the scanner phase and prints the resulting token
// stream, one token per line.
func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("tokenize: expects exactly one file argument")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	bag := diag.NewBag()
	tokens := scanner.Scan(string(src), bag)
	for _, tok := range tokens {
		fmt.Fprintf(stdio.Stdout, "%-12s %q\n", tok.Kind, tok.Lexeme)
	}
	if bag.HadError() {
		bag.WriteTo(stdio.Stderr)
		return &codedError{code: mainer.ExitCode(65)}
	}
	return nil
}
