package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/lox/lang/diag"
	"github.com/mna/lox/lang/interpreter"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/resolver"
	"github.com/mna/lox/lang/scanner"
)

// Run executes a Lox script given as the sole path argument, or starts an
// interactive prompt if no path is given, per SPEC_FULL.md §6.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return runPrompt(ctx, stdio)
	}
	return runFile(stdio, args[0])
}

func runFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	interp := interpreter.New(stdio.Stdout)
	bag := runSource(string(src), interp, stdio.Stderr)

	switch {
	case bag.HadError():
		return &codedError{code: mainer.ExitCode(65)}
	case bag.HadRuntimeError():
		return &codedError{code: mainer.ExitCode(70)}
	}
	return nil
}

func runPrompt(ctx context.Context, stdio mainer.Stdio) error {
	interp := interpreter.New(stdio.Stdout)
	sc := bufio.NewScanner(stdio.Stdin)

	for {
		fmt.Fprint(stdio.Stdout, "> ")
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if !sc.Scan() {
			return nil
		}
		runSource(sc.Text(), interp, stdio.Stderr)
	}
}

// runSource runs the full scan/parse/resolve/interpret pipeline over one
// source string against interp, writing any diagnostics to stderr, and
// returns the bag used so the caller can inspect had-error/had-runtime-error.
func runSource(src string, interp *interpreter.Interpreter, stderr io.Writer) *diag.Bag {
	bag := diag.NewBag()

	tokens := scanner.Scan(src, bag)

	stmts := parser.Parse(tokens, bag)
	if bag.HadError() {
		bag.WriteTo(stderr)
		return bag
	}

	locals := resolver.Resolve(stmts, bag)
	if bag.HadError() {
		bag.WriteTo(stderr)
		return bag
	}

	interp.Resolve(locals)
	interp.Interpret(stmts, bag)
	if bag.HadRuntimeError() {
		bag.WriteTo(stderr)
	}
	return bag
}
