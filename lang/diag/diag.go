// Package diag collects and formats the compile-time and runtime
// diagnostics produced while scanning, parsing, resolving, and interpreting
// a Lox program. A Bag is an explicit reporter handle threaded through each
// pipeline stage, rather than a package-level mutable had-error flag.
package diag

import (
	"fmt"
	"strings"

	"github.com/mna/lox/lang/token"
)

// entry is a single compile-time diagnostic.
type entry struct {
	line  int
	where string // "", "at 'LEXEME'", or "at end"
	msg   string
}

func (e entry) String() string {
	if e.where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.line, e.msg)
	}
	return fmt.Sprintf("[line %d] Error %s: %s", e.line, e.where, e.msg)
}

// RuntimeError is a runtime fault raised by the interpreter. It carries the
// offending token so the line can be reported.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s", e.Token.Line, e.Message)
}

// Bag accumulates diagnostics for a single scan/parse/resolve/interpret run.
// It is safe to reuse across the compile-time stages of one run, but a fresh
// Bag should be constructed for each REPL line so errors don't leak across
// prompts.
type Bag struct {
	entries      []entry
	runtimeError *RuntimeError
}

// NewBag returns an empty diagnostics bag.
func NewBag() *Bag { return &Bag{} }

// Add records a compile-time diagnostic at the given line, with no specific
// token context (used by the scanner).
func (b *Bag) Add(line int, msg string) {
	b.entries = append(b.entries, entry{line: line, msg: msg})
}

// AddToken records a compile-time diagnostic anchored to a specific token
// (used by the parser and resolver). The "where" clause follows
// SPEC_FULL.md §6: EOF tokens report "at end", all others report
// "at 'LEXEME'".
func (b *Bag) AddToken(tok token.Token, msg string) {
	where := fmt.Sprintf("at '%s'", tok.Lexeme)
	if tok.Kind == token.EOF {
		where = "at end"
	}
	b.entries = append(b.entries, entry{line: tok.Line, where: where, msg: msg})
}

// SetRuntimeError records the (single) runtime error that aborted
// interpretation. Only the first one recorded is kept.
func (b *Bag) SetRuntimeError(tok token.Token, msg string) {
	if b.runtimeError == nil {
		b.runtimeError = &RuntimeError{Token: tok, Message: msg}
	}
}

// HadError reports whether any compile-time diagnostic was recorded.
func (b *Bag) HadError() bool { return len(b.entries) > 0 }

// HadRuntimeError reports whether a runtime error was recorded.
func (b *Bag) HadRuntimeError() bool { return b.runtimeError != nil }

// RuntimeErr returns the recorded runtime error, or nil.
func (b *Bag) RuntimeErr() *RuntimeError { return b.runtimeError }

// Error implements error: it joins every compile-time diagnostic, one per
// line. The runtime error, if any, is not included.
func (b *Bag) Error() string {
	var sb strings.Builder
	for i, e := range b.entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}

// WriteTo writes every recorded diagnostic, one per line, to w.
func (b *Bag) WriteTo(w interface{ Write([]byte) (int, error) }) {
	for _, e := range b.entries {
		fmt.Fprintln(w, e.String())
	}
	if b.runtimeError != nil {
		fmt.Fprintln(w, b.runtimeError.Error())
	}
}
