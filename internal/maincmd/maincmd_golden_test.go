package maincmd

import (
	"path/filepath"
	"testing"

	"github.com/mna/lox/internal/filetest"
)

// TestRunGoldenStdout exercises a multi-line recursive-function program
// end to end through the CLI and checks its full stdout against a golden
// file, the way a change to the interpreter's display or control-flow
// semantics would be caught.
func TestRunGoldenStdout(t *testing.T) {
	out, _, code := runCLI(t, "", "run", filepath.Join("testdata", "fib.lox"))
	if code != 0 {
		t.Fatalf("unexpected exit code %d", code)
	}
	filetest.AssertGolden(t, filepath.Join("testdata", "fib.lox.stdout.want"), out)
}

// TestRunGoldenDiagnostics exercises a script with multiple syntax errors
// and checks the full multi-line diagnostic dump the parser's panic-mode
// recovery produces.
func TestRunGoldenDiagnostics(t *testing.T) {
	_, errOut, code := runCLI(t, "", "run", filepath.Join("testdata", "syntax_errors.lox"))
	if code != 65 {
		t.Fatalf("unexpected exit code %d", code)
	}
	filetest.AssertGolden(t, filepath.Join("testdata", "syntax_errors.lox.stderr.want"), errOut)
}
