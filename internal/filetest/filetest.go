// Package filetest provides a small golden-file comparison helper for
// multi-line test output (interpreter stdout, diagnostic dumps).
package filetest

import (
	"flag"
	"os"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

var updateGolden = flag.Bool("test.update-golden", false, "If set, overwrites golden files with actual output instead of comparing against them.")

// AssertGolden compares got against the contents of the file at goldenPath,
// failing the test with a unified diff on mismatch. With
// -test.update-golden, it writes got to goldenPath instead of comparing,
// which is how a golden file is created or intentionally updated.
func AssertGolden(t *testing.T, goldenPath, got string) {
	t.Helper()

	if *updateGolden {
		if err := os.WriteFile(goldenPath, []byte(got), 0o600); err != nil {
			t.Fatal(err)
		}
		return
	}

	wantb, err := os.ReadFile(goldenPath)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	if patch := diff.Diff(string(wantb), got); patch != "" {
		t.Errorf("golden mismatch for %s (run with -test.update-golden to accept):\n%s", goldenPath, patch)
	}
}
