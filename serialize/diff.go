package serialize

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff between two PrintHIF renderings, grounded on
// providers/base/provider.go's generateDiff — the same shape a ledger run
// wants to show between a tree's textual form before and after a
// manipulation pass. Returns "" when before and after are identical.
func Diff(before, after string) string {
	if before == after {
		return ""
	}
	d := difflib.UnifiedDiff{
		A:        strings.Split(before, "\n"),
		B:        strings.Split(after, "\n"),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return fmt.Sprintf("--- before\n+++ after\n@@ changes @@\n%d bytes -> %d bytes", len(before), len(after))
	}
	return text
}
