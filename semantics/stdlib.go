package semantics

import "github.com/bmatcuk/doublestar/v4"

// StandardLibraryFilter decides whether a fully-qualified declaration path
// (e.g. "ieee/std_logic_1164/STD_ULOGIC") belongs to a target's standard
// library by matching the whole path against doublestar glob patterns;
// there is no basename-only fallback (SPEC_FULL.md §6.3:
// "printers and fixTemplateParameters both need an 'is this a standard
// library declaration' predicate").
type StandardLibraryFilter struct {
	patterns []string
}

// DefaultStandardLibraryPatterns covers the libraries the original
// declares standard for HIF/Verilog lowering.
var DefaultStandardLibraryPatterns = []string{
	"hif_*",
	"ieee/**",
	"std/**",
	"vl_*",
}

// NewStandardLibraryFilter builds a filter over patterns (falls back to
// DefaultStandardLibraryPatterns when patterns is empty).
func NewStandardLibraryFilter(patterns ...string) *StandardLibraryFilter {
	if len(patterns) == 0 {
		patterns = DefaultStandardLibraryPatterns
	}
	return &StandardLibraryFilter{patterns: patterns}
}

// Match reports whether path matches any registered pattern.
func (f *StandardLibraryFilter) Match(path string) bool {
	for _, p := range f.patterns {
		if matched, err := doublestar.Match(p, path); err == nil && matched {
			return true
		}
	}
	return false
}
