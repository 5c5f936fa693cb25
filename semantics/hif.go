package semantics

import "github.com/esd-univr/hif-core-sub007/hifast"

// HIF is the language-neutral semantics: it accepts every construct and
// never rewrites a type's variant, since "hif" is the native reading every
// other semantics maps onto (SPEC_FULL.md §4.4: "HIF semantics is the
// identity mapping").
type HIF struct{ Base }

// NewHIF returns the native HIF semantics.
func NewHIF() *HIF { return &HIF{Base{name: "hif"}} }
