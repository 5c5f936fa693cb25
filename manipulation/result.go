// Package manipulation implements the tree-rewriting passes SPEC_FULL.md
// §4.8 describes: fixTemplateParameters, resolveTemplates, expandAliases,
// fixUnsupportedBits, splitAssignTargets and transformConstant, each
// grounded on the like-named file under the original's src/manipulation/.
//
// Every pass returns a Result, the same status/stats/diagnostics shape the
// ambient pipeline result elsewhere in this module's stack uses, so callers
// can report a whole manipulation run the same way they report a
// print/parse run.
package manipulation

import (
	"time"

	"github.com/esd-univr/hif-core-sub007/hifast"
)

// Status summarizes how a pass's run went.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial" // ran, but recorded at least one error diagnostic
	StatusError   Status = "error"
)

// Diagnostic is one note a pass leaves about a specific node it touched or
// skipped.
type Diagnostic struct {
	Severity string // "info" | "warning" | "error"
	Message  string
	NodeDesc string // Tree.String(handle) snapshot, for a human-readable trail
}

// Stats counts what a pass actually did.
type Stats struct {
	NodesVisited int
	NodesFixed   int
	Duration     time.Duration
}

// Result is returned by every pass in this package.
type Result struct {
	Status Status
	// IsFixed reports whether the pass changed anything at all (mirrors
	// the original's per-pass "bool fixed" return convention).
	IsFixed bool
	Stats       Stats
	Diagnostics []Diagnostic
	// InvalidatedCaches lists the handles whose SemanticType/ResolvedDecl
	// callers must treat as stale after this pass, beyond what the pass
	// itself already cleared via Tree.ClearSubtreeCaches.
	InvalidatedCaches []hifast.Handle
}

func newResult() *Result {
	return &Result{Status: StatusSuccess}
}

func (r *Result) addDiag(severity, msg, nodeDesc string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Severity: severity, Message: msg, NodeDesc: nodeDesc})
	if severity == "error" && r.Status != StatusError {
		r.Status = StatusPartial
	}
}

func (r *Result) fixed() {
	r.IsFixed = true
	r.Stats.NodesFixed++
}
