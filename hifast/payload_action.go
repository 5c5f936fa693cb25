package hifast

// ActionAttrs holds the scalar attributes shared by the Action family
// (SPEC_FULL.md §3.1, "Actions").
type ActionAttrs struct {
	// Assign: true for a non-blocking ("<=" style) assignment. Carried as a
	// property on the split targets too (SPEC_FULL.md §4.8.5).
	NonBlocking bool

	// Switch: case semantics, and whether it is an "is" (exact
	// match) vs "casex"/"casez"-style construct (SPEC_FULL.md §4.8.4).
	CaseSemantics CaseSemantics

	// For: step direction, mirrors the loop bound Span's Direction.
	Span Span

	// Wait: time value carried by a child "time" slot; HasActions
	// captures whether the semantics allows actions alongside a wait
	// (SemanticOptions.WaitWithActions, SPEC_FULL.md §4.4.1).
	HasActions bool

	// Transition (StateTable FSM edge): priority among sibling
	// transitions, lower fires first.
	Priority int
}
