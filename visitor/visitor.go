// Package visitor implements the two traversal styles SPEC_FULL.md §5
// requires over a hifast.Tree: Guide, a pre-/post-order visitor
// (BeforeVisit/AfterVisit, called for every node) that supports replacing
// the node currently being visited, and BiVisitor, which dispatches on a
// pair of kinds (e.g. to treat (Signal, Port) pairs specially).
//
// Both styles walk in hifast.SlotOrder, so the same tree always prints and
// transforms in the same order (SPEC_FULL.md §5: "Visitor order matches
// child-slot schema order").
package visitor

import (
	"github.com/esd-univr/hif-core-sub007/arena"
	"github.com/esd-univr/hif-core-sub007/hifast"
)

// Guide is implemented by callers of Walk. BeforeVisit/AfterVisit see every
// node exactly once, in schema order, pre- and post-order respectively.
// Returning a non-nil replacement from BeforeVisit swaps the node in place
// (SPEC_FULL.md §5: "a visitor may replace the node currently being
// visited"); Walk does not descend into the replacement's old subtree, only
// the new one.
type Guide interface {
	// BeforeVisit is called before descending into h's children. If it
	// returns a non-Nil handle, that handle replaces h in its parent slot
	// and traversal continues from the replacement instead.
	BeforeVisit(t *hifast.Tree, h hifast.Handle) (replacement hifast.Handle)

	// AfterVisit is called once h's whole subtree (or its replacement's)
	// has been visited.
	AfterVisit(t *hifast.Tree, h hifast.Handle)
}

// BaseGuide is embeddable by visitors that only care about some kinds; its
// methods are no-ops.
type BaseGuide struct{}

func (BaseGuide) BeforeVisit(*hifast.Tree, hifast.Handle) hifast.Handle { return hifast.Nil }
func (BaseGuide) AfterVisit(*hifast.Tree, hifast.Handle)                {}

// Walk runs g over h and its descendants, depth-first, in schema order.
func Walk(t *hifast.Tree, h hifast.Handle, g Guide) {
	if h.IsNil() || !t.Nodes.Alive(h) {
		return
	}
	cur := h
	if rep := g.BeforeVisit(t, cur); !rep.IsNil() {
		replaceInParent(t, cur, rep)
		cur = rep
	}
	for _, slot := range t.ChildSlots(cur) {
		Walk(t, slot.Handle, g)
	}
	for _, list := range t.ChildListSlots(cur) {
		for i := 0; i < len(list.Handles); i++ {
			Walk(t, list.Handles[i], g)
		}
	}
	g.AfterVisit(t, cur)
}

// replaceInParent finds old's slot on its parent and overwrites it with
// replacement, leaving old detached.
func replaceInParent(t *hifast.Tree, old, replacement hifast.Handle) {
	parent := t.Nodes.ParentOf(old)
	if parent.IsNil() {
		return
	}
	ref := t.Nodes.SlotOf(old)
	if ref.Kind == arena.SlotSingle {
		_ = t.SetSingle(parent, ref.Slot, replacement)
		return
	}
	p := t.Get(parent)
	list := append([]hifast.Handle(nil), p.ChildLists[ref.Slot]...)
	if ref.Index >= 0 && ref.Index < len(list) {
		list[ref.Index] = replacement
	}
	_ = t.SetList(parent, ref.Slot, list)
}

// Kind2 is a dispatch key pairing two kinds, used by BiVisitor.
type Kind2 struct {
	A, B hifast.Kind
}

// BiHandler handles one (A, B) kind pair.
type BiHandler func(t *hifast.Tree, a, b hifast.Handle)

// BiVisitor dispatches on the ordered pair of two nodes' kinds, for behavior
// that depends on both sides of a relationship — e.g. matching (Signal,
// Port) declarations.
type BiVisitor struct {
	handlers map[Kind2]BiHandler
	fallback BiHandler
}

// NewBiVisitor returns an empty BiVisitor; fallback is invoked for any pair
// with no registered handler (may be nil to make unregistered pairs a
// no-op).
func NewBiVisitor(fallback BiHandler) *BiVisitor {
	return &BiVisitor{handlers: make(map[Kind2]BiHandler), fallback: fallback}
}

// On registers handler for the exact (a, b) pair.
func (v *BiVisitor) On(a, b hifast.Kind, handler BiHandler) {
	v.handlers[Kind2{a, b}] = handler
}

// Dispatch invokes the handler registered for (ka, kb), or fallback.
func (v *BiVisitor) Dispatch(t *hifast.Tree, ha, hb hifast.Handle) {
	ka := t.Get(ha).Kind
	kb := t.Get(hb).Kind
	if h, ok := v.handlers[Kind2{ka, kb}]; ok {
		h(t, ha, hb)
		return
	}
	if v.fallback != nil {
		v.fallback(t, ha, hb)
	}
}
