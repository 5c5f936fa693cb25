// Package arena implements the single-owner node arena described in
// SPEC_FULL.md §4.1: nodes are stored by index rather than by pointer, so
// handles stay cheap to copy and stale references are detected instead of
// dereferenced.
package arena

import "fmt"

// Handle is a lightweight reference to a node stored in a Tree. The Index
// never changes for the lifetime of the slot it names; Generation is bumped
// whenever the slot is reused after a Trash flush, so a handle captured
// before the flush compares unequal to whatever occupies the slot after.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Nil is the zero Handle. No live node ever has this value, since index 0
// of every Tree is reserved as a sentinel during NewTree.
var Nil = Handle{}

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool { return h == Nil }

func (h Handle) String() string {
	if h.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("#%d.%d", h.Index, h.Generation)
}

// SlotKind distinguishes a single-child slot from an ordered list slot, per
// SPEC_FULL.md §3.1 ("each slot holds either one owned child or an ordered
// list of owned children").
type SlotKind int

const (
	// SlotSingle holds at most one owned child.
	SlotSingle SlotKind = iota
	// SlotList holds an ordered, owned list of children (a "BList").
	SlotList
)

// SlotRef names the slot a node currently occupies in its parent: the slot
// name plus, for list slots, the index within the list. It is what the
// parent-consistency invariant (SPEC_FULL.md §3.3) checks against.
type SlotRef struct {
	Parent Handle
	Slot   string
	Kind   SlotKind
	Index  int // meaningful only when Kind == SlotList
}
