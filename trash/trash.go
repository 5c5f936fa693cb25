// Package trash implements scoped deferred deletion over a hifast.Tree,
// grounded directly on hif::Trash (trash.hpp/trash.cpp): passes insert
// handles they want gone rather than destroying them immediately, then
// call Clear once at a safe point. Clear applies the same subsumption rule
// as the original — if one trashed handle is an ancestor of another, only
// the ancestor is actually destroyed (destroying it already took the
// descendant with it); a handle that is an ancestor of the pass's current
// cursor ("where") survives the clear and is requeued instead, since
// destroying it would invalidate the cursor out from under the caller.
package trash

import "github.com/esd-univr/hif-core-sub007/hifast"

// Trash collects handles awaiting deletion from tree.
type Trash struct {
	tree   *hifast.Tree
	holder map[hifast.Handle]struct{}
}

// New returns an empty Trash over tree.
func New(tree *hifast.Tree) *Trash {
	return &Trash{tree: tree, holder: make(map[hifast.Handle]struct{})}
}

// Insert adds h to the trash. A nil handle is ignored.
func (tr *Trash) Insert(h hifast.Handle) {
	if h.IsNil() {
		return
	}
	tr.holder[h] = struct{}{}
}

// InsertList trashes every element of list and detaches them from their
// current parent slot, mirroring the original's BList-draining overload.
func (tr *Trash) InsertList(parent hifast.Handle, slot string, list []hifast.Handle) {
	for _, h := range list {
		tr.Insert(h)
	}
	_ = tr.tree.SetList(parent, slot, nil)
}

// Contains reports whether o, or any ancestor of o, is already in the
// trash (matching the original's isSubNode(o, trashed) check: trashing a
// subtree implicitly trashes everything under it).
func (tr *Trash) Contains(o hifast.Handle) bool {
	for h := range tr.holder {
		if h == o || tr.tree.Nodes.IsAncestor(h, o) {
			return true
		}
	}
	return false
}

// Remove drops h from the trash without destroying it, returning whether
// it had been present.
func (tr *Trash) Remove(h hifast.Handle) bool {
	if _, ok := tr.holder[h]; !ok {
		return false
	}
	delete(tr.holder, h)
	return true
}

// Reset empties the trash without destroying any held handle.
func (tr *Trash) Reset() {
	tr.holder = make(map[hifast.Handle]struct{})
}

// Clear destroys every handle in the trash that is not an ancestor of
// where (pass hifast.Nil if there is no live cursor to protect) and is not
// subsumed by another trashed handle. Handles protected because they are
// an ancestor of where are requeued for the next Clear call.
func (tr *Trash) Clear(where hifast.Handle) {
	pending := tr.holder
	tr.holder = make(map[hifast.Handle]struct{})
	requeued := make(map[hifast.Handle]struct{})

	for o := range pending {
		if !where.IsNil() && (o == where || tr.tree.Nodes.IsAncestor(o, where)) {
			requeued[o] = struct{}{}
			continue
		}
		subsumed := false
		for other := range pending {
			if other == o {
				continue
			}
			if tr.tree.Nodes.IsAncestor(o, other) {
				// o is an ancestor of other: destroying o takes other with
				// it, so other need not be destroyed separately.
				delete(pending, other)
			} else if tr.tree.Nodes.IsAncestor(other, o) {
				subsumed = true
			}
		}
		if !subsumed {
			var doomed []hifast.Handle
			tr.tree.ForEachDescendant(o, func(d hifast.Handle) { doomed = append(doomed, d) })
			tr.tree.Detach(o)
			for _, d := range doomed {
				tr.tree.Nodes.Destroy(d)
			}
		}
	}
	tr.holder = requeued
}
