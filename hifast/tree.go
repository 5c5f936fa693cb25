package hifast

import (
	"fmt"

	"github.com/esd-univr/hif-core-sub007/arena"
)

// Tree is a single HIF tree: the arena plus the System root. It is the
// concrete "NodeStore" of SPEC_FULL.md §2.
type Tree struct {
	Nodes *arena.Tree[Node]
	Root  Handle
}

// NewTree creates an empty tree whose root is a fresh System node.
func NewTree() *Tree {
	nodes := arena.NewTree[Node]()
	t := &Tree{Nodes: nodes}
	t.Root = t.NewNode(KindSystem)
	return t
}

// Get returns the live node at h, panicking on a stale handle exactly like
// arena.Tree.Get (an invariant violation per SPEC_FULL.md §9).
func (t *Tree) Get(h Handle) *Node {
	n := t.Nodes.Get(h)
	return &n
}

// Put stores n as the node at h. Get returns a copy of the stored node, so
// changes made to that copy are persisted with Put.
func (t *Tree) Put(h Handle, n *Node) { t.Nodes.Set(h, *n) }

// NewNode allocates a fresh, detached node of kind with its family payload
// initialized (only the payload matching kind.Family() is non-nil).
func (t *Tree) NewNode(kind Kind) Handle {
	n := Node{Kind: kind}
	switch kind.Family() {
	case FamilyType:
		n.Type = &TypeAttrs{}
	case FamilyValue:
		n.Value = &ValueAttrs{}
	case FamilyAction:
		n.Action = &ActionAttrs{}
	case FamilyDecl:
		n.Decl = &DeclAttrs{}
	case FamilyAlt:
		n.Alt = &AltAttrs{}
	}
	h := t.Nodes.New(n)
	n.Self = h
	t.Nodes.Set(h, n)
	return h
}

// SetSingle attaches child to parent's single-child slot name, enforcing
// the slot schema (SPEC_FULL.md §3.3). A nil child clears the slot.
func (t *Tree) SetSingle(parent Handle, slot string, child Handle) error {
	p := t.Get(parent)
	if !child.IsNil() {
		c := t.Get(child)
		if err := CheckSlot(p.Kind, slot, c.Kind); err != nil {
			return err
		}
	}
	if p.Children == nil {
		p.Children = make(map[string]Handle)
	}
	if old, ok := p.Children[slot]; ok && !old.IsNil() {
		t.Nodes.Detach(old)
	}
	if child.IsNil() {
		delete(p.Children, slot)
	} else {
		p.Children[slot] = child
		t.Nodes.Attach(child, arena.SlotRef{Parent: parent, Slot: slot, Kind: arena.SlotSingle})
	}
	t.Put(parent, p)
	return nil
}

// AppendList appends child to parent's list slot name, enforcing the slot
// schema.
func (t *Tree) AppendList(parent Handle, slot string, child Handle) error {
	p := t.Get(parent)
	c := t.Get(child)
	if err := CheckSlot(p.Kind, slot, c.Kind); err != nil {
		return err
	}
	if p.ChildLists == nil {
		p.ChildLists = make(map[string][]Handle)
	}
	idx := len(p.ChildLists[slot])
	p.ChildLists[slot] = append(p.ChildLists[slot], child)
	t.Nodes.Attach(child, arena.SlotRef{Parent: parent, Slot: slot, Kind: arena.SlotList, Index: idx})
	t.Put(parent, p)
	return nil
}

// SetList replaces the entire contents of parent's list slot, re-indexing
// SlotRefs for every element (used heavily by manipulation passes that
// rewrite a list in place).
func (t *Tree) SetList(parent Handle, slot string, children []Handle) error {
	p := t.Get(parent)
	for _, c := range children {
		cn := t.Get(c)
		if err := CheckSlot(p.Kind, slot, cn.Kind); err != nil {
			return err
		}
	}
	if old := p.ChildLists[slot]; old != nil {
		for _, o := range old {
			if !contains(children, o) {
				t.Nodes.Detach(o)
			}
		}
	}
	if p.ChildLists == nil {
		p.ChildLists = make(map[string][]Handle)
	}
	p.ChildLists[slot] = children
	for i, c := range children {
		t.Nodes.Attach(c, arena.SlotRef{Parent: parent, Slot: slot, Kind: arena.SlotList, Index: i})
	}
	t.Put(parent, p)
	return nil
}

func contains(hs []Handle, h Handle) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}

// RemoveFromList detaches child from parent's list slot and re-indexes the
// remaining elements. Returns false if child was not present.
func (t *Tree) RemoveFromList(parent Handle, slot string, child Handle) bool {
	p := t.Get(parent)
	list := p.ChildLists[slot]
	out := make([]Handle, 0, len(list))
	found := false
	for _, c := range list {
		if c == child {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		return false
	}
	t.Nodes.Detach(child)
	p.ChildLists[slot] = out
	for i, c := range out {
		t.Nodes.Attach(c, arena.SlotRef{Parent: parent, Slot: slot, Kind: arena.SlotList, Index: i})
	}
	t.Put(parent, p)
	return true
}

// SetProperty attaches value as a named property of owner (SPEC_FULL.md
// §3.1: "properties: mapping from property-name to an owned value node").
func (t *Tree) SetProperty(owner Handle, name string, value Handle) {
	o := t.Get(owner)
	if o.Properties == nil {
		o.Properties = make(map[string]Handle)
	}
	if old, ok := o.Properties[name]; ok && !old.IsNil() {
		t.Nodes.Detach(old)
	}
	o.Properties[name] = value
	t.Nodes.Attach(value, arena.SlotRef{Parent: owner, Slot: "property:" + name, Kind: arena.SlotSingle})
	t.Put(owner, o)
}

// ClearSemanticType invalidates the value-node type cache, per the
// soundness invariant of SPEC_FULL.md §3.3: any pass that changes a value's
// operands or operator must call this.
func (t *Tree) ClearSemanticType(h Handle) {
	n := t.Get(h)
	n.SemanticType = arena.Nil
	t.Put(h, n)
}

// ClearResolvedDecl invalidates the symbol->declaration cache on h.
func (t *Tree) ClearResolvedDecl(h Handle) {
	n := t.Get(h)
	n.ResolvedDecl = arena.Nil
	t.Put(h, n)
}

// ClearSubtreeCaches walks h and every descendant, clearing SemanticType and
// ResolvedDecl on each. Used by every pass that moves or deletes
// declarations (SPEC_FULL.md §4.3: "invalidate subtree, then re-resolve
// lazily").
func (t *Tree) ClearSubtreeCaches(h Handle) {
	t.ForEachDescendant(h, func(d Handle) {
		n := t.Get(d)
		n.SemanticType = arena.Nil
		n.ResolvedDecl = arena.Nil
		t.Put(d, n)
	})
}

// ForEachDescendant visits h and every node transitively owned by h's child
// slots, in schema order, depth-first. It is the structural primitive the
// visitor package's Guide traversal builds on.
func (t *Tree) ForEachDescendant(h Handle, fn func(Handle)) {
	if h.IsNil() || !t.Nodes.Alive(h) {
		return
	}
	fn(h)
	n := t.Get(h)
	for _, slot := range SlotOrder(n.Kind) {
		if child, ok := n.Children[slot]; ok && !child.IsNil() {
			t.ForEachDescendant(child, fn)
			continue
		}
		for _, child := range n.ChildLists[slot] {
			t.ForEachDescendant(child, fn)
		}
	}
}

// ChildSlots reports the ordered, populated single-child slots of h: the
// slot name and handle for each non-nil single slot, in schema order.
func (t *Tree) ChildSlots(h Handle) []SlotRef {
	n := t.Get(h)
	var out []SlotRef
	for _, slot := range SlotOrder(n.Kind) {
		if child, ok := n.Children[slot]; ok && !child.IsNil() {
			out = append(out, SlotRef{Slot: slot, Handle: child})
		}
	}
	return out
}

// ChildListSlots reports the ordered, populated list slots of h: the slot
// name and element handles for each non-empty list slot, in schema order.
func (t *Tree) ChildListSlots(h Handle) []ListSlotRef {
	n := t.Get(h)
	var out []ListSlotRef
	for _, slot := range SlotOrder(n.Kind) {
		if list := n.ChildLists[slot]; len(list) > 0 {
			out = append(out, ListSlotRef{Slot: slot, Handles: list})
		}
	}
	return out
}

// SlotRef names a populated single-child slot and its handle.
type SlotRef struct {
	Slot   string
	Handle Handle
}

// ListSlotRef names a populated list slot and its elements.
type ListSlotRef struct {
	Slot    string
	Handles []Handle
}

// Detach removes h from its current parent slot, if any, making it a root.
func (t *Tree) Detach(h Handle) {
	parent := t.Nodes.ParentOf(h)
	if parent.IsNil() {
		return
	}
	ref := t.Nodes.SlotOf(h)
	p := t.Get(parent)
	if ref.Kind == arena.SlotSingle {
		delete(p.Children, ref.Slot)
		t.Put(parent, p)
	} else {
		t.RemoveFromList(parent, ref.Slot, h)
		return
	}
	t.Nodes.Detach(h)
}

// String renders a one-line debug summary of h, e.g. `Identifier(#3.0 "clk")`;
// the quoted name is omitted when the node has none.
func (t *Tree) String(h Handle) string {
	if h.IsNil() {
		return "<nil>"
	}
	n := t.Get(h)
	name := ""
	switch n.Kind.Family() {
	case FamilyDecl:
		name = n.Decl.Name
	case FamilyValue:
		name = n.Value.Name
	case FamilyType:
		name = n.Type.Name
	}
	if name != "" {
		return fmt.Sprintf("%s(%s %q)", n.Kind, h, name)
	}
	return fmt.Sprintf("%s(%s)", n.Kind, h)
}
