package arena

// Tree is a single-owner arena over a payload type T (hifast.Node in
// practice, but the arena itself knows nothing about node kinds — it only
// tracks identity, ownership and parent/slot bookkeeping, matching
// SPEC_FULL.md §4.1's "cheap handles; bulk rewrites by index" goal).
//
// A Tree is not safe for concurrent use from multiple goroutines (SPEC_FULL
// §5: "single-threaded cooperative per tree"); distinct Trees may be driven
// from distinct goroutines freely since they share no state.
type Tree[T any] struct {
	slots      []slot[T]
	freeList   []uint32
	parentOf   []Handle
	slotOf     []SlotRef
	generation []uint32
}

type slot[T any] struct {
	alive bool
	value T
}

// NewTree creates an empty arena. Index 0 is reserved so the zero Handle
// can never name a live node.
func NewTree[T any]() *Tree[T] {
	t := &Tree[T]{}
	var zero T
	t.slots = append(t.slots, slot[T]{alive: false, value: zero})
	t.parentOf = append(t.parentOf, Nil)
	t.slotOf = append(t.slotOf, SlotRef{})
	t.generation = append(t.generation, 0)
	return t
}

// New allocates a fresh, unattached node holding value, returning its handle.
func (t *Tree[T]) New(value T) Handle {
	if n := len(t.freeList); n > 0 {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.slots[idx] = slot[T]{alive: true, value: value}
		t.parentOf[idx] = Nil
		t.slotOf[idx] = SlotRef{}
		return Handle{Index: idx, Generation: t.generation[idx]}
	}
	idx := uint32(len(t.slots))
	t.slots = append(t.slots, slot[T]{alive: true, value: value})
	t.parentOf = append(t.parentOf, Nil)
	t.slotOf = append(t.slotOf, SlotRef{})
	t.generation = append(t.generation, 0)
	return Handle{Index: idx, Generation: 0}
}

// Alive reports whether h currently names a live node (correct generation,
// not destroyed).
func (t *Tree[T]) Alive(h Handle) bool {
	if h.IsNil() || int(h.Index) >= len(t.slots) {
		return false
	}
	return t.slots[h.Index].alive && t.generation[h.Index] == h.Generation
}

// Get returns the payload stored at h. Panics on a stale or nil handle: per
// SPEC_FULL.md §9 this is an invariant violation, not a recoverable error.
func (t *Tree[T]) Get(h Handle) T {
	if !t.Alive(h) {
		panic("arena: use of stale or nil handle " + h.String())
	}
	return t.slots[h.Index].value
}

// Set overwrites the payload stored at h in place (handle and parent/slot
// bookkeeping are untouched).
func (t *Tree[T]) Set(h Handle, value T) {
	if !t.Alive(h) {
		panic("arena: use of stale or nil handle " + h.String())
	}
	t.slots[h.Index].value = value
}

// ParentOf returns the current parent back-link of h, or Nil if h is a root
// or detached.
func (t *Tree[T]) ParentOf(h Handle) Handle {
	if !t.Alive(h) {
		return Nil
	}
	return t.parentOf[h.Index]
}

// SlotOf returns the SlotRef describing which slot of its parent currently
// holds h.
func (t *Tree[T]) SlotOf(h Handle) SlotRef {
	if !t.Alive(h) {
		return SlotRef{}
	}
	return t.slotOf[h.Index]
}

// Attach records that child now occupies ref, detaching it from any prior
// slot first. This is the single place the parent-consistency invariant
// (SPEC_FULL.md §3.3) is established.
func (t *Tree[T]) Attach(child Handle, ref SlotRef) {
	if !t.Alive(child) {
		panic("arena: cannot attach stale or nil handle " + child.String())
	}
	t.Detach(child)
	t.parentOf[child.Index] = ref.Parent
	t.slotOf[child.Index] = ref
}

// Detach clears child's parent back-link, making it a root. A no-op if
// child is already a root.
func (t *Tree[T]) Detach(child Handle) {
	if !t.Alive(child) {
		return
	}
	t.parentOf[child.Index] = Nil
	t.slotOf[child.Index] = SlotRef{}
}

// Destroy removes h from the arena permanently and bumps its generation, so
// any handle captured before the call now fails Alive. Only Trash should
// call this directly (SPEC_FULL.md §3.4: "destroyed only via the trash").
func (t *Tree[T]) Destroy(h Handle) {
	if !t.Alive(h) {
		return
	}
	idx := h.Index
	var zero T
	t.slots[idx] = slot[T]{alive: false, value: zero}
	t.parentOf[idx] = Nil
	t.slotOf[idx] = SlotRef{}
	t.generation[idx]++
	t.freeList = append(t.freeList, idx)
}

// Len returns the number of currently live nodes.
func (t *Tree[T]) Len() int {
	n := 0
	for _, s := range t.slots {
		if s.alive {
			n++
		}
	}
	return n
}

// Walk calls fn for every live handle in ascending handle index order
// (stable and deterministic for tests). Freed indices are reused by New,
// so index order is not allocation order once a handle has been destroyed.
func (t *Tree[T]) Walk(fn func(Handle)) {
	for i, s := range t.slots {
		if s.alive {
			fn(Handle{Index: uint32(i), Generation: t.generation[i]})
		}
	}
}

// IsAncestor reports whether ancestor is a strict ancestor of h by walking
// parent back-links. Used by Trash subsumption and by safe-cursor checks.
func (t *Tree[T]) IsAncestor(ancestor, h Handle) bool {
	cur := t.ParentOf(h)
	for !cur.IsNil() {
		if cur == ancestor {
			return true
		}
		cur = t.ParentOf(cur)
	}
	return false
}
