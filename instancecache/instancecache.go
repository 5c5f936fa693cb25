// Package instancecache memoizes template instantiations keyed by
// (declaration handle, structural fingerprint of the template arguments),
// the dedup step resolveTemplates.cpp performs before emitting a fresh
// monomorphized copy of a templated View/Function/Procedure for a given
// argument combination (SPEC_FULL.md §4.5: "two TypeReferences with the
// same declaration and equal template arguments instantiate to the same
// node, never two").
//
// The fingerprint is a 64-bit xxhash over a canonical byte rendering of the
// argument subtree (serialize.CanonicalBytes); collisions are possible at
// that width, so a cache hit is only provisional until Fetch compares the
// candidate's rendered bytes for exact equality — the fingerprint narrows
// the search, it never substitutes for it.
package instancecache

import (
	"github.com/cespare/xxhash/v2"

	"github.com/esd-univr/hif-core-sub007/hifast"
)

// Fingerprint is the 64-bit structural hash of an argument list's canonical
// rendering.
type Fingerprint uint64

// ComputeFingerprint hashes render, the canonical byte form of a template
// argument list (produced by the caller, typically via the serialize
// package's canonical renderer).
func ComputeFingerprint(render []byte) Fingerprint {
	return Fingerprint(xxhash.Sum64(render))
}

type key struct {
	decl hifast.Handle
	fp   Fingerprint
}

type entry struct {
	render []byte
	result hifast.Handle
}

// Cache memoizes instantiation results. It is not safe for concurrent use
// from multiple goroutines without external synchronization (SPEC_FULL.md
// §5's "single-threaded cooperative per tree" applies here too, since
// results are handles into one Tree).
type Cache struct {
	tree    *hifast.Tree
	entries map[key][]entry
}

// New returns an empty cache bound to tree (entries become invalid, and are
// evicted lazily on lookup, once a cached handle is destroyed).
func New(tree *hifast.Tree) *Cache {
	return &Cache{tree: tree, entries: make(map[key][]entry)}
}

// Fetch returns a previously cached instantiation of decl for an argument
// list whose canonical rendering is render, or (Nil, false) on a miss. A
// matching fingerprint with differing bytes (a hash collision) is treated
// as a miss, not a match.
func (c *Cache) Fetch(decl hifast.Handle, render []byte) (hifast.Handle, bool) {
	k := key{decl: decl, fp: ComputeFingerprint(render)}
	bucket := c.entries[k]
	kept := bucket[:0]
	var found hifast.Handle
	ok := false
	for _, e := range bucket {
		if !c.tree.Nodes.Alive(e.result) {
			continue // stale, drop
		}
		kept = append(kept, e)
		if !ok && string(e.render) == string(render) {
			found, ok = e.result, true
		}
	}
	if len(kept) == 0 {
		delete(c.entries, k)
	} else {
		c.entries[k] = kept
	}
	return found, ok
}

// Store records that decl instantiated with the argument list rendering
// render produced result.
func (c *Cache) Store(decl hifast.Handle, render []byte, result hifast.Handle) {
	k := key{decl: decl, fp: ComputeFingerprint(render)}
	c.entries[k] = append(c.entries[k], entry{render: append([]byte(nil), render...), result: result})
}

// Invalidate drops every cached instantiation of decl (used when decl's
// template parameter list itself changes).
func (c *Cache) Invalidate(decl hifast.Handle) {
	for k := range c.entries {
		if k.decl == decl {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of distinct (decl, fingerprint) buckets currently
// held, for test assertions and diagnostics.
func (c *Cache) Len() int { return len(c.entries) }
