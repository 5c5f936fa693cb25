// Package resolver implements symbol resolution over a hifast.Tree: mapping
// an Identifier/FieldReference/FunctionCall/TypeReference/ViewReference node
// to the Declaration node its name refers to, following the scoping rules of
// SPEC_FULL.md §4.2 ("innermost-scope-wins, then outward through enclosing
// Contents/Entity/View/DesignUnit/LibraryDef/System nodes").
//
// Resolution results are cached on the referencing Node's ResolvedDecl field
// (SPEC_FULL.md §3.3: "resolver-cache soundness"); Resolver additionally
// keeps a bounded LRU of (scope handle, name) -> declaration lookups so that
// repeated resolution inside a hot loop (e.g. during printing) does not
// re-walk the scope chain every time a cache has already been invalidated.
package resolver

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/esd-univr/hif-core-sub007/hifast"
)

// scopeListSlots lists the Kinds that introduce a new lexical scope (the list
// slots searched for declarations at that level), grounded on the original
// hif::manipulation symbol table's walk up through owning scopes.
var scopeListSlots = map[hifast.Kind][]string{
	hifast.KindFunction:   {"parameters", "templateParameters", "declarations"},
	hifast.KindProcedure:  {"parameters", "templateParameters", "declarations"},
	hifast.KindFor:        {"initDeclarations"},
	hifast.KindEntity:     {"ports", "parameters"},
	hifast.KindView:       {"templateParameters"},
	hifast.KindTypeDef:    {"templateParameters"},
	hifast.KindContents:   {"declarations", "stateTables", "generates", "instances"},
	hifast.KindLibraryDef: {"declarations", "libraries"},
	hifast.KindStateTable: {"declarations"},
	hifast.KindSystem:     {"designUnits", "libraryDefs", "declarations"},
	hifast.KindRecord:     {"fields"},
	hifast.KindEnum:       {"values"},
}

type cacheKey struct {
	scope hifast.Handle
	name  string
}

// Resolver resolves symbol references within one Tree.
type Resolver struct {
	tree  *hifast.Tree
	cache *lru.Cache[cacheKey, hifast.Handle]
}

// New returns a Resolver over tree with an LRU cache holding up to
// cacheSize (scope, name) entries.
func New(tree *hifast.Tree, cacheSize int) *Resolver {
	c, err := lru.New[cacheKey, hifast.Handle](cacheSize)
	if err != nil {
		// Only invalid (<=0) sizes error; callers always pass a positive
		// constant, so this is an invariant violation.
		panic(fmt.Sprintf("resolver: bad cache size %d: %v", cacheSize, err))
	}
	return &Resolver{tree: tree, cache: c}
}

// ErrUnresolved is returned when no declaration named name is visible from
// referrer's scope.
type ErrUnresolved struct {
	Name     string
	Referrer hifast.Handle
}

func (e *ErrUnresolved) Error() string {
	return fmt.Sprintf("resolver: %q not visible from %s", e.Name, e.Referrer)
}

// Resolve returns the Declaration node referrer's symbolic name refers to,
// using referrer.ResolvedDecl as a cache first, then the Resolver's LRU,
// then a scope-chain walk. A successful walk populates both caches.
func (r *Resolver) Resolve(referrer hifast.Handle) (hifast.Handle, error) {
	n := r.tree.Get(referrer)
	if !n.ResolvedDecl.IsNil() && r.tree.Nodes.Alive(n.ResolvedDecl) {
		return n.ResolvedDecl, nil
	}
	name := referrerName(n)
	if name == "" {
		return hifast.Nil, &ErrUnresolved{Name: name, Referrer: referrer}
	}

	scope := r.tree.Nodes.ParentOf(referrer)
	for !scope.IsNil() {
		key := cacheKey{scope: scope, name: name}
		if decl, ok := r.cache.Get(key); ok && r.tree.Nodes.Alive(decl) {
			r.setResolved(referrer, decl)
			return decl, nil
		}
		if decl, ok := r.lookupInScope(scope, name); ok {
			r.cache.Add(key, decl)
			r.setResolved(referrer, decl)
			return decl, nil
		}
		scope = r.tree.Nodes.ParentOf(scope)
	}
	return hifast.Nil, &ErrUnresolved{Name: name, Referrer: referrer}
}

// referrerName extracts the symbolic name off whichever family payload n
// actually carries: Value.Name for Identifier/FieldReference/FunctionCall,
// Type.Name for TypeReference/ViewReference.
func referrerName(n *hifast.Node) string {
	switch n.Kind.Family() {
	case hifast.FamilyType:
		return n.Type.Name
	case hifast.FamilyValue:
		return n.Value.Name
	default:
		return ""
	}
}

func (r *Resolver) setResolved(referrer, decl hifast.Handle) {
	n := r.tree.Get(referrer)
	n.ResolvedDecl = decl
	r.tree.Put(referrer, n)
}

// lookupInScope searches the declaration-bearing list slots owned directly
// by scope for a Decl-family node named name.
func (r *Resolver) lookupInScope(scope hifast.Handle, name string) (hifast.Handle, bool) {
	n := r.tree.Get(scope)
	for _, slot := range scopeListSlots[n.Kind] {
		for _, child := range n.ChildLists[slot] {
			cn := r.tree.Get(child)
			if cn.Kind.IsDecl() && cn.Decl.Name == name {
				return child, true
			}
		}
	}
	return hifast.Nil, false
}

// Invalidate drops every cache entry keyed by scope (used when a
// declaration list under scope is rewritten, alongside
// Tree.ClearSubtreeCaches for the referrers themselves).
func (r *Resolver) Invalidate(scope hifast.Handle) {
	for _, key := range r.cache.Keys() {
		if key.scope == scope {
			r.cache.Remove(key)
		}
	}
}

// Purge empties the whole LRU, used after a pass that may have moved
// declarations across many scopes at once (e.g. expandAliases).
func (r *Resolver) Purge() { r.cache.Purge() }
