package manipulation

import (
	"fmt"

	"github.com/esd-univr/hif-core-sub007/arena"
	"github.com/esd-univr/hif-core-sub007/copyengine"
	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/instancecache"
	"github.com/esd-univr/hif-core-sub007/resolver"
	"github.com/esd-univr/hif-core-sub007/serialize"
	"github.com/esd-univr/hif-core-sub007/trash"
	"github.com/esd-univr/hif-core-sub007/visitor"
)

// ResolveTemplatesOptions mirrors the knobs resolveTemplates.cpp exposes
// beyond the semantics pointer itself.
type ResolveTemplatesOptions struct {
	// CacheSize is not read by ResolveTemplates; the instance cache it is
	// given is unbounded.
	CacheSize int

	// RemoveOriginal deletes a templated declaration from its owning scope
	// once every reference to it has been monomorphized, generalizing the
	// original's "removeInstantiatedViews" switch to every templated
	// declaration kind, not just View (SPEC_FULL.md §8 scenario 2: "the
	// original V is removed").
	RemoveOriginal bool
}

// DefaultResolveTemplatesOptions matches the original's constructor
// defaults: removal is opt-in, the instance cache is unbounded.
func DefaultResolveTemplatesOptions() ResolveTemplatesOptions {
	return ResolveTemplatesOptions{}
}

// ResolveTemplates walks root looking for TypeReference/ViewReference nodes
// whose "templateArguments" list slot is non-empty. For each one, it
// instantiates (or reuses, via cache) a monomorphized copy of the resolved
// declaration with every reference to a template parameter replaced by the
// bound argument, attaches the copy as a sibling of the original, retargets
// the reference at the copy, and — grounded on ResolveTemplates in the
// original's resolveTemplates.cpp — consumes the templateArguments list,
// since the instance already bakes the binding in. "Same declaration + same
// template arguments always instantiate to the same node" is enforced by
// cache.
func ResolveTemplates(tree *hifast.Tree, root hifast.Handle, res *resolver.Resolver, cache *instancecache.Cache, opts ResolveTemplatesOptions) *Result {
	r := newResult()
	tr := trash.New(tree)
	g := &templateResolver{
		tree: tree, res: res, cache: cache, opts: opts, trash: tr,
		result: r, seq: make(map[string]int), toRemove: make(map[hifast.Handle]bool),
	}
	visitor.Walk(tree, root, g)
	for decl := range g.toRemove {
		if tree.Nodes.Alive(decl) {
			tr.Insert(decl)
		}
	}
	tr.Clear(hifast.Nil)
	return r
}

type templateResolver struct {
	visitor.BaseGuide
	tree     *hifast.Tree
	res      *resolver.Resolver
	cache    *instancecache.Cache
	opts     ResolveTemplatesOptions
	trash    *trash.Trash
	result   *Result
	seq      map[string]int   // base declaration name -> instances minted so far
	toRemove map[hifast.Handle]bool
}

func (g *templateResolver) BeforeVisit(t *hifast.Tree, h hifast.Handle) hifast.Handle {
	g.result.Stats.NodesVisited++
	n := t.Get(h)
	if n.Kind != hifast.KindTypeReference && n.Kind != hifast.KindViewReference {
		return hifast.Nil
	}
	args := n.ChildLists["templateArguments"]
	if len(args) == 0 {
		return hifast.Nil
	}

	decl, err := g.res.Resolve(h)
	if err != nil {
		g.result.addDiag("warning", "template reference could not be resolved: "+err.Error(), t.String(h))
		return hifast.Nil
	}

	render := serialize.CanonicalBytesList(t, args)
	instance, hit := g.cache.Fetch(decl, render)
	if !hit {
		instance = g.instantiate(decl, args)
		g.cache.Store(decl, render, instance)
		g.result.fixed()
	}

	n = t.Get(h)
	n.Type.Instance = instance
	n.ResolvedDecl = instance
	t.Put(h, n)
	g.trash.InsertList(h, "templateArguments", args)

	if g.opts.RemoveOriginal {
		g.toRemove[decl] = true
	}
	return hifast.Nil
}

// instantiate deep-copies decl, substituting every reference to one of
// decl's own template parameters with a fresh copy of the matching
// argument's bound value/type, then attaches the copy as a sibling of decl
// under a mangled name and strips its now-bound templateParameters list —
// SPEC_FULL.md §8 scenario 2: "a copy with n replaced by 16 wherever it
// appeared."
func (g *templateResolver) instantiate(decl hifast.Handle, args []hifast.Handle) hifast.Handle {
	t := g.tree
	dn := t.Get(decl)
	params := dn.ChildLists["templateParameters"]

	subst := make(map[hifast.Handle]hifast.Handle, len(params))
	for i, param := range params {
		if i >= len(args) {
			break
		}
		pn := t.Get(param)
		an := t.Get(args[i])
		switch pn.Kind {
		case hifast.KindValueTP:
			if v := an.Children["value"]; !v.IsNil() {
				subst[param] = v
			}
		case hifast.KindTypeTP:
			if v := an.Children["type"]; !v.IsNil() {
				subst[param] = v
			}
		}
	}

	var eng *copyengine.Engine
	policy := copyengine.DefaultPolicy()
	policy.UserFunc = func(_ *hifast.Tree, src, _ hifast.Handle) hifast.Handle {
		return g.substituteReference(t, eng, src, subst)
	}
	eng = copyengine.New(t, t, policy)
	instance := eng.Copy(decl)

	in := t.Get(instance)
	in.Decl.Name = g.mangledName(dn.Decl.Name)
	t.Put(instance, in)
	g.trash.InsertList(instance, "templateParameters", in.ChildLists["templateParameters"])

	g.attachSibling(decl, instance)
	t.ClearSubtreeCaches(instance)
	return instance
}

// substituteReference reports, for a node src being copied, whether src is
// a reference to one of decl's template parameters; if so it returns a
// fresh copy of the bound argument instead of the structural copy the
// engine already built, otherwise Nil (no substitution).
func (g *templateResolver) substituteReference(t *hifast.Tree, eng *copyengine.Engine, src hifast.Handle, subst map[hifast.Handle]hifast.Handle) hifast.Handle {
	sn := t.Get(src)
	switch sn.Kind.Family() {
	case hifast.FamilyValue, hifast.FamilyType:
	default:
		return hifast.Nil
	}
	resolved := sn.ResolvedDecl
	if resolved.IsNil() {
		if d, err := g.res.Resolve(src); err == nil {
			resolved = d
		}
	}
	bound, ok := subst[resolved]
	if !ok {
		return hifast.Nil
	}
	return eng.Copy(bound)
}

// attachSibling inserts instance into the same list slot that currently
// holds original, immediately after it.
func (g *templateResolver) attachSibling(original, instance hifast.Handle) {
	t := g.tree
	parent := t.Nodes.ParentOf(original)
	if parent.IsNil() {
		g.result.addDiag("warning", "templated declaration has no parent scope to attach an instance into", t.String(original))
		return
	}
	ref := t.Nodes.SlotOf(original)
	if ref.Kind != arena.SlotList {
		g.result.addDiag("warning", "templated declaration is not list-attached, cannot attach instance", t.String(original))
		return
	}
	p := t.Get(parent)
	list := p.ChildLists[ref.Slot]
	out := make([]hifast.Handle, 0, len(list)+1)
	for _, c := range list {
		out = append(out, c)
		if c == original {
			out = append(out, instance)
		}
	}
	if err := t.SetList(parent, ref.Slot, out); err != nil {
		g.result.addDiag("error", "could not attach template instance: "+err.Error(), t.String(parent))
	}
}

// mangledName returns base_inst the first time it is minted for base, then
// base_inst2, base_inst3, ... on subsequent distinct instantiations.
func (g *templateResolver) mangledName(base string) string {
	g.seq[base]++
	if g.seq[base] == 1 {
		return base + "_inst"
	}
	return fmt.Sprintf("%s_inst%d", base, g.seq[base])
}
