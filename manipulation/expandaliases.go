package manipulation

import (
	"github.com/esd-univr/hif-core-sub007/copyengine"
	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/resolver"
	"github.com/esd-univr/hif-core-sub007/trash"
	"github.com/esd-univr/hif-core-sub007/visitor"
)

// ExpandAliases replaces every reference to an Alias declaration with a
// fresh copy of the alias's own value expression, then deletes the now
// unreferenced Alias nodes — grounded on ReplaceAliasesVisitor in the
// original's expandAliases.cpp: "for each Alias found, copy its value into
// every referencing site, then trash the alias."
//
// res must already have resolved (or be able to resolve) every reference
// under root; ExpandAliases does not discover references on its own, it
// walks root a second time looking for Identifier/FieldReference nodes
// whose ResolvedDecl is one of the aliases found on the first pass.
func ExpandAliases(tree *hifast.Tree, root hifast.Handle, res *resolver.Resolver) *Result {
	r := newResult()
	tr := trash.New(tree)

	var aliases []hifast.Handle
	visitor.Walk(tree, root, collectFunc(func(t *hifast.Tree, h hifast.Handle) {
		r.Stats.NodesVisited++
		if t.Get(h).Kind == hifast.KindAlias {
			aliases = append(aliases, h)
		}
	}))

	for _, alias := range aliases {
		an := tree.Get(alias)
		value := an.Single("value")
		if value.IsNil() {
			r.addDiag("warning", "alias has no value expression", tree.String(alias))
			continue
		}

		var refs []hifast.Handle
		visitor.Walk(tree, root, collectFunc(func(t *hifast.Tree, h hifast.Handle) {
			n := t.Get(h)
			if n.Kind != hifast.KindIdentifier && n.Kind != hifast.KindFieldReference {
				return
			}
			decl := n.ResolvedDecl
			if decl.IsNil() && res != nil {
				decl, _ = res.Resolve(h)
			}
			if decl == alias {
				refs = append(refs, h)
			}
		}))

		eng := copyengine.New(tree, tree, copyengine.DefaultPolicy())
		for _, ref := range refs {
			replacement := eng.Copy(value)
			replaceReference(tree, ref, replacement)
			r.fixed()
		}

		tr.Insert(alias)
	}

	tr.Clear(hifast.Nil)
	return r
}

// replaceReference substitutes replacement for ref in ref's current parent
// slot (single or list), detaching ref.
func replaceReference(tree *hifast.Tree, ref, replacement hifast.Handle) {
	parent := tree.Nodes.ParentOf(ref)
	if parent.IsNil() {
		return
	}
	slotRef := tree.Nodes.SlotOf(ref)
	p := tree.Get(parent)
	if _, isSingle := p.Children[slotRef.Slot]; isSingle {
		_ = tree.SetSingle(parent, slotRef.Slot, replacement)
		return
	}
	list := append([]hifast.Handle(nil), p.ChildLists[slotRef.Slot]...)
	if slotRef.Index >= 0 && slotRef.Index < len(list) {
		list[slotRef.Index] = replacement
	}
	_ = tree.SetList(parent, slotRef.Slot, list)
}

// collectFunc adapts a plain visit callback to the visitor.Guide interface
// for read-only, no-replacement traversals.
type collectFunc func(*hifast.Tree, hifast.Handle)

func (f collectFunc) BeforeVisit(t *hifast.Tree, h hifast.Handle) hifast.Handle {
	f(t, h)
	return hifast.Nil
}
func (f collectFunc) AfterVisit(*hifast.Tree, hifast.Handle) {}
