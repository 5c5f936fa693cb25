// Package copyengine deep-copies hifast subtrees within or across Trees
// under a configurable Policy, grounded on hif::copy/CopyOptions: the same
// five independent toggles (semantic types, declaration back-links, child
// objects, properties, comments), expressed here as Go bool fields instead
// of a C struct, plus an optional user hook invoked once per copied node.
package copyengine

import (
	"github.com/esd-univr/hif-core-sub007/hifast"
)

// Policy mirrors hif::CopyOptions. The zero value is NOT the default —
// use DefaultPolicy for the original's actual defaults (deep copy,
// properties and comments copied, semantic types dropped, declaration
// links (ResolvedDecl) aliased into the copy).
type Policy struct {
	CopySemanticTypes bool
	CopyDeclarations  bool // alias ResolvedDecl into the copy rather than clearing it
	CopyChildren      bool
	CopyProperties    bool
	CopyComments      bool

	// UserFunc, if non-nil, is called with (source node, freshly built
	// copy node) after every node is copied and may return a replacement
	// handle to substitute in the copy's parent slot instead.
	UserFunc func(tree *hifast.Tree, src, dst hifast.Handle) hifast.Handle
}

// DefaultPolicy matches the original's CopyOptions default constructor.
func DefaultPolicy() Policy {
	return Policy{
		CopySemanticTypes: false,
		CopyDeclarations:  true,
		CopyChildren:      true,
		CopyProperties:    true,
		CopyComments:      true,
	}
}

// Engine copies nodes from src into dst (may be the same Tree) under
// policy.
type Engine struct {
	src, dst *hifast.Tree
	policy   Policy
}

// New returns an Engine copying from src to dst under policy.
func New(src, dst *hifast.Tree, policy Policy) *Engine {
	return &Engine{src: src, dst: dst, policy: policy}
}

// Copy deep-copies h (and, if policy.CopyChildren, every descendant) into
// dst, returning the new root handle.
func (e *Engine) Copy(h hifast.Handle) hifast.Handle {
	if h.IsNil() {
		return hifast.Nil
	}
	n := e.src.Get(h)
	out := e.dst.NewNode(n.Kind)
	on := e.dst.Get(out)

	copyPayload(n, on)
	on.Loc = n.Loc
	on.AdditionalKeywords = append([]string(nil), n.AdditionalKeywords...)
	if e.policy.CopyComments {
		on.Comments = append([]string(nil), n.Comments...)
	}
	if e.policy.CopySemanticTypes && !n.SemanticType.IsNil() {
		on.SemanticType = e.Copy(n.SemanticType)
	}
	if e.policy.CopyDeclarations {
		on.ResolvedDecl = n.ResolvedDecl
	}
	e.dst.Put(out, on)

	if e.policy.CopyProperties {
		for name, v := range n.Properties {
			e.dst.SetProperty(out, name, e.Copy(v))
		}
	}
	if e.policy.CopyChildren {
		for _, slot := range hifast.SlotOrder(n.Kind) {
			if child, ok := n.Children[slot]; ok && !child.IsNil() {
				_ = e.dst.SetSingle(out, slot, e.Copy(child))
				continue
			}
			if list := n.ChildLists[slot]; len(list) > 0 {
				copied := make([]hifast.Handle, len(list))
				for i, c := range list {
					copied[i] = e.Copy(c)
				}
				_ = e.dst.SetList(out, slot, copied)
			}
		}
	}

	if e.policy.UserFunc != nil {
		if rep := e.policy.UserFunc(e.dst, h, out); !rep.IsNil() {
			return rep
		}
	}
	return out
}

// CopyList copies each handle in src in order, returning the new handles.
func (e *Engine) CopyList(src []hifast.Handle) []hifast.Handle {
	out := make([]hifast.Handle, len(src))
	for i, h := range src {
		out[i] = e.Copy(h)
	}
	return out
}

// copyPayload copies the scalar family-payload fields from src onto dst's
// already-allocated payload of the matching family.
func copyPayload(src, dst *hifast.Node) {
	switch src.Kind.Family() {
	case hifast.FamilyType:
		*dst.Type = *src.Type
		dst.Type.Element = hifast.Nil // Element mirrors a child slot; repopulated by Copy's child loop
	case hifast.FamilyValue:
		*dst.Value = *src.Value
		dst.Value.BitvectorLit = append([]hifast.BitConstant(nil), src.Value.BitvectorLit...)
	case hifast.FamilyAction:
		*dst.Action = *src.Action
	case hifast.FamilyDecl:
		*dst.Decl = *src.Decl
	case hifast.FamilyAlt:
		*dst.Alt = *src.Alt
	}
}
