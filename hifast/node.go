package hifast

import "github.com/esd-univr/hif-core-sub007/arena"

// Handle re-exports arena.Handle so callers of hifast rarely need to import
// arena directly.
type Handle = arena.Handle

// Nil re-exports arena.Nil, the handle that refers to no node.
var Nil = arena.Nil

// SourceLocation is the optional file/line/column attached to any node
// (SPEC_FULL.md §3.1).
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// Node is the single tagged-variant payload every arena slot holds
// (SPEC_FULL.md §9: "tagged variant... dispatch via match"). Exactly one of
// Type/Value/Action/Decl/Alt is non-nil, selected by Kind.Family().
type Node struct {
	Kind Kind
	Self Handle // this node's own handle; set once by Tree.NewNode

	Loc *SourceLocation

	// Properties maps an arbitrary property name to an owned value node
	// (SPEC_FULL.md §3.1: "mapping from property-name to an owned value
	// node"). Comments and AdditionalKeywords are simple string lists.
	Properties         map[string]Handle
	Comments           []string
	AdditionalKeywords []string

	// Children holds single-child slots; ChildLists holds ordered list
	// slots. Keys are slot names drawn from the schema in schema.go.
	Children   map[string]Handle
	ChildLists map[string][]Handle

	// SemanticType is the cache described by SPEC_FULL.md §3.2/§3.3: set
	// lazily by typesystem.SemanticTypeOf on value nodes, cleared by any
	// pass that changes a value's operands or operator. Nil means empty.
	SemanticType Handle

	// ResolvedDecl is the cached resolved declaration for symbol nodes
	// (Identifier, FieldReference, FunctionCall, TypeReference,
	// ViewReference); it is invalidated the same way SemanticType is.
	ResolvedDecl Handle

	Type   *TypeAttrs
	Value  *ValueAttrs
	Action *ActionAttrs
	Decl   *DeclAttrs
	Alt    *AltAttrs
}

// Single returns the handle in single-child slot name, or the nil handle if
// unset.
func (n *Node) Single(name string) Handle {
	if n.Children == nil {
		return arena.Nil
	}
	return n.Children[name]
}

// List returns the ordered children of list slot name (nil slice if empty).
func (n *Node) List(name string) []Handle {
	if n.ChildLists == nil {
		return nil
	}
	return n.ChildLists[name]
}

// Property looks up a property value node by name.
func (n *Node) Property(name string) (Handle, bool) {
	if n.Properties == nil {
		return arena.Nil, false
	}
	h, ok := n.Properties[name]
	return h, ok
}

// HasKeyword reports whether kw is present in AdditionalKeywords
// (declarations only, SPEC_FULL.md §3.1).
func (n *Node) HasKeyword(kw string) bool {
	for _, k := range n.AdditionalKeywords {
		if k == kw {
			return true
		}
	}
	return false
}
