package serialize

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/esd-univr/hif-core-sub007/hifast"
)

// xmlNode is the encoding/xml-facing mirror of a hifast.Node: a <NODE>
// element carrying a "kind" attribute (the UPPER_SNAKE kind name) plus its
// scalar attributes, and, in schema order, nested <slot> elements wrapping
// its children — the same node-then-attributes-then-children shape
// PrintXmlVisitor builds via Poco's DOM API (there each Kind gets its own
// tag name; encoding/xml's struct-tag marshaling can't vary an element
// name per value, so the kind travels as an attribute instead).
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Slots   []xmlSlot  `xml:"slot"`
}

type xmlSlot struct {
	Name     string    `xml:"name,attr"`
	Children []xmlNode `xml:"NODE"`
}

// PrintXML renders h and its subtree as XML HIF (SPEC_FULL.md §6.2).
func PrintXML(tree *hifast.Tree, h hifast.Handle) ([]byte, error) {
	root := toXMLNode(tree, h)
	out, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize: marshal xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func toXMLNode(tree *hifast.Tree, h hifast.Handle) xmlNode {
	n := tree.Get(h)
	node := xmlNode{XMLName: xml.Name{Local: "NODE"}}
	node.Attrs = append(node.Attrs, xml.Attr{Name: xml.Name{Local: "kind"}, Value: n.Kind.UpperSnake()})
	for _, attr := range attrPairs(n) {
		name, value := splitAttr(attr)
		node.Attrs = append(node.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	}

	for _, slot := range hifast.SlotOrder(n.Kind) {
		if child, ok := n.Children[slot]; ok && !child.IsNil() {
			node.Slots = append(node.Slots, xmlSlot{Name: slot, Children: []xmlNode{toXMLNode(tree, child)}})
			continue
		}
		if list := n.ChildLists[slot]; len(list) > 0 {
			s := xmlSlot{Name: slot}
			for _, c := range list {
				s.Children = append(s.Children, toXMLNode(tree, c))
			}
			node.Slots = append(node.Slots, s)
		}
	}
	return node
}

// splitAttr undoes kv()'s "name=value" formatting, stripping surrounding
// quotes from quoted string values.
func splitAttr(pair string) (string, string) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '=' {
			name, value := pair[:i], pair[i+1:]
			if unquoted, err := strconv.Unquote(value); err == nil {
				return name, unquoted
			}
			return name, value
		}
	}
	return pair, ""
}

// ParseXML reads XML HIF produced by PrintXML back into tree, returning the
// handle of the reconstructed root. Only the scalar attributes PrintXML
// itself writes are restored. An element with an unknown kind is rejected;
// attributes ParseXML does not recognize are ignored, not reported.
func ParseXML(tree *hifast.Tree, data []byte) (hifast.Handle, error) {
	var root xmlNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return hifast.Nil, fmt.Errorf("serialize: unmarshal xml: %w", err)
	}
	return fromXMLNode(tree, root)
}

func fromXMLNode(tree *hifast.Tree, x xmlNode) (hifast.Handle, error) {
	kindStr := attrValue(x.Attrs, "kind")
	kind, ok := hifast.ParseKind(kindStr)
	if !ok {
		return hifast.Nil, fmt.Errorf("serialize: unknown kind %q", kindStr)
	}
	h := tree.NewNode(kind)
	n := tree.Get(h)
	applyAttrs(n, x.Attrs)
	tree.Put(h, n)

	for _, slot := range x.Slots {
		if len(slot.Children) == 0 {
			continue
		}
		if isListSlot(kind, slot.Name) {
			var children []hifast.Handle
			for _, c := range slot.Children {
				ch, err := fromXMLNode(tree, c)
				if err != nil {
					return hifast.Nil, err
				}
				children = append(children, ch)
			}
			if err := tree.SetList(h, slot.Name, children); err != nil {
				return hifast.Nil, err
			}
			continue
		}
		child, err := fromXMLNode(tree, slot.Children[0])
		if err != nil {
			return hifast.Nil, err
		}
		if err := tree.SetSingle(h, slot.Name, child); err != nil {
			return hifast.Nil, err
		}
	}
	return h, nil
}

// ReadOptions controls how ParseXMLWithOptions reconstructs a tree
// (SPEC_FULL.md §6.4: "load-or-skip standard library, active semantics").
type ReadOptions struct {
	// LoadStandardLibrary, when false, drops top-level declarations the
	// given IsStandardLibrary func matches (declaration resolution runs
	// after the whole tree loads, so this filter applies post-parse).
	LoadStandardLibrary bool
	IsStandardLibrary   func(name string) bool
}

// ParseXMLWithOptions parses data like ParseXML, then — when opt requests
// it — removes standard-library declarations from the root's declaration
// lists, leaving user code only.
func ParseXMLWithOptions(tree *hifast.Tree, data []byte, opt ReadOptions) (hifast.Handle, error) {
	root, err := ParseXML(tree, data)
	if err != nil {
		return hifast.Nil, err
	}
	if opt.LoadStandardLibrary || opt.IsStandardLibrary == nil {
		return root, nil
	}
	for _, slot := range []string{"designUnits", "libraryDefs", "declarations"} {
		for _, child := range tree.Get(root).List(slot) {
			n := tree.Get(child)
			if n.Kind.IsDecl() && opt.IsStandardLibrary(n.Decl.Name) {
				tree.Detach(child)
			}
		}
	}
	return root, nil
}

func isListSlot(kind hifast.Kind, slot string) bool {
	spec, ok := hifast.SlotsOf(kind)[slot]
	return ok && spec.ListSlot
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func applyAttrs(n *hifast.Node, attrs []xml.Attr) {
	for _, a := range attrs {
		switch a.Name.Local {
		case "name":
			switch n.Kind.Family() {
			case hifast.FamilyValue:
				n.Value.Name = a.Value
			case hifast.FamilyDecl:
				n.Decl.Name = a.Value
			case hifast.FamilyType:
				n.Type.Name = a.Value
			}
		case "int":
			if v, err := strconv.ParseInt(a.Value, 10, 64); err == nil {
				n.Value.IntLit = v
			}
		case "bool":
			if v, err := strconv.ParseBool(a.Value); err == nil {
				n.Value.BoolLit = v
			}
		case "real":
			if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
				n.Value.RealLit = v
			}
		case "string":
			n.Value.StringLit = a.Value
		case "bit":
			if len(a.Value) == 1 {
				n.Value.BitLit = hifast.BitConstant(a.Value[0])
			}
		case "bits":
			bits := make([]hifast.BitConstant, len(a.Value))
			for i := range a.Value {
				bits[i] = hifast.BitConstant(a.Value[i])
			}
			n.Value.BitvectorLit = bits
		case "nonblocking":
			if v, err := strconv.ParseBool(a.Value); err == nil {
				n.Action.NonBlocking = v
			}
		}
	}
}
