// Package serialize implements the textual HIF and XML HIF forms described
// in SPEC_FULL.md §6, grounded on PrintHifVisitor.cpp and
// PrintXmlVisitor.cpp: every node prints as a tagged element (its
// UPPER_SNAKE kind name) carrying its scalar attributes and, in schema
// order, its child slots — so two trees with the same structure always
// produce byte-identical output (SPEC_FULL.md §6.1: "attribute order is
// stable").
//
// The XML reader/writer use the standard library's encoding/xml: no XML
// library appears anywhere in the example corpus (this module's own
// go.mod is the only place XML support would come from), so this is the
// one place in the module that intentionally has no third-party grounding
// — see DESIGN.md.
package serialize

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/esd-univr/hif-core-sub007/hifast"
)

// PrintOptions mirrors the subset of the original's PrintHifOptions this
// module exposes.
type PrintOptions struct {
	// PrintComments appends each node's Comments to its line, after the
	// attributes, as " ;; comment" entries.
	PrintComments bool
	// ExcludeStandardLibraries skips declarations the caller's
	// semantics.StandardLibraryFilter matches (SPEC_FULL.md §6.3).
	ExcludeStandardLibraries bool
	// IsStandardLibrary reports whether a declaration's Name is part of a
	// standard library, consulted only when ExcludeStandardLibraries.
	IsStandardLibrary func(name string) bool
}

// PrintHIF renders h and its subtree as the canonical textual HIF form: a
// parenthesized, indented s-expression of "(KIND_UPPER attr=value ...
// children...)", matching PrintHifVisitor's node-then-attributes-then-
// children traversal order.
func PrintHIF(tree *hifast.Tree, h hifast.Handle, opt PrintOptions) string {
	var buf bytes.Buffer
	printNode(&buf, tree, h, 0, opt)
	return buf.String()
}

func printNode(buf *bytes.Buffer, tree *hifast.Tree, h hifast.Handle, depth int, opt PrintOptions) {
	if h.IsNil() {
		return
	}
	n := tree.Get(h)
	if opt.ExcludeStandardLibraries && n.Kind.IsDecl() && opt.IsStandardLibrary != nil && opt.IsStandardLibrary(n.Decl.Name) {
		return
	}

	indent(buf, depth)
	buf.WriteByte('(')
	buf.WriteString(n.Kind.UpperSnake())
	for _, attr := range attrPairs(n) {
		buf.WriteByte(' ')
		buf.WriteString(attr)
	}
	if opt.PrintComments {
		for _, c := range n.Comments {
			buf.WriteString(" ;; ")
			buf.WriteString(c)
		}
	}

	hasChildren := false
	for _, slot := range hifast.SlotOrder(n.Kind) {
		if child, ok := n.Children[slot]; ok && !child.IsNil() {
			hasChildren = true
			buf.WriteByte('\n')
			indent(buf, depth+1)
			fmt.Fprintf(buf, "%s:", slot)
			buf.WriteByte('\n')
			printNode(buf, tree, child, depth+2, opt)
			continue
		}
		if list := n.ChildLists[slot]; len(list) > 0 {
			hasChildren = true
			buf.WriteByte('\n')
			indent(buf, depth+1)
			fmt.Fprintf(buf, "%s[%d]:", slot, len(list))
			for _, c := range list {
				buf.WriteByte('\n')
				printNode(buf, tree, c, depth+2, opt)
			}
		}
	}
	if hasChildren {
		buf.WriteByte('\n')
		indent(buf, depth)
	}
	buf.WriteByte(')')
	buf.WriteByte('\n')
}

func indent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

// attrPairs renders a node's scalar family-payload attributes as
// "name=value" pairs in a fixed, alphabetical order per family so the
// output is stable regardless of Go struct field order.
func attrPairs(n *hifast.Node) []string {
	var out []string
	switch n.Kind.Family() {
	case hifast.FamilyType:
		t := n.Type
		out = append(out, kv("variant", int(t.Variant)), kv("signed", t.Signed), kv("logic", t.Logic))
		if t.Name != "" {
			out = append(out, kv("name", t.Name))
		}
	case hifast.FamilyValue:
		v := n.Value
		if v.Name != "" {
			out = append(out, kv("name", v.Name))
		}
		if n.Kind.IsConstant() {
			out = append(out, constantAttr(n.Kind, v))
		}
		if n.Kind == hifast.KindExpression || n.Kind == hifast.KindCast {
			out = append(out, kv("op", v.Operator.String()))
		}
	case hifast.FamilyAction:
		a := n.Action
		out = append(out, kv("nonblocking", a.NonBlocking))
	case hifast.FamilyDecl:
		d := n.Decl
		out = append(out, kv("name", d.Name))
	case hifast.FamilyAlt:
		al := n.Alt
		if al.FormalName != "" {
			out = append(out, kv("formal", al.FormalName))
		}
	}
	sort.Strings(out)
	return out
}

func constantAttr(kind hifast.Kind, v *hifast.ValueAttrs) string {
	switch kind {
	case hifast.KindBitValue:
		return kv("bit", string(v.BitLit))
	case hifast.KindBitvectorValue:
		bits := make([]byte, len(v.BitvectorLit))
		for i, b := range v.BitvectorLit {
			bits[i] = byte(b)
		}
		return kv("bits", string(bits))
	case hifast.KindBoolValue:
		return kv("bool", v.BoolLit)
	case hifast.KindCharValue:
		return kv("char", string(rune(v.CharLit)))
	case hifast.KindIntValue:
		return kv("int", v.IntLit)
	case hifast.KindRealValue:
		return kv("real", v.RealLit)
	case hifast.KindStringValue:
		return kv("string", v.StringLit)
	case hifast.KindTimeValue:
		return kv("time", v.TimeLit)
	default:
		return ""
	}
}

func kv(name string, v any) string {
	switch x := v.(type) {
	case string:
		return name + "=" + strconv.Quote(x)
	case bool:
		return name + "=" + strconv.FormatBool(x)
	case int:
		return name + "=" + strconv.Itoa(x)
	case int64:
		return name + "=" + strconv.FormatInt(x, 10)
	case float64:
		return name + "=" + strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%s=%v", name, x)
	}
}

// CanonicalBytes renders h the same way PrintHIF does but with comments and
// standard-library filtering disabled, for use as a structural fingerprint
// input (instancecache.ComputeFingerprint).
func CanonicalBytes(tree *hifast.Tree, h hifast.Handle) []byte {
	var buf bytes.Buffer
	printNode(&buf, tree, h, 0, PrintOptions{})
	return buf.Bytes()
}

// CanonicalBytesList renders each handle in hs in order and concatenates
// the results, used to fingerprint a whole template-argument list at once.
func CanonicalBytesList(tree *hifast.Tree, hs []hifast.Handle) []byte {
	var buf bytes.Buffer
	for _, h := range hs {
		buf.Write(CanonicalBytes(tree, h))
	}
	return buf.Bytes()
}
