package manipulation

import (
	"github.com/esd-univr/hif-core-sub007/arena"
	"github.com/esd-univr/hif-core-sub007/copyengine"
	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/typesystem"
	"github.com/esd-univr/hif-core-sub007/visitor"
)

// SplitAssignTargetOptions mirrors the original's SplitAssignTargetOptions.
type SplitAssignTargetOptions struct {
	// SplitConcats breaks an Assign whose lhs is a concatenation
	// ("{a, b} <= rhs") into one Assign per concat operand, each fed the
	// matching bit-slice of rhs. Default true.
	SplitConcats bool
	// SplitRecords breaks an Assign whose lhs is a Record-typed value into
	// one Assign per field (SPEC_FULL.md §4.8.5, "a record-value LHS is
	// split field-by-field similarly"). Default true.
	SplitRecords bool
	// MaxBitwidth, when non-zero, chunks an integer/vector target wider
	// than this many bits into one Assign per MaxBitwidth-sized slice.
	// Zero disables chunking.
	MaxBitwidth int64
	// SplitArrays unrolls an array-typed target index-wise, casting each
	// element assign when the source element type differs. Default true.
	SplitArrays bool
	// MaxArrayUnroll caps how many elements SplitArrays will unroll; an
	// array wider than this is left untouched rather than producing an
	// unbounded number of assigns. Zero means "no cap, but SpanOf must
	// resolve a known width" — a span of unknown bounds is always skipped.
	MaxArrayUnroll int64
}

// DefaultSplitAssignTargetOptions matches the original's defaults.
func DefaultSplitAssignTargetOptions() SplitAssignTargetOptions {
	return SplitAssignTargetOptions{
		SplitConcats:   true,
		SplitRecords:   true,
		MaxBitwidth:    0,
		SplitArrays:    true,
		MaxArrayUnroll: 256,
	}
}

// SplitAssignTargets rewrites assignments whose target the active semantics
// cannot assign to directly in one step, grounded on the original's
// splitAssignTargets.cpp passes: SplitConcats::_splitConcat for a
// concatenation lhs, _splitRecord for a record-value lhs, _splitBitwidth for
// an over-wide integer/vector lhs, and _splitArray for an array lhs
// (SPEC_FULL.md §4.8.5).
func SplitAssignTargets(tree *hifast.Tree, root hifast.Handle, eng *typesystem.Engine, opt SplitAssignTargetOptions) *Result {
	r := newResult()
	if !opt.SplitConcats && !opt.SplitRecords && !opt.SplitArrays && opt.MaxBitwidth <= 0 {
		return r
	}
	g := &concatSplitter{tree: tree, eng: eng, factory: hifast.NewFactory(tree), opt: opt, result: r}
	visitor.Walk(tree, root, g)
	return r
}

type concatSplitter struct {
	visitor.BaseGuide
	tree    *hifast.Tree
	eng     *typesystem.Engine
	factory *hifast.Factory
	opt     SplitAssignTargetOptions
	result  *Result
}

func (g *concatSplitter) BeforeVisit(t *hifast.Tree, h hifast.Handle) hifast.Handle {
	g.result.Stats.NodesVisited++
	n := t.Get(h)
	if n.Kind != hifast.KindAssign {
		return hifast.Nil
	}
	lhs := n.Children["lhs"]
	ln := t.Get(lhs)

	if g.opt.SplitConcats && ln.Kind == hifast.KindExpression && ln.Value.Operator == hifast.OpConcat {
		g.splitConcat(h, n, lhs)
		return hifast.Nil
	}

	lhsType, err := g.eng.SemanticTypeOf(lhs)
	if err != nil {
		return hifast.Nil
	}
	base := g.eng.BaseTypeOf(lhsType)
	bt := t.Get(base)

	switch bt.Kind {
	case hifast.KindRecord:
		if g.opt.SplitRecords {
			g.splitRecord(h, n, lhs, bt)
		}
	case hifast.KindArray:
		if g.opt.SplitArrays {
			g.splitArray(h, n, lhs, bt)
		}
	default:
		if g.opt.MaxBitwidth > 0 {
			if width := g.eng.SpanOf(base).Width(); width > g.opt.MaxBitwidth {
				g.splitBitwidth(h, n, lhs, width)
			}
		}
	}
	return hifast.Nil
}

// splitConcat implements SplitConcats::_splitConcat: each target t_i of the
// lhs concat "{t0, t1, ...} <= rhs" gets its own "t_i <= rhs[hi:lo]", the
// slices laid out most-significant-target-first to match concatenation
// order.
func (g *concatSplitter) splitConcat(h hifast.Handle, n *hifast.Node, lhs hifast.Handle) {
	targets := flattenConcat(g.tree, lhs)
	if len(targets) < 2 {
		return
	}

	rhs := n.Children["rhs"]
	parent, parentSlot, ok := g.detach(h)
	if !ok {
		return
	}

	copier := copyengine.New(g.tree, g.tree, copyengine.DefaultPolicy())
	offset := int64(0)
	replacements := make([]hifast.Handle, 0, len(targets))
	for i := len(targets) - 1; i >= 0; i-- {
		target := targets[i]
		typ, err := g.eng.SemanticTypeOf(target)
		if err != nil {
			g.result.addDiag("warning", "cannot size concat target: "+err.Error(), g.tree.String(target))
			return
		}
		width := g.eng.SpanOf(typ).Width()
		if width < 1 {
			width = 1
		}

		slice := g.factory.Slice(copier.Copy(rhs), offset+width-1, offset, hifast.DirDownto)
		assign := g.factory.Assign(target, slice, n.Action.NonBlocking)
		replacements = append([]hifast.Handle{assign}, replacements...)
		offset += width
	}

	insertReplacements(g.tree, parent, parentSlot, replacements)
	g.result.fixed()
}

// splitRecord implements SPEC_FULL.md §4.8.5's "a record-value LHS is split
// field-by-field similarly": one Assign per field of recordType, lhs side a
// FieldReference into a copy of lhs, rhs side either the matching alt of an
// rhs RecordValue literal or a FieldReference into a copy of rhs.
func (g *concatSplitter) splitRecord(h hifast.Handle, n *hifast.Node, lhs hifast.Handle, recordType *hifast.Node) {
	fields := recordType.ChildLists["fields"]
	if len(fields) == 0 {
		return
	}
	rhs := n.Children["rhs"]
	rn := g.tree.Get(rhs)
	var rhsAlts []hifast.Handle
	if rn.Kind == hifast.KindRecordValue {
		rhsAlts = rn.ChildLists["alts"]
	}

	parent, parentSlot, ok := g.detach(h)
	if !ok {
		return
	}

	lhsCopier := copyengine.New(g.tree, g.tree, copyengine.DefaultPolicy())
	rhsCopier := copyengine.New(g.tree, g.tree, copyengine.DefaultPolicy())
	replacements := make([]hifast.Handle, 0, len(fields))
	for _, field := range fields {
		fn := g.tree.Get(field)
		name := fn.Decl.Name

		lhsField := g.fieldReference(lhsCopier.Copy(lhs), field, name)

		var rhsField hifast.Handle
		if alt := findAlt(g.tree, rhsAlts, name); !alt.IsNil() {
			rhsField = rhsCopier.Copy(g.tree.Get(alt).Children["value"])
		} else {
			rhsField = g.fieldReference(rhsCopier.Copy(rhs), field, name)
		}

		assign := g.factory.Assign(lhsField, rhsField, n.Action.NonBlocking)
		replacements = append(replacements, assign)
	}

	insertReplacements(g.tree, parent, parentSlot, replacements)
	g.result.fixed()
}

// splitBitwidth implements the "integer/vector target wider than
// max-bitwidth" case: slice both sides into chunks of opt.MaxBitwidth,
// least-significant chunk last, and emit one Assign per chunk.
func (g *concatSplitter) splitBitwidth(h hifast.Handle, n *hifast.Node, lhs hifast.Handle, width int64) {
	rhs := n.Children["rhs"]
	parent, parentSlot, ok := g.detach(h)
	if !ok {
		return
	}

	lhsCopier := copyengine.New(g.tree, g.tree, copyengine.DefaultPolicy())
	rhsCopier := copyengine.New(g.tree, g.tree, copyengine.DefaultPolicy())
	max := g.opt.MaxBitwidth
	replacements := make([]hifast.Handle, 0, (width+max-1)/max)
	for lo := int64(0); lo < width; lo += max {
		hi := lo + max - 1
		if hi >= width {
			hi = width - 1
		}
		lhsSlice := g.factory.Slice(lhsCopier.Copy(lhs), hi, lo, hifast.DirDownto)
		rhsSlice := g.factory.Slice(rhsCopier.Copy(rhs), hi, lo, hifast.DirDownto)
		assign := g.factory.Assign(lhsSlice, rhsSlice, n.Action.NonBlocking)
		replacements = append(replacements, assign)
	}
	if len(replacements) == 0 {
		return
	}
	// Chunks are laid out least-significant-first above; reverse so the
	// emitted action order matches the original's most-significant-first
	// convention (mirrors splitConcat's ordering).
	for i, j := 0, len(replacements)-1; i < j; i, j = i+1, j-1 {
		replacements[i], replacements[j] = replacements[j], replacements[i]
	}

	insertReplacements(g.tree, parent, parentSlot, replacements)
	g.result.fixed()
}

// splitArray implements "array target: unroll index-wise up to a
// configurable upper bound; cast each element if source element type
// differs."
func (g *concatSplitter) splitArray(h hifast.Handle, n *hifast.Node, lhs hifast.Handle, arrayType *hifast.Node) {
	span := arrayType.Type.Span
	if !span.BoundsKnown {
		return
	}
	count := span.Width()
	if count < 1 {
		return
	}
	if g.opt.MaxArrayUnroll > 0 && count > g.opt.MaxArrayUnroll {
		g.result.addDiag("info", "array target exceeds the configured unroll bound, left as a whole-array assign", g.tree.String(h))
		return
	}
	low := span.RBoundFolded
	if span.Direction != hifast.DirDownto {
		low = span.LBoundFolded
	}

	rhs := n.Children["rhs"]
	elemType := arrayType.Type.Element

	rhsElemType := elemType
	if rhsType, err := g.eng.SemanticTypeOf(rhs); err == nil {
		rhsBase := g.eng.BaseTypeOf(rhsType)
		rbt := g.tree.Get(rhsBase)
		if rbt.Kind == hifast.KindArray && !rbt.Type.Element.IsNil() {
			rhsElemType = rbt.Type.Element
		}
	}
	needsCast := !elemType.IsNil() && !rhsElemType.IsNil() && g.tree.Get(elemType).Kind != g.tree.Get(rhsElemType).Kind

	parent, parentSlot, ok := g.detach(h)
	if !ok {
		return
	}

	lhsCopier := copyengine.New(g.tree, g.tree, copyengine.DefaultPolicy())
	rhsCopier := copyengine.New(g.tree, g.tree, copyengine.DefaultPolicy())
	replacements := make([]hifast.Handle, 0, count)
	for i := int64(0); i < count; i++ {
		idx := low + i
		lhsElem := g.member(lhsCopier.Copy(lhs), idx)
		rhsElem := g.member(rhsCopier.Copy(rhs), idx)
		if needsCast {
			rhsElem = g.cast(elemType, rhsElem)
		}
		assign := g.factory.Assign(lhsElem, rhsElem, n.Action.NonBlocking)
		replacements = append(replacements, assign)
	}

	insertReplacements(g.tree, parent, parentSlot, replacements)
	g.result.fixed()
}

// fieldReference builds a FieldReference(prefix, name) resolved directly to
// field (bypassing scope resolution, same convention as the elevation
// passes in fixtemplateparameters.go).
func (g *concatSplitter) fieldReference(prefix hifast.Handle, field hifast.Handle, name string) hifast.Handle {
	h := g.tree.NewNode(hifast.KindFieldReference)
	n := g.tree.Get(h)
	n.Value.Name = name
	n.ResolvedDecl = field
	g.tree.Put(h, n)
	_ = g.tree.SetSingle(h, "prefix", prefix)
	return h
}

// member builds a Member(prefix, index) node selecting element i.
func (g *concatSplitter) member(prefix hifast.Handle, index int64) hifast.Handle {
	h := g.tree.NewNode(hifast.KindMember)
	_ = g.tree.SetSingle(h, "prefix", prefix)
	_ = g.tree.SetSingle(h, "index", g.factory.IntValue(index))
	return h
}

// cast wraps value in a Cast to typ.
func (g *concatSplitter) cast(typ, value hifast.Handle) hifast.Handle {
	h := g.tree.NewNode(hifast.KindCast)
	_ = g.tree.SetSingle(h, "type", typ)
	_ = g.tree.SetSingle(h, "value", value)
	return h
}

// detach reports h's parent and slot reference before h is spliced out of
// it, so callers can insertReplacements in its place.
func (g *concatSplitter) detach(h hifast.Handle) (parent hifast.Handle, slot arena.SlotRef, ok bool) {
	parent = g.tree.Nodes.ParentOf(h)
	if parent.IsNil() {
		return hifast.Nil, arena.SlotRef{}, false
	}
	return parent, g.tree.Nodes.SlotOf(h), true
}

// flattenConcat returns the leaf (non-Concat) operands of a right-leaning
// OpConcat expression tree, most-significant first.
func flattenConcat(t *hifast.Tree, h hifast.Handle) []hifast.Handle {
	n := t.Get(h)
	if n.Kind != hifast.KindExpression || n.Value.Operator != hifast.OpConcat {
		return []hifast.Handle{h}
	}
	op1 := n.Children["op1"]
	op2 := n.Children["op2"]
	out := flattenConcat(t, op1)
	if !op2.IsNil() {
		out = append(out, flattenConcat(t, op2)...)
	}
	return out
}

// insertReplacements splices replacements into parent's slot (identified by
// ref, as reported by arena.Tree.SlotOf before h was detached) in place of
// the single Assign that used to occupy it.
func insertReplacements(t *hifast.Tree, parent hifast.Handle, ref arena.SlotRef, replacements []hifast.Handle) {
	if ref.Kind == arena.SlotSingle {
		if len(replacements) > 0 {
			_ = t.SetSingle(parent, ref.Slot, replacements[0])
		}
		return
	}

	p := t.Get(parent)
	old := p.ChildLists[ref.Slot]
	out := make([]hifast.Handle, 0, len(old)-1+len(replacements))
	for i, c := range old {
		if i == ref.Index {
			out = append(out, replacements...)
			continue
		}
		out = append(out, c)
	}
	_ = t.SetList(parent, ref.Slot, out)
}
