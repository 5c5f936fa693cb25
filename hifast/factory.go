package hifast

// Factory builds nodes for a single Tree. It mirrors the convenience
// constructors the original hif::HifFactory exposes (SPEC_FULL.md §3,
// "factory helpers... so callers rarely call NewNode + SetSingle by hand"),
// trading the C++ factory's semantics-type defaulting for explicit
// parameters here: this Factory never calls into the semantics package, it
// only assembles shapes.
type Factory struct {
	Tree *Tree
}

// NewFactory returns a Factory writing into t.
func NewFactory(t *Tree) *Factory { return &Factory{Tree: t} }

// Bitvector builds a BITVECTOR type over [left:right] with the given
// direction and signedness flag carried via kind selection (Signed/Unsigned
// reuse the same "range" slot). When left and right are both IntValue
// literals the bounds are folded onto Type.Span immediately (Span's
// LBoundFolded/RBoundFolded are a cache of exactly this common case).
func (f *Factory) Bitvector(left, right Handle, dir Direction) Handle {
	h := f.Tree.NewNode(KindBitvector)
	n := f.Tree.Get(h)
	n.Type.Span = foldSpan(f.Tree, left, right, dir)
	f.Tree.Put(h, n)
	_ = f.Tree.SetSingle(h, "range", f.range2(left, right))
	return h
}

func foldSpan(t *Tree, left, right Handle, dir Direction) Span {
	span := Span{Direction: dir}
	ln, rn := t.Get(left), t.Get(right)
	if ln.Kind == KindIntValue && rn.Kind == KindIntValue {
		span.LBoundFolded = ln.Value.IntLit
		span.RBoundFolded = rn.Value.IntLit
		span.BoundsKnown = true
	}
	return span
}

// range2 builds the implicit two-endpoint range value HIF represents a
// Span's bounds with (an Expression of RangeOp over left/right), grounded on
// the original's Range-as-expression representation.
func (f *Factory) range2(left, right Handle) Handle {
	h := f.Tree.NewNode(KindExpression)
	n := f.Tree.Get(h)
	n.Value.Operator = OpRange
	f.Tree.Put(h, n)
	_ = f.Tree.SetSingle(h, "op1", left)
	_ = f.Tree.SetSingle(h, "op2", right)
	return h
}

// IntValue builds an INT_VALUE constant node.
func (f *Factory) IntValue(v int64) Handle {
	h := f.Tree.NewNode(KindIntValue)
	n := f.Tree.Get(h)
	n.Value.IntLit = v
	f.Tree.Put(h, n)
	return h
}

// BitvectorValue builds a BITVECTOR_VALUE constant from bit characters (one
// BitConstant per character, most-significant first).
func (f *Factory) BitvectorValue(bits []BitConstant) Handle {
	h := f.Tree.NewNode(KindBitvectorValue)
	n := f.Tree.Get(h)
	n.Value.BitvectorLit = append([]BitConstant(nil), bits...)
	f.Tree.Put(h, n)
	return h
}

// Identifier builds an IDENTIFIER value referencing name; resolution to a
// declaration is deferred to the resolver package, not this factory.
func (f *Factory) Identifier(name string) Handle {
	h := f.Tree.NewNode(KindIdentifier)
	n := f.Tree.Get(h)
	n.Value.Name = name
	f.Tree.Put(h, n)
	return h
}

// Expression builds a binary- or unary-operator Value node. op2 may be Nil
// for a unary operator.
func (f *Factory) Expression(op Operator, op1, op2 Handle) Handle {
	h := f.Tree.NewNode(KindExpression)
	n := f.Tree.Get(h)
	n.Value.Operator = op
	f.Tree.Put(h, n)
	_ = f.Tree.SetSingle(h, "op1", op1)
	if !op2.IsNil() {
		_ = f.Tree.SetSingle(h, "op2", op2)
	}
	return h
}

// Assign builds an ASSIGN action; nonBlocking selects Verilog "<=" semantics
// (SPEC_FULL.md §4.8.5).
func (f *Factory) Assign(lhs, rhs Handle, nonBlocking bool) Handle {
	h := f.Tree.NewNode(KindAssign)
	n := f.Tree.Get(h)
	n.Action.NonBlocking = nonBlocking
	f.Tree.Put(h, n)
	_ = f.Tree.SetSingle(h, "lhs", lhs)
	_ = f.Tree.SetSingle(h, "rhs", rhs)
	return h
}

// Signal builds a SIGNAL declaration of the given name and type, with an
// optional initial value (Nil for none).
func (f *Factory) Signal(name string, typ, value Handle) Handle {
	h := f.Tree.NewNode(KindSignal)
	n := f.Tree.Get(h)
	n.Decl.Name = name
	f.Tree.Put(h, n)
	_ = f.Tree.SetSingle(h, "type", typ)
	if !value.IsNil() {
		_ = f.Tree.SetSingle(h, "value", value)
	}
	return h
}

// Port builds a PORT declaration of the given direction.
func (f *Factory) Port(name string, typ Handle, dir PortDirection) Handle {
	h := f.Tree.NewNode(KindPort)
	n := f.Tree.Get(h)
	n.Decl.Name = name
	n.Decl.PortDirection = dir
	f.Tree.Put(h, n)
	_ = f.Tree.SetSingle(h, "type", typ)
	return h
}

// Entity builds an ENTITY declaration with the given ports and parameters
// already owned (caller attaches them via SetList beforehand if preferred;
// this helper is for the common "all at once" case).
func (f *Factory) Entity(name string, ports, parameters []Handle) Handle {
	h := f.Tree.NewNode(KindEntity)
	n := f.Tree.Get(h)
	n.Decl.Name = name
	f.Tree.Put(h, n)
	_ = f.Tree.SetList(h, "ports", ports)
	_ = f.Tree.SetList(h, "parameters", parameters)
	return h
}

// View builds a VIEW declaration wrapping entity and contents.
func (f *Factory) View(name string, entity, contents Handle) Handle {
	h := f.Tree.NewNode(KindView)
	n := f.Tree.Get(h)
	n.Decl.Name = name
	f.Tree.Put(h, n)
	_ = f.Tree.SetSingle(h, "entity", entity)
	_ = f.Tree.SetSingle(h, "contents", contents)
	return h
}

// DesignUnit builds a DESIGN_UNIT declaration owning views.
func (f *Factory) DesignUnit(name string, views ...Handle) Handle {
	h := f.Tree.NewNode(KindDesignUnit)
	n := f.Tree.Get(h)
	n.Decl.Name = name
	f.Tree.Put(h, n)
	_ = f.Tree.SetList(h, "views", views)
	return h
}

// Contents builds a CONTENTS declaration with empty lists, ready for callers
// to populate via AppendList/SetList.
func (f *Factory) Contents() Handle {
	return f.Tree.NewNode(KindContents)
}

// ValueStatement wraps value (typically a FunctionCall with side effects) as
// a standalone action.
func (f *Factory) ValueStatement(value Handle) Handle {
	h := f.Tree.NewNode(KindValueStatement)
	_ = f.Tree.SetSingle(h, "value", value)
	return h
}

// Slice builds a SLICE over prefix selecting [left:right] in dir, grounded on
// hif::manipulation helpers that carve a sub-range out of a signal/value
// (e.g. splitAssignTargets.cpp's _makeRange/_fixSlice).
func (f *Factory) Slice(prefix Handle, left, right int64, dir Direction) Handle {
	h := f.Tree.NewNode(KindSlice)
	n := f.Tree.Get(h)
	n.Value.Span = Span{Direction: dir, LBoundFolded: left, RBoundFolded: right, BoundsKnown: true}
	f.Tree.Put(h, n)
	_ = f.Tree.SetSingle(h, "prefix", prefix)
	_ = f.Tree.SetSingle(h, "range", f.range2(f.IntValue(left), f.IntValue(right)))
	return h
}
