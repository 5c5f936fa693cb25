// Package semantics defines the pluggable per-language behavior the type
// system and manipulation passes delegate to (SPEC_FULL.md §4.4,
// "LanguageSemantics... a small capability interface rather than one method
// per language per operation"). It mirrors the provider.LanguageProvider /
// BaseProvider split the rest of this module's ambient stack grew up
// around: one interface every semantics must satisfy, one embeddable struct
// (Base) supplying defaults so a concrete semantics only overrides what it
// actually changes.
package semantics

import (
	"github.com/esd-univr/hif-core-sub007/hifast"
)

// LanguageSemantics captures the behavior that varies by target language:
// which operators two operand types yield, what a type's default (reset)
// value looks like, how a native HIF type maps onto the language's own type
// system, and whether a given construct is even legal.
type LanguageSemantics interface {
	// Name is the canonical semantics identifier ("hif", "verilog").
	Name() string

	// OperatorResult returns the Type handle an application of op to operand
	// types (lt, rt — rt is Nil for a unary op) yields, grounded on
	// SemanticAnalysis::getSuggestedTypeForOp in the original.
	OperatorResult(tree *hifast.Tree, op hifast.Operator, lt, rt hifast.Handle) (hifast.Handle, error)

	// DefaultValue returns the Value node representing typ's reset/default
	// value (e.g. all-Z for an unconnected Verilog bit/bitvector; Base
	// returns a zero-valued Bool/Int/Real literal, and a zero-valued
	// BitValue for every other type).
	DefaultValue(tree *hifast.Tree, typ hifast.Handle) hifast.Handle

	// MapType rewrites a native HIF type into this semantics' own flavor
	// (setting TypeAttrs.Variant and adjusting Logic/Resolved flags),
	// mirroring fixUnsupportedBits' per-target rewriting.
	MapType(tree *hifast.Tree, typ hifast.Handle) hifast.Handle

	// SupportsConstruct reports whether kind is legal under this semantics
	// at all (e.g. Verilog has no native Record type).
	SupportsConstruct(kind hifast.Kind) bool

	// WaitWithActions reports whether a Wait action may carry a non-empty
	// actions list under this semantics (SPEC_FULL.md §4.4.1).
	WaitWithActions() bool

	// AcceptsFourValued reports whether this semantics' bit type accepts
	// the full nine-valued logic set (false forces fixUnsupportedBits to
	// collapse to two-valued bits).
	AcceptsFourValued() bool
}

// Base supplies sensible, permissive defaults for every LanguageSemantics
// method; concrete semantics embed it and override only what differs.
type Base struct{ name string }

func (b Base) Name() string { return b.name }

func (b Base) OperatorResult(tree *hifast.Tree, op hifast.Operator, lt, rt hifast.Handle) (hifast.Handle, error) {
	if op.IsRelational() {
		if isLogicOperand(tree, lt) || isLogicOperand(tree, rt) {
			return logicBitType(tree), nil
		}
		return tree.NewNode(hifast.KindBool), nil
	}
	if rt.IsNil() {
		return lt, nil
	}
	if op == hifast.OpConcat || op == hifast.OpMult {
		return summedSpanType(tree, lt, rt), nil
	}
	return wider(tree, lt, rt), nil
}

func (b Base) DefaultValue(tree *hifast.Tree, typ hifast.Handle) hifast.Handle {
	n := tree.Get(typ)
	switch n.Kind {
	case hifast.KindBool:
		return zeroValue(tree, hifast.KindBoolValue)
	case hifast.KindInt:
		return zeroValue(tree, hifast.KindIntValue)
	case hifast.KindReal:
		return zeroValue(tree, hifast.KindRealValue)
	default:
		return zeroValue(tree, hifast.KindBitValue)
	}
}

func (b Base) MapType(tree *hifast.Tree, typ hifast.Handle) hifast.Handle { return typ }

func (b Base) SupportsConstruct(hifast.Kind) bool { return true }

func (b Base) WaitWithActions() bool { return true }

func (b Base) AcceptsFourValued() bool { return true }

// wider returns whichever of lt/rt has the larger span width, defaulting to
// lt on a tie or when widths are unknown — the common "result takes the
// wider operand's type" rule shared by every semantics' arithmetic ops.
func wider(tree *hifast.Tree, lt, rt hifast.Handle) hifast.Handle {
	l, r := tree.Get(lt), tree.Get(rt)
	if r.Type.Span.Width() > l.Type.Span.Width() {
		return rt
	}
	return lt
}

// isLogicOperand reports whether h is a logic-vector or logic-bit type
// (SPEC_FULL.md §4.4.2/§8: "Bool unless any operand is logic, in which case
// returned is a logic Bit").
func isLogicOperand(tree *hifast.Tree, h hifast.Handle) bool {
	if h.IsNil() {
		return false
	}
	switch tree.Get(h).Kind {
	case hifast.KindBit, hifast.KindBitvector:
		return true
	default:
		return false
	}
}

// logicBitType builds a fresh logic Bit type node, the result of an
// equality/relational operator when either operand is itself logic.
func logicBitType(tree *hifast.Tree) hifast.Handle {
	h := tree.NewNode(hifast.KindBit)
	n := tree.Get(h)
	n.Type.Logic = true
	tree.Put(h, n)
	return h
}

// summedSpanType builds a result type shaped like lt but whose span is the
// sum of lt's and rt's widths — concatenation and multiplication both widen
// by addition rather than taking the wider operand (SPEC_FULL.md §4.4.2,
// §8: "operator_result(op_concat, bv<N>, bv<M>) returns span = N+M").
func summedSpanType(tree *hifast.Tree, lt, rt hifast.Handle) hifast.Handle {
	l, r := tree.Get(lt), tree.Get(rt)
	h := tree.NewNode(l.Kind)
	n := tree.Get(h)
	if n.Type == nil {
		return wider(tree, lt, rt)
	}
	lw, rw := l.Type.Span.Width(), r.Type.Span.Width()
	n.Type.Signed = l.Type.Signed
	n.Type.Logic = l.Type.Logic
	if lw >= 0 && rw >= 0 {
		n.Type.Span = hifast.Span{Direction: hifast.DirDownto, LBoundFolded: lw + rw - 1, RBoundFolded: 0, BoundsKnown: true}
	}
	tree.Put(h, n)
	return h
}

func zeroValue(tree *hifast.Tree, kind hifast.Kind) hifast.Handle {
	return tree.NewNode(kind)
}
