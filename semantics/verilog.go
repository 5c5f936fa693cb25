package semantics

import (
	"fmt"

	"github.com/esd-univr/hif-core-sub007/hifast"
)

// verilogRealOps is the fixed operator set Real operands may participate in
// under Verilog semantics (SPEC_FULL.md §4.4.2: "Real is limited to 64-bit
// and accepts only the operators {+, -, x, /, relational, logical,
// assignment}" — assignment itself is not an Operator value, so it has no
// entry here).
var verilogRealOps = map[hifast.Operator]bool{
	hifast.OpPlus: true, hifast.OpMinus: true, hifast.OpMult: true, hifast.OpDiv: true,
	hifast.OpEq: true, hifast.OpCaseEq: true, hifast.OpNeq: true, hifast.OpCaseNeq: true,
	hifast.OpLt: true, hifast.OpLe: true, hifast.OpGt: true, hifast.OpGe: true,
	hifast.OpAndBool: true, hifast.OpOrBool: true, hifast.OpNotBool: true,
}

// Verilog models IEEE 1364 Verilog's (not SystemVerilog's) construct set:
// no native Record or Enum type, four-valued logic, and a wait statement
// that may not carry a body (SPEC_FULL.md §4.4.1, "some targets require a
// bare @(...) with no trailing actions").
type Verilog struct{ Base }

// NewVerilog returns the Verilog target semantics.
func NewVerilog() *Verilog { return &Verilog{Base{name: "verilog"}} }

// OperatorResult implements Verilog's strict canonical-type model
// (SPEC_FULL.md §4.4.2/§8): Bool does not exist, so any Bool operand is
// rejected outright; Int operands are canonicalized to a 32-bit logic
// vector before the rule applies; Real operands are restricted to a fixed
// operator set; relationals yield a logic Bit (never Bool); concatenation
// and multiplication sum operand spans; everything else takes the wider
// operand, same as the HIF-derived Base rule.
func (v *Verilog) OperatorResult(tree *hifast.Tree, op hifast.Operator, lt, rt hifast.Handle) (hifast.Handle, error) {
	if isBoolOperand(tree, lt) || isBoolOperand(tree, rt) {
		return hifast.Nil, fmt.Errorf("semantics: verilog has no Bool type, operator %s not allowed", op)
	}

	lt = v.canonicalOperand(tree, lt)
	if !rt.IsNil() {
		rt = v.canonicalOperand(tree, rt)
	}

	if isRealOperand(tree, lt) || isRealOperand(tree, rt) {
		if !verilogRealOps[op] {
			return hifast.Nil, fmt.Errorf("semantics: verilog real operands do not support operator %s", op)
		}
	}

	if op.IsRelational() {
		return logicBitType(tree), nil
	}
	if rt.IsNil() {
		return lt, nil
	}
	if op == hifast.OpConcat || op == hifast.OpMult {
		return summedSpanType(tree, lt, rt), nil
	}
	return wider(tree, lt, rt), nil
}

// canonicalOperand maps an Int operand to Verilog's canonical 32-bit logic
// vector (SPEC_FULL.md §4.4.2: "Int maps to a 32-bit logic vector"); every
// other kind passes through unchanged.
func (v *Verilog) canonicalOperand(tree *hifast.Tree, h hifast.Handle) hifast.Handle {
	if h.IsNil() {
		return h
	}
	n := tree.Get(h)
	if n.Kind != hifast.KindInt {
		return h
	}
	nh := tree.NewNode(hifast.KindBitvector)
	nn := tree.Get(nh)
	nn.Type.Logic = true
	nn.Type.Signed = n.Type.Signed
	nn.Type.Span = hifast.Span{Direction: hifast.DirDownto, LBoundFolded: 31, RBoundFolded: 0, BoundsKnown: true}
	tree.Put(nh, nn)
	return nh
}

func isBoolOperand(tree *hifast.Tree, h hifast.Handle) bool {
	return !h.IsNil() && tree.Get(h).Kind == hifast.KindBool
}

func isRealOperand(tree *hifast.Tree, h hifast.Handle) bool {
	return !h.IsNil() && tree.Get(h).Kind == hifast.KindReal
}

// MapType stamps typ with the Verilog variant and switches it to
// four-valued logic, mirroring fixUnsupportedBits' per-target bit rewrite.
func (v *Verilog) MapType(tree *hifast.Tree, typ hifast.Handle) hifast.Handle {
	n := tree.Get(typ)
	if n.Type != nil {
		n.Type.Variant = hifast.VariantVerilog
		n.Type.Logic = true
		tree.Put(typ, n)
	}
	return typ
}

// DefaultValue returns an all-Z bitvector for bit-like types (an
// unconnected net floats to Z under Verilog semantics) and falls back to
// Base for everything else.
func (v *Verilog) DefaultValue(tree *hifast.Tree, typ hifast.Handle) hifast.Handle {
	n := tree.Get(typ)
	switch n.Kind {
	case hifast.KindBit:
		h := tree.NewNode(hifast.KindBitValue)
		hn := tree.Get(h)
		hn.Value.BitLit = hifast.BitZ
		tree.Put(h, hn)
		return h
	case hifast.KindBitvector, hifast.KindSigned, hifast.KindUnsigned:
		width := n.Type.Span.Width()
		if width < 1 {
			width = 1
		}
		bits := make([]hifast.BitConstant, width)
		for i := range bits {
			bits[i] = hifast.BitZ
		}
		f := hifast.NewFactory(tree)
		return f.BitvectorValue(bits)
	default:
		return v.Base.DefaultValue(tree, typ)
	}
}

// SupportsConstruct rejects the HIF-native Record and Enum kinds: Verilog
// has no structural aggregate type, only packed bit ranges.
func (v *Verilog) SupportsConstruct(kind hifast.Kind) bool {
	switch kind {
	case hifast.KindRecord, hifast.KindEnum:
		return false
	default:
		return true
	}
}

// WaitWithActions is false: a Verilog "@(posedge clk) ..." event-control
// statement, when lowered from a standalone wait, carries no action list of
// its own — the following statement is a separate action in the block.
func (v *Verilog) WaitWithActions() bool { return false }
