package manipulation

import (
	"fmt"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/visitor"
)

// FixUnsupportedBitsOptions mirrors hif::manipulation::FixUnsupportedBitsOptions.
type FixUnsupportedBitsOptions struct {
	// OnlyBinaryBits forces every bit literal down to {0,1}, replacing any
	// other logic value with XZReplaceValue.
	OnlyBinaryBits bool
	// XZReplaceValue is the two-valued replacement used when OnlyBinaryBits
	// and a literal carries an X/Z/U/W/L/H digit. Defaults to Bit0.
	XZReplaceValue hifast.BitConstant
	// SkipInitialValues leaves a declaration's own initial-value literal
	// untouched even when OnlyBinaryBits would otherwise rewrite it.
	SkipInitialValues bool
}

// DefaultFixUnsupportedBitsOptions matches the original's constructor
// defaults.
func DefaultFixUnsupportedBitsOptions() FixUnsupportedBitsOptions {
	return FixUnsupportedBitsOptions{OnlyBinaryBits: false, XZReplaceValue: hifast.Bit0}
}

// FixUnsupportedBits rewrites the bit/bitvector literals under root whose
// digits are not two-valued, replacing each such digit with
// opts.XZReplaceValue, and folds or prunes the comparisons and Switch/With
// alternatives those literals appear in (SPEC_FULL.md §4.4: target
// semantics decide which BitConstant values are legal). It changes nothing
// unless opts.OnlyBinaryBits is set and checkSem does not accept
// four-valued logic. Types are not rewritten.
func FixUnsupportedBits(tree *hifast.Tree, root hifast.Handle, checkSem twoValuedChecker, opts FixUnsupportedBitsOptions) *Result {
	r := newResult()
	if opts.XZReplaceValue == 0 {
		opts.XZReplaceValue = hifast.Bit0
	}

	g := &bitsFixer{tree: tree, checkSem: checkSem, opts: opts, result: r, warned: make(map[hifast.BitConstant]bool)}
	visitor.Walk(tree, root, g)
	return r
}

// twoValuedChecker is the minimal slice of semantics.LanguageSemantics this
// pass needs: whether it only accepts two-valued logic. Declared locally to
// avoid a manipulation -> semantics import when only one method is needed.
// semantics.LanguageSemantics satisfies it implicitly, so callers can pass
// their semantics value directly.
type twoValuedChecker interface {
	AcceptsFourValued() bool
}

type bitsFixer struct {
	visitor.BaseGuide
	tree     *hifast.Tree
	checkSem twoValuedChecker
	opts     FixUnsupportedBitsOptions
	result   *Result
	// warned dedupes the "replaced an unsupported bit" diagnostic by the
	// offending BitConstant, so a tree riddled with the same digit doesn't
	// produce one warning per occurrence (SPEC_FULL.md §8 scenario 5:
	// "warnings issued for X, Z, -", one each, not one per bit position).
	warned map[hifast.BitConstant]bool
}

func (f *bitsFixer) BeforeVisit(t *hifast.Tree, h hifast.Handle) hifast.Handle {
	f.result.Stats.NodesVisited++
	if !f.opts.OnlyBinaryBits || f.checkSem.AcceptsFourValued() {
		return hifast.Nil
	}
	n := t.Get(h)
	if f.opts.SkipInitialValues && (n.Kind == hifast.KindBitValue || n.Kind == hifast.KindBitvectorValue) {
		if p := t.Nodes.ParentOf(h); !p.IsNil() && t.Get(p).Kind.IsDecl() && t.Nodes.SlotOf(h).Slot == "value" {
			return hifast.Nil
		}
	}
	switch n.Kind {
	case hifast.KindBitValue:
		if !n.Value.BitLit.IsTwoValued() {
			f.warnOnce(n.Value.BitLit, t.String(h))
			n.Value.BitLit = f.opts.XZReplaceValue
			t.Put(h, n)
			f.result.fixed()
		}
	case hifast.KindBitvectorValue:
		changed := false
		for i, b := range n.Value.BitvectorLit {
			if !b.IsTwoValued() {
				f.warnOnce(b, t.String(h))
				n.Value.BitvectorLit[i] = f.opts.XZReplaceValue
				changed = true
			}
		}
		if changed {
			t.Put(h, n)
			f.result.fixed()
		}
	case hifast.KindExpression:
		if rep := f.foldEquality(t, h, n); !rep.IsNil() {
			f.result.fixed()
			return rep
		}
	case hifast.KindSwitch:
		f.fixSwitch(t, h)
	case hifast.KindWith:
		f.fixWith(t, h)
	}
	return hifast.Nil
}

func (f *bitsFixer) warnOnce(bit hifast.BitConstant, nodeDesc string) {
	if f.warned[bit] {
		return
	}
	f.warned[bit] = true
	f.result.addDiag("warning", fmt.Sprintf("bit %q is not representable under two-valued semantics, replaced with %q", byte(bit), byte(f.opts.XZReplaceValue)), nodeDesc)
}

// foldEquality implements SPEC_FULL.md §8 scenario 6: under a two-valued
// target, op_eq/op_neq against a Bit/BitvectorValue literal carrying a
// don't-care digit can never compare exactly equal in the concrete sense
// the binary target needs, so the comparison folds to a constant — false
// for op_eq/op_case_eq, true for op_neq/op_case_neq — typed to the
// expression's own cached semantic type.
func (f *bitsFixer) foldEquality(t *hifast.Tree, h hifast.Handle, n *hifast.Node) hifast.Handle {
	var negated bool
	switch n.Value.Operator {
	case hifast.OpEq, hifast.OpCaseEq:
		negated = false
	case hifast.OpNeq, hifast.OpCaseNeq:
		negated = true
	default:
		return hifast.Nil
	}
	if !f.hasUnsupportedBitLiteral(t, n.Children["op1"]) && !f.hasUnsupportedBitLiteral(t, n.Children["op2"]) {
		return hifast.Nil
	}

	bv := t.NewNode(hifast.KindBoolValue)
	bn := t.Get(bv)
	bn.Value.BoolLit = negated
	bn.SemanticType = n.SemanticType
	t.Put(bv, bn)
	return bv
}

func (f *bitsFixer) hasUnsupportedBitLiteral(t *hifast.Tree, h hifast.Handle) bool {
	if h.IsNil() {
		return false
	}
	n := t.Get(h)
	switch n.Kind {
	case hifast.KindBitValue:
		return !n.Value.BitLit.IsTwoValued()
	case hifast.KindBitvectorValue:
		for _, b := range n.Value.BitvectorLit {
			if !b.IsTwoValued() {
				return true
			}
		}
	}
	return false
}

// fixSwitch downgrades a casex/casez-style Switch to literal matching once
// the target can no longer represent the wildcard bits that semantics
// relies on, dropping any alt whose every condition literal is now
// unmatchable and collapsing the whole construct into its defaults if every
// alt vanishes (SPEC_FULL.md §4.8.4 "Adjust case semantics").
func (f *bitsFixer) fixSwitch(t *hifast.Tree, h hifast.Handle) {
	n := t.Get(h)
	if n.Action.CaseSemantics == hifast.CaseLiteral {
		return
	}
	n.Action.CaseSemantics = hifast.CaseLiteral
	t.Put(h, n)
	f.result.fixed()

	alts := n.ChildLists["alts"]
	kept := make([]hifast.Handle, 0, len(alts))
	for _, alt := range alts {
		an := t.Get(alt)
		if f.allConditionsUnmatchable(t, an.ChildLists["conditions"]) {
			f.result.addDiag("warning", "dropped a casex/casez alt whose pattern is unmatchable under two-valued semantics", t.String(alt))
			f.result.fixed()
			continue
		}
		kept = append(kept, alt)
	}
	if len(kept) != len(alts) {
		_ = t.SetList(h, "alts", kept)
	}
	if len(kept) == 0 {
		defaults := n.ChildLists["defaults"]
		if err := spliceActionInParent(t, h, defaults); err != nil {
			f.result.addDiag("error", "could not collapse exhausted switch into its defaults: "+err.Error(), t.String(h))
		} else {
			f.result.fixed()
		}
	}
}

// fixWith mirrors fixSwitch for the value-select With expression, whose
// sole alt-less fallback is its "default" value rather than a list of
// actions.
func (f *bitsFixer) fixWith(t *hifast.Tree, h hifast.Handle) {
	n := t.Get(h)
	alts := n.ChildLists["alts"]
	kept := make([]hifast.Handle, 0, len(alts))
	for _, alt := range alts {
		an := t.Get(alt)
		if f.allConditionsUnmatchable(t, an.ChildLists["conditions"]) {
			f.result.addDiag("warning", "dropped a with-alt whose pattern is unmatchable under two-valued semantics", t.String(alt))
			f.result.fixed()
			continue
		}
		kept = append(kept, alt)
	}
	if len(kept) != len(alts) {
		_ = t.SetList(h, "alts", kept)
	}
	if len(kept) == 0 {
		def := n.Children["default"]
		if def.IsNil() {
			f.result.addDiag("warning", "with-expression has no alts left and no default to fall back to", t.String(h))
			return
		}
		replaceNode(t, h, def)
		f.result.fixed()
	}
}

// allConditionsUnmatchable reports whether every condition in conditions is
// a Bit/BitvectorValue literal carrying a don't-care digit — i.e. the alt
// only ever matched via wildcard semantics the target no longer supports.
func (f *bitsFixer) allConditionsUnmatchable(t *hifast.Tree, conditions []hifast.Handle) bool {
	if len(conditions) == 0 {
		return false
	}
	for _, c := range conditions {
		if !f.hasUnsupportedBitLiteral(t, c) {
			return false
		}
	}
	return true
}

// spliceActionInParent replaces h (itself an action in a list slot) with
// replacements in place, or removes it outright when replacements is empty.
func spliceActionInParent(t *hifast.Tree, h hifast.Handle, replacements []hifast.Handle) error {
	parent := t.Nodes.ParentOf(h)
	if parent.IsNil() {
		return fmt.Errorf("manipulation: %s has no parent action list", t.String(h))
	}
	ref := t.Nodes.SlotOf(h)
	p := t.Get(parent)
	list := p.ChildLists[ref.Slot]
	out := make([]hifast.Handle, 0, len(list)+len(replacements))
	for _, c := range list {
		if c == h {
			out = append(out, replacements...)
			continue
		}
		out = append(out, c)
	}
	return t.SetList(parent, ref.Slot, out)
}
