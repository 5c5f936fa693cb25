package manipulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/manipulation"
)

type twoValuedOnly struct{}

func (twoValuedOnly) AcceptsFourValued() bool { return false }

type fourValued struct{}

func (fourValued) AcceptsFourValued() bool { return true }

func TestFixUnsupportedBitsReplacesFourValuedLiterals(t *testing.T) {
	tree := hifast.NewTree()
	bv := tree.NewNode(hifast.KindBitvectorValue)
	n := tree.Get(bv)
	n.Value.BitvectorLit = []hifast.BitConstant{hifast.Bit1, hifast.BitX, hifast.Bit0}
	tree.Put(bv, n)

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, bv, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	fixed := tree.Get(bv)
	assert.Equal(t, []hifast.BitConstant{hifast.Bit1, hifast.Bit0, hifast.Bit0}, fixed.Value.BitvectorLit)
}

func TestFixUnsupportedBitsLeavesFourValuedSemanticsAlone(t *testing.T) {
	tree := hifast.NewTree()
	bv := tree.NewNode(hifast.KindBitValue)
	n := tree.Get(bv)
	n.Value.BitLit = hifast.BitX
	tree.Put(bv, n)

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, bv, fourValued{}, opts)

	assert.False(t, result.IsFixed)
	assert.Equal(t, hifast.BitX, tree.Get(bv).Value.BitLit)
}

// TestFixUnsupportedBitsWarnsOncePerOffendingDigit implements SPEC_FULL.md §8
// scenario 5: "U10XZ" downgraded under two-valued semantics becomes "?10??"
// (each offending digit replaced with XZReplaceValue), with exactly one
// warning diagnostic per distinct offending BitConstant (U, X, Z), not one
// per bit position.
func TestFixUnsupportedBitsWarnsOncePerOffendingDigit(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	bv := f.BitvectorValue([]hifast.BitConstant{hifast.BitU, hifast.Bit1, hifast.Bit0, hifast.BitX, hifast.BitZ})

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	opts.XZReplaceValue = hifast.BitDontCare
	result := manipulation.FixUnsupportedBits(tree, bv, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	fixed := tree.Get(bv)
	assert.Equal(t, []hifast.BitConstant{
		hifast.BitDontCare, hifast.Bit1, hifast.Bit0, hifast.BitDontCare, hifast.BitDontCare,
	}, fixed.Value.BitvectorLit)

	warnings := 0
	for _, d := range result.Diagnostics {
		if d.Severity == "warning" {
			warnings++
		}
	}
	assert.Equal(t, 3, warnings)
}

// TestFixUnsupportedBitsFoldsEqualityAgainstDontCareLiteral implements
// SPEC_FULL.md §8 scenario 6: an equality against a bitvector literal
// carrying a don't-care digit can never hold exactly under a two-valued
// target, so it folds to a constant bool typed to the original expression.
func TestFixUnsupportedBitsFoldsEqualityAgainstDontCareLiteral(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	lit := f.BitvectorValue([]hifast.BitConstant{hifast.Bit1, hifast.BitX, hifast.Bit0})
	ident := f.Identifier("x")
	expr := f.Expression(hifast.OpEq, lit, ident)
	en := tree.Get(expr)
	en.SemanticType = tree.NewNode(hifast.KindBool)
	tree.Put(expr, en)
	stmt := f.ValueStatement(expr)

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, stmt, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	folded := tree.Get(tree.Get(stmt).Children["value"])
	assert.Equal(t, hifast.KindBoolValue, folded.Kind)
	assert.False(t, folded.Value.BoolLit)
	assert.Equal(t, en.SemanticType, folded.SemanticType)
}

// TestFixUnsupportedBitsFoldsInequalityToTrue covers the op_neq/op_case_neq
// side of scenario 6: the negated comparison folds to true instead of false.
func TestFixUnsupportedBitsFoldsInequalityToTrue(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	lit := f.BitvectorValue([]hifast.BitConstant{hifast.Bit1, hifast.BitZ, hifast.Bit0})
	ident := f.Identifier("x")
	expr := f.Expression(hifast.OpNeq, ident, lit)
	stmt := f.ValueStatement(expr)

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, stmt, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	folded := tree.Get(tree.Get(stmt).Children["value"])
	assert.Equal(t, hifast.KindBoolValue, folded.Kind)
	assert.True(t, folded.Value.BoolLit)
}

// buildSwitch builds a Switch(condition) with one alt per altConditions entry
// (each alt's single action is a ValueStatement over a distinct IntValue so
// alts can be told apart after the fix), plus a defaults list.
func buildSwitch(t *testing.T, tree *hifast.Tree, f *hifast.Factory, condition hifast.Handle, caseSem hifast.CaseSemantics, altConditions [][]hifast.Handle, defaults []hifast.Handle) hifast.Handle {
	t.Helper()
	sw := tree.NewNode(hifast.KindSwitch)
	n := tree.Get(sw)
	n.Action.CaseSemantics = caseSem
	tree.Put(sw, n)
	require.NoError(t, tree.SetSingle(sw, "condition", condition))

	alts := make([]hifast.Handle, 0, len(altConditions))
	for i, conds := range altConditions {
		alt := tree.NewNode(hifast.KindSwitchAlt)
		require.NoError(t, tree.SetList(alt, "conditions", conds))
		require.NoError(t, tree.AppendList(alt, "actions", f.ValueStatement(f.IntValue(int64(i)))))
		alts = append(alts, alt)
	}
	require.NoError(t, tree.SetList(sw, "alts", alts))
	require.NoError(t, tree.SetList(sw, "defaults", defaults))
	return sw
}

func TestFixUnsupportedBitsDowngradesSwitchCaseSemanticsAndDropsUnmatchableAlts(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	cond := f.Identifier("sel")
	matchable := f.BitvectorValue([]hifast.BitConstant{hifast.Bit1, hifast.Bit0})
	unmatchable := f.BitvectorValue([]hifast.BitConstant{hifast.BitX, hifast.BitX})
	keepAction := f.ValueStatement(f.IntValue(9))

	sw := buildSwitch(t, tree, f, cond, hifast.CaseX,
		[][]hifast.Handle{{matchable}, {unmatchable}},
		[]hifast.Handle{keepAction})

	contents := f.Contents()
	require.NoError(t, tree.AppendList(contents, "actions", sw))

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, contents, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	swNode := tree.Get(sw)
	assert.Equal(t, hifast.CaseLiteral, swNode.Action.CaseSemantics)
	assert.Len(t, swNode.ChildLists["alts"], 1)
}

func TestFixUnsupportedBitsCollapsesExhaustedSwitchIntoDefaults(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	cond := f.Identifier("sel")
	unmatchable := f.BitvectorValue([]hifast.BitConstant{hifast.BitX, hifast.BitX})
	defaultAction := f.ValueStatement(f.IntValue(42))

	sw := buildSwitch(t, tree, f, cond, hifast.CaseX,
		[][]hifast.Handle{{unmatchable}},
		[]hifast.Handle{defaultAction})

	contents := f.Contents()
	require.NoError(t, tree.AppendList(contents, "actions", sw))

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, contents, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	actions := tree.Get(contents).ChildLists["actions"]
	require.Len(t, actions, 1)
	assert.Equal(t, defaultAction, actions[0])
}

func TestFixUnsupportedBitsCollapsesExhaustedSwitchWithNoDefaultsToEmpty(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	cond := f.Identifier("sel")
	unmatchable := f.BitvectorValue([]hifast.BitConstant{hifast.BitX, hifast.BitX})

	sw := buildSwitch(t, tree, f, cond, hifast.CaseX,
		[][]hifast.Handle{{unmatchable}},
		nil)

	contents := f.Contents()
	require.NoError(t, tree.AppendList(contents, "actions", sw))

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, contents, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	assert.Empty(t, tree.Get(contents).ChildLists["actions"])
}

// buildWith builds a With(condition) with one alt per altConditions entry,
// each alt's value a distinct IntValue, plus an optional default value.
func buildWith(t *testing.T, tree *hifast.Tree, condition hifast.Handle, altConditions [][]hifast.Handle, altValues []hifast.Handle, def hifast.Handle) hifast.Handle {
	t.Helper()
	w := tree.NewNode(hifast.KindWith)
	require.NoError(t, tree.SetSingle(w, "condition", condition))

	alts := make([]hifast.Handle, 0, len(altConditions))
	for i, conds := range altConditions {
		alt := tree.NewNode(hifast.KindWithAlt)
		require.NoError(t, tree.SetList(alt, "conditions", conds))
		require.NoError(t, tree.SetSingle(alt, "value", altValues[i]))
		alts = append(alts, alt)
	}
	require.NoError(t, tree.SetList(w, "alts", alts))
	if !def.IsNil() {
		require.NoError(t, tree.SetSingle(w, "default", def))
	}
	return w
}

func TestFixUnsupportedBitsDropsUnmatchableWithAlts(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	cond := f.Identifier("sel")
	matchable := f.BitvectorValue([]hifast.BitConstant{hifast.Bit1, hifast.Bit0})
	unmatchable := f.BitvectorValue([]hifast.BitConstant{hifast.BitX, hifast.BitX})

	w := buildWith(t, tree, cond,
		[][]hifast.Handle{{matchable}, {unmatchable}},
		[]hifast.Handle{f.IntValue(1), f.IntValue(2)},
		f.IntValue(0))

	sig := f.Signal("s", tree.NewNode(hifast.KindInt), w)

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, sig, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	wNode := tree.Get(w)
	assert.Len(t, wNode.ChildLists["alts"], 1)
}

func TestFixUnsupportedBitsCollapsesExhaustedWithIntoDefault(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	cond := f.Identifier("sel")
	unmatchable := f.BitvectorValue([]hifast.BitConstant{hifast.BitX, hifast.BitX})
	def := f.IntValue(0)

	w := buildWith(t, tree, cond,
		[][]hifast.Handle{{unmatchable}},
		[]hifast.Handle{f.IntValue(1)},
		def)

	sig := f.Signal("s", tree.NewNode(hifast.KindInt), w)

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, sig, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	assert.Equal(t, def, tree.Get(sig).Children["value"])
}

func TestFixUnsupportedBitsWarnsWhenExhaustedWithHasNoDefault(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	cond := f.Identifier("sel")
	unmatchable := f.BitvectorValue([]hifast.BitConstant{hifast.BitX, hifast.BitX})

	w := buildWith(t, tree, cond,
		[][]hifast.Handle{{unmatchable}},
		[]hifast.Handle{f.IntValue(1)},
		hifast.Nil)

	sig := f.Signal("s", tree.NewNode(hifast.KindInt), w)

	opts := manipulation.DefaultFixUnsupportedBitsOptions()
	opts.OnlyBinaryBits = true
	result := manipulation.FixUnsupportedBits(tree, sig, twoValuedOnly{}, opts)

	assert.True(t, result.IsFixed)
	assert.Equal(t, w, tree.Get(sig).Children["value"])
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, "warning", result.Diagnostics[len(result.Diagnostics)-1].Severity)
}
