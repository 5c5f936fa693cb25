package semantics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/semantics"
)

func TestRegistryRoundTrip(t *testing.T) {
	r := semantics.Default()

	hif, err := r.Get("hif")
	require.NoError(t, err)
	assert.Equal(t, "hif", hif.Name())

	verilog, err := r.Get("verilog")
	require.NoError(t, err)
	assert.Equal(t, "verilog", verilog.Name())

	_, err = r.Get("vhdl")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	r := semantics.NewRegistry()
	require.NoError(t, r.Register(semantics.NewHIF()))
	assert.Error(t, r.Register(semantics.NewHIF()))
}

func TestOperatorResultRelationalYieldsBool(t *testing.T) {
	tree := hifast.NewTree()
	hif := semantics.NewHIF()
	lt := tree.NewNode(hifast.KindInt)
	rt := tree.NewNode(hifast.KindInt)

	result, err := hif.OperatorResult(tree, hifast.OpLt, lt, rt)
	require.NoError(t, err)
	assert.Equal(t, hifast.KindBool, tree.Get(result).Kind)
}

func TestOperatorResultEqualityYieldsLogicBitWhenOperandIsLogic(t *testing.T) {
	tree := hifast.NewTree()
	hif := semantics.NewHIF()
	lt := tree.NewNode(hifast.KindBitvector)
	rt := tree.NewNode(hifast.KindBit)

	result, err := hif.OperatorResult(tree, hifast.OpEq, lt, rt)
	require.NoError(t, err)
	n := tree.Get(result)
	assert.Equal(t, hifast.KindBit, n.Kind)
	assert.True(t, n.Type.Logic)
}

func TestOperatorResultConcatSumsSpans(t *testing.T) {
	tree := hifast.NewTree()
	hif := semantics.NewHIF()
	f := hifast.NewFactory(tree)

	lt := f.Bitvector(tree.NewNode(hifast.KindIntValue), tree.NewNode(hifast.KindIntValue), hifast.DirDownto)
	rt := f.Bitvector(tree.NewNode(hifast.KindIntValue), tree.NewNode(hifast.KindIntValue), hifast.DirDownto)
	ltN, rtN := tree.Get(lt), tree.Get(rt)
	ltN.Type.Span = hifast.Span{Direction: hifast.DirDownto, LBoundFolded: 7, RBoundFolded: 0, BoundsKnown: true}
	rtN.Type.Span = hifast.Span{Direction: hifast.DirDownto, LBoundFolded: 3, RBoundFolded: 0, BoundsKnown: true}
	tree.Put(lt, ltN)
	tree.Put(rt, rtN)

	result, err := hif.OperatorResult(tree, hifast.OpConcat, lt, rt)
	require.NoError(t, err)
	assert.Equal(t, int64(12), tree.Get(result).Type.Span.Width())
}

func TestVerilogOperatorResultRejectsBool(t *testing.T) {
	tree := hifast.NewTree()
	verilog := semantics.NewVerilog()
	lt := tree.NewNode(hifast.KindBool)
	rt := tree.NewNode(hifast.KindBool)

	_, err := verilog.OperatorResult(tree, hifast.OpAndBool, lt, rt)
	assert.Error(t, err)
}

func TestVerilogOperatorResultRelationalYieldsLogicBit(t *testing.T) {
	tree := hifast.NewTree()
	verilog := semantics.NewVerilog()
	lt := tree.NewNode(hifast.KindInt)
	rt := tree.NewNode(hifast.KindInt)

	result, err := verilog.OperatorResult(tree, hifast.OpLt, lt, rt)
	require.NoError(t, err)
	n := tree.Get(result)
	assert.Equal(t, hifast.KindBit, n.Kind)
	assert.True(t, n.Type.Logic)
}

func TestVerilogOperatorResultCanonicalizesIntTo32Bits(t *testing.T) {
	tree := hifast.NewTree()
	verilog := semantics.NewVerilog()
	lt := tree.NewNode(hifast.KindInt)
	rt := tree.NewNode(hifast.KindInt)

	result, err := verilog.OperatorResult(tree, hifast.OpPlus, lt, rt)
	require.NoError(t, err)
	n := tree.Get(result)
	assert.Equal(t, hifast.KindBitvector, n.Kind)
	assert.Equal(t, int64(32), n.Type.Span.Width())
}

func TestVerilogOperatorResultRejectsUnsupportedRealOperator(t *testing.T) {
	tree := hifast.NewTree()
	verilog := semantics.NewVerilog()
	lt := tree.NewNode(hifast.KindReal)
	rt := tree.NewNode(hifast.KindReal)

	_, err := verilog.OperatorResult(tree, hifast.OpConcat, lt, rt)
	assert.Error(t, err)
}

func TestVerilogMapTypeSetsVariantAndLogic(t *testing.T) {
	tree := hifast.NewTree()
	verilog := semantics.NewVerilog()
	bv := tree.NewNode(hifast.KindBitvector)

	mapped := verilog.MapType(tree, bv)
	n := tree.Get(mapped)
	assert.Equal(t, hifast.VariantVerilog, n.Type.Variant)
	assert.True(t, n.Type.Logic)
}

func TestVerilogDefaultValueIsZ(t *testing.T) {
	tree := hifast.NewTree()
	verilog := semantics.NewVerilog()
	bit := tree.NewNode(hifast.KindBit)

	def := verilog.DefaultValue(tree, bit)
	assert.Equal(t, hifast.BitZ, tree.Get(def).Value.BitLit)
}

func TestVerilogRejectsRecordAndEnum(t *testing.T) {
	verilog := semantics.NewVerilog()
	assert.False(t, verilog.SupportsConstruct(hifast.KindRecord))
	assert.False(t, verilog.SupportsConstruct(hifast.KindEnum))
	assert.True(t, verilog.SupportsConstruct(hifast.KindBitvector))
}

func TestStandardLibraryFilterMatchesDefaults(t *testing.T) {
	f := semantics.NewStandardLibraryFilter()
	assert.True(t, f.Match("ieee/std_logic_1164"))
	assert.True(t, f.Match("hif_verilog"))
	assert.False(t, f.Match("myproject/counter"))
}
