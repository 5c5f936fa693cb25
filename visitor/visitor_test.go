package visitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/visitor"
)

type recorder struct {
	visitor.BaseGuide
	order []hifast.Kind
}

func (r *recorder) BeforeVisit(t *hifast.Tree, h hifast.Handle) hifast.Handle {
	r.order = append(r.order, t.Get(h).Kind)
	return hifast.Nil
}

func buildAssign(t *hifast.Tree) hifast.Handle {
	f := hifast.NewFactory(t)
	lhs := f.Identifier("a")
	rhs := f.Identifier("b")
	return f.Assign(lhs, rhs, false)
}

func TestWalkVisitsInSchemaOrder(t *testing.T) {
	tree := hifast.NewTree()
	assign := buildAssign(tree)

	rec := &recorder{}
	visitor.Walk(tree, assign, rec)

	require.Equal(t, []hifast.Kind{hifast.KindAssign, hifast.KindIdentifier, hifast.KindIdentifier}, rec.order)
}

type renamer struct {
	visitor.BaseGuide
	tree *hifast.Tree
	from string
	to   hifast.Handle
}

func (r *renamer) BeforeVisit(t *hifast.Tree, h hifast.Handle) hifast.Handle {
	n := t.Get(h)
	if n.Kind == hifast.KindIdentifier && n.Value.Name == r.from {
		return r.to
	}
	return hifast.Nil
}

func TestWalkReplaceInPlace(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	assign := buildAssign(tree)
	replacement := f.IntValue(42)

	visitor.Walk(tree, assign, &renamer{tree: tree, from: "b", to: replacement})

	n := tree.Get(assign)
	rhs := n.Children["rhs"]
	assert.Equal(t, replacement, rhs)
	assert.Equal(t, int64(42), tree.Get(rhs).Value.IntLit)
}

func TestBiVisitorDispatchesOnPair(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	sig := f.Signal("clk", tree.NewNode(hifast.KindBit), hifast.Nil)
	port := f.Port("rst", tree.NewNode(hifast.KindBit), hifast.DirIn)

	var matched bool
	bv := visitor.NewBiVisitor(nil)
	bv.On(hifast.KindSignal, hifast.KindPort, func(t *hifast.Tree, a, b hifast.Handle) {
		matched = true
	})
	bv.Dispatch(tree, sig, port)

	assert.True(t, matched)
}

func TestBiVisitorFallback(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	a := f.IntValue(1)
	b := f.IntValue(2)

	var called bool
	bv := visitor.NewBiVisitor(func(t *hifast.Tree, a, b hifast.Handle) { called = true })
	bv.Dispatch(tree, a, b)

	assert.True(t, called)
}
