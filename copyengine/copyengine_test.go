package copyengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/copyengine"
	"github.com/esd-univr/hif-core-sub007/hifast"
)

func TestCopyDeepCopiesChildrenByDefault(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	assign := f.Assign(f.Identifier("a"), f.Identifier("b"), false)

	e := copyengine.New(tree, tree, copyengine.DefaultPolicy())
	copyH := e.Copy(assign)

	require.NotEqual(t, assign, copyH)
	src := tree.Get(assign)
	dst := tree.Get(copyH)
	assert.NotEqual(t, src.Children["lhs"], dst.Children["lhs"])
	assert.Equal(t, tree.Get(src.Children["lhs"]).Value.Name, tree.Get(dst.Children["lhs"]).Value.Name)
}

func TestCopyShallowSkipsChildren(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	assign := f.Assign(f.Identifier("a"), f.Identifier("b"), false)

	policy := copyengine.DefaultPolicy()
	policy.CopyChildren = false
	e := copyengine.New(tree, tree, policy)
	copyH := e.Copy(assign)

	dst := tree.Get(copyH)
	assert.Nil(t, dst.Children)
}

func TestCopyAcrossTrees(t *testing.T) {
	src := hifast.NewTree()
	dst := hifast.NewTree()
	f := hifast.NewFactory(src)
	sig := f.Signal("clk", src.NewNode(hifast.KindBit), hifast.Nil)

	e := copyengine.New(src, dst, copyengine.DefaultPolicy())
	copyH := e.Copy(sig)

	copied := dst.Get(copyH)
	assert.Equal(t, "clk", copied.Decl.Name)
	assert.True(t, dst.Nodes.Alive(copyH))
}

func TestCopyUserFuncCanSubstitute(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	iv := f.IntValue(9)

	replacement := f.IntValue(100)
	policy := copyengine.DefaultPolicy()
	policy.UserFunc = func(t *hifast.Tree, srcH, dstH hifast.Handle) hifast.Handle {
		return replacement
	}
	e := copyengine.New(tree, tree, policy)
	got := e.Copy(iv)

	assert.Equal(t, replacement, got)
}
