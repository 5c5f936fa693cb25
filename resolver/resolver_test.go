package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/resolver"
)

func buildTreeWithSignal(t *testing.T) (*hifast.Tree, hifast.Handle, hifast.Handle) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)

	sig := f.Signal("clk", tree.NewNode(hifast.KindBit), hifast.Nil)
	contents := f.Contents()
	require.NoError(t, tree.AppendList(contents, "declarations", sig))

	ref := f.Identifier("clk")
	require.NoError(t, tree.AppendList(contents, "actions", f.ValueStatement(ref)))

	return tree, ref, sig
}

func TestResolveFindsDeclarationInEnclosingScope(t *testing.T) {
	tree, ref, sig := buildTreeWithSignal(t)

	r := resolver.New(tree, 64)
	decl, err := r.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, sig, decl)

	// Second resolution must hit the Node.ResolvedDecl cache without
	// touching the scope chain.
	decl2, err := r.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, sig, decl2)
}

func TestResolveUnknownNameFails(t *testing.T) {
	tree, _, _ := buildTreeWithSignal(t)
	f := hifast.NewFactory(tree)
	ref := f.Identifier("nope")
	contents := f.Contents()
	require.NoError(t, tree.AppendList(contents, "actions", f.ValueStatement(ref)))

	r := resolver.New(tree, 64)
	_, err := r.Resolve(ref)
	require.Error(t, err)
	var unresolved *resolver.ErrUnresolved
	require.ErrorAs(t, err, &unresolved)
}

func TestInvalidateDropsScopeEntries(t *testing.T) {
	tree, ref, _ := buildTreeWithSignal(t)
	r := resolver.New(tree, 64)
	_, err := r.Resolve(ref)
	require.NoError(t, err)

	scope := tree.Nodes.ParentOf(tree.Nodes.ParentOf(ref))
	tree.ClearResolvedDecl(ref)
	r.Invalidate(scope)

	_, err = r.Resolve(ref)
	require.NoError(t, err)
}
