package manipulation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/manipulation"
	"github.com/esd-univr/hif-core-sub007/resolver"
)

func TestExpandAliasesReplacesReferences(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	contents := f.Contents()

	alias := tree.NewNode(hifast.KindAlias)
	an := tree.Get(alias)
	an.Decl.Name = "a"
	tree.Put(alias, an)
	require.NoError(t, tree.SetSingle(alias, "value", f.IntValue(42)))
	require.NoError(t, tree.AppendList(contents, "declarations", alias))

	ref := f.Identifier("a")
	refNode := tree.Get(ref)
	refNode.ResolvedDecl = alias
	tree.Put(ref, refNode)
	require.NoError(t, tree.AppendList(contents, "actions", f.ValueStatement(ref)))

	res := resolver.New(tree, 16)
	result := manipulation.ExpandAliases(tree, contents, res)

	assert.True(t, result.IsFixed)
	assert.Equal(t, 1, result.Stats.NodesFixed)

	actions := tree.Get(contents).ChildLists["actions"]
	require.Len(t, actions, 1)
	stmt := tree.Get(actions[0])
	rewritten := tree.Get(stmt.Children["value"])
	assert.Equal(t, hifast.KindIntValue, rewritten.Kind)
	assert.Equal(t, int64(42), rewritten.Value.IntLit)

	decls := tree.Get(contents).ChildLists["declarations"]
	assert.Len(t, decls, 0)
}

func TestExpandAliasesNoAliasesIsNoop(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	contents := f.Contents()
	require.NoError(t, tree.AppendList(contents, "actions", f.ValueStatement(f.IntValue(1))))

	res := resolver.New(tree, 16)
	result := manipulation.ExpandAliases(tree, contents, res)

	assert.False(t, result.IsFixed)
	assert.Equal(t, 0, result.Stats.NodesFixed)
}
