package hifast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/hifast"
)

func TestNewTreeRootIsSystem(t *testing.T) {
	tree := hifast.NewTree()
	assert.Equal(t, hifast.KindSystem, tree.Get(tree.Root).Kind)
}

func TestNewNodeOnlyAllocatesMatchingFamilyPayload(t *testing.T) {
	tree := hifast.NewTree()

	ref := tree.Get(tree.NewNode(hifast.KindTypeReference))
	assert.NotNil(t, ref.Type)
	assert.Nil(t, ref.Value)

	id := tree.Get(tree.NewNode(hifast.KindIdentifier))
	assert.NotNil(t, id.Value)
	assert.Nil(t, id.Type)
}

func TestSetSingleAttachesAndEnforcesSchema(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	assign := f.Assign(f.Identifier("a"), f.IntValue(1), false)

	lhs := tree.Get(assign).Children["lhs"]
	require.False(t, lhs.IsNil())
	assert.Equal(t, assign, tree.Nodes.ParentOf(lhs))

	badChild := tree.NewNode(hifast.KindEntity)
	err := tree.SetSingle(assign, "lhs", badChild)
	assert.Error(t, err)
}

func TestSetSingleNilClearsSlot(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	assign := f.Assign(f.Identifier("a"), f.IntValue(1), false)

	require.NoError(t, tree.SetSingle(assign, "lhs", hifast.Nil))
	_, ok := tree.Get(assign).Children["lhs"]
	assert.False(t, ok)
}

func TestAppendListAndSetListReindexSlots(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	contents := f.Contents()

	a := f.ValueStatement(f.IntValue(1))
	b := f.ValueStatement(f.IntValue(2))
	require.NoError(t, tree.AppendList(contents, "actions", a))
	require.NoError(t, tree.AppendList(contents, "actions", b))

	list := tree.Get(contents).ChildLists["actions"]
	require.Len(t, list, 2)
	assert.Equal(t, 0, tree.Nodes.SlotOf(a).Index)
	assert.Equal(t, 1, tree.Nodes.SlotOf(b).Index)

	c := f.ValueStatement(f.IntValue(3))
	require.NoError(t, tree.SetList(contents, "actions", []hifast.Handle{b, c}))

	assert.True(t, tree.Nodes.ParentOf(a).IsNil(), "SetList must detach the dropped element")
	assert.Equal(t, 0, tree.Nodes.SlotOf(b).Index)
	assert.Equal(t, 1, tree.Nodes.SlotOf(c).Index)
}

func TestPutRequiresExplicitPersistAfterGet(t *testing.T) {
	tree := hifast.NewTree()
	h := tree.NewNode(hifast.KindIdentifier)

	n := tree.Get(h)
	n.Value.Name = "x"
	assert.Empty(t, tree.Get(h).Value.Name, "mutating the copy from Get must not affect the tree")

	tree.Put(h, n)
	assert.Equal(t, "x", tree.Get(h).Value.Name)
}

func TestClearSubtreeCachesClearsEveryDescendant(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	assign := f.Assign(f.Identifier("a"), f.IntValue(1), false)

	lhs := tree.Get(assign).Children["lhs"]
	n := tree.Get(lhs)
	n.SemanticType = tree.Get(assign).Children["rhs"]
	tree.Put(lhs, n)

	tree.ClearSubtreeCaches(assign)
	assert.True(t, tree.Get(lhs).SemanticType.IsNil())
}

func TestDetachRemovesFromListSlot(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	contents := f.Contents()
	a := f.ValueStatement(f.IntValue(1))
	require.NoError(t, tree.AppendList(contents, "actions", a))

	tree.Detach(a)
	assert.Empty(t, tree.Get(contents).ChildLists["actions"])
	assert.True(t, tree.Nodes.ParentOf(a).IsNil())
}

func TestStringIncludesNameWhenPresent(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	id := f.Identifier("clk")
	assert.Contains(t, tree.String(id), "clk")
	assert.Contains(t, tree.String(id), "Identifier")
}

func TestParseKindRoundTripsUpperSnake(t *testing.T) {
	k, ok := hifast.ParseKind(hifast.KindAssign.UpperSnake())
	require.True(t, ok)
	assert.Equal(t, hifast.KindAssign, k)

	_, ok = hifast.ParseKind("NOT_A_REAL_KIND")
	assert.False(t, ok)
}
