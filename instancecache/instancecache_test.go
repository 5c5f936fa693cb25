package instancecache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/instancecache"
)

func TestStoreThenFetchHits(t *testing.T) {
	tree := hifast.NewTree()
	c := instancecache.New(tree)
	decl := tree.NewNode(hifast.KindTypeDef)
	result := tree.NewNode(hifast.KindBitvector)

	render := []byte("8 downto 0")
	c.Store(decl, render, result)

	got, ok := c.Fetch(decl, render)
	assert.True(t, ok)
	assert.Equal(t, result, got)
}

func TestFetchMissOnDifferentArguments(t *testing.T) {
	tree := hifast.NewTree()
	c := instancecache.New(tree)
	decl := tree.NewNode(hifast.KindTypeDef)
	result := tree.NewNode(hifast.KindBitvector)
	c.Store(decl, []byte("8 downto 0"), result)

	_, ok := c.Fetch(decl, []byte("16 downto 0"))
	assert.False(t, ok)
}

func TestInvalidateDropsAllEntriesForDecl(t *testing.T) {
	tree := hifast.NewTree()
	c := instancecache.New(tree)
	decl := tree.NewNode(hifast.KindTypeDef)
	result := tree.NewNode(hifast.KindBitvector)
	render := []byte("8 downto 0")
	c.Store(decl, render, result)

	c.Invalidate(decl)

	_, ok := c.Fetch(decl, render)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestFetchDropsStaleDestroyedResults(t *testing.T) {
	tree := hifast.NewTree()
	c := instancecache.New(tree)
	decl := tree.NewNode(hifast.KindTypeDef)
	result := tree.NewNode(hifast.KindBitvector)
	render := []byte("8 downto 0")
	c.Store(decl, render, result)

	tree.Nodes.Destroy(result)

	_, ok := c.Fetch(decl, render)
	assert.False(t, ok)
}
