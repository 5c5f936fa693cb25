package serialize_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/serialize"
)

func TestPrintHIFIncludesKindAndAttributes(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	sig := f.Signal("clk", tree.NewNode(hifast.KindBit), hifast.Nil)

	out := serialize.PrintHIF(tree, sig, serialize.PrintOptions{})
	assert.True(t, strings.Contains(out, "SIGNAL"))
	assert.True(t, strings.Contains(out, `name="clk"`))
	assert.True(t, strings.Contains(out, "BIT"))
}

func TestCanonicalBytesDeterministic(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	a := f.Assign(f.Identifier("x"), f.IntValue(1), false)
	b := f.Assign(f.Identifier("x"), f.IntValue(1), false)

	assert.Equal(t, serialize.CanonicalBytes(tree, a), serialize.CanonicalBytes(tree, b))
}

func TestCanonicalBytesDiffersOnContent(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	a := f.Assign(f.Identifier("x"), f.IntValue(1), false)
	b := f.Assign(f.Identifier("x"), f.IntValue(2), false)

	assert.NotEqual(t, serialize.CanonicalBytes(tree, a), serialize.CanonicalBytes(tree, b))
}

func TestXMLRoundTrip(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	assign := f.Assign(f.Identifier("a"), f.IntValue(42), true)

	data, err := serialize.PrintXML(tree, assign)
	require.NoError(t, err)

	out := hifast.NewTree()
	root, err := serialize.ParseXML(out, data)
	require.NoError(t, err)

	n := out.Get(root)
	require.Equal(t, hifast.KindAssign, n.Kind)
	assert.True(t, n.Action.NonBlocking)

	rhs := out.Get(n.Children["rhs"])
	assert.Equal(t, int64(42), rhs.Value.IntLit)

	lhs := out.Get(n.Children["lhs"])
	assert.Equal(t, "a", lhs.Value.Name)
}

func TestDiffReturnsEmptyForIdenticalText(t *testing.T) {
	assert.Equal(t, "", serialize.Diff("same", "same"))
}

func TestDiffReportsChangedLines(t *testing.T) {
	before := "(INT_VALUE int=1)"
	after := "(INT_VALUE int=2)"
	d := serialize.Diff(before, after)
	assert.Contains(t, d, "-(INT_VALUE int=1)")
	assert.Contains(t, d, "+(INT_VALUE int=2)")
}

func TestStampVersionSetsRootProperties(t *testing.T) {
	tree := hifast.NewTree()
	gen := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	serialize.StampVersion(tree, tree.Root, serialize.VersionInfo{
		Release:        "1.2.3",
		Tool:           "hif-core-sub007",
		GenerationDate: gen,
		FormatVersion:  "1.0",
	})

	root := tree.Get(tree.Root)
	releaseH, ok := root.Property("release")
	require.True(t, ok)
	assert.Equal(t, "1.2.3", tree.Get(releaseH).Value.StringLit)

	dateH, ok := root.Property("generationDate")
	require.True(t, ok)
	assert.Equal(t, gen.Format(time.RFC3339), tree.Get(dateH).Value.StringLit)
}

func TestWriteUniqueFileCreatesDistinctNames(t *testing.T) {
	dir := t.TempDir()
	p1, err := serialize.WriteUniqueFile(dir, "design", []byte("a"), ".hif")
	require.NoError(t, err)
	p2, err := serialize.WriteUniqueFile(dir, "design", []byte("b"), ".hif")
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
	assert.Equal(t, filepath.Dir(p1), dir)

	data, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestParseXMLWithOptionsDropsStandardLibraryDeclarations(t *testing.T) {
	tree := hifast.NewTree()
	f := hifast.NewFactory(tree)
	userSig := f.Signal("clk", tree.NewNode(hifast.KindBit), hifast.Nil)
	stdSig := f.Signal("std/foo", tree.NewNode(hifast.KindBit), hifast.Nil)
	require.NoError(t, tree.AppendList(tree.Root, "declarations", userSig))
	require.NoError(t, tree.AppendList(tree.Root, "declarations", stdSig))

	data, err := serialize.PrintXML(tree, tree.Root)
	require.NoError(t, err)

	out := hifast.NewTree()
	root, err := serialize.ParseXMLWithOptions(out, data, serialize.ReadOptions{
		LoadStandardLibrary: false,
		IsStandardLibrary:   func(name string) bool { return name == "std/foo" },
	})
	require.NoError(t, err)

	var names []string
	for _, h := range out.Get(root).List("declarations") {
		names = append(names, out.Get(h).Decl.Name)
	}
	assert.Equal(t, []string{"clk"}, names)
}
