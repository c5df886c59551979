package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func parse(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return Root(&doc)
}

func TestAccessors(t *testing.T) {
	root := parse(t, `
a:
  b:
    c: text
  n: 42
list: [x, y]
base: &base {k: v}
ref: *base
`)

	require.Equal(t, "text", GetString(Path(root, "a", "b"), "c"))
	require.Nil(t, Path(root, "a", "missing", "c"))
	require.Equal(t, "", GetString(root, "a"))
	require.True(t, Has(root, "list"))
	require.False(t, Has(root, "nope"))
	require.True(t, IsSeq(Get(root, "list")))
	require.True(t, IsMap(Get(root, "a")))
	require.Equal(t, "v", GetString(Get(root, "ref"), "k"))


	var items []string
	for item := range Items(Get(root, "list")) {
		items = append(items, item.Value)
	}
	require.Equal(t, []string{"x", "y"}, items)
	require.Equal(t, []string{"a", "list", "base", "ref"}, Keys(root))
}

func TestNilSafety(t *testing.T) {
	require.Nil(t, Get(nil, "a"))
	require.Nil(t, Path(nil, "a"))
	require.False(t, Has(nil, "a"))
	require.False(t, Delete(nil, "a"))
	require.Empty(t, Keys(nil))
	require.Nil(t, Clone(nil))
	for range Items(nil) {
		t.Fatal("unexpected item")
	}
}

func TestSetAndDelete(t *testing.T) {
	m := NewMap()
	Set(m, "a", Str("1"))
	Set(m, "b", Str("2"))
	Set(m, "a", Bool(true))
	require.Equal(t, []string{"a", "b"}, Keys(m))
	require.Equal(t, "true", GetString(m, "a"))

	key := Str("200")
	key.Style = yaml.DoubleQuotedStyle
	SetKey(m, key, Str("ok"))
	require.Same(t, key, m.Content[4])

	require.True(t, Delete(m, "a"))
	require.False(t, Delete(m, "a"))
	require.Equal(t, []string{"b", "200"}, Keys(m))
}

func TestClone(t *testing.T) {
	root := parse(t, "a: {b: [1, 2]}")
	c := Clone(root)

	Set(Get(c, "a"), "b", Str("replaced"))
	require.True(t, IsSeq(Path(root, "a", "b")))
	require.NotSame(t, root, c)
}

func TestNewSeq(t *testing.T) {
	s := NewSeq(Str("a"), Str("b"))
	require.True(t, IsSeq(s))
	require.Len(t, s.Content, 2)
}

func TestExpand(t *testing.T) {
	root := parse(t, `
params:
  - schema: &id {type: string, x-maxLength: 3}
schemas:
  Item:
    properties:
      id: *id
`)
	out := Expand(root)

	id := Path(out, "schemas", "Item", "properties", "id")
	require.Equal(t, yaml.MappingNode, id.Kind)
	require.Empty(t, id.Anchor)
	require.Equal(t, "string", GetString(id, "type"))
	require.Empty(t, Get(out, "params").Content[0].Content[1].Anchor)

	// the copy is independent of the source and of the other expansion
	Set(id, "type", Str("integer"))
	require.Equal(t, "string", GetString(Get(Get(root, "params").Content[0], "schema"), "type"))
	require.Equal(t, yaml.AliasNode, Path(root, "schemas", "Item", "properties").Content[1].Kind)

	data, err := yaml.Marshal(Path(out, "schemas"))
	require.NoError(t, err)
	require.NotContains(t, string(data), "*id")
	require.Nil(t, Expand(nil))
}

func TestGetBool(t *testing.T) {
	root := parse(t, `
lower: true
title: True
upper: TRUE
disabled: false
list: [true]
`)
	require.True(t, GetBool(root, "lower"))
	require.True(t, GetBool(root, "title"))
	require.True(t, GetBool(root, "upper"))
	require.False(t, GetBool(root, "disabled"))
	require.False(t, GetBool(root, "list"))
	require.False(t, GetBool(root, "missing"))
}
