// Package tree holds the small set of helpers used to read and build
// go.yaml.in/yaml/v4 node trees while keeping key order intact.
package tree

import (
	"iter"
	"strconv"

	"github.com/mitchellh/copystructure"
	"go.yaml.in/yaml/v4"
)

const (
	TagStr   = "!!str"
	TagBool  = "!!bool"
	TagInt   = "!!int"
	TagFloat = "!!float"
	TagNull  = "!!null"
	TagMap   = "!!map"
	TagSeq   = "!!seq"
)

// Root unwraps a document node. Any other node is returned as is.
func Root(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func NewMap() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: TagMap}
}

func NewSeq(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: TagSeq, Content: items}
}

func Str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagStr, Value: s}
}

func Bool(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagBool, Value: strconv.FormatBool(b)}
}

// IsMap reports whether n (after alias resolution) is a mapping.
func IsMap(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.MappingNode
}

// IsSeq reports whether n (after alias resolution) is a sequence.
func IsSeq(n *yaml.Node) bool {
	n = deref(n)
	return n != nil && n.Kind == yaml.SequenceNode
}

// StrValue returns the value of a scalar node.
func StrValue(n *yaml.Node) (string, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// Get returns the value stored under key in mapping m, or nil.
func Get(m *yaml.Node, key string) *yaml.Node {
	m = deref(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return deref(m.Content[i+1])
		}
	}
	return nil
}

// Path walks nested mappings along keys.
func Path(m *yaml.Node, keys ...string) *yaml.Node {
	for _, k := range keys {
		m = Get(m, k)
		if m == nil {
			return nil
		}
	}
	return m
}

// GetString returns the string under key, or "" when absent or not a scalar.
func GetString(m *yaml.Node, key string) string {
	s, _ := StrValue(Get(m, key))
	return s
}

// Has reports whether mapping m carries key.
func Has(m *yaml.Node, key string) bool {
	m = deref(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Set replaces the value under key, or appends the pair when key is new.
func Set(m *yaml.Node, key string, v *yaml.Node) {
	SetKey(m, Str(key), v)
}

// SetKey is Set with a caller-built key node, so the key may carry a style.
func SetKey(m *yaml.Node, key, v *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key.Value {
			m.Content[i+1] = v
			return
		}
	}
	m.Content = append(m.Content, key, v)
}

// Delete removes key from mapping m and reports whether it was present.
func Delete(m *yaml.Node, key string) bool {
	m = deref(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return true
		}
	}
	return false
}

// Pairs iterates over the key/value pairs of a mapping in document order.
func Pairs(m *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		m = deref(m)
		if m == nil || m.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(m.Content); i += 2 {
			if !yield(m.Content[i].Value, deref(m.Content[i+1])) {
				return
			}
		}
	}
}

// Items iterates over the elements of a sequence.
func Items(s *yaml.Node) iter.Seq[*yaml.Node] {
	return func(yield func(*yaml.Node) bool) {
		s = deref(s)
		if s == nil || s.Kind != yaml.SequenceNode {
			return
		}
		for _, item := range s.Content {
			if !yield(deref(item)) {
				return
			}
		}
	}
}

// Keys returns the keys of mapping m in document order.
func Keys(m *yaml.Node) []string {
	var keys []string
	for k := range Pairs(m) {
		keys = append(keys, k)
	}
	return keys
}

// GetBool decodes the boolean stored under key, so YAML spellings such as
// True or TRUE are accepted. Missing or non-boolean values are false.
func GetBool(m *yaml.Node, key string) bool {
	v := Get(m, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return false
	}
	var b bool
	if err := v.Decode(&b); err != nil {
		return false
	}
	return b
}

// Expand deep-copies n, replacing every alias with a copy of its anchor
// target and dropping the anchors. The copy can be rewritten and
// serialized in parts without leaving aliases whose anchor is gone.
func Expand(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode {
		return Expand(n.Alias)
	}
	out := *n
	out.Anchor = ""
	out.Alias = nil
	if len(n.Content) > 0 {
		out.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = Expand(c)
		}
	}
	return &out
}

// Clone deep-copies a subtree. Anchors and aliases are copied by value.
func Clone(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	return copystructure.Must(copystructure.Copy(n)).(*yaml.Node)
}
