// Package normalize rewrites vendor extension fields into the names the
// gateway understands and drops documentation-only fields.
package normalize

import (
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

// prefixed constraint keywords lose their "x-" prefix
var renamed = map[string]string{
	"x-minLength": "minLength",
	"x-maxLength": "maxLength",
	"x-minimum":   "minimum",
	"x-maximum":   "maximum",
	"x-min":       "minimum",
	"x-max":       "maximum",
}

var discarded = map[string]bool{
	"x-message": true,
	"example":   true,
}

// Normalize returns a normalized copy of n. The input is never modified.
func Normalize(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		out := *n
		out.Content = make([]*yaml.Node, 0, len(n.Content))
		for _, c := range n.Content {
			out.Content = append(out.Content, Normalize(c))
		}
		return &out
	case yaml.MappingNode:
		return normalizeMap(n)
	case yaml.SequenceNode:
		out := *n
		out.Content = make([]*yaml.Node, 0, len(n.Content))
		for _, c := range n.Content {
			out.Content = append(out.Content, Normalize(c))
		}
		return &out
	default:
		return tree.Clone(n)
	}
}

func normalizeMap(n *yaml.Node) *yaml.Node {
	out := *n
	out.Content = make([]*yaml.Node, 0, len(n.Content))

	// a renamed field replaces an earlier key of the same name, last one wins
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]

		switch {
		case discarded[key.Value]:
			continue
		case key.Value == "x-allowedStrings" || key.Value == "enum":
			tree.SetKey(&out, renameKey(key, "enum"), compact(value))
		case renamed[key.Value] != "":
			tree.SetKey(&out, renameKey(key, renamed[key.Value]), tree.Clone(value))
		default:
			tree.SetKey(&out, tree.Clone(key), Normalize(value))
		}
	}
	return &out
}

// compact renders a list value on a single line.
func compact(v *yaml.Node) *yaml.Node {
	if v.Kind != yaml.SequenceNode {
		return Normalize(v)
	}
	c := tree.Clone(v)
	c.Style |= yaml.FlowStyle
	return c
}

func renameKey(key *yaml.Node, name string) *yaml.Node {
	k := tree.Clone(key)
	k.Value = name
	return k
}
