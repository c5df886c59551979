package prune

import (
	"github.com/kolah/gatewaygen/internal/resolver"
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

// referencedSchemas collects the names of every schema a pointer in doc
// targets: $ref values and discriminator mapping values.
func referencedSchemas(doc *yaml.Node) map[string]bool {
	refs := make(map[string]bool)
	collect(doc, refs)
	return refs
}

func collect(n *yaml.Node, refs map[string]bool) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			collect(c, refs)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			switch key.Value {
			case "$ref":
				addRef(value, refs)
			case "discriminator":
				for _, target := range tree.Pairs(tree.Get(value, "mapping")) {
					addRef(target, refs)
				}
			}
			collect(value, refs)
		}
	}
}

func addRef(n *yaml.Node, refs map[string]bool) {
	ref, ok := tree.StrValue(n)
	if !ok {
		return
	}
	if name, ok := resolver.SchemaName(ref); ok {
		refs[name] = true
	}
}
