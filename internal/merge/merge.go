// Package merge folds a specification fragment into a base document.
package merge

import (
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

// Sections lists the top-level keys taken from the overlay. Everything
// else in the base document is left untouched.
var Sections = []string{"components", "paths"}

// Merge deep-merges the overlay's components and paths into base and
// returns base. Mappings merge key by key; any other value, sequences
// included, replaces the base value. Keys new to base are appended in
// overlay order. Overlay values are copied with their aliases expanded,
// so base never shares nodes with overlay or refers to its anchors.
func Merge(base, overlay *yaml.Node) *yaml.Node {
	dst, src := tree.Root(base), tree.Root(overlay)
	if !tree.IsMap(dst) || !tree.IsMap(src) {
		return base
	}
	for _, section := range Sections {
		if v := tree.Get(src, section); v != nil {
			mergeValue(dst, tree.Str(section), v)
		}
	}
	return base
}

func mergeValue(dst, key, v *yaml.Node) {
	if v.Kind == yaml.AliasNode {
		v = v.Alias
	}
	cur := tree.Get(dst, key.Value)
	if !tree.IsMap(cur) || !tree.IsMap(v) {
		tree.SetKey(dst, tree.Clone(key), tree.Expand(v))
		return
	}
	for i := 0; i+1 < len(v.Content); i += 2 {
		mergeValue(cur, v.Content[i], v.Content[i+1])
	}
}
