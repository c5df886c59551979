// Package resolver flattens a referenced object schema into the list of
// query parameters the gateway binds by name.
package resolver

import (
	"fmt"
	"slices"

	"github.com/kolah/gatewaygen/internal/model"
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

// MaxDepth bounds the chain of nested schema references followed while
// flattening.
const MaxDepth = 32

type resolution struct {
	doc        *yaml.Node
	params     []model.Parameter
	candidates *model.NameSet
	chain      []string
	// required lists the leaf names the referenced schema requires
	required map[string]bool
}

// Resolve dereferences ref and returns one query parameter per leaf
// property, in declaration order. Nested object references are flattened
// with dotted names ("filter.name"). The returned set holds every schema
// that was inlined and may be pruned once the output is assembled.
func Resolve(ref string, doc *yaml.Node) ([]model.Parameter, *model.NameSet, error) {
	r := &resolution{
		doc:        tree.Root(doc),
		candidates: model.NewNameSet(),
	}

	schema, err := r.schema(ref)
	if err != nil {
		return nil, nil, err
	}

	r.chain = append(r.chain, ref)
	r.required = requiredSet(schema)
	if err := r.properties("", schema); err != nil {
		return nil, nil, err
	}
	r.candidates.Add(lastSegment(ref))

	return r.params, r.candidates, nil
}

func (r *resolution) schema(ref string) (*yaml.Node, error) {
	schema, err := Lookup(r.doc, ref)
	if err != nil {
		return nil, err
	}
	if !tree.IsMap(schema) {
		return nil, &BrokenReferenceError{Ref: ref, Message: "target is not a schema object"}
	}
	return schema, nil
}

// properties emits the leaves of schema. A leaf is required when its own
// name is listed in the required list of the referenced schema, at any
// nesting depth.
func (r *resolution) properties(prefix string, schema *yaml.Node) error {
	for name, prop := range tree.Pairs(tree.Get(schema, "properties")) {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if ref := tree.GetString(prop, "$ref"); ref != "" {
			if err := r.nested(path, ref); err != nil {
				return err
			}
			continue
		}

		r.params = append(r.params, model.Parameter{
			Name:     path,
			In:       model.LocationQuery,
			Required: r.required[name],
			Type:     TypeOf(prop),
		})
	}
	return nil
}

func (r *resolution) nested(path, ref string) error {
	if slices.Contains(r.chain, ref) {
		return &BrokenReferenceError{Ref: ref, Circular: true, Message: fmt.Sprintf("reached again at %q", path)}
	}
	if len(r.chain) >= MaxDepth {
		return &BrokenReferenceError{Ref: ref, Circular: true, Message: fmt.Sprintf("nesting deeper than %d at %q", MaxDepth, path)}
	}

	schema, err := r.schema(ref)
	if err != nil {
		return err
	}

	r.chain = append(r.chain, ref)
	defer func() { r.chain = r.chain[:len(r.chain)-1] }()

	if err := r.properties(path, schema); err != nil {
		return err
	}
	r.candidates.Add(lastSegment(ref))
	return nil
}

// TypeOf returns the declared type of a schema, "string" when absent.
// OpenAPI 3.1 type lists yield their first non-null entry.
func TypeOf(schema *yaml.Node) string {
	t := tree.Get(schema, "type")
	if s, ok := tree.StrValue(t); ok && s != "" {
		return s
	}
	for item := range tree.Items(t) {
		if item.Value != "" && item.Value != "null" {
			return item.Value
		}
	}
	return "string"
}

func requiredSet(schema *yaml.Node) map[string]bool {
	names := make(map[string]bool)
	for item := range tree.Items(tree.Get(schema, "required")) {
		names[item.Value] = true
	}
	return names
}
