package synth

import (
	"github.com/kolah/gatewaygen/internal/model"
	"github.com/kolah/gatewaygen/internal/resolver"
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

// parameterSet keeps parameters grouped by location, first occurrence of
// each (name, location) pair wins.
type parameterSet struct {
	seen    map[string]bool
	headers []model.Parameter
	query   []model.Parameter
	path    []model.Parameter
}

func newParameterSet() *parameterSet {
	ps := &parameterSet{seen: make(map[string]bool)}
	for _, h := range StandardHeaders() {
		ps.add(h)
	}
	return ps
}

func (ps *parameterSet) add(p model.Parameter) {
	if ps.seen[p.Key()] {
		return
	}
	ps.seen[p.Key()] = true
	switch p.In {
	case model.LocationHeader:
		ps.headers = append(ps.headers, p)
	case model.LocationQuery:
		ps.query = append(ps.query, p)
	case model.LocationPath:
		ps.path = append(ps.path, p)
	}
}

func (ps *parameterSet) all() []model.Parameter {
	out := make([]model.Parameter, 0, len(ps.headers)+len(ps.query)+len(ps.path))
	out = append(out, ps.headers...)
	out = append(out, ps.query...)
	return append(out, ps.path...)
}

// extraHeaders returns the headers declared by the source on top of the
// standard ones.
func (ps *parameterSet) extraHeaders() []model.Parameter {
	return ps.headers[len(StandardHeaders()):]
}

// parameters collects the operation's own parameters first, so they
// override path-level ones of the same name and location.
func (s *Synthesizer) parameters(path string, m model.Method, op, shared, doc *yaml.Node) (*parameterSet, *model.NameSet, error) {
	ps := newParameterSet()
	candidates := model.NewNameSet()

	var sources []*yaml.Node
	for p := range tree.Items(tree.Get(op, "parameters")) {
		sources = append(sources, p)
	}
	for p := range tree.Items(shared) {
		sources = append(sources, p)
	}

	for _, src := range sources {
		if ref := tree.GetString(src, "$ref"); ref != "" {
			target, err := resolver.Lookup(doc, ref)
			if err != nil {
				return nil, nil, err
			}
			src = target
		}

		name := tree.GetString(src, "name")
		in := model.ParameterLocation(tree.GetString(src, "in"))
		if !in.Supported() {
			return nil, nil, &UnsupportedParameterLocationError{
				Path:   path,
				Method: string(m),
				Name:   name,
				In:     string(in),
			}
		}

		schema := tree.Get(src, "schema")
		required := tree.GetBool(src, "required")

		switch in {
		case model.LocationQuery:
			names, err := s.queryParameters(ps, name, required, schema, doc)
			if err != nil {
				return nil, nil, err
			}
			candidates.Union(names)
		case model.LocationPath:
			t, err := schemaType(schema, doc)
			if err != nil {
				return nil, nil, err
			}
			ps.add(model.Parameter{Name: name, In: in, Required: true, Type: t})
		case model.LocationHeader:
			t, err := schemaType(schema, doc)
			if err != nil {
				return nil, nil, err
			}
			ps.add(model.Parameter{Name: name, In: in, Required: required, Type: t})
		}
	}

	return ps, candidates, nil
}

// queryParameters flattens a referenced object schema through the
// resolver. A reference to a schema without properties, and any inline
// schema, produce a single parameter. Every referenced schema is inlined
// and returned as a prune candidate.
func (s *Synthesizer) queryParameters(ps *parameterSet, name string, required bool, schema, doc *yaml.Node) (*model.NameSet, error) {
	candidates := model.NewNameSet()
	ref := tree.GetString(schema, "$ref")
	if ref != "" {
		target, err := resolver.Lookup(doc, ref)
		if err != nil {
			return nil, err
		}
		if tree.Has(target, "properties") {
			params, names, err := resolver.Resolve(ref, doc)
			if err != nil {
				return nil, err
			}
			for _, p := range params {
				ps.add(p)
			}
			return names, nil
		}
		if schemaName, ok := resolver.SchemaName(ref); ok {
			candidates.Add(schemaName)
		}
		schema = target
	}

	ps.add(model.Parameter{Name: name, In: model.LocationQuery, Required: required, Type: resolver.TypeOf(schema)})
	return candidates, nil
}

// schemaType reads the type of an inline schema, following one $ref.
func schemaType(schema, doc *yaml.Node) (string, error) {
	if ref := tree.GetString(schema, "$ref"); ref != "" {
		target, err := resolver.Lookup(doc, ref)
		if err != nil {
			return "", err
		}
		schema = target
	}
	return resolver.TypeOf(schema), nil
}
