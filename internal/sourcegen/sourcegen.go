// Package sourcegen prepares a service's exported OpenAPI document for
// gateway generation: every operation gets the standard headers and
// security requirements, empty-body markers are removed and anchors are
// expanded.
package sourcegen

import (
	"slices"
	"strings"

	"github.com/kolah/gatewaygen/internal/model"
	"github.com/kolah/gatewaygen/internal/resolver"
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

const (
	BearerScheme = "bearerAuth"
	APIKeyScheme = "api_key"

	// schemas with this prefix only describe message envelopes
	messageSchemaPrefix = "ResponseMessage"
)

// operations that receive headers and security
var preparedMethods = []model.Method{
	model.MethodGet,
	model.MethodPost,
	model.MethodPut,
	model.MethodDelete,
	model.MethodPatch,
}

func headers() []model.Parameter {
	return []model.Parameter{
		{Name: "x-trace-id", In: model.LocationHeader, Required: true, Type: "string"},
		{Name: "User-Agent", In: model.LocationHeader, Type: "string"},
		{Name: "Content-Type", In: model.LocationHeader, Type: "string"},
		{Name: "Accept-Language", In: model.LocationHeader, Type: "string"},
		{Name: "x-forward-for", In: model.LocationHeader, Type: "string"},
	}
}

type Options struct {
	// EmptyResponseSchema marks a 200 response without a body. Defaults
	// to EmptyResponse.
	EmptyResponseSchema string
}

type Result struct {
	Operations     int
	EmptyResponses int
	RemovedSchemas []string
}

// Prepare returns a prepared copy of doc.
func Prepare(doc *yaml.Node, opts Options) (*yaml.Node, Result) {
	if opts.EmptyResponseSchema == "" {
		opts.EmptyResponseSchema = "EmptyResponse"
	}

	var res Result
	out := tree.Expand(tree.Root(doc))
	renameKeys(out)

	for _, item := range tree.Pairs(tree.Get(out, "paths")) {
		for key, op := range tree.Pairs(item) {
			m, ok := model.ParseMethod(key)
			if !ok || !slices.Contains(preparedMethods, m) || !tree.IsMap(op) {
				continue
			}
			addHeaders(op)
			tree.Set(op, "security", security())
			if dropEmptyContent(op, opts.EmptyResponseSchema) {
				res.EmptyResponses++
			}
			res.Operations++
		}
	}

	components := tree.Get(out, "components")
	if components == nil {
		components = tree.NewMap()
		tree.Set(out, "components", components)
	}
	tree.Set(components, "securitySchemes", securitySchemes())
	res.RemovedSchemas = dropSchemas(tree.Get(components, "schemas"), opts.EmptyResponseSchema)

	return out, res
}

// addHeaders appends the standard headers the operation does not declare
// yet.
func addHeaders(op *yaml.Node) {
	params := tree.Get(op, "parameters")
	if !tree.IsSeq(params) {
		params = tree.NewSeq()
		tree.Set(op, "parameters", params)
	}

	declared := make(map[string]bool)
	for p := range tree.Items(params) {
		declared[model.Parameter{
			Name: tree.GetString(p, "name"),
			In:   model.ParameterLocation(tree.GetString(p, "in")),
		}.Key()] = true
	}
	for _, h := range headers() {
		if !declared[h.Key()] {
			params.Content = append(params.Content, h.Node())
		}
	}
}

func security() *yaml.Node {
	seq := tree.NewSeq()
	for _, name := range []string{BearerScheme, APIKeyScheme} {
		req := tree.NewMap()
		tree.Set(req, name, tree.NewSeq())
		seq.Content = append(seq.Content, req)
	}
	return seq
}

func securitySchemes() *yaml.Node {
	bearer := tree.NewMap()
	tree.Set(bearer, "type", tree.Str("http"))
	tree.Set(bearer, "scheme", tree.Str("bearer"))
	tree.Set(bearer, "bearerFormat", tree.Str("JWT"))

	apiKey := tree.NewMap()
	tree.Set(apiKey, "type", tree.Str("apiKey"))
	tree.Set(apiKey, "in", tree.Str("header"))
	tree.Set(apiKey, "name", tree.Str("x-api-key"))

	schemes := tree.NewMap()
	tree.Set(schemes, BearerScheme, bearer)
	tree.Set(schemes, APIKeyScheme, apiKey)
	return schemes
}

// dropEmptyContent removes the JSON body of a 200 response that points at
// the empty marker schema.
func dropEmptyContent(op *yaml.Node, emptySchema string) bool {
	ok := tree.Path(op, "responses", "200")
	ref := tree.GetString(tree.Path(ok, "content", "application/json", "schema"), "$ref")
	if ref == "" {
		return false
	}
	if name, isSchema := resolver.SchemaName(ref); !isSchema || name != emptySchema {
		return false
	}
	return tree.Delete(ok, "content")
}

func dropSchemas(schemas *yaml.Node, emptySchema string) []string {
	var removed []string
	for _, name := range tree.Keys(schemas) {
		if name == emptySchema || strings.HasPrefix(name, messageSchemaPrefix) {
			tree.Delete(schemas, name)
			removed = append(removed, name)
		}
	}
	return removed
}

// renameKeys rewrites the "&id" marker left in keys by anchor-emitting
// exporters to "name".
func renameKeys(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if strings.Contains(key.Value, "&id") {
				key.Value = strings.ReplaceAll(key.Value, "&id", "name")
			}
			renameKeys(n.Content[i+1])
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			renameKeys(c)
		}
	}
}
