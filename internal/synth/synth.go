// Package synth builds the gateway-side definition of every operation:
// parameters, responses, security and the integration block, plus the
// CORS preflight method of each path.
package synth

import (
	"strings"

	"github.com/kolah/gatewaygen/internal/model"
	"github.com/kolah/gatewaygen/internal/resolver"
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

const (
	headerAllowOrigin      = "Access-Control-Allow-Origin"
	headerAllowCredentials = "Access-Control-Allow-Credentials"
	headerAllowMethods     = "Access-Control-Allow-Methods"
	headerAllowHeaders     = "Access-Control-Allow-Headers"
	headerTraceID          = "x-trace-id"
)

// StandardHeaders returns the headers every method declares, in order.
func StandardHeaders() []model.Parameter {
	return []model.Parameter{
		{Name: "x-trace-id", In: model.LocationHeader, Required: true, Type: "string"},
		{Name: "Content-Type", In: model.LocationHeader, Type: "string"},
		{Name: "Accept-Language", In: model.LocationHeader, Type: "string"},
		{Name: "User-Agent", In: model.LocationHeader, Type: "string"},
		{Name: "Authorization", In: model.LocationHeader, Required: true, Type: "string"},
		{Name: "cookie", In: model.LocationHeader, Type: "string"},
		{Name: "x-forward-for", In: model.LocationHeader, Type: "string"},
	}
}

// response codes every method declares, in output order
var responseCodes = []string{"404", "200", "400", "401", "500", "403"}

var responseHeaders = []string{headerTraceID, headerAllowOrigin, headerAllowCredentials}

type Synthesizer struct {
	opts Options
}

func New(opts Options) *Synthesizer {
	return &Synthesizer{opts: opts.withDefaults()}
}

// Path synthesizes every method of a path item plus its OPTIONS preflight.
// Keys that are not HTTP methods and a source OPTIONS method are skipped.
func (s *Synthesizer) Path(path string, item, doc *yaml.Node) (*yaml.Node, *model.NameSet, error) {
	out := tree.NewMap()
	candidates := model.NewNameSet()
	shared := tree.Get(item, "parameters")

	var methods []string
	var pathParams []model.Parameter
	seen := make(map[string]bool)

	for key, op := range tree.Pairs(item) {
		m, ok := model.ParseMethod(key)
		if !ok || m == model.MethodOptions {
			continue
		}

		cfg, names, err := s.method(path, m, op, shared, doc)
		if err != nil {
			return nil, nil, err
		}
		candidates.Union(names)
		tree.Set(out, strings.ToLower(key), cfg.Node())
		methods = append(methods, string(m))

		for _, p := range cfg.Parameters {
			if p.In == model.LocationPath && !seen[p.Name] {
				seen[p.Name] = true
				pathParams = append(pathParams, p)
			}
		}
	}

	tree.Set(out, "options", s.Options(methods, pathParams).Node())
	return out, candidates, nil
}

// Method synthesizes one operation. The returned set holds the schemas
// inlined while flattening query parameters.
func (s *Synthesizer) Method(path string, m model.Method, op, doc *yaml.Node) (model.MethodConfig, *model.NameSet, error) {
	return s.method(path, m, op, nil, doc)
}

func (s *Synthesizer) method(path string, m model.Method, op, shared, doc *yaml.Node) (model.MethodConfig, *model.NameSet, error) {
	empty := s.isEmptyResponse(op)

	params, candidates, err := s.parameters(path, m, op, shared, doc)
	if err != nil {
		return model.MethodConfig{}, nil, err
	}

	cfg := model.MethodConfig{
		OperationID:      tree.GetString(op, "operationId"),
		Parameters:       params.all(),
		Responses:        s.responses(op, empty),
		Security:         []string{s.opts.SecurityScheme},
		RequestValidator: s.opts.RequestValidator,
		Integration:      s.integration(path, m, params, empty),
	}
	if body := tree.Get(op, "requestBody"); body != nil {
		cfg.RequestBody = tree.Clone(body)
	}
	return cfg, candidates, nil
}

// isEmptyResponse reports whether the 200 JSON body is the empty marker
// schema.
func (s *Synthesizer) isEmptyResponse(op *yaml.Node) bool {
	schema := tree.Path(op, "responses", "200", "content", "application/json", "schema")
	ref := tree.GetString(schema, "$ref")
	if ref == "" {
		return false
	}
	name, ok := resolver.SchemaName(ref)
	return ok && name == s.opts.EmptyResponseSchema
}

func (s *Synthesizer) responses(op *yaml.Node, empty bool) []model.StatusResponse {
	out := make([]model.StatusResponse, 0, len(responseCodes))
	for _, code := range responseCodes {
		if code == "200" {
			out = append(out, model.StatusResponse{Code: code, Response: s.successResponse(op, empty)})
			continue
		}
		out = append(out, model.StatusResponse{Code: code, Response: s.errorResponse(code)})
	}
	return out
}

func (s *Synthesizer) successResponse(op *yaml.Node, empty bool) model.Response {
	r := model.Response{
		Description: "200 response",
		Headers:     responseHeaders,
	}
	if content := tree.Path(op, "responses", "200", "content"); content != nil && !empty {
		r.Content = tree.Clone(content)
	}
	return r
}

func (s *Synthesizer) errorResponse(code string) model.Response {
	schema := tree.NewMap()
	tree.Set(schema, "$ref", tree.Str(resolver.SchemaRef(s.opts.ErrorSchema)))
	media := tree.NewMap()
	tree.Set(media, "schema", schema)
	content := tree.NewMap()
	tree.Set(content, "application/json", media)

	return model.Response{
		Description: code + " response",
		Headers:     responseHeaders,
		Content:     content,
	}
}

func emptyContent() *yaml.Node {
	return tree.NewMap()
}
