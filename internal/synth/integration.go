package synth

import (
	"strings"

	"github.com/kolah/gatewaygen/internal/model"
)

const (
	stageHostPrefix     = "https://${stageVariables.url}"
	passthroughTemplate = "#set($inputRoot = $input.path('$'))"
	preflightHeaders    = "'x-trace-id,x-api-key,Authorization,Cache-Control,Content-Type'"
)

// backend status patterns and the client-facing status they map to
var integrationStatuses = []struct {
	pattern string
	code    string
}{
	{"^200$", "200"},
	{"^500$", "500"},
	{"^400$", "400"},
	{"^401$|^302$", "401"},
	{"^404$", "404"},
	{"^403$", "403"},
}

// order in which the standard headers are forwarded to the backend
var forwardedHeaders = []string{
	"Content-Type",
	"x-forward-for",
	"x-trace-id",
	"cookie",
	"Accept-Language",
	"Authorization",
	"User-Agent",
}

// UpstreamURI splices the backend's /api prefix after the first three
// characters of the path (the service segment, e.g. "/v1") and points it
// at the stage's backend host.
func UpstreamURI(path string) string {
	split := min(3, len(path))
	return stageHostPrefix + path[:split] + "/api" + path[split:]
}

func (s *Synthesizer) corsParameters() []model.KV {
	return []model.KV{
		{Key: "method.response.header." + headerAllowCredentials, Value: "'true'"},
		{Key: "method.response.header." + headerAllowOrigin, Value: s.opts.FrontendOrigin},
	}
}

func (s *Synthesizer) integration(path string, m model.Method, ps *parameterSet, empty bool) model.IntegrationConfig {
	cfg := model.IntegrationConfig{
		ConnectionID:        s.opts.ConnectionID,
		HTTPMethod:          string(m),
		URI:                 UpstreamURI(path),
		ConnectionType:      "VPC_LINK",
		PassthroughBehavior: "when_no_templates",
		Type:                "http",
	}

	for _, st := range integrationStatuses {
		r := model.IntegrationResponse{
			Pattern:            st.pattern,
			StatusCode:         st.code,
			ResponseParameters: s.corsParameters(),
		}
		if st.code == "200" && !empty {
			r.ResponseTemplates = []model.KV{{Key: "application/json", Value: passthroughTemplate}}
		}
		cfg.Responses = append(cfg.Responses, r)
	}

	for _, h := range forwardedHeaders {
		cfg.RequestParameters = append(cfg.RequestParameters, forward("header", h))
	}
	for _, p := range ps.extraHeaders() {
		cfg.RequestParameters = append(cfg.RequestParameters, forward("header", p.Name))
	}
	for _, p := range ps.query {
		cfg.RequestParameters = append(cfg.RequestParameters, forward("querystring", p.Name))
	}
	for _, p := range ps.path {
		cfg.RequestParameters = append(cfg.RequestParameters, forward("path", p.Name))
	}
	return cfg
}

func forward(location, name string) model.KV {
	return model.KV{
		Key:   "integration.request." + location + "." + name,
		Value: "method.request." + location + "." + name,
	}
}

// Options builds the CORS preflight of a path whose methods are given in
// declaration order. Path parameters are declared so the gateway can route
// preflight requests on templated paths.
func (s *Synthesizer) Options(methods []string, pathParams []model.Parameter) model.OptionsConfig {
	allowed := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		allowed = append(allowed, strings.ToUpper(m))
	}
	allowed = append(allowed, string(model.MethodOptions))

	params := make([]model.Parameter, 0, len(pathParams))
	for _, p := range pathParams {
		p.In = model.LocationPath
		p.Required = true
		params = append(params, p)
	}

	return model.OptionsConfig{
		Parameters:     params,
		AllowedMethods: allowed,
		Responses: []model.StatusResponse{{
			Code: "200",
			Response: model.Response{
				Description: "200 response",
				Headers:     []string{headerAllowOrigin, headerAllowMethods, headerAllowCredentials, headerAllowHeaders},
				Content:     emptyContent(),
			},
		}},
		Integration: model.IntegrationConfig{
			Responses: []model.IntegrationResponse{{
				Pattern:    "default",
				StatusCode: "200",
				ResponseParameters: []model.KV{
					{Key: "method.response.header." + headerAllowCredentials, Value: "'true'"},
					{Key: "method.response.header." + headerAllowMethods, Value: "'" + strings.Join(allowed, ",") + "'"},
					{Key: "method.response.header." + headerAllowHeaders, Value: preflightHeaders},
					{Key: "method.response.header." + headerAllowOrigin, Value: s.opts.FrontendOrigin},
				},
			}},
			RequestTemplates:    []model.KV{{Key: "application/json", Value: `{"statusCode": 200}`}},
			PassthroughBehavior: "when_no_match",
			Type:                "mock",
		},
	}
}
