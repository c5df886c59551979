package model

import (
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

const (
	ExtIntegration      = "x-amazon-apigateway-integration"
	ExtRequestValidator = "x-amazon-apigateway-request-validator"
	ExtGatewayResponses = "x-amazon-apigateway-gateway-responses"
	ExtValidators       = "x-amazon-apigateway-request-validators"
)

// KV is one entry of an ordered string mapping.
type KV struct {
	Key   string
	Value string
}

// Lookup returns the value stored under key.
func Lookup(kvs []KV, key string) (string, bool) {
	for _, kv := range kvs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

func kvNode(kvs []KV) *yaml.Node {
	n := tree.NewMap()
	for _, kv := range kvs {
		tree.Set(n, kv.Key, tree.Str(kv.Value))
	}
	return n
}

// IntegrationResponse maps backend statuses matching Pattern to a
// client-facing status.
type IntegrationResponse struct {
	Pattern            string
	StatusCode         string
	ResponseParameters []KV
	ResponseTemplates  []KV
}

func (r IntegrationResponse) Node() *yaml.Node {
	n := tree.NewMap()
	tree.Set(n, "statusCode", tree.Str(r.StatusCode))
	if len(r.ResponseParameters) > 0 {
		tree.Set(n, "responseParameters", kvNode(r.ResponseParameters))
	}
	if len(r.ResponseTemplates) > 0 {
		tree.Set(n, "responseTemplates", kvNode(r.ResponseTemplates))
	}
	return n
}

// IntegrationConfig is the gateway integration block of one method.
// Empty fields are not rendered, which lets the same type describe both
// the VPC link integrations and the mock preflight integration.
type IntegrationConfig struct {
	ConnectionID        string
	HTTPMethod          string
	URI                 string
	Responses           []IntegrationResponse
	RequestParameters   []KV
	RequestTemplates    []KV
	ConnectionType      string
	PassthroughBehavior string
	Type                string
}

// Response returns the integration response registered for pattern.
func (c IntegrationConfig) Response(pattern string) (IntegrationResponse, bool) {
	for _, r := range c.Responses {
		if r.Pattern == pattern {
			return r, true
		}
	}
	return IntegrationResponse{}, false
}

func (c IntegrationConfig) Node() *yaml.Node {
	n := tree.NewMap()
	if c.ConnectionID != "" {
		tree.Set(n, "connectionId", tree.Str(c.ConnectionID))
	}
	if c.HTTPMethod != "" {
		tree.Set(n, "httpMethod", tree.Str(c.HTTPMethod))
	}
	if c.URI != "" {
		tree.Set(n, "uri", tree.Str(c.URI))
	}
	responses := tree.NewMap()
	for _, r := range c.Responses {
		tree.Set(responses, r.Pattern, r.Node())
	}
	tree.Set(n, "responses", responses)
	if len(c.RequestParameters) > 0 {
		tree.Set(n, "requestParameters", kvNode(c.RequestParameters))
	}
	if len(c.RequestTemplates) > 0 {
		tree.Set(n, "requestTemplates", kvNode(c.RequestTemplates))
	}
	if c.ConnectionType != "" {
		tree.Set(n, "connectionType", tree.Str(c.ConnectionType))
	}
	if c.PassthroughBehavior != "" {
		tree.Set(n, "passthroughBehavior", tree.Str(c.PassthroughBehavior))
	}
	if c.Type != "" {
		tree.Set(n, "type", tree.Str(c.Type))
	}
	return n
}

// MethodConfig is the synthesized definition of one (path, method) pair.
type MethodConfig struct {
	OperationID      string
	Parameters       []Parameter
	RequestBody      *yaml.Node
	Responses        []StatusResponse
	Security         []string
	RequestValidator string
	Integration      IntegrationConfig
}

// Response returns the method response for a status code.
func (m MethodConfig) Response(code string) (Response, bool) {
	for _, r := range m.Responses {
		if r.Code == code {
			return r.Response, true
		}
	}
	return Response{}, false
}

func (m MethodConfig) Node() *yaml.Node {
	n := tree.NewMap()
	tree.Set(n, "operationId", tree.Str(m.OperationID))
	tree.Set(n, "parameters", parametersNode(m.Parameters))
	if m.RequestBody != nil {
		tree.Set(n, "requestBody", m.RequestBody)
	}
	tree.Set(n, "responses", responsesNode(m.Responses))
	if len(m.Security) > 0 {
		security := tree.NewSeq()
		for _, name := range m.Security {
			req := tree.NewMap()
			tree.Set(req, name, tree.NewSeq())
			security.Content = append(security.Content, req)
		}
		tree.Set(n, "security", security)
	}
	if m.RequestValidator != "" {
		tree.Set(n, ExtRequestValidator, tree.Str(m.RequestValidator))
	}
	tree.Set(n, ExtIntegration, m.Integration.Node())
	return n
}

// OptionsConfig is the CORS preflight method synthesized for a path.
type OptionsConfig struct {
	Parameters     []Parameter
	AllowedMethods []string
	Responses      []StatusResponse
	Integration    IntegrationConfig
}

func (o OptionsConfig) Node() *yaml.Node {
	n := tree.NewMap()
	if len(o.Parameters) > 0 {
		tree.Set(n, "parameters", parametersNode(o.Parameters))
	}
	tree.Set(n, "responses", responsesNode(o.Responses))
	tree.Set(n, ExtIntegration, o.Integration.Node())
	return n
}
