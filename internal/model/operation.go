package model

import (
	"strings"

	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

var methods = map[string]Method{
	"get":     MethodGet,
	"post":    MethodPost,
	"put":     MethodPut,
	"delete":  MethodDelete,
	"patch":   MethodPatch,
	"head":    MethodHead,
	"options": MethodOptions,
	"trace":   MethodTrace,
}

// ParseMethod maps a path item key to an HTTP method. Keys such as
// "parameters" or "summary" are not methods.
func ParseMethod(key string) (Method, bool) {
	m, ok := methods[strings.ToLower(key)]
	return m, ok
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
)

// Supported reports whether the gateway can bind parameters at this location.
func (l ParameterLocation) Supported() bool {
	switch l {
	case LocationPath, LocationQuery, LocationHeader:
		return true
	}
	return false
}

type Parameter struct {
	Name     string
	In       ParameterLocation
	Required bool
	Type     string
}

// Key identifies a parameter within one operation. Header names are
// case-insensitive.
func (p Parameter) Key() string {
	if p.In == LocationHeader {
		return string(p.In) + ":" + strings.ToLower(p.Name)
	}
	return string(p.In) + ":" + p.Name
}

func (p Parameter) Node() *yaml.Node {
	n := tree.NewMap()
	tree.Set(n, "name", tree.Str(p.Name))
	tree.Set(n, "in", tree.Str(string(p.In)))
	if p.Required {
		tree.Set(n, "required", tree.Bool(true))
	}
	tree.Set(n, "schema", typeSchema(p.Type))
	return n
}

// Response is a method response. A nil Content renders no content key.
type Response struct {
	Description string
	Headers     []string
	Content     *yaml.Node
}

type StatusResponse struct {
	Code     string
	Response Response
}

func (r Response) Node() *yaml.Node {
	n := tree.NewMap()
	tree.Set(n, "description", tree.Str(r.Description))
	if len(r.Headers) > 0 {
		headers := tree.NewMap()
		for _, h := range r.Headers {
			tree.Set(headers, h, stringSchema())
		}
		tree.Set(n, "headers", headers)
	}
	if r.Content != nil {
		tree.Set(n, "content", r.Content)
	}
	return n
}

// StatusKey builds a double-quoted response code key.
func StatusKey(code string) *yaml.Node {
	k := tree.Str(code)
	k.Style = yaml.DoubleQuotedStyle
	return k
}

func responsesNode(responses []StatusResponse) *yaml.Node {
	n := tree.NewMap()
	for _, r := range responses {
		tree.SetKey(n, StatusKey(r.Code), r.Response.Node())
	}
	return n
}

func parametersNode(params []Parameter) *yaml.Node {
	n := tree.NewSeq()
	for _, p := range params {
		n.Content = append(n.Content, p.Node())
	}
	return n
}

func typeSchema(t string) *yaml.Node {
	s := tree.NewMap()
	tree.Set(s, "type", tree.Str(t))
	return s
}

func stringSchema() *yaml.Node {
	h := tree.NewMap()
	tree.Set(h, "schema", typeSchema("string"))
	return h
}
