package sourcegen

import (
	"testing"

	"github.com/kolah/gatewaygen/internal/tree"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

const source = `
openapi: 3.0.1
paths:
  /v1/users:
    parameters:
      - name: tenant
        in: header
    get:
      parameters:
        - name: x-trace-id
          in: header
          required: true
          schema:
            type: string
        - &id001
          name: page
          in: query
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/EmptyResponse'
    post:
      parameters:
        - *id001
      responses:
        "200":
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/User'
    options:
      responses: {}
components:
  schemas:
    User:
      type: object
      properties:
        "&id":
          type: string
    EmptyResponse:
      type: object
    ResponseMessageUser:
      type: object
`

func load(t *testing.T) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(source), &doc))
	return &doc
}

func paramNames(op *yaml.Node) []string {
	var names []string
	for p := range tree.Items(tree.Get(op, "parameters")) {
		names = append(names, tree.GetString(p, "name"))
	}
	return names
}

func TestPrepare(t *testing.T) {
	out, res := Prepare(load(t), Options{})

	require.Equal(t, 2, res.Operations)
	require.Equal(t, 1, res.EmptyResponses)
	require.Equal(t, []string{"EmptyResponse", "ResponseMessageUser"}, res.RemovedSchemas)

	get := tree.Path(out, "paths", "/v1/users", "get")
	require.Equal(t, []string{"x-trace-id", "page", "User-Agent", "Content-Type", "Accept-Language", "x-forward-for"}, paramNames(get))
	require.False(t, tree.Has(tree.Path(get, "responses", "200"), "content"))

	post := tree.Path(out, "paths", "/v1/users", "post")
	require.Equal(t, []string{"page", "x-trace-id", "User-Agent", "Content-Type", "Accept-Language", "x-forward-for"}, paramNames(post))
	require.True(t, tree.Has(tree.Path(post, "responses", "200"), "content"))

	security := tree.Get(post, "security")
	require.Len(t, security.Content, 2)
	require.Equal(t, []string{BearerScheme}, tree.Keys(security.Content[0]))
	require.Equal(t, []string{APIKeyScheme}, tree.Keys(security.Content[1]))

	options := tree.Path(out, "paths", "/v1/users", "options")
	require.False(t, tree.Has(options, "security"))
	require.False(t, tree.Has(options, "parameters"))

	schemes := tree.Path(out, "components", "securitySchemes")
	require.Equal(t, []string{BearerScheme, APIKeyScheme}, tree.Keys(schemes))
	require.Equal(t, "JWT", tree.GetString(tree.Get(schemes, BearerScheme), "bearerFormat"))
	require.Equal(t, "x-api-key", tree.GetString(tree.Get(schemes, APIKeyScheme), "name"))

	require.Equal(t, []string{"User"}, tree.Keys(tree.Path(out, "components", "schemas")))
	require.Equal(t, []string{"name"}, tree.Keys(tree.Path(out, "components", "schemas", "User", "properties")))
}

func TestPrepareExpandsAnchors(t *testing.T) {
	out, _ := Prepare(load(t), Options{})

	rendered, err := yaml.Marshal(out)
	require.NoError(t, err)
	require.NotContains(t, string(rendered), "&id001")
	require.NotContains(t, string(rendered), "*id001")

	getPage := tree.Path(out, "paths", "/v1/users", "get", "parameters").Content[1]
	postPage := tree.Path(out, "paths", "/v1/users", "post", "parameters").Content[0]
	require.NotSame(t, getPage, postPage)
}

func TestPrepareDoesNotModifyInput(t *testing.T) {
	doc := load(t)
	before, err := yaml.Marshal(doc)
	require.NoError(t, err)

	Prepare(doc, Options{})

	after, err := yaml.Marshal(doc)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestPrepareCustomEmptySchema(t *testing.T) {
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(`
paths:
  /a:
    delete:
      responses:
        "200":
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/NoContent'
`), &doc))

	out, res := Prepare(&doc, Options{EmptyResponseSchema: "NoContent"})
	require.Equal(t, 1, res.EmptyResponses)
	require.Empty(t, res.RemovedSchemas)
	require.True(t, tree.Has(tree.Get(out, "components"), "securitySchemes"))
}
