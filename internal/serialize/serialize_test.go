package serialize

import (
	"bytes"
	"testing"

	"github.com/kolah/gatewaygen/internal/tree"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func load(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return &doc
}

func TestYAMLQuotingAndIndent(t *testing.T) {
	doc := load(t, `
openapi: 3.0.1
paths:
  /x:
    get:
      parameters:
        - name: id
          in: path
          required: true
      responses:
        200:
          description: ok
        '404':
          description: missing
components:
  schemas:
    Status:
      type: string
      enum: [open, closed]
      maxLength: 5
`)

	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, doc))

	want := `openapi: "3.0.1"
paths:
  /x:
    get:
      parameters:
        - name: "id"
          in: "path"
          required: true
      responses:
        "200":
          description: "ok"
        "404":
          description: "missing"
components:
  schemas:
    Status:
      type: "string"
      enum: ["open", "closed"]
      maxLength: 5
`
	require.Equal(t, want, buf.String())
}

func TestYAMLDoesNotModifyInput(t *testing.T) {
	doc := load(t, "a: b\n")
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, doc))
	require.Equal(t, yaml.Style(0), tree.Get(tree.Root(doc), "a").Style)
}

func TestYAMLQuotesBuiltNodes(t *testing.T) {
	root := tree.NewMap()
	responses := tree.NewMap()
	tree.Set(responses, "200", tree.Str("ok"))
	tree.Set(root, "responses", responses)
	tree.Set(root, "version", tree.Str("1"))

	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, root))
	require.Equal(t, "responses:\n  \"200\": \"ok\"\nversion: \"1\"\n", buf.String())
}

func TestYAMLMultilineTemplate(t *testing.T) {
	doc := load(t, "template: |\n  {\"a\": 1}\n")
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, doc))
	require.Equal(t, "template: \"{\\\"a\\\": 1}\\n\"\n", buf.String())
}

func TestJSONPreservesOrder(t *testing.T) {
	doc := load(t, `
zeta: 1
alpha:
  flag: true
  none: null
  ratio: 0.5
  hex: 0x10
  list: [b, a]
  text: "<a & b>"
  inf: .inf
`)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, doc))

	want := `{
  "zeta": 1,
  "alpha": {
    "flag": true,
    "none": null,
    "ratio": 0.5,
    "hex": 16,
    "list": [
      "b",
      "a"
    ],
    "text": "<a & b>",
    "inf": ".inf"
  }
}
`
	require.Equal(t, want, buf.String())
}

func TestBytes(t *testing.T) {
	doc := load(t, "a: b\n")

	out, err := Bytes(doc, FormatYAML)
	require.NoError(t, err)
	require.Equal(t, "a: \"b\"\n", string(out))

	out, err = Bytes(doc, FormatJSON)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": \"b\"\n}\n", string(out))

	_, err = Bytes(doc, Format("xml"))
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"yaml", FormatYAML, false},
		{"YML", FormatYAML, false},
		{"json", FormatJSON, false},
		{"toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	require.Equal(t, FormatJSON, FormatForPath("out/api.JSON"))
	require.Equal(t, FormatYAML, FormatForPath("out/api.yaml"))
	require.Equal(t, FormatYAML, FormatForPath("api"))
}

func TestPlain(t *testing.T) {
	doc := load(t, "openapi: 3.0.1\nresponses:\n  200: {description: ok}\n")

	out, err := Plain(doc, FormatYAML)
	require.NoError(t, err)
	require.Equal(t, "openapi: 3.0.1\nresponses:\n  200: {description: ok}\n", string(out))

	out, err = Plain(doc, FormatJSON)
	require.NoError(t, err)
	require.Contains(t, string(out), `"openapi": "3.0.1"`)
}
