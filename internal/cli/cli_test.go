package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const apiDocument = `openapi: 3.0.1
info:
  title: Users
  version: "1"
paths:
  /v1/users/{id}:
    get:
      operationId: getUser
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/User'
components:
  schemas:
    User:
      type: object
      properties:
        name:
          type: string
          x-maxLength: 40
    ResponseHeader:
      type: object
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := RootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "api.yaml", apiDocument)
	output := filepath.Join(dir, "out", "gateway.yaml")

	_, stderr, err := run(t, "generate",
		"--input", input,
		"--output", output,
		"--frontend-url", "https://app.example.com",
		"--connection-id", "vpc-1",
		"--title", "Users API",
		"--version", "1.0",
		"--servers-url", "https://api.example.com/{basePath}",
		"--base-path", "users",
	)
	require.NoError(t, err)
	require.Contains(t, stderr, "Generated 1 paths, 1 methods")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, `title: "Users API"`)
	require.Contains(t, out, `"200":`)
	require.Contains(t, out, `maxLength: 40`)
	require.Contains(t, out, `uri: "https://${stageVariables.url}/v1/api/users/{id}"`)
	require.Contains(t, out, `"'https://app.example.com'"`)
}

func TestGenerateJSONToStdout(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "api.yaml", apiDocument)
	writeFile(t, dir, "gatewaygen.yaml", `
gateway:
  frontend-url: https://app.example.com
  connection-id: vpc-1
  title: Users API
  version: "1.0"
  servers-url: https://api.example.com
  base-path: users
`)

	stdout, _, err := run(t, "generate",
		"--config", filepath.Join(dir, "gatewaygen.yaml"),
		"--input", input,
		"--format", "json",
	)
	require.NoError(t, err)
	require.Contains(t, stdout, `"openapi": "3.0.1"`)
	require.Contains(t, stdout, `"x-amazon-apigateway-integration": {`)
}

func TestGenerateMissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := run(t, "generate", "--input", "api.yaml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "frontend-url")
}

func TestGenerateInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "api.yaml", apiDocument)

	_, _, err := run(t, "generate",
		"--log-level", "loud",
		"--input", input,
		"--frontend-url", "x", "--connection-id", "x", "--title", "x",
		"--version", "x", "--servers-url", "x", "--base-path", "x",
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid log level")
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", "openapi: 3.0.1\npaths:\n  /x:\n    get:\n      operationId: getX\n")
	overlay := writeFile(t, dir, "overlay.yaml", "paths:\n  /x:\n    post:\n      operationId: postX\n")

	stdout, _, err := run(t, "merge", base, overlay)
	require.NoError(t, err)
	require.Equal(t, "openapi: 3.0.1\npaths:\n  /x:\n    get:\n      operationId: getX\n    post:\n      operationId: postX\n", stdout)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "api.yaml", "b: 1\na: [x]\n")
	output := filepath.Join(dir, "api.json")

	_, _, err := run(t, "convert", input, output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    \"x\"\n  ]\n}\n", string(data))
}

func TestOpenAPI(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "api.yaml", apiDocument)

	stdout, stderr, err := run(t, "openapi", input)
	require.NoError(t, err)
	require.Contains(t, stderr, "Prepared 1 operations")
	require.Contains(t, stdout, "bearerAuth:")
	require.Contains(t, stdout, "name: x-forward-for")
}

func TestArgs(t *testing.T) {
	_, _, err := run(t, "merge", "only-one.yaml")
	require.Error(t, err)

	_, _, err = run(t, "convert", "a.yaml", "b.json", "--format", "xml")
	require.Error(t, err)
}
