package statics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kolah/gatewaygen/internal/tree"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	categories := table.Categories()
	require.Len(t, categories, 21)
	require.Equal(t, "AUTHORIZER_CONFIGURATION_ERROR", categories[0])
	require.Equal(t, "INTEGRATION_TIMEOUT", categories[20])

	codes := make(map[string]bool)
	for _, name := range categories {
		tmpl := tree.GetString(tree.Path(table.GatewayResponses, name, "responseTemplates"), "application/json")
		require.Contains(t, tmpl, "$context.error.messageString", name)
		start := strings.Index(tmpl, `"code": "`) + len(`"code": "`)
		codes[tmpl[start:start+7]] = true
	}
	require.Len(t, codes, 21)

	require.Equal(t, "400", tree.GetString(tree.Get(table.GatewayResponses, "BAD_REQUEST_PARAMETERS"), "statusCode"))
	require.Equal(t, "Validate body, query string parameters, and headers", table.ValidatorName())
	require.Equal(t, "x-api-key", tree.GetString(tree.Get(table.SecuritySchemes, "api_key"), "name"))
}

func TestDefaultReturnsFreshNodes(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	tree.Delete(a.GatewayResponses, "THROTTLED")

	b, err := Default()
	require.NoError(t, err)
	require.Len(t, b.Categories(), 21)
}

func TestLoadOverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gatewayResponses:
  DEFAULT_4XX:
    responseTemplates:
      application/json: '{"code": "X1"}'
`), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"DEFAULT_4XX"}, table.Categories())
	require.NotEmpty(t, table.ValidatorName())
	require.NotNil(t, tree.Get(table.SecuritySchemes, "api_key"))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "reading statics file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("gatewayResponses: [a, b]\n"), 0o644))
	_, err = Load(bad)
	require.ErrorContains(t, err, "gatewayResponses must be a mapping")
}
