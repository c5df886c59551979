package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kolah/gatewaygen/internal/tree"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	res, err := LoadFile("testdata/petstore.yaml")
	require.NoError(t, err)

	require.Equal(t, "3.0.1", res.Version)
	require.Equal(t, 2, res.Paths)
	require.Equal(t, 2, res.Schemas)
	require.Equal(t, []string{"openapi", "info", "paths", "components"}, tree.Keys(res.Tree))
	require.NotEmpty(t, res.RawData)
}

func TestLoadJSON(t *testing.T) {
	res, err := Load([]byte(`{"openapi": "3.1.0", "info": {"title": "t", "version": "1"}, "paths": {"/b": {}, "/a": {}}}`))
	require.NoError(t, err)
	require.Equal(t, "3.1.0", res.Version)
	require.Equal(t, []string{"/b", "/a"}, tree.Keys(tree.Get(res.Tree, "paths")))
}

func TestLoadDefaultsVersion(t *testing.T) {
	res, err := Load([]byte("paths: {}\n"))
	require.NoError(t, err)
	require.Equal(t, DefaultVersion, res.Version)
	require.Len(t, res.Warnings, 1)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "paths: [unclosed"},
		{"scalar root", "just text"},
		{"missing paths", "openapi: 3.0.1\ninfo: {title: t, version: '1'}\n"},
		{"paths not a mapping", "openapi: 3.0.1\npaths: []\n"},
		{"swagger 2", "openapi: 2.0\npaths: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidDocument))
		})
	}
}

func TestLoadFileNamesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: [unclosed"), 0o644))

	_, err := LoadFile(path)
	var invalid *InvalidDocumentError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, path, invalid.Source)
	require.Contains(t, err.Error(), path)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/missing.yaml")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidDocument))
}

func TestLoadTree(t *testing.T) {
	root, err := LoadTree("testdata/petstore.yaml")
	require.NoError(t, err)
	require.True(t, tree.Has(root, "components"))

	path := filepath.Join(t.TempDir(), "fragment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("components: {schemas: {}}\n"), 0o644))
	root, err = LoadTree(path)
	require.NoError(t, err)
	require.False(t, tree.Has(root, "paths"))
}

func TestValidateOutput(t *testing.T) {
	data, err := os.ReadFile("testdata/petstore.yaml")
	require.NoError(t, err)

	messages, err := ValidateOutput(data)
	require.NoError(t, err)
	require.Empty(t, messages)

	messages, err = ValidateOutput([]byte("openapi: 3.0.1\npaths: {}\n"))
	require.NoError(t, err)
	require.NotEmpty(t, messages)
}
