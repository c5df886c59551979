// Package statics provides the gateway response table, the request
// validators and the fallback security scheme. The defaults are embedded;
// a file with the same shape can replace any of the sections.
package statics

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

//go:embed defaults.yaml
var defaults []byte

// Table holds the static sections. Every call to Default, Load or Parse
// builds fresh nodes, so callers may attach them to an output tree.
type Table struct {
	GatewayResponses  *yaml.Node
	RequestValidators *yaml.Node
	SecuritySchemes   *yaml.Node
}

func Default() (*Table, error) {
	return Parse(defaults)
}

// Load reads an override file. Sections missing from it fall back to the
// embedded defaults.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statics file: %w", err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base, err := Default()
	if err != nil {
		return nil, err
	}
	if table.GatewayResponses == nil {
		table.GatewayResponses = base.GatewayResponses
	}
	if table.RequestValidators == nil {
		table.RequestValidators = base.RequestValidators
	}
	if table.SecuritySchemes == nil {
		table.SecuritySchemes = base.SecuritySchemes
	}
	return table, nil
}

func Parse(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing statics: %w", err)
	}
	root := tree.Root(&doc)
	if root != nil && root.Kind != 0 && !tree.IsMap(root) {
		return nil, fmt.Errorf("parsing statics: top level must be a mapping")
	}

	t := &Table{}
	for key, section := range map[string]**yaml.Node{
		"gatewayResponses":  &t.GatewayResponses,
		"requestValidators": &t.RequestValidators,
		"securitySchemes":   &t.SecuritySchemes,
	} {
		n := tree.Get(root, key)
		if n == nil {
			continue
		}
		if !tree.IsMap(n) {
			return nil, fmt.Errorf("parsing statics: %s must be a mapping", key)
		}
		*section = n
	}
	return t, nil
}

// ValidatorName returns the first request validator, which operations
// reference by name.
func (t *Table) ValidatorName() string {
	keys := tree.Keys(t.RequestValidators)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// Categories lists the gateway response categories in table order.
func (t *Table) Categories() []string {
	return tree.Keys(t.GatewayResponses)
}
