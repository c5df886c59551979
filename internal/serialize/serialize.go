// Package serialize renders a document tree as YAML or order-preserving
// JSON.
package serialize

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts yaml, yml and json, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// FormatForPath picks the format from a file extension, defaulting to
// YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Bytes renders doc in the given format with the gateway styling.
func Bytes(doc *yaml.Node, f Format) ([]byte, error) {
	return render(doc, f, YAML)
}

// Plain renders doc in the given format, keeping the scalar styles the
// tree already carries.
func Plain(doc *yaml.Node, f Format) ([]byte, error) {
	return render(doc, f, func(w io.Writer, doc *yaml.Node) error {
		return encodeYAML(w, tree.Root(doc))
	})
}

func render(doc *yaml.Node, f Format, writeYAML func(io.Writer, *yaml.Node) error) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatJSON:
		err = JSON(&buf, doc)
	case FormatYAML, "":
		err = writeYAML(&buf, doc)
	default:
		err = fmt.Errorf("unknown output format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAML writes doc with every string value double-quoted and two-space
// indentation. Response status keys are quoted as well, and sequences
// already in flow style stay inline. doc is not modified.
func YAML(w io.Writer, doc *yaml.Node) error {
	out := tree.Clone(tree.Root(doc))
	applyStyle(out, false)
	return encodeYAML(w, out)
}

func encodeYAML(w io.Writer, n *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

var statusKey = regexp.MustCompile(`^([1-5][0-9]{2}|[1-5]XX)$`)

func applyStyle(n *yaml.Node, underResponses bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == tree.TagStr {
			n.Style = yaml.DoubleQuotedStyle
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			applyStyle(item, false)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if underResponses && statusKey.MatchString(key.Value) {
				key.Tag = tree.TagStr
				key.Style = yaml.DoubleQuotedStyle
			} else if key.Kind == yaml.ScalarNode {
				key.Style = 0
			}
			applyStyle(value, key.Value == "responses")
		}
	}
}
