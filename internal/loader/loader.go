// Package loader reads source documents into order-preserving node trees.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kolah/gatewaygen/internal/tree"
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	"go.yaml.in/yaml/v4"
)

// DefaultVersion is assumed when a document does not declare one.
const DefaultVersion = "3.0.1"

type Result struct {
	// Tree is the root mapping of the document.
	Tree     *yaml.Node
	Version  string
	Paths    int
	Schemas  int
	Warnings []string
	RawData  []byte
}

func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	config := &datamodel.DocumentConfiguration{
		BasePath:            filepath.Dir(absPath),
		AllowFileReferences: true,
	}

	res, err := loadWithConfig(data, config)
	if err != nil {
		return nil, withSource(err, path)
	}
	return res, nil
}

// Load parses a document held in memory.
func Load(data []byte) (*Result, error) {
	return loadWithConfig(data, nil)
}

func loadWithConfig(data []byte, config *datamodel.DocumentConfiguration) (*Result, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}
	if !tree.IsMap(tree.Get(root, "paths")) {
		return nil, &InvalidDocumentError{Reason: "paths must be a mapping"}
	}

	result := &Result{
		Tree:    root,
		Version: tree.GetString(root, "openapi"),
		RawData: data,
	}

	if result.Version == "" {
		result.Version = DefaultVersion
		result.Warnings = append(result.Warnings, "no openapi version declared; assuming "+DefaultVersion)
		return result, nil
	}
	if !strings.HasPrefix(result.Version, "3.") {
		return nil, &InvalidDocumentError{Reason: fmt.Sprintf("unsupported OpenAPI version: %s (only 3.x supported)", result.Version)}
	}

	result.Warnings = append(result.Warnings, inspect(data, config, result)...)
	return result, nil
}

// inspect builds the libopenapi model to count paths and schemas. Model
// errors are reported as warnings since transformation works on the raw
// tree and reports broken references itself.
func inspect(data []byte, config *datamodel.DocumentConfiguration, result *Result) []string {
	var doc libopenapi.Document
	var err error

	if config != nil {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return []string{"parsing OpenAPI document: " + err.Error()}
	}

	var warnings []string
	model, err := doc.BuildV3Model()
	if err != nil {
		warnings = append(warnings, "building OpenAPI model: "+err.Error())
	}
	if model == nil {
		return warnings
	}

	if model.Model.Paths != nil && model.Model.Paths.PathItems != nil {
		for range model.Model.Paths.PathItems.FromOldest() {
			result.Paths++
		}
	}
	if model.Model.Components != nil && model.Model.Components.Schemas != nil {
		for range model.Model.Components.Schemas.FromOldest() {
			result.Schemas++
		}
	}
	return warnings
}

// LoadTree reads a document fragment without requiring any section, as
// used for merge overlays.
func LoadTree(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	root, err := parseTree(data)
	if err != nil {
		return nil, withSource(err, path)
	}
	return root, nil
}

func parseTree(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidDocumentError{Reason: "malformed YAML or JSON", Err: err}
	}
	root := tree.Root(&doc)
	if !tree.IsMap(root) {
		return nil, &InvalidDocumentError{Reason: "document root must be a mapping"}
	}
	return root, nil
}

func withSource(err error, source string) error {
	var invalid *InvalidDocumentError
	if errors.As(err, &invalid) {
		invalid.Source = source
	}
	return err
}
