// Package converter runs one source-to-gateway transformation: it
// normalizes the source, synthesizes every path, assembles the output
// document and prunes the schemas inlined along the way.
package converter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/kolah/gatewaygen/internal/loader"
	"github.com/kolah/gatewaygen/internal/model"
	"github.com/kolah/gatewaygen/internal/normalize"
	"github.com/kolah/gatewaygen/internal/prune"
	"github.com/kolah/gatewaygen/internal/statics"
	"github.com/kolah/gatewaygen/internal/synth"
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

// Info carries the caller-supplied document metadata.
type Info struct {
	Title       string
	Description string
	Version     string
	ServersURL  string
	BasePath    string
}

type Options struct {
	Info  Info
	Synth synth.Options
	// Statics supplies the sections the source does not define. Nil uses
	// the embedded defaults.
	Statics *statics.Table
	// TransitivePrune repeats pruning until no schema is removed.
	TransitivePrune bool
	Logger          *slog.Logger
}

// Report summarizes a run.
type Report struct {
	Paths      int
	Methods    int
	Candidates []string
	Deleted    []string
	Retained   []string
}

type Converter struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options) (*Converter, error) {
	if opts.Statics == nil {
		table, err := statics.Default()
		if err != nil {
			return nil, fmt.Errorf("loading default statics: %w", err)
		}
		opts.Statics = table
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Converter{opts: opts, logger: logger}, nil
}

// Convert builds the gateway document from a loaded source. The source
// tree is left untouched.
func (c *Converter) Convert(source *yaml.Node) (*yaml.Node, Report, error) {
	var report Report
	// aliases are expanded first, their anchors may sit in parts that are
	// rewritten or dropped
	src := normalize.Normalize(tree.Expand(tree.Root(source)))

	validators := c.section(src, model.ExtValidators, c.opts.Statics.RequestValidators)
	synthOpts := c.opts.Synth
	if synthOpts.RequestValidator == "" {
		if keys := tree.Keys(validators); len(keys) > 0 {
			synthOpts.RequestValidator = keys[0]
		}
	}
	s := synth.New(synthOpts)

	paths := tree.NewMap()
	candidates := model.NewNameSet()
	for path, item := range tree.Pairs(tree.Get(src, "paths")) {
		out, names, err := s.Path(path, item, src)
		if err != nil {
			return nil, report, fmt.Errorf("path %s: %w", path, err)
		}
		candidates.Union(names)
		tree.Set(paths, path, out)

		report.Paths++
		report.Methods += len(out.Content)/2 - 1
		c.logger.Debug("synthesized path", "path", path, "methods", tree.Keys(out))
	}

	doc := tree.NewMap()
	tree.Set(doc, "openapi", tree.Str(version(src)))
	tree.Set(doc, "info", c.info())
	tree.Set(doc, "servers", c.servers())
	tree.Set(doc, "paths", paths)
	tree.Set(doc, "components", c.components(src))
	tree.Set(doc, model.ExtGatewayResponses, c.section(src, model.ExtGatewayResponses, c.opts.Statics.GatewayResponses))
	tree.Set(doc, model.ExtValidators, validators)

	res := prune.Prune(doc, candidates, prune.Options{
		Transitive: c.opts.TransitivePrune,
		Logger:     c.logger,
	})
	report.Candidates = candidates.Names()
	report.Deleted = res.Deleted
	report.Retained = res.Remaining.Names()

	c.logger.Info("converted document",
		"paths", report.Paths,
		"methods", report.Methods,
		"pruned", len(report.Deleted),
	)
	if len(report.Retained) > 0 {
		c.logger.Warn("inlined schemas still referenced", "schemas", report.Retained)
	}

	return doc, report, nil
}

func version(src *yaml.Node) string {
	if v := tree.GetString(src, "openapi"); v != "" {
		return v
	}
	return loader.DefaultVersion
}

func (c *Converter) info() *yaml.Node {
	n := tree.NewMap()
	for _, f := range []struct{ key, value string }{
		{"title", c.opts.Info.Title},
		{"description", c.opts.Info.Description},
		{"version", c.opts.Info.Version},
	} {
		if f.value != "" {
			tree.Set(n, f.key, tree.Str(f.value))
		}
	}
	return n
}

func (c *Converter) servers() *yaml.Node {
	basePath := tree.NewMap()
	tree.Set(basePath, "default", tree.Str(c.opts.Info.BasePath))
	variables := tree.NewMap()
	tree.Set(variables, "basePath", basePath)

	server := tree.NewMap()
	tree.Set(server, "url", tree.Str(c.opts.Info.ServersURL))
	tree.Set(server, "variables", variables)
	return tree.NewSeq(server)
}

// components copies the normalized source components and falls back to
// the static security schemes when the source defines none. The scheme
// every method requires is added from the statics when the source's own
// schemes lack it.
func (c *Converter) components(src *yaml.Node) *yaml.Node {
	components := tree.NewMap()
	if n := tree.Get(src, "components"); tree.IsMap(n) {
		components = tree.Clone(n)
	}

	fallback := c.opts.Statics.SecuritySchemes
	schemes := tree.Get(components, "securitySchemes")
	if !tree.IsMap(schemes) {
		if fallback == nil {
			c.logger.Warn("no security schemes defined")
			return components
		}
		schemes = tree.Clone(fallback)
		tree.Set(components, "securitySchemes", schemes)
	}

	name := c.securityScheme()
	if tree.Has(schemes, name) {
		return components
	}
	if scheme := tree.Get(fallback, name); scheme != nil {
		tree.Set(schemes, name, tree.Clone(scheme))
		c.logger.Debug("added required security scheme", "scheme", name)
	} else {
		c.logger.Warn("required security scheme is not defined", "scheme", name)
	}
	return components
}

func (c *Converter) securityScheme() string {
	if c.opts.Synth.SecurityScheme != "" {
		return c.opts.Synth.SecurityScheme
	}
	return synth.DefaultSecurityScheme
}

// section returns the source's copy of a top-level block, or the static
// fallback.
func (c *Converter) section(src *yaml.Node, key string, fallback *yaml.Node) *yaml.Node {
	if n := tree.Get(src, key); tree.IsMap(n) {
		return tree.Clone(n)
	}
	if fallback == nil {
		return tree.NewMap()
	}
	return tree.Clone(fallback)
}
