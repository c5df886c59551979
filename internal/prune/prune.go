// Package prune removes schemas that were inlined during synthesis and are
// no longer referenced by the assembled document.
package prune

import (
	"log/slog"

	"github.com/kolah/gatewaygen/internal/model"
	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

type Options struct {
	// Transitive repeats the reachability pass until no schema is deleted,
	// so schemas orphaned by an earlier deletion are removed too.
	Transitive bool
	// Logger receives the pass summary. Nil disables logging.
	Logger *slog.Logger
}

type Result struct {
	// Deleted lists the removed schemas in candidate order.
	Deleted []string
	// Remaining holds the candidates that are still referenced.
	Remaining *model.NameSet
}

// Prune deletes every candidate from components.schemas that no pointer in
// doc targets. References are collected once per pass, so a schema that
// was only referenced by a schema deleted in the same pass survives unless
// opts.Transitive is set. doc is modified in place.
func Prune(doc *yaml.Node, candidates *model.NameSet, opts Options) Result {
	res := Result{Remaining: model.NewNameSet(candidates.Names()...)}
	schemas := tree.Path(tree.Root(doc), "components", "schemas")

	for {
		deleted := pass(doc, schemas, res.Remaining)
		res.Deleted = append(res.Deleted, deleted...)
		if !opts.Transitive || len(deleted) == 0 {
			break
		}
	}

	if opts.Logger != nil {
		opts.Logger.Debug("pruned schemas",
			"candidates", candidates.Len(),
			"deleted", res.Deleted,
			"still_referenced", res.Remaining.Names(),
		)
	}
	return res
}

func pass(doc, schemas *yaml.Node, remaining *model.NameSet) []string {
	if remaining.Len() == 0 {
		return nil
	}
	refs := referencedSchemas(doc)

	var deleted []string
	for _, name := range remaining.Names() {
		if refs[name] {
			continue
		}
		remaining.Remove(name)
		if tree.Delete(schemas, name) {
			deleted = append(deleted, name)
		}
	}
	return deleted
}
