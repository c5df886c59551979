package resolver

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kolah/gatewaygen/internal/tree"
	"go.yaml.in/yaml/v4"
)

// SchemaPrefix is the pointer prefix of component schemas.
const SchemaPrefix = "#/components/schemas/"

// SchemaRef builds the pointer to a component schema.
func SchemaRef(name string) string {
	return SchemaPrefix + escape(name)
}

// Segments splits a local JSON pointer into unescaped segments.
func Segments(ref string) ([]string, error) {
	frag, ok := strings.CutPrefix(ref, "#")
	if !ok {
		return nil, &BrokenReferenceError{Ref: ref, Message: "only local references are supported"}
	}
	if decoded, err := url.PathUnescape(frag); err == nil {
		frag = decoded
	}
	if frag == "" {
		return nil, nil
	}
	if !strings.HasPrefix(frag, "/") {
		return nil, &BrokenReferenceError{Ref: ref, Message: "pointer must start with '/'"}
	}
	parts := strings.Split(frag[1:], "/")
	for i, p := range parts {
		parts[i] = unescape(p)
	}
	return parts, nil
}

// SchemaName returns the component schema a pointer names, including
// pointers into a schema such as "#/components/schemas/Pet/properties/id".
func SchemaName(ref string) (string, bool) {
	segs, err := Segments(ref)
	if err != nil || len(segs) < 3 || segs[0] != "components" || segs[1] != "schemas" {
		return "", false
	}
	return segs[2], true
}

// Lookup dereferences a local pointer against doc.
func Lookup(doc *yaml.Node, ref string) (*yaml.Node, error) {
	segs, err := Segments(ref)
	if err != nil {
		return nil, err
	}
	cur := tree.Root(doc)
	for _, seg := range segs {
		switch {
		case tree.IsMap(cur):
			if !tree.Has(cur, seg) {
				return nil, &BrokenReferenceError{Ref: ref, Message: fmt.Sprintf("%q not found", seg)}
			}
			cur = tree.Get(cur, seg)
		case tree.IsSeq(cur):
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.Content) {
				return nil, &BrokenReferenceError{Ref: ref, Message: fmt.Sprintf("index %q out of range", seg)}
			}
			cur = cur.Content[idx]
		default:
			return nil, &BrokenReferenceError{Ref: ref, Message: fmt.Sprintf("cannot descend into %q", seg)}
		}
	}
	return cur, nil
}

func lastSegment(ref string) string {
	segs, _ := Segments(ref)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

func unescape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
