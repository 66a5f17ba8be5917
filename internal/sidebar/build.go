package sidebar

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Spec is the declarative input: trees in declaration order.
type Spec struct {
	Trees []TreeSpec
}

// TreeSpec declares one tree. Items is a list whose elements are strings
// or maps in one of the accepted node shapes.
type TreeSpec struct {
	Name   string
	Items  any
	Source string
}

type buildConfig struct {
	maxDepth int
}

// BuildOption tunes Build.
type BuildOption func(*buildConfig)

// WithMaxDepth rejects categories nested deeper than n levels. Zero means no limit.
func WithMaxDepth(n int) BuildOption {
	return func(c *buildConfig) { c.maxDepth = n }
}

// Build turns a declarative spec into a registry, preserving declaration
// order at every level. It stops at the first malformed node.
func Build(spec Spec, opts ...BuildOption) (*Registry, error) {
	var cfg buildConfig
	for _, o := range opts {
		o(&cfg)
	}

	reg := newRegistry()
	for _, ts := range spec.Trees {
		b := builder{tree: ts.Name, cfg: cfg}
		if strings.TrimSpace(ts.Name) == "" {
			return nil, b.malformed(nil, ts.Name, "tree name must not be empty")
		}
		items, err := b.items(ts.Items, nil, 0)
		if err != nil {
			return nil, err
		}
		reg.add(&Tree{Name: ts.Name, Items: items, Source: ts.Source})
	}
	return reg, nil
}

type builder struct {
	tree string
	cfg  buildConfig
}

func (b builder) malformed(path []int, v any, format string, args ...any) error {
	p := make([]int, len(path))
	copy(p, path)
	return &MalformedNodeError{Tree: b.tree, Path: p, Reason: fmt.Sprintf(format, args...), Value: v}
}

func (b builder) items(raw any, path []int, depth int) ([]Node, error) {
	list, ok := asList(raw)
	if !ok {
		return nil, b.malformed(path, raw, "items must be a list, got %T", raw)
	}
	nodes := make([]Node, 0, len(list))
	for i, el := range list {
		n, err := b.node(el, append(path[:len(path):len(path)], i), depth)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (b builder) node(raw any, path []int, depth int) (Node, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil, b.malformed(path, raw, "document id must not be empty")
		}
		return Leaf{ID: v}, nil
	case Leaf:
		if v.ID == "" {
			return nil, b.malformed(path, raw, "document id must not be empty")
		}
		return v, nil
	}

	m, ok := asMap(raw)
	if !ok {
		switch raw.(type) {
		case int, int64, uint64, float64, bool:
			return nil, b.malformed(path, raw, "expected a document id or a node object, got %T %v (quote it to use it as an id)", raw, raw)
		}
		return nil, b.malformed(path, raw, "expected a document id or a node object, got %T", raw)
	}

	typ, err := b.optString(m, "type", path)
	if err != nil {
		return nil, err
	}
	if _, short := m["category"]; short {
		if typ != "" && typ != "category" {
			return nil, b.malformed(path, raw, "category shorthand conflicts with type %q", typ)
		}
		return b.category(m, "category", path, depth)
	}

	switch typ {
	case "doc":
		return b.doc(m, path)
	case "category":
		return b.category(m, "label", path, depth)
	case "":
		return nil, b.malformed(path, raw, "node object needs a type or a category key")
	default:
		return nil, b.malformed(path, raw, "unsupported node type %q", typ)
	}
}

func (b builder) doc(m map[string]any, path []int) (Node, error) {
	if err := b.onlyKeys(m, path, "type", "id", "label"); err != nil {
		return nil, err
	}
	id, err := b.optString(m, "id", path)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, b.malformed(path, m, "doc node needs a non-empty id")
	}
	label, err := b.optString(m, "label", path)
	if err != nil {
		return nil, err
	}
	return Leaf{ID: id, Label: label}, nil
}

func (b builder) category(m map[string]any, labelKey string, path []int, depth int) (Node, error) {
	if err := b.onlyKeys(m, path, "type", labelKey, "items", "collapsed", "link"); err != nil {
		return nil, err
	}
	label, err := b.optString(m, labelKey, path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(label) == "" {
		return nil, b.malformed(path, m, "category label must not be empty")
	}
	if b.cfg.maxDepth > 0 && depth+1 > b.cfg.maxDepth {
		return nil, b.malformed(path, m, "category %q nests deeper than %d levels", label, b.cfg.maxDepth)
	}

	c := &Category{Label: label, Collapsed: true}
	if v, ok := m["collapsed"]; ok {
		collapsed, ok := v.(bool)
		if !ok {
			return nil, b.malformed(path, m, "collapsed must be a boolean, got %T", v)
		}
		c.Collapsed = collapsed
	}
	if v, ok := m["link"]; ok {
		if c.Link, err = b.link(v, path); err != nil {
			return nil, err
		}
	}
	if v, ok := m["items"]; ok && v != nil {
		if c.Items, err = b.items(v, path, depth+1); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// link accepts a bare doc id or {type: doc, id: ...}.
func (b builder) link(v any, path []int) (string, error) {
	if s, ok := v.(string); ok {
		if s == "" {
			return "", b.malformed(path, v, "category link must not be empty")
		}
		return s, nil
	}
	m, ok := asMap(v)
	if !ok {
		return "", b.malformed(path, v, "category link must be a document id or a doc object, got %T", v)
	}
	if err := b.onlyKeys(m, path, "type", "id"); err != nil {
		return "", err
	}
	typ, err := b.optString(m, "type", path)
	if err != nil {
		return "", err
	}
	if typ != "doc" {
		return "", b.malformed(path, v, "unsupported category link type %q", typ)
	}
	id, err := b.optString(m, "id", path)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", b.malformed(path, v, "category link needs a non-empty id")
	}
	return id, nil
}

func (b builder) optString(m map[string]any, key string, path []int) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", b.malformed(path, m, "%s must be a string, got %T", key, v)
	}
	return s, nil
}

func (b builder) onlyKeys(m map[string]any, path []int, allowed ...string) error {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if !slices.Contains(allowed, k) {
			return b.malformed(path, m, "unknown field %q", k)
		}
	}
	return nil
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil:
		return nil, true
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}
