package sidebar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

type docJSON struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

type categoryJSON struct {
	Type      string `json:"type"`
	Label     string `json:"label"`
	Collapsed bool   `json:"collapsed"`
	Link      string `json:"link,omitempty"`
	Items     []Node `json:"items"`
}

// MarshalJSON writes unlabeled leaves as bare ids.
func (l Leaf) MarshalJSON() ([]byte, error) {
	if l.Label == "" {
		return json.Marshal(l.ID)
	}
	return json.Marshal(docJSON{Type: "doc", ID: l.ID, Label: l.Label})
}

func (c *Category) MarshalJSON() ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []Node{}
	}
	return json.Marshal(categoryJSON{
		Type:      "category",
		Label:     c.Label,
		Collapsed: c.Collapsed,
		Link:      c.Link,
		Items:     items,
	})
}

// EncodeJSON writes every declaration of the registry as an indented JSON
// object keyed by tree name, in declaration order.
func EncodeJSON(w io.Writer, r *Registry) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range r.trees {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Name)
		if err != nil {
			return err
		}
		items := t.Items
		if items == nil {
			items = []Node{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode sidebar %q: %w", t.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

// EncodeYAML writes the registry as a YAML mapping of tree name to items,
// in declaration order.
func EncodeYAML(w io.Writer, r *Registry) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range r.trees {
		root.Content = append(root.Content, strNode(t.Name), itemsYAML(t.Items))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func itemsYAML(items []Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, n := range items {
		seq.Content = append(seq.Content, nodeYAML(n))
	}
	return seq
}

func nodeYAML(n Node) *yaml.Node {
	switch n := n.(type) {
	case Leaf:
		if n.Label == "" {
			return strNode(n.ID)
		}
		return mapNode("type", strNode("doc"), "id", strNode(n.ID), "label", strNode(n.Label))
	case *Category:
		kv := []any{
			"type", strNode("category"),
			"label", strNode(n.Label),
			"collapsed", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.Collapsed)},
		}
		if n.Link != "" {
			kv = append(kv, "link", strNode(n.Link))
		}
		kv = append(kv, "items", itemsYAML(n.Items))
		return mapNode(kv...)
	}
	panic(fmt.Sprintf("sidebar: unknown node type %T", n))
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// mapNode builds a mapping from alternating key strings and value nodes.
func mapNode(kv ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(kv); i += 2 {
		m.Content = append(m.Content, strNode(kv[i].(string)), kv[i+1].(*yaml.Node))
	}
	return m
}
