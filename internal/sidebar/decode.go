package sidebar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is an on-disk encoding of a sidebar spec.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatForFile picks the format from a file extension.
func FormatForFile(filename string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFile reads and decodes a sidebar spec file.
func LoadFile(path string) (Spec, error) {
	format, err := FormatForFile(path)
	if err != nil {
		return Spec{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Spec{}, fmt.Errorf("open sidebar file: %w", err)
	}
	defer f.Close()
	return Decode(f, format, filepath.Base(path))
}

// Decode reads a spec in the given format. name is used in source locators
// and may be empty.
func Decode(r io.Reader, format Format, name string) (Spec, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(r, name)
	case FormatJSON:
		return decodeJSON(r, name)
	case FormatTOML:
		return decodeTOML(r, name)
	default:
		return Spec{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func locator(name string, format string, args ...any) string {
	if name == "" {
		return ""
	}
	return name + fmt.Sprintf(format, args...)
}

// decodeYAML expects a single mapping of tree name to item list. It decodes
// via yaml.Node so tree order and repeated names survive.
func decodeYAML(r io.Reader, name string) (Spec, error) {
	dec := yaml.NewDecoder(r)
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Spec{}, nil
		}
		return Spec{}, fmt.Errorf("parse yaml: %w", err)
	}
	for {
		var extra yaml.Node
		err := dec.Decode(&extra)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Spec{}, fmt.Errorf("parse yaml: %w", err)
		}
		if !emptyDocument(&extra) {
			return Spec{}, fmt.Errorf("parse yaml: line %d: unexpected second document, declare every sidebar in one mapping", extra.Line)
		}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return Spec{}, fmt.Errorf("parse yaml: line %d: expected a mapping of sidebar names to item lists", root.Line)
	}

	var spec Spec
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		items, err := yamlValue(val)
		if err != nil {
			return Spec{}, fmt.Errorf("parse yaml: sidebar %q: %w", key.Value, err)
		}
		spec.Trees = append(spec.Trees, TreeSpec{
			Name:   key.Value,
			Items:  items,
			Source: locator(name, ":%d", key.Line),
		})
	}
	return spec, nil
}

func emptyDocument(n *yaml.Node) bool {
	for _, c := range n.Content {
		if c.Kind != yaml.ScalarNode || c.ShortTag() != "!!null" {
			return false
		}
	}
	return true
}

// yamlValue converts a node into plain Go values. Numeric scalars keep
// their literal text, so an unquoted id such as 404, 1.10 or 2024-01-01
// stays intact.
func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			if _, dup := m[k.Value]; dup {
				return nil, fmt.Errorf("line %d: key %q already defined", k.Line, k.Value)
			}
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[k.Value] = v
		}
		return m, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float", "!!timestamp":
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

// decodeJSON walks the top-level object with the token API because
// map decoding would lose declaration order.
func decodeJSON(r io.Reader, name string) (Spec, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Spec{}, nil
		}
		return Spec{}, fmt.Errorf("parse json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Spec{}, fmt.Errorf("parse json: expected an object of sidebar names to item lists")
	}

	var spec Spec
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Spec{}, fmt.Errorf("parse json: %w", err)
		}
		key, _ := tok.(string)
		offset := dec.InputOffset()
		items, err := jsonValue(dec)
		if err != nil {
			return Spec{}, fmt.Errorf("parse json: sidebar %q: %w", key, err)
		}
		spec.Trees = append(spec.Trees, TreeSpec{
			Name:   key,
			Items:  items,
			Source: locator(name, "@%d", offset),
		})
	}
	if _, err := dec.Token(); err != nil {
		return Spec{}, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Spec{}, fmt.Errorf("parse json: unexpected data after sidebar object")
	}
	return spec, nil
}

// jsonValue reads one value from the token stream. Unlike Decode it
// rejects repeated keys inside an object, and numbers keep their text.
func jsonValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			list := []any{}
			for dec.More() {
				v, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		case '{':
			m := map[string]any{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := kt.(string)
				if _, dup := m[key]; dup {
					return nil, fmt.Errorf("offset %d: key %q already defined", dec.InputOffset(), key)
				}
				v, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				m[key] = v
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		}
		return nil, fmt.Errorf("offset %d: unexpected %v", dec.InputOffset(), t)
	case json.Number:
		return t.String(), nil
	}
	return tok, nil
}

type tomlFile struct {
	Sidebar []struct {
		Name  string `toml:"name"`
		Items []any  `toml:"items"`
	} `toml:"sidebar"`
}

// decodeTOML expects an array of [[sidebar]] tables with name and items.
func decodeTOML(r io.Reader, name string) (Spec, error) {
	var f tomlFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Spec{}, fmt.Errorf("parse toml: %w", err)
	}
	var spec Spec
	for i, s := range f.Sidebar {
		spec.Trees = append(spec.Trees, TreeSpec{
			Name:   s.Name,
			Items:  s.Items,
			Source: locator(name, " [[sidebar]] #%d", i),
		})
	}
	return spec, nil
}
