package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// MarkdownParser handles Markdown and MDX pages using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{}
	meta, body, ok := splitFrontMatter(src)
	if ok {
		if err := yaml.Unmarshal(meta, &tree.Meta); err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(body))

	var b doctree.Builder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.Add(inlineText(h, body), h.Level)
		}
	}
	tree.Children = b.Sections()

	switch {
	case tree.Meta.Title != "":
		tree.Title = tree.Meta.Title
	case doctree.FirstTitle(tree.Children, 1) != "":
		tree.Title = doctree.FirstTitle(tree.Children, 1)
	default:
		tree.Title = Stem(filename)
	}
	return tree, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block.
func splitFrontMatter(src []byte) (meta, body []byte, ok bool) {
	const delim = "---"
	s := bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, found := bytes.Cut(s, []byte("\n"))
	if !found || strings.TrimSpace(string(first)) != delim {
		return nil, src, false
	}
	off := 0
	for off <= len(rest) {
		line, next, more := bytes.Cut(rest[off:], []byte("\n"))
		if strings.TrimSpace(string(line)) == delim {
			return rest[:off], next, true
		}
		if !more {
			break
		}
		off += len(line) + 1
	}
	return nil, src, false
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
