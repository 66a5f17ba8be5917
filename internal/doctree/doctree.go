package doctree

import "strings"

// DocTree is the parsed outline of one documentation page.
type DocTree struct {
	Title    string      // From front matter, first heading, or file name
	Meta     FrontMatter // Empty for formats without front matter
	Children []*DocNode  // Top-level sections
}

// FrontMatter holds the page fields that affect navigation.
type FrontMatter struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	SidebarLabel string `yaml:"sidebar_label"`
	Draft        bool   `yaml:"draft"`
}

// DocNode is one heading in the page outline.
type DocNode struct {
	Title    string
	Level    int // 1 for h1, 0 for synthetic sections such as PDF pages
	Children []*DocNode
}

// Outline flattens the section tree into indented heading lines.
func (t *DocTree) Outline() []string {
	var out []string
	var walk func(nodes []*DocNode, depth int)
	walk = func(nodes []*DocNode, depth int) {
		for _, n := range nodes {
			out = append(out, strings.Repeat("  ", depth)+n.Title)
			walk(n.Children, depth+1)
		}
	}
	walk(t.Children, 0)
	return out
}

// Builder nests headings by level. Parsers feed it headings in document order.
type Builder struct {
	root  DocNode
	stack []*DocNode
}

// Add places a heading under the nearest preceding heading of lower level.
func (b *Builder) Add(title string, level int) {
	if b.stack == nil {
		b.stack = []*DocNode{&b.root}
	}
	n := &DocNode{Title: title, Level: level}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].Level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1]
	parent.Children = append(parent.Children, n)
	b.stack = append(b.stack, n)
}

// Sections returns the top-level headings collected so far.
func (b *Builder) Sections() []*DocNode {
	return b.root.Children
}

// FirstTitle returns the text of the first heading at level, if any.
func FirstTitle(nodes []*DocNode, level int) string {
	for _, n := range nodes {
		if n.Level == level {
			return n.Title
		}
		if t := FirstTitle(n.Children, level); t != "" {
			return t
		}
	}
	return ""
}
