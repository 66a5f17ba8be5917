package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docnav/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML pages. A <meta name="docnav:id"> element sets the
// document id the same way front matter does for Markdown.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.DocTree{}
	var b doctree.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer":
				return
			case "meta":
				applyMeta(n, &tree.Meta)
			case "title":
				if tree.Meta.Title == "" {
					tree.Meta.Title = textContent(n)
				}
				return
			}
			if level := headingLevel(n.Data); level > 0 {
				b.Add(textContent(n), level)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
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

func applyMeta(n *html.Node, fm *doctree.FrontMatter) {
	var name, content string
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "name":
			name = strings.ToLower(a.Val)
		case "content":
			content = strings.TrimSpace(a.Val)
		}
	}
	switch name {
	case "docnav:id":
		fm.ID = content
	case "docnav:sidebar_label":
		fm.SidebarLabel = content
	case "docnav:draft":
		fm.Draft = content == "true"
	}
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
