// Package render prints sidebar trees as text.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ddddddO/gtree"
	"github.com/dgallion1/docnav/internal/sidebar"
)

// Titles resolves display labels for document ids. An empty result falls
// back to the id itself.
type Titles interface {
	Label(id string) string
}

// Tree writes t as an ASCII tree rooted at the tree name.
//
// Leaves show their authored label, else the document label from titles,
// else the id; the id follows in parentheses whenever it differs from the
// label. Categories are prefixed with [+] when collapsed and [-] when
// expanded, and a linked document is shown as "→ id".
func Tree(w io.Writer, t *sidebar.Tree, titles Titles) error {
	root := gtree.NewRoot(t.Name)
	addItems(root, t.Items, titles)
	if err := gtree.OutputFromRoot(w, root); err != nil {
		return fmt.Errorf("render %s: %w", t.Name, err)
	}
	return nil
}

// Registry writes every tree in declaration order, separated by blank lines.
func Registry(w io.Writer, r *sidebar.Registry, titles Titles) error {
	for i, t := range r.Trees() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := Tree(w, t, titles); err != nil {
			return err
		}
	}
	return nil
}

func addItems(parent *gtree.Node, items []sidebar.Node, titles Titles) {
	// gtree merges siblings with equal text, so repeats get a counter.
	seen := make(map[string]int, len(items))
	for _, n := range items {
		text := nodeText(n, titles)
		seen[text]++
		if c := seen[text]; c > 1 {
			text += " #" + strconv.Itoa(c)
		}
		child := parent.Add(text)
		if cat, ok := n.(*sidebar.Category); ok {
			addItems(child, cat.Items, titles)
		}
	}
}

func nodeText(n sidebar.Node, titles Titles) string {
	switch n := n.(type) {
	case sidebar.Leaf:
		return LeafText(n, titles)
	case *sidebar.Category:
		marker := "[-]"
		if n.Collapsed {
			marker = "[+]"
		}
		s := marker + " " + n.Label
		if n.Link != "" {
			s += " → " + n.Link
		}
		return s
	}
	return ""
}

// LeafText is the display text of a leaf.
func LeafText(l sidebar.Leaf, titles Titles) string {
	label := l.Label
	if label == "" && titles != nil {
		label = titles.Label(l.ID)
	}
	if label == "" || label == l.ID {
		return l.ID
	}
	return label + " (" + l.ID + ")"
}
