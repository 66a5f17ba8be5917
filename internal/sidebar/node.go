package sidebar

// Node is one navigation entry: either a Leaf or a *Category.
type Node interface {
	node()
}

// Leaf is a document reference used directly as a navigation entry.
type Leaf struct {
	ID    string // Document id in the corpus
	Label string // Optional display override; empty means "use the document title"
}

// Category is a labeled, collapsible group of entries.
type Category struct {
	Label     string
	Collapsed bool   // Initial state in the rendered UI; defaults to true
	Link      string // Document the label itself navigates to (empty = inert label)
	Items     []Node // Display order
}

func (Leaf) node()      {}
func (*Category) node() {}

// Tree is a named ordered sequence of root nodes.
type Tree struct {
	Name   string `json:"name"`
	Items  []Node `json:"items"`
	Decl   int    `json:"-"`                // Position of the declaration in the input
	Source string `json:"source,omitempty"` // Human locator such as "sidebars.yaml:12"
}

// Walk visits every node of the tree depth-first, left to right. The path
// passed to fn holds child indices from the root and must not be retained.
// Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(path []int, n Node) bool) {
	walkItems(t.Items, nil, fn)
}

func walkItems(items []Node, prefix []int, fn func([]int, Node) bool) {
	for i, n := range items {
		path := append(prefix, i)
		if !fn(path, n) {
			continue
		}
		if c, ok := n.(*Category); ok {
			walkItems(c.Items, path, fn)
		}
	}
}

// References returns every document id the tree mentions, leaves and
// category links, in walk order. Duplicates are kept.
func (t *Tree) References() []string {
	var refs []string
	t.Walk(func(_ []int, n Node) bool {
		switch n := n.(type) {
		case Leaf:
			refs = append(refs, n.ID)
		case *Category:
			if n.Link != "" {
				refs = append(refs, n.Link)
			}
		}
		return true
	})
	return refs
}
