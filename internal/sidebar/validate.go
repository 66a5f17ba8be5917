package sidebar

import (
	"fmt"
	"slices"
)

// Corpus is the external set of known document ids.
type Corpus interface {
	Contains(id string) bool
}

// IDSet is an in-memory Corpus.
type IDSet map[string]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Validate checks every tree against the registry invariants and the corpus,
// collecting all violations in walk order. The registry moves to Valid or
// Invalid; a second call returns ErrAlreadyValidated.
func (r *Registry) Validate(c Corpus) (Violations, error) {
	if r.state != Unvalidated {
		return nil, ErrAlreadyValidated
	}
	vs := Check(r, c)
	if len(vs) == 0 {
		r.state = Valid
	} else {
		r.state = Invalid
	}
	return vs, nil
}

// Check runs the validation rules without touching the registry state.
func Check(r *Registry, c Corpus) Violations {
	var vs Violations
	first := make(map[string]*Tree, len(r.trees))

	for _, t := range r.trees {
		if prev, ok := first[t.Name]; ok {
			vs = append(vs, Violation{
				Kind:      DuplicateTreeName,
				Tree:      t.Name,
				Value:     t.Name,
				Detail:    fmt.Sprintf("declared at %s and again at %s", declLocator(prev), declLocator(t)),
				Decl:      &DeclRef{Index: t.Decl, Source: t.Source},
				FirstDecl: &DeclRef{Index: prev.Decl, Source: prev.Source},
			})
		} else {
			first[t.Name] = t
		}
		vs = append(vs, checkTree(t, c)...)
	}
	return vs
}

func declLocator(t *Tree) string {
	if t.Source != "" {
		return fmt.Sprintf("declaration #%d (%s)", t.Decl, t.Source)
	}
	return fmt.Sprintf("declaration #%d", t.Decl)
}

func checkTree(t *Tree, c Corpus) Violations {
	var vs Violations
	var walk func(items []Node, path []int, labels []string)
	walk = func(items []Node, path []int, labels []string) {
		seen := make(map[string]int)
		for i, n := range items {
			p := append(slices.Clone(path), i)
			switch n := n.(type) {
			case Leaf:
				if !c.Contains(n.ID) {
					vs = append(vs, Violation{Kind: UnknownReference, Tree: t.Name, Path: p, Labels: labels, Value: n.ID})
				}
			case *Category:
				if prev, ok := seen[n.Label]; ok {
					vs = append(vs, Violation{
						Kind:   DuplicateSiblingLabel,
						Tree:   t.Name,
						Path:   p,
						Labels: labels,
						Value:  n.Label,
						Detail: fmt.Sprintf("same label as sibling %d", prev),
					})
				} else {
					seen[n.Label] = i
				}
				if n.Link != "" && !c.Contains(n.Link) {
					vs = append(vs, Violation{
						Kind:   UnknownReference,
						Tree:   t.Name,
						Path:   p,
						Labels: labels,
						Value:  n.Link,
						Detail: fmt.Sprintf("link of category %q", n.Label),
					})
				}
				if n.Link == "" && len(n.Items) == 0 {
					vs = append(vs, Violation{Kind: EmptyUnlinkedCategory, Tree: t.Name, Path: p, Labels: labels, Value: n.Label})
				}
				walk(n.Items, p, append(slices.Clone(labels), n.Label))
			}
		}
	}
	walk(t.Items, nil, nil)
	return vs
}
