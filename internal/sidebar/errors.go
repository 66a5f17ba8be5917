package sidebar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrAlreadyValidated is returned when Validate runs twice on one registry.
	ErrAlreadyValidated = errors.New("registry already validated")
	// ErrUnsupportedFormat indicates a sidebar file extension we cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported sidebar file format")
	// ErrInvalid wraps the summary of a non-empty violation list.
	ErrInvalid = errors.New("invalid sidebar registry")
)

// MalformedNodeError reports input that does not fit the node shape.
type MalformedNodeError struct {
	Tree   string
	Path   []int // Child indices from the tree root; empty for the tree itself
	Reason string
	Value  any
}

func (e *MalformedNodeError) Error() string {
	return "malformed node at " + FormatPath(e.Tree, e.Path) + ": " + e.Reason
}

// FormatPath renders a tree name and index chain as "tree/0/1".
func FormatPath(tree string, path []int) string {
	var b strings.Builder
	b.WriteString(tree)
	for _, i := range path {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// Kind classifies a validation violation.
type Kind string

const (
	UnknownReference      Kind = "UnknownReference"
	DuplicateTreeName     Kind = "DuplicateTreeName"
	EmptyUnlinkedCategory Kind = "EmptyUnlinkedCategory"
	DuplicateSiblingLabel Kind = "DuplicateSiblingLabel"
	UnknownSidebar        Kind = "UnknownSidebar"
)

// Violation is one broken invariant, located in the source tree.
type Violation struct {
	Kind   Kind     `json:"kind"`
	Tree   string   `json:"tree"`
	Path   []int    `json:"path"`
	Labels []string `json:"labels,omitempty"` // Category labels from the root
	Value  string   `json:"value"`
	Detail string   `json:"detail,omitempty"`

	// Set for DuplicateTreeName: the repeated declaration and the first one.
	Decl      *DeclRef `json:"decl,omitempty"`
	FirstDecl *DeclRef `json:"first_decl,omitempty"`
}

// DeclRef identifies one tree declaration by its index in the registry.
type DeclRef struct {
	Index  int    `json:"index"`
	Source string `json:"source,omitempty"`
}

// Location renders the violation's tree path, e.g. "docsSidebar/0/1".
func (v Violation) Location() string {
	return FormatPath(v.Tree, v.Path)
}

func (v Violation) String() string {
	s := v.Location() + ": " + string(v.Kind) + " " + strconv.Quote(v.Value)
	if len(v.Labels) > 0 {
		s += " (in " + strings.Join(v.Labels, " > ") + ")"
	}
	if v.Detail != "" {
		s += ": " + v.Detail
	}
	return s
}

// Violations is the ordered result of a validation pass.
type Violations []Violation

// Err returns nil when there are no violations, otherwise an error wrapping
// ErrInvalid that lists all of them.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	lines := make([]string, len(vs))
	for i, v := range vs {
		lines[i] = "  " + v.String()
	}
	return fmt.Errorf("%w: %d violation(s)\n%s", ErrInvalid, len(vs), strings.Join(lines, "\n"))
}

// Count returns the number of violations of kind k.
func (vs Violations) Count(k Kind) int {
	n := 0
	for _, v := range vs {
		if v.Kind == k {
			n++
		}
	}
	return n
}
