package sidebar

// State is the validation state of a registry.
type State int

const (
	Unvalidated State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unvalidated"
	}
}

// Registry holds every declared sidebar tree. It is built once, validated
// once and read-only afterwards, so concurrent readers need no locking.
type Registry struct {
	trees  []*Tree          // Declaration order, duplicates included
	byName map[string]*Tree // First declaration wins
	names  []string         // Unique names in declaration order
	state  State
}

func newRegistry() *Registry {
	return &Registry{byName: make(map[string]*Tree)}
}

func (r *Registry) add(t *Tree) {
	t.Decl = len(r.trees)
	r.trees = append(r.trees, t)
	if _, ok := r.byName[t.Name]; !ok {
		r.byName[t.Name] = t
		r.names = append(r.names, t.Name)
	}
}

// Tree returns the tree declared under name.
func (r *Registry) Tree(name string) (*Tree, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names lists tree names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Trees returns every declared tree in declaration order, including
// redeclarations of an already used name.
func (r *Registry) Trees() []*Tree {
	out := make([]*Tree, len(r.trees))
	copy(out, r.trees)
	return out
}

// Len is the number of declarations.
func (r *Registry) Len() int { return len(r.trees) }

// State reports whether the registry has been validated and with what outcome.
func (r *Registry) State() State { return r.state }
