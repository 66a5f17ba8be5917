package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/docnav/internal/sidebar"
	"github.com/lithammer/dedent"
)

type titleMap map[string]string

func (m titleMap) Label(id string) string { return m[id] }

func buildTree(t *testing.T, name string, items []any) *sidebar.Registry {
	t.Helper()
	reg, err := sidebar.Build(sidebar.Spec{Trees: []sidebar.TreeSpec{{Name: name, Items: items}}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return reg
}

func TestTree(t *testing.T) {
	reg := buildTree(t, "docsSidebar", []any{
		"intro",
		map[string]any{
			"category":  "Getting Started",
			"collapsed": false,
			"link":      "getting-started/overview",
			"items":     []any{"getting-started/installation", map[string]any{"type": "doc", "id": "faq", "label": "FAQ"}},
		},
		map[string]any{"category": "Reference", "items": []any{"reference/api"}},
	})
	tree, _ := reg.Tree("docsSidebar")

	var buf bytes.Buffer
	titles := titleMap{"intro": "Introduction", "getting-started/installation": "Installation"}
	if err := Tree(&buf, tree, titles); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.TrimLeft(dedent.Dedent(`
		docsSidebar
		├── Introduction (intro)
		├── [-] Getting Started → getting-started/overview
		│   ├── Installation (getting-started/installation)
		│   └── FAQ (faq)
		└── [+] Reference
		    └── reference/api
	`), "\n")
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTree_RepeatedSiblings(t *testing.T) {
	reg := buildTree(t, "s", []any{"a", "a", "b"})
	tree, _ := reg.Tree("s")

	var buf bytes.Buffer
	if err := Tree(&buf, tree, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "a #2") {
		t.Errorf("expected repeated leaf to be kept, got:\n%s", out)
	}
	if strings.Count(out, "\n") != 4 {
		t.Errorf("expected 4 lines, got:\n%s", out)
	}
}

func TestLeafText(t *testing.T) {
	titles := titleMap{"x": "Title X", "same": "same"}
	tests := []struct {
		leaf sidebar.Leaf
		want string
	}{
		{sidebar.Leaf{ID: "x"}, "Title X (x)"},
		{sidebar.Leaf{ID: "x", Label: "Override"}, "Override (x)"},
		{sidebar.Leaf{ID: "y"}, "y"},
		{sidebar.Leaf{ID: "same"}, "same"},
	}
	for _, tt := range tests {
		if got := LeafText(tt.leaf, titles); got != tt.want {
			t.Errorf("LeafText(%+v): expected %q, got %q", tt.leaf, tt.want, got)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg, err := sidebar.Build(sidebar.Spec{Trees: []sidebar.TreeSpec{
		{Name: "one", Items: []any{"a"}},
		{Name: "two", Items: []any{"b"}},
	}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf bytes.Buffer
	if err := Registry(&buf, reg, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "one\n└── a\n\ntwo\n└── b\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
