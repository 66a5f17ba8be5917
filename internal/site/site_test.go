package site

import (
	"testing"

	"github.com/dgallion1/docnav/internal/sidebar"
)

func registry(t *testing.T, names ...string) *sidebar.Registry {
	t.Helper()
	var spec sidebar.Spec
	for _, n := range names {
		spec.Trees = append(spec.Trees, sidebar.TreeSpec{Name: n, Items: []any{"intro"}})
	}
	reg, err := sidebar.Build(spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return reg
}

func TestCheck_Navbar(t *testing.T) {
	reg := registry(t, "docsSidebar", "generatorsSidebar")
	cfg := Config{
		Navbar: []NavItem{
			{Label: "Documentation", Sidebar: "docsSidebar"},
			{Label: "Guides", Sidebar: "guidesSidebar"},
			{Label: "GitHub", Href: "https://github.com/example/repo"},
		},
	}

	vs := Check(cfg, reg, sidebar.NewIDSet("intro"))
	if len(vs) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(vs), vs)
	}
	v := vs[0]
	if v.Kind != sidebar.UnknownSidebar {
		t.Errorf("expected UnknownSidebar, got %s", v.Kind)
	}
	if v.Location() != "navbar/1" {
		t.Errorf("expected location navbar/1, got %s", v.Location())
	}
	if v.Value != "guidesSidebar" {
		t.Errorf("expected value guidesSidebar, got %q", v.Value)
	}
}

func TestCheck_Footer(t *testing.T) {
	reg := registry(t, "docsSidebar")
	cfg := Config{
		Footer: []FooterLink{
			{Group: "Documentation", Label: "Getting Started", Doc: "getting-started/installation"},
			{Group: "Documentation", Label: "Intro", Doc: "intro"},
			{Group: "Resources", Label: "Issues", Href: "https://github.com/example/repo/issues"},
		},
	}

	vs := Check(cfg, reg, sidebar.NewIDSet("intro"))
	if len(vs) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(vs), vs)
	}
	want := `footer/0: UnknownReference "getting-started/installation" (in Documentation): footer link "Getting Started"`
	if got := vs[0].String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCheck_Clean(t *testing.T) {
	reg := registry(t, "docsSidebar")
	cfg := Config{
		Navbar: []NavItem{{Label: "Docs", Sidebar: "docsSidebar"}},
		Footer: []FooterLink{{Label: "Intro", Doc: "intro"}},
	}
	if vs := Check(cfg, reg, sidebar.NewIDSet("intro")); len(vs) != 0 {
		t.Errorf("expected no violations, got %v", vs)
	}
}
