package doctree

import (
	"strings"
	"testing"
)

func TestBuilder_Nesting(t *testing.T) {
	var b Builder
	b.Add("A", 1)
	b.Add("A.1", 2)
	b.Add("A.1.a", 3)
	b.Add("A.2", 2)
	b.Add("B", 1)
	// Skipped levels nest under the nearest shallower heading.
	b.Add("B.deep", 4)
	b.Add("B.1", 2)

	tree := &DocTree{Children: b.Sections()}
	want := []string{"A", "  A.1", "    A.1.a", "  A.2", "B", "  B.deep", "  B.1"}
	got := tree.Outline()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestBuilder_LeadingSubheading(t *testing.T) {
	var b Builder
	b.Add("Intro", 2)
	b.Add("Title", 1)
	if got := len(b.Sections()); got != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", got)
	}
}

func TestBuilder_Empty(t *testing.T) {
	var b Builder
	if b.Sections() != nil {
		t.Error("expected nil sections from an empty builder")
	}
	if out := (&DocTree{}).Outline(); out != nil {
		t.Errorf("expected nil outline, got %q", out)
	}
}

func TestFirstTitle(t *testing.T) {
	var b Builder
	b.Add("Overview", 2)
	b.Add("Main", 1)
	b.Add("Nested", 1)

	if got := FirstTitle(b.Sections(), 1); got != "Main" {
		t.Errorf("expected %q, got %q", "Main", got)
	}
	if got := FirstTitle(b.Sections(), 3); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
