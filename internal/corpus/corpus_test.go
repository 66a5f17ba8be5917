package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestDocumentID(t *testing.T) {
	tests := []struct {
		rel      string
		override string
		want     string
	}{
		{"intro.md", "", "intro"},
		{"01-getting-started/02-installation.md", "", "getting-started/installation"},
		{"2_guides/3.config.mdx", "", "guides/config"},
		{"guides/setup.md", "install", "guides/install"},
		{"guides/setup.md", "  ", "guides/setup"},
		{"2024.md", "", "2024"},
		{"10 - faq.html", "", "faq"},
		{"api/v1.txt", "", "api/v1"},
	}
	for _, tt := range tests {
		if got := DocumentID(tt.rel, tt.override); got != tt.want {
			t.Errorf("DocumentID(%q, %q): expected %q, got %q", tt.rel, tt.override, tt.want, got)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"intro.md":                              "---\ntitle: Introduction\n---\n# Hello\n## Why\n",
		"01-getting-started/01-installation.md": "# Installation\n",
		"01-getting-started/configuration.mdx":  "---\nid: config\nsidebar_label: Config\n---\n# Configuration\n",
		"reference/api.html":                    "<title>API</title><h1>API</h1>",
		"notes.txt":                             "Release notes\n",
		"_partials/snippet.md":                  "# Partial\n",
		".hidden/secret.md":                     "# Secret\n",
		"_draft-ish.md":                         "# Ignored\n",
		"wip.md":                                "---\ndraft: true\n---\n# WIP\n",
		"image.png":                             "not a page",
	})

	c, err := Load(context.Background(), dir, Options{Workers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"getting-started/config",
		"getting-started/installation",
		"intro",
		"notes",
		"reference/api",
	}
	got := c.IDs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
	if c.Len() != len(want) {
		t.Errorf("expected Len %d, got %d", len(want), c.Len())
	}

	intro, ok := c.Get("intro")
	if !ok {
		t.Fatal("expected intro document")
	}
	if intro.Title != "Introduction" {
		t.Errorf("expected title %q, got %q", "Introduction", intro.Title)
	}
	if len(intro.Outline) != 2 || intro.Outline[1] != "  Why" {
		t.Errorf("unexpected outline %q", intro.Outline)
	}
	if intro.Path != "intro.md" {
		t.Errorf("expected path intro.md, got %q", intro.Path)
	}

	cfg, _ := c.Get("getting-started/config")
	if cfg.SidebarLabel != "Config" {
		t.Errorf("expected sidebar label Config, got %q", cfg.SidebarLabel)
	}

	if got := c.Label("getting-started/config"); got != "Config" {
		t.Errorf("expected label Config, got %q", got)
	}
	if got := c.Label("intro"); got != "Introduction" {
		t.Errorf("expected label to fall back to title, got %q", got)
	}
	if got := c.Label("nope"); got != "" {
		t.Errorf("expected empty label for unknown id, got %q", got)
	}

	if c.Contains("wip") {
		t.Error("expected draft to be skipped")
	}
	if c.Contains("_partials/snippet") || c.Contains("partials/snippet") {
		t.Error("expected underscore directory to be ignored")
	}
}

func TestLoad_IncludeDrafts(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"wip.md": "---\ndraft: true\n---\n# WIP\n",
	})
	c, err := Load(context.Background(), dir, Options{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Contains("wip") {
		t.Error("expected draft to be included")
	}
}

func TestLoad_DuplicateID(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"01-intro.md": "# One\n",
		"02-intro.md": "# Two\n",
	})
	_, err := Load(context.Background(), dir, Options{})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if !strings.Contains(err.Error(), "01-intro.md") || !strings.Contains(err.Error(), "02-intro.md") {
		t.Errorf("expected both paths in error, got %q", err)
	}
}

func TestLoad_BadFrontMatter(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"bad.md": "---\nid: [oops\n---\n",
	})
	_, err := Load(context.Background(), dir, Options{})
	if err == nil || !strings.Contains(err.Error(), "bad.md") {
		t.Fatalf("expected error naming bad.md, got %v", err)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.md": "# A\n", "b.md": "# B\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, dir, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.md": "# A\n"})
	c1, err := Load(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c2, _ := Load(context.Background(), dir, Options{})
	if string(c1.Fingerprint()) != string(c2.Fingerprint()) {
		t.Error("expected stable fingerprint")
	}

	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c3, _ := Load(context.Background(), dir, Options{})
	if string(c1.Fingerprint()) == string(c3.Fingerprint()) {
		t.Error("expected fingerprint to change with content")
	}
}

func TestNew_Duplicate(t *testing.T) {
	_, err := New([]Document{{ID: "a", Path: "a.md"}, {ID: "a", Path: "b/../a.md"}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}
