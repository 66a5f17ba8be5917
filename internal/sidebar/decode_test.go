package sidebar

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
)

var yamlFixture = dedent.Dedent(`
	docsSidebar:
	  - intro
	  - type: category
	    label: Getting Started
	    items:
	      - getting-started/installation
	      - getting-started/quick-start
	  - category: API
	    collapsed: false
	    link: {type: doc, id: api/java-api}
	    items:
	      - type: doc
	        id: api/output-formats
	        label: Output Formats
	generatorsSidebar:
	  - generators/overview
`)

var jsonFixture = `{
	"docsSidebar": [
		"intro",
		{"type": "category", "label": "Getting Started", "items": ["getting-started/installation", "getting-started/quick-start"]},
		{"category": "API", "collapsed": false, "link": {"type": "doc", "id": "api/java-api"},
		 "items": [{"type": "doc", "id": "api/output-formats", "label": "Output Formats"}]}
	],
	"generatorsSidebar": ["generators/overview"]
}`

var tomlFixture = dedent.Dedent(`
	[[sidebar]]
	name = "docsSidebar"
	items = [
	  "intro",
	  { type = "category", label = "Getting Started", items = ["getting-started/installation", "getting-started/quick-start"] },
	  { category = "API", collapsed = false, link = { type = "doc", id = "api/java-api" }, items = [{ type = "doc", id = "api/output-formats", label = "Output Formats" }] },
	]

	[[sidebar]]
	name = "generatorsSidebar"
	items = ["generators/overview"]
`)

func decodeBuild(t *testing.T, src string, format Format) *Registry {
	t.Helper()
	spec, err := Decode(strings.NewReader(src), format, "sidebars."+string(format))
	if err != nil {
		t.Fatalf("decode %s: %v", format, err)
	}
	return mustBuild(t, spec)
}

func canonicalJSON(t *testing.T, reg *Registry) string {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, reg); err != nil {
		t.Fatalf("encode json: %v", err)
	}
	return buf.String()
}

func TestDecode_FormatsAgree(t *testing.T) {
	fromYAML := canonicalJSON(t, decodeBuild(t, yamlFixture, FormatYAML))
	fromJSON := canonicalJSON(t, decodeBuild(t, jsonFixture, FormatJSON))
	fromTOML := canonicalJSON(t, decodeBuild(t, tomlFixture, FormatTOML))

	if fromYAML != fromJSON {
		t.Errorf("yaml and json disagree:\n%s\nvs\n%s", fromYAML, fromJSON)
	}
	if fromYAML != fromTOML {
		t.Errorf("yaml and toml disagree:\n%s\nvs\n%s", fromYAML, fromTOML)
	}
}

func TestDecode_YAMLKeepsOrderAndLines(t *testing.T) {
	reg := decodeBuild(t, yamlFixture, FormatYAML)
	if got := strings.Join(reg.Names(), ","); got != "docsSidebar,generatorsSidebar" {
		t.Errorf("expected declaration order, got %s", got)
	}
	tree, _ := reg.Tree("generatorsSidebar")
	if tree.Source != "sidebars.yaml:16" {
		t.Errorf("expected source sidebars.yaml:16, got %q", tree.Source)
	}
}

func TestDecode_YAMLDuplicateNamesSurvive(t *testing.T) {
	src := dedent.Dedent(`
		docs:
		  - a
		guides:
		  - b
		docs:
		  - c
	`)
	reg := decodeBuild(t, src, FormatYAML)
	if reg.Len() != 3 {
		t.Fatalf("expected 3 declarations, got %d", reg.Len())
	}
	vs, _ := reg.Validate(NewIDSet("a", "b", "c"))
	if len(vs) != 1 || vs[0].Kind != DuplicateTreeName {
		t.Fatalf("expected one DuplicateTreeName, got %v", vs)
	}
	if !strings.Contains(vs[0].Detail, "sidebars.yaml:2") || !strings.Contains(vs[0].Detail, "sidebars.yaml:6") {
		t.Errorf("expected both declaration lines in detail, got %q", vs[0].Detail)
	}
}

func TestDecode_JSONDuplicateNamesSurvive(t *testing.T) {
	reg := decodeBuild(t, `{"docs": ["a"], "docs": ["b"]}`, FormatJSON)
	if reg.Len() != 2 {
		t.Fatalf("expected 2 declarations, got %d", reg.Len())
	}
	tree, _ := reg.Tree("docs")
	if got := strings.Join(tree.References(), ","); got != "a" {
		t.Errorf("expected first declaration to win lookups, got %s", got)
	}
}

func TestDecode_Empty(t *testing.T) {
	for _, f := range []Format{FormatYAML, FormatJSON, FormatTOML} {
		spec, err := Decode(strings.NewReader(""), f, "")
		if err != nil {
			t.Errorf("%s: unexpected error: %v", f, err)
		}
		if len(spec.Trees) != 0 {
			t.Errorf("%s: expected no trees, got %d", f, len(spec.Trees))
		}
	}
}

func TestDecode_RejectsWrongTopLevel(t *testing.T) {
	if _, err := Decode(strings.NewReader("- a\n- b\n"), FormatYAML, ""); err == nil {
		t.Error("expected yaml sequence at top level to fail")
	}
	if _, err := Decode(strings.NewReader(`["a"]`), FormatJSON, ""); err == nil {
		t.Error("expected json array at top level to fail")
	}
	if _, err := Decode(strings.NewReader("[[sidebar]]\nname = \"a\"\nextra = 1\n"), FormatTOML, ""); err == nil {
		t.Error("expected unknown toml field to fail")
	}
}

func TestFormatForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"sidebars.yaml", FormatYAML},
		{"sidebars.YML", FormatYAML},
		{"sidebars.json", FormatJSON},
		{"sidebars.toml", FormatTOML},
	}
	for _, tt := range tests {
		got, err := FormatForFile(tt.filename)
		if err != nil || got != tt.want {
			t.Errorf("%s: expected %s, got %s (%v)", tt.filename, tt.want, got, err)
		}
	}
	if _, err := FormatForFile("sidebars.ts"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sidebars.yml")
	if err := os.WriteFile(path, []byte(yamlFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Trees) != 2 || spec.Trees[0].Source != "sidebars.yml:2" {
		t.Errorf("unexpected spec %+v", spec)
	}
}

func TestEncodeYAML_RoundTrip(t *testing.T) {
	reg := decodeBuild(t, yamlFixture, FormatYAML)

	var buf bytes.Buffer
	if err := EncodeYAML(&buf, reg); err != nil {
		t.Fatalf("encode: %v", err)
	}
	again := decodeBuild(t, buf.String(), FormatYAML)

	if canonicalJSON(t, reg) != canonicalJSON(t, again) {
		t.Errorf("round trip changed the registry:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "collapsed: false") {
		t.Errorf("expected explicit collapsed flag in output:\n%s", buf.String())
	}
}

func TestDecode_RejectsTrailingJSON(t *testing.T) {
	src := `{"docsSidebar": ["intro"]} {"guidesSidebar": ["guides/overview"]}`
	_, err := Decode(strings.NewReader(src), FormatJSON, "")
	if err == nil || !strings.Contains(err.Error(), "unexpected data after sidebar object") {
		t.Fatalf("expected trailing data error, got %v", err)
	}

	spec, err := Decode(strings.NewReader("{\"docsSidebar\": [\"intro\"]}\n\n"), FormatJSON, "")
	if err != nil {
		t.Fatalf("trailing whitespace: unexpected error: %v", err)
	}
	if len(spec.Trees) != 1 {
		t.Errorf("expected 1 tree, got %d", len(spec.Trees))
	}
}

func TestDecode_RejectsSecondYAMLDocument(t *testing.T) {
	src := "docsSidebar: [intro]\n---\nguidesSidebar: [guides/overview]\n"
	_, err := Decode(strings.NewReader(src), FormatYAML, "")
	if err == nil || !strings.Contains(err.Error(), "second document") {
		t.Fatalf("expected second document error, got %v", err)
	}

	spec, err := Decode(strings.NewReader("docsSidebar: [intro]\n---\n"), FormatYAML, "")
	if err != nil {
		t.Fatalf("empty trailing document: unexpected error: %v", err)
	}
	if len(spec.Trees) != 1 {
		t.Errorf("expected 1 tree, got %d", len(spec.Trees))
	}
}

func TestDecode_RejectsRepeatedNodeKeys(t *testing.T) {
	tests := []struct {
		format Format
		src    string
	}{
		{FormatJSON, `{"docs": [{"category": "A", "items": ["x"], "items": []}]}`},
		{FormatYAML, "docs:\n  - category: A\n    items: [x]\n    items: []\n"},
	}
	for _, tt := range tests {
		_, err := Decode(strings.NewReader(tt.src), tt.format, "")
		if err == nil || !strings.Contains(err.Error(), `"items" already defined`) {
			t.Errorf("%s: expected repeated key error, got %v", tt.format, err)
		}
	}
}

func TestDecode_NumericIDsKeepTheirText(t *testing.T) {
	tests := []struct {
		format Format
		src    string
	}{
		{FormatYAML, "docs:\n  - 404\n  - 1.10\n  - type: doc\n    id: 007\n"},
		{FormatJSON, `{"docs": [404, 1.10, {"type": "doc", "id": "007"}]}`},
	}
	for _, tt := range tests {
		reg := decodeBuild(t, tt.src, tt.format)
		tree, _ := reg.Tree("docs")
		if got := strings.Join(tree.References(), ","); got != "404,1.10,007" {
			t.Errorf("%s: expected ids 404,1.10,007, got %s", tt.format, got)
		}
	}
}

func TestBuild_NumericIDHint(t *testing.T) {
	spec, err := Decode(strings.NewReader("[[sidebar]]\nname = \"docs\"\nitems = [404]\n"), FormatTOML, "")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, err = Build(spec)
	var me *MalformedNodeError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedNodeError, got %v", err)
	}
	if !strings.Contains(me.Reason, "quote it") {
		t.Errorf("expected a quoting hint, got %q", me.Reason)
	}
}
