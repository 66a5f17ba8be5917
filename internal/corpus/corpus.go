// Package corpus scans a docs directory into the set of known document ids.
package corpus

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/dgallion1/docnav/internal/parser"
	"golang.org/x/sync/errgroup"
)

// ErrDuplicateID is returned when two files resolve to the same document id.
var ErrDuplicateID = errors.New("duplicate document id")

// Document is one page of the corpus.
type Document struct {
	ID           string   `json:"id"`
	Path         string   `json:"path"`
	Title        string   `json:"title"`
	SidebarLabel string   `json:"sidebar_label,omitempty"`
	Draft        bool     `json:"draft,omitempty"`
	Outline      []string `json:"outline"`

	Hash string `json:"-"` // SHA-256 of the file contents
}

// Options tune corpus loading.
type Options struct {
	Workers              int
	IncludeDrafts        bool
	PDFFallbackPdftotext bool
	Log                  *slog.Logger
}

// Corpus is an immutable set of documents keyed by id.
type Corpus struct {
	docs map[string]*Document
	ids  []string
}

// New builds a corpus from already parsed documents.
func New(docs []Document) (*Corpus, error) {
	c := &Corpus{docs: make(map[string]*Document, len(docs))}
	for i := range docs {
		d := &docs[i]
		if prev, ok := c.docs[d.ID]; ok {
			return nil, fmt.Errorf("%w %q: %s and %s", ErrDuplicateID, d.ID, prev.Path, d.Path)
		}
		c.docs[d.ID] = d
		c.ids = append(c.ids, d.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// Contains reports whether id names a document in the corpus.
func (c *Corpus) Contains(id string) bool {
	_, ok := c.docs[id]
	return ok
}

// Get returns the document with the given id.
func (c *Corpus) Get(id string) (*Document, bool) {
	d, ok := c.docs[id]
	return d, ok
}

// Label returns the sidebar label of id, falling back to its title. It is
// empty for unknown ids.
func (c *Corpus) Label(id string) string {
	d, ok := c.docs[id]
	if !ok {
		return ""
	}
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// IDs returns all document ids in sorted order.
func (c *Corpus) IDs() []string {
	return slices.Clone(c.ids)
}

func (c *Corpus) Len() int {
	return len(c.ids)
}

// Fingerprint hashes every document id and content hash.
func (c *Corpus) Fingerprint() []byte {
	h := sha256.New()
	for _, id := range c.ids {
		d := c.docs[id]
		fmt.Fprintf(h, "%s\x00%s\x00%s\n", id, d.Path, d.Hash)
	}
	return h.Sum(nil)
}

// Load walks dir and parses every supported page with a bounded worker pool.
func Load(ctx context.Context, dir string, opts Options) (*Corpus, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}

	files, err := scan(dir)
	if err != nil {
		return nil, err
	}

	parsed := make([]*Document, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := loadDocument(dir, rel, opts)
			if err != nil {
				return fmt.Errorf("load %s: %w", rel, err)
			}
			parsed[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(parsed))
	for _, d := range parsed {
		if d.Draft && !opts.IncludeDrafts {
			log.Debug("skipping draft", "path", d.Path, "id", d.ID)
			continue
		}
		docs = append(docs, *d)
	}
	c, err := New(docs)
	if err != nil {
		return nil, err
	}
	log.Info("corpus loaded", "dir", dir, "files", len(files), "documents", c.Len())
	return c, nil
}

// scan lists supported files under dir as slash-separated relative paths,
// skipping anything whose name starts with "_" or ".".
func scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs dir %s: not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		if Ignored(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !parser.IsSupportedExtension(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

func loadDocument(dir, rel string, opts Options) (*Document, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	p, err := parser.ForFile(rel, parser.Options{PDFFallbackPdftotext: opts.PDFFallbackPdftotext})
	if err != nil {
		return nil, err
	}
	tree, err := p.Parse(bytes.NewReader(data), rel)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	outline := tree.Outline()
	if outline == nil {
		outline = []string{}
	}
	return &Document{
		ID:           DocumentID(rel, tree.Meta.ID),
		Path:         rel,
		Title:        tree.Title,
		SidebarLabel: tree.Meta.SidebarLabel,
		Draft:        tree.Meta.Draft,
		Outline:      outline,
		Hash:         fmt.Sprintf("%x", sum[:]),
	}, nil
}

// Ignored reports whether a file or directory name is excluded from the corpus.
func Ignored(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

var numberPrefix = regexp.MustCompile(`^\d+\s*[-_.]+\s*`)

// DocumentID derives the id of the page at the slash-separated relative path
// rel. Numeric ordering prefixes are removed from every segment and a
// non-empty override replaces the last one.
func DocumentID(rel, override string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		segs[i] = StripNumberPrefix(s)
	}
	if override = strings.TrimSpace(override); override != "" {
		segs[len(segs)-1] = override
	}
	return strings.Join(segs, "/")
}

// StripNumberPrefix removes a leading "01-", "2_" or "3." style prefix
// unless nothing would remain.
func StripNumberPrefix(s string) string {
	loc := numberPrefix.FindStringIndex(s)
	if loc == nil || loc[1] == len(s) {
		return s
	}
	return s[loc[1]:]
}
