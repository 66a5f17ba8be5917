package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docnav/internal/corpus"
	"github.com/dgallion1/docnav/internal/parser"
	"github.com/fsnotify/fsnotify"
)

// Watcher rebuilds whenever the sidebar file or the docs tree changes.
// Bursts of events within the debounce window collapse into one build.
type Watcher struct {
	runner   *Runner
	log      *slog.Logger
	debounce time.Duration

	sidebars string // absolute
	docsDir  string // absolute

	// OnBuild, if set, is called after every rebuild from the watch loop.
	OnBuild func(*Build)

	fw *fsnotify.Watcher
}

// NewWatcher creates a watcher for the runner's inputs.
func NewWatcher(r *Runner, debounce time.Duration) (*Watcher, error) {
	sidebars, err := filepath.Abs(r.cfg.Sidebars)
	if err != nil {
		return nil, err
	}
	docsDir, err := filepath.Abs(r.cfg.DocsDir)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		runner:   r,
		log:      r.log.With("component", "watcher"),
		debounce: debounce,
		sidebars: sidebars,
		docsDir:  docsDir,
		fw:       fw,
	}, nil
}

// Run watches until ctx is done. The fsnotify watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	// Watch the directory, not the file: editors replace files on save.
	if err := w.fw.Add(filepath.Dir(w.sidebars)); err != nil {
		return err
	}
	if err := w.addTree(w.docsDir); err != nil {
		return err
	}
	w.log.Info("watching for changes", "sidebars", w.sidebars, "docs_dir", w.docsDir, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.log.Warn("watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			w.log.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case <-timer.C:
			b, err := w.runner.Run(ctx)
			if err != nil && errors.Is(err, context.Canceled) {
				return nil
			}
			if cur := w.runner.holder.Current(); cur != nil && cur != b {
				w.log.Info("keeping previous build", "build_id", cur.ID)
			}
			if w.OnBuild != nil {
				w.OnBuild(b)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			// Watch errors are non-fatal.
			w.log.Warn("watch error", "error", err)
		}
	}
}

// addTree watches dir and every non-ignored directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && corpus.Ignored(d.Name()) {
			return filepath.SkipDir
		}
		return w.fw.Add(p)
	})
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == w.sidebars {
		return true
	}
	rel, err := filepath.Rel(w.docsDir, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if corpus.Ignored(seg) {
			return false
		}
	}
	// Directories have no extension; creations and removals of them matter.
	return parser.IsSupportedExtension(name) || filepath.Ext(name) == ""
}
