package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/corpus"
	"github.com/dgallion1/docnav/internal/metrics"
	"github.com/dgallion1/docnav/internal/sidebar"
	"github.com/dgallion1/docnav/internal/site"
	"github.com/google/uuid"
)

// Runner executes builds and publishes the valid ones.
type Runner struct {
	cfg     config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
	holder  *Holder
}

// NewRunner creates a runner. m may be nil.
func NewRunner(cfg config.Config, log *slog.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		cfg:     cfg,
		log:     log,
		metrics: m,
		holder:  &Holder{},
	}
}

// Holder returns the holder that receives this runner's builds.
func (r *Runner) Holder() *Holder {
	return r.holder
}

// Run performs a single build without metrics.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) (*Build, error) {
	return NewRunner(cfg, log, nil).Run(ctx)
}

// Run loads the sidebar file and docs, builds every tree and validates the
// result. The returned error is non-nil only when the build failed before
// validation; an invalid build reports its violations through Build.Err.
func (r *Runner) Run(ctx context.Context) (*Build, error) {
	b := newBuild(uuid.NewString(), r.cfg.Sidebars, r.cfg.DocsDir)
	r.holder.track(b)
	log := r.log.With("build_id", b.ID)
	log.Info("build started", "sidebars", r.cfg.Sidebars, "docs_dir", r.cfg.DocsDir)

	// Phase 1: Load
	b.SetStatus(StatusLoading, "reading sidebars")
	start := time.Now()
	raw, spec, err := readSpec(r.cfg.Sidebars)
	if err != nil {
		return r.failed(log, b, "reading sidebars", err)
	}

	b.SetStatus(StatusLoading, "scanning docs")
	docs, err := corpus.Load(ctx, r.cfg.DocsDir, corpus.Options{
		Workers:              r.cfg.WorkerCount,
		IncludeDrafts:        r.cfg.IncludeDrafts,
		PDFFallbackPdftotext: r.cfg.PDFFallbackPdftotext,
		Log:                  log,
	})
	if err != nil {
		return r.failed(log, b, "scanning docs", err)
	}
	r.phase(b, "load", start)

	// Phase 2: Build
	b.SetStatus(StatusBuilding, "building trees")
	start = time.Now()
	reg, err := sidebar.Build(spec, sidebar.WithMaxDepth(r.cfg.MaxDepth))
	if err != nil {
		return r.failed(log, b, "building trees", err)
	}
	r.phase(b, "build", start)

	// Phase 3: Validate
	b.SetStatus(StatusValidating, "checking references")
	start = time.Now()
	vs, err := reg.Validate(docs)
	if err != nil {
		return r.failed(log, b, "checking references", err)
	}
	b.SetStatus(StatusValidating, "checking site navigation")
	vs = append(vs, site.Check(r.cfg.Site, reg, docs)...)
	r.phase(b, "validate", start)

	fp, err := fingerprint(raw, docs, r.cfg.Site)
	if err != nil {
		return r.failed(log, b, "fingerprint", err)
	}
	b.finish(reg, docs, vs, fp)

	byKind := make(map[string]int)
	for _, v := range vs {
		byKind[string(v.Kind)]++
	}
	r.metrics.BuildFinished(string(b.Status), byKind, docs.Len())

	if r.holder.Publish(b) {
		r.metrics.Published(reg.Len(), b.FinishedAt)
		log.Info("build published",
			"trees", reg.Len(),
			"documents", docs.Len(),
			"fingerprint", fp[:12],
			"duration_ms", time.Since(b.StartedAt).Milliseconds(),
			phaseAttr(b.Durations()),
		)
		return b, nil
	}

	for _, v := range vs {
		log.Warn("violation", "kind", v.Kind, "location", v.Location(), "value", v.Value, "detail", v.Detail)
	}
	log.Error("build invalid", "violations", len(vs), phaseAttr(b.Durations()))
	return b, nil
}

func (r *Runner) failed(log *slog.Logger, b *Build, phase string, err error) (*Build, error) {
	log.Error("build failed", "phase", phase, "error", err)
	b.fail(phase, err)
	r.metrics.BuildFailed()
	return b, err
}

func (r *Runner) phase(b *Build, name string, start time.Time) {
	d := time.Since(start)
	b.recordPhase(name, d)
	r.metrics.ObservePhase(name, d)
}

// readSpec returns the raw sidebar file alongside its decoded spec.
func readSpec(path string) ([]byte, sidebar.Spec, error) {
	format, err := sidebar.FormatForFile(path)
	if err != nil {
		return nil, sidebar.Spec{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, sidebar.Spec{}, fmt.Errorf("read sidebars: %w", err)
	}
	spec, err := sidebar.Decode(bytes.NewReader(raw), format, filepath.Base(path))
	if err != nil {
		return nil, sidebar.Spec{}, err
	}
	return raw, spec, nil
}

// fingerprint hashes everything a build reads.
func fingerprint(sidebars []byte, docs *corpus.Corpus, sc site.Config) (string, error) {
	siteJSON, err := json.Marshal(sc)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.Write(sidebars)
	buf.WriteByte(0)
	buf.Write(docs.Fingerprint())
	buf.WriteByte(0)
	buf.Write(siteJSON)
	return ContentHashHex(buf.Bytes()), nil
}

// phaseAttr groups per-phase durations in milliseconds, sorted by phase.
func phaseAttr(d map[string]time.Duration) slog.Attr {
	attrs := make([]any, 0, len(d))
	for _, name := range slices.Sorted(maps.Keys(d)) {
		attrs = append(attrs, slog.Int64(name, d[name].Milliseconds()))
	}
	return slog.Group("phase_ms", attrs...)
}
