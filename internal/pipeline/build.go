package pipeline

import (
	"crypto/sha256"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/dgallion1/docnav/internal/corpus"
	"github.com/dgallion1/docnav/internal/sidebar"
)

// Status represents the state of a build.
type Status string

const (
	StatusLoading    Status = "loading"
	StatusBuilding   Status = "building"
	StatusValidating Status = "validating"
	StatusValid      Status = "valid"
	StatusInvalid    Status = "invalid"
	StatusFailed     Status = "failed"
)

// Done reports whether s is a final status.
func (s Status) Done() bool {
	return s == StatusValid || s == StatusInvalid || s == StatusFailed
}

// Build tracks one load → build → validate run. Once Done it is never
// mutated again, so finished builds may be shared between goroutines.
type Build struct {
	mu sync.Mutex

	ID       string
	Sidebars string
	DocsDir  string

	Status Status
	Phase  string

	Fingerprint string
	StartedAt   time.Time
	UpdatedAt   time.Time
	FinishedAt  time.Time

	// Set once the build is Done.
	Registry   *sidebar.Registry
	Corpus     *corpus.Corpus
	Violations sidebar.Violations

	durations map[string]time.Duration
	err       error
}

func newBuild(id, sidebars, docsDir string) *Build {
	now := time.Now()
	return &Build{
		ID:        id,
		Sidebars:  sidebars,
		DocsDir:   docsDir,
		Status:    StatusLoading,
		Phase:     "starting",
		StartedAt: now,
		UpdatedAt: now,
		durations: make(map[string]time.Duration),
	}
}

// SetStatus updates build status atomically. A finished build keeps its
// final status.
func (b *Build) SetStatus(status Status, phase string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Status.Done() {
		return
	}
	b.Status = status
	b.Phase = phase
	b.UpdatedAt = time.Now()
}

func (b *Build) recordPhase(phase string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.durations[phase] += d
}

func (b *Build) fail(phase string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Status.Done() {
		return
	}
	b.Status = StatusFailed
	b.Phase = phase
	b.err = err
	b.UpdatedAt = time.Now()
	b.FinishedAt = b.UpdatedAt
}

func (b *Build) finish(reg *sidebar.Registry, docs *corpus.Corpus, vs sidebar.Violations, fingerprint string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Status.Done() {
		return
	}
	b.Registry = reg
	b.Corpus = docs
	b.Violations = vs
	b.Fingerprint = fingerprint
	b.Status = StatusValid
	if len(vs) > 0 {
		b.Status = StatusInvalid
	}
	b.Phase = "done"
	b.UpdatedAt = time.Now()
	b.FinishedAt = b.UpdatedAt
}

// Err returns the failure cause of a failed build, the violation summary of
// an invalid one, and nil otherwise.
func (b *Build) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.Status {
	case StatusFailed:
		return b.err
	case StatusInvalid:
		return b.Violations.Err()
	}
	return nil
}

// Durations returns a copy of the time spent per phase.
func (b *Build) Durations() map[string]time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.durations)
}

// BuildSnapshot is a read-only, JSON-safe copy of build state.
type BuildSnapshot struct {
	ID          string             `json:"build_id"`
	Status      Status             `json:"status"`
	Phase       string             `json:"phase"`
	Sidebars    string             `json:"sidebars_file"`
	DocsDir     string             `json:"docs_dir"`
	Fingerprint string             `json:"fingerprint,omitempty"`
	Trees       []string           `json:"trees"`
	Documents   int                `json:"documents"`
	Violations  sidebar.Violations `json:"violations"`
	Error       string             `json:"error,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  *time.Time         `json:"finished_at,omitempty"`
	DurationsMs map[string]int64   `json:"durations_ms"`
}

// Snapshot returns a JSON-safe copy of the build state.
func (b *Build) Snapshot() BuildSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := BuildSnapshot{
		ID:          b.ID,
		Status:      b.Status,
		Phase:       b.Phase,
		Sidebars:    b.Sidebars,
		DocsDir:     b.DocsDir,
		Fingerprint: b.Fingerprint,
		Trees:       []string{},
		Violations:  b.Violations,
		StartedAt:   b.StartedAt,
		DurationsMs: make(map[string]int64, len(b.durations)),
	}
	if snap.Violations == nil {
		snap.Violations = sidebar.Violations{}
	}
	if b.Registry != nil {
		snap.Trees = b.Registry.Names()
	}
	if b.Corpus != nil {
		snap.Documents = b.Corpus.Len()
	}
	if b.err != nil {
		snap.Error = b.err.Error()
	}
	if !b.FinishedAt.IsZero() {
		t := b.FinishedAt
		snap.FinishedAt = &t
	}
	for phase, d := range b.durations {
		snap.DurationsMs[phase] = d.Milliseconds()
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
