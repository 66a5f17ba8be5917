package pipeline

import "sync/atomic"

// Holder hands builds to concurrent readers. Current only ever returns a
// valid build; Latest returns the most recent attempt in any state.
type Holder struct {
	current atomic.Pointer[Build]
	latest  atomic.Pointer[Build]
}

// Current returns the last valid build, or nil before the first one.
func (h *Holder) Current() *Build {
	return h.current.Load()
}

// Latest returns the most recently started build.
func (h *Holder) Latest() *Build {
	return h.latest.Load()
}

func (h *Holder) track(b *Build) {
	h.latest.Store(b)
}

// Publish makes b the current build if it is valid.
func (h *Holder) Publish(b *Build) bool {
	b.mu.Lock()
	ok := b.Status == StatusValid
	b.mu.Unlock()
	if ok {
		h.current.Store(b)
	}
	return ok
}
