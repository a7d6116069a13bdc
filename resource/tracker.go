// Package resource owns every transient handle the core creates for a
// TrackedFile — today, object URLs — guaranteeing release on every
// exit path: removal, data replacement, clear, reset, teardown.
package resource

import (
	"fmt"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// URLFactory mints an opaque handle referencing in-memory bytes. In a
// browser this would be URL.createObjectURL; here it is a stand-in the
// host environment may override (e.g. a local file:// handle, or a
// data: URL built from the bytes) — the tracker's job is lifecycle, not
// minting.
type URLFactory func(fileID string, data []byte) string

// DefaultURLFactory mints a deterministic opaque handle of the form
// "blob://<fileID>/<unix-nano>", matching the "opaque identifier" shape
// called for by the data model without depending on any browser API.
func DefaultURLFactory(fileID string, _ []byte) string {
	return fmt.Sprintf("blob://%s/%d", fileID, time.Now().UnixNano())
}

type entry struct {
	url       string
	createdAt time.Time
}

// Tracker maps fileID -> object URL and releases them on demand.
type Tracker struct {
	mu      sync.Mutex
	urls    map[string]entry
	factory URLFactory
}

// New builds a Tracker using factory to mint URLs. A nil factory falls
// back to DefaultURLFactory.
func New(factory URLFactory) *Tracker {
	if factory == nil {
		factory = DefaultURLFactory
	}
	return &Tracker{urls: make(map[string]entry), factory: factory}
}

// GetOrCreate returns the cached URL for fileID, minting one via the
// factory on first call.
func (t *Tracker) GetOrCreate(fileID string, data []byte) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.urls[fileID]; ok {
		return e.url
	}
	url := t.factory(fileID, data)
	t.urls[fileID] = entry{url: url, createdAt: time.Now()}
	return url
}

// Peek returns the cached URL for fileID without creating one.
func (t *Tracker) Peek(fileID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.urls[fileID]
	return e.url, ok
}

// Release frees fileID's URL, if any. It is a no-op for an unknown id.
func (t *Tracker) Release(fileID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.urls, fileID)
}

// Cleanup releases a single file's URL when fileID is non-empty, or
// drains every tracked URL when fileID is empty — the tracker's single
// entry point for both targeted and whole-tracker release.
func (t *Tracker) Cleanup(fileID string) {
	if fileID != "" {
		t.Release(fileID)
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.urls = make(map[string]entry)
}

// Count returns the number of currently tracked URLs. Used by resource
// safety tests: after reset/teardown it must be zero.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.urls)
}

// Sweep releases every URL older than maxAge whose owning file no
// longer appears in liveIDs. This is a defensive backstop — every
// removal path already releases its URL directly, so under normal
// operation Sweep finds nothing to do.
func (t *Tracker) Sweep(maxAge time.Duration, liveIDs map[string]struct{}) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	swept := 0
	for id, e := range t.urls {
		if _, live := liveIDs[id]; live {
			continue
		}
		if now.Sub(e.createdAt) < maxAge {
			continue
		}
		delete(t.urls, id)
		swept++
	}
	if swept > 0 {
		logx.Infof("resource: swept %d orphaned object URL(s)", swept)
	}
	return swept
}
