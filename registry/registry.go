// Package registry holds the authoritative ordered sequence of tracked
// files. It publishes no events itself; the manager emits them on its
// eventbus.Bus after each mutation.
package registry

import (
	"sync"

	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/file"
)

// Registry is the authoritative ordered sequence of TrackedFiles.
// It notifies no one itself: callers emit the relevant event after a
// mutating call returns, preserving the ordering guarantees the
// lifecycle controller is responsible for (see the manager package).
type Registry struct {
	mu    sync.RWMutex
	files []*file.TrackedFile
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// List returns a read-only snapshot in current order.
func (r *Registry) List() []*file.TrackedFile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*file.TrackedFile, len(r.files))
	copy(out, r.files)
	return out
}

// ByID does an O(files) lookup by id.
func (r *Registry) ByID(id string) (*file.TrackedFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.files {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Push appends f to the end of the sequence.
func (r *Registry) Push(f *file.TrackedFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

// ReplaceAt swaps the file with id for replacement in place, preserving
// position. Returns false if id is not present.
func (r *Registry) ReplaceAt(id string, replacement *file.TrackedFile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.files {
		if f.ID == id {
			r.files[i] = replacement
			return true
		}
	}
	return false
}

// RemoveWhere removes every file matching pred and returns the removed
// files in their original order.
func (r *Registry) RemoveWhere(pred func(*file.TrackedFile) bool) []*file.TrackedFile {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed, kept []*file.TrackedFile
	for _, f := range r.files {
		if pred(f) {
			removed = append(removed, f)
		} else {
			kept = append(kept, f)
		}
	}
	r.files = kept
	return removed
}

// Move relocates the file at oldIndex to newIndex, splicing the
// sequence. A no-op (returns false) when indices are equal, negative,
// or out of bounds.
func (r *Registry) Move(oldIndex, newIndex int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.files)
	if oldIndex == newIndex || oldIndex < 0 || newIndex < 0 || oldIndex >= n || newIndex >= n {
		return false
	}

	f := r.files[oldIndex]
	r.files = append(r.files[:oldIndex], r.files[oldIndex+1:]...)
	r.files = append(r.files[:newIndex], append([]*file.TrackedFile{f}, r.files[newIndex:]...)...)
	return true
}

// Clear truncates the registry and returns the removed files in their
// original order.
func (r *Registry) Clear() []*file.TrackedFile {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := r.files
	r.files = nil
	return removed
}

// Len returns the current number of tracked files.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// DerivedTotalProgress is the floored mean of Progress.Percentage
// across all tracked files; 0 when empty. Errored files contribute 0%
// toward the mean until removed, per the error-handling design.
func (r *Registry) DerivedTotalProgress() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.files) == 0 {
		return 0
	}
	sum := 0
	for _, f := range r.files {
		sum += f.Progress.Percentage
	}
	return sum / len(r.files)
}

// AllComplete reports whether every tracked file has reached
// file.StatusComplete. Used by the manager to drive the
// files:uploaded latch.
func (r *Registry) AllComplete() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.files) == 0 {
		return false
	}
	for _, f := range r.files {
		if f.Status != file.StatusComplete {
			return false
		}
	}
	return true
}
