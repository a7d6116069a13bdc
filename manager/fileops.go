package manager

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nova-upload/uploadcore/eventbus"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

// DeleteStorageMode controls whether RemoveFile also deletes the
// remote object.
type DeleteStorageMode string

const (
	DeleteAlways    DeleteStorageMode = "always" // default
	DeleteNever     DeleteStorageMode = "never"
	DeleteLocalOnly DeleteStorageMode = "local-only" // alias of DeleteNever
)

// RemoveOptions configures RemoveFile's deletion behavior.
type RemoveOptions struct {
	DeleteFromStorage DeleteStorageMode
}

// RemoveFile looks up id, optionally deletes the remote object per
// opts.DeleteFromStorage (default DeleteAlways), releases the file's
// object URL if any, removes it from the registry, and emits
// file:removed. It is a no-op on an unknown id.
func (m *Manager) RemoveFile(id string, opts *RemoveOptions) {
	f, err := m.reg.ByID(id)
	if err != nil {
		return
	}

	mode := DeleteAlways
	if opts != nil && opts.DeleteFromStorage != "" {
		mode = opts.DeleteFromStorage
	}

	if mode != DeleteNever && mode != DeleteLocalOnly && f.RemoteURL != "" && m.storage != nil {
		if err := m.storage.Remove(m.hookContext(), f); err != nil {
			logAdapterFailure("remove", f.ID, err)
		}
	}

	m.tracker.Release(f.ID)
	m.reg.RemoveWhere(func(candidate *file.TrackedFile) bool { return candidate.ID == id })
	m.clearUploadedLatch()
	m.bus.Emit(eventbus.FileRemoved, f)
}

// RemoveFiles is the local-only bulk remove variant: no adapter call,
// URLs released, file:removed emitted per file.
func (m *Manager) RemoveFiles(ids []string) {
	for _, id := range ids {
		f, err := m.reg.ByID(id)
		if err != nil {
			continue
		}
		m.tracker.Release(f.ID)
		m.reg.RemoveWhere(func(candidate *file.TrackedFile) bool { return candidate.ID == id })
		m.clearUploadedLatch()
		m.bus.Emit(eventbus.FileRemoved, f)
	}
}

// ClearFiles releases every tracked URL, truncates the registry, and
// emits file:removed for each removed file.
func (m *Manager) ClearFiles() {
	removed := m.reg.Clear()
	for _, f := range removed {
		m.tracker.Release(f.ID)
	}
	m.clearUploadedLatch()
	for _, f := range removed {
		m.bus.Emit(eventbus.FileRemoved, f)
	}
}

// ReorderFile splices the file at oldIndex to newIndex. A no-op when
// indices are equal or out of bounds.
func (m *Manager) ReorderFile(oldIndex, newIndex int) {
	if !m.reg.Move(oldIndex, newIndex) {
		logx.Infof("reorderFile: no-op for indices %d -> %d", oldIndex, newIndex)
		return
	}
	m.bus.Emit(eventbus.FilesReorder, map[string]any{"oldIndex": oldIndex, "newIndex": newIndex})
}

// GetFile returns the tracked file for id or errs.ErrNotFound.
func (m *Manager) GetFile(id string) (*file.TrackedFile, error) {
	return m.reg.ByID(id)
}

const sizeWarningThreshold = 100 * 1024 * 1024 // ~100MB

// GetFileData returns f's bytes: for a local file, the owned data; for
// a remote file, the bytes fetched from RemoteURL. It fails when the
// fetch response is not ok.
func (m *Manager) GetFileData(ctx context.Context, id string) ([]byte, error) {
	f, err := m.reg.ByID(id)
	if err != nil {
		return nil, err
	}

	if f.IsLocal() {
		if f.Size > sizeWarningThreshold {
			logx.Infof("getFileData: file %s is %d bytes, above the size-warning threshold", id, f.Size)
		}
		return f.Data, nil
	}

	data, err := fetchRemote(ctx, f.RemoteURL)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > sizeWarningThreshold {
		logx.Infof("getFileData: remote file %s is %d bytes, above the size-warning threshold", id, len(data))
	}
	return data, nil
}

// GetFileURL returns a local file's cached (or freshly created)
// object URL, or a remote file's RemoteURL.
func (m *Manager) GetFileURL(id string) (string, error) {
	f, err := m.reg.ByID(id)
	if err != nil {
		return "", err
	}
	if !f.IsLocal() {
		return f.RemoteURL, nil
	}
	return m.tracker.GetOrCreate(f.ID, f.Data), nil
}

// GetFileStream returns a reader over f's bytes: an in-memory reader
// for a local file, or the HTTP response body for a remote file. The
// caller owns closing the returned ReadCloser.
func (m *Manager) GetFileStream(ctx context.Context, id string) (io.ReadCloser, error) {
	f, err := m.reg.ByID(id)
	if err != nil {
		return nil, err
	}
	if f.IsLocal() {
		return io.NopCloser(bytes.NewReader(f.Data)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.RemoteURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("getFileStream: remote fetch for %s returned status %d", id, resp.StatusCode)
	}
	return resp.Body, nil
}

func fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("getFileData: remote fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ReplaceFileData releases the cached object URL for id, builds a new
// SourceLocal variant (preserving id; clearing RemoteURL/Meta),
// re-runs preprocess, replaces the entry in the registry, and emits
// file:replaced then file:added. If autoUploadOverride is non-nil and
// true, or nil and the manager's AutoUpload is set, it schedules
// Upload.
func (m *Manager) ReplaceFileData(id string, data []byte, newName string, autoUploadOverride *bool) (*file.TrackedFile, error) {
	existing, err := m.reg.ByID(id)
	if err != nil {
		return nil, err
	}

	m.tracker.Release(id)

	name := existing.Name
	if newName != "" {
		name = newName
	}

	replacement := &file.TrackedFile{
		ID:       id,
		Name:     name,
		Size:     int64(len(data)),
		MimeType: existing.MimeType,
		Source:   file.SourceLocal,
		Status:   file.StatusWaiting,
		Data:     data,
	}

	processed, ppErr := m.runner.RunPreprocess(replacement, m.snapshot())
	if ppErr != nil {
		processed.Status = file.StatusError
		processed.Error = &file.Error{Message: ppErr.Error()}
	}

	m.reg.ReplaceAt(id, processed)
	m.clearUploadedLatch()
	m.bus.Emit(eventbus.FileReplaced, processed)
	m.bus.Emit(eventbus.FileAdded, processed)
	if ppErr != nil {
		m.bus.Emit(eventbus.FileError, fileErrorPayload(processed, ppErr))
	}

	shouldUpload := m.cfg.AutoUpload
	if autoUploadOverride != nil {
		shouldUpload = *autoUploadOverride
	}
	if shouldUpload {
		m.scheduleAutoUpload()
	}

	return processed, nil
}

// applyFieldPatch assigns value to the TrackedFile field named by key
// when key is one UpdateFile updates directly and value has the
// expected type, and reports whether it did; UpdateFile puts anything
// else into Meta.
func applyFieldPatch(f *file.TrackedFile, key string, value any) (applied bool) {
	switch key {
	case "name":
		s, ok := value.(string)
		if !ok {
			return false
		}
		f.Name = s
	case "mimeType":
		s, ok := value.(string)
		if !ok {
			return false
		}
		f.MimeType = s
	case "status":
		switch s := value.(type) {
		case file.Status:
			f.Status = s
		case string:
			f.Status = file.Status(s)
		default:
			return false
		}
	case "remoteUrl":
		s, ok := value.(string)
		if !ok {
			return false
		}
		f.RemoteURL = s
	case "storageKey":
		s, ok := value.(string)
		if !ok {
			return false
		}
		f.StorageKey = s
	case "preview":
		s, ok := value.(string)
		if !ok {
			return false
		}
		f.Preview = s
	case "error":
		switch e := value.(type) {
		case *file.Error:
			f.Error = e
		case nil:
			f.Error = nil
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// UpdateFile shallow-merges patch into f's top-level fields: each key
// matching a known TrackedFile field (name, mimeType, status, remoteUrl,
// storageKey, preview, error) assigns that field directly when its value
// is the expected type; every other key is merged into f.Meta instead.
// No events are emitted.
func (m *Manager) UpdateFile(id string, patch map[string]any) error {
	f, err := m.reg.ByID(id)
	if err != nil {
		return err
	}
	for k, v := range patch {
		if applyFieldPatch(f, k, v) {
			continue
		}
		if f.Meta == nil {
			f.Meta = make(map[string]any, len(patch))
		}
		f.Meta[k] = v
	}
	return nil
}

// Reset releases every tracked URL and truncates the registry
// silently — no per-file events.
func (m *Manager) Reset() {
	m.reg.Clear()
	m.tracker.Cleanup("")
	m.clearUploadedLatch()
}

// hookContext builds the ambient hookctx.Context handed to the storage
// port for operations the Lifecycle Controller drives directly
// (Remove), outside the stage dispatch in plugin.Runner.
func (m *Manager) hookContext() hookctx.Context {
	return hookctx.Context{
		Context: context.Background(),
		Files:   m.snapshot(),
		Config:  m.cfg,
		Storage: m.storage,
		Emit:    m.runner.EmitterFor("storage"),
	}
}
