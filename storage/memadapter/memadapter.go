// Package memadapter is an in-memory storage.Port implementation used
// for tests and the demo's offline mode. Objects are keyed by an
// opaque string and held in a process-local map.
package memadapter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

type object struct {
	data        []byte
	mimeType    string
	contentType string
}

// Adapter is a thread-safe, process-local object store keyed by
// storage key. BaseURL, when set, is prefixed to keys to build a
// fake-but-stable RemoteURL.
type Adapter struct {
	mu      sync.Mutex
	objects map[string]object
	seq     atomic.Uint64
	BaseURL string
}

// New returns an empty Adapter.
func New(baseURL string) *Adapter {
	return &Adapter{objects: make(map[string]object), BaseURL: baseURL}
}

func (a *Adapter) urlFor(key string) string {
	if a.BaseURL == "" {
		return "mem://" + key
	}
	return a.BaseURL + "/" + key
}

// Upload stores f's bytes under a key derived from f.ID and reports a
// single 100% progress callback, satisfying the "at least once with
// 100 on completion" obligation.
func (a *Adapter) Upload(ctx hookctx.UploadContext, f *file.TrackedFile) (hookctx.UploadResult, error) {
	key := fmt.Sprintf("%s/%d", f.ID, a.seq.Add(1))

	a.mu.Lock()
	a.objects[key] = object{data: append([]byte(nil), f.Data...), mimeType: f.MimeType}
	a.mu.Unlock()

	if ctx.OnProgress != nil {
		ctx.OnProgress(100)
	}

	return hookctx.UploadResult{URL: a.urlFor(key), StorageKey: key}, nil
}

// GetRemoteFile resolves metadata for storageKey, the inverse of
// Upload.
func (a *Adapter) GetRemoteFile(ctx hookctx.Context, storageKey string) (hookctx.RemoteMeta, error) {
	a.mu.Lock()
	obj, ok := a.objects[storageKey]
	a.mu.Unlock()
	if !ok {
		return hookctx.RemoteMeta{}, errs.NewAdapterError("getRemoteFile", fmt.Errorf("no such object: %s", storageKey))
	}
	return hookctx.RemoteMeta{
		Size:      int64(len(obj.data)),
		MimeType:  obj.mimeType,
		RemoteURL: a.urlFor(storageKey),
	}, nil
}

// Remove deletes the object referenced by f.StorageKey (or, if absent,
// derived from f.RemoteURL). Removing a non-existent object succeeds
// silently, per the idempotent-delete contract.
func (a *Adapter) Remove(ctx hookctx.Context, f *file.TrackedFile) error {
	key := f.StorageKey
	if key == "" {
		key = keyFromURL(f.RemoteURL, a.BaseURL)
	}
	a.mu.Lock()
	delete(a.objects, key)
	a.mu.Unlock()
	return nil
}

// UploadAuxiliary stores a plugin-originated artifact (e.g. a
// thumbnail) under the caller-chosen key verbatim, implementing
// hookctx.AuxiliaryUploader.
func (a *Adapter) UploadAuxiliary(_ context.Context, blob []byte, key string, contentType string) (hookctx.UploadResult, error) {
	a.mu.Lock()
	a.objects[key] = object{data: append([]byte(nil), blob...), contentType: contentType}
	a.mu.Unlock()
	return hookctx.UploadResult{URL: a.urlFor(key), StorageKey: key}, nil
}

func keyFromURL(url, baseURL string) string {
	prefix := baseURL + "/"
	if baseURL == "" {
		prefix = "mem://"
	}
	if len(url) > len(prefix) && url[:len(prefix)] == prefix {
		return url[len(prefix):]
	}
	return url
}
