// Package hookctx defines the context types passed to plugin hooks and
// the storage adapter contract they share, per the data model's
// PluginContext/UploadContext and the storage adapter port. It sits
// below both the plugin and storage packages so neither has to import
// the other.
package hookctx

import (
	"context"

	"github.com/nova-upload/uploadcore/config"
	"github.com/nova-upload/uploadcore/file"
)

// EmitFunc is bound to a single plugin id; calls are delivered to the
// event bus as "<pluginID>:<name>".
type EmitFunc func(name string, payload any)

// Context is passed to every hook. Files is a snapshot taken at the
// moment of execution of the stage for the invoking plugin; plugins
// must not mutate it.
type Context struct {
	context.Context
	Files   []*file.TrackedFile
	Config  config.Config
	Storage StoragePort // nil when no adapter is configured
	Emit    EmitFunc
}

// OnProgressFunc reports upload percentage, [0,100], monotonically
// non-decreasing within one upload attempt.
type OnProgressFunc func(percentage int)

// UploadContext extends Context for the upload hook.
type UploadContext struct {
	Context
	OnProgress OnProgressFunc
}

// UploadResult is returned by a successful adapter Upload call. URL is
// required; StorageKey is optional but, when present, must round-trip
// through GetRemoteFile and Remove to the same logical object.
type UploadResult struct {
	URL        string
	StorageKey string
	Extra      any // adapter-specific payload, copied onto TrackedFile.UploadResult
}

// RemoteMeta is returned by GetRemoteFile, the inverse of Upload.
type RemoteMeta struct {
	Size         int64
	MimeType     string
	RemoteURL    string
	Preview      string
	UploadResult any
}

// StoragePort is the sole interface the core consumes from a storage
// backend. Implementations must uphold:
//  1. Idempotent delete: removing a non-existent object succeeds silently.
//  2. Storage-key identity: the key returned by Upload round-trips
//     through GetRemoteFile and Remove to the same object.
//  3. Progress monotonicity: successive OnProgress values are non-decreasing.
//  4. Error reporting: failures are returned, never swallowed.
type StoragePort interface {
	Upload(ctx UploadContext, f *file.TrackedFile) (UploadResult, error)
	GetRemoteFile(ctx Context, storageKey string) (RemoteMeta, error)
	Remove(ctx Context, f *file.TrackedFile) error
}

// AuxiliaryUploader is an optional capability for plugin-originated
// auxiliary artifacts (e.g. thumbnails) that do not correspond to a
// TrackedFile. Adapters that support standalone uploads implement it.
type AuxiliaryUploader interface {
	UploadAuxiliary(ctx context.Context, blob []byte, key string, contentType string) (UploadResult, error)
}
