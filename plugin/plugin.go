// Package plugin defines the plugin contract executed by the core at
// each pipeline stage: validate, preprocess, process, complete. A
// storage adapter additionally implements hookctx.StoragePort.
package plugin

import (
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

// ValidateHook may inspect f and ctx.Files but must not transform f.
// A non-nil error fails the add: the lifecycle controller records f
// with Status=error and returns the error to the caller.
type ValidateHook func(f *file.TrackedFile, ctx hookctx.Context) error

// PreprocessHook may produce UI-only side effects (preview, thumbnail
// data URL) and optionally return an updated file. It must not mutate
// bytes or rename the file.
type PreprocessHook func(f *file.TrackedFile, ctx hookctx.Context) (*file.TrackedFile, error)

// ProcessHook may transform bytes (compression, re-encoding) and
// replace Data, Size, MimeType, and optionally ID. Returns the
// possibly-new file.
type ProcessHook func(f *file.TrackedFile, ctx hookctx.Context) (*file.TrackedFile, error)

// CompleteHook runs post-upload side effects.
type CompleteHook func(f *file.TrackedFile, ctx hookctx.Context) error

// Hooks is a partial mapping over the four pipeline stages. Any field
// may be nil.
type Hooks struct {
	Validate   ValidateHook
	Preprocess PreprocessHook
	Process    ProcessHook
	Complete   CompleteHook
}

// Plugin is a bundle of hooks sharing an id, which the core invokes at
// specific stages. ID must be non-empty; it is used as the event
// namespace prefix for the plugin's emit calls.
type Plugin struct {
	ID    string
	Hooks Hooks
}
