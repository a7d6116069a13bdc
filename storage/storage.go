// Package storage names the storage adapter port the core consumes.
// The port itself is defined in hookctx (so that neither plugin nor
// storage needs to import the other); this package re-exports it under
// the name callers expect plus the handful of adapter-facing types.
package storage

import "github.com/nova-upload/uploadcore/hookctx"

// Port is the contract a storage backend implements. See hookctx.StoragePort
// for the full obligation list (idempotent delete, storage-key identity,
// progress monotonicity, error reporting).
type Port = hookctx.StoragePort

// AuxiliaryUploader is the optional capability for plugin-originated
// auxiliary artifacts such as thumbnails.
type AuxiliaryUploader = hookctx.AuxiliaryUploader

// UploadResult and RemoteMeta are the adapter-facing value types.
type UploadResult = hookctx.UploadResult
type RemoteMeta = hookctx.RemoteMeta

// UploadContext and Context are re-exported for adapters that prefer
// importing storage over hookctx directly.
type UploadContext = hookctx.UploadContext
type Context = hookctx.Context
