// Package minioadapter implements hookctx.StoragePort against a
// MinIO/S3-compatible bucket via github.com/minio/minio-go/v7. Upload
// uses PutObject with a progress-reporting reader wrapper;
// GetRemoteFile uses StatObject; Remove uses RemoveObject, which
// minio-go already treats as idempotent for a missing key.
package minioadapter

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

// Config describes how to reach and authenticate against the bucket.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	// EndpointProxy, when set, is the public-facing base URL used to
	// build RemoteURL instead of the raw endpoint.
	EndpointProxy string
}

// Adapter wraps a *minio.Client scoped to a single bucket.
type Adapter struct {
	client *minio.Client
	bucket string
	cfg    Config
}

// New dials cfg.Endpoint and returns an Adapter for cfg.Bucket.
func New(cfg Config) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errs.NewAdapterError("connect", err)
	}
	return &Adapter{client: client, bucket: cfg.Bucket, cfg: cfg}, nil
}

func (a *Adapter) publicURL(key string) string {
	if a.cfg.EndpointProxy != "" {
		return a.cfg.EndpointProxy + "/" + a.bucket + "/" + key
	}
	scheme := "http"
	if a.cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + a.cfg.Endpoint + "/" + a.bucket + "/" + key
}

// progressReader wraps an io.Reader, reporting a coarse percentage to
// onProgress as bytes are read. minio-go's PutObject already accepts
// an io.Reader with a known size; this wrapper is what turns that read
// loop into the UploadContext.OnProgress callbacks the core requires.
type progressReader struct {
	io.Reader
	total      int64
	read       int64
	onProgress hookctx.OnProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.Reader.Read(buf)
	p.read += int64(n)
	if p.onProgress != nil && p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		p.onProgress(pct)
	}
	return n, err
}

// Upload puts f's bytes at a key derived from f.ID and reports
// progress as the PUT streams; it always calls OnProgress(100) once
// the call returns successfully, even if the stream was too small to
// trigger an intermediate callback.
func (a *Adapter) Upload(ctx hookctx.UploadContext, f *file.TrackedFile) (hookctx.UploadResult, error) {
	key := f.ID
	reader := &progressReader{
		Reader:     bytes.NewReader(f.Data),
		total:      int64(len(f.Data)),
		onProgress: ctx.OnProgress,
	}

	info, err := a.client.PutObject(ctx.Context, a.bucket, key, reader, int64(len(f.Data)), minio.PutObjectOptions{
		ContentType: f.MimeType,
	})
	if err != nil {
		return hookctx.UploadResult{}, errs.NewAdapterError("upload", err)
	}
	if ctx.OnProgress != nil {
		ctx.OnProgress(100)
	}

	return hookctx.UploadResult{URL: a.publicURL(info.Key), StorageKey: info.Key, Extra: info}, nil
}

// GetRemoteFile resolves metadata via StatObject, the inverse of
// Upload — storageKey round-trips to the same object PutObject wrote.
func (a *Adapter) GetRemoteFile(ctx hookctx.Context, storageKey string) (hookctx.RemoteMeta, error) {
	info, err := a.client.StatObject(ctx.Context, a.bucket, storageKey, minio.StatObjectOptions{})
	if err != nil {
		return hookctx.RemoteMeta{}, errs.NewAdapterError("getRemoteFile", err)
	}
	return hookctx.RemoteMeta{
		Size:      info.Size,
		MimeType:  info.ContentType,
		RemoteURL: a.publicURL(storageKey),
	}, nil
}

// Remove deletes f's object by StorageKey (falling back to f.ID).
// minio-go's RemoveObject returns no error for a missing key, so this
// already upholds the idempotent-delete contract without special
// casing.
func (a *Adapter) Remove(ctx hookctx.Context, f *file.TrackedFile) error {
	key := f.StorageKey
	if key == "" {
		key = f.ID
	}
	if err := a.client.RemoveObject(ctx.Context, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errs.NewAdapterError("remove", err)
	}
	return nil
}

// UploadAuxiliary stores a plugin-originated artifact (thumbnails)
// under key verbatim, implementing hookctx.AuxiliaryUploader.
func (a *Adapter) UploadAuxiliary(ctx context.Context, blob []byte, key string, contentType string) (hookctx.UploadResult, error) {
	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(blob), int64(len(blob)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return hookctx.UploadResult{}, errs.NewAdapterError("uploadAuxiliary", err)
	}
	return hookctx.UploadResult{URL: a.publicURL(info.Key), StorageKey: info.Key}, nil
}
