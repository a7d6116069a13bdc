// Package rediscache decorates any hookctx.StoragePort with a
// GetRemoteFile cache backed by github.com/redis/go-redis/v9. Cache
// entries are invalidated on Remove, so a deleted object is never
// served stale metadata.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

// Decorator wraps an underlying hookctx.StoragePort, caching
// GetRemoteFile responses in Redis under keyPrefix+storageKey.
type Decorator struct {
	inner     hookctx.StoragePort
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// Option configures New.
type Option func(*Decorator)

// WithTTL overrides the default 10 minute cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(d *Decorator) { d.ttl = ttl }
}

// WithKeyPrefix overrides the default "uploadcore:remote:" Redis key
// prefix.
func WithKeyPrefix(prefix string) Option {
	return func(d *Decorator) { d.keyPrefix = prefix }
}

// New wraps inner with a Redis-backed GetRemoteFile cache.
func New(inner hookctx.StoragePort, client *redis.Client, opts ...Option) *Decorator {
	d := &Decorator{
		inner:     inner,
		client:    client,
		ttl:       10 * time.Minute,
		keyPrefix: "uploadcore:remote:",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decorator) cacheKey(storageKey string) string {
	return d.keyPrefix + storageKey
}

// Upload delegates directly; uploads are not cached.
func (d *Decorator) Upload(ctx hookctx.UploadContext, f *file.TrackedFile) (hookctx.UploadResult, error) {
	return d.inner.Upload(ctx, f)
}

// GetRemoteFile serves from Redis when present, otherwise delegates to
// inner and populates the cache on success.
func (d *Decorator) GetRemoteFile(ctx hookctx.Context, storageKey string) (hookctx.RemoteMeta, error) {
	key := d.cacheKey(storageKey)

	if cached, err := d.client.Get(ctx.Context, key).Bytes(); err == nil {
		var meta hookctx.RemoteMeta
		if jsonErr := json.Unmarshal(cached, &meta); jsonErr == nil {
			return meta, nil
		}
		logx.Errorf("rediscache: corrupt cache entry for %q, falling through", storageKey)
	} else if err != redis.Nil {
		logx.Errorf("rediscache: GET %q failed: %v", key, err)
	}

	meta, err := d.inner.GetRemoteFile(ctx, storageKey)
	if err != nil {
		return meta, err
	}

	if encoded, jsonErr := json.Marshal(meta); jsonErr == nil {
		if setErr := d.client.Set(ctx.Context, key, encoded, d.ttl).Err(); setErr != nil {
			logx.Errorf("rediscache: SET %q failed: %v", key, setErr)
		}
	}
	return meta, nil
}

// Remove delegates to inner, then invalidates the cache entry
// regardless of whether one existed — upholding idempotent delete even
// for an already-evicted cache entry.
func (d *Decorator) Remove(ctx hookctx.Context, f *file.TrackedFile) error {
	err := d.inner.Remove(ctx, f)
	key := f.StorageKey
	if key == "" {
		key = f.ID
	}
	if delErr := d.client.Del(ctx.Context, d.cacheKey(key)).Err(); delErr != nil {
		logx.Errorf("rediscache: DEL %q failed: %v", d.cacheKey(key), delErr)
	}
	return err
}

// UploadAuxiliary forwards to inner when it implements
// hookctx.AuxiliaryUploader, satisfying the optional capability
// without the decorator itself depending on it.
func (d *Decorator) UploadAuxiliary(ctx context.Context, blob []byte, key string, contentType string) (hookctx.UploadResult, error) {
	aux, ok := d.inner.(hookctx.AuxiliaryUploader)
	if !ok {
		return hookctx.UploadResult{}, fmt.Errorf("rediscache: underlying adapter does not support auxiliary uploads")
	}
	return aux.UploadAuxiliary(ctx, blob, key, contentType)
}
