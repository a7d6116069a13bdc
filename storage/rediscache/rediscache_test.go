package rediscache

import (
	"context"
	"net"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
	"github.com/nova-upload/uploadcore/storage/memadapter"
)

// unreachableRedisClient returns a client pointed at a port nothing is
// listening on, with a short timeout, so every command fails fast —
// exercising the decorator's degrade-to-inner behavior without a live
// Redis server.
func unreachableRedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close()) // nothing will ever accept on this address again

	return goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
	})
}

func TestUploadDelegatesDirectlyToInner(t *testing.T) {
	inner := memadapter.New("")
	d := New(inner, unreachableRedisClient(t))

	f := &file.TrackedFile{ID: "f1", Data: []byte("hello")}
	result, err := d.Upload(hookctx.UploadContext{}, f)

	require.NoError(t, err)
	assert.NotEmpty(t, result.StorageKey)
}

func TestGetRemoteFileFallsThroughWhenRedisUnreachable(t *testing.T) {
	inner := memadapter.New("")
	d := New(inner, unreachableRedisClient(t))

	f := &file.TrackedFile{ID: "f1", Data: []byte("hello")}
	uploaded, err := inner.Upload(hookctx.UploadContext{}, f)
	require.NoError(t, err)

	meta, err := d.GetRemoteFile(hookctx.Context{Context: context.Background()}, uploaded.StorageKey)
	require.NoError(t, err, "must fall through to inner when the cache is unreachable")
	assert.EqualValues(t, len(f.Data), meta.Size)
}

func TestRemoveStillDelegatesWhenCacheInvalidationFails(t *testing.T) {
	inner := memadapter.New("")
	d := New(inner, unreachableRedisClient(t))

	f := &file.TrackedFile{ID: "f1", Data: []byte("hello")}
	uploaded, err := inner.Upload(hookctx.UploadContext{}, f)
	require.NoError(t, err)
	f.StorageKey = uploaded.StorageKey

	err = d.Remove(hookctx.Context{Context: context.Background()}, f)
	require.NoError(t, err)

	_, err = inner.GetRemoteFile(hookctx.Context{}, uploaded.StorageKey)
	assert.Error(t, err, "the underlying object must still be gone")
}

func TestUploadAuxiliaryForwardsWhenInnerSupportsIt(t *testing.T) {
	inner := memadapter.New("https://cdn.example.test")
	d := New(inner, unreachableRedisClient(t))

	result, err := d.UploadAuxiliary(context.Background(), []byte("thumb"), "thumbs/f1", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "thumbs/f1", result.StorageKey)
}

func TestWithTTLAndWithKeyPrefixOptionsApply(t *testing.T) {
	d := New(memadapter.New(""), unreachableRedisClient(t), WithTTL(time.Minute), WithKeyPrefix("custom:"))

	assert.Equal(t, time.Minute, d.ttl)
	assert.Equal(t, "custom:storagekey", d.cacheKey("storagekey"))
}
