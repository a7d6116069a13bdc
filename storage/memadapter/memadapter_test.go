package memadapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

func TestUploadThenGetRemoteFileRoundTripsStorageKey(t *testing.T) {
	a := New("")
	f := &file.TrackedFile{ID: "f1", Data: []byte("hello"), MimeType: "text/plain"}

	var lastProgress int
	result, err := a.Upload(hookctx.UploadContext{OnProgress: func(p int) { lastProgress = p }}, f)
	require.NoError(t, err)
	assert.Equal(t, 100, lastProgress)
	require.NotEmpty(t, result.StorageKey)

	meta, err := a.GetRemoteFile(hookctx.Context{}, result.StorageKey)
	require.NoError(t, err)
	assert.EqualValues(t, len(f.Data), meta.Size)
	assert.Equal(t, "text/plain", meta.MimeType)
}

func TestGetRemoteFileUnknownKeyErrors(t *testing.T) {
	a := New("")
	_, err := a.GetRemoteFile(hookctx.Context{}, "no-such-key")
	assert.Error(t, err)
}

func TestRemoveIsIdempotent(t *testing.T) {
	a := New("")
	f := &file.TrackedFile{ID: "f1", Data: []byte("hello")}
	result, err := a.Upload(hookctx.UploadContext{}, f)
	require.NoError(t, err)
	f.StorageKey = result.StorageKey

	require.NoError(t, a.Remove(hookctx.Context{}, f))
	// removing again must not error
	require.NoError(t, a.Remove(hookctx.Context{}, f))

	_, err = a.GetRemoteFile(hookctx.Context{}, result.StorageKey)
	assert.Error(t, err)
}

func TestUploadAuxiliaryStoresUnderChosenKey(t *testing.T) {
	a := New("https://cdn.example.test")
	result, err := a.UploadAuxiliary(context.Background(), []byte("thumb-bytes"), "thumbs/f1", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "thumbs/f1", result.StorageKey)
	assert.Equal(t, "https://cdn.example.test/thumbs/f1", result.URL)
}

func TestUrlForFallsBackToMemSchemeWithoutBaseURL(t *testing.T) {
	a := New("")
	result, err := a.Upload(hookctx.UploadContext{}, &file.TrackedFile{ID: "f2", Data: []byte("x")})
	require.NoError(t, err)
	assert.Contains(t, result.URL, "mem://")
}
