package manager

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-upload/uploadcore/config"
	"github.com/nova-upload/uploadcore/eventbus"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
	"github.com/nova-upload/uploadcore/plugin"
	"github.com/nova-upload/uploadcore/storage/memadapter"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition was not met before timeout")
}

func TestAddFileAdmitsWithUniqueIDs(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	a, err := mgr.AddFile(FileSource{Name: "a.png", Data: []byte("aaa"), MimeType: "image/png"})
	require.NoError(t, err)
	b, err := mgr.AddFile(FileSource{Name: "b.png", Data: []byte("bbb"), MimeType: "image/png"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, file.StatusWaiting, a.Status)
	assert.Len(t, mgr.Files(), 2)
}

func TestAddFileRejectsNameWithoutExtension(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	_, err = mgr.AddFile(FileSource{Name: "noextension", Data: []byte("x")})
	require.Error(t, err)
	assert.Empty(t, mgr.Files())
}

func TestMaxSizeRejectsOversizedFileWithinBatch(t *testing.T) {
	mgr, err := New(config.Config{MaxFileSize: 5}, memadapter.New(""))
	require.NoError(t, err)

	var fileErrors int
	mgr.On(eventbus.FileError, func(payload any) { fileErrors++ })

	admitted := mgr.AddFiles([]FileSource{
		{Name: "small.txt", Data: []byte("ok")},
		{Name: "big.txt", Data: []byte("way too big")},
		{Name: "alsosmall.txt", Data: []byte("ok2")},
	})

	require.Len(t, admitted, 2)
	assert.Equal(t, "small.txt", admitted[0].Name)
	assert.Equal(t, "alsosmall.txt", admitted[1].Name)

	// The oversized file is excluded from the admitted slice but still
	// present in the registry with an error status, per the
	// still-add-with-error-status contract.
	files := mgr.Files()
	require.Len(t, files, 3)
	var big *file.TrackedFile
	for _, f := range files {
		if f.Name == "big.txt" {
			big = f
		}
	}
	require.NotNil(t, big, "oversized file must still be present in the registry")
	assert.Equal(t, file.StatusError, big.Status)
	require.NotNil(t, big.Error)
	assert.Equal(t, 1, fileErrors)
}

func TestUploadReportsProgressThenCompletes(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	var progressEvents int
	var completed []*file.TrackedFile
	mgr.On(eventbus.UploadProgress, func(payload any) { progressEvents++ })
	mgr.On(eventbus.UploadComplete, func(payload any) {
		completed = payload.([]*file.TrackedFile)
	})

	f, err := mgr.AddFile(FileSource{Name: "doc.txt", Data: []byte("contents")})
	require.NoError(t, err)

	require.NoError(t, mgr.Upload())

	require.Len(t, completed, 1)
	assert.Equal(t, f.ID, completed[0].ID)
	assert.Equal(t, file.StatusComplete, completed[0].Status)
	assert.Equal(t, 100, completed[0].Progress.Percentage)
	assert.GreaterOrEqual(t, progressEvents, 1)
}

func TestRemoveFileDeletesFromStorageByDefault(t *testing.T) {
	adapter := memadapter.New("")
	mgr, err := New(config.Config{}, adapter)
	require.NoError(t, err)

	f, err := mgr.AddFile(FileSource{Name: "doc.txt", Data: []byte("contents")})
	require.NoError(t, err)
	require.NoError(t, mgr.Upload())

	got, err := mgr.GetFile(f.ID)
	require.NoError(t, err)
	key := got.StorageKey
	require.NotEmpty(t, key)

	mgr.RemoveFile(f.ID, nil)

	_, err = adapter.GetRemoteFile(mgr.hookContext(), key)
	assert.Error(t, err, "storage object should have been deleted on remove")
	assert.Empty(t, mgr.Files())
}

func TestRemoveFileWithDeleteNeverKeepsStorageObject(t *testing.T) {
	adapter := memadapter.New("")
	mgr, err := New(config.Config{}, adapter)
	require.NoError(t, err)

	f, err := mgr.AddFile(FileSource{Name: "doc.txt", Data: []byte("contents")})
	require.NoError(t, err)
	require.NoError(t, mgr.Upload())

	got, _ := mgr.GetFile(f.ID)
	key := got.StorageKey

	mgr.RemoveFile(f.ID, &RemoveOptions{DeleteFromStorage: DeleteNever})

	_, err = adapter.GetRemoteFile(mgr.hookContext(), key)
	assert.NoError(t, err, "storage object must survive a DeleteNever removal")
	assert.Empty(t, mgr.Files())
}

func TestRemoveFileUnknownIDIsNoOp(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	var removedEvents int
	mgr.On(eventbus.FileRemoved, func(payload any) { removedEvents++ })

	mgr.RemoveFile("does-not-exist", nil)
	assert.Equal(t, 0, removedEvents)
}

func TestInitialFilesFromReactiveSourceResolvesOnce(t *testing.T) {
	adapter := memadapter.New("")
	uploaded, err := adapter.Upload(hookctx.UploadContext{}, &file.TrackedFile{ID: "seed", Data: []byte("seed-bytes")})
	require.NoError(t, err)

	ch := make(chan []string, 2)
	mgr, err := New(config.Config{InitialFiles: config.ReactiveRefs(ch)}, adapter)
	require.NoError(t, err)

	assert.False(t, mgr.IsReady())

	ch <- []string{uploaded.StorageKey}
	waitFor(t, time.Second, mgr.IsReady)

	require.Len(t, mgr.Files(), 1)
	assert.Equal(t, file.SourceStorage, mgr.Files()[0].Source)

	// A second batch on the same channel must be ignored (one-shot latch).
	ch <- []string{uploaded.StorageKey, uploaded.StorageKey}
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, mgr.Files(), 1)
}

func TestTotalProgressIsZeroWhenNoFiles(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)
	assert.Equal(t, 0, mgr.TotalProgress())
}

func TestResetReleasesResourcesAndClearsFiles(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	_, err = mgr.AddFile(FileSource{Name: "doc.txt", Data: []byte("contents")})
	require.NoError(t, err)
	_, _ = mgr.GetFileURL(mgr.Files()[0].ID)
	assert.Equal(t, 1, mgr.Tracker().Count())

	mgr.Reset()

	assert.Empty(t, mgr.Files())
	assert.Equal(t, 0, mgr.Tracker().Count())
}

func TestUpdateFileMergesKnownKeysIntoTopLevelFields(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	f, err := mgr.AddFile(FileSource{Name: "a.txt", Data: []byte("x")})
	require.NoError(t, err)

	err = mgr.UpdateFile(f.ID, map[string]any{
		"name":     "renamed.txt",
		"mimeType": "text/plain",
		"status":   file.StatusComplete,
		"unknown":  "sticks-in-meta",
	})
	require.NoError(t, err)

	got, err := mgr.GetFile(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed.txt", got.Name)
	assert.Equal(t, "text/plain", got.MimeType)
	assert.Equal(t, file.StatusComplete, got.Status)
	assert.Equal(t, "sticks-in-meta", got.Meta["unknown"])
}

func TestUpdateFileIgnoresWrongTypedValueForKnownField(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	f, err := mgr.AddFile(FileSource{Name: "a.txt", Data: []byte("x")})
	require.NoError(t, err)

	err = mgr.UpdateFile(f.ID, map[string]any{"name": 42})
	require.NoError(t, err)

	got, err := mgr.GetFile(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", got.Name, "a non-string value for a known field must not clobber it")
}

func TestUpdateFileUnknownIDReturnsError(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	err = mgr.UpdateFile("does-not-exist", map[string]any{"name": "x"})
	assert.Error(t, err)
}

func TestPluginScopedEventsAreNamespacedPerPlugin(t *testing.T) {
	mgr, err := New(config.Config{}, memadapter.New(""))
	require.NoError(t, err)

	var mu sync.Mutex
	var seenCustom, seenOther int
	mgr.On("custom:tick", func(payload any) {
		mu.Lock()
		seenCustom++
		mu.Unlock()
	})
	mgr.On("other:tick", func(payload any) {
		mu.Lock()
		seenOther++
		mu.Unlock()
	})

	mgr.AddPlugin(plugin.Plugin{
		ID: "custom",
		Hooks: plugin.Hooks{
			Validate: func(f *file.TrackedFile, ctx hookctx.Context) error {
				ctx.Emit("tick", nil)
				return nil
			},
		},
	})

	_, err = mgr.AddFile(FileSource{Name: "a.txt", Data: []byte("x")})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, seenCustom)
	assert.Equal(t, 0, seenOther)
}
