package manager

import (
	"context"

	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/eventbus"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

// Upload collects files whose status is waiting (a snapshot taken at
// call time), emits upload:start, then drives each one in registry
// order through process -> uploading -> complete|error, sequentially,
// so that upload:progress events for file i complete before any event
// for file i+1. Calling Upload twice in succession with no intervening
// admissions calls the adapter's Upload hook once per waiting file
// across both calls combined — files already complete or errored are
// skipped (upload's idempotence).
func (m *Manager) Upload() error {
	if err := m.requireStorage(); err != nil {
		return err
	}

	waiting := m.waitingSnapshot()
	if len(waiting) == 0 {
		return nil
	}

	m.bus.Emit(eventbus.UploadStart, waiting)

	var completedThisRun []*file.TrackedFile
	for _, f := range waiting {
		if m.uploadOne(f) {
			completedThisRun = append(completedThisRun, f)
		}
	}

	m.bus.Emit(eventbus.UploadComplete, completedThisRun)
	m.maybeEmitFilesUploaded()
	return nil
}

// waitingSnapshot returns the registry's current *file.TrackedFile
// pointers (not clones — the lifecycle controller mutates them in
// place as it drives each through upload) whose Status is waiting.
func (m *Manager) waitingSnapshot() []*file.TrackedFile {
	var out []*file.TrackedFile
	for _, f := range m.reg.List() {
		if f.Status == file.StatusWaiting {
			out = append(out, f)
		}
	}
	return out
}

// uploadOne drives a single waiting file through process -> uploading
// -> complete|error and reports whether it reached complete.
func (m *Manager) uploadOne(f *file.TrackedFile) bool {
	processed, err := m.runner.RunProcess(f, m.snapshot())
	*f = *processed
	if err != nil {
		m.failFile(f, err)
		return false
	}

	f.Status = file.StatusUploading
	f.Progress.Percentage = 0

	uploadCtx := hookctx.UploadContext{
		Context: hookctx.Context{
			Context: context.Background(),
			Files:   m.snapshot(),
			Config:  m.cfg,
			Storage: m.storage,
			Emit:    m.runner.EmitterFor("storage"),
		},
		OnProgress: func(percentage int) {
			f.Progress.Percentage = clampPercentage(percentage, f.Progress.Percentage)
			m.bus.Emit(eventbus.UploadProgress, map[string]any{"file": f, "progress": f.Progress})
		},
	}

	result, err := m.storage.Upload(uploadCtx, f)
	if err != nil {
		m.failFile(f, errs.NewAdapterError("upload", err))
		return false
	}

	f.Status = file.StatusComplete
	f.Progress.Percentage = 100
	f.UploadResult = result.Extra
	if f.UploadResult == nil {
		f.UploadResult = result
	}
	f.RemoteURL = result.URL
	if result.StorageKey != "" {
		f.StorageKey = result.StorageKey
	}
	if f.Preview == "" {
		f.Preview = f.RemoteURL
	}

	m.runner.RunComplete(f, m.snapshot())
	return true
}

func (m *Manager) failFile(f *file.TrackedFile, err error) {
	f.Status = file.StatusError
	f.Error = errToFileError(err)
	m.bus.Emit(eventbus.FileError, fileErrorPayload(f, err))
}

// clampPercentage enforces [0,100] and monotonic non-decrease within
// one upload attempt.
func clampPercentage(next, current int) int {
	if next < current {
		return current
	}
	if next > 100 {
		return 100
	}
	if next < 0 {
		return 0
	}
	return next
}
