package manager

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nova-upload/uploadcore/config"
	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/eventbus"
	"github.com/nova-upload/uploadcore/file"
)

// startInitialFiles resolves cfg.InitialFiles per the initialization
// protocol: absent sets readiness immediately; a static source
// resolves synchronously (within this call); a reactive source
// subscribes and resolves exactly once, on the first defined non-empty
// value (a one-shot latch — subsequent values are ignored).
func (m *Manager) startInitialFiles() {
	switch src := m.cfg.InitialFiles.(type) {
	case nil:
		m.setReady()
	case config.StaticRefs:
		m.resolveInitialFiles([]string(src))
	case config.ReactiveRefs:
		go m.watchReactiveRefs(src)
	default:
		m.setReady()
	}
}

func (m *Manager) watchReactiveRefs(ch <-chan []string) {
	m.initOnce.Do(func() {
		for refs := range ch {
			if len(refs) == 0 {
				continue
			}
			m.resolveInitialFiles(refs)
			return
		}
		// Channel closed without ever producing a non-empty value: still
		// set readiness so the UI never gets stuck.
		m.setReady()
	})
}

// resolveInitialFiles calls GetRemoteFile for each ref in order and
// pushes the resulting SourceStorage files into the registry. On
// success it emits initialFiles:loaded; on failure (including when no
// adapter is configured) it emits initialFiles:error — readiness is
// set either way, to avoid a stuck UI.
func (m *Manager) resolveInitialFiles(refs []string) {
	if len(refs) == 0 {
		m.setReady()
		return
	}

	if m.storage == nil {
		logx.Errorf("initialFiles: no storage adapter configured")
		m.bus.Emit(eventbus.InitialFilesError, errs.ErrNoStorageAdapter)
		m.setReady()
		return
	}

	var resolved []*file.TrackedFile
	for _, ref := range refs {
		f, err := m.resolveOne(ref)
		if err != nil {
			logx.Errorf("initialFiles: resolving %q failed: %v", ref, err)
			m.bus.Emit(eventbus.InitialFilesError, errs.NewAdapterError("getRemoteFile", err))
			m.setReady()
			return
		}
		m.reg.Push(f)
		resolved = append(resolved, f)
	}

	m.clearUploadedLatch()
	m.bus.Emit(eventbus.InitialFilesLoaded, resolved)
	m.setReady()
}

func (m *Manager) resolveOne(ref string) (*file.TrackedFile, error) {
	meta, err := m.storage.GetRemoteFile(m.hookContext(), ref)
	if err != nil {
		return nil, err
	}

	f := &file.TrackedFile{
		ID:           ref,
		Name:         lastPathSegment(ref),
		Size:         meta.Size,
		MimeType:     meta.MimeType,
		Source:       file.SourceStorage,
		Status:       file.StatusComplete,
		Progress:     file.Progress{Percentage: 100},
		RemoteURL:    meta.RemoteURL,
		StorageKey:   ref,
		Preview:      meta.Preview,
		UploadResult: meta.UploadResult,
	}
	return f, nil
}

// InitializeExistingFiles bulk-resolves refs, replacing the current
// registry entirely.
func (m *Manager) InitializeExistingFiles(refs []string) {
	removed := m.reg.Clear()
	for _, f := range removed {
		m.tracker.Release(f.ID)
	}
	m.resolveInitialFiles(refs)
}

// AppendExistingFiles resolves refs via the same path as
// InitializeExistingFiles, but deduplicates against current
// StorageKeys, respects MaxFiles, and emits file:added per admitted
// file (instead of the bulk initialFiles:loaded event).
func (m *Manager) AppendExistingFiles(ctx context.Context, refs []string) error {
	if err := m.requireStorage(); err != nil {
		return err
	}

	existingKeys := make(map[string]struct{})
	for _, f := range m.reg.List() {
		if f.StorageKey != "" {
			existingKeys[f.StorageKey] = struct{}{}
		}
	}

	for _, ref := range refs {
		if _, dup := existingKeys[ref]; dup {
			continue
		}
		if m.cfg.MaxFiles != config.Unbounded && uint(m.reg.Len()) >= m.cfg.MaxFiles {
			break
		}
		f, err := m.resolveOne(ref)
		if err != nil {
			logx.Errorf("appendExistingFiles: resolving %q failed: %v", ref, err)
			continue
		}
		m.reg.Push(f)
		existingKeys[ref] = struct{}{}
		m.clearUploadedLatch()
		m.bus.Emit(eventbus.FileAdded, f)
	}
	return nil
}
