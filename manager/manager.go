// Package manager implements the Lifecycle Controller, File Operations
// and Initialization Protocol: the public surface of the upload core.
package manager

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nova-upload/uploadcore/builtin"
	"github.com/nova-upload/uploadcore/config"
	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/eventbus"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
	"github.com/nova-upload/uploadcore/plugin"
	"github.com/nova-upload/uploadcore/registry"
	"github.com/nova-upload/uploadcore/resource"
)

// Manager is the reactive, plugin-driven upload manager core.
type Manager struct {
	cfg     config.Config
	bus     *eventbus.Bus
	reg     *registry.Registry
	tracker *resource.Tracker
	runner  *plugin.Runner
	storage hookctx.StoragePort

	uploadedLatch atomic.Bool

	readyMu sync.RWMutex
	ready   bool

	initOnce sync.Once
}

// New validates and defaults cfg, installs the built-in plugins
// implied by it plus any caller-supplied plugins, and returns a ready
// Manager. Initialization of cfg.InitialFiles (if any) is started
// before New returns but may complete asynchronously; use IsReady/On
// to observe completion.
func New(cfg config.Config, storagePort hookctx.StoragePort, extraPlugins ...plugin.Plugin) (*Manager, error) {
	if err := config.Normalize(&cfg); err != nil {
		return nil, err
	}

	bus := eventbus.New()
	m := &Manager{
		cfg:     cfg,
		bus:     bus,
		reg:     registry.New(),
		tracker: resource.New(nil),
		runner:  plugin.New(bus),
		storage: storagePort,
	}
	m.runner.SetConfig(cfg)
	m.runner.SetStorage(storagePort)

	m.installBuiltins(cfg)
	for _, p := range extraPlugins {
		m.runner.Register(p)
	}
	if storagePort != nil {
		// Adapters count as plugins for emit-namespacing purposes, even
		// though the core drives Upload/GetRemoteFile/Remove directly
		// rather than through Runner's stage dispatch.
		m.runner.Register(plugin.Plugin{ID: "storage"})
	}

	m.startInitialFiles()

	return m, nil
}

func (m *Manager) installBuiltins(cfg config.Config) {
	if cfg.MaxFiles != config.Unbounded {
		m.runner.Register(builtin.MaxFilesValidator(cfg.MaxFiles))
	}
	if cfg.MaxFileSize != config.Unbounded {
		m.runner.Register(builtin.MaxSizeValidator(cfg.MaxFileSize))
	}
	if len(cfg.AllowedFileTypes) > 0 {
		m.runner.Register(builtin.AllowedTypesValidator(cfg.AllowedFileTypes))
	}
	if !cfg.SkipDuplicateCheck {
		m.runner.Register(builtin.DuplicateValidator())
	}
	if cfg.Thumbnails.Enabled {
		m.runner.Register(builtin.ThumbnailProcessor(cfg.Thumbnails))
	}
	if cfg.ImageCompression.Enabled {
		m.runner.Register(builtin.ImageCompressorProcessor(cfg.ImageCompression))
	}
}

// AddPlugin appends plugin p; it takes effect on subsequent file
// operations.
func (m *Manager) AddPlugin(p plugin.Plugin) {
	m.runner.Register(p)
}

// On subscribes handler to event, accepting both canonical and
// plugin-scoped ("<pluginId>:<action>") names.
func (m *Manager) On(event string, handler eventbus.Handler) (unsubscribe func()) {
	return m.bus.On(event, handler)
}

// Files returns a read-only snapshot of the tracked sequence in
// current order.
func (m *Manager) Files() []*file.TrackedFile {
	return m.reg.List()
}

// TotalProgress is the floored mean progress percentage across all
// tracked files; 0 when empty.
func (m *Manager) TotalProgress() int {
	return m.reg.DerivedTotalProgress()
}

// IsReady reports whether deferred initialization has completed (or
// there was none to perform).
func (m *Manager) IsReady() bool {
	m.readyMu.RLock()
	defer m.readyMu.RUnlock()
	return m.ready
}

// Status is a coarse-grained reactive summary, handy for UI binding.
type Status struct {
	Ready          bool
	FileCount      int
	TotalProgress  int
	AnyUploading   bool
	AnyErrored     bool
}

// Status computes the current coarse status snapshot.
func (m *Manager) Status() Status {
	files := m.reg.List()
	st := Status{
		Ready:         m.IsReady(),
		FileCount:     len(files),
		TotalProgress: m.reg.DerivedTotalProgress(),
	}
	for _, f := range files {
		if f.Status == file.StatusUploading {
			st.AnyUploading = true
		}
		if f.Status == file.StatusError {
			st.AnyErrored = true
		}
	}
	return st
}

func (m *Manager) setReady() {
	m.readyMu.Lock()
	m.ready = true
	m.readyMu.Unlock()
}

func (m *Manager) snapshot() []*file.TrackedFile {
	return file.Snapshot(m.reg.List())
}

func (m *Manager) clearUploadedLatch() {
	m.uploadedLatch.Store(false)
}

// maybeEmitFilesUploaded emits files:uploaded exactly once per
// completion cycle, guarded by a latch cleared whenever any mutation
// reintroduces a non-complete file (clearUploadedLatch).
func (m *Manager) maybeEmitFilesUploaded() {
	if !m.reg.AllComplete() {
		return
	}
	if m.uploadedLatch.CompareAndSwap(false, true) {
		m.bus.Emit(eventbus.FilesUploaded, m.reg.List())
	}
}

// Teardown releases every tracked object URL. The manager is not
// usable afterwards.
func (m *Manager) Teardown(ctx context.Context) {
	m.tracker.Cleanup("")
}

// Tracker exposes the manager's resource.Tracker so a sweeper (see
// package sweeper) can run a periodic backstop sweep over it.
func (m *Manager) Tracker() *resource.Tracker {
	return m.tracker
}

// LiveFileIDs returns the set of currently tracked file ids, the input
// a sweeper needs to distinguish an orphaned URL from a live one.
func (m *Manager) LiveFileIDs() map[string]struct{} {
	files := m.reg.List()
	ids := make(map[string]struct{}, len(files))
	for _, f := range files {
		ids[f.ID] = struct{}{}
	}
	return ids
}

// requireStorage returns errs.ErrNoStorageAdapter when no adapter is
// configured, satisfying the configuration-failure error kind.
func (m *Manager) requireStorage() error {
	if m.storage == nil {
		return errs.ErrNoStorageAdapter
	}
	return nil
}

func logAdapterFailure(op, fileID string, err error) {
	logx.Errorf("storage adapter %s failed for file %s: %v", op, fileID, err)
}
