package plugin

import (
	"context"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nova-upload/uploadcore/config"
	"github.com/nova-upload/uploadcore/eventbus"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

// Stage identifies one point in the pipeline: validate, preprocess,
// process or complete. Upload is driven directly against the storage
// port by the lifecycle controller, not through Runner.
type Stage string

const (
	StageValidate   Stage = "validate"
	StagePreprocess Stage = "preprocess"
	StageProcess    Stage = "process"
	StageComplete   Stage = "complete"
)

// Runner executes a given lifecycle stage across the registered plugin
// sequence for at most one file at a time, caching the per-plugin emit
// closure so it is created once and reused for the manager's lifetime.
type Runner struct {
	bus      *eventbus.Bus
	mu       sync.Mutex
	plugins  []Plugin
	emitByID map[string]hookctx.EmitFunc
	cfg      config.Config
	storage  hookctx.StoragePort
}

// New builds a Runner delivering plugin emits through bus.
func New(bus *eventbus.Bus) *Runner {
	return &Runner{
		bus:      bus,
		emitByID: make(map[string]hookctx.EmitFunc),
	}
}

// SetConfig updates the active configuration every subsequently built
// hookctx.Context carries.
func (r *Runner) SetConfig(cfg config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
}

// SetStorage updates the storage adapter handle every subsequently
// built hookctx.Context carries. A nil port means none is configured.
func (r *Runner) SetStorage(port hookctx.StoragePort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = port
}

// Register appends plugin p to the end of every stage's execution
// order — plugins run in registration order within a stage.
func (r *Runner) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins = append(r.plugins, p)
}

// Plugins returns the registered plugin sequence.
func (r *Runner) Plugins() []Plugin {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

func (r *Runner) emitterFor(pluginID string) hookctx.EmitFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.emitByID[pluginID]; ok {
		return e
	}
	e := r.bus.ScopedEmitter(pluginID)
	r.emitByID[pluginID] = e
	return e
}

func (r *Runner) baseContext(files []*file.TrackedFile, pluginID string) hookctx.Context {
	r.mu.Lock()
	cfg, sp := r.cfg, r.storage
	r.mu.Unlock()
	return hookctx.Context{
		Context: context.Background(),
		Files:   files,
		Config:  cfg,
		Storage: sp,
		Emit:    r.emitterFor(pluginID),
	}
}

// RunValidate runs every registered Validate hook in order against f.
// The first error aborts the stage and is returned; the Lifecycle
// Controller decides how the file is recorded, and the triggering
// operation reports the failure to its caller.
func (r *Runner) RunValidate(f *file.TrackedFile, files []*file.TrackedFile) error {
	for _, p := range r.Plugins() {
		if p.Hooks.Validate == nil {
			continue
		}
		ctx := r.baseContext(files, p.ID)
		if err := p.Hooks.Validate(f, ctx); err != nil {
			return err
		}
	}
	return nil
}

// RunPreprocess runs every registered Preprocess hook in order. A hook
// failure is returned to the caller (the Lifecycle Controller decides
// whether to still admit the file) and is always logged here, with the
// id of the plugin that failed, regardless of that decision.
func (r *Runner) RunPreprocess(f *file.TrackedFile, files []*file.TrackedFile) (*file.TrackedFile, error) {
	current := f
	for _, p := range r.Plugins() {
		if p.Hooks.Preprocess == nil {
			continue
		}
		ctx := r.baseContext(files, p.ID)
		next, err := p.Hooks.Preprocess(current, ctx)
		if err != nil {
			logx.Errorf("plugin %q preprocess failed for file %s: %v", p.ID, current.ID, err)
			return current, err
		}
		if next != nil {
			current = next
		}
	}
	return current, nil
}

// RunProcess runs every registered Process hook in order, threading the
// possibly-new file through each plugin.
func (r *Runner) RunProcess(f *file.TrackedFile, files []*file.TrackedFile) (*file.TrackedFile, error) {
	current := f
	for _, p := range r.Plugins() {
		if p.Hooks.Process == nil {
			continue
		}
		ctx := r.baseContext(files, p.ID)
		next, err := p.Hooks.Process(current, ctx)
		if err != nil {
			logx.Errorf("plugin %q process failed for file %s: %v", p.ID, current.ID, err)
			return current, err
		}
		if next != nil {
			current = next
		}
	}
	return current, nil
}

// RunComplete runs every registered Complete hook in order. Failures
// are logged but never reported to the caller — complete hooks are
// post-upload side effects.
func (r *Runner) RunComplete(f *file.TrackedFile, files []*file.TrackedFile) {
	for _, p := range r.Plugins() {
		if p.Hooks.Complete == nil {
			continue
		}
		ctx := r.baseContext(files, p.ID)
		if err := p.Hooks.Complete(f, ctx); err != nil {
			logx.Errorf("plugin %q complete failed for file %s: %v", p.ID, f.ID, err)
		}
	}
}

// EmitterFor exposes the cached per-plugin emit closure for pluginID,
// used by the lifecycle controller to build the upload context's Emit
// field for the storage adapter itself (adapters are plugins too).
func (r *Runner) EmitterFor(pluginID string) hookctx.EmitFunc {
	return r.emitterFor(pluginID)
}
