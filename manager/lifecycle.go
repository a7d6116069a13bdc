package manager

import (
	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/eventbus"
	"github.com/nova-upload/uploadcore/file"
)

// FileSource is the caller-provided input to AddFile: a name, its
// bytes, and the declared MIME type. Meta, when non-nil, is copied
// onto the resulting TrackedFile (e.g. a "lastModified" entry for the
// duplicate validator).
type FileSource struct {
	Name     string
	Data     []byte
	MimeType string
	Meta     map[string]any
}

// AddFile derives an id from source.Name, builds a SourceLocal
// TrackedFile with Status=waiting and Progress=0, runs validate, and —
// on success — preprocess, then admits it to the registry and emits
// file:added. A validate failure still adds the file to the registry
// with Status=error, emits file:added then file:error, and returns the
// failure to the caller (so AddFiles excludes it from the admitted
// slice, even though the registry holds it). A preprocess failure
// follows the same still-admits shape.
func (m *Manager) AddFile(src FileSource) (*file.TrackedFile, error) {
	id, err := newFileID(src.Name)
	if err != nil {
		return nil, err
	}

	f := &file.TrackedFile{
		ID:       id,
		Name:     src.Name,
		Size:     int64(len(src.Data)),
		MimeType: src.MimeType,
		Source:   file.SourceLocal,
		Status:   file.StatusWaiting,
		Data:     src.Data,
		Meta:     src.Meta,
	}

	if err := m.runner.RunValidate(f, m.snapshot()); err != nil {
		f.Status = file.StatusError
		f.Error = errToFileError(err)
		m.reg.Push(f)
		m.clearUploadedLatch()
		m.bus.Emit(eventbus.FileAdded, f)
		m.bus.Emit(eventbus.FileError, fileErrorPayload(f, err))
		return nil, err
	}

	return m.admit(f), nil
}

// admit runs preprocess then pushes f into the registry. A preprocess
// error marks f Status=error and emits file:error, but f is still
// admitted so the UI can show the failure — the same still-admits
// handling AddFile gives a validate failure.
func (m *Manager) admit(f *file.TrackedFile) *file.TrackedFile {
	processed, err := m.runner.RunPreprocess(f, m.snapshot())
	if err != nil {
		processed.Status = file.StatusError
		processed.Error = &file.Error{Message: err.Error()}
		m.reg.Push(processed)
		m.clearUploadedLatch()
		m.bus.Emit(eventbus.FileAdded, processed)
		m.bus.Emit(eventbus.FileError, fileErrorPayload(processed, err))
		return processed
	}

	m.reg.Push(processed)
	m.clearUploadedLatch()
	m.bus.Emit(eventbus.FileAdded, processed)

	if m.cfg.AutoUpload {
		m.scheduleAutoUpload()
	}
	return processed
}

// AddFiles runs AddFile per source, never aborting the batch on an
// individual failure, and returns the sequence of successfully
// admitted files.
func (m *Manager) AddFiles(sources []FileSource) []*file.TrackedFile {
	var admitted []*file.TrackedFile
	for _, src := range sources {
		f, err := m.AddFile(src)
		if err != nil {
			continue
		}
		admitted = append(admitted, f)
	}
	return admitted
}

// scheduleAutoUpload dispatches Upload on the "microtask horizon": a
// goroutine started only after the synchronous file:added emission
// above has returned, so subscribers observe the new file before
// upload:start fires.
func (m *Manager) scheduleAutoUpload() {
	go m.Upload()
}

func fileErrorPayload(f *file.TrackedFile, err error) map[string]any {
	return map[string]any{
		"file":  f,
		"error": errToFileError(err),
	}
}

func errToFileError(err error) *file.Error {
	switch e := err.(type) {
	case *file.Error:
		return e
	case *errs.ValidationError:
		return &file.Error{Message: e.Message, Details: e.Details}
	default:
		return &file.Error{Message: err.Error()}
	}
}
