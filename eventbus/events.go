package eventbus

// Canonical core event names. Plugin-scoped events are "<pluginID>:<action>"
// and are not enumerated here — any event name containing a colon other
// than these canonical ones is considered plugin-scoped.
const (
	FileAdded          = "file:added"
	FileRemoved        = "file:removed"
	FileReplaced       = "file:replaced"
	FileError          = "file:error"
	FilesReorder       = "files:reorder"
	UploadStart        = "upload:start"
	UploadProgress     = "upload:progress"
	UploadComplete     = "upload:complete"
	FilesUploaded      = "files:uploaded"
	InitialFilesLoaded = "initialFiles:loaded"
	InitialFilesError  = "initialFiles:error"
)
