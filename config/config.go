// Package config defines ManagerConfig and its validation/defaulting:
// struct tags validated with go-playground/validator/v10 and defaulted
// with mcuadros/go-defaults before the manager is constructed.
package config

import (
	"fmt"

	en "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	defaults "github.com/mcuadros/go-defaults"

	"github.com/nova-upload/uploadcore/errs"
)

// Unbounded is the sentinel meaning "no limit configured" for MaxFiles
// and MaxFileSize.
const Unbounded = 0

// ThumbnailOptions configures the built-in thumbnail generator
// processor. Zero value with Enabled=false disables the plugin.
type ThumbnailOptions struct {
	Enabled bool
	Width   int  `default:"200" validate:"gte=1"`
	Height  int  `default:"200" validate:"gte=1"`
	Quality int  `default:"80" validate:"gte=1,lte=100"`
	Upload  bool // upload the thumbnail to storage via the adapter's standalone upload path
}

// OutputFormat is the target encoding for the image compressor.
type OutputFormat string

const (
	OutputAuto OutputFormat = "auto" // preserve the original format
	OutputJPEG OutputFormat = "jpeg"
	OutputPNG  OutputFormat = "png"
)

// ImageCompressionOptions configures the built-in image compressor
// processor. Zero value with Enabled=false disables the plugin.
type ImageCompressionOptions struct {
	Enabled           bool
	MaxWidth          int          `default:"1920" validate:"gte=1"`
	MaxHeight         int          `default:"1080" validate:"gte=1"`
	Quality           int          `default:"80" validate:"gte=1,lte=100"`
	OutputFormat      OutputFormat `default:"auto"`
	MinSizeToCompress int64        `default:"102400" validate:"gte=0"` // bytes, default 100KiB
	// PreserveMetadata is accepted for shape-compatibility with callers
	// that set it, but is a documented no-op: see DESIGN.md.
	PreserveMetadata bool
}

// Config is the construction-time input to the manager, rendering
// ManagerConfig from the data model.
type Config struct {
	// MaxFiles disables the validator when equal to Unbounded.
	MaxFiles uint `validate:"gte=0"`
	// MaxFileSize (bytes) disables the validator when equal to Unbounded.
	MaxFileSize uint64 `validate:"gte=0"`
	// AllowedFileTypes disables the validator when empty.
	AllowedFileTypes []string

	Thumbnails       ThumbnailOptions
	ImageCompression ImageCompressionOptions

	// AutoUpload triggers upload() immediately (scheduled after
	// file:added) once a file finishes preprocessing.
	AutoUpload bool

	// SkipDuplicateCheck disables the built-in duplicate validator.
	SkipDuplicateCheck bool

	// InitialFiles is resolved by the initialization protocol (see
	// manager/init.go); nil means "absent" and readiness is immediate.
	InitialFiles InitialFilesSource
}

// InitialFilesSource is implemented by StaticRefs and ReactiveRefs.
type InitialFilesSource interface {
	isInitialFilesSource()
}

// StaticRefs resolves immediately to a fixed, ordered set of storage
// keys/refs.
type StaticRefs []string

func (StaticRefs) isInitialFilesSource() {}

// ReactiveRefs subscribes to a channel of ref batches and resolves
// exactly once, on the first defined non-empty value (one-shot latch).
// Subsequent values are ignored.
type ReactiveRefs <-chan []string

func (ReactiveRefs) isInitialFilesSource() {}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
}

// Normalize applies defaults then validates cfg. On failure it returns
// an *errs.ConfigurationError wrapping a *ConfigError describing the
// first violated constraint, so callers can use errors.As against
// either type depending on how much detail they need.
func Normalize(cfg *Config) error {
	defaults.SetDefaults(cfg)
	defaults.SetDefaults(&cfg.Thumbnails)
	defaults.SetDefaults(&cfg.ImageCompression)

	if err := validate.Struct(cfg); err != nil {
		var ce *ConfigError
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			ce = &ConfigError{Field: ve[0].Field(), Message: ve[0].Translate(trans)}
		} else {
			ce = &ConfigError{Message: err.Error()}
		}
		return &errs.ConfigurationError{Err: ce}
	}
	return nil
}

// ConfigError reports a single failed configuration constraint.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("uploadcore: invalid configuration: %s", e.Message)
	}
	return fmt.Sprintf("uploadcore: invalid configuration field %q: %s", e.Field, e.Message)
}
