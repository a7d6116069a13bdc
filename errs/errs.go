// Package errs defines the error kinds the core surfaces to callers, per
// the exposed error taxonomy: InvalidFileName, NotFound, ValidationFailed,
// NoStorageAdapter and AdapterError.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel kinds. Use errors.Is against these to classify a failure.
var (
	ErrInvalidFileName = errors.New("uploadcore: invalid file name")
	ErrNotFound        = errors.New("uploadcore: file not found")
	ErrNoStorageAdapter = errors.New("uploadcore: no storage adapter configured")
)

// ValidationError is raised by a validator hook. Details is an optional,
// validator-specific payload (e.g. the offending limit).
type ValidationError struct {
	Message string
	Details map[string]any
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with optional details.
func NewValidationError(message string, details map[string]any) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// AdapterError wraps a failure raised by a storage adapter during upload,
// getRemoteFile or remove. Op names the adapter operation that failed.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("uploadcore: storage adapter %s failed: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// NewAdapterError wraps err as an AdapterError for adapter operation op.
func NewAdapterError(op string, err error) *AdapterError {
	return &AdapterError{Op: op, Err: err}
}

// ConfigurationError wraps a ManagerConfig validation failure.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("uploadcore: invalid configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
