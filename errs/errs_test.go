package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorCarriesMessageAndDetails(t *testing.T) {
	err := NewValidationError("too many files", map[string]any{"limit": 5})

	assert.Equal(t, "too many files", err.Error())
	assert.Equal(t, 5, err.Details["limit"])
}

func TestAdapterErrorUnwrapsToUnderlyingCause(t *testing.T) {
	cause := errors.New("bucket unreachable")
	err := NewAdapterError("upload", cause)

	assert.Contains(t, err.Error(), "upload")
	assert.Contains(t, err.Error(), "bucket unreachable")
	assert.ErrorIs(t, err, cause)
}

func TestConfigurationErrorUnwrapsToUnderlyingCause(t *testing.T) {
	cause := errors.New("MaxFiles must be non-negative")
	err := &ConfigurationError{Err: cause}

	assert.Contains(t, err.Error(), "MaxFiles must be non-negative")
	assert.ErrorIs(t, err, cause)
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrInvalidFileName, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrNoStorageAdapter))
}
