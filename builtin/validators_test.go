package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
)

func ctxWith(files ...*file.TrackedFile) hookctx.Context {
	return hookctx.Context{Files: files}
}

func TestMaxFilesValidatorRejectsAtLimit(t *testing.T) {
	p := MaxFilesValidator(2)
	existing := []*file.TrackedFile{{ID: "a"}, {ID: "b"}}

	err := p.Hooks.Validate(&file.TrackedFile{ID: "c"}, ctxWith(existing...))

	require.Error(t, err)
	var ve *errs.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestMaxFilesValidatorZeroLimitDisables(t *testing.T) {
	p := MaxFilesValidator(0)
	err := p.Hooks.Validate(&file.TrackedFile{ID: "c"}, ctxWith())
	assert.NoError(t, err)
}

func TestMaxFilesValidatorAllowsBelowLimit(t *testing.T) {
	p := MaxFilesValidator(3)
	existing := []*file.TrackedFile{{ID: "a"}}
	err := p.Hooks.Validate(&file.TrackedFile{ID: "b"}, ctxWith(existing...))
	assert.NoError(t, err)
}

func TestMaxSizeValidatorRejectsOversized(t *testing.T) {
	p := MaxSizeValidator(100)
	err := p.Hooks.Validate(&file.TrackedFile{Name: "big.bin", Size: 200}, ctxWith())
	require.Error(t, err)
}

func TestMaxSizeValidatorAllowsExactLimit(t *testing.T) {
	p := MaxSizeValidator(100)
	err := p.Hooks.Validate(&file.TrackedFile{Name: "ok.bin", Size: 100}, ctxWith())
	assert.NoError(t, err)
}

func TestAllowedTypesValidatorRejectsUnlisted(t *testing.T) {
	p := AllowedTypesValidator([]string{"image/png", "image/jpeg"})
	err := p.Hooks.Validate(&file.TrackedFile{MimeType: "application/pdf"}, ctxWith())
	require.Error(t, err)
}

func TestAllowedTypesValidatorEmptySetDisables(t *testing.T) {
	p := AllowedTypesValidator(nil)
	err := p.Hooks.Validate(&file.TrackedFile{MimeType: "anything/whatever"}, ctxWith())
	assert.NoError(t, err)
}

func TestDuplicateValidatorRejectsSameNameAndSize(t *testing.T) {
	p := DuplicateValidator()
	existing := &file.TrackedFile{ID: "existing", Name: "a.png", Size: 10}

	err := p.Hooks.Validate(&file.TrackedFile{ID: "new", Name: "a.png", Size: 10}, ctxWith(existing))
	require.Error(t, err)
}

func TestDuplicateValidatorIgnoresItself(t *testing.T) {
	p := DuplicateValidator()
	self := &file.TrackedFile{ID: "self", Name: "a.png", Size: 10}

	err := p.Hooks.Validate(self, ctxWith(self))
	assert.NoError(t, err)
}

func TestDuplicateValidatorDistinguishesByLastModified(t *testing.T) {
	p := DuplicateValidator()
	existing := &file.TrackedFile{
		ID: "existing", Name: "a.png", Size: 10,
		Meta: map[string]any{"lastModified": int64(1000)},
	}
	candidate := &file.TrackedFile{
		ID: "new", Name: "a.png", Size: 10,
		Meta: map[string]any{"lastModified": int64(2000)},
	}

	err := p.Hooks.Validate(candidate, ctxWith(existing))
	assert.NoError(t, err)
}
