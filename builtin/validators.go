// Package builtin provides the core's built-in validators and
// processors: max-files, max-size, allowed-MIME-types and duplicate
// validators, plus the thumbnail generator and image compressor
// processors, all implementing the plugin contract from package
// plugin.
package builtin

import (
	"fmt"

	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/file"
	"github.com/nova-upload/uploadcore/hookctx"
	"github.com/nova-upload/uploadcore/plugin"
)

const (
	MaxFilesValidatorID  = "core:max-files"
	MaxSizeValidatorID   = "core:max-size"
	AllowedTypesValidatorID = "core:allowed-types"
	DuplicateValidatorID = "core:duplicate"
)

// MaxFilesValidator rejects admission when the current tracked count
// has already reached limit, i.e. when adding f would exceed it. A
// limit of 0 disables the validator.
func MaxFilesValidator(limit uint) plugin.Plugin {
	return plugin.Plugin{
		ID: MaxFilesValidatorID,
		Hooks: plugin.Hooks{
			Validate: func(f *file.TrackedFile, ctx hookctx.Context) error {
				if limit == 0 {
					return nil
				}
				if uint(len(ctx.Files)) >= limit {
					return errs.NewValidationError(
						fmt.Sprintf("cannot add more than %d file(s)", limit),
						map[string]any{"limit": limit},
					)
				}
				return nil
			},
		},
	}
}

// MaxSizeValidator rejects f when its size exceeds limit bytes. A
// limit of 0 disables the validator.
func MaxSizeValidator(limit uint64) plugin.Plugin {
	return plugin.Plugin{
		ID: MaxSizeValidatorID,
		Hooks: plugin.Hooks{
			Validate: func(f *file.TrackedFile, ctx hookctx.Context) error {
				if limit == 0 {
					return nil
				}
				if uint64(f.Size) > limit {
					return errs.NewValidationError(
						fmt.Sprintf("file %q exceeds the maximum size of %d bytes", f.Name, limit),
						map[string]any{"limit": limit, "size": f.Size},
					)
				}
				return nil
			},
		},
	}
}

// AllowedTypesValidator rejects f when its MimeType is not a member of
// allowed. An empty set disables the validator.
func AllowedTypesValidator(allowed []string) plugin.Plugin {
	set := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		set[t] = struct{}{}
	}
	return plugin.Plugin{
		ID: AllowedTypesValidatorID,
		Hooks: plugin.Hooks{
			Validate: func(f *file.TrackedFile, ctx hookctx.Context) error {
				if len(set) == 0 {
					return nil
				}
				if _, ok := set[f.MimeType]; !ok {
					return errs.NewValidationError(
						fmt.Sprintf("file type %q is not allowed", f.MimeType),
						map[string]any{"mimeType": f.MimeType},
					)
				}
				return nil
			},
		},
	}
}

// DuplicateValidator rejects f when another registered file shares its
// Name and Size and, when both carry a "lastModified" meta entry, the
// same last-modified timestamp.
func DuplicateValidator() plugin.Plugin {
	return plugin.Plugin{
		ID: DuplicateValidatorID,
		Hooks: plugin.Hooks{
			Validate: func(f *file.TrackedFile, ctx hookctx.Context) error {
				for _, existing := range ctx.Files {
					if existing.ID == f.ID {
						continue
					}
					if existing.Name != f.Name || existing.Size != f.Size {
						continue
					}
					if sameLastModified(existing, f) {
						return errs.NewValidationError(
							fmt.Sprintf("file %q has already been added", f.Name),
							map[string]any{"name": f.Name, "size": f.Size},
						)
					}
				}
				return nil
			},
		},
	}
}

func sameLastModified(a, b *file.TrackedFile) bool {
	am, aok := a.Meta["lastModified"]
	bm, bok := b.Meta["lastModified"]
	if !aok || !bok {
		// At least one file lacks the optional field: the name+size match
		// above is sufficient, per the duplicate-validator contract.
		return true
	}
	return am == bm
}
