package manager

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nova-upload/uploadcore/errs"
)

// newFileID derives "{timestamp}-{random}.{ext}" where ext comes from
// name; it fails with errs.ErrInvalidFileName when name has no
// extension.
func newFileID(name string) (string, error) {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		return "", errs.ErrInvalidFileName
	}
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixNano(), random, ext), nil
}

// lastPathSegment returns the final "/"-delimited component of ref,
// used to derive a display name for initial files.
func lastPathSegment(ref string) string {
	idx := strings.LastIndexByte(ref, '/')
	if idx < 0 {
		return ref
	}
	return ref[idx+1:]
}
