package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-upload/uploadcore/errs"
	"github.com/nova-upload/uploadcore/file"
)

func tf(id string, pct int, status file.Status) *file.TrackedFile {
	return &file.TrackedFile{ID: id, Status: status, Progress: file.Progress{Percentage: pct}}
}

func TestPushAndList(t *testing.T) {
	r := New()
	r.Push(tf("a", 0, file.StatusWaiting))
	r.Push(tf("b", 0, file.StatusWaiting))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}

func TestByIDUnknownReturnsNotFound(t *testing.T) {
	r := New()
	_, err := r.ByID("missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestReplaceAtPreservesPosition(t *testing.T) {
	r := New()
	r.Push(tf("a", 0, file.StatusWaiting))
	r.Push(tf("b", 0, file.StatusWaiting))

	ok := r.ReplaceAt("a", tf("a", 50, file.StatusUploading))
	require.True(t, ok)

	list := r.List()
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, 50, list[0].Progress.Percentage)
}

func TestReplaceAtUnknownIDReturnsFalse(t *testing.T) {
	r := New()
	assert.False(t, r.ReplaceAt("ghost", tf("ghost", 0, file.StatusWaiting)))
}

func TestRemoveWhere(t *testing.T) {
	r := New()
	r.Push(tf("a", 0, file.StatusWaiting))
	r.Push(tf("b", 0, file.StatusError))
	r.Push(tf("c", 0, file.StatusWaiting))

	removed := r.RemoveWhere(func(f *file.TrackedFile) bool { return f.Status == file.StatusError })

	require.Len(t, removed, 1)
	assert.Equal(t, "b", removed[0].ID)
	assert.Equal(t, 2, r.Len())
}

func TestMoveNoOpOnEqualOrOutOfBoundsIndices(t *testing.T) {
	r := New()
	r.Push(tf("a", 0, file.StatusWaiting))
	r.Push(tf("b", 0, file.StatusWaiting))

	assert.False(t, r.Move(0, 0))
	assert.False(t, r.Move(-1, 1))
	assert.False(t, r.Move(0, 5))
}

func TestMoveReorders(t *testing.T) {
	r := New()
	r.Push(tf("a", 0, file.StatusWaiting))
	r.Push(tf("b", 0, file.StatusWaiting))
	r.Push(tf("c", 0, file.StatusWaiting))

	require.True(t, r.Move(0, 2))

	ids := []string{}
	for _, f := range r.List() {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestClearReturnsRemovedAndEmpties(t *testing.T) {
	r := New()
	r.Push(tf("a", 0, file.StatusWaiting))
	r.Push(tf("b", 0, file.StatusWaiting))

	removed := r.Clear()
	assert.Len(t, removed, 2)
	assert.Equal(t, 0, r.Len())
}

func TestDerivedTotalProgressIsFlooredMean(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.DerivedTotalProgress())

	r.Push(tf("a", 10, file.StatusUploading))
	r.Push(tf("b", 21, file.StatusUploading))

	// (10+21)/2 = 15.5, floored to 15
	assert.Equal(t, 15, r.DerivedTotalProgress())
}

func TestAllCompleteFalseWhenEmptyOrAnyIncomplete(t *testing.T) {
	r := New()
	assert.False(t, r.AllComplete())

	r.Push(tf("a", 100, file.StatusComplete))
	r.Push(tf("b", 40, file.StatusUploading))
	assert.False(t, r.AllComplete())

	r.ReplaceAt("b", tf("b", 100, file.StatusComplete))
	assert.True(t, r.AllComplete())
}
