package sweeper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-upload/uploadcore/resource"
)

func TestRunOnceSweepsOrphanedEntries(t *testing.T) {
	tr := resource.New(nil)
	tr.GetOrCreate("live", nil)
	tr.GetOrCreate("orphan", nil)

	s := New(tr, func() map[string]struct{} {
		return map[string]struct{}{"live": {}}
	}, 0)

	s.runOnce()

	_, liveStillPresent := tr.Peek("live")
	assert.True(t, liveStillPresent)
	_, orphanPresent := tr.Peek("orphan")
	assert.False(t, orphanPresent)
}

func TestStartRejectsMalformedSpec(t *testing.T) {
	tr := resource.New(nil)
	s := New(tr, func() map[string]struct{} { return nil }, time.Minute)

	err := s.Start("not a valid cron spec !!!")
	require.Error(t, err)
}

func TestStartDefaultsSpecWhenEmpty(t *testing.T) {
	tr := resource.New(nil)
	s := New(tr, func() map[string]struct{} { return nil }, time.Minute)

	require.NoError(t, s.Start(""))
	s.Stop()
}
