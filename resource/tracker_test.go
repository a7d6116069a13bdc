package resource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateIsMemoized(t *testing.T) {
	tr := New(nil)
	a := tr.GetOrCreate("f1", []byte("x"))
	b := tr.GetOrCreate("f1", []byte("x"))
	assert.Equal(t, a, b)
	assert.Equal(t, 1, tr.Count())
}

func TestPeekMissingReturnsFalse(t *testing.T) {
	tr := New(nil)
	_, ok := tr.Peek("missing")
	assert.False(t, ok)
}

func TestReleaseRemovesSingleEntry(t *testing.T) {
	tr := New(nil)
	tr.GetOrCreate("f1", nil)
	tr.GetOrCreate("f2", nil)

	tr.Release("f1")

	_, ok := tr.Peek("f1")
	assert.False(t, ok)
	assert.Equal(t, 1, tr.Count())
}

func TestCleanupEmptyStringDrainsAll(t *testing.T) {
	tr := New(nil)
	tr.GetOrCreate("f1", nil)
	tr.GetOrCreate("f2", nil)

	tr.Cleanup("")

	assert.Equal(t, 0, tr.Count())
}

func TestSweepReleasesOrphanedStaleEntriesOnly(t *testing.T) {
	calls := map[string]int{}
	factory := func(fileID string, _ []byte) string {
		calls[fileID]++
		return "url-" + fileID
	}
	tr := New(factory)

	tr.GetOrCreate("live", nil)
	tr.GetOrCreate("orphan-fresh", nil)
	tr.GetOrCreate("orphan-stale", nil)

	live := map[string]struct{}{"live": {}}

	// Nothing is stale yet: a zero maxAge sweep still protects "live" but
	// would sweep everything else immediately, so use a large maxAge to
	// assert nothing is swept prematurely.
	swept := tr.Sweep(time.Hour, live)
	assert.Equal(t, 0, swept)
	assert.Equal(t, 3, tr.Count())

	// Now simulate staleness with a zero maxAge: everything not live goes.
	swept = tr.Sweep(0, live)
	assert.Equal(t, 2, swept)

	_, liveStillPresent := tr.Peek("live")
	assert.True(t, liveStillPresent)
	_, orphanPresent := tr.Peek("orphan-fresh")
	assert.False(t, orphanPresent)
}

func TestDefaultURLFactoryProducesBlobScheme(t *testing.T) {
	url := DefaultURLFactory("f1", nil)
	assert.Contains(t, url, "blob://f1/")
}

func TestCountReflectsActiveEntries(t *testing.T) {
	tr := New(nil)
	require.Equal(t, 0, tr.Count())
	tr.GetOrCreate("f1", nil)
	assert.Equal(t, 1, tr.Count())
}
