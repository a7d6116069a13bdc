// Package sweeper runs a periodic backstop sweep over a manager's
// object URL tracker. It uses github.com/robfig/cron/v3 instead of a
// bare time.Ticker so the sweep cadence can be expressed as a standard
// cron spec.
package sweeper

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nova-upload/uploadcore/resource"
)

// LiveIDsFunc returns the set of file ids currently tracked, used to
// distinguish an orphaned URL from one still backing a live file.
type LiveIDsFunc func() map[string]struct{}

// Sweeper periodically calls Tracker.Sweep; every core removal path
// already releases its own URL, so under normal operation a sweep
// pass finds nothing to do — this is defense in depth, not the
// primary release mechanism (see resource.Tracker.Sweep).
type Sweeper struct {
	cron    *cron.Cron
	tracker *resource.Tracker
	liveIDs LiveIDsFunc
	maxAge  time.Duration
	entryID cron.EntryID
}

// New builds a Sweeper that, once started with Start, releases on each
// run any tracked URL older than maxAge whose owning file id is absent
// from liveIDs(). Start takes a standard 5-field cron expression or a
// descriptor such as "@every 5m"; a seconds field is not accepted.
func New(tracker *resource.Tracker, liveIDs LiveIDsFunc, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		cron:    cron.New(),
		tracker: tracker,
		liveIDs: liveIDs,
		maxAge:  maxAge,
	}
}

// Start schedules the sweep on spec (default "@every 5m") and begins
// running it in the background.
func (s *Sweeper) Start(spec string) error {
	if spec == "" {
		spec = "@every 5m"
	}
	id, err := s.cron.AddFunc(spec, s.runOnce)
	if err != nil {
		return err
	}
	s.entryID = id
	s.cron.Start()
	logx.Infof("sweeper: started with schedule %q", spec)
	return nil
}

// Stop halts the background schedule and waits for any in-flight sweep
// to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) runOnce() {
	s.tracker.Sweep(s.maxAge, s.liveIDs())
}
